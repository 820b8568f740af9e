package services

import (
	"sort"
	"strings"
	"time"

	"retailsense-api/pkg/models"
)

// Marcadores para categorías en blanco. Un registro sin tienda o sin familia
// se agrupa bajo el marcador, nunca se descarta: la suma de los grupos debe
// igualar siempre la suma del conjunto sin agrupar.
const (
	NoStore   = "Sin Tienda"
	NoFamily  = "Sin Familia"
	NoSeason  = "Sin Temporada"
	NoSize    = "Sin Talla"
	NoProduct = "Sin Producto"
)

// AggregationService reducciones puras sobre el dataset de ventas. Sin
// estado; nunca muta las colecciones de entrada.
type AggregationService struct{}

// NewAggregationService crea el servicio de agregación.
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// --- Acumulador con orden de aparición ---
// Los mapas de Go no conservan orden; para que los empates del ranking se
// resuelvan por orden de aparición guardamos las claves aparte.

type groupAccumulator struct {
	order  []string
	groups map[string]*models.GroupTotal
}

func newGroupAccumulator() *groupAccumulator {
	return &groupAccumulator{groups: make(map[string]*models.GroupTotal)}
}

func (g *groupAccumulator) add(name string, units int, revenue float64) {
	entry, ok := g.groups[name]
	if !ok {
		entry = &models.GroupTotal{Name: name}
		g.groups[name] = entry
		g.order = append(g.order, name)
	}
	entry.Units += units
	entry.Revenue += revenue
	entry.Transactions++
}

func (g *groupAccumulator) totals() []models.GroupTotal {
	out := make([]models.GroupTotal, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, *g.groups[name])
	}
	return out
}

// --- Claves de dimensión ---

// FamilyKey prefiere la descripción y cae al código.
func (s *AggregationService) FamilyKey(r models.SalesRecord) string {
	if r.FamilyDescription != "" {
		return r.FamilyDescription
	}
	if r.FamilyCode != "" {
		return r.FamilyCode
	}
	return NoFamily
}

func (s *AggregationService) StoreKey(r models.SalesRecord) string {
	if r.Store != "" {
		return r.Store
	}
	return NoStore
}

func (s *AggregationService) SeasonKey(r models.SalesRecord) string {
	if r.Season != "" {
		return r.Season
	}
	return NoSeason
}

func (s *AggregationService) SizeKey(r models.SalesRecord) string {
	if size := strings.TrimSpace(r.Size); size != "" {
		return size
	}
	return NoSize
}

func (s *AggregationService) productKey(r models.SalesRecord) string {
	if r.ProductCode != "" {
		return r.ProductCode
	}
	return NoProduct
}

// --- Agrupaciones ---

// GroupByStore acumula unidades/ingresos por tienda en orden de aparición.
func (s *AggregationService) GroupByStore(sales []models.SalesRecord) []models.GroupTotal {
	acc := newGroupAccumulator()
	for _, r := range sales {
		acc.add(s.StoreKey(r), r.Quantity, r.Subtotal)
	}
	return acc.totals()
}

// GroupByFamily acumula por familia (descripción con fallback a código).
func (s *AggregationService) GroupByFamily(sales []models.SalesRecord) []models.GroupTotal {
	acc := newGroupAccumulator()
	for _, r := range sales {
		acc.add(s.FamilyKey(r), r.Quantity, r.Subtotal)
	}
	return acc.totals()
}

// GroupBySeason acumula por temporada.
func (s *AggregationService) GroupBySeason(sales []models.SalesRecord) []models.GroupTotal {
	acc := newGroupAccumulator()
	for _, r := range sales {
		acc.add(s.SeasonKey(r), r.Quantity, r.Subtotal)
	}
	return acc.totals()
}

// GroupBySize acumula por talla.
func (s *AggregationService) GroupBySize(sales []models.SalesRecord) []models.GroupTotal {
	acc := newGroupAccumulator()
	for _, r := range sales {
		acc.add(s.SizeKey(r), r.Quantity, r.Subtotal)
	}
	return acc.totals()
}

// GroupByProduct acumula por código único de producto.
func (s *AggregationService) GroupByProduct(sales []models.SalesRecord) []models.GroupTotal {
	acc := newGroupAccumulator()
	for _, r := range sales {
		acc.add(s.productKey(r), r.Quantity, r.Subtotal)
	}
	return acc.totals()
}

// GroupByMonth acumula por mes de calendario (YYYY-MM desde la fecha de
// venta), ordenado ascendente. Registros sin fecha parseable se omiten.
func (s *AggregationService) GroupByMonth(sales []models.SalesRecord) []models.MonthTotal {
	order := []string{}
	months := make(map[string]*models.MonthTotal)
	for _, r := range sales {
		t, ok := parseSaleDate(r.SaleDate)
		if !ok {
			continue
		}
		key := t.Format("2006-01")
		entry, exists := months[key]
		if !exists {
			entry = &models.MonthTotal{Month: key}
			months[key] = entry
			order = append(order, key)
		}
		entry.Units += r.Quantity
		entry.Revenue += r.Subtotal
	}
	sort.Strings(order)
	out := make([]models.MonthTotal, 0, len(order))
	for _, key := range order {
		out = append(out, *months[key])
	}
	return out
}

// --- Rankings ---
// Orden estable: los empates conservan el orden de aparición del grupo.

// RankByUnits devuelve los grupos ordenados por unidades descendente.
func (s *AggregationService) RankByUnits(groups []models.GroupTotal, limit int) []models.GroupTotal {
	ranked := make([]models.GroupTotal, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Units > ranked[j].Units })
	return capGroups(ranked, limit)
}

// RankByUnitsAscending devuelve los grupos de menos a más unidades.
func (s *AggregationService) RankByUnitsAscending(groups []models.GroupTotal, limit int) []models.GroupTotal {
	ranked := make([]models.GroupTotal, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Units < ranked[j].Units })
	return capGroups(ranked, limit)
}

// RankByRevenue ordena por ingresos descendente; solo cuando la consulta
// pide explícitamente beneficio.
func (s *AggregationService) RankByRevenue(groups []models.GroupTotal, limit int) []models.GroupTotal {
	ranked := make([]models.GroupTotal, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Revenue > ranked[j].Revenue })
	return capGroups(ranked, limit)
}

func capGroups(groups []models.GroupTotal, limit int) []models.GroupTotal {
	if limit > 0 && len(groups) > limit {
		return groups[:limit]
	}
	return groups
}

// --- KPIs básicos ---

func (s *AggregationService) TotalUnits(sales []models.SalesRecord) int {
	total := 0
	for _, r := range sales {
		total += r.Quantity
	}
	return total
}

func (s *AggregationService) TotalRevenue(sales []models.SalesRecord) float64 {
	total := 0.0
	for _, r := range sales {
		total += r.Subtotal
	}
	return total
}

// ReturnedUnits suma el valor absoluto de las cantidades negativas.
func (s *AggregationService) ReturnedUnits(sales []models.SalesRecord) int {
	total := 0
	for _, r := range sales {
		if r.Quantity < 0 {
			total += -r.Quantity
		}
	}
	return total
}

// NetRevenue suma el subtotal solo de las líneas con cantidad positiva.
func (s *AggregationService) NetRevenue(sales []models.SalesRecord) float64 {
	total := 0.0
	for _, r := range sales {
		if r.Quantity > 0 {
			total += r.Subtotal
		}
	}
	return total
}

// ReturnRate devoluciones / unidades totales x 100.
func (s *AggregationService) ReturnRate(sales []models.SalesRecord) float64 {
	totalUnits := s.TotalUnits(sales)
	if totalUnits <= 0 {
		return 0
	}
	return float64(s.ReturnedUnits(sales)) / float64(totalUnits) * 100
}

func (s *AggregationService) OnlineUnits(sales []models.SalesRecord) int {
	total := 0
	for _, r := range sales {
		if r.IsOnline {
			total += r.Quantity
		}
	}
	return total
}

func (s *AggregationService) PhysicalUnits(sales []models.SalesRecord) int {
	total := 0
	for _, r := range sales {
		if !r.IsOnline {
			total += r.Quantity
		}
	}
	return total
}

func (s *AggregationService) OnlineRevenue(sales []models.SalesRecord) float64 {
	total := 0.0
	for _, r := range sales {
		if r.IsOnline {
			total += r.Subtotal
		}
	}
	return total
}

func (s *AggregationService) PhysicalRevenue(sales []models.SalesRecord) float64 {
	total := 0.0
	for _, r := range sales {
		if !r.IsOnline {
			total += r.Subtotal
		}
	}
	return total
}

// --- Valores distintos (orden de aparición) ---

func distinct(values []string, skipEmpty bool) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, v := range values {
		if skipEmpty && v == "" {
			continue
		}
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// DistinctStores nombres de tienda distintos, en orden de aparición. El
// nombre vacío cuenta como tienda propia, igual que en los conteos.
func (s *AggregationService) DistinctStores(sales []models.SalesRecord) []string {
	names := make([]string, 0, len(sales))
	for _, r := range sales {
		names = append(names, r.Store)
	}
	return distinct(names, false)
}

// DistinctFamilies descripciones de familia distintas (fallback a código).
func (s *AggregationService) DistinctFamilies(sales []models.SalesRecord) []string {
	names := make([]string, 0, len(sales))
	for _, r := range sales {
		if r.FamilyDescription != "" {
			names = append(names, r.FamilyDescription)
		} else {
			names = append(names, r.FamilyCode)
		}
	}
	return distinct(names, true)
}

func (s *AggregationService) DistinctSeasons(sales []models.SalesRecord) []string {
	names := make([]string, 0, len(sales))
	for _, r := range sales {
		names = append(names, r.Season)
	}
	return distinct(names, true)
}

func (s *AggregationService) DistinctSizes(sales []models.SalesRecord) []string {
	names := make([]string, 0, len(sales))
	for _, r := range sales {
		names = append(names, r.Size)
	}
	return distinct(names, true)
}

func (s *AggregationService) DistinctColors(sales []models.SalesRecord) []string {
	names := make([]string, 0, len(sales))
	for _, r := range sales {
		names = append(names, r.Color)
	}
	return distinct(names, true)
}

// OnlineStoreCount tiendas distintas con ventas online.
func (s *AggregationService) OnlineStoreCount(sales []models.SalesRecord) int {
	names := []string{}
	for _, r := range sales {
		if r.IsOnline {
			names = append(names, r.Store)
		}
	}
	return len(distinct(names, false))
}

// PhysicalStoreCount tiendas distintas con ventas físicas.
func (s *AggregationService) PhysicalStoreCount(sales []models.SalesRecord) int {
	names := []string{}
	for _, r := range sales {
		if !r.IsOnline {
			names = append(names, r.Store)
		}
	}
	return len(distinct(names, false))
}

// --- Filtros ---

// FilterByYear filtra por temporada que contenga el año (o el token tal
// cual lo escribió el usuario) y, en su defecto, por el año de la fecha de
// venta. No muta la entrada.
func (s *AggregationService) FilterByYear(sales []models.SalesRecord, year, rawToken string) []models.SalesRecord {
	out := []models.SalesRecord{}
	for _, r := range sales {
		season := strings.ToLower(r.Season)
		if season != "" && (strings.Contains(season, year) || strings.Contains(season, rawToken)) {
			out = append(out, r)
			continue
		}
		if t, ok := parseSaleDate(r.SaleDate); ok {
			saleYear := t.Format("2006")
			if saleYear == year || strings.Contains(saleYear, rawToken) {
				out = append(out, r)
			}
		}
	}
	return out
}

// FilterPositive solo líneas de venta (cantidad > 0).
func (s *AggregationService) FilterPositive(sales []models.SalesRecord) []models.SalesRecord {
	out := []models.SalesRecord{}
	for _, r := range sales {
		if r.Quantity > 0 {
			out = append(out, r)
		}
	}
	return out
}

// FilterByStore líneas de una tienda exacta.
func (s *AggregationService) FilterByStore(sales []models.SalesRecord, store string) []models.SalesRecord {
	out := []models.SalesRecord{}
	for _, r := range sales {
		if r.Store == store {
			out = append(out, r)
		}
	}
	return out
}

// FilterByFamily líneas cuya familia coincide por código o descripción.
func (s *AggregationService) FilterByFamily(sales []models.SalesRecord, code, description string) []models.SalesRecord {
	out := []models.SalesRecord{}
	for _, r := range sales {
		if (code != "" && r.FamilyCode == code) || (description != "" && r.FamilyDescription == description) {
			out = append(out, r)
		}
	}
	return out
}

var saleDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
}

func parseSaleDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// --- Digest estadístico ---

// BuildDigest calcula la foto completa de agregados que alimenta tanto el
// prompt conversacional como el endpoint de KPIs del dashboard. Se computa
// de cero en cada llamada; datos derivados puros.
func (s *AggregationService) BuildDigest(sales []models.SalesRecord, products []models.ProductRecord, transfers []models.TransferRecord) models.StatsDigest {
	storeGroups := s.GroupByStore(sales)

	digest := models.StatsDigest{
		TotalUnits:      s.TotalUnits(sales),
		TotalRevenue:    s.TotalRevenue(sales),
		NetRevenue:      s.NetRevenue(sales),
		ReturnedUnits:   s.ReturnedUnits(sales),
		ReturnRate:      s.ReturnRate(sales),
		UniqueStores:    len(s.DistinctStores(sales)),
		UniqueFamilies:  len(s.DistinctFamilies(sales)),
		UniqueSeasons:   len(s.DistinctSeasons(sales)),
		UniqueSizes:     len(s.DistinctSizes(sales)),
		UniqueColors:    len(s.DistinctColors(sales)),
		OnlineStores:    s.OnlineStoreCount(sales),
		PhysicalStores:  s.PhysicalStoreCount(sales),
		OnlineUnits:     s.OnlineUnits(sales),
		PhysicalUnits:   s.PhysicalUnits(sales),
		OnlineRevenue:   s.OnlineRevenue(sales),
		PhysicalRevenue: s.PhysicalRevenue(sales),
		TopStores:       s.RankByUnits(storeGroups, 10),
		WorstStores:     s.RankByUnitsAscending(storeGroups, 5),
		TopFamilies:     s.RankByUnits(s.GroupByFamily(sales), 10),
		TopSeasons:      s.RankByUnits(s.GroupBySeason(sales), 10),
		TopSizes:        s.RankByUnits(s.GroupBySize(sales), 10),
		TopProducts:     s.RankByUnits(s.GroupByProduct(sales), 10),
	}

	if digest.UniqueStores > 0 {
		digest.AvgUnitsPerStore = float64(digest.TotalUnits) / float64(digest.UniqueStores)
		digest.AvgRevenuePerStore = digest.TotalRevenue / float64(digest.UniqueStores)
	}

	// Estadísticas suplementarias de productos y traspasos.
	priced := 0
	for _, p := range products {
		digest.OrderedProductUnits += p.OrderedQuantity
		if p.CostPrice > 0 {
			digest.AvgCostPrice += p.CostPrice
			priced++
		}
	}
	if priced > 0 {
		digest.AvgCostPrice /= float64(priced)
	}

	transferStores := []string{}
	for _, t := range transfers {
		digest.TransferredUnits += t.SentQuantity
		transferStores = append(transferStores, t.Store)
	}
	digest.StoresWithTransfers = len(distinct(transferStores, true))

	stores := s.DistinctStores(sales)
	sort.Strings(stores)
	digest.StoreNames = stores
	for _, name := range stores {
		if strings.Contains(strings.ToLower(name), "trucco") {
			digest.BrandStores = append(digest.BrandStores, name)
		}
	}
	families := s.DistinctFamilies(sales)
	sort.Strings(families)
	digest.FamilyNames = families

	return digest
}
