package services

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"retailsense-api/pkg/models"
)

// ResolverService camino determinista de respuesta: una cascada ordenada de
// reglas de intención sobre el texto del mensaje. La primera regla que
// reconoce la consulta gana; si ninguna la reconoce se devuelve false y el
// orquestador pasa al siguiente nivel. Una regla que reconoce la intención
// pero no encuentra datos responde con un mensaje explícito de "no
// encontrado", nunca con false.
type ResolverService struct {
	agg *AggregationService
}

// NewResolverService crea el resolver sobre el motor de agregación.
func NewResolverService(agg *AggregationService) *ResolverService {
	return &ResolverService{agg: agg}
}

// queryContext estado efímero de una consulta; se construye por mensaje y se
// descarta al responder.
type queryContext struct {
	message   string
	lower     string
	lang      Language
	sales     []models.SalesRecord
	products  []models.ProductRecord
	transfers []models.TransferRecord
}

type resolverRule struct {
	name  string
	apply func(s *ResolverService, q *queryContext) (string, bool)
}

// La prioridad de la cascada es una lista revisable, no profundidad de
// anidamiento. Las consultas con año van primero porque son las más
// específicas: una regla genérica de "ventas totales" no debe tragarse una
// pregunta acotada a un año.
var resolverRules = []resolverRule{
	{"year_filtered", (*ResolverService).resolveYearFiltered},
	{"counts", (*ResolverService).resolveCounts},
	{"sales_totals", (*ResolverService).resolveSalesTotals},
	{"returns", (*ResolverService).resolveReturns},
	{"superlative", (*ResolverService).resolveSuperlative},
	{"inverse_superlative", (*ResolverService).resolveWorst},
	{"average", (*ResolverService).resolveAverage},
	{"comparison", (*ResolverService).resolveComparison},
	{"store_search", (*ResolverService).resolveStoreSearch},
	{"store_sales", (*ResolverService).resolveStoreSales},
	{"family_sales", (*ResolverService).resolveFamilySales},
	{"help", (*ResolverService).resolveHelp},
	{"summary", (*ResolverService).resolveSummary},
	{"family_sizes", (*ResolverService).resolveFamilySizes},
	{"top_sizes", (*ResolverService).resolveTopSizes},
}

// Resolve evalúa la cascada de arriba a abajo. Devuelve false solo cuando
// ninguna regla reconoce el mensaje.
func (s *ResolverService) Resolve(message string, sales []models.SalesRecord, products []models.ProductRecord, transfers []models.TransferRecord) (string, bool) {
	q := &queryContext{
		message:   message,
		lower:     strings.ToLower(strings.TrimSpace(message)),
		lang:      DetectLanguage(message, LanguageEnglish),
		sales:     sales,
		products:  products,
		transfers: transfers,
	}
	log.Printf("🔍 Chatbot recibió: %q (idioma detectado: %s)", message, q.lang)

	for _, rule := range resolverRules {
		if answer, ok := rule.apply(s, q); ok {
			log.Printf("✅ Regla %q resolvió la consulta", rule.name)
			return answer, true
		}
	}
	return "", false
}

// --- Patrones de la cascada ---

var (
	yearPattern         = regexp.MustCompile(`(?:en\s+|del\s+)?(?:año\s+)?(\d{2,4})`)
	countAskPattern     = regexp.MustCompile(`\b(cuántas|cuantas|how many|how much)\b`)
	storeWordPattern    = regexp.MustCompile(`\b(tienda|tiendas|store|stores)\b`)
	familyWordPattern   = regexp.MustCompile(`\b(familia|familias|family|families)\b`)
	seasonWordPattern   = regexp.MustCompile(`\b(temporada|temporadas|season|seasons)\b`)
	productWordPattern  = regexp.MustCompile(`\b(producto|productos|product|products)\b`)
	physicalWordPattern = regexp.MustCompile(`\b(física|físicas|fisica|fisicas|physical)\b`)

	// Desambiguación talla/cantidad dentro de la rama de año. El orden de
	// prioridad entre estas tres señales se conserva tal cual: cantidad con
	// token de talla gana sobre "mejor talla" salvo superlativo explícito.
	sizeAskPattern     = regexp.MustCompile(`\b(size|talla|sizes|tallas|what size|qué talla|which size)\b`)
	totalAskPattern    = regexp.MustCompile(`\b(how many|how much|cuántos|cuántas|cuánto|total|sold|vendidos|vendidas)\b`)
	bestSizeAskPattern = regexp.MustCompile(`\b(best|mejor|top|más vendid|most sold|which size|qué talla)\b`)
	sizeTokenPattern   = regexp.MustCompile(`\b(?:talla|size|talle)\s+([a-zA-Z0-9]+)\b`)

	storeContainsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`tienda[s]?\s+(?:que\s+)?(?:contiene[n]?|tiene[n]?)\s+["']?([^"']+)["']?`),
		regexp.MustCompile(`stores?\s+(?:that\s+)?contain(?:ing|s)?\s+["']?([^"']+)["']?`),
	}
	storeSalesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`ventas?\s+(?:de\s+)?(?:la\s+)?tienda\s+["']?([^"']+)["']?`),
		regexp.MustCompile(`sales\s+(?:of|for)\s+(?:the\s+)?store\s+["']?([^"']+)["']?`),
	}
	familySalesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`ventas?\s+(?:de\s+)?(?:la\s+)?familia\s+["']?([^"']+)["']?`),
		regexp.MustCompile(`sales\s+(?:of|for)\s+(?:the\s+)?family\s+["']?([^"']+)["']?`),
	}
	sizeFamilyPattern = regexp.MustCompile(`(?:talla|tallas?)\s+(?:de\s+)?(?:la\s+)?(\w+)\s+(?:más|mas|máxima|maxima)\s+venta`)
	familySizePattern = regexp.MustCompile(`(?:qué|que)\s+talla\s+(?:de\s+)?(?:la\s+)?(\w+)\s+(?:ha\s+)?(?:sido|fue|es)\s+(?:la\s+)?(?:más|mas|máxima|maxima)\s+venta`)
)

// --- Tabla de sinónimos de familias (bilingüe) ---

// familyKeywords en orden de evaluación; por cada palabra se intenta primero
// coincidencia de palabra completa y después subcadena.
var familyKeywords = []string{
	"pantalón", "pantalones", "pants", "pant", "trousers",
	"jersey", "jerseys", "sweater", "sweaters",
	"vestido", "vestidos", "dress", "dresses",
	"camiseta", "camisetas", "shirt", "shirts", "t-shirt", "t-shirts", "tshirt", "tshirts",
	"top", "tops",
	"falda", "faldas", "skirt", "skirts",
	"blusa", "blusas", "blouse", "blouses",
	"abrigo", "abrigos", "coat", "coats", "jacket", "jackets",
	"chaqueta", "chaquetas",
}

// familyVariants variantes del nombre de familia en el dataset para cada
// palabra clave del usuario.
var familyVariants = map[string][]string{
	"pantalón":   {"pantalon", "pantalones", "pant"},
	"pantalones": {"pantalon", "pantalones", "pant"},
	"pants":      {"pantalon", "pantalones", "pant"},
	"pant":       {"pantalon", "pantalones", "pant"},
	"trousers":   {"pantalon", "pantalones", "pant"},
	"jersey":     {"jersey", "jerseys", "jersei"},
	"jerseys":    {"jersey", "jerseys", "jersei"},
	"sweater":    {"jersey", "jerseys", "jersei"},
	"sweaters":   {"jersey", "jerseys", "jersei"},
	"vestido":    {"vestido", "vestidos"},
	"vestidos":   {"vestido", "vestidos"},
	"dress":      {"vestido", "vestidos"},
	"dresses":    {"vestido", "vestidos"},
	"camiseta":   {"camiseta", "camisetas", "tshirt"},
	"camisetas":  {"camiseta", "camisetas", "tshirt"},
	"shirt":      {"camiseta", "camisetas", "tshirt"},
	"shirts":     {"camiseta", "camisetas", "tshirt"},
	"t-shirt":    {"camiseta", "camisetas", "tshirt"},
	"t-shirts":   {"camiseta", "camisetas", "tshirt"},
	"tshirt":     {"camiseta", "camisetas", "tshirt"},
	"tshirts":    {"camiseta", "camisetas", "tshirt"},
	"top":        {"top", "tops"},
	"tops":       {"top", "tops"},
	"falda":      {"falda", "faldas"},
	"faldas":     {"falda", "faldas"},
	"skirt":      {"falda", "faldas"},
	"skirts":     {"falda", "faldas"},
	"blusa":      {"blusa", "blusas"},
	"blusas":     {"blusa", "blusas"},
	"blouse":     {"blusa", "blusas"},
	"blouses":    {"blusa", "blusas"},
	"abrigo":     {"abrigo", "abrigos"},
	"abrigos":    {"abrigo", "abrigos"},
	"coat":       {"abrigo", "abrigos"},
	"coats":      {"abrigo", "abrigos"},
	"jacket":     {"abrigo", "abrigos", "chaqueta", "chaquetas"},
	"jackets":    {"abrigo", "abrigos", "chaqueta", "chaquetas"},
	"chaqueta":   {"chaqueta", "chaquetas"},
	"chaquetas":  {"chaqueta", "chaquetas"},
}

var familyKeywordWordPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(familyKeywords))
	for _, k := range familyKeywords {
		out[k] = regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`)
	}
	return out
}()

func detectFamilyKeyword(lower string) string {
	for _, keyword := range familyKeywords {
		if familyKeywordWordPatterns[keyword].MatchString(lower) {
			return keyword
		}
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}
	return ""
}

// matchFamily resuelve una palabra clave del usuario contra las familias
// reales del dataset: variantes conocidas, raíz de la palabra y, como último
// recurso, distancia de edición pequeña.
func (s *ResolverService) matchFamily(sales []models.SalesRecord, keyword string) (code, name string, found bool) {
	type family struct{ code, name string }
	seen := map[string]bool{}
	families := []family{}
	for _, r := range sales {
		if r.FamilyDescription == "" {
			continue
		}
		key := r.FamilyCode + "|" + r.FamilyDescription
		if !seen[key] {
			seen[key] = true
			families = append(families, family{r.FamilyCode, r.FamilyDescription})
		}
	}

	variants := familyVariants[keyword]
	if len(variants) == 0 {
		variants = []string{keyword}
	}
	for _, f := range families {
		nameLower := strings.ToLower(f.name)
		for _, v := range variants {
			if strings.Contains(nameLower, v) {
				return f.code, f.name, true
			}
		}
	}

	// Segundo intento: raíz de la palabra (plural y acento fuera).
	base := strings.TrimSuffix(keyword, "es")
	if strings.HasSuffix(base, "ón") {
		base = strings.TrimSuffix(base, "ón") + "on"
	}
	for _, f := range families {
		nameLower := strings.ToLower(f.name)
		if strings.Contains(nameLower, base) || strings.Contains(nameLower, keyword) {
			return f.code, f.name, true
		}
	}

	// Último recurso: distancia de edición contra el nombre completo.
	for _, f := range families {
		if levenshtein.ComputeDistance(strings.ToLower(f.name), keyword) <= 2 {
			return f.code, f.name, true
		}
	}
	return "", "", false
}

// --- Reglas ---

// resolveYearFiltered consultas acotadas por año/temporada. El token de año
// admite 2 a 4 dígitos en cualquier parte del mensaje (2 dígitos se asumen
// 20xx); la ambigüedad con otros números está asumida y cubierta en tests.
func (s *ResolverService) resolveYearFiltered(q *queryContext) (string, bool) {
	m := yearPattern.FindStringSubmatch(q.lower)
	if m == nil {
		return "", false
	}
	rawToken := m[1]
	year := rawToken
	if len(rawToken) == 2 {
		year = "20" + rawToken
	}
	log.Printf("🔍 Año detectado en la consulta: %s (token: %s)", year, rawToken)

	filtered := s.agg.FilterByYear(q.sales, year, rawToken)
	if len(filtered) == 0 {
		seasons := capStrings(s.agg.DistinctSeasons(q.sales), 10)
		return T(q.lang, "noDataForYear", year, strings.Join(seasons, ", ")), true
	}

	keyword := detectFamilyKeyword(q.lower)
	log.Printf("🔍 Familia detectada: %q", keyword)

	if keyword == "" {
		// Sin familia: talla más vendida del año o resumen general del año.
		if strings.Contains(q.lower, "talla") && containsAny(q.lower, "más", "mas", "máxima", "maxima") {
			positives := s.agg.FilterPositive(filtered)
			top := s.agg.RankByUnits(s.agg.GroupBySize(positives), 5)
			if len(top) > 0 {
				return T(q.lang, "topSizesInYear", year, numberedGroupList(q.lang, top)), true
			}
		}
		units := s.agg.TotalUnits(filtered)
		revenue := s.agg.TotalRevenue(filtered)
		return T(q.lang, "yearSummary", year, FormatInt(q.lang, units), FormatCurrency(q.lang, revenue)), true
	}

	code, name, found := s.matchFamily(q.sales, keyword)
	if !found {
		available := capStrings(s.agg.DistinctFamilies(filtered), 10)
		return T(q.lang, "familyNotFound", keyword, strings.Join(available, ", ")), true
	}

	familySales := s.agg.FilterPositive(s.agg.FilterByFamily(filtered, code, name))
	if len(familySales) == 0 {
		return T(q.lang, "familyNotFoundInYear", keyword, year), true
	}

	units := s.agg.TotalUnits(familySales)
	revenue := s.agg.TotalRevenue(familySales)

	asksSize := sizeAskPattern.MatchString(q.lower)
	asksTotal := totalAskPattern.MatchString(q.lower)
	asksBestSize := bestSizeAskPattern.MatchString(q.lower)

	// Prioridad 1: cantidad de una talla concreta ("cuántos pantalones
	// talla M en 2023"). Gana sobre "mejor talla" si no hay superlativo.
	if asksTotal && asksSize && !asksBestSize {
		if sm := sizeTokenPattern.FindStringSubmatch(q.lower); sm != nil {
			requested := strings.ToUpper(sm[1])
			sizeUnits := 0
			for _, g := range s.agg.GroupBySize(familySales) {
				if strings.ToUpper(g.Name) == requested {
					sizeUnits = g.Units
					break
				}
			}
			if sizeUnits > 0 {
				return T(q.lang, "sizeSoldInYear", year, FormatInt(q.lang, sizeUnits), name, requested), true
			}
			return T(q.lang, "sizeNotFoundInYear", name, requested, year), true
		}
		// Mencionó talla pero no se pudo extraer cuál: total con ingresos.
		return T(q.lang, "familySoldInYear", year, FormatInt(q.lang, units), name, FormatCurrency(q.lang, revenue)), true
	}

	// Prioridad 2: cantidad total de la familia sin mención de talla.
	if asksTotal && !asksSize {
		return T(q.lang, "familySoldInYearShort", year, FormatInt(q.lang, units), name), true
	}

	// Prioridad 3: mejor talla de la familia en el año.
	if asksSize || asksBestSize {
		top := s.agg.RankByUnits(s.agg.GroupBySize(familySales), 0)
		if len(top) > 0 {
			return T(q.lang, "bestSizeForFamily", year, name, top[0].Name, FormatInt(q.lang, top[0].Units), FormatInt(q.lang, units)), true
		}
	}

	return T(q.lang, "familySoldInYearShort", year, FormatInt(q.lang, units), name), true
}

// resolveCounts "cuántas/how many" + dimensión.
func (s *ResolverService) resolveCounts(q *queryContext) (string, bool) {
	if !countAskPattern.MatchString(q.lower) {
		return "", false
	}

	if storeWordPattern.MatchString(q.lower) {
		if strings.Contains(q.lower, "trucco") {
			brand := []string{}
			for _, name := range s.agg.DistinctStores(q.sales) {
				if strings.Contains(strings.ToLower(name), "trucco") {
					brand = append(brand, name)
				}
			}
			return T(q.lang, "storeCountTrucco", FormatInt(q.lang, len(brand)), strings.Join(brand, ", ")), true
		}
		if strings.Contains(q.lower, "online") {
			return T(q.lang, "storeCountOnline", FormatInt(q.lang, s.agg.OnlineStoreCount(q.sales))), true
		}
		if physicalWordPattern.MatchString(q.lower) {
			return T(q.lang, "storeCountPhysical", FormatInt(q.lang, s.agg.PhysicalStoreCount(q.sales))), true
		}
		return T(q.lang, "storeCount", FormatInt(q.lang, len(s.agg.DistinctStores(q.sales)))), true
	}

	if familyWordPattern.MatchString(q.lower) {
		return T(q.lang, "familyCount", FormatInt(q.lang, len(s.agg.DistinctFamilies(q.sales)))), true
	}
	if seasonWordPattern.MatchString(q.lower) {
		return T(q.lang, "seasonCount", FormatInt(q.lang, len(s.agg.DistinctSeasons(q.sales)))), true
	}
	if productWordPattern.MatchString(q.lower) {
		return T(q.lang, "productCount", FormatInt(q.lang, len(q.products))), true
	}
	return "", false
}

// resolveSalesTotals "ventas/sales" + calificador. Una comparación online
// vs física también contiene "ventas"; esa consulta se deja pasar hasta la
// regla de comparación.
func (s *ResolverService) resolveSalesTotals(q *queryContext) (string, bool) {
	if !containsAny(q.lower, "venta", "sales") {
		return "", false
	}
	if isChannelComparison(q.lower) {
		return "", false
	}
	switch {
	case containsAny(q.lower, "total", "cuánto", "cuanto", "how much"):
		units := FormatInt(q.lang, s.agg.TotalUnits(q.sales))
		revenue := FormatCurrency(q.lang, s.agg.TotalRevenue(q.sales))
		return T(q.lang, "totalSales", units, revenue), true
	case containsAny(q.lower, "bruta", "gross"):
		return T(q.lang, "grossSales", FormatCurrency(q.lang, s.agg.TotalRevenue(q.sales))), true
	case containsAny(q.lower, "neta", "net "):
		return T(q.lang, "netSales", FormatCurrency(q.lang, s.agg.NetRevenue(q.sales))), true
	case strings.Contains(q.lower, "online"):
		return T(q.lang, "onlineSales", FormatCurrency(q.lang, s.agg.OnlineRevenue(q.sales))), true
	case physicalWordPattern.MatchString(q.lower):
		return T(q.lang, "physicalSales", FormatCurrency(q.lang, s.agg.PhysicalRevenue(q.sales))), true
	}
	return "", false
}

/// resolveReturns devoluciones: total y tasa.
func (s *ResolverService) resolveReturns(q *queryContext) (string, bool) {
	if !containsAny(q.lower, "devolución", "devoluciones", "devolucion", "return") {
		return "", false
	}
	rate := FormatRate(s.agg.ReturnRate(q.sales))
	if containsAny(q.lower, "total", "cuánto", "cuanto", "how many", "how much") {
		units := FormatInt(q.lang, s.agg.ReturnedUnits(q.sales))
		return T(q.lang, "totalReturns", units) + " " + T(q.lang, "returnRate", rate), true
	}
	if containsAny(q.lower, "tasa", "porcentaje", "rate", "percentage") {
		return T(q.lang, "returnRate", rate), true
	}
	return "", false
}

// resolveSuperlative mejor/top/más + dimensión; re-ordena por beneficio si
// el mensaje lo pide.
func (s *ResolverService) resolveSuperlative(q *queryContext) (string, bool) {
	if !containsAny(q.lower, "mejor", "top", "más", "mas", "best", "most", "highest") {
		return "", false
	}

	if storeWordPattern.MatchString(q.lower) {
		top := s.agg.RankByUnits(s.agg.GroupByStore(q.sales), 5)
		if len(top) == 0 {
			return T(q.lang, "noData"), true
		}
		if containsAny(q.lower, "beneficio", "venta", "revenue") {
			byRevenue := s.agg.RankByRevenue(top, 3)
			return T(q.lang, "topStoresRevenueList", FormatInt(q.lang, len(byRevenue)), inlineRevenueList(q.lang, byRevenue)), true
		}
		return T(q.lang, "topStoresList", FormatInt(q.lang, len(top)), inlineUnitsList(q.lang, top)), true
	}

	if familyWordPattern.MatchString(q.lower) {
		top := s.agg.RankByUnits(s.agg.GroupByFamily(q.sales), 5)
		if len(top) == 0 {
			return T(q.lang, "noData"), true
		}
		return T(q.lang, "topFamiliesList", FormatInt(q.lang, len(top)), inlineUnitsList(q.lang, top)), true
	}

	if productWordPattern.MatchString(q.lower) {
		top := s.agg.RankByUnits(s.agg.GroupByProduct(q.sales), 5)
		if len(top) == 0 {
			return T(q.lang, "noData"), true
		}
		return T(q.lang, "topProductsList", FormatInt(q.lang, len(top)), inlineUnitsList(q.lang, top)), true
	}
	return "", false
}

// resolveWorst peor/menos + tienda: ranking ascendente.
func (s *ResolverService) resolveWorst(q *queryContext) (string, bool) {
	if !containsAny(q.lower, "peor", "menor", "menos", "worst", "least", "lowest") {
		return "", false
	}
	if !storeWordPattern.MatchString(q.lower) {
		return "", false
	}
	bottom := s.agg.RankByUnitsAscending(s.agg.GroupByStore(q.sales), 3)
	if len(bottom) == 0 {
		return T(q.lang, "noData"), true
	}
	return T(q.lang, "bottomStoresList", FormatInt(q.lang, len(bottom)), inlineUnitsList(q.lang, bottom)), true
}

// resolveAverage promedio de ventas por tienda.
func (s *ResolverService) resolveAverage(q *queryContext) (string, bool) {
	if !containsAny(q.lower, "promedio", "media", "average") {
		return "", false
	}
	if !containsAny(q.lower, "venta", "tienda", "sales", "store") {
		return "", false
	}
	stores := len(s.agg.DistinctStores(q.sales))
	avg := 0.0
	if stores > 0 {
		avg = float64(s.agg.TotalUnits(q.sales)) / float64(stores)
	}
	return T(q.lang, "avgPerStore", FormatAvg(avg)), true
}

// isChannelComparison detecta la pregunta de comparación de canales, que
// comparte vocabulario con los totales de ventas.
func isChannelComparison(lower string) bool {
	return containsAny(lower, "comparar", "vs", "versus", "compare") &&
		strings.Contains(lower, "online") && physicalWordPattern.MatchString(lower)
}

// resolveComparison online vs física: reparto porcentual del beneficio.
func (s *ResolverService) resolveComparison(q *queryContext) (string, bool) {
	if !isChannelComparison(q.lower) {
		return "", false
	}
	totalRevenue := s.agg.TotalRevenue(q.sales)
	online := s.agg.OnlineRevenue(q.sales)
	physical := s.agg.PhysicalRevenue(q.sales)
	pctOnline, pctPhysical := 0.0, 0.0
	if totalRevenue > 0 {
		pctOnline = online / totalRevenue * 100
		pctPhysical = physical / totalRevenue * 100
	}
	return T(q.lang, "comparisonOnlinePhysical",
		FormatRate(pctOnline), FormatCurrency(q.lang, online),
		FormatRate(pctPhysical), FormatCurrency(q.lang, physical)), true
}

// resolveStoreSearch "tiendas que contienen X" / "stores containing X".
func (s *ResolverService) resolveStoreSearch(q *queryContext) (string, bool) {
	term := firstSubmatch(storeContainsPatterns, q.lower)
	if term == "" {
		return "", false
	}
	matched := []string{}
	for _, name := range s.agg.DistinctStores(q.sales) {
		if strings.Contains(strings.ToLower(name), term) {
			matched = append(matched, name)
		}
	}
	if len(matched) == 0 {
		return T(q.lang, "storeSearchNotFound", term), true
	}
	return T(q.lang, "storesContaining", FormatInt(q.lang, len(matched)), term, strings.Join(matched, ", ")), true
}

// resolveStoreSales "ventas de la tienda X".
func (s *ResolverService) resolveStoreSales(q *queryContext) (string, bool) {
	term := firstSubmatch(storeSalesPatterns, q.lower)
	if term == "" {
		return "", false
	}
	lines := []string{}
	for _, name := range s.agg.DistinctStores(q.sales) {
		if !strings.Contains(strings.ToLower(name), term) {
			continue
		}
		storeSales := s.agg.FilterByStore(q.sales, name)
		units := FormatInt(q.lang, s.agg.TotalUnits(storeSales))
		revenue := FormatCurrency(q.lang, s.agg.TotalRevenue(storeSales))
		lines = append(lines, fmt.Sprintf("%s: %s %s, €%s", name, units, unitWord(q.lang), revenue))
	}
	if len(lines) == 0 {
		return T(q.lang, "storeSearchNotFound", term), true
	}
	return T(q.lang, "storeSalesList", strings.Join(lines, "\n")), true
}

// resolveFamilySales "ventas de la familia X".
func (s *ResolverService) resolveFamilySales(q *queryContext) (string, bool) {
	term := firstSubmatch(familySalesPatterns, q.lower)
	if term == "" {
		return "", false
	}
	lines := []string{}
	for _, g := range s.agg.GroupByFamily(q.sales) {
		if !strings.Contains(strings.ToLower(g.Name), term) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s %s, €%s", g.Name, FormatInt(q.lang, g.Units), unitWord(q.lang), FormatCurrency(q.lang, g.Revenue)))
	}
	if len(lines) == 0 {
		available := capStrings(s.agg.DistinctFamilies(q.sales), 10)
		return T(q.lang, "familyNotFound", term, strings.Join(available, ", ")), true
	}
	return T(q.lang, "familySalesList", strings.Join(lines, "\n")), true
}

// resolveHelp qué puedes hacer / help.
func (s *ResolverService) resolveHelp(q *queryContext) (string, bool) {
	spanishAsk := containsAny(q.lower, "qué", "que") && containsAny(q.lower, "puedo", "puedes", "ayuda")
	englishAsk := strings.Contains(q.lower, "help") || strings.Contains(q.lower, "what can you do")
	if !spanishAsk && !englishAsk {
		return "", false
	}
	return T(q.lang, "helpText"), true
}

// resolveSummary resumen general de KPIs.
func (s *ResolverService) resolveSummary(q *queryContext) (string, bool) {
	if !containsAny(q.lower, "resumen", "resume", "summary") {
		return "", false
	}
	digest := s.agg.BuildDigest(q.sales, q.products, q.transfers)
	return T(q.lang, "summaryReport",
		FormatInt(q.lang, digest.TotalUnits),
		FormatCurrency(q.lang, digest.TotalRevenue),
		FormatInt(q.lang, digest.ReturnedUnits),
		FormatRate(digest.ReturnRate),
		FormatInt(q.lang, digest.UniqueStores),
		FormatInt(q.lang, digest.OnlineStores),
		FormatInt(q.lang, digest.PhysicalStores),
		FormatInt(q.lang, digest.UniqueFamilies),
		FormatInt(q.lang, digest.UniqueSeasons),
		FormatAvg(digest.AvgUnitsPerStore)), true
}

// resolveFamilySizes "talla de X más vendida" sin año.
func (s *ResolverService) resolveFamilySizes(q *queryContext) (string, bool) {
	term := ""
	if m := sizeFamilyPattern.FindStringSubmatch(q.lower); m != nil {
		term = m[1]
	} else if m := familySizePattern.FindStringSubmatch(q.lower); m != nil {
		term = m[1]
	}
	if term == "" {
		return "", false
	}

	lines := []string{}
	for _, g := range s.agg.GroupByFamily(q.sales) {
		if !strings.Contains(strings.ToLower(g.Name), term) {
			continue
		}
		familySales := s.agg.FilterPositive(s.agg.FilterByFamily(q.sales, "", g.Name))
		top := s.agg.RankByUnits(s.agg.GroupBySize(familySales), 5)
		if len(top) == 0 {
			continue
		}
		parts := []string{}
		for _, t := range top {
			parts = append(parts, fmt.Sprintf("%s (%s %s)", t.Name, FormatInt(q.lang, t.Units), unitWord(q.lang)))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", g.Name, strings.Join(parts, ", ")))
	}
	if len(lines) == 0 {
		// La familia nombrada no existe: que lo intente la regla general.
		return "", false
	}
	return T(q.lang, "sizesForFamilyList", strings.Join(lines, "\n")), true
}

// resolveTopSizes tallas más vendidas en general (sin año en el mensaje; con
// año lo captura antes la regla de año).
func (s *ResolverService) resolveTopSizes(q *queryContext) (string, bool) {
	spanishAsk := strings.Contains(q.lower, "talla") &&
		containsAny(q.lower, "más", "mas", "máxima", "maxima") &&
		containsAny(q.lower, "venta", "vendida")
	englishAsk := strings.Contains(q.lower, "size") &&
		containsAny(q.lower, "best", "most") &&
		containsAny(q.lower, "sold", "selling")
	if !spanishAsk && !englishAsk {
		return "", false
	}
	positives := s.agg.FilterPositive(q.sales)
	top := s.agg.RankByUnits(s.agg.GroupBySize(positives), 10)
	if len(top) == 0 {
		return T(q.lang, "noData"), true
	}
	return T(q.lang, "topSizesList", FormatInt(q.lang, len(top)), numberedGroupList(q.lang, top)), true
}

// --- Helpers de formato de listas ---

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func capStrings(values []string, limit int) []string {
	if limit > 0 && len(values) > limit {
		return values[:limit]
	}
	return values
}

func firstSubmatch(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func unitWord(lang Language) string {
	if lang == LanguageEnglish {
		return "units"
	}
	return "unidades"
}

// "Nombre (1.234 unidades)" separado por comas.
func inlineUnitsList(lang Language, groups []models.GroupTotal) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s (%s %s)", g.Name, FormatInt(lang, g.Units), unitWord(lang)))
	}
	return strings.Join(parts, ", ")
}

// "Nombre (€1.234)" separado por comas.
func inlineRevenueList(lang Language, groups []models.GroupTotal) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s (€%s)", g.Name, FormatCurrency(lang, g.Revenue)))
	}
	return strings.Join(parts, ", ")
}

// Lista numerada multilínea "1. Nombre: 1.234 unidades".
func numberedGroupList(lang Language, groups []models.GroupTotal) string {
	lines := make([]string, 0, len(groups))
	for i, g := range groups {
		lines = append(lines, fmt.Sprintf("%d. %s: %s %s", i+1, g.Name, FormatInt(lang, g.Units), unitWord(lang)))
	}
	return strings.Join(lines, "\n")
}
