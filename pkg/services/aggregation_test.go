package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retailsense-api/pkg/models"
)

// Fixture compartida por los tests del paquete: dos familias, tres tiendas,
// dos temporadas y una devolución.
func sampleSales() []models.SalesRecord {
	return []models.SalesRecord{
		{Season: "Verano 2023", FamilyCode: "PAN", FamilyDescription: "Pantalones", Store: "Trucco Centro", Size: "M", SaleDate: "2023-06-10", Quantity: 10, Subtotal: 200, ProductCode: "P-1"},
		{Season: "Verano 2023", FamilyCode: "PAN", FamilyDescription: "Pantalones", Store: "Gran Via", Size: "L", SaleDate: "2023-06-12", Quantity: 5, Subtotal: 100, ProductCode: "P-2"},
		{Season: "Verano 2023", FamilyCode: "CAM", FamilyDescription: "Camisetas", Store: "Trucco Centro", Size: "M", SaleDate: "2023-07-01", Quantity: 7, Subtotal: 70, ProductCode: "C-1"},
		{Season: "Invierno 2024", FamilyCode: "CAM", FamilyDescription: "Camisetas", Store: "Online", Size: "S", SaleDate: "2024-01-15", Quantity: 4, Subtotal: 60, IsOnline: true, ProductCode: "C-2"},
		{Season: "Invierno 2024", FamilyCode: "PAN", FamilyDescription: "Pantalones", Store: "Gran Via", Size: "M", SaleDate: "2024-01-20", Quantity: -2, Subtotal: -40, ProductCode: "P-1"},
	}
}

func sampleProducts() []models.ProductRecord {
	return []models.ProductRecord{
		{ProductCode: "P-1", OrderedQuantity: 20, CostPrice: 8.5, Price: 19.95, FamilyCode: "PAN", Size: "M"},
		{ProductCode: "C-1", OrderedQuantity: 15, CostPrice: 3.2, Price: 9.95, FamilyCode: "CAM", Size: "M"},
	}
}

func sampleTransfers() []models.TransferRecord {
	return []models.TransferRecord{
		{ProductCode: "P-1", SentQuantity: 6, Store: "Trucco Centro", SentDate: "2023-05-30"},
		{ProductCode: "C-1", SentQuantity: 4, Store: "Gran Via", SentDate: "2023-06-20"},
	}
}

func TestTotalsIncludeReturns(t *testing.T) {
	agg := NewAggregationService()
	sales := sampleSales()

	assert.Equal(t, 24, agg.TotalUnits(sales))
	assert.InDelta(t, 390.0, agg.TotalRevenue(sales), 0.001)
	assert.Equal(t, 2, agg.ReturnedUnits(sales))
	assert.InDelta(t, 430.0, agg.NetRevenue(sales), 0.001)
}

func TestGroupTotalsPreserveSum(t *testing.T) {
	agg := NewAggregationService()
	sales := sampleSales()
	total := agg.TotalUnits(sales)

	for name, groups := range map[string][]models.GroupTotal{
		"tienda":    agg.GroupByStore(sales),
		"familia":   agg.GroupByFamily(sales),
		"temporada": agg.GroupBySeason(sales),
		"talla":     agg.GroupBySize(sales),
	} {
		sum := 0
		for _, g := range groups {
			sum += g.Units
		}
		assert.Equal(t, total, sum, "la agrupación por %s pierde unidades", name)
	}
}

func TestBlankCategoriesGetPlaceholder(t *testing.T) {
	agg := NewAggregationService()
	sales := []models.SalesRecord{
		{Store: "", Quantity: 3, Subtotal: 30},
		{Store: "Gran Via", Quantity: 2, Subtotal: 20},
	}

	groups := agg.GroupByStore(sales)
	names := []string{}
	sum := 0
	for _, g := range groups {
		names = append(names, g.Name)
		sum += g.Units
	}
	assert.Contains(t, names, NoStore)
	assert.Equal(t, 5, sum, "las filas sin tienda no pueden desaparecer del total")
}

func TestReturnRateBounds(t *testing.T) {
	agg := NewAggregationService()

	assert.Equal(t, 0.0, agg.ReturnRate(nil))
	assert.Equal(t, 0.0, agg.ReturnRate([]models.SalesRecord{{Quantity: -5, Subtotal: -50}}))

	rate := agg.ReturnRate(sampleSales())
	assert.Greater(t, rate, 0.0)
	assert.InDelta(t, 100.0*2.0/24.0, rate, 0.001)
}

func TestRankingIsStableOnTies(t *testing.T) {
	agg := NewAggregationService()
	// Dos tiendas empatadas a unidades: el orden de aparición en los datos
	// decide, no el azar del mapa.
	sales := []models.SalesRecord{
		{Store: "Alfa", Quantity: 5, Subtotal: 50},
		{Store: "Beta", Quantity: 5, Subtotal: 70},
		{Store: "Gamma", Quantity: 9, Subtotal: 90},
	}

	for i := 0; i < 20; i++ {
		top := agg.RankByUnits(agg.GroupByStore(sales), 0)
		assert.Equal(t, []string{"Gamma", "Alfa", "Beta"}, []string{top[0].Name, top[1].Name, top[2].Name})
	}
}

func TestFilterByYearMatchesSeasonAndDate(t *testing.T) {
	agg := NewAggregationService()

	// Por temporada: "Verano 2023" contiene el año.
	filtered := agg.FilterByYear(sampleSales(), "2023", "2023")
	assert.Len(t, filtered, 3)

	// Por fecha cuando la temporada no menciona el año.
	sales := []models.SalesRecord{
		{Season: "Rebajas", SaleDate: "2022-02-01", Quantity: 1, Subtotal: 10},
		{Season: "Rebajas", SaleDate: "2023-02-01", Quantity: 2, Subtotal: 20},
	}
	filtered = agg.FilterByYear(sales, "2023", "2023")
	assert.Len(t, filtered, 1)
	assert.Equal(t, 2, filtered[0].Quantity)
}

func TestDistinctDimensions(t *testing.T) {
	agg := NewAggregationService()
	sales := sampleSales()

	assert.Len(t, agg.DistinctStores(sales), 3)
	assert.Len(t, agg.DistinctFamilies(sales), 2)
	assert.Len(t, agg.DistinctSeasons(sales), 2)
	assert.Equal(t, 1, agg.OnlineStoreCount(sales))
	assert.Equal(t, 2, agg.PhysicalStoreCount(sales))
}

func TestBuildDigest(t *testing.T) {
	agg := NewAggregationService()
	d := agg.BuildDigest(sampleSales(), sampleProducts(), sampleTransfers())

	assert.Equal(t, 24, d.TotalUnits)
	assert.InDelta(t, 390.0, d.TotalRevenue, 0.001)
	assert.Equal(t, 3, d.UniqueStores)
	assert.Equal(t, 2, d.UniqueFamilies)
	assert.Equal(t, 1, d.OnlineStores)
	assert.Equal(t, 2, d.ReturnedUnits)
	assert.NotEmpty(t, d.TopStores)
	assert.Equal(t, "Trucco Centro", d.TopStores[0].Name)
	assert.Contains(t, d.BrandStores, "Trucco Centro")
	assert.Equal(t, 35, d.OrderedProductUnits)
	assert.Equal(t, 10, d.TransferredUnits)
	assert.Equal(t, 2, d.StoresWithTransfers)
}
