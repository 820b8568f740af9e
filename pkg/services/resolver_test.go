package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *ResolverService {
	return NewResolverService(NewAggregationService())
}

func TestResolverFamilyInYearSpanish(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("cuántos pantalones se vendieron en 2023", sampleSales(), nil, nil)

	assert.True(t, ok)
	expected := T(LanguageSpanish, "familySoldInYearShort", "2023", "15", "Pantalones")
	assert.Equal(t, expected, answer)
}

func TestResolverStoreCountEnglish(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("how many stores are there?", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Equal(t, T(LanguageEnglish, "storeCount", "3"), answer)
}

func TestResolverYearRuleBeatsGenericTotals(t *testing.T) {
	// "ventas totales en 2023" menciona un año: debe responder la regla de
	// año con las cifras filtradas, no el total global.
	r := newTestResolver()
	answer, ok := r.Resolve("ventas totales en 2023", sampleSales(), nil, nil)

	assert.True(t, ok)
	expected := T(LanguageSpanish, "yearSummary", "2023",
		FormatInt(LanguageSpanish, 22), FormatCurrency(LanguageSpanish, 370))
	assert.Equal(t, expected, answer)
}

func TestResolverYearRuleTwoDigitToken(t *testing.T) {
	// Un token de 2 dígitos se asume siglo XXI: "99" pasa a "2099". El
	// comportamiento es discutible para años noventa pero es el contrato
	// vigente; este test lo fija.
	r := newTestResolver()
	answer, ok := r.Resolve("ventas en el año 99", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Contains(t, answer, "2099")
}

func TestResolverSizeQuantityPriority(t *testing.T) {
	// Cantidad + talla concreta gana sobre "mejor talla" cuando no hay
	// superlativo en el mensaje.
	r := newTestResolver()
	answer, ok := r.Resolve("cuántas camisetas talla M se vendieron en 2023", sampleSales(), nil, nil)

	assert.True(t, ok)
	expected := T(LanguageSpanish, "sizeSoldInYear", "2023", "7", "Camisetas", "M")
	assert.Equal(t, expected, answer)
}

func TestResolverBestSizeForFamily(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("cuál fue la mejor talla de pantalones en 2023", sampleSales(), nil, nil)

	assert.True(t, ok)
	// Pantalones 2023: M=10, L=5.
	expected := T(LanguageSpanish, "bestSizeForFamily", "2023", "Pantalones", "M", "10", "15")
	assert.Equal(t, expected, answer)
}

func TestResolverUnknownFamilyInYear(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("cuántas faldas se vendieron en 2023", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Contains(t, answer, "falda")
	// Lista las familias realmente disponibles.
	assert.Contains(t, answer, "Pantalones")
}

func TestResolverNoDataForYear(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("ventas en 2019", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Contains(t, answer, "2019")
}

func TestResolverTruccoStoreCount(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("cuántas tiendas trucco hay", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Equal(t, T(LanguageSpanish, "storeCountTrucco", "1", "Trucco Centro"), answer)
}

func TestResolverReturns(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("cuántas devoluciones hay en total", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Contains(t, answer, "2")
	assert.Contains(t, answer, "%")
}

func TestResolverTopStores(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("cuáles son las mejores tiendas", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Contains(t, answer, "Trucco Centro")
}

func TestResolverWorstStores(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("qué tiendas tienen menos ventas", sampleSales(), nil, nil)

	assert.True(t, ok)
	// Gran Via acumula 3 unidades netas, la peor de las tres.
	assert.Contains(t, answer, "Gran Via")
}

func TestResolverComparisonOnlinePhysical(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("compara las ventas online vs físicas", sampleSales(), nil, nil)

	assert.True(t, ok)
	// Online: 60 de 390 -> 15.4%.
	assert.Contains(t, answer, "15.4")
}

func TestResolverTotalsRulePrecedesComparison(t *testing.T) {
	// Los totales de ventas van antes que la comparación en la cascada; la
	// pregunta de comparación de canales solo llega a su regla porque el
	// predicado de totales la deja pasar explícitamente.
	totalsIdx, comparisonIdx := -1, -1
	for i, rule := range resolverRules {
		switch rule.name {
		case "sales_totals":
			totalsIdx = i
		case "comparison":
			comparisonIdx = i
		}
	}
	assert.True(t, totalsIdx >= 0 && comparisonIdx >= 0)
	assert.Less(t, totalsIdx, comparisonIdx)
}

func TestResolverOnlineSalesTotal(t *testing.T) {
	// Sin vocabulario de comparación, el canal online lo responden los
	// totales de ventas.
	r := newTestResolver()
	answer, ok := r.Resolve("ventas online de la empresa", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Equal(t, T(LanguageSpanish, "onlineSales", FormatCurrency(LanguageSpanish, 60)), answer)
}

func TestResolverStoreSearch(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("tiendas que contienen trucco", sampleSales(), nil, nil)
	assert.True(t, ok)
	assert.Contains(t, answer, "Trucco Centro")

	answer, ok = r.Resolve("tiendas que contienen zzz", sampleSales(), nil, nil)
	assert.True(t, ok)
	assert.Equal(t, T(LanguageSpanish, "storeSearchNotFound", "zzz"), answer)
}

func TestResolverHelp(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("¿qué puedes hacer?", sampleSales(), nil, nil)

	assert.True(t, ok)
	assert.Equal(t, T(LanguageSpanish, "helpText"), answer)
}

func TestResolverSummary(t *testing.T) {
	r := newTestResolver()
	answer, ok := r.Resolve("dame un resumen de los datos", sampleSales(), sampleProducts(), sampleTransfers())

	assert.True(t, ok)
	assert.Contains(t, answer, "24")
	assert.Contains(t, answer, "390")
}

func TestResolverUnrecognizedMessageReturnsFalse(t *testing.T) {
	r := newTestResolver()
	_, ok := r.Resolve("me gusta el color azul del cielo", sampleSales(), nil, nil)
	assert.False(t, ok)
}

func TestResolverDeterministic(t *testing.T) {
	r := newTestResolver()
	msg := "cuántos pantalones se vendieron en 2023"
	first, ok := r.Resolve(msg, sampleSales(), nil, nil)
	assert.True(t, ok)
	for i := 0; i < 10; i++ {
		again, _ := r.Resolve(msg, sampleSales(), nil, nil)
		assert.Equal(t, first, again)
	}
}
