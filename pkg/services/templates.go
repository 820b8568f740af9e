package services

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Banco de plantillas bilingüe del chatbot. Ambos idiomas implementan
// exactamente el mismo conjunto de claves con la misma aridad; los tests
// verifican ese invariante estructural. Una clave ausente devuelve un
// marcador visible en vez de lanzar pánico, para que los huecos de
// localización se vean en la respuesta.

type template struct {
	arity  int
	render func(a []string) string
}

var englishTemplates = map[string]template{
	// Store queries
	"storeCount":         {1, func(a []string) string { return fmt.Sprintf("There are %s unique stores in total.", a[0]) }},
	"storeCountTrucco":   {2, func(a []string) string { return fmt.Sprintf("There are %s store(s) containing \"trucco\" in their name: %s.", a[0], a[1]) }},
	"storeCountOnline":   {1, func(a []string) string { return fmt.Sprintf("There are %s online store(s).", a[0]) }},
	"storeCountPhysical": {1, func(a []string) string { return fmt.Sprintf("There are %s physical store(s).", a[0]) }},

	// Product/Family queries
	"familyCount":  {1, func(a []string) string { return fmt.Sprintf("There are %s unique product families.", a[0]) }},
	"seasonCount":  {1, func(a []string) string { return fmt.Sprintf("There are %s unique seasons.", a[0]) }},
	"productCount": {1, func(a []string) string { return fmt.Sprintf("There are %s unique registered products.", a[0]) }},

	// Sales queries
	"totalSales":    {2, func(a []string) string { return fmt.Sprintf("Total: %s units sold, €%s in revenue.", a[0], a[1]) }},
	"netSales":      {1, func(a []string) string { return fmt.Sprintf("Net sales: €%s.", a[0]) }},
	"grossSales":    {1, func(a []string) string { return fmt.Sprintf("Gross sales: €%s.", a[0]) }},
	"onlineSales":   {1, func(a []string) string { return fmt.Sprintf("Online sales: €%s.", a[0]) }},
	"physicalSales": {1, func(a []string) string { return fmt.Sprintf("Physical store sales: €%s.", a[0]) }},

	// Returns queries
	"totalReturns": {1, func(a []string) string { return fmt.Sprintf("Total returns: %s units.", a[0]) }},
	"returnRate":   {1, func(a []string) string { return fmt.Sprintf("Return rate: %s%% of total sales.", a[0]) }},

	// Family queries with year
	"familySoldInYear": {4, func(a []string) string {
		return fmt.Sprintf("In %s, %s units of %s were sold, generating €%s in revenue.", a[0], a[1], strings.ToLower(a[2]), a[3])
	}},
	"familySoldInYearShort": {3, func(a []string) string {
		return fmt.Sprintf("In %s, %s units of %s were sold.", a[0], a[1], strings.ToLower(a[2]))
	}},
	"familyNotFoundInYear": {2, func(a []string) string { return fmt.Sprintf("I didn't find any sales for %s in %s.", a[0], a[1]) }},
	"familyNotFound": {2, func(a []string) string {
		return fmt.Sprintf("I couldn't find a product family called %q. Available families: %s.", a[0], a[1])
	}},

	// Size queries
	"bestSizeForFamily": {5, func(a []string) string {
		return fmt.Sprintf("In %s, the best-selling size for %s was size %s with %s units sold (out of %s total units).", a[0], strings.ToLower(a[1]), a[2], a[3], a[4])
	}},
	"sizeSoldInYear": {4, func(a []string) string {
		return fmt.Sprintf("In %s, %s units of %s in size %s were sold.", a[0], a[1], strings.ToLower(a[2]), a[3])
	}},
	"sizeNotFoundInYear": {3, func(a []string) string {
		return fmt.Sprintf("No sales found for %s in size %s in %s.", strings.ToLower(a[0]), a[1], a[2])
	}},
	"topSizesInYear": {2, func(a []string) string { return fmt.Sprintf("In %s, the best-selling sizes were:\n%s", a[0], a[1]) }},
	"topSizesList":   {2, func(a []string) string { return fmt.Sprintf("The %s best-selling sizes are:\n%s", a[0], a[1]) }},
	"sizesForFamilyList": {1, func(a []string) string { return fmt.Sprintf("Best-selling sizes:\n%s", a[0]) }},

	// General year queries
	"yearSummary":   {3, func(a []string) string { return fmt.Sprintf("In %s: %s units sold, €%s in total revenue.", a[0], a[1], a[2]) }},
	"noDataForYear": {2, func(a []string) string { return fmt.Sprintf("I couldn't find data for year %s. Available seasons: %s.", a[0], a[1]) }},

	// Rankings
	"topStores":            {1, func(a []string) string { return fmt.Sprintf("Top %s stores by sales", a[0]) }},
	"bottomStores":         {1, func(a []string) string { return fmt.Sprintf("Bottom %s stores by sales", a[0]) }},
	"topStoresList":        {2, func(a []string) string { return fmt.Sprintf("The %s stores with the most sales are: %s.", a[0], a[1]) }},
	"topStoresRevenueList": {2, func(a []string) string { return fmt.Sprintf("The %s stores with the most revenue are: %s.", a[0], a[1]) }},
	"topFamiliesList":      {2, func(a []string) string { return fmt.Sprintf("The %s families with the most sales are: %s.", a[0], a[1]) }},
	"topProductsList":      {2, func(a []string) string { return fmt.Sprintf("The %s products with the most sales are: %s.", a[0], a[1]) }},
	"bottomStoresList":     {2, func(a []string) string { return fmt.Sprintf("The %s stores with the fewest sales are: %s.", a[0], a[1]) }},

	// Averages and comparisons
	"avgPerStore": {1, func(a []string) string { return fmt.Sprintf("The average sales per store is %s units.", a[0]) }},
	"comparisonOnlinePhysical": {4, func(a []string) string {
		return fmt.Sprintf("Sales comparison: Online %s%% (€%s) vs Physical %s%% (€%s).", a[0], a[1], a[2], a[3])
	}},

	// Free-text search
	"storesContaining":    {3, func(a []string) string { return fmt.Sprintf("I found %s store(s) containing %q: %s.", a[0], a[1], a[2]) }},
	"storeSearchNotFound": {1, func(a []string) string { return fmt.Sprintf("I couldn't find any store containing %q.", a[0]) }},
	"storeSalesList":      {1, func(a []string) string { return fmt.Sprintf("Sales for the matching stores:\n%s", a[0]) }},
	"familySalesList":     {1, func(a []string) string { return fmt.Sprintf("Sales for the matching families:\n%s", a[0]) }},

	// Meta
	"helpText": {0, func(a []string) string {
		return `I can help you with:
- Store information (counts, sales per store, comparisons)
- Product family information (sales, top families)
- Season information (sales per season)
- Sales information (totals, online vs physical, returns)
- Product information (top products, sales per product)
- Comparisons and performance analysis
- Creating visualizations (bar, line, pie charts and tables)
- Any other question about your retail data`
	}},
	"summaryReport": {10, func(a []string) string {
		return fmt.Sprintf(`GENERAL SUMMARY OF YOUR DATA:
📊 Sales: %s units sold, €%s in total revenue
📦 Returns: %s units (%s%% rate)
🏪 Stores: %s unique stores (%s online, %s physical)
👔 Families: %s unique product families
📅 Seasons: %s different seasons
📈 Average: %s units per store`, a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[9])
	}},
	"genericGreeting": {3, func(a []string) string {
		return fmt.Sprintf("Hello! I can help you understand your data. You have %s stores, %s product families, and %s units sold in total. What would you like to know? I can answer questions about sales, stores, products, families, seasons, returns, or any other metric in your data.", a[0], a[1], a[2])
	}},
	"chartCreated": {1, func(a []string) string { return fmt.Sprintf("I created a %s with the available data.", a[0]) }},

	// Error/fallback messages
	"noData":                   {0, func(a []string) string { return "No data available." }},
	"noSufficientData":         {0, func(a []string) string { return "Insufficient data to answer this query." }},
	"insufficientDataForQuery": {0, func(a []string) string { return "I don't have enough data to answer that question." }},
}

var spanishTemplates = map[string]template{
	// Consultas de tiendas
	"storeCount":         {1, func(a []string) string { return fmt.Sprintf("Hay %s tienda(s) únicas en total.", a[0]) }},
	"storeCountTrucco":   {2, func(a []string) string { return fmt.Sprintf("Hay %s tienda(s) que contienen \"trucco\" en su nombre: %s.", a[0], a[1]) }},
	"storeCountOnline":   {1, func(a []string) string { return fmt.Sprintf("Hay %s tienda(s) online.", a[0]) }},
	"storeCountPhysical": {1, func(a []string) string { return fmt.Sprintf("Hay %s tienda(s) físicas.", a[0]) }},

	// Consultas de familias/productos
	"familyCount":  {1, func(a []string) string { return fmt.Sprintf("Hay %s familia(s) de productos únicas.", a[0]) }},
	"seasonCount":  {1, func(a []string) string { return fmt.Sprintf("Hay %s temporada(s) únicas.", a[0]) }},
	"productCount": {1, func(a []string) string { return fmt.Sprintf("Hay %s productos únicos registrados.", a[0]) }},

	// Consultas de ventas
	"totalSales":    {2, func(a []string) string { return fmt.Sprintf("Total: %s unidades vendidas, €%s de ingresos.", a[0], a[1]) }},
	"netSales":      {1, func(a []string) string { return fmt.Sprintf("Ventas netas: €%s.", a[0]) }},
	"grossSales":    {1, func(a []string) string { return fmt.Sprintf("Ventas brutas: €%s.", a[0]) }},
	"onlineSales":   {1, func(a []string) string { return fmt.Sprintf("Ventas online: €%s.", a[0]) }},
	"physicalSales": {1, func(a []string) string { return fmt.Sprintf("Ventas en tiendas físicas: €%s.", a[0]) }},

	// Devoluciones
	"totalReturns": {1, func(a []string) string { return fmt.Sprintf("Devoluciones totales: %s unidades.", a[0]) }},
	"returnRate":   {1, func(a []string) string { return fmt.Sprintf("Tasa de devolución: %s%% del total de ventas.", a[0]) }},

	// Familias con año
	"familySoldInYear": {4, func(a []string) string {
		return fmt.Sprintf("En %s, se vendieron %s unidades de %s, generando €%s de ingresos.", a[0], a[1], a[2], a[3])
	}},
	"familySoldInYearShort": {3, func(a []string) string {
		return fmt.Sprintf("En %s, se vendieron %s unidades de %s.", a[0], a[1], a[2])
	}},
	"familyNotFoundInYear": {2, func(a []string) string { return fmt.Sprintf("No encontré ventas de %s en %s.", a[0], a[1]) }},
	"familyNotFound": {2, func(a []string) string {
		return fmt.Sprintf("No encontré una familia exacta llamada %q. Familias disponibles: %s.", a[0], a[1])
	}},

	// Tallas
	"bestSizeForFamily": {5, func(a []string) string {
		return fmt.Sprintf("En %s, la talla más vendida de %s fue %s con %s unidades vendidas (de un total de %s unidades).", a[0], a[1], a[2], a[3], a[4])
	}},
	"sizeSoldInYear": {4, func(a []string) string {
		return fmt.Sprintf("En %s se vendieron %s unidades de %s en talla %s.", a[0], a[1], a[2], a[3])
	}},
	"sizeNotFoundInYear": {3, func(a []string) string {
		return fmt.Sprintf("No se encontraron ventas de %s en talla %s en %s.", a[0], a[1], a[2])
	}},
	"topSizesInYear": {2, func(a []string) string { return fmt.Sprintf("En %s, las tallas más vendidas fueron:\n%s", a[0], a[1]) }},
	"topSizesList":   {2, func(a []string) string { return fmt.Sprintf("Las %s tallas más vendidas son:\n%s", a[0], a[1]) }},
	"sizesForFamilyList": {1, func(a []string) string { return fmt.Sprintf("Tallas más vendidas:\n%s", a[0]) }},

	// Consultas generales de año
	"yearSummary":   {3, func(a []string) string { return fmt.Sprintf("En %s: %s unidades vendidas, €%s de beneficio total.", a[0], a[1], a[2]) }},
	"noDataForYear": {2, func(a []string) string { return fmt.Sprintf("No encontré datos para el año %s. Las temporadas disponibles son: %s.", a[0], a[1]) }},

	// Rankings
	"topStores":            {1, func(a []string) string { return fmt.Sprintf("Top %s tiendas con más ventas", a[0]) }},
	"bottomStores":         {1, func(a []string) string { return fmt.Sprintf("Top %s tiendas con menos ventas", a[0]) }},
	"topStoresList":        {2, func(a []string) string { return fmt.Sprintf("Las %s tiendas con más ventas son: %s.", a[0], a[1]) }},
	"topStoresRevenueList": {2, func(a []string) string { return fmt.Sprintf("Las %s tiendas con más beneficio son: %s.", a[0], a[1]) }},
	"topFamiliesList":      {2, func(a []string) string { return fmt.Sprintf("Las %s familias con más ventas son: %s.", a[0], a[1]) }},
	"topProductsList":      {2, func(a []string) string { return fmt.Sprintf("Los %s productos con más ventas son: %s.", a[0], a[1]) }},
	"bottomStoresList":     {2, func(a []string) string { return fmt.Sprintf("Las %s tiendas con menos ventas son: %s.", a[0], a[1]) }},

	// Promedios y comparaciones
	"avgPerStore": {1, func(a []string) string { return fmt.Sprintf("El promedio de ventas por tienda es de %s unidades.", a[0]) }},
	"comparisonOnlinePhysical": {4, func(a []string) string {
		return fmt.Sprintf("Comparación de ventas: Online %s%% (€%s) vs Física %s%% (€%s).", a[0], a[1], a[2], a[3])
	}},

	// Búsqueda libre
	"storesContaining":    {3, func(a []string) string { return fmt.Sprintf("Encontré %s tienda(s) que contienen %q: %s.", a[0], a[1], a[2]) }},
	"storeSearchNotFound": {1, func(a []string) string { return fmt.Sprintf("No encontré ninguna tienda que contenga %q.", a[0]) }},
	"storeSalesList":      {1, func(a []string) string { return fmt.Sprintf("Ventas de las tiendas encontradas:\n%s", a[0]) }},
	"familySalesList":     {1, func(a []string) string { return fmt.Sprintf("Ventas de las familias encontradas:\n%s", a[0]) }},

	// Meta
	"helpText": {0, func(a []string) string {
		return `Puedo ayudarte con:
- Información sobre tiendas (cantidad, ventas por tienda, comparaciones)
- Información sobre familias de productos (ventas, top familias)
- Información sobre temporadas (ventas por temporada)
- Información sobre ventas (totales, online vs física, devoluciones)
- Información sobre productos (top productos, ventas por producto)
- Comparaciones y análisis de rendimiento
- Crear visualizaciones (gráficos de barras, líneas, pastel, tablas)
- Cualquier otra pregunta sobre tus datos de retail`
	}},
	"summaryReport": {10, func(a []string) string {
		return fmt.Sprintf(`RESUMEN GENERAL DE TUS DATOS:
📊 Ventas: %s unidades vendidas, €%s de beneficio total
📦 Devoluciones: %s unidades (%s%% de tasa)
🏪 Tiendas: %s tiendas únicas (%s online, %s físicas)
👔 Familias: %s familias de productos únicas
📅 Temporadas: %s temporadas diferentes
📈 Promedio: %s unidades por tienda`, a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[9])
	}},
	"genericGreeting": {3, func(a []string) string {
		return fmt.Sprintf("Hola! Puedo ayudarte a entender tus datos. Tienes %s tiendas, %s familias de productos, y %s unidades vendidas en total. ¿Qué te gustaría saber específicamente? Puedo responder preguntas sobre ventas, tiendas, productos, familias, temporadas, devoluciones, o cualquier otra métrica relacionada con tus datos.", a[0], a[1], a[2])
	}},
	"chartCreated": {1, func(a []string) string { return fmt.Sprintf("He creado un %s con los datos disponibles.", a[0]) }},

	// Mensajes de error/fallback
	"noData":                   {0, func(a []string) string { return "No hay datos disponibles." }},
	"noSufficientData":         {0, func(a []string) string { return "Datos insuficientes para responder esta consulta." }},
	"insufficientDataForQuery": {0, func(a []string) string { return "No tengo suficientes datos para responder esa pregunta." }},
}

var templateBank = map[Language]map[string]template{
	LanguageEnglish: englishTemplates,
	LanguageSpanish: spanishTemplates,
}

// T renderiza la plantilla (lang, key) con los argumentos dados. Si faltan
// argumentos se rellenan con cadenas vacías; la función nunca lanza pánico.
func T(lang Language, key string, args ...string) string {
	bank, ok := templateBank[lang]
	if !ok {
		bank = templateBank[LanguageEnglish]
	}
	tpl, ok := bank[key]
	if !ok {
		log.Printf("⚠️ Plantilla ausente: %s.%s", lang, key)
		return fmt.Sprintf("[missing template: %s]", key)
	}
	if len(args) < tpl.arity {
		padded := make([]string, tpl.arity)
		copy(padded, args)
		args = padded
	}
	return tpl.render(args)
}

// --- Formato numérico por idioma ---

var printers = map[Language]*message.Printer{
	LanguageEnglish: message.NewPrinter(language.English),
	LanguageSpanish: message.NewPrinter(language.Spanish),
}

func printerFor(lang Language) *message.Printer {
	if p, ok := printers[lang]; ok {
		return p
	}
	return printers[LanguageEnglish]
}

// FormatInt formatea un entero con separadores de miles del idioma.
func FormatInt(lang Language, v int) string {
	return printerFor(lang).Sprintf("%v", number.Decimal(v))
}

// FormatCurrency formatea un importe sin decimales, estilo del dashboard.
func FormatCurrency(lang Language, v float64) string {
	return printerFor(lang).Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
}

// FormatRate formatea un porcentaje con un decimal, sin separadores.
func FormatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatAvg formatea un promedio redondeado a entero, sin separadores.
func FormatAvg(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
