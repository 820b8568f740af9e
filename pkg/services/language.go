package services

import (
	"regexp"
	"strings"
)

// Language idioma de respuesta del chatbot.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
)

// Detección de idioma por pistas léxicas en tres niveles de peso. Se cuenta
// cuántos patrones de cada nivel aparecen (no cuántas veces) y se suma
// ponderado: fuerte x3, medio x2, ligero x1.
var (
	strongEnglishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(how many|how much|were sold|was sold)\b`),
		regexp.MustCompile(`\b(show me|give me|tell me|what is|what are)\b`),
		regexp.MustCompile(`\b(i want|i need|can you)\b`),
	}

	strongSpanishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(cuántos|cuántas|cuánto)\b`),
		regexp.MustCompile(`\b(muéstrame|dime|dame|qué es|qué son)\b`),
		regexp.MustCompile(`\b(necesito|quiero|puedes|mostrar|ver)\b`),
	}

	mediumEnglishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(pants|shirts|dresses|sweaters|coats|jackets|skirts|blouses|tops)\b`),
		regexp.MustCompile(`\b(stores|families|seasons|products|units|sales|revenue|returns)\b`),
		regexp.MustCompile(`\b(sold in|best selling|top|bottom|highest|lowest)\b`),
		regexp.MustCompile(`\b(what|which|where|when|who|why)\b`),
	}

	mediumSpanishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(pantalón|pantalones|camiseta|vestido|jersey|abrigo|falda|blusa)\b`),
		regexp.MustCompile(`\b(tiendas|familias|temporadas|productos|unidades|ventas|ingresos|devoluciones)\b`),
		regexp.MustCompile(`\b(vendido en|más vendido|mejor|peor|máximo|mínimo)\b`),
		regexp.MustCompile(`\b(qué|cuál|dónde|cuándo|quién|por qué)\b`),
		regexp.MustCompile(`\b(promedio|media|conteo|suma)\b`),
	}

	lightEnglishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bin\s+\d{4}\b`), // "in 2024"
		regexp.MustCompile(`\b(and|or|the|a|an|of|for|with|from|to|at|by)\b`),
	}

	lightSpanishPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\ben\s+\d{4}\b`),     // "en 2024"
		regexp.MustCompile(`\ben\s+el\s+año\b`),  // "en el año"
		regexp.MustCompile(`\b(y|o|el|la|los|las|de|para|con|desde|hasta|en|por)\b`),
	}
)

func countMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// DetectLanguage puntúa el mensaje como inglés o español. Función pura y
// total: siempre devuelve un idioma, el empate exacto resuelve al fallback.
func DetectLanguage(message string, fallback Language) Language {
	lower := strings.ToLower(message)

	englishScore := countMatches(strongEnglishPatterns, lower)*3 +
		countMatches(mediumEnglishPatterns, lower)*2 +
		countMatches(lightEnglishPatterns, lower)
	spanishScore := countMatches(strongSpanishPatterns, lower)*3 +
		countMatches(mediumSpanishPatterns, lower)*2 +
		countMatches(lightSpanishPatterns, lower)

	// Salida temprana con confianza alta: puntuación >= 6 y más de un 50%
	// por encima de la otra.
	if englishScore >= 6 && float64(englishScore) > float64(spanishScore)*1.5 {
		return LanguageEnglish
	}
	if spanishScore >= 6 && float64(spanishScore) > float64(englishScore)*1.5 {
		return LanguageSpanish
	}

	if englishScore > spanishScore {
		return LanguageEnglish
	}
	if spanishScore > englishScore {
		return LanguageSpanish
	}
	return fallback
}
