package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Los dos bancos deben ser espejo exacto: mismas claves y misma aridad.
// Añadir una plantilla en un idioma y olvidarla en el otro rompe este test.
func TestTemplateBanksMirrorEachOther(t *testing.T) {
	for key, en := range englishTemplates {
		es, ok := spanishTemplates[key]
		if !ok {
			t.Errorf("la clave %q existe en inglés pero no en español", key)
			continue
		}
		assert.Equal(t, en.arity, es.arity, "aridad distinta para la clave %q", key)
	}
	for key := range spanishTemplates {
		if _, ok := englishTemplates[key]; !ok {
			t.Errorf("la clave %q existe en español pero no en inglés", key)
		}
	}
}

func TestTemplateMissingKeyPlaceholder(t *testing.T) {
	assert.Equal(t, "[missing template: noExiste]", T(LanguageSpanish, "noExiste"))
	assert.Equal(t, "[missing template: noExiste]", T(LanguageEnglish, "noExiste"))
}

func TestTemplatePadsMissingArgs(t *testing.T) {
	// Menos argumentos que la aridad no debe provocar pánico.
	out := T(LanguageSpanish, "familySoldInYearShort", "2023")
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "2023")
}

func TestTemplateRendering(t *testing.T) {
	out := T(LanguageEnglish, "storeCount", "3")
	assert.Equal(t, "There are 3 unique stores in total.", out)

	out = T(LanguageSpanish, "storeCount", "3")
	assert.Equal(t, "Hay 3 tienda(s) únicas en total.", out)

	out = T(LanguageSpanish, "familySoldInYearShort", "2023", "15", "Pantalones")
	assert.Contains(t, out, "2023")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "Pantalones")
}

func TestNumberFormattingPerLocale(t *testing.T) {
	// Separador de miles según el idioma de la respuesta.
	assert.Equal(t, "1,234", FormatInt(LanguageEnglish, 1234))
	assert.Equal(t, "1.234", FormatInt(LanguageSpanish, 1234))

	assert.Equal(t, "7.7", FormatRate(7.6923))
	assert.Equal(t, "8", FormatAvg(8.2))
}

func TestHelpTextCoversMainTopics(t *testing.T) {
	out := T(LanguageEnglish, "helpText")
	for _, topic := range []string{"Store", "famil", "Sales", "visualization"} {
		assert.True(t, strings.Contains(strings.ToLower(out), strings.ToLower(topic)), "helpText debería mencionar %q", topic)
	}
}
