package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestViz() *VisualizationService {
	return NewVisualizationService(NewAggregationService(), nil)
}

func TestWantsVisualization(t *testing.T) {
	assert.True(t, WantsVisualization("muéstrame un gráfico de barras por temporada"))
	assert.True(t, WantsVisualization("show me a pie chart of sales by family"))
	assert.True(t, WantsVisualization("quiero una tabla de ventas"))

	// Los verbos de acción cuentan aunque no se nombre un tipo de gráfico.
	assert.True(t, WantsVisualization("hazme una comparativa por tienda"))
	assert.True(t, WantsVisualization("dame la evolución mensual de ventas"))
	assert.True(t, WantsVisualization("quiero ver las ventas por temporada"))

	assert.False(t, WantsVisualization("cuántas tiendas hay"))
	assert.False(t, WantsVisualization("how many returns were there"))
}

func TestPlanFromRulesBarBySeason(t *testing.T) {
	viz := newTestViz()
	plan := viz.PlanFromRules("gráfico de barras por temporada", LanguageSpanish)

	assert.Equal(t, "bar", plan.Type)
	assert.Equal(t, "temporada", plan.Config.XAxis)
	assert.NotEmpty(t, plan.Description)
}

func TestPlanFromRulesVariants(t *testing.T) {
	viz := newTestViz()

	plan := viz.PlanFromRules("evolución de ventas por mes", LanguageSpanish)
	assert.Equal(t, "line", plan.Type)
	assert.Equal(t, "mes", plan.Config.XAxis)

	plan = viz.PlanFromRules("pie chart of sales by family", LanguageEnglish)
	assert.Equal(t, "pie", plan.Type)
	assert.Equal(t, "familia", plan.Config.NameKey)

	plan = viz.PlanFromRules("una tabla con las ventas", LanguageSpanish)
	assert.Equal(t, "table", plan.Type)

	// Sin pista de tipo ni dimensión: barras por tienda.
	plan = viz.PlanFromRules("muéstrame algo", LanguageSpanish)
	assert.Equal(t, "bar", plan.Type)
	assert.Equal(t, "tienda", plan.Config.XAxis)
}

func TestPlanWithoutProviderFallsBackToRules(t *testing.T) {
	viz := newTestViz()
	plan := viz.Plan(context.Background(), "gráfico de barras por temporada", LanguageSpanish)
	assert.Equal(t, "bar", plan.Type)
	assert.Equal(t, "temporada", plan.Config.XAxis)
}

func TestMaterializeBarBySeason(t *testing.T) {
	viz := newTestViz()
	plan := viz.PlanFromRules("gráfico de barras por temporada", LanguageSpanish)
	spec := viz.Materialize(plan, sampleSales())

	assert.Equal(t, "bar", spec.Type)
	assert.Len(t, spec.Data, 2)
	// Ordenado por unidades descendente: Verano 2023 (22) antes que
	// Invierno 2024 (2).
	assert.Equal(t, "Verano 2023", spec.Data[0]["temporada"])
	assert.Equal(t, 22, spec.Data[0]["cantidad"])
	assert.Equal(t, "Invierno 2024", spec.Data[1]["temporada"])
}

func TestMaterializeLineByMonth(t *testing.T) {
	viz := newTestViz()
	plan := viz.PlanFromRules("tendencia mensual de ventas", LanguageSpanish)
	spec := viz.Materialize(plan, sampleSales())

	assert.Equal(t, "line", spec.Type)
	assert.Len(t, spec.Data, 3)
	// Meses en orden ascendente.
	assert.Equal(t, "2023-06", spec.Data[0]["mes"])
	assert.Equal(t, "2024-01", spec.Data[2]["mes"])
}

func TestMaterializeEmptyDataset(t *testing.T) {
	viz := newTestViz()
	plan := viz.PlanFromRules("gráfico de barras", LanguageSpanish)
	spec := viz.Materialize(plan, nil)

	assert.NotNil(t, spec)
	assert.Empty(t, spec.Data)
}

func TestParseChartPlanFencedJSON(t *testing.T) {
	content := "Aquí tienes el plan:\n```json\n{\"type\": \"bar\", \"config\": {\"xAxis\": \"familia\", \"dataKey\": \"cantidad\"}, \"description\": \"barras por familia\"}\n```"
	plan, err := parseChartPlan(content)

	assert.NoError(t, err)
	assert.Equal(t, "bar", plan.Type)
	assert.Equal(t, "familia", plan.Config.XAxis)
	assert.Equal(t, "barras por familia", plan.Description)
}

func TestParseChartPlanBareJSON(t *testing.T) {
	plan, err := parseChartPlan(`{"type": "pie", "config": {"nameKey": "tienda", "dataKey": "cantidad"}, "description": "reparto"}`)
	assert.NoError(t, err)
	assert.Equal(t, "pie", plan.Type)
	assert.Equal(t, "tienda", plan.Config.NameKey)
}

func TestParseChartPlanRejectsGarbage(t *testing.T) {
	_, err := parseChartPlan("no hay json aquí")
	assert.Error(t, err)

	_, err = parseChartPlan(`{"type": "scatter", "config": {"xAxis": "x"}}`)
	assert.Error(t, err)

	_, err = parseChartPlan(`{"type": "bar"}`)
	assert.Error(t, err)
}
