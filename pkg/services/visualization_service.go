package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"retailsense-api/pkg/models"
	"retailsense-api/pkg/openai"
)

// VisualizationService decide si una consulta pide un gráfico, qué tipo de
// gráfico conviene y materializa los datos para el frontend. El plan se pide
// primero al proveedor de IA (si está configurado) y si falla cualquier paso
// se cae al planificador de reglas, que nunca falla.
type VisualizationService struct {
	agg    *AggregationService
	client *openai.Client
}

// NewVisualizationService client puede ser nil (sin proveedor configurado).
func NewVisualizationService(agg *AggregationService, client *openai.Client) *VisualizationService {
	return &VisualizationService{agg: agg, client: client}
}

// Palabras que delatan intención de visualizar. La comprobación es
// independiente de la cascada de reglas: una respuesta textual puede llevar
// gráfico adjunto.
var visualizationKeywords = []string{
	"gráfico", "grafico", "gráfica", "grafica", "chart", "graph",
	"barras", "bars", "pastel", "pie", "circular",
	"tabla", "table", "línea", "linea", "line",
	"visualiza", "visualizar", "visualize", "visualization",
	"muéstrame", "muestrame", "mostrar", "show me", "plot", "diagrama", "diagram",
	"crear", "generar", "hazme", "haz", "dame", "quiero ver",
}

// WantsVisualization detección por palabra clave sobre el mensaje.
func WantsVisualization(message string) bool {
	lower := strings.ToLower(message)
	return containsAny(lower, visualizationKeywords...)
}

const chartPlannerPrompt = `Eres un planificador de visualizaciones para un dashboard de ventas retail.
Dado el mensaje del usuario, responde SOLO con un objeto JSON con esta forma:
{"type": "bar|line|pie|table", "config": {...}, "description": "texto corto"}

Config según el tipo:
- bar: {"xAxis": "temporada|familia|tienda|talla|mes", "dataKey": "cantidad"}
- line: {"xAxis": "mes", "dataKeys": ["cantidad", "beneficio"]}
- pie: {"nameKey": "familia|tienda", "dataKey": "cantidad"}
- table: {"columns": ["..."], "maxRows": 20}

No añadas texto fuera del JSON.`

var validChartTypes = map[string]bool{"bar": true, "line": true, "pie": true, "table": true}

// Plan produce un plan de gráfico para el mensaje. Intenta el proveedor de
// IA y degrada a reglas ante cualquier error, JSON inválido o tipo
// desconocido; siempre devuelve un plan utilizable.
func (s *VisualizationService) Plan(ctx context.Context, message string, lang Language) models.ChartPlan {
	if s.client == nil {
		return s.PlanFromRules(message, lang)
	}

	resp, err := s.client.ChatCompletion(ctx, []openai.ChatMessage{
		{Role: "system", Content: chartPlannerPrompt},
		{Role: "user", Content: message},
	}, 500, 0.3)
	if err != nil {
		log.Printf("⚠️ Planificador IA no disponible, usando reglas: %v", err)
		return s.PlanFromRules(message, lang)
	}

	plan, err := parseChartPlan(resp.FirstContent())
	if err != nil {
		log.Printf("⚠️ Plan de gráfico IA inválido (%v), usando reglas", err)
		return s.PlanFromRules(message, lang)
	}
	return plan
}

// parseChartPlan extrae y valida el JSON del plan; tolera fences de
// markdown alrededor.
func parseChartPlan(content string) (models.ChartPlan, error) {
	raw := extractJSONBlock(content)
	if raw == "" {
		return models.ChartPlan{}, fmt.Errorf("la respuesta no contiene JSON")
	}

	var probe struct {
		Type        string          `json:"type"`
		Config      json.RawMessage `json:"config"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return models.ChartPlan{}, fmt.Errorf("JSON del plan no parseable: %w", err)
	}
	if !validChartTypes[probe.Type] {
		return models.ChartPlan{}, fmt.Errorf("tipo de gráfico desconocido: %q", probe.Type)
	}
	if len(probe.Config) == 0 {
		return models.ChartPlan{}, fmt.Errorf("plan sin config")
	}

	var cfg models.VizConfig
	if err := json.Unmarshal(probe.Config, &cfg); err != nil {
		return models.ChartPlan{}, fmt.Errorf("config del plan no parseable: %w", err)
	}
	return models.ChartPlan{Type: probe.Type, Config: cfg, Description: probe.Description}, nil
}

// extractJSONBlock fence ```json primero, fence genérico después y como
// último recurso el tramo entre la primera '{' y la última '}'.
func extractJSONBlock(content string) string {
	if i := strings.Index(content, "```json"); i >= 0 {
		rest := content[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}
	if i := strings.Index(content, "```"); i >= 0 {
		rest := content[i+3:]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return strings.TrimSpace(content[start : end+1])
	}
	return ""
}

// PlanFromRules planificador determinista. Mismo contrato que el de IA pero
// sin red: palabra clave de tipo + palabra clave de dimensión.
func (s *VisualizationService) PlanFromRules(message string, lang Language) models.ChartPlan {
	lower := strings.ToLower(message)

	describe := func(es, en string) string {
		if lang == LanguageEnglish {
			return en
		}
		return es
	}

	switch {
	case containsAny(lower, "línea", "linea", "line", "evolución", "evolucion", "evolution", "tendencia", "trend"):
		return models.ChartPlan{
			Type:        "line",
			Config:      models.VizConfig{XAxis: "mes", DataKeys: []string{"cantidad", "beneficio"}},
			Description: describe("gráfico de líneas con la evolución mensual de ventas", "line chart of monthly sales evolution"),
		}
	case containsAny(lower, "pastel", "pie", "circular"):
		dim := "familia"
		if containsAny(lower, "tienda", "store") {
			dim = "tienda"
		}
		return models.ChartPlan{
			Type:        "pie",
			Config:      models.VizConfig{NameKey: dim, DataKey: "cantidad"},
			Description: describe("gráfico circular de ventas por "+dim, "pie chart of sales by "+dim),
		}
	case containsAny(lower, "tabla", "table"):
		return models.ChartPlan{
			Type:        "table",
			Config:      models.VizConfig{Columns: []string{"tienda", "cantidad", "beneficio"}, MaxRows: 20},
			Description: describe("tabla de ventas por tienda", "table of sales by store"),
		}
	}

	// Por defecto: barras. La dimensión sale de la primera palabra clave
	// reconocida; tienda si no hay ninguna.
	dim := "tienda"
	switch {
	case containsAny(lower, "temporada", "season"):
		dim = "temporada"
	case containsAny(lower, "familia", "family", "families"):
		dim = "familia"
	case containsAny(lower, "talla", "size"):
		dim = "talla"
	case containsAny(lower, "mes", "month", "mensual", "monthly"):
		dim = "mes"
	}
	return models.ChartPlan{
		Type:        "bar",
		Config:      models.VizConfig{XAxis: dim, DataKey: "cantidad"},
		Description: describe("gráfico de barras de ventas por "+dim, "bar chart of sales by "+dim),
	}
}

// Materialize convierte el plan en filas listas para pintar. Un plan que no
// se puede materializar devuelve un spec con datos vacíos, nunca error: el
// frontend pinta "sin datos".
func (s *VisualizationService) Materialize(plan models.ChartPlan, sales []models.SalesRecord) *models.VisualizationSpec {
	spec := &models.VisualizationSpec{Type: plan.Type, Config: plan.Config, Data: []map[string]any{}}

	switch plan.Type {
	case "bar":
		if plan.Config.XAxis == "mes" {
			spec.Data = s.monthRows(sales)
			return spec
		}
		groups := s.agg.RankByUnits(s.groupsForDimension(plan.Config.XAxis, sales), 20)
		key := plan.Config.DataKey
		if key == "" {
			key = "cantidad"
		}
		for _, g := range groups {
			spec.Data = append(spec.Data, map[string]any{
				plan.Config.XAxis: g.Name,
				key:               g.Units,
				"beneficio":       g.Revenue,
			})
		}

	case "line":
		spec.Data = s.monthRows(sales)

	case "pie":
		nameKey := plan.Config.NameKey
		if nameKey == "" {
			nameKey = "familia"
		}
		dataKey := plan.Config.DataKey
		if dataKey == "" {
			dataKey = "cantidad"
		}
		groups := s.agg.RankByUnits(s.groupsForDimension(nameKey, sales), 10)
		for _, g := range groups {
			spec.Data = append(spec.Data, map[string]any{nameKey: g.Name, dataKey: g.Units})
		}

	case "table":
		maxRows := plan.Config.MaxRows
		if maxRows <= 0 {
			maxRows = 20
		}
		groups := s.agg.RankByUnits(s.agg.GroupByStore(sales), maxRows)
		for _, g := range groups {
			spec.Data = append(spec.Data, map[string]any{
				"tienda":    g.Name,
				"cantidad":  g.Units,
				"beneficio": fmt.Sprintf("€%.2f", g.Revenue),
			})
		}
	}
	return spec
}

// groupsForDimension dimensiones en español e inglés hacia el mismo
// agrupador.
func (s *VisualizationService) groupsForDimension(dim string, sales []models.SalesRecord) []models.GroupTotal {
	switch strings.ToLower(dim) {
	case "temporada", "season":
		return s.agg.GroupBySeason(sales)
	case "familia", "family":
		return s.agg.GroupByFamily(sales)
	case "talla", "size":
		return s.agg.GroupBySize(sales)
	case "tienda", "store":
		return s.agg.GroupByStore(sales)
	default:
		return s.agg.GroupByStore(sales)
	}
}

// monthRows serie mensual ascendente con unidades y beneficio.
func (s *VisualizationService) monthRows(sales []models.SalesRecord) []map[string]any {
	rows := []map[string]any{}
	for _, m := range s.agg.GroupByMonth(sales) {
		rows = append(rows, map[string]any{
			"mes":       m.Month,
			"cantidad":  m.Units,
			"beneficio": m.Revenue,
		})
	}
	return rows
}
