package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"retailsense-api/pkg/models"
	"retailsense-api/pkg/openai"
)

// ChatbotService orquesta la respuesta a un mensaje del usuario en tres
// niveles: conversacional con IA, cascada determinista de reglas y saludo
// genérico. La visualización es ortogonal y puede adjuntarse a cualquier
// nivel.
type ChatbotService struct {
	agg      *AggregationService
	resolver *ResolverService
	viz      *VisualizationService
	client   *openai.Client
}

// NewChatbotService client puede ser nil; en ese caso el nivel
// conversacional se omite y el resolver asume todo el tráfico.
func NewChatbotService(agg *AggregationService, resolver *ResolverService, viz *VisualizationService, client *openai.Client) *ChatbotService {
	return &ChatbotService{agg: agg, resolver: resolver, viz: viz, client: client}
}

// ProcessMessage punto de entrada del chatbot. Nunca devuelve error al
// usuario: cada nivel degrada al siguiente y el último siempre responde.
func (s *ChatbotService) ProcessMessage(ctx context.Context, message string, sales []models.SalesRecord, products []models.ProductRecord, transfers []models.TransferRecord) models.ChatResponse {
	lang := DetectLanguage(message, LanguageEnglish)
	wantsViz := WantsVisualization(message)

	// Nivel 1: conversacional. La IA ve el digest completo de agregados y
	// responde con libertad; el gráfico se adjunta aparte si se pidió.
	if answer, ok := s.Converse(ctx, message, sales, products, transfers); ok {
		resp := models.ChatResponse{Message: answer}
		if wantsViz {
			resp.Visualization = s.materializeIfAny(ctx, message, lang, sales)
		}
		return resp
	}

	// Nivel 2: cascada de reglas.
	if answer, ok := s.resolver.Resolve(message, sales, products, transfers); ok {
		resp := models.ChatResponse{Message: answer}
		if wantsViz {
			resp.Visualization = s.materializeIfAny(ctx, message, lang, sales)
		}
		return resp
	}

	// Nivel 3: el mensaje solo pedía un gráfico, sin pregunta que las
	// reglas reconozcan. Si el plan no produce filas se sigue degradando:
	// nunca se anuncia un gráfico vacío.
	if wantsViz && len(sales) > 0 {
		plan := s.viz.Plan(ctx, message, lang)
		if spec := s.viz.Materialize(plan, sales); len(spec.Data) > 0 {
			return models.ChatResponse{
				Message:       T(lang, "chartCreated", plan.Description),
				Visualization: spec,
			}
		}
	}

	// Nivel 4: saludo genérico con las cifras básicas del dataset.
	stores := len(s.agg.DistinctStores(sales))
	families := len(s.agg.DistinctFamilies(sales))
	units := s.agg.TotalUnits(sales)
	return models.ChatResponse{
		Message: T(lang, "genericGreeting", FormatInt(lang, stores), FormatInt(lang, families), FormatInt(lang, units)),
	}
}

// materializeIfAny planifica y materializa el gráfico pedido; devuelve nil
// cuando no hay ventas o el plan no produce ninguna fila (por ejemplo una
// serie mensual sobre fechas no parseables). La respuesta solo lleva
// visualización cuando hay datos que pintar.
func (s *ChatbotService) materializeIfAny(ctx context.Context, message string, lang Language, sales []models.SalesRecord) *models.VisualizationSpec {
	if len(sales) == 0 {
		return nil
	}
	plan := s.viz.Plan(ctx, message, lang)
	spec := s.viz.Materialize(plan, sales)
	if len(spec.Data) == 0 {
		return nil
	}
	return spec
}

// Converse nivel conversacional. Devuelve false cuando no hay proveedor
// configurado o la llamada falla; el error nunca sube al usuario.
func (s *ChatbotService) Converse(ctx context.Context, message string, sales []models.SalesRecord, products []models.ProductRecord, transfers []models.TransferRecord) (string, bool) {
	if s.client == nil {
		return "", false
	}

	digest := s.agg.BuildDigest(sales, products, transfers)
	resp, err := s.client.ChatCompletion(ctx, []openai.ChatMessage{
		{Role: "system", Content: buildConversationalPrompt(digest)},
		{Role: "user", Content: message},
	}, 2000, 0.7)
	if err != nil {
		log.Printf("⚠️ Nivel conversacional no disponible: %v", err)
		return "", false
	}

	content := strings.TrimSpace(resp.FirstContent())
	if content == "" {
		log.Printf("⚠️ El proveedor devolvió una respuesta vacía")
		return "", false
	}
	return content, true
}

// buildConversationalPrompt el digest completo en texto plano para que el
// modelo responda con cifras reales en lugar de inventarlas.
func buildConversationalPrompt(d models.StatsDigest) string {
	var b strings.Builder

	b.WriteString("Eres un analista de datos de una empresa de moda retail. ")
	b.WriteString("Respondes preguntas sobre los datos de ventas usando EXCLUSIVAMENTE las estadísticas de abajo. ")
	b.WriteString("Responde SIEMPRE en el idioma del usuario (español o inglés), de forma breve y con cifras concretas.\n\n")

	b.WriteString("=== ESTADÍSTICAS DEL DATASET ===\n")
	fmt.Fprintf(&b, "Ventas totales: %d unidades, €%.2f de ingresos (€%.2f netos)\n", d.TotalUnits, d.TotalRevenue, d.NetRevenue)
	fmt.Fprintf(&b, "Devoluciones: %d unidades (tasa %.1f%%)\n", d.ReturnedUnits, d.ReturnRate)
	fmt.Fprintf(&b, "Tiendas únicas: %d (%d online, %d físicas)\n", d.UniqueStores, d.OnlineStores, d.PhysicalStores)
	fmt.Fprintf(&b, "Canal online: %d unidades, €%.2f | Canal físico: %d unidades, €%.2f\n", d.OnlineUnits, d.OnlineRevenue, d.PhysicalUnits, d.PhysicalRevenue)
	fmt.Fprintf(&b, "Familias únicas: %d | Temporadas: %d | Tallas: %d | Colores: %d\n", d.UniqueFamilies, d.UniqueSeasons, d.UniqueSizes, d.UniqueColors)
	fmt.Fprintf(&b, "Promedio por tienda: %.1f unidades, €%.2f\n", d.AvgUnitsPerStore, d.AvgRevenuePerStore)

	writeGroupSection(&b, "Top tiendas por unidades", d.TopStores)
	writeGroupSection(&b, "Tiendas con menos ventas", d.WorstStores)
	writeGroupSection(&b, "Top familias", d.TopFamilies)
	writeGroupSection(&b, "Top temporadas", d.TopSeasons)
	writeGroupSection(&b, "Top tallas", d.TopSizes)
	writeGroupSection(&b, "Top productos", d.TopProducts)

	if len(d.BrandStores) > 0 {
		fmt.Fprintf(&b, "Tiendas de la marca (contienen \"trucco\"): %s\n", strings.Join(d.BrandStores, ", "))
	}
	if len(d.FamilyNames) > 0 {
		fmt.Fprintf(&b, "Familias disponibles: %s\n", strings.Join(d.FamilyNames, ", "))
	}
	if d.OrderedProductUnits > 0 || d.AvgCostPrice > 0 {
		fmt.Fprintf(&b, "Catálogo: %d unidades pedidas, precio de coste medio €%.2f\n", d.OrderedProductUnits, d.AvgCostPrice)
	}
	if d.TransferredUnits > 0 {
		fmt.Fprintf(&b, "Traspasos: %d unidades entre %d tiendas\n", d.TransferredUnits, d.StoresWithTransfers)
	}

	b.WriteString("\n=== INSTRUCCIONES ===\n")
	b.WriteString("- Usa solo las cifras de arriba; si la pregunta necesita un dato que no está, dilo.\n")
	b.WriteString("- Los ingresos van en euros con el símbolo €.\n")
	b.WriteString("- No inventes tiendas, familias ni cifras.\n")

	return b.String()
}

func writeGroupSection(b *strings.Builder, title string, groups []models.GroupTotal) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for i, g := range groups {
		fmt.Fprintf(b, "  %d. %s: %d unidades, €%.2f\n", i+1, g.Name, g.Units, g.Revenue)
	}
}
