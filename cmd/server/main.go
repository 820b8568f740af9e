package main

import (
	"log"
	"net/http"

	config "retailsense-api/configs"
	"retailsense-api/pkg/handlers"
	"retailsense-api/pkg/openai"
	"retailsense-api/pkg/services"
	"retailsense-api/pkg/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Cargar el fichero .env si existe
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Carga de configuración
	cfg := config.LoadConfig()

	// Inicialización del router Gin
	r := gin.Default()

	// Proveedor de IA; nil si no hay clave configurada y el chatbot
	// funciona solo con la cascada de reglas.
	var aiClient *openai.Client
	if cfg.OpenAIAPIKey != "" {
		aiClient = openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		log.Printf("🤖 Proveedor de IA configurado (modelo %s)", cfg.OpenAIModel)
	} else {
		log.Println("ℹ️ Sin OPENAI_API_KEY: el chatbot responderá solo con reglas")
	}

	// Inicialización de servicios
	monitoringService := services.NewMonitoringService()
	aggregationService := services.NewAggregationService()
	resolverService := services.NewResolverService(aggregationService)
	visualizationService := services.NewVisualizationService(aggregationService, aiClient)
	chatbotService := services.NewChatbotService(aggregationService, resolverService, visualizationService, aiClient)
	ingestService := services.NewIngestService()
	datasetStore := store.NewDatasetStore()

	// Inicialización de handlers
	chatHandler := handlers.NewChatHandler(chatbotService, datasetStore)
	datasetHandler := handlers.NewDatasetHandler(ingestService, aggregationService, datasetStore)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)

	// Registro de middlewares
	r.Use(monitoringService.Middleware())
	r.Use(cors.Default())

	// Middleware de autenticación
	authMiddleware := func(apiKey string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if apiKey == "" || apiKey == "default_secret_key" {
				c.Next()
				return
			}
			providedKey := c.GetHeader("X-API-KEY")
			if providedKey != apiKey {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			c.Next()
		}
	}

	// Endpoint de health check
	r.GET("/health", handlers.HealthCheck)

	// Grupo de rutas de la API v1
	v1 := r.Group("/api/v1")
	v1.Use(authMiddleware(cfg.APIKey))
	{
		// Chatbot
		v1.POST("/chat", chatHandler.Chat)

		// Datasets
		datasets := v1.Group("/datasets")
		{
			datasets.POST("/sales", datasetHandler.UploadSales)
			datasets.POST("/products", datasetHandler.UploadProducts)
			datasets.POST("/transfers", datasetHandler.UploadTransfers)
			datasets.GET("/summary", datasetHandler.Summary)
		}

		// KPIs agregados
		v1.GET("/stats/digest", datasetHandler.Digest)

		// Monitorización
		monitoring := v1.Group("/monitoring")
		{
			monitoring.GET("/logs", monitoringHandler.RecentRequests)
		}
	}

	addr := ":" + cfg.Port
	log.Printf("Starting RetailSense API server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
