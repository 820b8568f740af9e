package config

import (
	"os"
	"regexp"
	"strings"
)

// Config holds the application configuration
type Config struct {
	Port          string
	Environment   string
	APIKey        string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// El valor de OPENAI_API_KEY a veces llega con un comando curl pegado
// alrededor; nos quedamos solo con el token sk-... si aparece.
var openAIKeyPattern = regexp.MustCompile(`(sk-proj-[A-Za-z0-9_-]+|sk-[A-Za-z0-9_-]+)`)

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		APIKey:        getEnv("API_KEY", ""),
		OpenAIAPIKey:  ExtractOpenAIKey(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
	}
}

// ExtractOpenAIKey recorta el token de API de un valor de entorno que puede
// contener texto adicional. Devuelve "" solo si el valor está vacío.
func ExtractOpenAIKey(raw string) string {
	if raw == "" {
		return ""
	}
	if match := openAIKeyPattern.FindString(raw); match != "" {
		return match
	}
	// Sin el formato esperado pero presente: usarlo tal cual.
	return strings.TrimSpace(raw)
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
