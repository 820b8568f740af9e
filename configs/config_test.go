package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Variables de entorno para el test
	testCases := map[string]string{
		"PORT":            "9090",
		"ENVIRONMENT":     "test",
		"API_KEY":         "secret",
		"OPENAI_API_KEY":  "sk-test-key-123",
		"OPENAI_MODEL":    "gpt-4o",
		"OPENAI_BASE_URL": "https://proxy.example.com/v1",
	}

	for key, value := range testCases {
		os.Setenv(key, value)
	}

	// Limpieza al terminar
	defer func() {
		for key := range testCases {
			os.Unsetenv(key)
		}
	}()

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("Expected Port to be '9090', got '%s'", cfg.Port)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}

	if cfg.APIKey != "secret" {
		t.Errorf("Expected APIKey to be 'secret', got '%s'", cfg.APIKey)
	}

	if cfg.OpenAIAPIKey != "sk-test-key-123" {
		t.Errorf("Expected OpenAIAPIKey to be 'sk-test-key-123', got '%s'", cfg.OpenAIAPIKey)
	}

	if cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("Expected OpenAIModel to be 'gpt-4o', got '%s'", cfg.OpenAIModel)
	}

	if cfg.OpenAIBaseURL != "https://proxy.example.com/v1" {
		t.Errorf("Expected OpenAIBaseURL to be 'https://proxy.example.com/v1', got '%s'", cfg.OpenAIBaseURL)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// Limpiar variables de entorno
	vars := []string{
		"PORT", "ENVIRONMENT", "API_KEY",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	}

	for _, v := range vars {
		os.Unsetenv(v)
	}

	cfg := LoadConfig()

	// Valores por defecto
	if cfg.Port != "8080" {
		t.Errorf("Expected default Port to be '8080', got '%s'", cfg.Port)
	}

	if cfg.Environment != "development" {
		t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
	}

	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("Expected default OpenAIModel to be 'gpt-4o-mini', got '%s'", cfg.OpenAIModel)
	}

	if cfg.OpenAIAPIKey != "" {
		t.Errorf("Expected default OpenAIAPIKey to be empty, got '%s'", cfg.OpenAIAPIKey)
	}
}

func TestExtractOpenAIKey(t *testing.T) {
	// El valor de la variable a veces llega con basura alrededor (un curl
	// pegado entero); el extractor debe quedarse solo con el token.
	cases := []struct {
		name  string
		raw   string
		wants string
	}{
		{"empty", "", ""},
		{"plain key", "sk-abc123", "sk-abc123"},
		{"project key", "sk-proj-Abc_123-xyz", "sk-proj-Abc_123-xyz"},
		{"key with surrounding text", `curl -H "Authorization: Bearer sk-abc123" https://api.openai.com`, "sk-abc123"},
		{"whitespace around key", "  sk-abc123  ", "sk-abc123"},
		{"no sk prefix", "  some-other-token  ", "some-other-token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractOpenAIKey(tc.raw)
			if got != tc.wants {
				t.Errorf("ExtractOpenAIKey(%q) = %q, want %q", tc.raw, got, tc.wants)
			}
		})
	}
}
