package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Backend string

const (
	BackendGemini Backend = "gemini"
	BackendVertex Backend = "vertex"
)

type Config struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`

	Backend Backend `yaml:"backend"`

	// APIKey is read from GEMINI_API_KEY only, never from a file.
	APIKey string `yaml:"-"`

	GCPProjectID string `yaml:"gcp_project"`
	GCPLocation  string `yaml:"gcp_location"`
	ModelName    string `yaml:"model_name"`

	RestaurantName string `yaml:"restaurant_name"`

	UseMockLLM bool `yaml:"use_mock_llm"` // true = scripted replies, no credentials needed
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func defaults() *Config {
	return &Config{
		Addr:     ":8080",
		LogLevel: "info",

		Backend: BackendGemini,

		GCPLocation: "us-central1",
		ModelName:   "gemini-2.5-flash",

		RestaurantName: "La Comanda",
	}
}

// Load builds the config in three layers: defaults, then the optional YAML
// file at path, then env vars. Env always wins.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Addr = getEnv("COMANDA_ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("COMANDA_LOG_LEVEL", cfg.LogLevel)
	cfg.Backend = Backend(getEnv("COMANDA_BACKEND", string(cfg.Backend)))

	cfg.APIKey = os.Getenv("GEMINI_API_KEY")

	cfg.GCPProjectID = getEnv("COMANDA_GCP_PROJECT", cfg.GCPProjectID)
	cfg.GCPLocation = getEnv("COMANDA_GCP_LOCATION", cfg.GCPLocation)
	cfg.ModelName = getEnv("COMANDA_MODEL_NAME", cfg.ModelName)

	cfg.RestaurantName = getEnv("COMANDA_RESTAURANT", cfg.RestaurantName)

	cfg.UseMockLLM = getBoolEnv("COMANDA_USE_MOCK_LLM", cfg.UseMockLLM)

	return cfg, nil
}

// Validate checks that the selected backend has what it needs. The mock
// backend needs no credentials, so it skips those checks.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendGemini, BackendVertex:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.UseMockLLM {
		return nil
	}
	if c.Backend == BackendGemini && c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set with the gemini backend")
	}
	if c.Backend == BackendVertex && c.GCPProjectID == "" {
		return fmt.Errorf("COMANDA_GCP_PROJECT must be set with the vertex backend")
	}
	return nil
}
