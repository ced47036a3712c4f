package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/PabloGalante/comanda-agent/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads, so tests see only what they set.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COMANDA_ADDR", "COMANDA_LOG_LEVEL", "COMANDA_BACKEND",
		"COMANDA_GCP_PROJECT", "COMANDA_GCP_LOCATION", "COMANDA_MODEL_NAME",
		"COMANDA_RESTAURANT", "COMANDA_USE_MOCK_LLM", "GEMINI_API_KEY",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.BackendGemini, cfg.Backend)
	assert.Equal(t, "us-central1", cfg.GCPLocation)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName)
	assert.Equal(t, "La Comanda", cfg.RestaurantName)
	assert.False(t, cfg.UseMockLLM)
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMANDA_ADDR", ":9999")
	t.Setenv("COMANDA_BACKEND", "vertex")
	t.Setenv("COMANDA_GCP_PROJECT", "acme-prod")
	t.Setenv("COMANDA_RESTAURANT", "Trattoria Da Baffo")
	t.Setenv("COMANDA_USE_MOCK_LLM", "true")
	t.Setenv("GEMINI_API_KEY", "sk-test")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, config.BackendVertex, cfg.Backend)
	assert.Equal(t, "acme-prod", cfg.GCPProjectID)
	assert.Equal(t, "Trattoria Da Baffo", cfg.RestaurantName)
	assert.True(t, cfg.UseMockLLM)
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":7070"
log_level: debug
backend: vertex
gcp_project: acme-dev
restaurant_name: Chez Nous
use_mock_llm: true
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.BackendVertex, cfg.Backend)
	assert.Equal(t, "acme-dev", cfg.GCPProjectID)
	assert.Equal(t, "Chez Nous", cfg.RestaurantName)
	assert.True(t, cfg.UseMockLLM)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMANDA_ADDR", ":6060")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7070\"\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{Backend: config.BackendGemini}
	}

	t.Run("gemini needs api key", func(t *testing.T) {
		cfg := base()
		require.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")

		cfg.APIKey = "sk-test"
		require.NoError(t, cfg.Validate())
	})

	t.Run("vertex needs project", func(t *testing.T) {
		cfg := base()
		cfg.Backend = config.BackendVertex
		require.ErrorContains(t, cfg.Validate(), "COMANDA_GCP_PROJECT")

		cfg.GCPProjectID = "acme-prod"
		require.NoError(t, cfg.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := base()
		cfg.Backend = "azure"
		require.ErrorContains(t, cfg.Validate(), "unknown backend")
	})

	t.Run("mock skips credentials", func(t *testing.T) {
		cfg := base()
		cfg.UseMockLLM = true
		require.NoError(t, cfg.Validate())
	})
}
