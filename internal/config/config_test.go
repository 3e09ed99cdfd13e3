package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, GenerationProviderGemini, cfg.GenerationCfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiCfg.TextModel)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.GeminiCfg.ImageModel)
	assert.Equal(t, "3:4", cfg.GeminiCfg.AspectRatio)
	assert.Equal(t, uint(1), cfg.GenerationCfg.Retry.Attempts)
	assert.Equal(t, 800*time.Millisecond, cfg.WalkthroughCfg.GreetingDelay)
	assert.Equal(t, time.Second, cfg.WalkthroughCfg.StartPause)
	assert.Equal(t, 1500*time.Millisecond, cfg.WalkthroughCfg.TypingDelay)
	assert.Equal(t, 2500*time.Millisecond, cfg.SessionCfg.LoadingMessageInterval)
	assert.False(t, cfg.SavingEnabled())
	require.NotNil(t, cfg.Catalog)
	assert.True(t, cfg.Catalog.IsSymptom("Tosse"))
}

func TestParseCollectsAllErrors(t *testing.T) {
	t.Setenv("GENERATION_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ENABLE_MOCKS", "false")
	t.Setenv("TELEGRAM_RATE_LIMIT_BURST", "0")
	t.Setenv("SESSION_TTL", "1s")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "TELEGRAM_RATE_LIMIT_BURST")
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestParseUnknownProvider(t *testing.T) {
	t.Setenv("GENERATION_PROVIDER", "oracle")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATION_PROVIDER")
}

func TestParseCatalogOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"symptom_categories":[{"name":"Sonno","items":["Insonnia"]}]}`), 0o600))

	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("CATALOG_FILE", path)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.True(t, cfg.Catalog.IsSymptom("Insonnia"))
	assert.False(t, cfg.Catalog.IsSymptom("Tosse"))
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
