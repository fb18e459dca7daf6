package common_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/inbody-tracker/internal/common"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"INBODY_DB_PATH", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_API_KEY",
		"OPENAI_TEMPERATURE", "OPENAI_MAX_TOKENS", "OPENAI_TIMEOUT",
		"INBODY_LOCALE_HINT", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := common.LoadConfig()

	assert.Equal(t, "inbody_results.db", cfg.Database.Path)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, float32(0.1), cfg.LLM.Temperature)
	assert.Equal(t, int32(2000), cfg.LLM.MaxTokens)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Empty(t, cfg.LLM.LocaleHint)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("INBODY_DB_PATH", "/data/scans.db")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_MAX_TOKENS", "512")
	t.Setenv("OPENAI_TIMEOUT", "2m")
	t.Setenv("INBODY_LOCALE_HINT", "Polish")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := common.LoadConfig()

	assert.Equal(t, "/data/scans.db", cfg.Database.Path)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, int32(512), cfg.LLM.MaxTokens)
	assert.Equal(t, 2*time.Minute, cfg.LLM.Timeout)
	assert.Equal(t, "Polish", cfg.LLM.LocaleHint)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfigBadValuesFallBack(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OPENAI_MAX_TOKENS", "many")
	t.Setenv("OPENAI_TEMPERATURE", "warm")
	t.Setenv("OPENAI_TIMEOUT", "soon")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := common.LoadConfig()

	assert.Equal(t, int32(2000), cfg.LLM.MaxTokens)
	assert.Equal(t, float32(0.1), cfg.LLM.Temperature)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	cfg := &common.Config{
		Database: common.DatabaseConfig{Path: "scans.db"},
		LLM:      common.LLMConfig{APIKey: "sk-test"},
	}
	assert.NoError(t, cfg.Validate())

	noKey := &common.Config{Database: common.DatabaseConfig{Path: "scans.db"}}
	err := noKey.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)

	noPath := &common.Config{LLM: common.LLMConfig{APIKey: "sk-test"}}
	assert.Error(t, noPath.Validate())
}
