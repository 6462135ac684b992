package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LLM_PROVIDER", "LLM_TEMPERATURE", "CACHE_TTL", "CORS_ORIGINS", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.InDelta(t, 0.5, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CacheTTL)
	assert.Nil(t, cfg.Server.CORSOrigins)
	assert.InDelta(t, 1.0, cfg.Server.RateLimitRPS, 0.0001)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_TEMPERATURE", "0.2")
	t.Setenv("CACHE_TTL", "90m")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 90*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "5001"},
			LLM:    LLMConfig{Provider: "gemini", Temperature: 0.5},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Server.Port = ""
	assert.EqualError(t, cfg.Validate(), "PORT is required")

	cfg = base()
	cfg.LLM.Provider = "palm"
	assert.EqualError(t, cfg.Validate(), "invalid LLM_PROVIDER: palm")

	cfg = base()
	cfg.LLM.Temperature = 3
	assert.Error(t, cfg.Validate())
}
