package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, 5, cfg.RateLimit.PerMinute)
	require.Equal(t, 100, cfg.RateLimit.PerDay)
	require.Equal(t, "X-Real-Ip", cfg.Access.IdentityHeader)
	require.Equal(t, "X-Key", cfg.Access.KeyHeader)
	require.Empty(t, cfg.Access.AllowList)
	require.Equal(t, 64, cfg.Stream.PaddingSize)
	require.Equal(t, 60, cfg.Stream.IdleTimeout)
	require.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "30")
	t.Setenv("ALLOW_LIST", "alpha,beta")
	t.Setenv("STREAM_PADDING_SIZE", "0")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, 30, cfg.RateLimit.PerMinute)
	require.Equal(t, []string{"alpha", "beta"}, cfg.Access.AllowList)
	require.Equal(t, 0, cfg.Stream.PaddingSize)
	require.Equal(t, "localhost:6379", cfg.RateLimit.RedisAddr)
}

func TestParseDependenciesConfig_PointsIntoConfig(t *testing.T) {
	cfg := Load()
	deps := ParseDependenciesConfig(cfg)

	require.Same(t, &cfg.Server, deps.ServerConfig)
	require.Same(t, &cfg.RateLimit, deps.RateLimitConfig)
	require.Same(t, &cfg.Stream, deps.StreamConfig)
}
