package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quillauth/token-engine/internal/config"
)

// TestFromEnv_Defaults tests that an empty environment yields the defaults.
func TestFromEnv_Defaults(t *testing.T) {
	cfg := config.FromEnv()

	require.Equal(t, 15*time.Minute, cfg.AuthCodeValidity)
	require.Equal(t, time.Hour, cfg.AccessTokenExpiry)
	require.False(t, cfg.RotateRefreshTokens)
	require.Equal(t, ":8080", cfg.Port)
}

// TestFromEnv_Overrides tests environment variable parsing, including the
// port colon normalization.
func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ISSUER", "https://issuer.test")
	t.Setenv("AUTH_CODE_VALIDITY", "5m")
	t.Setenv("ROTATE_REFRESH_TOKENS", "true")
	t.Setenv("PORT", "9090")

	cfg := config.FromEnv()

	require.Equal(t, "https://issuer.test", cfg.Issuer)
	require.Equal(t, 5*time.Minute, cfg.AuthCodeValidity)
	require.True(t, cfg.RotateRefreshTokens)
	require.Equal(t, ":9090", cfg.Port)
}

// TestFromEnv_IgnoresMalformedValues tests that unparseable overrides fall
// back to defaults instead of failing startup.
func TestFromEnv_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("AUTH_CODE_VALIDITY", "soon")
	t.Setenv("ROTATE_REFRESH_TOKENS", "yes please")

	cfg := config.FromEnv()

	require.Equal(t, 15*time.Minute, cfg.AuthCodeValidity)
	require.False(t, cfg.RotateRefreshTokens)
}
