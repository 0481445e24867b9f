package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every tunable the engine reads. It is built once at
// startup and passed explicitly at construction time; the engine holds no
// process-wide mutable defaults.
type Config struct {
	// Issuer is the value stamped into the iss claim of ID tokens.
	Issuer string

	// TokenEndpoint is the audience a signed client assertion must name.
	TokenEndpoint string

	// AuthCodeValidity is the window after which an authorization code is
	// rejected as expired.
	AuthCodeValidity time.Duration

	// AccessTokenExpiry / IDTokenExpiry bound the lifetime of minted
	// credentials. Expiry is evaluated at use time.
	AccessTokenExpiry time.Duration
	IDTokenExpiry     time.Duration

	// RotateRefreshTokens invalidates the prior token's refresh credential
	// when a refresh grant mints a successor. Off by default: long-lived
	// refresh token reuse is the documented default policy.
	RotateRefreshTokens bool

	// Port is the listen address for the demo server.
	Port string

	// AppName is the banner name shown on startup.
	AppName string
}

// Default returns the configuration used when no environment overrides are
// present.
func Default() *Config {
	return &Config{
		Issuer:            "https://localhost:8080",
		TokenEndpoint:     "https://localhost:8080/oauth2/token",
		AuthCodeValidity:  15 * time.Minute,
		AccessTokenExpiry: time.Hour,
		IDTokenExpiry:     time.Hour,
		Port:              ":8080",
		AppName:           "Token Engine",
	}
}

// FromEnv loads the configuration, falling back to defaults for unset
// variables.
func FromEnv() *Config {
	c := Default()
	c.Issuer = getEnv("ISSUER", c.Issuer)
	c.TokenEndpoint = getEnv("TOKEN_ENDPOINT", c.TokenEndpoint)
	c.AuthCodeValidity = getDurationEnv("AUTH_CODE_VALIDITY", c.AuthCodeValidity)
	c.AccessTokenExpiry = getDurationEnv("ACCESS_TOKEN_EXPIRY", c.AccessTokenExpiry)
	c.IDTokenExpiry = getDurationEnv("ID_TOKEN_EXPIRY", c.IDTokenExpiry)
	c.RotateRefreshTokens = getBoolEnv("ROTATE_REFRESH_TOKENS", c.RotateRefreshTokens)
	c.AppName = getEnv("APP_NAME", c.AppName)

	if port := getEnv("PORT", ""); port != "" {
		if port[0] != ':' {
			port = ":" + port
		}
		c.Port = port
	}
	return c
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
