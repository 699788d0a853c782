package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"postgres": map[string]any{
			"sslMode": "disable",
			"master": map[string]any{
				"userName": "user",
			},
		},
		"cache": map[string]any{
			"keyPrefix": "",
		},
		"secretKey": map[string]any{
			"access": "",
		},
		"auth": map[string]any{
			"rateLimit": map[string]any{
				"enabled": true,
			},
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "POSTGRES_SSLMODE", want: "postgres.sslMode"},
		{envKey: "POSTGRES_MASTER_USERNAME", want: "postgres.master.userName"},
		{envKey: "CACHE_KEYPREFIX", want: "cache.keyPrefix"},
		{envKey: "SECRETKEY_ACCESS", want: "secretKey.access"},
		{envKey: "AUTH_RATELIMIT_ENABLED", want: "auth.rateLimit.enabled"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			assert.Equal(t, tt.want, canonicalizeEnvKey(tt.envKey, existing))
		})
	}
}

func TestApplyDefaults_SessionLifetimes(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	require.NotNil(t, cfg.Auth)
	assert.Equal(t, time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.VerificationTTL)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, 60*time.Second, cfg.Auth.RateLimit.Interval)
	assert.True(t, cfg.Auth.RateLimit.Enabled)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
}

func TestApplyDefaults_KeepsConfiguredValues(t *testing.T) {
	cfg := &Config{
		Auth: &AuthConfig{
			AccessTokenTTL: 2 * time.Minute,
			RateLimit:      RateLimitConfig{Enabled: false, Interval: 10 * time.Second},
		},
		App:    &AppConfig{ClientURL: "https://estate.example"},
		QRCode: &QRCodeConfig{Size: 512},
	}
	applyDefaults(cfg)

	assert.Equal(t, 2*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.False(t, cfg.Auth.RateLimit.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Auth.RateLimit.Interval)
	assert.Equal(t, 512, cfg.QRCode.Size)
	assert.Equal(t, "https://estate.example", cfg.QRCode.BaseURL)
}
