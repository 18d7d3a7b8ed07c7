package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "access")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh")
}

func TestLoad_Defaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "dynamo", cfg.StoreDriver)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 24*time.Hour, cfg.Tokens.AccessExpiry)
	assert.Equal(t, "otps", cfg.DynamoTables.OTPs)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, 50, cfg.RouteLimit)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("OTP_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_EXPIRY", "72h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TRUST_PROXY", "true")
	t.Setenv("DYNAMO_TABLE_DONORS", "donors_test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongo", cfg.StoreDriver)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 72*time.Hour, cfg.Tokens.RefreshExpiry)
	assert.Equal(t, "access", cfg.Tokens.AccessSecret)
	assert.Equal(t, "donors_test", cfg.DynamoTables.Donors)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "ACCESS_TOKEN_SECRET")
}

func TestLoad_QueueNeedsRedis(t *testing.T) {
	setSecrets(t)
	t.Setenv("DISPATCH_MODE", "queue")
	t.Setenv("REDIS_ADDR", "")
	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_ADDR")
}

func TestLoad_WildcardOriginRejected(t *testing.T) {
	setSecrets(t)
	t.Setenv("ALLOWED_ORIGINS", "*")
	_, err := Load()
	assert.ErrorContains(t, err, "ALLOWED_ORIGINS")
}

func TestLoad_EmptyOriginsRejected(t *testing.T) {
	setSecrets(t)
	t.Setenv("ALLOWED_ORIGINS", " , ")
	_, err := Load()
	assert.ErrorContains(t, err, "ALLOWED_ORIGINS")
}
