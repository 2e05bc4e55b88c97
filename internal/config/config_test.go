package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func TestDecodeDefaultsInDevelopment(t *testing.T) {
	cfg, err := decode(newViper())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 8000, cfg.HTTP.Port)
	assert.Equal(t, 15*time.Minute, cfg.Security.JWTAccessTTL)
	assert.Equal(t, 240*time.Hour, cfg.Security.JWTRefreshTTL)
	assert.NotEmpty(t, cfg.Security.JWTAccessSecret)
	assert.NotEqual(t, cfg.Security.JWTAccessSecret, cfg.Security.JWTRefreshSecret)
	assert.Equal(t, "media:tasks", cfg.Worker.Stream)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowCORSOrigins)
}

func TestDecodeRequiresSecretsInProduction(t *testing.T) {
	v := newViper()
	v.Set("environment", "production")

	_, err := decode(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestDecodeRejectsSharedSecrets(t *testing.T) {
	v := newViper()
	v.Set("environment", "production")
	v.Set("security.jwtaccesssecret", "same")
	v.Set("security.jwtrefreshsecret", "same")

	_, err := decode(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differ")
}

func TestDecodeParsesDurationsAndLists(t *testing.T) {
	v := newViper()
	v.Set("environment", "production")
	v.Set("security.jwtaccesssecret", "a")
	v.Set("security.jwtrefreshsecret", "b")
	v.Set("security.jwtaccessttl", "1d")

	_, err := decode(v)
	require.Error(t, err, "1d is not a valid duration")

	v.Set("security.jwtaccessttl", "24h")
	v.Set("allowcorsorigins", "https://a.example,https://b.example")

	cfg, err := decode(v)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 24*time.Hour, cfg.Security.JWTAccessTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowCORSOrigins)
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := AppConfig{
		Security: SecurityConfig{JWTAccessSecret: "a", JWTRefreshSecret: "b", JWTRefreshTTL: time.Hour},
		Storage:  StorageConfig{BucketImages: "i", BucketVideos: "v"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Security.JWTAccessTTL = time.Minute
	assert.NoError(t, cfg.Validate())
}
