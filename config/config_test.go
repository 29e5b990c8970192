package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lambda-feedback/gatewayproxy/config"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults:  config.DefaultConfig,
		EnvPrefix: "CONFIGTEST__",
		Log:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "production", cfg.LogFormat)
	assert.False(t, cfg.Proxy.ForceBase64)
	assert.False(t, cfg.Router.Tracing)
}

func TestParse_Env(t *testing.T) {
	t.Setenv("CONFIGTEST__PROXY__FORCE_BASE64", "true")
	t.Setenv("CONFIGTEST__PROXY__CUSTOM_DOMAINS", "api.example.com,www.example.com")
	t.Setenv("CONFIGTEST__PROXY__BASE_PATH", "/v1")
	t.Setenv("CONFIGTEST__ROUTER__TRACING", "1")

	cfg, err := conf.Parse[config.Config](conf.ParseOptions{
		Defaults:  config.DefaultConfig,
		EnvPrefix: "CONFIGTEST__",
	})
	require.NoError(t, err)

	assert.True(t, cfg.Proxy.ForceBase64)
	assert.Equal(t, []string{"api.example.com", "www.example.com"}, cfg.Proxy.CustomDomains)
	assert.Equal(t, "/v1", cfg.Proxy.BasePath)
	assert.True(t, cfg.Router.Tracing)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"log level":     "CONFIGTEST__LOG_LEVEL",
		"base path":     "CONFIGTEST__PROXY__BASE_PATH",
		"custom domain": "CONFIGTEST__PROXY__CUSTOM_DOMAINS",
	}

	for name, key := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(key, "not a/valid value")

			_, err := conf.Parse[config.Config](conf.ParseOptions{
				Defaults:  config.DefaultConfig,
				EnvPrefix: "CONFIGTEST__",
			})
			assert.Error(t, err)
		})
	}
}
