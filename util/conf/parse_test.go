package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lambda-feedback/gatewayproxy/util/conf"
)

type nested struct {
	Enabled bool     `conf:"enabled"`
	Names   []string `conf:"names"`
}

type testConfig struct {
	Name   string `conf:"name" validate:"required"`
	Port   int    `conf:"port" validate:"gte=0,lte=65535"`
	Nested nested `conf:"nested"`
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults:  conf.DefaultConfig{"name": "proxy", "port": 8080, "nested.enabled": true},
		EnvPrefix: "CONFTEST__",
		Log:       zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "proxy", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Nested.Enabled)
}

func TestParse_Env(t *testing.T) {
	t.Setenv("CONFTEST__NAME", "from-env")
	t.Setenv("CONFTEST__NESTED__NAMES", "a,b")

	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults:  conf.DefaultConfig{"name": "proxy"},
		EnvPrefix: "CONFTEST__",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, []string{"a", "b"}, cfg.Nested.Names)
}

func TestParse_SkipEnv(t *testing.T) {
	t.Setenv("CONFTEST__NAME", "from-env")

	cfg, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults:  conf.DefaultConfig{"name": "proxy"},
		EnvPrefix: "CONFTEST__",
		SkipEnv:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "proxy", cfg.Name)
}

func TestParse_File(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "config.json", `{"name":"from-file","port":9000,"nested":{"enabled":true}}`},
		{"dotenv", "local.env", "CONFTEST__NAME=from-file\nCONFTEST__PORT=9000\nCONFTEST__NESTED__ENABLED=true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := conf.Parse[testConfig](conf.ParseOptions{
				FileName:  writeFile(t, tt.file, tt.content),
				EnvPrefix: "CONFTEST__",
				Log:       zaptest.NewLogger(t),
			})
			require.NoError(t, err)

			assert.Equal(t, "from-file", cfg.Name)
			assert.Equal(t, 9000, cfg.Port)
			assert.True(t, cfg.Nested.Enabled)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := conf.Parse[testConfig](conf.ParseOptions{
		Defaults:  conf.DefaultConfig{"port": 70000},
		EnvPrefix: "CONFTEST__",
	})
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)

	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, fe.Field())
	}

	assert.ElementsMatch(t, []string{"name", "port"}, fields)
}

func TestValidate_NonStruct(t *testing.T) {
	assert.NoError(t, conf.Validate("value"))
}
