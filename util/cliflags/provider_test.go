package cliflags_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/gatewayproxy/util/cliflags"
)

func TestProvider(t *testing.T) {
	var values map[string]any

	app := &cli.App{
		Name: "test",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-path"},
			&cli.StringSliceFlag{Name: "custom-domain"},
			&cli.BoolFlag{Name: "tracing"},
			&cli.IntFlag{Name: "port", Value: 8080},
			&cli.Float64Flag{Name: "throttle-rate"},
		},
		Action: func(ctx *cli.Context) error {
			mapping := map[string]string{
				"base-path":     "proxy.base_path",
				"custom-domain": "proxy.custom_domains",
			}

			provider := cliflags.Provider(ctx, ".", func(name string) string {
				if key, ok := mapping[name]; ok {
					return key
				}
				return strings.ReplaceAll(name, "-", "_")
			})

			var err error
			values, err = provider.Read()
			return err
		},
	}

	err := app.Run([]string{
		"test",
		"--base-path", "/v1",
		"--custom-domain", "a.example.com",
		"--custom-domain", "b.example.com",
		"--tracing",
		"--throttle-rate", "2.5",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"proxy": map[string]any{
			"base_path":      "/v1",
			"custom_domains": []string{"a.example.com", "b.example.com"},
		},
		"tracing":       true,
		"throttle_rate": 2.5,
	}, values)

	// unset flags are left to the other providers
	assert.NotContains(t, values, "port")
}

func TestProvider_ReadBytes(t *testing.T) {
	app := &cli.App{
		Name: "test",
		Action: func(ctx *cli.Context) error {
			_, err := cliflags.Provider(ctx, "", nil).ReadBytes()
			assert.Error(t, err)
			return nil
		},
	}

	require.NoError(t, app.Run([]string{"test"}))
}
