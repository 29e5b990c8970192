package standalone

import (
	"github.com/lambda-feedback/gatewayproxy/adapter"
	"github.com/lambda-feedback/gatewayproxy/emulator"
	"github.com/lambda-feedback/gatewayproxy/internal/server"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
)

type Config struct {
	// HttpConfig represents the configuration for the HTTP server.
	HttpConfig server.HttpConfig `conf:",squash"`

	// ProxySource is the payload format of the emulated events.
	ProxySource adapter.Source `conf:"lambda_proxy_source" validate:"required"`

	// Emulator configures the emulated API.
	Emulator emulator.Config `conf:"emulator"`
}

func DefaultConfig() conf.DefaultConfig {
	emulatorConfig := emulator.DefaultConfig()

	defaults := conf.MergeDefaults("emulator", conf.DefaultConfig{
		"api_id": emulatorConfig.APIID,
		"stage":  emulatorConfig.Stage,
	})

	defaults["host"] = "localhost"
	defaults["port"] = 8080
	defaults["lambda_proxy_source"] = adapter.SourceAPIGatewayV2.String()

	return defaults
}
