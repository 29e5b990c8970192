package standalone

import (
	"go.uber.org/fx"

	"github.com/lambda-feedback/gatewayproxy/internal/server"
	"github.com/lambda-feedback/gatewayproxy/util/logging"
)

func Module(config Config) fx.Option {
	return fx.Module(
		"serve",
		// provide serve config
		fx.Supply(config),
		// rename logger for module
		logging.DecorateLogger("serve"),
		// provide emulator as the server handler
		fx.Provide(NewEmulator),
		// provide server
		server.Module(config.HttpConfig),
	)
}
