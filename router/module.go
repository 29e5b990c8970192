package router

import (
	"go.uber.org/fx"

	"github.com/lambda-feedback/gatewayproxy/util/logging"
)

func Module(config Config) fx.Option {
	return fx.Module(
		"router",
		// provide router config
		fx.Supply(config),
		// rename logger for module
		logging.DecorateLogger("router"),
		// provide echo app
		fx.Provide(New),
		// mount echo app
		fx.Provide(NewRoute),
	)
}
