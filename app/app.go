package app

import (
	"context"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/config"
	"github.com/lambda-feedback/gatewayproxy/core"
	"github.com/lambda-feedback/gatewayproxy/internal/awsenv"
	"github.com/lambda-feedback/gatewayproxy/internal/server"
	"github.com/lambda-feedback/gatewayproxy/internal/shell"
	"github.com/lambda-feedback/gatewayproxy/router"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
	"github.com/lambda-feedback/gatewayproxy/util/logging"
)

func New(ctx *cli.Context) (*shell.Shell, error) {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return nil, err
	}

	config, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return nil, err
	}

	return shell.New(log, Module(config)), nil
}

// Module provides the proxy options and the hosted application,
// shared by the lambda and serve commands.
func Module(config config.Config) fx.Option {
	return fx.Module(
		"shared",
		// provide global config
		fx.Supply(config),
		// provide proxy config
		fx.Supply(config.Proxy),
		// provide resolved proxy options
		fx.Provide(NewOptions),
		// provide bundled application
		router.Module(config.Router),
		// provide mux of all mounted handlers
		fx.Provide(server.NewMux),
	)
}

// NewOptions resolves the proxy config, looking up the region in the
// AWS environment if it is not configured.
func NewOptions(ctx context.Context, cfg core.Config, log *zap.Logger) core.Options {
	if cfg.Region == "" {
		cfg.Region = awsenv.Region(ctx, log)
	}

	opts := core.NewOptions(cfg)

	log.Debug("resolved proxy options",
		zap.String("region", opts.Region),
		zap.String("base_path", opts.BasePath),
		zap.Bool("force_base64", opts.ForceBase64),
		zap.Int("binary_types", opts.Binary.Len()),
	)

	return opts
}
