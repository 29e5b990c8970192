package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/config"
	"github.com/lambda-feedback/gatewayproxy/internal/shell"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
	"github.com/lambda-feedback/gatewayproxy/util/logging"
)

var (
	appName  = "gatewayproxy"
	appUsage = `Serve AWS Lambda proxy events (API Gateway REST and HTTP APIs,
Application Load Balancers) with a plain net/http application.`
	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Args:            true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "set the log format. Options: production, development.",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config",
				Usage:   "load configuration from a json or .env file.",
				EnvVars: []string{"CONFIG_FILE"},
			},
			// proxy flags
			&cli.BoolFlag{
				Name:     "force-base64",
				Usage:    "base64 encode every response body.",
				Category: "proxy",
				EnvVars:  []string{"PROXY_FORCE_BASE64"},
			},
			&cli.StringSliceFlag{
				Name:     "binary-type",
				Usage:    "additional media type to treat as binary, e.g. application/pdf.",
				Category: "proxy",
				EnvVars:  []string{"PROXY_BINARY_TYPES"},
			},
			&cli.BoolFlag{
				Name:     "strip-base-path",
				Usage:    "strip the base path from request paths.",
				Category: "proxy",
				EnvVars:  []string{"PROXY_STRIP_BASE_PATH"},
			},
			&cli.StringFlag{
				Name:     "base-path",
				Usage:    "the base path mapping of the custom domain, e.g. /v1.",
				Category: "proxy",
				EnvVars:  []string{"PROXY_BASE_PATH"},
			},
			&cli.StringSliceFlag{
				Name:     "custom-domain",
				Usage:    "a custom domain name trusted as request host.",
				Category: "proxy",
				EnvVars:  []string{"PROXY_CUSTOM_DOMAINS"},
			},
			&cli.StringFlag{
				Name:     "region",
				Usage:    "the AWS region of the API. Resolved from the AWS environment if empty.",
				Category: "proxy",
			},
			// router flags
			&cli.BoolFlag{
				Name:     "tracing",
				Usage:    "trace requests to the bundled application with AWS X-Ray.",
				Category: "router",
				EnvVars:  []string{"ROUTER_TRACING"},
			},
			&cli.StringFlag{
				Name:     "segment-name",
				Usage:    "the X-Ray segment name.",
				Category: "router",
				EnvVars:  []string{"ROUTER_SEGMENT_NAME"},
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := createLogger(ctx)
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			// parse config using defaults, file, env and flags
			cfg, err := conf.Parse[config.Config](conf.ParseOptions{
				Cli:      ctx,
				CliMap:   config.CliMap,
				Defaults: config.DefaultConfig,
				FileName: ctx.Path("config"),
				Log:      log,
			})
			if err != nil {
				return err
			}

			// inject the config into the cli context
			ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

			return nil
		},
		After: func(ctx *cli.Context) error {
			log, err := logging.LoggerFromContext(ctx.Context)
			if err != nil {
				return err
			}

			_ = log.Sync()

			return nil
		},
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

// Execute runs the cli app and returns the process exit code.
func Execute(params ExecuteParams) int {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	return exitCode(rootApp.RunContext(context.Background(), os.Args))
}

func exitCode(err error) int {
	// if app exited without error, return
	if err == nil {
		return 0
	}

	// if app exited with ExitError, exit with given exit code
	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}

	fmt.Fprintf(os.Stderr, "exit error: %s\n", err.Error())

	// otherwise, exit with exit code 1
	return 1
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	level := getLogLevelFromCLI(ctx)
	format := getLogFormatFromCLI(ctx)

	var config zap.Config
	if format == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": appName,
	}

	config.Level = level

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	format := ctx.String("log-format")
	if format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) zap.AtomicLevel {
	lvl := ctx.String("log-level")

	if atom, err := zap.ParseAtomicLevel(lvl); err == nil {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel)
}
