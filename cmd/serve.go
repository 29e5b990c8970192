package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/gatewayproxy/app"
	"github.com/lambda-feedback/gatewayproxy/app/standalone"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
	"github.com/lambda-feedback/gatewayproxy/util/logging"
)

var (
	serveCmdDescription = `The serve command starts a http server emulating the API
	Gateway or Application Load Balancer in front of the proxy.
	Every request is turned into the Lambda event of the
	configured proxy source and handled in-process, exactly
	like the Lambda runtime would, which allows to run and test
	the application locally.
	
	The command will launch the http server and blocks indefin-
	itely, processing incoming http requests.`
	serveCmd = &cli.Command{
		Name:        "serve",
		Usage:       "Start a http server emulating the AWS gateway.",
		Description: serveCmdDescription,
		Action:      serveAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "host",
				Aliases:  []string{"H"},
				Usage:    "The host to listen on.",
				Value:    "localhost",
				Category: "http",
				EnvVars:  []string{"HTTP_HOST"},
			},
			&cli.IntFlag{
				Name:     "port",
				Aliases:  []string{"P"},
				Usage:    "The port to listen on.",
				Value:    8080,
				Category: "http",
				EnvVars:  []string{"HTTP_PORT"},
			},
			&cli.BoolFlag{
				Name:     "h2c",
				Usage:    "Enable HTTP/2 cleartext upgrade.",
				Value:    false,
				Category: "http",
				EnvVars:  []string{"HTTP_H2C"},
			},
			&cli.StringFlag{
				Name:     "api-id",
				Usage:    "The id of the emulated API.",
				Value:    "local",
				Category: "emulator",
				EnvVars:  []string{"EMULATOR_API_ID"},
			},
			&cli.StringFlag{
				Name:     "stage",
				Usage:    "The name of the emulated stage.",
				Value:    "$default",
				Category: "emulator",
				EnvVars:  []string{"EMULATOR_STAGE"},
			},
			&cli.Float64Flag{
				Name:     "throttle-rate",
				Usage:    "Throttle requests to this rate per second. 0 disables throttling.",
				Category: "emulator",
				EnvVars:  []string{"EMULATOR_THROTTLE_RATE"},
			},
			&cli.IntFlag{
				Name:     "throttle-burst",
				Usage:    "The burst of requests allowed when throttling.",
				Category: "emulator",
				EnvVars:  []string{"EMULATOR_THROTTLE_BURST"},
			},
			proxySourceFlag,
		},
	}
	serveCliMap = map[string]string{
		"api-id":         "emulator.api_id",
		"stage":          "emulator.stage",
		"throttle-rate":  "emulator.throttle_rate",
		"throttle-burst": "emulator.throttle_burst",
	}
)

func serveAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	app, err := app.New(ctx)
	if err != nil {
		return err
	}

	cfg, err := conf.Parse[standalone.Config](conf.ParseOptions{
		Log:      log,
		Cli:      ctx,
		CliMap:   serveCliMap,
		Defaults: standalone.DefaultConfig(),
		SkipEnv:  true,
	})
	if err != nil {
		return err
	}

	log.Info("starting gateway emulator")

	return app.Run(ctx.Context, standalone.Module(cfg))
}

func init() {
	rootApp.Commands = append(rootApp.Commands, serveCmd)
}
