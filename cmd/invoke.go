package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/adapter"
	"github.com/lambda-feedback/gatewayproxy/app"
	"github.com/lambda-feedback/gatewayproxy/config"
	"github.com/lambda-feedback/gatewayproxy/router"
	"github.com/lambda-feedback/gatewayproxy/schema"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
	"github.com/lambda-feedback/gatewayproxy/util/logging"
)

var (
	invokeCmdDescription = `The invoke command handles a single Lambda event offline and
prints the response envelope. The event is read from the
given file, or from stdin if no file or - is given.

The proxy source is detected from the event, unless it is
set explicitly. The event is validated against the schema
of its proxy source before it is handled.`
	invokeCmd = &cli.Command{
		Name:        "invoke",
		Usage:       "Handle a single event and print the response.",
		Description: invokeCmdDescription,
		ArgsUsage:   "[event file]",
		Action:      invokeAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "source",
				Aliases:  []string{"s"},
				Usage:    "the source of the event. Options: API_GW_V1, API_GW_V2, ALB. Detected if empty.",
				Category: "invoke",
			},
			&cli.BoolFlag{
				Name:     "no-validate",
				Usage:    "skip validating the event against its schema.",
				Category: "invoke",
			},
			&cli.BoolFlag{
				Name:     "pretty",
				Usage:    "indent the printed response.",
				Category: "invoke",
			},
		},
	}
)

func invokeAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return err
	}

	event, err := readEvent(ctx)
	if err != nil {
		return err
	}

	schemas, err := schema.New()
	if err != nil {
		return err
	}

	source, err := eventSource(schemas, ctx.String("source"), event)
	if err != nil {
		return err
	}

	if !ctx.Bool("no-validate") {
		if err := schemas.Validate(source, event); err != nil {
			return err
		}
	}

	log.Debug("invoking event", zap.Stringer("proxy_source", source))

	handler, err := adapter.NewHandler(
		source,
		router.New(router.Params{Config: cfg.Router, Log: log.Named("router")}),
		app.NewOptions(ctx.Context, cfg.Proxy, log),
		log.Named("adapter"),
	)
	if err != nil {
		return err
	}

	lc := &lambdacontext.LambdaContext{AwsRequestID: uuid.NewString()}

	out, err := handler.Invoke(lambdacontext.NewContext(ctx.Context, lc), event)
	if err != nil {
		return err
	}

	if ctx.Bool("pretty") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err == nil {
			out = buf.Bytes()
		}
	}

	_, err = fmt.Fprintln(ctx.App.Writer, string(out))
	return err
}

// readEvent reads the event from the file given as argument, or stdin.
func readEvent(ctx *cli.Context) ([]byte, error) {
	path := ctx.Args().First()
	if path == "" || path == "-" {
		reader := ctx.App.Reader
		if reader == nil {
			reader = os.Stdin
		}
		return io.ReadAll(reader)
	}

	return os.ReadFile(path)
}

func eventSource(schemas *schema.Schema, name string, event []byte) (adapter.Source, error) {
	if name != "" {
		return adapter.ParseSource(name)
	}

	return schemas.Detect(event)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, invokeCmd)
}
