package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/lambda-feedback/gatewayproxy/internal/awsenv"
	"github.com/lambda-feedback/gatewayproxy/util/logging"
)

var (
	runCmdDescription = `The run command detects the execution environment from the
environment variables and starts the proxy. This allows the
same binary to be deployed to AWS Lambda and run locally.

If the AWS_LAMBDA_RUNTIME_API environment variable is set,
the AWS Lambda runtime handler is started, matching the
behaviour of the lambda command.

Otherwise, the gateway emulator is started, matching the
behaviour of the serve command.`
	runCmd = &cli.Command{
		Name:        "run",
		Usage:       "Detect execution environment and start the proxy.",
		Description: runCmdDescription,
		Action:      runAction,
		Flags:       []cli.Flag{},
	}
)

func runAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	if awsenv.IsLambda() {
		log.Info("detected AWS Lambda environment")
		return lambdaAction(ctx)
	}

	log.Info("detected standalone environment")
	return serveAction(ctx)
}

func init() {
	// the proxy source flag is shared by both commands
	runCmd.Flags = append(runCmd.Flags, serveCmd.Flags...)

	rootApp.Commands = append(rootApp.Commands, runCmd)
}
