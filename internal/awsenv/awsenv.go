// Package awsenv inspects the AWS environment the process runs in.
package awsenv

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/core"
)

// IsLambda reports whether the process runs inside the AWS Lambda
// execution environment.
func IsLambda() bool {
	api, ok := os.LookupEnv("AWS_LAMBDA_RUNTIME_API")
	return ok && api != ""
}

// Region resolves the region through the AWS SDK default configuration
// chain (environment, shared config files), falling back to
// core.DefaultRegion.
func Region(ctx context.Context, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		log.Warn("failed to load aws config", zap.Error(err))
		return core.DefaultRegion
	}

	if cfg.Region == "" {
		return core.DefaultRegion
	}

	return cfg.Region
}
