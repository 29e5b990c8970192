package lambda

import (
	"github.com/lambda-feedback/gatewayproxy/adapter"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
)

type Config struct {
	// ProxySource is the payload format of the AWS Lambda events.
	ProxySource adapter.Source `conf:"lambda_proxy_source" validate:"required"`
}

func DefaultConfig() conf.DefaultConfig {
	return conf.DefaultConfig{
		"lambda_proxy_source": adapter.SourceAPIGatewayV2.String(),
	}
}
