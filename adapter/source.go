package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/core"
)

// Source represents the payload format of a lambda event.
type Source string

const (
	// SourceAPIGatewayV1 represents an API Gateway REST API (payload v1) event.
	SourceAPIGatewayV1 Source = "API_GW_V1"

	// SourceAPIGatewayV2 represents an API Gateway HTTP API (payload v2) event.
	SourceAPIGatewayV2 Source = "API_GW_V2"

	// SourceALB represents an Application Load Balancer event.
	SourceALB Source = "ALB"
)

// Sources lists all supported payload formats.
var Sources = []Source{SourceAPIGatewayV1, SourceAPIGatewayV2, SourceALB}

func (s Source) String() string {
	return string(s)
}

// ParseSource parses a payload format name case-insensitively.
func ParseSource(name string) (Source, error) {
	for _, source := range Sources {
		if strings.EqualFold(name, source.String()) {
			return source, nil
		}
	}

	return "", fmt.Errorf("invalid proxy source: %s", name)
}

// NewProxyFunction returns the typed proxy function of an adapter for
// source, as accepted by lambda.Start.
func NewProxyFunction(source Source, handler http.Handler, opts core.Options, log *zap.Logger) (any, error) {
	switch source {
	case SourceAPIGatewayV1:
		return NewAPIGatewayV1(handler, opts, log).ProxyWithContext, nil
	case SourceAPIGatewayV2:
		return NewAPIGatewayV2(handler, opts, log).ProxyWithContext, nil
	case SourceALB:
		return NewALB(handler, opts, log).ProxyWithContext, nil
	default:
		return nil, fmt.Errorf("invalid proxy source: %s", source)
	}
}

// NewHandler returns a lambda.Handler invoking the adapter for source
// with JSON payloads, the same way the Lambda runtime does.
func NewHandler(source Source, handler http.Handler, opts core.Options, log *zap.Logger) (lambda.Handler, error) {
	fn, err := NewProxyFunction(source, handler, opts, log)
	if err != nil {
		return nil, err
	}

	return lambda.NewHandler(fn), nil
}
