package adapter

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
)

type contextKey struct {
	name string
}

var (
	apiGatewayV1ContextKey = &contextKey{"api-gateway-v1-event"}
	apiGatewayV2ContextKey = &contextKey{"api-gateway-v2-event"}
	albContextKey          = &contextKey{"alb-event"}
)

// APIGatewayV1EventFromContext returns the REST API event of a request
// served by a v1 adapter.
func APIGatewayV1EventFromContext(ctx context.Context) (events.APIGatewayProxyRequest, bool) {
	evt, ok := ctx.Value(apiGatewayV1ContextKey).(events.APIGatewayProxyRequest)
	return evt, ok
}

// APIGatewayV2EventFromContext returns the HTTP API event of a request
// served by a v2 adapter.
func APIGatewayV2EventFromContext(ctx context.Context) (events.APIGatewayV2HTTPRequest, bool) {
	evt, ok := ctx.Value(apiGatewayV2ContextKey).(events.APIGatewayV2HTTPRequest)
	return evt, ok
}

// ALBEventFromContext returns the load balancer event of a request
// served by an ALB adapter.
func ALBEventFromContext(ctx context.Context) (events.ALBTargetGroupRequest, bool) {
	evt, ok := ctx.Value(albContextKey).(events.ALBTargetGroupRequest)
	return evt, ok
}
