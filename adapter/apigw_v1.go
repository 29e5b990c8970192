package adapter

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/core"
)

// APIGatewayV1 serves API Gateway REST API events.
type APIGatewayV1 = Adapter[events.APIGatewayProxyRequest, events.APIGatewayProxyResponse]

// NewAPIGatewayV1 creates an adapter for API Gateway REST API events.
func NewAPIGatewayV1(handler http.Handler, opts core.Options, log *zap.Logger) *APIGatewayV1 {
	return New[events.APIGatewayProxyRequest, events.APIGatewayProxyResponse](apiGatewayV1{}, handler, opts, log)
}

type apiGatewayV1 struct{}

func (apiGatewayV1) Source() Source {
	return SourceAPIGatewayV1
}

func (apiGatewayV1) Event(evt events.APIGatewayProxyRequest) core.Event {
	method := evt.HTTPMethod
	if method == "" {
		method = evt.RequestContext.HTTPMethod
	}

	path := evt.Path
	if path == "" {
		path = evt.RequestContext.Path
	}

	return core.Event{
		Method:            method,
		Path:              path,
		Headers:           evt.Headers,
		MultiValueHeaders: evt.MultiValueHeaders,
		Query:             evt.QueryStringParameters,
		MultiValueQuery:   evt.MultiValueQueryStringParameters,
		PathParameters:    evt.PathParameters,
		StageVariables:    evt.StageVariables,
		Body:              evt.Body,
		IsBase64Encoded:   evt.IsBase64Encoded,
		SourceIP:          evt.RequestContext.Identity.SourceIP,
		Origin:            core.Origin{APIID: evt.RequestContext.APIID},
	}
}

func (apiGatewayV1) Envelope(resp *core.Response, opts core.Options) (events.APIGatewayProxyResponse, error) {
	code, _, err := resp.Status()
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	headers, multiValueHeaders := splitHeaders(headersWithCookies(resp))
	body := resp.EncodeBody(opts)

	return events.APIGatewayProxyResponse{
		StatusCode:        code,
		Headers:           headers,
		MultiValueHeaders: multiValueHeaders,
		Body:              body.Body,
		IsBase64Encoded:   body.IsBase64,
	}, nil
}

func (apiGatewayV1) WithEvent(ctx context.Context, evt events.APIGatewayProxyRequest) context.Context {
	return context.WithValue(ctx, apiGatewayV1ContextKey, evt)
}
