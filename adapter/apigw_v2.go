package adapter

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/core"
)

// APIGatewayV2 serves API Gateway HTTP API (payload v2) events.
type APIGatewayV2 = Adapter[events.APIGatewayV2HTTPRequest, events.APIGatewayV2HTTPResponse]

// NewAPIGatewayV2 creates an adapter for API Gateway HTTP API events.
func NewAPIGatewayV2(handler http.Handler, opts core.Options, log *zap.Logger) *APIGatewayV2 {
	return New[events.APIGatewayV2HTTPRequest, events.APIGatewayV2HTTPResponse](apiGatewayV2{}, handler, opts, log)
}

type apiGatewayV2 struct{}

func (apiGatewayV2) Source() Source {
	return SourceAPIGatewayV2
}

func (apiGatewayV2) Event(evt events.APIGatewayV2HTTPRequest) core.Event {
	path := evt.RawPath
	if path == "" {
		path = evt.RequestContext.HTTP.Path
	}

	return core.Event{
		Method:          evt.RequestContext.HTTP.Method,
		Path:            path,
		Headers:         evt.Headers,
		RawQuery:        evt.RawQueryString,
		Query:           evt.QueryStringParameters,
		PathParameters:  evt.PathParameters,
		StageVariables:  evt.StageVariables,
		Cookies:         evt.Cookies,
		Body:            evt.Body,
		IsBase64Encoded: evt.IsBase64Encoded,
		SourceIP:        evt.RequestContext.HTTP.SourceIP,
		Origin:          core.Origin{APIID: evt.RequestContext.APIID},
	}
}

func (apiGatewayV2) Envelope(resp *core.Response, opts core.Options) (events.APIGatewayV2HTTPResponse, error) {
	code, _, err := resp.Status()
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	header := resp.Header.Clone()
	header.Del(core.HeaderSetCookie)

	cookies := resp.SetCookieValues()

	body := resp.EncodeBody(opts)

	return events.APIGatewayV2HTTPResponse{
		StatusCode:      code,
		Headers:         joinHeaders(header),
		Cookies:         cookies,
		Body:            body.Body,
		IsBase64Encoded: body.IsBase64,
	}, nil
}

func (apiGatewayV2) WithEvent(ctx context.Context, evt events.APIGatewayV2HTTPRequest) context.Context {
	return context.WithValue(ctx, apiGatewayV2ContextKey, evt)
}
