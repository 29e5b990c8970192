package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/core"
)

// ALB serves Application Load Balancer target group events.
type ALB = Adapter[events.ALBTargetGroupRequest, events.ALBTargetGroupResponse]

// NewALB creates an adapter for Application Load Balancer events.
func NewALB(handler http.Handler, opts core.Options, log *zap.Logger) *ALB {
	return New[events.ALBTargetGroupRequest, events.ALBTargetGroupResponse](alb{}, handler, opts, log)
}

type alb struct{}

func (alb) Source() Source {
	return SourceALB
}

func (alb) Event(evt events.ALBTargetGroupRequest) core.Event {
	header := core.CollapseHeaders(evt.MultiValueHeaders, evt.Headers)

	return core.Event{
		Method:            evt.HTTPMethod,
		Path:              evt.Path,
		Headers:           evt.Headers,
		MultiValueHeaders: evt.MultiValueHeaders,
		Query:             unescapeQuery(evt.QueryStringParameters),
		MultiValueQuery:   unescapeMultiValueQuery(evt.MultiValueQueryStringParameters),
		Body:              evt.Body,
		IsBase64Encoded:   evt.IsBase64Encoded,
		SourceIP:          clientIP(header.Get(core.HeaderXForwardedFor)),
	}
}

// clientIP returns the first entry of an X-Forwarded-For list.
func clientIP(forwardedFor string) string {
	first, _, _ := strings.Cut(forwardedFor, ",")
	return strings.TrimSpace(first)
}

func (alb) Envelope(resp *core.Response, opts core.Options) (events.ALBTargetGroupResponse, error) {
	code, reason, err := resp.Status()
	if err != nil {
		return events.ALBTargetGroupResponse{}, err
	}

	headers, multiValueHeaders := splitHeaders(headersWithCookies(resp))
	body := resp.EncodeBody(opts)

	return events.ALBTargetGroupResponse{
		StatusCode:        code,
		StatusDescription: core.StatusDescription(code, reason),
		Headers:           headers,
		MultiValueHeaders: multiValueHeaders,
		Body:              body.Body,
		IsBase64Encoded:   body.IsBase64,
	}, nil
}

func (alb) WithEvent(ctx context.Context, evt events.ALBTargetGroupRequest) context.Context {
	return context.WithValue(ctx, albContextKey, evt)
}

// unescapeQuery decodes query parameters, which load balancers pass on
// as received.
func unescapeQuery(query map[string]string) map[string]string {
	if query == nil {
		return nil
	}

	out := make(map[string]string, len(query))
	for key, value := range query {
		out[unescape(key)] = unescape(value)
	}

	return out
}

func unescapeMultiValueQuery(query map[string][]string) map[string][]string {
	if query == nil {
		return nil
	}

	out := make(map[string][]string, len(query))
	for key, values := range query {
		k := unescape(key)
		for _, value := range values {
			out[k] = append(out[k], unescape(value))
		}
	}

	return out
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}

	return s
}
