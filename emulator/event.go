package emulator

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/golang-jwt/jwt/v5"

	"github.com/lambda-feedback/gatewayproxy/core"
)

const (
	accountID         = "123456789012"
	proxyResource     = "/{proxy+}"
	defaultRouteKey   = "$default"
	requestTimeLayout = "02/Jan/2006:15:04:05 -0700"
)

// invocation holds the per-request values shared by all event shapes.
type invocation struct {
	id       string
	now      time.Time
	body     string
	isBase64 bool
	sourceIP string
	proto    string
	claims   jwt.MapClaims
}

func (inv invocation) shortID(n int) string {
	id := strings.ReplaceAll(inv.id, "-", "")
	if len(id) > n {
		return id[:n]
	}

	return id
}

func (e *Emulator) domainName() string {
	return core.Origin{APIID: e.config.APIID, Region: e.config.Region}.DefaultHost()
}

// forwardedHeaders returns the request headers extended by the headers
// a gateway adds, with the Host header included.
func forwardedHeaders(r *http.Request, inv invocation) http.Header {
	header := r.Header.Clone()

	header.Set(core.HeaderHost, r.Host)

	forwardedFor := inv.sourceIP
	if prior := header.Get(core.HeaderXForwardedFor); prior != "" {
		forwardedFor = prior + ", " + inv.sourceIP
	}
	header.Set(core.HeaderXForwardedFor, forwardedFor)
	header.Set(core.HeaderXForwardedProto, inv.proto)

	if _, port, err := net.SplitHostPort(r.Host); err == nil {
		header.Set("X-Forwarded-Port", port)
	}

	return header
}

// lastValues returns the last value of every key, matching gateways
// that pass on single-value maps.
func lastValues(values map[string][]string, lower bool) map[string]string {
	if len(values) == 0 {
		return nil
	}

	out := make(map[string]string, len(values))
	for key, vs := range values {
		if len(vs) == 0 {
			continue
		}
		if lower {
			key = strings.ToLower(key)
		}
		out[key] = vs[len(vs)-1]
	}

	return out
}

func multiValues(values map[string][]string) map[string][]string {
	if len(values) == 0 {
		return nil
	}

	out := make(map[string][]string, len(values))
	for key, vs := range values {
		out[key] = slices.Clone(vs)
	}

	return out
}

func (e *Emulator) apiGatewayV1Event(r *http.Request, inv invocation) events.APIGatewayProxyRequest {
	header := forwardedHeaders(r, inv)
	query := r.URL.Query()

	var authorizer map[string]any
	if inv.claims != nil {
		authorizer = map[string]any{"claims": stringClaims(inv.claims)}
	}

	return events.APIGatewayProxyRequest{
		Resource:                        proxyResource,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         lastValues(header, false),
		MultiValueHeaders:               multiValues(header),
		QueryStringParameters:           lastValues(query, false),
		MultiValueQueryStringParameters: multiValues(query),
		PathParameters:                  map[string]string{"proxy": strings.TrimPrefix(r.URL.Path, "/")},
		RequestContext: events.APIGatewayProxyRequestContext{
			AccountID:         accountID,
			ResourceID:        inv.shortID(6),
			Stage:             e.config.Stage,
			DomainName:        e.domainName(),
			DomainPrefix:      e.config.APIID,
			RequestID:         inv.id,
			ExtendedRequestID: inv.id,
			Protocol:          r.Proto,
			Identity: events.APIGatewayRequestIdentity{
				SourceIP:  inv.sourceIP,
				UserAgent: r.UserAgent(),
			},
			ResourcePath:     proxyResource,
			Path:             "/" + e.config.Stage + r.URL.Path,
			Authorizer:       authorizer,
			HTTPMethod:       r.Method,
			RequestTime:      inv.now.Format(requestTimeLayout),
			RequestTimeEpoch: inv.now.UnixMilli(),
			APIID:            e.config.APIID,
		},
		Body:            inv.body,
		IsBase64Encoded: inv.isBase64,
	}
}

func (e *Emulator) apiGatewayV2Event(r *http.Request, inv invocation) events.APIGatewayV2HTTPRequest {
	header := forwardedHeaders(r, inv)

	// cookies travel in their own field
	var cookies []string
	for _, c := range r.Cookies() {
		cookies = append(cookies, c.Name+"="+c.Value)
	}
	header.Del(core.HeaderCookie)

	headers := make(map[string]string, len(header))
	for name, values := range header {
		headers[strings.ToLower(name)] = strings.Join(values, ",")
	}

	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		query[key] = strings.Join(values, ",")
	}
	if len(query) == 0 {
		query = nil
	}

	var authorizer *events.APIGatewayV2HTTPRequestContextAuthorizerDescription
	if inv.claims != nil {
		authorizer = &events.APIGatewayV2HTTPRequestContextAuthorizerDescription{
			JWT: &events.APIGatewayV2HTTPRequestContextAuthorizerJWTDescription{
				Claims: stringClaims(inv.claims),
				Scopes: scopes(inv.claims),
			},
		}
	}

	return events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RouteKey:              defaultRouteKey,
		RawPath:               r.URL.EscapedPath(),
		RawQueryString:        r.URL.RawQuery,
		Cookies:               cookies,
		Headers:               headers,
		QueryStringParameters: query,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RouteKey:     defaultRouteKey,
			AccountID:    accountID,
			Stage:        e.config.Stage,
			RequestID:    inv.id,
			Authorizer:   authorizer,
			APIID:        e.config.APIID,
			DomainName:   e.domainName(),
			DomainPrefix: e.config.APIID,
			Time:         inv.now.Format(requestTimeLayout),
			TimeEpoch:    inv.now.UnixMilli(),
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				Protocol:  r.Proto,
				SourceIP:  inv.sourceIP,
				UserAgent: r.UserAgent(),
			},
		},
		Body:            inv.body,
		IsBase64Encoded: inv.isBase64,
	}
}

func (e *Emulator) albEvent(r *http.Request, inv invocation) events.ALBTargetGroupRequest {
	header := forwardedHeaders(r, inv)

	// load balancers pass query parameters on as received
	query := make(map[string]string)
	for _, pair := range strings.Split(r.URL.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		query[key] = value
	}
	if len(query) == 0 {
		query = nil
	}

	region := e.config.Region
	if region == "" {
		region = core.DefaultRegion
	}

	return events.ALBTargetGroupRequest{
		HTTPMethod:            r.Method,
		Path:                  r.URL.Path,
		QueryStringParameters: query,
		Headers:               lastValues(header, true),
		RequestContext: events.ALBTargetGroupRequestContext{
			ELB: events.ELBContext{
				TargetGroupArn: fmt.Sprintf(
					"arn:aws:elasticloadbalancing:%s:%s:targetgroup/%s/%s",
					region, accountID, url.PathEscape(e.config.APIID), inv.shortID(16),
				),
			},
		},
		Body:            inv.body,
		IsBase64Encoded: inv.isBase64,
	}
}
