package emulator

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/lambda-feedback/gatewayproxy/adapter"
	"github.com/lambda-feedback/gatewayproxy/core"
)

// Params are the dependencies of an Emulator.
type Params struct {
	// Source is the payload format of the emulated gateway.
	Source adapter.Source

	// Handler is invoked with the JSON encoded events.
	Handler lambda.Handler

	// Binary decides which request bodies are base64 encoded.
	Binary *core.BinaryTypes

	Config Config

	Log *zap.Logger
}

// Emulator is an http.Handler emulating an API Gateway stage or load
// balancer in front of a Lambda handler.
type Emulator struct {
	source  adapter.Source
	handler lambda.Handler
	binary  *core.BinaryTypes
	limiter *rate.Limiter
	config  Config
	log     *zap.Logger
	now     func() time.Time
}

// New creates an emulator for the given payload format.
func New(params Params) (*Emulator, error) {
	if _, err := adapter.ParseSource(params.Source.String()); err != nil {
		return nil, err
	}

	if params.Handler == nil {
		return nil, adapter.ErrNilHandler
	}

	log := params.Log
	if log == nil {
		log = zap.NewNop()
	}

	binary := params.Binary
	if binary == nil {
		binary = core.NewBinaryTypes()
	}

	var limiter *rate.Limiter
	if params.Config.ThrottleRate > 0 {
		burst := params.Config.ThrottleBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(params.Config.ThrottleRate), burst)
	}

	return &Emulator{
		source:  params.Source,
		handler: params.Handler,
		binary:  binary,
		limiter: limiter,
		config:  params.Config,
		log:     log,
		now:     time.Now,
	}, nil
}

func (e *Emulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if e.limiter != nil && !e.limiter.Allow() {
		e.log.Debug("request throttled")
		writeMessage(w, http.StatusTooManyRequests, "Too Many Requests")
		return
	}

	inv, err := e.newInvocation(r)
	if err != nil {
		e.log.Debug("failed to read request", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Bad Request")
		return
	}

	log := e.log.With(
		zap.String("request_id", inv.id),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)

	payload, err := json.Marshal(e.event(r, inv))
	if err != nil {
		log.Error("failed to encode event", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	ctx := lambdacontext.NewContext(r.Context(), &lambdacontext.LambdaContext{
		AwsRequestID: inv.id,
	})

	out, err := e.handler.Invoke(ctx, payload)
	if err != nil {
		log.Error("invocation failed", zap.Error(err))
		writeMessage(w, http.StatusBadGateway, "Internal server error")
		return
	}

	resp, err := e.response(out)
	if err != nil {
		log.Error("malformed lambda response", zap.Error(err))
		writeMessage(w, http.StatusBadGateway, "Internal server error")
		return
	}

	resp.write(w)

	log.Debug("request handled", zap.Int("status", resp.statusCode))
}

func (e *Emulator) newInvocation(r *http.Request) (invocation, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return invocation{}, err
	}

	inv := invocation{
		id:       uuid.NewString(),
		now:      e.now(),
		sourceIP: remoteIP(r.RemoteAddr),
		proto:    "http",
	}

	if r.TLS != nil {
		inv.proto = "https"
	}

	if len(body) > 0 {
		if e.binary.IsBinary(r.Header.Get(core.HeaderContentType)) || !utf8.Valid(body) {
			inv.body = base64.StdEncoding.EncodeToString(body)
			inv.isBase64 = true
		} else {
			inv.body = string(body)
		}
	}

	if claims, ok := bearerClaims(r); ok {
		inv.claims = claims
	}

	return inv, nil
}

func (e *Emulator) event(r *http.Request, inv invocation) any {
	switch e.source {
	case adapter.SourceAPIGatewayV1:
		return e.apiGatewayV1Event(r, inv)
	case adapter.SourceALB:
		return e.albEvent(r, inv)
	default:
		return e.apiGatewayV2Event(r, inv)
	}
}

func (e *Emulator) response(out []byte) (*response, error) {
	switch e.source {
	case adapter.SourceAPIGatewayV1:
		var resp events.APIGatewayProxyResponse
		if err := json.Unmarshal(out, &resp); err != nil {
			return nil, err
		}
		return newResponse(resp.StatusCode, resp.Headers, resp.MultiValueHeaders, nil, resp.Body, resp.IsBase64Encoded)
	case adapter.SourceALB:
		var resp events.ALBTargetGroupResponse
		if err := json.Unmarshal(out, &resp); err != nil {
			return nil, err
		}
		return newResponse(resp.StatusCode, resp.Headers, resp.MultiValueHeaders, nil, resp.Body, resp.IsBase64Encoded)
	default:
		var resp events.APIGatewayV2HTTPResponse
		if err := json.Unmarshal(out, &resp); err != nil {
			return nil, err
		}
		return newResponse(resp.StatusCode, resp.Headers, resp.MultiValueHeaders, resp.Cookies, resp.Body, resp.IsBase64Encoded)
	}
}

// response is a decoded response envelope.
type response struct {
	statusCode int
	header     http.Header
	body       []byte
}

func newResponse(
	statusCode int,
	headers map[string]string,
	multiValueHeaders map[string][]string,
	cookies []string,
	body string,
	isBase64 bool,
) (*response, error) {
	if statusCode < 100 || statusCode > 599 {
		return nil, fmt.Errorf("%w: %d", core.ErrInvalidStatusCode, statusCode)
	}

	decoded, err := core.DecodeBody(body, isBase64)
	if err != nil {
		return nil, err
	}

	header := make(http.Header)

	for name, values := range multiValueHeaders {
		for _, value := range values {
			header.Add(name, value)
		}
	}

	// single values only apply to headers without multiple values
	for name, value := range headers {
		if _, ok := header[http.CanonicalHeaderKey(name)]; !ok {
			header.Set(name, value)
		}
	}

	for _, cookie := range cookies {
		header.Add(core.HeaderSetCookie, cookie)
	}

	return &response{
		statusCode: statusCode,
		header:     header,
		body:       decoded,
	}, nil
}

func (r *response) write(w http.ResponseWriter) {
	for name, values := range r.header {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}

	w.WriteHeader(r.statusCode)

	if len(r.body) > 0 {
		_, _ = w.Write(r.body)
	}
}

// writeMessage writes a gateway generated error response.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set(core.HeaderContentType, "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(struct {
		Message string `json:"message"`
	}{
		Message: message,
	})
}

func remoteIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}

	return addr
}
