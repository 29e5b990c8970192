package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/core"
)

var (
	ErrHandlerPanic = errors.New("handler panicked")
	ErrNilHandler   = errors.New("nil handler")
)

// EventAttribute is the request attribute holding the original event.
const EventAttribute = "gatewayproxy.event"

var wellKnownErrors = map[error]int{
	ErrHandlerPanic:           http.StatusInternalServerError,
	ErrNilHandler:             http.StatusInternalServerError,
	core.ErrNilRequest:        http.StatusInternalServerError,
	core.ErrInvalidStatusCode: http.StatusInternalServerError,
}

// Shape converts between a payload specific event envelope E, its
// response envelope R and the normalized request and response.
type Shape[E, R any] interface {
	// Source identifies the payload format.
	Source() Source

	// Event extracts the shape-neutral event from the envelope.
	Event(evt E) core.Event

	// Envelope flattens a response into the response envelope.
	Envelope(resp *core.Response, opts core.Options) (R, error)

	// WithEvent stores the envelope in ctx.
	WithEvent(ctx context.Context, evt E) context.Context
}

// Adapter serves Lambda events of one payload shape with an http.Handler.
type Adapter[E, R any] struct {
	shape   Shape[E, R]
	handler http.Handler
	opts    core.Options
	log     *zap.Logger
}

// New creates an adapter dispatching events of the given shape to handler.
func New[E, R any](shape Shape[E, R], handler http.Handler, opts core.Options, log *zap.Logger) *Adapter[E, R] {
	if log == nil {
		log = zap.NewNop()
	}

	return &Adapter[E, R]{
		shape:   shape,
		handler: handler,
		opts:    opts,
		log:     log.With(zap.Stringer("source", shape.Source())),
	}
}

// Source returns the payload format served by the adapter.
func (a *Adapter[E, R]) Source() Source {
	return a.shape.Source()
}

// ProxyWithContext handles a single event. Failures are turned into
// error responses, so the returned error is always nil.
func (a *Adapter[E, R]) ProxyWithContext(ctx context.Context, evt E) (R, error) {
	log := a.log
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.With(zap.String("aws_request_id", lc.AwsRequestID))
	}

	resp, err := a.serve(ctx, evt, log)
	if err != nil {
		return a.fail(ctx, err, log), nil
	}

	envelope, err := a.shape.Envelope(resp, a.opts)
	if err != nil {
		return a.fail(ctx, err, log), nil
	}

	return envelope, nil
}

// Proxy handles a single event with a background context.
func (a *Adapter[E, R]) Proxy(evt E) (R, error) {
	return a.ProxyWithContext(context.Background(), evt)
}

// Request builds the normalized request of evt.
func (a *Adapter[E, R]) Request(evt E) *core.Request {
	req := core.NewRequest(a.shape.Event(evt), a.opts)
	req.SetAttribute(EventAttribute, evt)

	return req
}

func (a *Adapter[E, R]) serve(ctx context.Context, evt E, log *zap.Logger) (resp *core.Response, err error) {
	if a.handler == nil {
		return nil, ErrNilHandler
	}

	req := a.Request(evt)

	log = log.With(
		zap.String("method", req.MethodName),
		zap.String("path", req.URI.Path),
	)

	httpReq, err := req.HTTPRequest(a.shape.WithEvent(ctx, evt))
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", zap.Any("panic", r), zap.Stack("stack"))
			resp, err = nil, fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()

	log.Debug("dispatching request")

	w := core.NewResponseWriter()
	a.handler.ServeHTTP(w, httpReq)

	if decErr := req.BodyErr(); decErr != nil {
		return nil, decErr
	}

	resp = w.Response()

	log.Debug("request handled", zap.Int("status", resp.StatusCode))

	return resp, nil
}

// fail converts err into an error envelope.
func (a *Adapter[E, R]) fail(ctx context.Context, err error, log *zap.Logger) R {
	status := getErrorStatusCode(err)

	if status >= http.StatusInternalServerError {
		log.Error("failed to handle event", zap.Error(err))
		captureException(ctx, err)
	} else {
		log.Debug("rejected event", zap.Error(err))
	}

	envelope, encErr := a.shape.Envelope(newErrorResponse(status, err), a.opts)
	if encErr != nil {
		log.Error("failed to encode error response", zap.Error(encErr))
	}

	return envelope
}

// getErrorStatusCode returns the status code for the given error.
func getErrorStatusCode(err error) int {
	for wellKnown, status := range wellKnownErrors {
		if errors.Is(err, wellKnown) {
			return status
		}
	}

	if core.IsDecodingError(err) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// newErrorResponse creates a new error response.
func newErrorResponse(status int, err error) *core.Response {
	type responseError struct {
		Message string `json:"message"`
	}

	message := err.Error()
	if errors.Is(err, ErrHandlerPanic) {
		message = ErrHandlerPanic.Error()
	}

	body, marshalErr := json.Marshal(struct {
		Error responseError `json:"error"`
	}{
		Error: responseError{Message: message},
	})
	if marshalErr != nil {
		return &core.Response{StatusCode: http.StatusInternalServerError}
	}

	header := make(http.Header)
	header.Set(core.HeaderContentType, "application/json")

	return core.NewResponse(status, header, body)
}

func captureException(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.CaptureException(err)
}
