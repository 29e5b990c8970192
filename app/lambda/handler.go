package lambda

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/adapter"
	"github.com/lambda-feedback/gatewayproxy/core"
)

// LambdaHandlerParams represents the parameters required for
// the Lambda handler.
type LambdaHandlerParams struct {
	fx.In

	// Config is the configuration for the Lambda handler.
	Config Config

	// Mux is the application the events are dispatched to.
	Mux *http.ServeMux

	// Options configure the event translation.
	Options core.Options

	// Context is the context for the Lambda handler.
	Context context.Context

	// Logger is the logger for the Lambda handler.
	Logger *zap.Logger
}

type LambdaHandler struct {
	source  adapter.Source
	ctx     context.Context
	cancel  context.CancelFunc
	handler http.Handler
	opts    core.Options
	log     *zap.Logger
}

// NewLambdaHandler creates a new instance of LambdaHandler
// with the given parameters.
func NewLambdaHandler(params LambdaHandlerParams) (*LambdaHandler, error) {
	source, err := adapter.ParseSource(params.Config.ProxySource.String())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(params.Context)

	return &LambdaHandler{
		source:  source,
		ctx:     ctx,
		cancel:  cancel,
		handler: params.Mux,
		opts:    params.Options,
		log:     params.Logger,
	}, nil
}

// NewLifecycleHandler creates a new instance of LambdaHandler
// with the given parameters and attaches lifecycle hooks to
// start and stop the handler.
func NewLifecycleHandler(params LambdaHandlerParams, lc fx.Lifecycle) (*LambdaHandler, error) {
	handler, err := NewLambdaHandler(params)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return handler.Start()
		},
		OnStop: func(context.Context) error {
			handler.Shutdown()
			return nil
		},
	})

	return handler, nil
}

// Start starts the Lambda runtime client in a new goroutine. An
// error is returned if the proxy function cannot be created.
func (s *LambdaHandler) Start() error {
	fn, err := s.ProxyFunction()
	if err != nil {
		return err
	}

	s.log.Debug("using lambda event proxy", zap.Stringer("proxy_source", s.source))

	go lambda.StartWithOptions(fn, lambda.WithContext(s.ctx))

	return nil
}

// Shutdown cancels the execution of the LambdaHandler.
func (s *LambdaHandler) Shutdown() {
	s.cancel()
}

// ProxyFunction returns the typed proxy function for the configured
// payload format.
func (s *LambdaHandler) ProxyFunction() (any, error) {
	return adapter.NewProxyFunction(s.source, s.handler, s.opts, s.log)
}
