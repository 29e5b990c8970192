package router

import (
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/internal/server"
)

const defaultSegmentName = "gatewayproxy"

type Params struct {
	fx.In

	Config Config
	Log    *zap.Logger
}

// New creates the bundled echo application.
func New(params Params) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	if params.Config.Tracing {
		_ = xray.Configure(xray.Config{LogLevel: "error"})

		name := params.Config.SegmentName
		if name == "" {
			name = defaultSegmentName
		}

		e.Use(XRay(name))
	}

	e.Use(RequestLogger(params.Log))

	e.GET("/health", Health)
	e.Any("/_inspect", Inspect)
	e.Any("/_inspect/*", Inspect)

	return e
}

// NewRoute mounts the echo application at the root.
func NewRoute(e *echo.Echo) server.HttpHandlerResult {
	return server.AsHttpHandler("/", e)
}
