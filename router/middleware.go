package router

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs every request after it has been handled.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(started)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			}

			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			log.Debug("http request", fields...)

			return err
		}
	}
}

// XRay traces every request in an X-Ray segment. Inside Lambda the
// function segment already exists, so a subsegment is opened instead.
func XRay(name string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, seg := beginSegment(c.Request().Context(), name)
			if seg == nil {
				return next(c)
			}

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			_ = seg.AddAnnotation("method", c.Request().Method)
			_ = seg.AddAnnotation("status", c.Response().Status)
			seg.Close(err)

			return err
		}
	}
}

func beginSegment(ctx context.Context, name string) (context.Context, *xray.Segment) {
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return xray.BeginSubsegment(ctx, name)
	}

	return xray.BeginSegment(ctx, name)
}
