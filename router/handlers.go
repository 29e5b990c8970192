package router

import (
	"encoding/base64"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/lambda-feedback/gatewayproxy/adapter"
)

// Health reports the application as healthy.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Inspection describes a request as received by the application.
type Inspection struct {
	Method         string              `json:"method"`
	URL            string              `json:"url"`
	Host           string              `json:"host"`
	Path           string              `json:"path"`
	Query          map[string][]string `json:"query,omitempty"`
	Header         map[string][]string `json:"header,omitempty"`
	Cookies        map[string]string   `json:"cookies,omitempty"`
	RemoteAddr     string              `json:"remoteAddr,omitempty"`
	Body           string              `json:"body,omitempty"`
	Base64         bool                `json:"isBase64Encoded,omitempty"`
	Source         adapter.Source      `json:"source,omitempty"`
	RequestID      string              `json:"requestId,omitempty"`
	PathParameters map[string]string   `json:"pathParameters,omitempty"`
	StageVariables map[string]string   `json:"stageVariables,omitempty"`
}

// Inspect answers with an Inspection of the request.
func Inspect(c echo.Context) error {
	req := c.Request()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read body")
	}

	inspection := Inspection{
		Method:     req.Method,
		URL:        req.URL.String(),
		Host:       req.Host,
		Path:       req.URL.Path,
		Query:      req.URL.Query(),
		Header:     req.Header,
		RemoteAddr: req.RemoteAddr,
	}

	if cookies := req.Cookies(); len(cookies) > 0 {
		inspection.Cookies = make(map[string]string, len(cookies))
		for _, cookie := range cookies {
			inspection.Cookies[cookie.Name] = cookie.Value
		}
	}

	if utf8.Valid(body) {
		inspection.Body = string(body)
	} else {
		inspection.Body = base64.StdEncoding.EncodeToString(body)
		inspection.Base64 = true
	}

	inspectEvent(c, &inspection)

	return c.JSON(http.StatusOK, inspection)
}

// inspectEvent adds details of the Lambda event the request was
// created from, if any.
func inspectEvent(c echo.Context, inspection *Inspection) {
	ctx := c.Request().Context()

	if evt, ok := adapter.APIGatewayV1EventFromContext(ctx); ok {
		inspection.Source = adapter.SourceAPIGatewayV1
		inspection.RequestID = evt.RequestContext.RequestID
		inspection.PathParameters = evt.PathParameters
		inspection.StageVariables = evt.StageVariables
		return
	}

	if evt, ok := adapter.APIGatewayV2EventFromContext(ctx); ok {
		inspection.Source = adapter.SourceAPIGatewayV2
		inspection.RequestID = evt.RequestContext.RequestID
		inspection.PathParameters = evt.PathParameters
		inspection.StageVariables = evt.StageVariables
		return
	}

	if _, ok := adapter.ALBEventFromContext(ctx); ok {
		inspection.Source = adapter.SourceALB
	}
}
