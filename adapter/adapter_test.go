package adapter_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/lambda-feedback/gatewayproxy/adapter"
	"github.com/lambda-feedback/gatewayproxy/core"
)

func setupLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// echoHandler writes the request body back with the request content type.
func echoHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			// the adapter reports decoding errors itself
			w.WriteHeader(http.StatusTeapot)
			return
		}

		if ct := r.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("X-Method", r.Method)
		w.Header().Set("X-Uri", r.URL.String())
		w.Header().Set("X-Host", r.Host)
		w.Header().Set("X-Remote-Addr", r.RemoteAddr)
		_, _ = w.Write(body)
	})
}

func parseErrorMessage(t *testing.T, body string) string {
	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp.Error.Message
}

func TestAPIGatewayV1_Base64Body(t *testing.T) {
	a := adapter.NewAPIGatewayV1(echoHandler(t), core.DefaultOptions(), setupLogger(t))

	resp, err := a.ProxyWithContext(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Path:            "/items",
		Headers:         map[string]string{"Content-Type": "application/json"},
		Body:            "eyJhIjoxfQ==",
		IsBase64Encoded: true,
		RequestContext: events.APIGatewayProxyRequestContext{
			APIID: "abc123",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"a":1}`, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
	assert.Equal(t, "POST", resp.Headers["X-Method"])
	assert.Equal(t, "https://abc123.execute-api.us-east-1.amazonaws.com/items", resp.Headers["X-Uri"])
}

func TestAPIGatewayV1_Request(t *testing.T) {
	a := adapter.NewAPIGatewayV1(echoHandler(t), core.DefaultOptions(), setupLogger(t))

	req := a.Request(events.APIGatewayProxyRequest{
		Path: "/users/1",
		Headers: map[string]string{
			"accept": "text/html, application/json",
			"cookie": "a=1; b=2",
		},
		MultiValueHeaders: map[string][]string{
			"Accept": {"text/html"},
		},
		QueryStringParameters:           map[string]string{"q": "x"},
		MultiValueQueryStringParameters: map[string][]string{"q": {"x", "y"}},
		PathParameters:                  map[string]string{"id": "1"},
		RequestContext: events.APIGatewayProxyRequestContext{
			HTTPMethod: "GET",
			APIID:      "abc123",
			Identity:   events.APIGatewayRequestIdentity{SourceIP: "1.2.3.4"},
		},
	})

	assert.Equal(t, core.Method(http.MethodGet), req.Method)
	assert.Equal(t, []string{"text/html", "application/json"}, req.Header.Values("Accept"))
	assert.Equal(t, map[string][]string{"q": {"x", "y"}}, req.Query)
	assert.Equal(t, "1", req.PathParameters["id"])
	assert.Equal(t, "1.2.3.4", req.RemoteAddr)
	assert.Len(t, req.Cookies, 2)

	evt, ok := req.Attribute(adapter.EventAttribute)
	require.True(t, ok)
	assert.IsType(t, events.APIGatewayProxyRequest{}, evt)
}

func TestAPIGatewayV1_ScopedCookies(t *testing.T) {
	var names []string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, c := range r.Cookies() {
			names = append(names, c.Name)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	a := adapter.NewAPIGatewayV1(handler, core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayProxyRequest{
		HTTPMethod: "GET",
		Path:       "/public",
		Headers:    map[string]string{"Cookie": "a=1; admin=x; $Path=/admin; b=2"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestAPIGatewayV1_ResponseHeaders(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept")
		w.Header().Add("Vary", "Origin")
		w.Header().Set("Content-Type", "text/plain")
		http.SetCookie(w, &http.Cookie{Name: "a", Value: "1"})
		http.SetCookie(w, &http.Cookie{Name: "b", Value: "2", Path: "/"})
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	a := adapter.NewAPIGatewayV1(handler, core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayProxyRequest{HTTPMethod: "POST", Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", resp.Body)
	assert.Equal(t, map[string]string{"Content-Type": "text/plain"}, resp.Headers)
	assert.Equal(t, []string{"Accept", "Origin"}, resp.MultiValueHeaders["Vary"])
	assert.Equal(t, []string{"a=1", "b=2; Path=/"}, resp.MultiValueHeaders["Set-Cookie"])
}

func TestAPIGatewayV1_RawSetCookies(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", `prefs={"t":1}; Path=/`)
		w.Header().Add("Set-Cookie", "id=abc; Path=/; Priority=High")
		w.Header().Add("Set-Cookie", "list=a,b")
	})

	a := adapter.NewAPIGatewayV1(handler, core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		`prefs={"t":1}; Path=/`,
		"id=abc; Path=/; Priority=High",
		"list=a,b",
	}, resp.MultiValueHeaders["Set-Cookie"])
}

func TestAPIGatewayV1_BinaryResponse(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 0x50, 0x4e, 0x47})
	})

	a := adapter.NewAPIGatewayV1(handler, core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/logo.png"})
	require.NoError(t, err)

	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, "iVBORw==", resp.Body)
}

func TestAPIGatewayV1_ForceBase64(t *testing.T) {
	opts := core.NewOptions(core.Config{ForceBase64: true})
	a := adapter.NewAPIGatewayV1(echoHandler(t), opts, setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayProxyRequest{HTTPMethod: "POST", Path: "/", Body: "hi"})
	require.NoError(t, err)

	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, "aGk=", resp.Body)
}

func TestAPIGatewayV1_ForgedHost(t *testing.T) {
	opts := core.NewOptions(core.Config{CustomDomains: []string{"api.example.com"}})
	a := adapter.NewAPIGatewayV1(echoHandler(t), opts, setupLogger(t))

	tests := []struct {
		host     string
		expected string
	}{
		{"evil.amazonaws.com", "abc123.execute-api.us-east-1.amazonaws.com"},
		{"evil.example.com", "abc123.execute-api.us-east-1.amazonaws.com"},
		{"api.example.com", "api.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			resp, err := a.Proxy(events.APIGatewayProxyRequest{
				HTTPMethod:     "GET",
				Path:           "/",
				Headers:        map[string]string{"Host": tt.host},
				RequestContext: events.APIGatewayProxyRequestContext{APIID: "abc123"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Headers["X-Host"])
		})
	}
}

func TestAdapter_InvalidBase64(t *testing.T) {
	a := adapter.NewAPIGatewayV1(echoHandler(t), core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Path:            "/",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Contains(t, parseErrorMessage(t, resp.Body), "failed to decode body")
}

func TestAdapter_InvalidBase64NotRead(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	a := adapter.NewAPIGatewayV1(handler, core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Path:            "/",
		Body:            "%%%",
		IsBase64Encoded: true,
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAdapter_Panic(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	a := adapter.NewAPIGatewayV2(handler, core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.APIGatewayV2HTTPRequest{RawPath: "/"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, adapter.ErrHandlerPanic.Error(), parseErrorMessage(t, resp.Body))
}

func TestAdapter_InvalidStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(42)
	})

	a := adapter.NewALB(handler, core.DefaultOptions(), setupLogger(t))

	resp, err := a.Proxy(events.ALBTargetGroupRequest{HTTPMethod: "GET", Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "500 Internal Server Error", resp.StatusDescription)
	assert.Contains(t, parseErrorMessage(t, resp.Body), "invalid status code")
}

func TestAdapter_NilHandler(t *testing.T) {
	a := adapter.NewAPIGatewayV1(nil, core.DefaultOptions(), nil)

	resp, err := a.Proxy(events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAdapter_EventFromContext(t *testing.T) {
	var (
		v1Path string
		v2Path string
		albARN string
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if evt, ok := adapter.APIGatewayV1EventFromContext(r.Context()); ok {
			v1Path = evt.Path
		}
		if evt, ok := adapter.APIGatewayV2EventFromContext(r.Context()); ok {
			v2Path = evt.RawPath
		}
		if evt, ok := adapter.ALBEventFromContext(r.Context()); ok {
			albARN = evt.RequestContext.ELB.TargetGroupArn
		}
	})

	opts := core.DefaultOptions()
	log := setupLogger(t)

	_, err := adapter.NewAPIGatewayV1(handler, opts, log).Proxy(events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/v1"})
	require.NoError(t, err)

	_, err = adapter.NewAPIGatewayV2(handler, opts, log).Proxy(events.APIGatewayV2HTTPRequest{RawPath: "/v2"})
	require.NoError(t, err)

	_, err = adapter.NewALB(handler, opts, log).Proxy(events.ALBTargetGroupRequest{
		HTTPMethod: "GET",
		Path:       "/",
		RequestContext: events.ALBTargetGroupRequestContext{
			ELB: events.ELBContext{TargetGroupArn: "arn:tg"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1", v1Path)
	assert.Equal(t, "/v2", v2Path)
	assert.Equal(t, "arn:tg", albARN)

	_, ok := adapter.APIGatewayV1EventFromContext(context.Background())
	assert.False(t, ok)
}

func TestParseSource(t *testing.T) {
	for _, source := range adapter.Sources {
		parsed, err := adapter.ParseSource(source.String())
		require.NoError(t, err)
		assert.Equal(t, source, parsed)
	}

	parsed, err := adapter.ParseSource("alb")
	require.NoError(t, err)
	assert.Equal(t, adapter.SourceALB, parsed)

	_, err = adapter.ParseSource("websocket")
	assert.Error(t, err)
}

func TestNewHandler_Invoke(t *testing.T) {
	h, err := adapter.NewHandler(adapter.SourceAPIGatewayV1, echoHandler(t), core.DefaultOptions(), setupLogger(t))
	require.NoError(t, err)

	payload := []byte(`{
		"httpMethod": "PUT",
		"path": "/items/1",
		"headers": {"Content-Type": "text/plain"},
		"body": "hello",
		"isBase64Encoded": false,
		"requestContext": {"apiId": "abc123"}
	}`)

	out, err := h.Invoke(context.Background(), payload)
	require.NoError(t, err)

	var resp events.APIGatewayProxyResponse
	require.NoError(t, json.Unmarshal(out, &resp))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", resp.Body)
	assert.Equal(t, "PUT", resp.Headers["X-Method"])
}

func TestNewHandler_InvalidSource(t *testing.T) {
	_, err := adapter.NewHandler("WEBSOCKET", echoHandler(t), core.DefaultOptions(), setupLogger(t))
	assert.Error(t, err)
}
