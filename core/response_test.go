package core_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lambda-feedback/gatewayproxy/core"
)

func TestNewResponse_SetCookies(t *testing.T) {
	header := http.Header{}
	header.Add("Content-Type", "text/plain")
	header.Add("Set-Cookie", "a=1; Path=/")
	header.Add("Set-Cookie", "b=2")

	resp := core.NewResponse(http.StatusCreated, header, []byte("ok"))

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Created", resp.Reason)
	assert.False(t, resp.Header.Has("Set-Cookie"))
	assert.Equal(t, "text/plain", resp.ContentType())

	assert.Equal(t, []string{"a=1; Path=/", "b=2"}, resp.SetCookies)
	assert.Empty(t, resp.Cookies)
}

func TestResponse_SetCookieValues(t *testing.T) {
	raw := []string{
		`prefs={"t":1}; Path=/`,
		"name=café",
		"list=a,b; Priority=High",
	}

	header := http.Header{"Set-Cookie": raw}

	resp := core.NewResponse(http.StatusOK, header, nil)
	resp.Cookies = append(resp.Cookies, &http.Cookie{Name: "extra", Value: "1", HttpOnly: true})

	assert.Equal(t, []string{
		`prefs={"t":1}; Path=/`,
		"name=café",
		"list=a,b; Priority=High",
		"extra=1; HttpOnly",
	}, resp.SetCookieValues())

	assert.Nil(t, core.NewResponse(http.StatusOK, nil, nil).SetCookieValues())
}

func TestResponse_ContentTypeDefault(t *testing.T) {
	resp := core.NewResponse(http.StatusOK, nil, nil)

	assert.Equal(t, core.DefaultContentType, resp.ContentType())
}

func TestResponse_Status(t *testing.T) {
	tests := []struct {
		name   string
		resp   core.Response
		code   int
		reason string
	}{
		{"zero", core.Response{}, http.StatusOK, "OK"},
		{"known", core.Response{StatusCode: http.StatusNotFound}, http.StatusNotFound, "Not Found"},
		{"custom reason", core.Response{StatusCode: http.StatusTeapot, Reason: "Brewing"}, http.StatusTeapot, "Brewing"},
		{"unknown code", core.Response{StatusCode: 599}, 599, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, reason, err := tt.resp.Status()
			require.NoError(t, err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestResponse_StatusInvalid(t *testing.T) {
	for _, code := range []int{-1, 99, 600, 1000} {
		resp := core.Response{StatusCode: code}

		_, _, err := resp.Status()
		assert.True(t, core.IsEncodingError(err))
		assert.ErrorIs(t, err, core.ErrInvalidStatusCode)
	}
}

func TestStatusDescription(t *testing.T) {
	assert.Equal(t, "200 OK", core.StatusDescription(200, "OK"))
	assert.Equal(t, "599", core.StatusDescription(599, ""))
}

func TestResponse_EncodeBody(t *testing.T) {
	opts := core.DefaultOptions()

	resp := core.NewResponse(http.StatusOK, http.Header{"Content-Type": {"image/png"}}, []byte{0x01})
	assert.True(t, resp.EncodeBody(opts).IsBase64)

	resp = core.NewResponse(http.StatusOK, nil, []byte("{}"))
	assert.Equal(t, core.EncodedBody{Body: "{}", Present: true}, resp.EncodeBody(opts))
}

func TestResponseWriter(t *testing.T) {
	w := core.NewResponseWriter()

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusInternalServerError)

	_, err := w.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = w.Write([]byte("world"))
	require.NoError(t, err)

	resp := w.Response()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("content-type"))
	assert.Equal(t, "hello world", string(resp.Body))
}

func TestResponseWriter_Defaults(t *testing.T) {
	resp := core.NewResponseWriter().Response()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, resp.Body)

	w := core.NewResponseWriter()
	_, err := w.Write(nil)
	require.NoError(t, err)

	resp = w.Response()
	assert.NotNil(t, resp.Body)
	assert.Empty(t, resp.Body)
}
