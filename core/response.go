package core

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// Response is the normalized response produced by the hosted framework.
type Response struct {
	StatusCode int
	Reason     string
	Header     Header

	// SetCookies are the Set-Cookie header values written by the
	// framework, passed on unchanged.
	SetCookies []string

	// Cookies are serialized with EncodeCookies after SetCookies.
	Cookies []*http.Cookie

	// Body is nil if the response has no body.
	Body []byte
}

// NewResponse builds a normalized response. Set-Cookie headers are
// moved from header into SetCookies.
func NewResponse(statusCode int, header http.Header, body []byte) *Response {
	resp := &Response{
		StatusCode: statusCode,
		Reason:     http.StatusText(statusCode),
		Header:     make(Header, len(header)),
		Body:       body,
	}

	for name, values := range header {
		if strings.EqualFold(name, HeaderSetCookie) {
			resp.SetCookies = append(resp.SetCookies, values...)
			continue
		}

		for _, value := range values {
			resp.Header.Add(name, value)
		}
	}

	return resp
}

// SetCookieValues returns one Set-Cookie value per response cookie.
func (r *Response) SetCookieValues() []string {
	if len(r.SetCookies) == 0 && len(r.Cookies) == 0 {
		return nil
	}

	values := slices.Clone(r.SetCookies)

	return append(values, EncodeCookies(r.Cookies)...)
}

// ContentType returns the declared content type, or DefaultContentType.
func (r *Response) ContentType() string {
	if ct := r.Header.Get(HeaderContentType); ct != "" {
		return ct
	}

	return DefaultContentType
}

// Status validates and returns the status code and reason phrase. A
// zero status code is reported as 200.
func (r *Response) Status() (int, string, error) {
	code := r.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	if code < 100 || code > 599 {
		return 0, "", &EncodingError{
			Field: "status",
			Err:   fmt.Errorf("%w: %d", ErrInvalidStatusCode, code),
		}
	}

	reason := r.Reason
	if reason == "" || r.StatusCode == 0 {
		reason = http.StatusText(code)
	}

	return code, reason, nil
}

// StatusDescription returns "<code> <reason>" as used by load balancers.
func StatusDescription(code int, reason string) string {
	return strings.TrimSpace(fmt.Sprintf("%d %s", code, reason))
}

// EncodeBody encodes the response body for an envelope.
func (r *Response) EncodeBody(opts Options) EncodedBody {
	return EncodeBody(r.Body, r.ContentType(), opts.Binary, opts.ForceBase64)
}

// ResponseWriter is an http.ResponseWriter capturing the response of
// the hosted framework.
type ResponseWriter struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        *bytes.Buffer
}

var _ http.ResponseWriter = (*ResponseWriter)(nil)
var _ http.Flusher = (*ResponseWriter)(nil)

// NewResponseWriter creates an empty ResponseWriter.
func NewResponseWriter() *ResponseWriter {
	return &ResponseWriter{
		header: make(http.Header),
	}
}

func (w *ResponseWriter) Header() http.Header {
	return w.header
}

func (w *ResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}

	w.status = statusCode
	w.wroteHeader = true
}

func (w *ResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.body == nil {
		w.body = new(bytes.Buffer)
	}

	return w.body.Write(p)
}

// Flush is a no-op, the response is delivered as a whole.
func (w *ResponseWriter) Flush() {}

// Response returns the captured response.
func (w *ResponseWriter) Response() *Response {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}

	var body []byte
	if w.body != nil {
		body = append([]byte{}, w.body.Bytes()...)
	}

	return NewResponse(status, w.header, body)
}
