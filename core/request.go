package core

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Event is the shape-neutral view of an inbound event envelope, filled
// in by the payload specific adapters.
type Event struct {
	Method            string
	Path              string
	Headers           map[string]string
	MultiValueHeaders map[string][]string

	// RawQuery, if not empty, is the source of the query parameters.
	// Otherwise Query and MultiValueQuery are merged.
	RawQuery        string
	Query           map[string]string
	MultiValueQuery map[string][]string

	PathParameters map[string]string
	StageVariables map[string]string

	// Cookies are cookie pairs delivered outside of the Cookie header.
	Cookies []string

	Body            string
	IsBase64Encoded bool

	SourceIP string
	Origin   Origin
}

// Request is the normalized request handed to the hosted framework.
type Request struct {
	// Method is the normalized method, MethodCustom for unknown names.
	Method Method

	// MethodName is the method name as dispatched to the framework.
	MethodName string

	URI            *url.URL
	Header         Header
	Query          map[string][]string
	PathParameters map[string]string
	StageVariables map[string]string
	Cookies        []*http.Cookie
	RemoteAddr     string

	// Attributes carries pipeline-local state.
	Attributes map[string]any

	hasBody       bool
	decoded       atomic.Bool
	contentLength int64
	body          func() ([]byte, error)
}

// NewRequest builds a normalized request from evt. The body is decoded
// on first access only.
func NewRequest(evt Event, opts Options) *Request {
	header := CollapseHeaders(evt.MultiValueHeaders, evt.Headers)

	if len(evt.Cookies) > 0 {
		pairs := slices.Concat(header.Values(HeaderCookie), evt.Cookies)
		header.Set(HeaderCookie, CookieHeader(pairs))
	}

	var query map[string][]string
	if evt.RawQuery != "" {
		// keep whatever parsed, malformed pairs are dropped
		query, _ = url.ParseQuery(evt.RawQuery)
	} else {
		query = CollapseValues(evt.MultiValueQuery, evt.Query)
	}

	path := stripBasePath(evt.Path, opts.BasePath)

	origin := evt.Origin
	if origin.Region == "" {
		origin.Region = opts.Region
	}

	uri := opts.Resolver.Resolve(header, path, encodeQuery(evt.RawQuery, query), origin)

	method := ParseMethod(evt.Method)

	req := &Request{
		Method:         method,
		MethodName:     methodName(evt.Method, method),
		URI:            uri,
		Header:         header,
		Query:          query,
		PathParameters: evt.PathParameters,
		StageVariables: evt.StageVariables,
		Cookies:        DecodeCookies(strings.Join(header.Values(HeaderCookie), "; "), evt.Path),
		RemoteAddr:     evt.SourceIP,
		Attributes:     make(map[string]any),
		hasBody:        evt.Body != "",
		contentLength:  -1,
	}

	req.body = sync.OnceValues(func() ([]byte, error) {
		req.decoded.Store(true)
		return DecodeBody(evt.Body, evt.IsBase64Encoded)
	})

	if !req.hasBody {
		req.contentLength = 0
	} else if !evt.IsBase64Encoded {
		req.contentLength = int64(len(evt.Body))
	} else if n, err := strconv.ParseInt(header.Get(HeaderContentLength), 10, 64); err == nil {
		req.contentLength = n
	}

	return req
}

// Body returns the decoded request body. It is decoded once, on the
// first call, and cached afterwards.
func (r *Request) Body() ([]byte, error) {
	if r.body == nil {
		return nil, nil
	}

	return r.body()
}

// BodyErr returns the error of decoding the body. It is nil if the
// body has not been accessed yet.
func (r *Request) BodyErr() error {
	if r.body == nil || !r.decoded.Load() {
		return nil
	}

	_, err := r.body()
	return err
}

// HasBody reports whether the envelope carried a body.
func (r *Request) HasBody() bool {
	return r.hasBody
}

// Cookie returns the named request cookie.
func (r *Request) Cookie(name string) (*http.Cookie, bool) {
	for _, c := range r.Cookies {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// Attribute returns the named attribute.
func (r *Request) Attribute(name string) (any, bool) {
	v, ok := r.Attributes[name]
	return v, ok
}

// SetAttribute stores a named attribute.
func (r *Request) SetAttribute(name string, value any) {
	if r.Attributes == nil {
		r.Attributes = make(map[string]any)
	}

	r.Attributes[name] = value
}

// HTTPRequest converts r into a server-side *http.Request bound to ctx.
// The body of the returned request decodes lazily. Its Cookie header
// carries the decoded cookies only, so path scoped cookies that do not
// apply to the request are not visible to the handler.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	if r == nil {
		return nil, ErrNilRequest
	}

	var body io.Reader = http.NoBody
	if r.hasBody {
		body = &lazyBody{request: r}
	}

	req, err := http.NewRequestWithContext(ctx, r.MethodName, r.URI.String(), body)
	if err != nil {
		return nil, &DecodingError{Field: "uri", Err: err}
	}

	for name, values := range r.Header {
		// the host lives in req.Host, the cookies are rebuilt below
		if strings.EqualFold(name, HeaderHost) || strings.EqualFold(name, HeaderCookie) {
			continue
		}
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	if len(r.Cookies) > 0 {
		pairs := make([]string, 0, len(r.Cookies))
		for _, c := range r.Cookies {
			pairs = append(pairs, c.Name+"="+c.Value)
		}
		req.Header.Set(HeaderCookie, CookieHeader(pairs))
	}

	req.Host = r.URI.Host
	req.RequestURI = r.URI.RequestURI()
	req.RemoteAddr = r.RemoteAddr
	req.ContentLength = r.contentLength

	return req, nil
}

// lazyBody decodes the request body on first read.
type lazyBody struct {
	request *Request
	reader  *bytes.Reader
}

func (b *lazyBody) Read(p []byte) (int, error) {
	if b.reader == nil {
		data, err := b.request.Body()
		if err != nil {
			return 0, err
		}
		b.reader = bytes.NewReader(data)
	}

	return b.reader.Read(p)
}

func (b *lazyBody) Close() error {
	return nil
}

func methodName(raw string, method Method) string {
	if method != MethodCustom {
		return method.String()
	}

	if raw = strings.TrimSpace(raw); raw != "" && isToken(raw) {
		return strings.ToUpper(raw)
	}

	return MethodCustom.String()
}

func encodeQuery(raw string, query map[string][]string) string {
	if raw != "" {
		return raw
	}

	return url.Values(query).Encode()
}

func isToken(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f || strings.IndexByte("()<>@,;:\\\"/[]?={}", c) >= 0 {
			return false
		}
	}

	return true
}
