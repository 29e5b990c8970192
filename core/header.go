package core

import (
	"strings"
)

// canonicalHeaders maps the lowercase form of well-known header names
// to their canonical spelling.
var canonicalHeaders = map[string]string{
	"a-im":                             "A-IM",
	"accept":                           "Accept",
	"accept-charset":                   "Accept-Charset",
	"accept-datetime":                  "Accept-Datetime",
	"accept-encoding":                  "Accept-Encoding",
	"accept-language":                  "Accept-Language",
	"accept-patch":                     "Accept-Patch",
	"accept-ranges":                    "Accept-Ranges",
	"access-control-allow-credentials": "Access-Control-Allow-Credentials",
	"access-control-allow-headers":     "Access-Control-Allow-Headers",
	"access-control-allow-methods":     "Access-Control-Allow-Methods",
	"access-control-allow-origin":      "Access-Control-Allow-Origin",
	"access-control-expose-headers":    "Access-Control-Expose-Headers",
	"access-control-max-age":           "Access-Control-Max-Age",
	"access-control-request-headers":   "Access-Control-Request-Headers",
	"access-control-request-method":    "Access-Control-Request-Method",
	"age":                              "Age",
	"allow":                            "Allow",
	"alt-svc":                          "Alt-Svc",
	"authorization":                    "Authorization",
	"cache-control":                    "Cache-Control",
	"cloudfront-forwarded-proto":       "CloudFront-Forwarded-Proto",
	"cloudfront-is-desktop-viewer":     "CloudFront-Is-Desktop-Viewer",
	"cloudfront-is-mobile-viewer":      "CloudFront-Is-Mobile-Viewer",
	"cloudfront-is-smarttv-viewer":     "CloudFront-Is-SmartTV-Viewer",
	"cloudfront-is-tablet-viewer":      "CloudFront-Is-Tablet-Viewer",
	"cloudfront-viewer-country":        "CloudFront-Viewer-Country",
	"connection":                       "Connection",
	"content-disposition":              "Content-Disposition",
	"content-encoding":                 "Content-Encoding",
	"content-language":                 "Content-Language",
	"content-length":                   "Content-Length",
	"content-location":                 "Content-Location",
	"content-md5":                      "Content-MD5",
	"content-range":                    "Content-Range",
	"content-security-policy":          "Content-Security-Policy",
	"content-type":                     "Content-Type",
	"cookie":                           "Cookie",
	"date":                             "Date",
	"dnt":                              "DNT",
	"etag":                             "ETag",
	"expect":                           "Expect",
	"expires":                          "Expires",
	"forwarded":                        "Forwarded",
	"from":                             "From",
	"host":                             "Host",
	"if-match":                         "If-Match",
	"if-modified-since":                "If-Modified-Since",
	"if-none-match":                    "If-None-Match",
	"if-range":                         "If-Range",
	"if-unmodified-since":              "If-Unmodified-Since",
	"keep-alive":                       "Keep-Alive",
	"last-modified":                    "Last-Modified",
	"link":                             "Link",
	"location":                         "Location",
	"max-forwards":                     "Max-Forwards",
	"origin":                           "Origin",
	"pragma":                           "Pragma",
	"proxy-authenticate":               "Proxy-Authenticate",
	"proxy-authorization":              "Proxy-Authorization",
	"range":                            "Range",
	"referer":                          "Referer",
	"retry-after":                      "Retry-After",
	"server":                           "Server",
	"set-cookie":                       "Set-Cookie",
	"strict-transport-security":        "Strict-Transport-Security",
	"te":                               "TE",
	"trailer":                          "Trailer",
	"transfer-encoding":                "Transfer-Encoding",
	"upgrade":                          "Upgrade",
	"upgrade-insecure-requests":        "Upgrade-Insecure-Requests",
	"user-agent":                       "User-Agent",
	"vary":                             "Vary",
	"via":                              "Via",
	"warning":                          "Warning",
	"www-authenticate":                 "WWW-Authenticate",
	"x-amz-apigw-id":                   "X-Amz-Apigw-Id",
	"x-amz-cf-id":                      "X-Amz-Cf-Id",
	"x-amzn-trace-id":                  "X-Amzn-Trace-Id",
	"x-api-key":                        "X-Api-Key",
	"x-content-type-options":           "X-Content-Type-Options",
	"x-correlation-id":                 "X-Correlation-ID",
	"x-csrf-token":                     "X-CSRF-Token",
	"x-forwarded-for":                  "X-Forwarded-For",
	"x-forwarded-host":                 "X-Forwarded-Host",
	"x-forwarded-port":                 "X-Forwarded-Port",
	"x-forwarded-proto":                "X-Forwarded-Proto",
	"x-frame-options":                  "X-Frame-Options",
	"x-http-method-override":           "X-HTTP-Method-Override",
	"x-real-ip":                        "X-Real-IP",
	"x-request-id":                     "X-Request-ID",
	"x-requested-with":                 "X-Requested-With",
	"x-xss-protection":                 "X-XSS-Protection",
}

// Well-known header names used throughout the adapters.
const (
	HeaderContentType              = "Content-Type"
	HeaderCookie                   = "Cookie"
	HeaderSetCookie                = "Set-Cookie"
	HeaderHost                     = "Host"
	HeaderCloudFrontForwardedProto = "CloudFront-Forwarded-Proto"
	HeaderXForwardedProto          = "X-Forwarded-Proto"
	HeaderXForwardedFor            = "X-Forwarded-For"
	HeaderContentLength            = "Content-Length"
)

// CanonicalHeader returns the canonical spelling of a well-known
// header name, matched case-insensitively. Unknown names are
// returned unchanged.
func CanonicalHeader(name string) string {
	if canonical, ok := canonicalHeaders[strings.ToLower(name)]; ok {
		return canonical
	}

	return name
}

// Header is a multi-value header map keyed by canonical header name.
// Lookups resolve any case variant of a name to the same bucket.
type Header map[string][]string

// key returns the bucket name under which values for name are stored.
func (h Header) key(name string) string {
	canonical := CanonicalHeader(name)
	if _, ok := h[canonical]; ok {
		return canonical
	}

	for k := range h {
		if strings.EqualFold(k, name) {
			return k
		}
	}

	return canonical
}

// Get returns the first value associated with name, or "".
func (h Header) Get(name string) string {
	if values := h[h.key(name)]; len(values) > 0 {
		return values[0]
	}

	return ""
}

// Values returns all values associated with name.
func (h Header) Values(name string) []string {
	return h[h.key(name)]
}

// Has reports whether name has at least one value.
func (h Header) Has(name string) bool {
	return len(h.Values(name)) > 0
}

// Add appends value to the values of name.
func (h Header) Add(name, value string) {
	k := h.key(name)
	h[k] = append(h[k], value)
}

// Set replaces the values of name with value.
func (h Header) Set(name, value string) {
	h[h.key(name)] = []string{value}
}

// Del removes all values of name.
func (h Header) Del(name string) {
	delete(h, h.key(name))
}

// Clone returns a deep copy of h.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}

	out := make(Header, len(h))
	for k, v := range h {
		out[k] = append([]string(nil), v...)
	}

	return out
}
