package core

import (
	"net/http"
	"strings"
)

// DecodeCookies parses the value of a Cookie request header into its
// cookies. A Path (or $Path) attribute applies to the cookie preceding
// it; such cookies are only kept if requestPath starts with the path.
// Later cookies replace earlier ones with the same name. Malformed
// pairs are skipped.
func DecodeCookies(header, requestPath string) []*http.Cookie {
	var (
		order   []string
		cookies = make(map[string]*http.Cookie)
		last    *http.Cookie
	)

	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}

		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		if strings.EqualFold(strings.TrimPrefix(name, "$"), "path") {
			if last != nil {
				last.Path = unquoteCookieValue(value)
			}
			continue
		}

		// $Version, $Domain and friends of RFC 2109 cookies
		if strings.HasPrefix(name, "$") || !isCookieName(name) {
			last = nil
			continue
		}

		cookie := &http.Cookie{
			Name:  name,
			Value: unquoteCookieValue(value),
		}

		if _, seen := cookies[name]; !seen {
			order = append(order, name)
		}

		cookies[name] = cookie
		last = cookie
	}

	result := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		cookie := cookies[name]
		if cookie.Path != "" && !strings.HasPrefix(requestPath, cookie.Path) {
			continue
		}
		result = append(result, cookie)
	}

	return result
}

// EncodeCookies serializes cookies into Set-Cookie header values, one
// per cookie. Cookies that cannot be serialized are dropped.
func EncodeCookies(cookies []*http.Cookie) []string {
	values := make([]string, 0, len(cookies))

	for _, cookie := range cookies {
		if cookie == nil {
			continue
		}

		if v := cookie.String(); v != "" {
			values = append(values, v)
		}
	}

	return values
}

// CookieHeader joins cookie pairs as sent in a Cookie request header.
func CookieHeader(pairs []string) string {
	return strings.Join(pairs, "; ")
}

func unquoteCookieValue(value string) string {
	if len(value) > 1 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}

	return value
}

func isCookieName(name string) bool {
	return name != "" && isToken(name)
}
