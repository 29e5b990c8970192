package core

import (
	"slices"
	"strings"
)

// atomicHeaders lists headers whose values may legitimately contain
// commas, so a comma-joined value is never split into several values.
var atomicHeaders = map[string]struct{}{
	"Authorization":       {},
	"Content-Disposition": {},
	"Cookie":              {},
	"Date":                {},
	"Expires":             {},
	"If-Modified-Since":   {},
	"If-Range":            {},
	"If-Unmodified-Since": {},
	"Last-Modified":       {},
	"Location":            {},
	"Proxy-Authorization": {},
	"Referer":             {},
	"Retry-After":         {},
	"Set-Cookie":          {},
	"User-Agent":          {},
	"WWW-Authenticate":    {},
}

// IsAtomicHeader reports whether values of the named header must be
// treated as a single value even if they contain commas.
func IsAtomicHeader(name string) bool {
	_, ok := atomicHeaders[CanonicalHeader(name)]
	return ok
}

// CollapseHeaders merges the multi-value and single-value header maps
// of an event envelope into one canonical Header. Values from multi come
// first. A single value already present verbatim is skipped, otherwise it
// is split on commas (unless the header is atomic) and every part not yet
// present is appended. The result is never nil.
func CollapseHeaders(multi map[string][]string, single map[string]string) Header {
	header := make(Header, len(multi)+len(single))

	for name, values := range multi {
		k := header.key(name)
		header[k] = append(header[k], values...)
	}

	for name, value := range single {
		k := header.key(name)
		existing := header[k]

		if slices.Contains(existing, value) {
			continue
		}

		if IsAtomicHeader(k) {
			header[k] = append(existing, value)
			continue
		}

		for _, part := range splitHeaderValue(value) {
			if !slices.Contains(existing, part) {
				existing = append(existing, part)
			}
		}

		header[k] = existing
	}

	return header
}

// CollapseValues merges multi-value and single-value parameter maps,
// such as query string parameters, without altering keys or values.
// The result is never nil.
func CollapseValues(multi map[string][]string, single map[string]string) map[string][]string {
	values := make(map[string][]string, len(multi)+len(single))

	for key, vs := range multi {
		values[key] = append(values[key], vs...)
	}

	for key, v := range single {
		if !slices.Contains(values[key], v) {
			values[key] = append(values[key], v)
		}
	}

	return values
}

func splitHeaderValue(value string) []string {
	parts := strings.Split(value, ",")

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	// keep whitespace-only or empty values as they were sent
	if len(out) == 0 {
		return []string{value}
	}

	return out
}
