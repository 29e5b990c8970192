package adapter

import (
	"strings"

	"github.com/lambda-feedback/gatewayproxy/core"
)

// headersWithCookies returns the response headers with the response
// cookies added as Set-Cookie values.
func headersWithCookies(resp *core.Response) core.Header {
	header := resp.Header.Clone()
	if header == nil {
		header = make(core.Header)
	}

	for _, value := range resp.SetCookieValues() {
		header.Add(core.HeaderSetCookie, value)
	}

	return header
}

// splitHeaders partitions header into single-value and multi-value
// maps. Either map is nil if it would be empty.
func splitHeaders(header core.Header) (map[string]string, map[string][]string) {
	var (
		single map[string]string
		multi  map[string][]string
	)

	for name, values := range header {
		switch len(values) {
		case 0:
			continue
		case 1:
			if single == nil {
				single = make(map[string]string)
			}
			single[name] = values[0]
		default:
			if multi == nil {
				multi = make(map[string][]string)
			}
			multi[name] = append([]string(nil), values...)
		}
	}

	return single, multi
}

// joinHeaders comma-joins the values of every header.
func joinHeaders(header core.Header) map[string]string {
	if len(header) == 0 {
		return nil
	}

	joined := make(map[string]string, len(header))
	for name, values := range header {
		if len(values) > 0 {
			joined[name] = strings.Join(values, ",")
		}
	}

	return joined
}
