package emulator

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// bearerClaims returns the claims of the bearer token of r. The token
// is not verified, the emulated gateway trusts any well-formed token.
func bearerClaims(r *http.Request) (jwt.MapClaims, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return nil, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return nil, false
	}

	return claims, true
}

// stringClaims flattens claims into strings, as gateways pass them on.
func stringClaims(claims jwt.MapClaims) map[string]string {
	out := make(map[string]string, len(claims))

	for name, value := range claims {
		switch v := value.(type) {
		case string:
			out[name] = v
		case float64:
			out[name] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			if data, err := json.Marshal(v); err == nil {
				out[name] = string(data)
			}
		}
	}

	return out
}

// scopes returns the OAuth scopes of the claims.
func scopes(claims jwt.MapClaims) []string {
	if scope, ok := claims["scope"].(string); ok {
		return strings.Fields(scope)
	}

	scp, ok := claims["scp"].([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(scp))
	for _, s := range scp {
		if str, ok := s.(string); ok {
			out = append(out, str)
		}
	}

	return out
}
