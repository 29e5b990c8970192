package core

import (
	"net/http"
	"strings"
)

// Method is a normalized HTTP request method.
type Method string

// MethodCustom is used for method names that are not known.
const MethodCustom Method = "CUSTOM"

var knownMethods = map[string]Method{
	http.MethodGet:     http.MethodGet,
	http.MethodHead:    http.MethodHead,
	http.MethodPost:    http.MethodPost,
	http.MethodPut:     http.MethodPut,
	http.MethodPatch:   http.MethodPatch,
	http.MethodDelete:  http.MethodDelete,
	http.MethodConnect: http.MethodConnect,
	http.MethodOptions: http.MethodOptions,
	http.MethodTrace:   http.MethodTrace,
}

// ParseMethod parses a method name case-insensitively. Unknown or empty
// names yield MethodCustom.
func ParseMethod(name string) Method {
	if m, ok := knownMethods[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return m
	}

	return MethodCustom
}

func (m Method) String() string {
	return string(m)
}
