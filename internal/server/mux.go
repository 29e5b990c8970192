package server

import (
	"net/http"

	"go.uber.org/fx"
)

type MuxParams struct {
	fx.In

	Handlers []*HttpHandler `group:"handlers"`
}

// NewMux mounts all grouped handlers on a single mux. The mux is the
// application hosted behind the proxy, both in Lambda and locally.
func NewMux(params MuxParams) *http.ServeMux {
	mux := http.NewServeMux()

	for _, handler := range params.Handlers {
		mux.Handle(handler.Name, handler.Handler)
	}

	return mux
}
