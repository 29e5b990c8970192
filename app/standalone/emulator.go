package standalone

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/lambda-feedback/gatewayproxy/adapter"
	"github.com/lambda-feedback/gatewayproxy/core"
	"github.com/lambda-feedback/gatewayproxy/emulator"
)

type EmulatorParams struct {
	fx.In

	Config  Config
	Mux     *http.ServeMux
	Options core.Options
	Logger  *zap.Logger
}

// NewEmulator puts the emulated gateway in front of the mux, invoking
// it through the adapter of the configured payload format.
func NewEmulator(params EmulatorParams) (http.Handler, error) {
	source, err := adapter.ParseSource(params.Config.ProxySource.String())
	if err != nil {
		return nil, err
	}

	handler, err := adapter.NewHandler(source, params.Mux, params.Options, params.Logger.Named("adapter"))
	if err != nil {
		return nil, err
	}

	cfg := params.Config.Emulator
	if cfg.Region == "" {
		cfg.Region = params.Options.Region
	}

	params.Logger.Info("emulating gateway",
		zap.Stringer("proxy_source", source),
		zap.String("api_id", cfg.APIID),
		zap.String("stage", cfg.Stage),
	)

	return emulator.New(emulator.Params{
		Source:  source,
		Handler: handler,
		Binary:  params.Options.Binary,
		Config:  cfg,
		Log:     params.Logger,
	})
}
