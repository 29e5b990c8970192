package config

import (
	"github.com/lambda-feedback/gatewayproxy/core"
	"github.com/lambda-feedback/gatewayproxy/router"
	"github.com/lambda-feedback/gatewayproxy/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level" validate:"omitempty,oneof=debug info warn error dpanic panic fatal"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format" validate:"omitempty,oneof=production development"`

	// Proxy configures how events are translated
	Proxy core.Config `conf:"proxy"`

	// Router configures the bundled application
	Router router.Config `conf:"router"`
}

var DefaultConfig = conf.DefaultConfig{
	"log_level":  "info",
	"log_format": "production",
}

// CliMap maps root flags to their config keys.
var CliMap = map[string]string{
	"force-base64":    "proxy.force_base64",
	"binary-type":     "proxy.binary_types",
	"strip-base-path": "proxy.strip_base_path",
	"base-path":       "proxy.base_path",
	"custom-domain":   "proxy.custom_domains",
	"region":          "proxy.region",
	"tracing":         "router.tracing",
	"segment-name":    "router.segment_name",
}
