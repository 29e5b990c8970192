package core

import "strings"

// Config is the user-facing configuration of the proxy core.
type Config struct {
	// ForceBase64 base64 encodes every response body.
	ForceBase64 bool `conf:"force_base64"`

	// BinaryTypes are media types base64 encoded in addition to the
	// built-in binary types.
	BinaryTypes []string `conf:"binary_types"`

	// StripBasePath removes BasePath from incoming request paths.
	StripBasePath bool `conf:"strip_base_path"`

	// BasePath is the prefix removed if StripBasePath is set, e.g. the
	// base path mapping of a custom domain.
	BasePath string `conf:"base_path" validate:"omitempty,startswith=/"`

	// CustomDomains are host names trusted in addition to the
	// execute-api host of the API.
	CustomDomains []string `conf:"custom_domains" validate:"dive,hostname_rfc1123"`

	// Region is the AWS region the API is deployed in.
	Region string `conf:"region"`
}

// Options are the resolved settings the adapters are constructed with.
type Options struct {
	// Binary decides which response bodies are base64 encoded.
	Binary *BinaryTypes

	// Resolver reconstructs request URIs.
	Resolver *HostResolver

	// ForceBase64 base64 encodes every response body.
	ForceBase64 bool

	// BasePath is stripped from request paths if not empty.
	BasePath string

	// Region is used to synthesize execute-api host names.
	Region string
}

// NewOptions resolves cfg into adapter options.
func NewOptions(cfg Config) Options {
	opts := Options{
		Binary:      NewBinaryTypes(cfg.BinaryTypes...),
		Resolver:    NewHostResolver(NewDomains(cfg.CustomDomains...)),
		ForceBase64: cfg.ForceBase64,
		Region:      cfg.Region,
	}

	if cfg.StripBasePath {
		opts.BasePath = strings.TrimSuffix(cfg.BasePath, "/")
	}

	if opts.Region == "" {
		opts.Region = DefaultRegion
	}

	return opts
}

// DefaultOptions returns the options of a zero Config.
func DefaultOptions() Options {
	return NewOptions(Config{})
}

// stripBasePath removes basePath from path if path is below it.
func stripBasePath(path, basePath string) string {
	if basePath == "" {
		return path
	}

	if path == basePath {
		return "/"
	}

	if strings.HasPrefix(path, basePath+"/") {
		return strings.TrimPrefix(path, basePath)
	}

	return path
}
