package emulator

type Config struct {
	// APIID is the id of the emulated API, used for its execute-api host.
	APIID string `conf:"api_id" validate:"required,alphanum"`

	// Stage is the name of the emulated stage.
	Stage string `conf:"stage" validate:"required"`

	// Region is the region of the emulated API.
	Region string `conf:"region"`

	// ThrottleRate is the steady-state request rate per second. Zero
	// disables throttling.
	ThrottleRate float64 `conf:"throttle_rate" validate:"gte=0"`

	// ThrottleBurst is the maximum request burst.
	ThrottleBurst int `conf:"throttle_burst" validate:"gte=0"`
}

// DefaultConfig returns the configuration of a local API.
func DefaultConfig() Config {
	return Config{
		APIID: "local",
		Stage: "$default",
	}
}
