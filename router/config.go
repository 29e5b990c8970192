package router

type Config struct {
	// Tracing enables AWS X-Ray tracing of requests.
	Tracing bool `conf:"tracing"`

	// SegmentName is the name of the X-Ray segment of each request.
	SegmentName string `conf:"segment_name"`
}
