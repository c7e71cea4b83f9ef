package tracing

// Context carries the request id and source through a request lifecycle.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}
