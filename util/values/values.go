package values

// Response statuses used across handlers. StatusCode in util maps
// these to HTTP status codes.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	SystemErr      = "system-error"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
	Timeout        = "timeout"
)

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

type ContextKey string

const ContextTracingKey ContextKey = "tracing-context"
