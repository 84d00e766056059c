package ratelimit

// Rejection reasons surfaced to the caller.
const (
	ReasonPerVisitorLimit = "per_visitor_limit"
	ReasonGlobalLimit     = "global_limit"
)

// Rejection is the outcome of a failed gate check. It is expected control
// flow, not an error: the visitor is told to retry after the hint.
type Rejection struct {
	// Reason is ReasonPerVisitorLimit or ReasonGlobalLimit.
	Reason string

	// RetryAfterSeconds is how long the visitor should wait before retrying.
	RetryAfterSeconds float64
}
