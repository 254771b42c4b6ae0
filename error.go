package kvstore

// SentinelError is an error.
type SentinelError string

const (
	// ErrNotFound indicates missing store entry.
	ErrNotFound = SentinelError("missing store entry")

	// ErrNothingToInvalidate indicates no stores were added to Invalidator.
	ErrNothingToInvalidate = SentinelError("nothing to invalidate")

	// ErrAlreadyInvalidated indicates recent invalidation.
	ErrAlreadyInvalidated = SentinelError("already invalidated")
)

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}
