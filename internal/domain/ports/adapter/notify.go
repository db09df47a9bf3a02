package adapter

import "context"

// Notifier pushes a short out-of-band message to the recruiter, e.g. when
// a candidate's feedback is ready. Implementations must be non-blocking
// best-effort; a failed notification never fails the operation.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
