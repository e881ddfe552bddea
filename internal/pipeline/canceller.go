package pipeline

import "sync/atomic"

// Canceller is the process-wide cooperative cancellation flag. Workers
// poll it before acquiring each new job; in-flight jobs run to
// completion. Set once by the driver's owner, read from everywhere.
type Canceller struct {
	cancelled atomic.Bool
}

// NewCanceller creates an unset canceller.
func NewCanceller() *Canceller {
	return &Canceller{}
}

// Cancel sets the flag. Safe to call more than once.
func (c *Canceller) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports whether Cancel has been called.
func (c *Canceller) Cancelled() bool {
	return c.cancelled.Load()
}
