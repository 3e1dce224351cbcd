package pipeline

import (
	"context"
	"errors"
	"time"
)

// ErrDeadline is returned when a bounded operation does not finish in
// time. Classify maps it to FACE_TIMEOUT.
var ErrDeadline = errors.New("verification deadline exceeded")

// runBounded executes op on its own goroutine and waits for the result
// or the deadline, whichever comes first. Cancellation is best effort:
// the op's context is cancelled on expiry, but the extractor behind it
// may not stop. Each call owns its result channel, and the channel is
// buffered, so a late result from an abandoned op parks in the buffer
// and is collected with it; it can never be delivered to this caller a
// second time or bleed into a later call.
func runBounded[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	opCtx, cancel := context.WithTimeout(ctx, timeout)
	ch := make(chan result, 1)

	go func() {
		val, err := op(opCtx)
		ch <- result{val, err}
	}()

	select {
	case r := <-ch:
		cancel()
		return r.val, r.err
	case <-opCtx.Done():
		cancel()
		var zero T
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			return zero, ErrDeadline
		}
		return zero, opCtx.Err()
	}
}
