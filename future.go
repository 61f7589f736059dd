package inject

import (
	"context"
)

// Future is the result of an asynchronous lookup. Containers construct
// synchronously, so every Future they return is already complete.
type Future struct {
	value any
	err   error
	done  chan struct{}
}

func completedFuture(value any, err error) *Future {
	f := &Future{value: value, err: err, done: make(chan struct{})}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await waits for the result or for ctx to be done.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	default:
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
