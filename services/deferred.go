package services

import "context"

// Deferred is the pending result of an operation started with Defer
type Deferred[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Defer runs fn in its own goroutine and returns immediately. The effect of
// fn is only guaranteed to be visible once Wait has returned.
func Defer[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Deferred[T] {
	d := &Deferred[T]{done: make(chan struct{})}
	go func() {
		defer close(d.done)
		d.value, d.err = fn(ctx)
	}()
	return d
}

// Wait blocks until the operation completes or ctx is done
func (d *Deferred[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-d.done:
		return d.value, d.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed when the operation has completed
func (d *Deferred[T]) Done() <-chan struct{} {
	return d.done
}

// DeferErr is Defer for operations that only report an error
func DeferErr(ctx context.Context, fn func(ctx context.Context) error) *Deferred[struct{}] {
	return Defer(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}
