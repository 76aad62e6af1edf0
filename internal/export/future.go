// Package export renders life statistics into downloadable artifacts.
package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/tartampluch/go-lifestats/internal/config"
)

// Future is a value produced in the background and resolved exactly once.
type Future[T any] struct {
	done chan struct{}
	once sync.Once
	val  T
	err  error
}

// Go runs fn on its own goroutine and returns a Future for its result.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		v, err := fn(ctx)
		f.resolve(v, err)
	}()
	return f
}

// Resolved returns a Future that already holds v and err.
func Resolved[T any](v T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	f.resolve(v, err)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.val, f.err = v, err
		close(f.done)
	})
}

// Await blocks until the value is available or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%s: %w", config.ErrFutureCancelled, ctx.Err())
	}
}
