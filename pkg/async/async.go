package async

import (
	"context"
	"fmt"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Result pairs a future's value with its error.
type Result[U any] struct {
	Value U
	Err   error
}

// PanicError carries the value recovered from a panicking function.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("async: recovered panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	return ErrPanic
}

// Await blocks until the function completes and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout is Await bounded by timeout. On timeout it returns ErrTimeout;
// the function keeps running in the background.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.result, f.err
	case <-timer.C:
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete reports whether the function has finished, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async runs fn(ctx, param) in its own goroutine and returns a Future.
// A context cancelled before the goroutine starts completes the future with
// ctx.Err(). A panic inside fn completes it with a *PanicError.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result = zero
				f.err = &PanicError{Value: r}
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}

// WaitAll waits for every future and returns the results in order, stopping
// at the first error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// Settle waits for every future and returns each outcome in order.
// Unlike WaitAll it never stops early, so one failing task cannot hide the others.
func Settle[U any](futures ...*Future[U]) []Result[U] {
	results := make([]Result[U], len(futures))
	for i, future := range futures {
		v, err := future.Await()
		results[i] = Result[U]{Value: v, Err: err}
	}
	return results
}
