package rx

import (
	"context"
	"sync"
)

// Future is a pending result that is either resolved with a value, or rejected with an error.
type Future[T any] interface {
	// Then registers callbacks for the result.
	// Exactly one of onResolve and onReject is called, once. If the future has already settled,
	// the callback is called before Then returns.
	Then(onResolve func(value T), onReject func(err error))
}

// Promise is a Future that is settled by calling Resolve or Reject.
// Only the first call to either has an effect.
type Promise[T any] struct {
	mu       sync.Mutex
	settled  bool
	value    T
	err      error
	handlers []promiseHandler[T]
	done     chan struct{}
}

type promiseHandler[T any] struct {
	onResolve func(value T)
	onReject  func(err error)
}

// NewPromise returns a new pending promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{
		done: make(chan struct{}),
	}
}

// Resolved returns a promise that is resolved with value.
func Resolved[T any](value T) *Promise[T] {
	p := NewPromise[T]()
	p.Resolve(value)

	return p
}

// Rejected returns a promise that is rejected with err.
func Rejected[T any](err error) *Promise[T] {
	p := NewPromise[T]()
	p.Reject(err)

	return p
}

// Async returns a promise that is settled with the result of calling fn in a new goroutine.
func Async[T any](fn func() (T, error)) *Promise[T] {
	p := NewPromise[T]()

	go func() {
		value, err := fn()
		if err != nil {
			p.Reject(err)
			return
		}

		p.Resolve(value)
	}()

	return p
}

// Resolve settles p with value.
func (p *Promise[T]) Resolve(value T) {
	p.settle(value, nil)
}

// Reject settles p with err.
func (p *Promise[T]) Reject(err error) {
	var zero T

	p.settle(zero, err)
}

func (p *Promise[T]) settle(value T, err error) {
	p.mu.Lock()

	if p.settled {
		p.mu.Unlock()
		return
	}

	p.settled = true
	p.value = value
	p.err = err

	handlers := p.handlers
	p.handlers = nil

	close(p.done)

	p.mu.Unlock()

	for _, h := range handlers {
		p.notify(h)
	}
}

// Then implements Future.
func (p *Promise[T]) Then(onResolve func(value T), onReject func(err error)) {
	h := promiseHandler[T]{
		onResolve: onResolve,
		onReject:  onReject,
	}

	p.mu.Lock()

	if !p.settled {
		p.handlers = append(p.handlers, h)
		p.mu.Unlock()

		return
	}

	p.mu.Unlock()

	p.notify(h)
}

// Await blocks until p has settled, or ctx is done.
func (p *Promise[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-p.done:
		return p.value, p.err

	case <-ctx.Done():
		var zero T
		return zero, context.Cause(ctx)
	}
}

// Await blocks until f has settled, or ctx is done.
func Await[T any](ctx context.Context, f Future[T]) (T, error) {
	if p, ok := f.(*Promise[T]); ok {
		return p.Await(ctx)
	}

	p := NewPromise[T]()
	f.Then(p.Resolve, p.Reject)

	return p.Await(ctx)
}

func (p *Promise[T]) notify(h promiseHandler[T]) {
	if p.err != nil {
		if h.onReject != nil {
			h.onReject(p.err)
		}

		return
	}

	if h.onResolve != nil {
		h.onResolve(p.value)
	}
}
