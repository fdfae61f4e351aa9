package rx

import "sync/atomic"

// Observer receives the values produced by a stream.
// Next is mandatory. Error and Complete are optional, a nil callback ignores the event.
//
// After Error or Complete has been called, a well-behaved producer does not call the observer again.
type Observer[T any] struct {
	Next     func(value T)
	Error    func(err error)
	Complete func()
}

// Subscription releases every resource acquired by a running stream.
type Subscription func()

// Stream starts producing values for obs, and returns the subscription that cancels production.
type Stream[T any] func(obs Observer[T]) Subscription

// Operator transforms a stream into another stream.
type Operator[T any, U any] func(stream Stream[T]) Stream[U]

// sendError calls o.Error, if set.
func (o Observer[T]) sendError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

// sendComplete calls o.Complete, if set.
func (o Observer[T]) sendComplete() {
	if o.Complete != nil {
		o.Complete()
	}
}

// withNext returns an observer that calls next for each value, and delegates Error and Complete to o.
func withNext[T any, U any](o Observer[U], next func(value T)) Observer[T] {
	return Observer[T]{
		Next:     next,
		Error:    o.Error,
		Complete: o.Complete,
	}
}

// newSubscription returns a subscription that calls cancel on its first call only.
// Later calls, including reentrant calls made while cancel is running, return immediately.
func newSubscription(cancel func()) Subscription {
	cancelled := atomic.Bool{}

	return func() {
		if !cancelled.CompareAndSwap(false, true) {
			return
		}

		cancel()
	}
}

// noSubscription is returned by streams that hold no resources.
func noSubscription() {}
