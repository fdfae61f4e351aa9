package rx

import (
	"sync/atomic"
	"time"
)

// EventTarget dispatches named events to registered listeners.
type EventTarget[T any] interface {
	// AddEventListener registers fn to be called for each event called name.
	// Calling the returned function removes the listener.
	AddEventListener(name string, fn func(event T)) (remove func())
}

// Of returns a stream that synchronously produces the given values, in order, then completes.
func Of[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// FromSlice returns a stream that synchronously produces the elements of the given slices, in order,
// then completes.
// All elements are produced before the stream returns its subscription, so there is nothing to cancel.
func FromSlice[T any](slices ...[]T) Stream[T] {
	return func(obs Observer[T]) Subscription {
		for _, slice := range slices {
			for _, elem := range slice {
				obs.Next(elem)
			}
		}

		obs.sendComplete()

		return noSubscription
	}
}

// Empty returns a stream that completes immediately without producing any values.
func Empty[T any]() Stream[T] {
	return func(obs Observer[T]) Subscription {
		obs.sendComplete()
		return noSubscription
	}
}

// Never returns a stream that never produces any values, and never completes.
func Never[T any]() Stream[T] {
	return func(_ Observer[T]) Subscription {
		return noSubscription
	}
}

// Throw returns a stream that fails immediately with err.
func Throw[T any](err error) Stream[T] {
	return func(obs Observer[T]) Subscription {
		obs.sendError(err)
		return noSubscription
	}
}

// FromChannel returns a stream that produces the elements received through ch, in order.
// The stream completes when ch is closed, or when it is canceled.
func FromChannel[T any](ch <-chan T) Stream[T] {
	return func(obs Observer[T]) Subscription {
		quit := make(chan struct{})

		ser := serializer{}
		stopped := false

		stop := func() {
			if stopped {
				return
			}

			stopped = true

			close(quit)
			obs.sendComplete()
		}

		go func() {
			for {
				select {
				case elem, ok := <-ch:
					if !ok {
						ser.do(stop)
						return
					}

					ser.do(func() {
						if stopped {
							return
						}

						obs.Next(elem)
					})

				case <-quit:
					return
				}
			}
		}()

		return newSubscription(func() {
			ser.do(stop)
		})
	}
}

// MinInterval is the shortest period of Interval.
const MinInterval = time.Millisecond

// Interval returns a stream that produces 0, 1, 2, ..., one value per period.
// A period shorter than MinInterval, zero and negative periods included, is raised to MinInterval.
// The stream never completes on its own. Canceling it stops the timer and completes the stream.
func Interval(period time.Duration) Stream[int] {
	period = max(period, MinInterval)

	return func(obs Observer[int]) Subscription {
		ticker := time.NewTicker(period)
		quit := make(chan struct{})

		ser := serializer{}
		stopped := false

		go func() {
			index := 0

			for {
				select {
				case <-ticker.C:
					value := index
					index++

					ser.do(func() {
						if stopped {
							return
						}

						obs.Next(value)
					})

				case <-quit:
					return
				}
			}
		}()

		return newSubscription(func() {
			ser.do(func() {
				stopped = true

				ticker.Stop()
				close(quit)

				obs.sendComplete()
			})
		})
	}
}

// FromEvent returns a stream that produces every event called name dispatched by target.
// The stream never completes on its own. Canceling it removes the listener and completes the stream.
func FromEvent[T any](target EventTarget[T], name string) Stream[T] {
	return func(obs Observer[T]) Subscription {
		ser := serializer{}
		stopped := false

		remove := target.AddEventListener(name, func(event T) {
			ser.do(func() {
				if stopped {
					return
				}

				obs.Next(event)
			})
		})

		return newSubscription(func() {
			ser.do(func() {
				stopped = true

				remove()

				obs.sendComplete()
			})
		})
	}
}

// FromFuture returns a stream that produces the value of f, then completes.
// If f is rejected, the stream fails with its error instead.
// Canceling the stream does not abort f, but a result that arrives afterwards is dropped.
func FromFuture[T any](f Future[T]) Stream[T] {
	return func(obs Observer[T]) Subscription {
		cancelled := atomic.Bool{}

		f.Then(func(value T) {
			if cancelled.Load() {
				return
			}

			obs.Next(value)
			obs.sendComplete()
		}, func(err error) {
			if cancelled.Load() {
				return
			}

			obs.sendError(err)
		})

		return newSubscription(func() {
			cancelled.Store(true)
		})
	}
}
