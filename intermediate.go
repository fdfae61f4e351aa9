package rx

import "sync"

// Function returns the result of applying an operation to value.
type Function[T any, U any] func(value T) U

// ScanFunc folds value into the accumulator acc, returning the new accumulator.
type ScanFunc[T any, A any] func(acc A, value T) A

// Map returns an operator that calls mapp for each value, mapping it to type U.
func Map[T any, U any](mapp Function[T, U]) Operator[T, U] {
	return func(stream Stream[T]) Stream[U] {
		return func(obs Observer[U]) Subscription {
			return stream(withNext(obs, func(value T) {
				obs.Next(mapp(value))
			}))
		}
	}
}

// Scan returns an operator that folds each value into a running accumulator, and produces every new accumulator.
// The seed is produced first, as soon as the stream is subscribed to.
func Scan[T any, A any](acc ScanFunc[T, A], seed A) Operator[T, A] {
	return func(stream Stream[T]) Stream[A] {
		return func(obs Observer[A]) Subscription {
			state := seed

			obs.Next(state)

			return stream(withNext(obs, func(value T) {
				state = acc(state, value)
				obs.Next(state)
			}))
		}
	}
}

// StartWith returns an operator that produces value before subscribing to the stream.
func StartWith[T any](value T) Operator[T, T] {
	return func(stream Stream[T]) Stream[T] {
		return func(obs Observer[T]) Subscription {
			obs.Next(value)

			return stream(obs)
		}
	}
}

// Take returns an operator that produces the first max values, then cancels the stream and completes.
// If max is 0, the stream is never subscribed to, and the new stream completes immediately.
func Take[T any](max uint64) Operator[T, T] {
	return func(stream Stream[T]) Stream[T] {
		return func(obs Observer[T]) Subscription {
			if max == 0 {
				obs.sendComplete()
				return noSubscription
			}

			var (
				mu      sync.Mutex
				sub     Subscription
				limited bool
				done    bool
				count   uint64
			)

			// cancelUpstream cancels the upstream subscription. The limit may be reached while the
			// stream is still being subscribed to, in which case canceling is left to the subscriber.
			cancelUpstream := func() {
				mu.Lock()
				limited = true
				s := sub
				mu.Unlock()

				if s != nil {
					s()
				}
			}

			s := stream(Observer[T]{
				Next: func(value T) {
					if done {
						return
					}

					count++

					obs.Next(value)

					if count < max {
						return
					}

					done = true

					cancelUpstream()

					obs.sendComplete()
				},
				Error: func(err error) {
					if done {
						return
					}

					done = true

					obs.sendError(err)
				},
				Complete: func() {
					if done {
						return
					}

					done = true

					obs.sendComplete()
				},
			})

			mu.Lock()
			sub = s
			cancelNow := limited
			mu.Unlock()

			if cancelNow {
				s()
				return noSubscription
			}

			return newSubscription(cancelUpstream)
		}
	}
}

// Filter returns an operator that only produces values for which pred returns true.
func Filter[T any](pred func(value T) bool) Operator[T, T] {
	return func(stream Stream[T]) Stream[T] {
		return func(obs Observer[T]) Subscription {
			return stream(withNext(obs, func(value T) {
				if !pred(value) {
					return
				}

				obs.Next(value)
			}))
		}
	}
}

// Skip returns an operator that skips the first num values.
func Skip[T any](num uint64) Operator[T, T] {
	return func(stream Stream[T]) Stream[T] {
		return func(obs Observer[T]) Subscription {
			skipped := uint64(0)

			return stream(withNext(obs, func(value T) {
				if skipped < num {
					skipped++
					return
				}

				obs.Next(value)
			}))
		}
	}
}

// Tap returns an operator that calls tap for each value, and produces the same values.
func Tap[T any](tap func(value T)) Operator[T, T] {
	return func(stream Stream[T]) Stream[T] {
		return func(obs Observer[T]) Subscription {
			return stream(withNext(obs, func(value T) {
				tap(value)
				obs.Next(value)
			}))
		}
	}
}

// Identity returns a function that returns the same value it receives.
func Identity[T any]() Function[T, T] {
	return func(value T) T {
		return value
	}
}
