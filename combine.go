package rx

// Pair holds the latest values of two combined streams.
type Pair[A any, B any] struct {
	First  A
	Second B
}

// Triple holds the latest values of three combined streams.
type Triple[A any, B any, C any] struct {
	First  A
	Second B
	Third  C
}

// option is a value that may not have been produced yet.
type option[T any] struct {
	value T
	ok    bool
}

// Merge returns a stream that produces the values produced by all given streams, in the order they arrive.
// The new stream completes once every stream has completed. If there are no streams, it completes immediately.
func Merge[T any](streams ...Stream[T]) Stream[T] {
	return func(obs Observer[T]) Subscription {
		if len(streams) == 0 {
			obs.sendComplete()
			return noSubscription
		}

		ser := serializer{}
		completed := 0
		done := false

		subs := make([]Subscription, 0, len(streams))

		for _, stream := range streams {
			sub := stream(Observer[T]{
				Next: func(value T) {
					ser.do(func() {
						if done {
							return
						}

						obs.Next(value)
					})
				},
				Error: func(err error) {
					ser.do(func() {
						if done {
							return
						}

						done = true

						obs.sendError(err)
					})
				},
				Complete: func() {
					ser.do(func() {
						if done {
							return
						}

						completed++
						if completed < len(streams) {
							return
						}

						done = true

						obs.sendComplete()
					})
				},
			})

			subs = append(subs, sub)
		}

		return newSubscription(func() {
			for _, sub := range subs {
				sub()
			}
		})
	}
}

// Flatten returns a stream that produces the values produced by the latest stream produced by outer.
// When outer produces a new stream, the previous one is canceled before the new one is subscribed to,
// and values from the previous stream are never produced afterwards.
// The new stream completes once outer has completed, and the latest inner stream has completed.
func Flatten[T any](outer Stream[Stream[T]]) Stream[T] {
	return func(obs Observer[T]) Subscription {
		ser := serializer{}

		var (
			inner       Subscription
			innerID     uint64
			innerActive bool
			outerDone   bool
			done        bool
		)

		// cancelInner must be called from within ser.
		cancelInner := func() {
			if inner == nil {
				return
			}

			prev := inner
			inner = nil
			innerActive = false

			prev()
		}

		subscribeInner := func(stream Stream[T]) {
			cancelInner()

			innerID++
			id := innerID
			innerActive = true

			sub := stream(Observer[T]{
				Next: func(value T) {
					ser.do(func() {
						if done || id != innerID {
							return
						}

						obs.Next(value)
					})
				},
				Error: func(err error) {
					ser.do(func() {
						if done || id != innerID {
							return
						}

						done = true

						obs.sendError(err)
					})
				},
				Complete: func() {
					ser.do(func() {
						if done || id != innerID {
							return
						}

						innerActive = false
						inner = nil

						if !outerDone {
							return
						}

						done = true

						obs.sendComplete()
					})
				},
			})

			// deliveries made while subscribing are queued behind this function,
			// so the inner stream cannot have completed yet
			inner = sub
		}

		outerSub := outer(Observer[Stream[T]]{
			Next: func(stream Stream[T]) {
				ser.do(func() {
					if done {
						return
					}

					subscribeInner(stream)
				})
			},
			Error: func(err error) {
				ser.do(func() {
					if done {
						return
					}

					done = true

					obs.sendError(err)
				})
			},
			Complete: func() {
				ser.do(func() {
					if done {
						return
					}

					outerDone = true

					if innerActive {
						return
					}

					done = true

					obs.sendComplete()
				})
			},
		})

		return newSubscription(func() {
			outerSub()

			ser.do(cancelInner)
		})
	}
}

// SwitchMap returns an operator that maps each value to a stream, and produces the values of the latest one.
func SwitchMap[T any, U any](mapp Function[T, Stream[U]]) Operator[T, U] {
	return func(stream Stream[T]) Stream[U] {
		return Flatten(Map(mapp)(stream))
	}
}

// Combine returns a stream that produces the latest values of all given streams.
// Nothing is produced until every stream has produced a value. Afterwards, every value produced by any stream
// produces a new slice, holding that value and the latest values of the other streams.
// The new stream completes once every stream has completed. If there are no streams, it completes immediately.
func Combine[T any](streams ...Stream[T]) Stream[[]T] {
	return func(obs Observer[[]T]) Subscription {
		if len(streams) == 0 {
			obs.sendComplete()
			return noSubscription
		}

		ser := serializer{}
		latest := make([]option[T], len(streams))
		ready := 0
		completed := 0
		done := false

		subs := make([]Subscription, 0, len(streams))

		for i, stream := range streams {
			sub := stream(Observer[T]{
				Next: func(value T) {
					ser.do(func() {
						if done {
							return
						}

						if !latest[i].ok {
							ready++
						}

						latest[i] = option[T]{value: value, ok: true}

						if ready < len(latest) {
							return
						}

						values := make([]T, len(latest))
						for j, opt := range latest {
							values[j] = opt.value
						}

						obs.Next(values)
					})
				},
				Error: func(err error) {
					ser.do(func() {
						if done {
							return
						}

						done = true

						obs.sendError(err)
					})
				},
				Complete: func() {
					ser.do(func() {
						if done {
							return
						}

						completed++
						if completed < len(streams) {
							return
						}

						done = true

						obs.sendComplete()
					})
				},
			})

			subs = append(subs, sub)
		}

		return newSubscription(func() {
			for _, sub := range subs {
				sub()
			}
		})
	}
}

// Combine2 is like Combine, for two streams of different types.
func Combine2[A any, B any](a Stream[A], b Stream[B]) Stream[Pair[A, B]] {
	return Map(func(values []any) Pair[A, B] {
		return Pair[A, B]{
			First:  as[A](values[0]),
			Second: as[B](values[1]),
		}
	})(Combine(toAny(a), toAny(b)))
}

// Combine3 is like Combine, for three streams of different types.
func Combine3[A any, B any, C any](a Stream[A], b Stream[B], c Stream[C]) Stream[Triple[A, B, C]] {
	return Map(func(values []any) Triple[A, B, C] {
		return Triple[A, B, C]{
			First:  as[A](values[0]),
			Second: as[B](values[1]),
			Third:  as[C](values[2]),
		}
	})(Combine(toAny(a), toAny(b), toAny(c)))
}

func toAny[T any](stream Stream[T]) Stream[any] {
	return Map(func(value T) any {
		return value
	})(stream)
}

// as converts value back to T. A nil interface value converts to the zero T.
func as[T any](value any) T {
	t, _ := value.(T)
	return t
}
