package rx

import (
	"context"
	"errors"
	"sync"
)

// ConsumerFunc consumes value.
// The index is the 0-based index of value, in the order produced by the upstream stream.
type ConsumerFunc[T any] func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64)

// AccumulatorFunc folds value into the accumulator acc, returning acc, or a new accumulator.
// The index is the 0-based index of value, in the order produced by the upstream stream.
type AccumulatorFunc[T any, A any] func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64, acc A) A

// PredicateFunc returns true if value matches a predicate.
// The index is the 0-based index of value, in the order produced by the upstream stream.
type PredicateFunc[T any] func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64) bool

// ErrShortCircuit is a generic error used to short-circuit a stream by canceling its context.
var ErrShortCircuit = errors.New("short circuit")

// ErrNoValue is returned by First and Last if the stream completes without producing a value.
var ErrNoValue = errors.New("no value")

// Subscribe returns a function that subscribes obs to a stream, and returns the subscription.
func Subscribe[T any](obs Observer[T]) func(stream Stream[T]) Subscription {
	return func(stream Stream[T]) Subscription {
		return stream(obs)
	}
}

// Each calls each for each value produced by stream, and blocks until the stream terminates.
// If the stream fails, it returns the stream's error.
// If ctx is done, or each cancels the stream's context, it returns the cause of the cancelation.
// The stream is always canceled before Each returns, and each is never called afterwards.
func Each[T any](ctx context.Context, stream Stream[T], each ConsumerFunc[T]) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		mu        sync.Mutex
		closed    bool
		index     uint64
		streamErr error
	)

	terminated := make(chan struct{})
	terminateOnce := sync.Once{}

	terminate := func(err error) {
		terminateOnce.Do(func() {
			streamErr = err
			close(terminated)
		})
	}

	sub := stream(Observer[T]{
		Next: func(value T) {
			mu.Lock()
			defer mu.Unlock()

			if closed || contextDone(ctx) {
				return
			}

			each(ctx, cancel, value, index)

			index++
		},
		Error: terminate,
		Complete: func() {
			terminate(nil)
		},
	})

	defer sub()

	select {
	case <-terminated:
	case <-ctx.Done():
	}

	mu.Lock()
	closed = true
	mu.Unlock()

	if contextDone(ctx) {
		err := context.Cause(ctx)
		if errors.Is(err, ErrShortCircuit) {
			err = nil
		}

		return err
	}

	return streamErr
}

// Reduce calls reduce for each value produced by stream, folding it into accumulator acc, returning the final accumulator.
// If the stream fails, or reduce cancels the stream's context, it returns the accumulator so far, and the error.
func Reduce[T any, A any](ctx context.Context, stream Stream[T], acc A, reduce AccumulatorFunc[T, A]) (A, error) {
	err := Each(ctx, stream, func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64) {
		acc = reduce(ctx, cancel, value, index, acc)
	})

	return acc, err
}

// ReduceSlice collects all values produced by stream into a slice.
func ReduceSlice[T any](ctx context.Context, stream Stream[T]) ([]T, error) {
	return Reduce(ctx, stream, []T{}, CollectSlice[T]())
}

// AnyMatch returns true as soon as pred returns true for a value produced by stream, that is, a value matches.
// If a value matches, it cancels the stream using ErrShortCircuit.
func AnyMatch[T any](ctx context.Context, stream Stream[T], pred PredicateFunc[T]) (bool, error) {
	anyMatch := false

	err := Each(ctx, stream, func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64) {
		if !pred(ctx, cancel, value, index) {
			return
		}

		anyMatch = true

		cancel(ErrShortCircuit)
	})

	return anyMatch, err
}

// AllMatch returns true if pred returns true for all values produced by stream, that is, all values match.
// If any value does not match, it cancels the stream using ErrShortCircuit.
func AllMatch[T any](ctx context.Context, stream Stream[T], pred PredicateFunc[T]) (bool, error) {
	allMatch := true

	err := Each(ctx, stream, func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64) {
		if pred(ctx, cancel, value, index) {
			return
		}

		allMatch = false

		cancel(ErrShortCircuit)
	})

	return allMatch, err
}

// Count returns the number of values produced by stream.
func Count[T any](ctx context.Context, stream Stream[T]) (uint64, error) {
	last, err := Reduce(ctx, stream, Seen[T]{}, CollectLast[T]())

	return last.Count, err
}

// First returns the first value produced by stream, and cancels it.
// If the stream completes without producing a value, it returns ErrNoValue.
func First[T any](ctx context.Context, stream Stream[T]) (T, error) {
	return seenValue(Reduce(ctx, stream, Seen[T]{}, CollectFirst[T]()))
}

// Last returns the last value produced by stream, once it completes.
// If the stream completes without producing a value, it returns ErrNoValue.
func Last[T any](ctx context.Context, stream Stream[T]) (T, error) {
	return seenValue(Reduce(ctx, stream, Seen[T]{}, CollectLast[T]()))
}

func seenValue[T any](seen Seen[T], err error) (T, error) {
	if err != nil {
		return seen.Value, err
	}

	if seen.Count == 0 {
		return seen.Value, ErrNoValue
	}

	return seen.Value, nil
}
