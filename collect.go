package rx

import (
	"context"
	"fmt"
)

// MapperFunc maps item to type U.
// The index is the 0-based index of item, in the order produced by the upstream stream.
type MapperFunc[T any, U any] func(ctx context.Context, cancel context.CancelCauseFunc, item T, index uint64) U

// A DuplicateKeyError is used to short-circuit a stream by canceling its context to indicate that
// a key could not be added to a map because it already exists.
type DuplicateKeyError[T any, K comparable] struct {
	// Element is the value produced by the upstream stream that caused the error.
	Element T

	// Index is the position of Element in the stream.
	Index uint64

	// Key is the key that was already in the map.
	Key K
}

// Seen is the accumulator of CollectFirst and CollectLast.
type Seen[T any] struct {
	// Value is the value kept by the accumulator. It is the zero value until Count > 0.
	Value T

	// Count is the number of values produced by the stream up to and including Value.
	Count uint64
}

// FuncMapper returns a mapper that calls mapp for each item, ignoring the index.
func FuncMapper[T any, U any](mapp Function[T, U]) MapperFunc[T, U] {
	return func(_ context.Context, _ context.CancelCauseFunc, item T, _ uint64) U {
		return mapp(item)
	}
}

// CollectFirst returns an accumulator that keeps the first value, then cancels the stream using ErrShortCircuit.
func CollectFirst[T any]() AccumulatorFunc[T, Seen[T]] {
	return func(_ context.Context, cancel context.CancelCauseFunc, value T, index uint64, _ Seen[T]) Seen[T] {
		cancel(ErrShortCircuit)

		return Seen[T]{Value: value, Count: index + 1}
	}
}

// CollectLast returns an accumulator that keeps the latest value, and the number of values so far.
func CollectLast[T any]() AccumulatorFunc[T, Seen[T]] {
	return func(_ context.Context, _ context.CancelCauseFunc, value T, index uint64, _ Seen[T]) Seen[T] {
		return Seen[T]{Value: value, Count: index + 1}
	}
}

// CollectSlice returns an accumulator that appends values to a slice.
// The slice is allocated on the first value if acc is nil.
func CollectSlice[T any]() AccumulatorFunc[T, []T] {
	return func(_ context.Context, _ context.CancelCauseFunc, value T, index uint64, acc []T) []T {
		if acc == nil {
			acc = make([]T, 0, index+1)
		}

		return append(acc, value)
	}
}

// CollectMap returns an accumulator that collects values into a map, using keyOf and valueOf.
// An existing map entry for the same key is overwritten. The map is allocated on the first value if acc is nil.
func CollectMap[T any, K comparable, V any](keyOf MapperFunc[T, K], valueOf MapperFunc[T, V]) AccumulatorFunc[T, map[K]V] {
	return func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64, acc map[K]V) map[K]V {
		if acc == nil {
			acc = map[K]V{}
		}

		acc[keyOf(ctx, cancel, value, index)] = valueOf(ctx, cancel, value, index)

		return acc
	}
}

// CollectMapNoDuplicateKeys is like CollectMap, but if a key is already in the map, the stream's context is
// canceled with a DuplicateKeyError.
func CollectMapNoDuplicateKeys[T any, K comparable, V any](keyOf MapperFunc[T, K], valueOf MapperFunc[T, V]) AccumulatorFunc[T, map[K]V] {
	return func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64, acc map[K]V) map[K]V {
		if acc == nil {
			acc = map[K]V{}
		}

		key := keyOf(ctx, cancel, value, index)

		if _, dup := acc[key]; dup {
			cancel(&DuplicateKeyError[T, K]{Element: value, Index: index, Key: key})
			return acc
		}

		acc[key] = valueOf(ctx, cancel, value, index)

		return acc
	}
}

// CollectGroup returns an accumulator that groups values into slices, according to keyOf.
// Each slice keeps the order in which the stream produced its values.
func CollectGroup[T any, K comparable, V any](keyOf MapperFunc[T, K], valueOf MapperFunc[T, V]) AccumulatorFunc[T, map[K][]V] {
	return func(ctx context.Context, cancel context.CancelCauseFunc, value T, index uint64, acc map[K][]V) map[K][]V {
		if acc == nil {
			acc = map[K][]V{}
		}

		key := keyOf(ctx, cancel, value, index)
		acc[key] = append(acc[key], valueOf(ctx, cancel, value, index))

		return acc
	}
}

// CollectPartition returns an accumulator that groups values into two slices, according to pred.
func CollectPartition[T any, V any](pred PredicateFunc[T], valueOf MapperFunc[T, V]) AccumulatorFunc[T, map[bool][]V] {
	return CollectGroup(MapperFunc[T, bool](pred), valueOf)
}

// Error implements error.
func (e *DuplicateKeyError[T, K]) Error() string {
	return fmt.Sprintf("duplicate key %v at index %d", e.Key, e.Index)
}
