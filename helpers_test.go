package rx

import (
	"errors"
	"sync"
	"time"
)

var errBoom = errors.New("boom")

// subject is a stream whose values are pushed by the test.
// Only the latest subscription receives values.
type subject[T any] struct {
	mu         sync.Mutex
	obs        *Observer[T]
	subscribed int
	cancelled  int
}

func (s *subject[T]) stream() Stream[T] {
	return func(obs Observer[T]) Subscription {
		s.mu.Lock()
		s.obs = &obs
		s.subscribed++
		s.mu.Unlock()

		return func() {
			s.mu.Lock()
			s.cancelled++
			s.mu.Unlock()
		}
	}
}

func (s *subject[T]) observer() Observer[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.obs
}

func (s *subject[T]) next(value T) {
	s.observer().Next(value)
}

func (s *subject[T]) complete() {
	s.observer().sendComplete()
}

func (s *subject[T]) fail(err error) {
	s.observer().sendError(err)
}

func (s *subject[T]) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.subscribed, s.cancelled
}

// recorder records everything delivered to its observer.
type recorder[T any] struct {
	mu        sync.Mutex
	values    []T
	errs      []error
	completed int
	changed   chan struct{}
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{
		changed: make(chan struct{}, 1),
	}
}

func (r *recorder[T]) observer() Observer[T] {
	return Observer[T]{
		Next: func(value T) {
			r.record(func() {
				r.values = append(r.values, value)
			})
		},
		Error: func(err error) {
			r.record(func() {
				r.errs = append(r.errs, err)
			})
		},
		Complete: func() {
			r.record(func() {
				r.completed++
			})
		},
	}
}

func (r *recorder[T]) record(fn func()) {
	r.mu.Lock()
	fn()
	r.mu.Unlock()

	select {
	case r.changed <- struct{}{}:
	default:
	}
}

func (r *recorder[T]) snapshot() ([]T, []error, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values := append([]T{}, r.values...)
	errs := append([]error{}, r.errs...)

	return values, errs, r.completed
}

// waitValues waits until at least num values have been recorded, or the timeout expires.
func (r *recorder[T]) waitValues(num int, timeout time.Duration) []T {
	deadline := time.After(timeout)

	for {
		values, _, _ := r.snapshot()
		if len(values) >= num {
			return values
		}

		select {
		case <-r.changed:
		case <-deadline:
			return values
		}
	}
}

// waitTerminated waits until the recorder has seen an error or a completion, or the timeout expires.
func (r *recorder[T]) waitTerminated(timeout time.Duration) bool {
	deadline := time.After(timeout)

	for {
		_, errs, completed := r.snapshot()
		if len(errs) > 0 || completed > 0 {
			return true
		}

		select {
		case <-r.changed:
		case <-deadline:
			return false
		}
	}
}

// target is an EventTarget that dispatches synchronously.
type target[T any] struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]func(T)
}

func newTarget[T any]() *target[T] {
	return &target[T]{
		listeners: map[string]map[int]func(T){},
	}
}

func (t *target[T]) AddEventListener(name string, fn func(event T)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++

	if t.listeners[name] == nil {
		t.listeners[name] = map[int]func(T){}
	}

	t.listeners[name][id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		delete(t.listeners[name], id)
	}
}

func (t *target[T]) dispatch(name string, event T) {
	t.mu.Lock()
	fns := []func(T){}
	for _, fn := range t.listeners[name] {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(event)
	}
}

func (t *target[T]) count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.listeners[name])
}

// eventually polls cond until it returns true, for up to a second.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)

	for time.Now().Before(deadline) {
		if cond() {
			return true
		}

		time.Sleep(time.Millisecond)
	}

	return cond()
}
