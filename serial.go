package rx

import "sync"

// serializer runs functions one at a time, in the order they were submitted.
//
// The goroutine that finds the serializer idle runs its function, and then keeps draining functions
// submitted in the meantime. Functions submitted by other goroutines, or reentrantly by a running
// function, are queued and the call returns immediately. do never blocks on another function.
type serializer struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

func (s *serializer) do(fn func()) {
	s.mu.Lock()

	s.queue = append(s.queue, fn)

	if s.draining {
		s.mu.Unlock()
		return
	}

	s.draining = true

	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]

		s.mu.Unlock()
		s.run(next)
		s.mu.Lock()
	}

	s.queue = nil
	s.draining = false

	s.mu.Unlock()
}

// run calls fn. If fn panics, the serializer is reset so that later functions still run.
func (s *serializer) run(fn func()) {
	ok := false

	defer func() {
		if ok {
			return
		}

		s.mu.Lock()
		s.queue = nil
		s.draining = false
		s.mu.Unlock()
	}()

	fn()

	ok = true
}
