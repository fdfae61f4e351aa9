// Package events provides a named-event dispatcher that can be observed as a stream.
package events

import (
	"sync"

	rx "github.com/deadlyengineer/some-reactive-streams-with-go"
)

// Emitter dispatches named events to listeners. It implements rx.EventTarget.
// The zero value is ready to use.
type Emitter[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[string][]listener[T]
}

type listener[T any] struct {
	id uint64
	fn func(event T)
}

var _ rx.EventTarget[string] = &Emitter[string]{}

// AddEventListener implements rx.EventTarget.
func (e *Emitter[T]) AddEventListener(name string, fn func(event T)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = map[string][]listener[T]{}
	}

	id := e.nextID
	e.nextID++

	e.listeners[name] = append(e.listeners[name], listener[T]{
		id: id,
		fn: fn,
	})

	return func() {
		e.remove(name, id)
	}
}

// Dispatch calls every listener of name with event, in registration order, and returns the number of listeners called.
// Listeners added or removed while dispatching take effect for the next event.
func (e *Emitter[T]) Dispatch(name string, event T) int {
	e.mu.Lock()
	ls := append([]listener[T]{}, e.listeners[name]...)
	e.mu.Unlock()

	for _, l := range ls {
		l.fn(event)
	}

	return len(ls)
}

// ListenerCount returns the number of listeners registered for name.
func (e *Emitter[T]) ListenerCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.listeners[name])
}

// On returns a stream of the events called name.
func (e *Emitter[T]) On(name string) rx.Stream[T] {
	return rx.FromEvent[T](e, name)
}

func (e *Emitter[T]) remove(name string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls := e.listeners[name]

	for i, l := range ls {
		if l.id != id {
			continue
		}

		e.listeners[name] = append(ls[:i:i], ls[i+1:]...)

		break
	}

	if len(e.listeners[name]) == 0 {
		delete(e.listeners, name)
	}
}
