package events

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	rx "github.com/deadlyengineer/some-reactive-streams-with-go"
)

func TestEmitter_Dispatch(t *testing.T) {
	is := is.New(t)

	emitter := Emitter[string]{}

	got := []string{}

	remove := emitter.AddEventListener("click", func(event string) {
		got = append(got, "first "+event)
	})

	emitter.AddEventListener("click", func(event string) {
		got = append(got, "second "+event)
	})

	is.Equal(emitter.Dispatch("click", "a"), 2)
	is.Equal(emitter.Dispatch("other", "x"), 0)

	remove()
	remove()

	is.Equal(emitter.ListenerCount("click"), 1)
	is.Equal(emitter.Dispatch("click", "b"), 1)

	is.Equal(got, []string{"first a", "second a", "second b"})
}

func TestEmitter_On(t *testing.T) {
	is := is.New(t)

	emitter := Emitter[int]{}

	values := []int{}
	completed := false

	sub := rx.Pipe2(
		emitter.On("tick"),
		rx.Map(func(value int) int {
			return value * value
		}),
		rx.Subscribe(rx.Observer[int]{
			Next: func(value int) {
				values = append(values, value)
			},
			Complete: func() {
				completed = true
			},
		}),
	)

	emitter.Dispatch("tick", 2)
	emitter.Dispatch("tick", 3)

	sub()

	emitter.Dispatch("tick", 4)

	is.Equal(values, []int{4, 9})
	is.True(completed)
	is.Equal(emitter.ListenerCount("tick"), 0)
}

func TestEmitter_Take(t *testing.T) {
	is := is.New(t)

	emitter := Emitter[string]{}

	done := make(chan []string)

	go func() {
		result, _ := rx.ReduceSlice(context.Background(), rx.Take[string](2)(emitter.On("key")))
		done <- result
	}()

	for emitter.ListenerCount("key") == 0 {
		time.Sleep(time.Millisecond)
	}

	emitter.Dispatch("key", "a")
	emitter.Dispatch("key", "b")

	is.Equal(<-done, []string{"a", "b"})
	is.Equal(emitter.ListenerCount("key"), 0) // Take removed the listener
}
