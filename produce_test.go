package rx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestOf(t *testing.T) {
	is := is.New(t)

	rec := newRecorder[int]()

	Of(1, 2, 3)(rec.observer())

	values, errs, completed := rec.snapshot()
	is.Equal(values, []int{1, 2, 3})
	is.Equal(len(errs), 0)
	is.Equal(completed, 1)
}

func TestFromSlice(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	result, err := ReduceSlice(ctx, FromSlice([]int{1, 2}, []int{3, 4, 5}))

	is.NoErr(err)
	is.Equal(result, []int{1, 2, 3, 4, 5})
}

func TestEmpty(t *testing.T) {
	is := is.New(t)

	rec := newRecorder[int]()

	Empty[int]()(rec.observer())

	values, _, completed := rec.snapshot()
	is.Equal(len(values), 0)
	is.Equal(completed, 1)
}

func TestNever(t *testing.T) {
	is := is.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := ReduceSlice(ctx, Never[int]())

	is.True(errors.Is(err, context.DeadlineExceeded))
}

func TestThrow(t *testing.T) {
	is := is.New(t)

	rec := newRecorder[int]()

	Throw[int](errBoom)(rec.observer())

	_, errs, completed := rec.snapshot()
	is.Equal(errs, []error{errBoom})
	is.Equal(completed, 0)
}

func TestFromChannel(t *testing.T) {
	is := is.New(t)

	ctx := context.Background()

	ch := make(chan int)

	go func() {
		defer close(ch)

		for i := 1; i <= 5; i++ {
			ch <- i
		}
	}()

	result, err := ReduceSlice(ctx, FromChannel(ch))

	is.NoErr(err)
	is.Equal(result, []int{1, 2, 3, 4, 5})
}

func TestFromChannel_Cancel(t *testing.T) {
	is := is.New(t)

	ch := make(chan int)
	defer close(ch)

	rec := newRecorder[int]()

	sub := FromChannel(ch)(rec.observer())

	ch <- 1

	rec.waitValues(1, time.Second)

	sub()
	sub()

	is.True(rec.waitTerminated(time.Second))

	values, _, completed := rec.snapshot()
	is.Equal(values, []int{1})
	is.Equal(completed, 1)
}

func TestInterval(t *testing.T) {
	is := is.New(t)

	rec := newRecorder[int]()

	sub := Interval(5 * time.Millisecond)(rec.observer())

	values := rec.waitValues(3, time.Second)
	is.True(len(values) >= 3)
	is.Equal(values[:3], []int{0, 1, 2})

	_, _, completed := rec.snapshot()
	is.Equal(completed, 0) // never completes on its own

	sub()

	is.True(rec.waitTerminated(time.Second)) // completes on cancelation

	values, _, _ = rec.snapshot()

	time.Sleep(20 * time.Millisecond)

	after, errs, completed := rec.snapshot()
	is.Equal(after, values) // no values after cancelation
	is.Equal(len(errs), 0)
	is.Equal(completed, 1)

	sub()

	_, _, completed = rec.snapshot()
	is.Equal(completed, 1) // canceling twice completes once
}

func TestInterval_Spacing(t *testing.T) {
	is := is.New(t)

	period := 10 * time.Millisecond

	times := []time.Time{}

	start := time.Now()

	_, err := ReduceSlice(context.Background(), Pipe(
		Interval(period),
		Tap(func(int) {
			times = append(times, time.Now())
		}),
		Take[int](3),
	))

	is.NoErr(err)
	is.Equal(len(times), 3)
	is.True(times[0].Sub(start) >= period/2)
	is.True(times[2].Sub(start) >= 2*period)
}

func TestInterval_CancelFromNext(t *testing.T) {
	is := is.New(t)

	rec := newRecorder[int]()
	obs := rec.observer()

	subCh := make(chan Subscription, 1)

	sub := Interval(time.Millisecond)(Observer[int]{
		Next: func(value int) {
			obs.Next(value)
			(<-subCh)()
		},
		Complete: obs.Complete,
	})

	subCh <- sub

	is.True(rec.waitTerminated(time.Second))

	values, _, completed := rec.snapshot()
	is.Equal(values, []int{0})
	is.Equal(completed, 1)
}

func TestInterval_NonPositivePeriod(t *testing.T) {
	for _, period := range []time.Duration{0, -time.Second} {
		t.Run(period.String(), func(t *testing.T) {
			is := is.New(t)

			rec := newRecorder[int]()

			sub := Interval(period)(rec.observer())

			values := rec.waitValues(2, time.Second)
			sub()

			is.True(len(values) >= 2)
			is.Equal(values[:2], []int{0, 1})

			is.True(rec.waitTerminated(time.Second))

			_, errs, completed := rec.snapshot()
			is.Equal(len(errs), 0)
			is.Equal(completed, 1)
		})
	}
}

func TestInterval_CancelWhileDelivering(t *testing.T) {
	is := is.New(t)

	rec := newRecorder[int]()
	obs := rec.observer()

	entered := make(chan struct{})
	release := make(chan struct{})

	sub := Interval(time.Millisecond)(Observer[int]{
		Next: func(value int) {
			obs.Next(value)

			if value == 0 {
				close(entered)
				<-release
			}
		},
		Complete: obs.Complete,
	})

	<-entered

	// the ticker goroutine is still inside Next, so the completion is queued behind it
	sub()

	_, _, completed := rec.snapshot()
	is.Equal(completed, 0)

	close(release)

	is.True(rec.waitTerminated(time.Second))
	time.Sleep(10 * time.Millisecond)

	values, errs, completed := rec.snapshot()
	is.Equal(values, []int{0})
	is.Equal(len(errs), 0)
	is.Equal(completed, 1)
}

func TestFromEvent(t *testing.T) {
	is := is.New(t)

	clicks := newTarget[string]()

	rec := newRecorder[string]()

	sub := FromEvent[string](clicks, "click")(rec.observer())

	is.Equal(clicks.count("click"), 1)

	clicks.dispatch("click", "a")
	clicks.dispatch("other", "x")
	clicks.dispatch("click", "b")

	sub()

	is.Equal(clicks.count("click"), 0) // listener removed

	clicks.dispatch("click", "c")

	values, errs, completed := rec.snapshot()
	is.Equal(values, []string{"a", "b"})
	is.Equal(len(errs), 0)
	is.Equal(completed, 1)

	sub()

	_, _, completed = rec.snapshot()
	is.Equal(completed, 1)
}

func TestFromEvent_Cold(t *testing.T) {
	is := is.New(t)

	clicks := newTarget[int]()
	stream := FromEvent[int](clicks, "click")

	rec1 := newRecorder[int]()
	rec2 := newRecorder[int]()

	sub1 := stream(rec1.observer())
	sub2 := stream(rec2.observer())

	is.Equal(clicks.count("click"), 2)

	clicks.dispatch("click", 1)

	sub1()

	clicks.dispatch("click", 2)

	sub2()

	values1, _, _ := rec1.snapshot()
	values2, _, _ := rec2.snapshot()

	is.Equal(values1, []int{1})
	is.Equal(values2, []int{1, 2})
	is.Equal(clicks.count("click"), 0)
}

func TestFromEvent_CancelWhileDelivering(t *testing.T) {
	is := is.New(t)

	clicks := newTarget[int]()

	rec := newRecorder[int]()
	obs := rec.observer()

	entered := make(chan struct{})
	release := make(chan struct{})

	sub := FromEvent[int](clicks, "click")(Observer[int]{
		Next: func(value int) {
			obs.Next(value)

			close(entered)
			<-release
		},
		Complete: obs.Complete,
	})

	dispatched := make(chan struct{})

	go func() {
		defer close(dispatched)
		clicks.dispatch("click", 1)
	}()

	<-entered

	sub()

	is.Equal(clicks.count("click"), 1) // removed by the dispatching goroutine once Next returns

	close(release)
	<-dispatched

	is.True(rec.waitTerminated(time.Second))

	clicks.dispatch("click", 2)

	values, errs, completed := rec.snapshot()
	is.Equal(values, []int{1})
	is.Equal(len(errs), 0)
	is.Equal(completed, 1)
	is.Equal(clicks.count("click"), 0)
}

func TestFromFuture(t *testing.T) {
	is := is.New(t)

	promise := NewPromise[int]()

	rec := newRecorder[int]()

	FromFuture[int](promise)(rec.observer())

	values, _, _ := rec.snapshot()
	is.Equal(len(values), 0)

	promise.Resolve(42)
	promise.Resolve(43)

	values, errs, completed := rec.snapshot()
	is.Equal(values, []int{42})
	is.Equal(len(errs), 0)
	is.Equal(completed, 1)
}

func TestFromFuture_Reject(t *testing.T) {
	is := is.New(t)

	rec := newRecorder[int]()

	FromFuture[int](Rejected[int](errBoom))(rec.observer())

	values, errs, completed := rec.snapshot()
	is.Equal(len(values), 0)
	is.Equal(errs, []error{errBoom})
	is.Equal(completed, 0)
}

func TestFromFuture_Cancel(t *testing.T) {
	is := is.New(t)

	promise := NewPromise[int]()

	rec := newRecorder[int]()

	sub := FromFuture[int](promise)(rec.observer())

	sub()

	promise.Resolve(42)

	values, _, completed := rec.snapshot()
	is.Equal(len(values), 0)
	is.Equal(completed, 0)
}

func TestFromFuture_Async(t *testing.T) {
	is := is.New(t)

	result, err := ReduceSlice(context.Background(), FromFuture[string](Async(func() (string, error) {
		time.Sleep(5 * time.Millisecond)
		return "done", nil
	})))

	is.NoErr(err)
	is.Equal(result, []string{"done"})
}
