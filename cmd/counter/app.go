package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"golang.org/x/text/language"

	rx "github.com/deadlyengineer/some-reactive-streams-with-go"
	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/events"
	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/fetch"
	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/i18n"
)

// names of the events dispatched by commands
const (
	eventClick  = "click"
	eventLocale = "locale"
	eventFetch  = "fetch"
)

// app wires commands, a ticker, translations and fetches into a single stream of output lines.
type app struct {
	tick       time.Duration
	events     *events.Emitter[string]
	translator *i18n.Translator
	client     fetch.Client
}

// counter counts clicks and ticks.
func (a *app) counter() rx.Stream[int] {
	clicks := rx.Map(func(string) int { return 1 })(a.events.On(eventClick))
	ticks := rx.Map(func(int) int { return 1 })(rx.Interval(a.tick))

	return rx.Pipe1(
		rx.Merge(clicks, ticks),
		rx.Scan(func(acc int, n int) int {
			return acc + n
		}, 0),
	)
}

// locale produces the active locale, each time it changes.
// The first value is produced once the translator is ready.
func (a *app) locale(ctx context.Context) rx.Stream[language.Tag] {
	return rx.Pipe3(
		a.events.On(eventLocale),
		rx.Filter(func(name string) bool {
			if _, err := a.translator.Match(name); err != nil {
				fiberlog.Warnf("counter: %v", err)
				return false
			}

			return true
		}),
		rx.StartWith(""),
		rx.SwitchMap(func(name string) rx.Stream[language.Tag] {
			if name == "" {
				return logErrors(rx.FromFuture(a.translator.Init(ctx, nil)))
			}

			tag, _ := a.translator.Match(name)

			if a.translator.HasBundle(tag) {
				return logErrors(rx.FromFuture(a.translator.Switch(ctx, tag)))
			}

			return logErrors(rx.FromFuture(a.translator.AddBundleAndSwitch(ctx, tag)))
		}),
	)
}

// status renders the counter in the active locale.
func (a *app) status(ctx context.Context) rx.Stream[string] {
	return rx.Pipe1(
		rx.Combine2(a.counter(), a.locale(ctx)),
		rx.Map(func(p rx.Pair[int, language.Tag]) string {
			return fmt.Sprintf("[%s] %s", p.Second, a.translator.T("counter.label", p.First))
		}),
	)
}

// fetches renders the latest fetch. A new fetch abandons the previous one.
func (a *app) fetches(ctx context.Context) rx.Stream[string] {
	return rx.Pipe1(
		a.events.On(eventFetch),
		rx.SwitchMap(func(key string) rx.Stream[string] {
			result := rx.Pipe1(
				fetch.Stream(ctx, a.client, key),
				rx.Map(func(r fetch.Resource) string {
					return a.translator.T("fetch.done", r.Title, r.Body)
				}),
			)

			return rx.Pipe1(
				recoverWith(result, func(err error) string {
					return a.translator.T("fetch.failed", key, err)
				}),
				rx.StartWith(a.translator.T("fetch.loading", key)),
			)
		}),
	)
}

// run subscribes out to the output lines, and returns the subscription.
func (a *app) run(ctx context.Context, out func(line string)) rx.Subscription {
	return rx.Pipe1(
		rx.Merge(a.status(ctx), a.fetches(ctx)),
		rx.Subscribe(rx.Observer[string]{
			Next: out,
			Error: func(err error) {
				fiberlog.Errorf("counter: %v", err)
			},
			Complete: func() {
				fiberlog.Debug("counter: output completed")
			},
		}),
	)
}

// dispatch turns a command line into an event. It returns false if the command is quit.
func (a *app) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch cmd, args := fields[0], fields[1:]; {
	case cmd == "quit":
		return false

	case cmd == eventClick && len(args) == 0:
		a.events.Dispatch(eventClick, "")

	case cmd == eventLocale && len(args) == 1:
		a.events.Dispatch(eventLocale, args[0])

	case cmd == eventFetch && len(args) == 1:
		a.events.Dispatch(eventFetch, args[0])

	default:
		fiberlog.Warnf("counter: unknown command %q (want click, locale <tag>, fetch <key> or quit)", line)
	}

	return true
}

// listeners returns the number of listeners registered for commands.
func (a *app) listeners() int {
	return a.events.ListenerCount(eventClick) + a.events.ListenerCount(eventLocale) + a.events.ListenerCount(eventFetch)
}

// logErrors returns a stream that produces the values of stream, and completes instead of failing.
func logErrors[T any](stream rx.Stream[T]) rx.Stream[T] {
	return func(obs rx.Observer[T]) rx.Subscription {
		return stream(rx.Observer[T]{
			Next: obs.Next,
			Error: func(err error) {
				fiberlog.Warnf("counter: %v", err)

				if obs.Complete != nil {
					obs.Complete()
				}
			},
			Complete: obs.Complete,
		})
	}
}

// recoverWith returns a stream that produces the values of stream. If stream fails,
// it produces the result of calling handle with the error, and completes.
func recoverWith[T any](stream rx.Stream[T], handle func(err error) T) rx.Stream[T] {
	return func(obs rx.Observer[T]) rx.Subscription {
		return stream(rx.Observer[T]{
			Next: obs.Next,
			Error: func(err error) {
				obs.Next(handle(err))

				if obs.Complete != nil {
					obs.Complete()
				}
			},
			Complete: obs.Complete,
		})
	}
}
