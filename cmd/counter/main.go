// Command counter is an interactive demo of composed streams.
//
// It reads commands from standard input:
//
//	click          increments the counter
//	locale <tag>   switches the display language
//	fetch <key>    fetches a resource, abandoning the previous fetch
//	quit           cancels every stream and exits
//
// The counter also increments on every tick.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/config"
	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/events"
	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/fetch"
	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/i18n"
)

func main() {
	config.LoadEnvFiles(".env.local", ".env")

	path := os.Getenv("RX_CONFIG")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		fiberlog.Fatalf("load config: %v", err)
	}

	level, _ := cfg.Level()
	fiberlog.SetLevel(level)

	a, err := newApp(cfg)
	if err != nil {
		fiberlog.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sub := a.run(ctx, func(line string) {
		fmt.Println(line)
	})

	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

loop:
	for {
		select {
		case line, ok := <-lines:
			if !ok || !a.dispatch(line) {
				break loop
			}

		case <-ctx.Done():
			break loop
		}
	}

	sub()

	fiberlog.Infof("counter: stopped, %d listeners left", a.listeners())
}

func newApp(cfg *config.Config) (*app, error) {
	tags, err := cfg.Tags()
	if err != nil {
		return nil, err
	}

	var (
		client fetch.Client
		loader i18n.Loader = i18n.FileLoader{Dir: cfg.BundleDir}
	)

	if cfg.Simulate {
		resources, err := fetch.LoadResources(cfg.Resources)
		if err != nil {
			return nil, err
		}

		client = fetch.NewSimulated(cfg.Latency, resources...)
	} else {
		httpClient := fetch.NewHTTPClient(cfg.ResourceURL)

		client = httpClient
		loader = i18n.HTTPLoader{Client: httpClient}
	}

	translator, err := i18n.NewTranslator(loader, tags, cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	return &app{
		tick:       cfg.Tick,
		events:     &events.Emitter[string]{},
		translator: translator,
		client:     client,
	}, nil
}
