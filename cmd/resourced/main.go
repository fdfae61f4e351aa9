// Command resourced serves the resources fetched by the counter demo, and its translation bundles.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"

	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/config"
	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/fetch"
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

	resources, err := fetch.LoadResources(cfg.Resources)
	if err != nil {
		fiberlog.Fatalf("%v", err)
	}

	app := newServer(resources, cfg.BundleDir).app()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)

	go func() {
		serverErr <- app.Listen(cfg.Listen)
	}()

	fiberlog.Infof("resourced: serving %d resources and %s on %s", len(resources), cfg.BundleDir, cfg.Listen)

	select {
	case err := <-serverErr:
		fiberlog.Fatalf("server error: %v", err)

	case <-ctx.Done():
		fiberlog.Info("resourced: shutting down")
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		fiberlog.Errorf("shutdown: %v", err)
	}
}
