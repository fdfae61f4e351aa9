package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"

	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/fetch"
)

// server serves resources and translation bundles.
type server struct {
	resources map[string]fetch.Resource
	bundleDir string
}

func newServer(resources []fetch.Resource, bundleDir string) *server {
	s := &server{
		resources: make(map[string]fetch.Resource, len(resources)),
		bundleDir: bundleDir,
	}

	for _, r := range resources {
		s.resources[r.Key] = r
	}

	return s
}

func (s *server) app() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "resourced",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		CaseSensitive:         true,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
		Output: os.Stdout,
	}))

	app.Get("/resources", s.listResources)
	app.Get("/resources/:key", s.getResource)
	app.Get("/locales/:locale", s.getLocale)

	return app
}

func (s *server) listResources(c *fiber.Ctx) error {
	keys := maps.Keys(s.resources)
	slices.Sort(keys)

	return c.JSON(keys)
}

func (s *server) getResource(c *fiber.Ctx) error {
	r, ok := s.resources[c.Params("key")]
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no such resource")
	}

	return c.JSON(r)
}

func (s *server) getLocale(c *fiber.Ctx) error {
	tag, err := language.Parse(c.Params("locale"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid locale")
	}

	// tag.String() is canonical, so it cannot escape bundleDir
	data, err := os.ReadFile(filepath.Join(s.bundleDir, tag.String()+".yaml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fiber.NewError(fiber.StatusNotFound, "no bundle for locale")
		}

		return err
	}

	c.Set(fiber.HeaderContentType, "application/yaml")

	return c.Send(data)
}
