package i18n

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"

	"github.com/deadlyengineer/some-reactive-streams-with-go/internal/fetch"
)

// Loader loads the bundle of a locale.
type Loader interface {
	Load(ctx context.Context, tag language.Tag) (Bundle, error)
}

// LoaderFunc is a function that implements Loader.
type LoaderFunc func(ctx context.Context, tag language.Tag) (Bundle, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, tag language.Tag) (Bundle, error) {
	return f(ctx, tag)
}

// FileLoader loads bundles from <Dir>/<locale>.yaml.
type FileLoader struct {
	Dir string
}

// Load implements Loader.
func (l FileLoader) Load(_ context.Context, tag language.Tag) (Bundle, error) {
	path := filepath.Join(l.Dir, tag.String()+".yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", tag, ErrUnknownLocale)
		}

		return nil, fmt.Errorf("load %s: %w", tag, err)
	}

	return ParseBundle(data)
}

// HTTPLoader loads bundles from the /locales endpoint of a resource server.
type HTTPLoader struct {
	Client *fetch.HTTPClient
}

// Load implements Loader.
func (l HTTPLoader) Load(ctx context.Context, tag language.Tag) (Bundle, error) {
	data, err := l.Client.Get(ctx, "/locales/"+tag.String())
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			return nil, fmt.Errorf("load %s: %w", tag, ErrUnknownLocale)
		}

		return nil, fmt.Errorf("load %s: %w", tag, err)
	}

	return ParseBundle(data)
}

// MemoryLoader serves bundles from memory.
type MemoryLoader map[string]Bundle

// Load implements Loader.
func (l MemoryLoader) Load(_ context.Context, tag language.Tag) (Bundle, error) {
	bundle, ok := l[tag.String()]
	if !ok {
		return nil, fmt.Errorf("load %s: %w", tag, ErrUnknownLocale)
	}

	return bundle, nil
}
