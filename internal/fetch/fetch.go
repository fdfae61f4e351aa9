// Package fetch loads keyed resources over the network, as futures that can be turned into streams.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	rx "github.com/deadlyengineer/some-reactive-streams-with-go"
)

// ErrNotFound is returned when no resource exists for a key.
var ErrNotFound = errors.New("resource not found")

// Resource is a structured document fetched for a key.
type Resource struct {
	Key   string `yaml:"key" json:"key"`
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`

	// Raw is the document as it was received.
	Raw []byte `yaml:"-" json:"-"`
}

// LoadResources reads a YAML list of resources from path.
func LoadResources(path string) ([]Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}

	resources := []Resource{}

	if err := yaml.Unmarshal(data, &resources); err != nil {
		return nil, fmt.Errorf("load resources %s: %w", path, err)
	}

	for i, r := range resources {
		if r.Key == "" {
			return nil, fmt.Errorf("load resources %s: resource %d has no key", path, i)
		}
	}

	return resources, nil
}

// Client fetches resources.
type Client interface {
	// Fetch returns a future that resolves to the resource for key, or is rejected with an error.
	Fetch(ctx context.Context, key string) rx.Future[Resource]
}

// Stream returns a stream that fetches the resource for key when subscribed to.
// Every subscription starts a new fetch.
func Stream(ctx context.Context, client Client, key string) rx.Stream[Resource] {
	return func(obs rx.Observer[Resource]) rx.Subscription {
		return rx.FromFuture(client.Fetch(ctx, key))(obs)
	}
}
