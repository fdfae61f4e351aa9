package fetch

import (
	"context"
	"sync"
	"time"

	rx "github.com/deadlyengineer/some-reactive-streams-with-go"
)

// Simulated is a Client that serves resources from memory, after a fixed latency.
type Simulated struct {
	Latency time.Duration

	mu        sync.Mutex
	resources map[string]Resource
	failures  map[string]error
	fetches   int
}

// NewSimulated returns a simulated client serving resources.
func NewSimulated(latency time.Duration, resources ...Resource) *Simulated {
	s := &Simulated{
		Latency:   latency,
		resources: map[string]Resource{},
		failures:  map[string]error{},
	}

	for _, r := range resources {
		s.resources[r.Key] = r
	}

	return s
}

// FailNext makes the next fetch of key fail with err.
func (s *Simulated) FailNext(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[key] = err
}

// Fetches returns the number of fetches started so far.
func (s *Simulated) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fetches
}

// Fetch implements Client.
func (s *Simulated) Fetch(ctx context.Context, key string) rx.Future[Resource] {
	s.mu.Lock()
	s.fetches++
	s.mu.Unlock()

	return rx.Async(func() (Resource, error) {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()

		select {
		case <-timer.C:

		case <-ctx.Done():
			return Resource{}, context.Cause(ctx)
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		if err, ok := s.failures[key]; ok {
			delete(s.failures, key)
			return Resource{}, err
		}

		r, ok := s.resources[key]
		if !ok {
			return Resource{}, ErrNotFound
		}

		return r, nil
	})
}
