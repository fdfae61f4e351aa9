package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"

	rx "github.com/deadlyengineer/some-reactive-streams-with-go"
)

const defaultTimeout = 5 * time.Second

// HTTPClient fetches resources from a resource server.
// Concurrent fetches of the same path share one request.
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
	group   singleflight.Group
}

// Option configures an HTTPClient.
type Option func(c *HTTPClient)

// WithTimeout sets the timeout of requests that are not bounded by a context deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.timeout = timeout
	}
}

// WithDial sets the function used to open connections.
func WithDial(dial fasthttp.DialFunc) Option {
	return func(c *HTTPClient) {
		c.client.Dial = dial
	}
}

// NewHTTPClient returns a client for the resource server at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: defaultTimeout,
		client: &fasthttp.Client{
			Name:                "rx-fetch",
			MaxIdleConnDuration: time.Minute,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Fetch implements Client.
// The resource is expected as a JSON object with "title" and "body" fields.
func (c *HTTPClient) Fetch(ctx context.Context, key string) rx.Future[Resource] {
	return rx.Async(func() (Resource, error) {
		body, err := c.Get(ctx, "/resources/"+url.PathEscape(key))
		if err != nil {
			return Resource{}, fmt.Errorf("fetch %s: %w", key, err)
		}

		if !gjson.ValidBytes(body) {
			return Resource{}, fmt.Errorf("fetch %s: invalid JSON document", key)
		}

		doc := gjson.ParseBytes(body)

		return Resource{
			Key:   key,
			Title: doc.Get("title").String(),
			Body:  doc.Get("body").String(),
			Raw:   body,
		}, nil
	})
}

// Get returns the body of the document at path.
// It returns ErrNotFound if the server responds with 404.
func (c *HTTPClient) Get(ctx context.Context, path string) ([]byte, error) {
	v, err, shared := c.group.Do(path, func() (any, error) {
		return c.get(ctx, path)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		fiberlog.Debugf("fetch: shared response for %s", path)
	}

	return v.([]byte), nil
}

func (c *HTTPClient) get(ctx context.Context, path string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)

	start := time.Now()

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}

	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}

	fiberlog.Debugf("fetch: GET %s -> %d (%s)", path, resp.StatusCode(), time.Since(start))

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound:
		return nil, ErrNotFound

	case status != fasthttp.StatusOK:
		return nil, fmt.Errorf("request %s: unexpected status %d", path, status)
	}

	// the response body is only valid until resp is released
	return append([]byte(nil), resp.Body()...), nil
}
