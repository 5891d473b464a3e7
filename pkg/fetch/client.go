// Package fetch performs a JSON GET and decodes the body into a caller-chosen type,
// mapping snake_case keys onto camelCase fields.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/samvad-hq/jsonfetch/internal/logger"
	"github.com/samvad-hq/jsonfetch/pkg/httpclient"
)

// Client is a stateless fetcher. One instance is meant to be shared by the whole process.
type Client struct {
	transport httpclient.Client
	log       logger.Logger
}

type options struct {
	transport httpclient.Client
	log       logger.Logger
	timeout   time.Duration
	userAgent string
}

// Option configures a Client built by New.
type Option func(*options)

// WithTransport replaces the resty transport, typically with a stub in tests.
func WithTransport(t httpclient.Client) Option {
	return func(o *options) { o.transport = t }
}

// WithLogger sets where failure diagnostics are written. By default they go
// through the package logger once logger.Init has run.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTimeout bounds each request made by the default transport.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithUserAgent sets the User-Agent header of the default transport.
func WithUserAgent(ua string) Option {
	return func(o *options) { o.userAgent = ua }
}

// New builds a Client. Timeout and user agent are ignored when a transport is supplied.
func New(opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.transport == nil {
		o.transport = httpclient.NewRestyClient(httpclient.Options{
			Timeout:   o.timeout,
			UserAgent: o.userAgent,
		})
	}
	if o.log == nil {
		o.log = logger.Global{}
	}
	return &Client{transport: o.transport, log: o.log}
}

var shared = sync.OnceValue(func() *Client { return New() })

// Default returns the process-wide Client, built on first use.
func Default() *Client { return shared() }

// Result carries the outcome of an asynchronous fetch.
type Result[T any] struct {
	Value T
	Err   error
}

// Fetch GETs rawURL and decodes the JSON body into T. A nil c uses Default.
// Every failure is returned as *Error and logged once.
func Fetch[T any](ctx context.Context, c *Client, rawURL string) (T, error) {
	var zero T
	if c == nil {
		c = Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	u, err := parseURL(rawURL)
	if err != nil {
		return zero, c.fail(&Error{Kind: KindInvalidURL, URL: rawURL, Err: err}, "invalid url")
	}

	resp, err := c.transport.Get(ctx, u.String(), nil)
	if err != nil {
		return zero, c.fail(&Error{Kind: KindNoData, Cause: CauseTransport, URL: rawURL, Err: err}, "request failed")
	}
	if resp == nil {
		return zero, c.fail(&Error{Kind: KindNoData, Cause: CauseStatus, URL: rawURL}, "invalid response")
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return zero, c.fail(&Error{Kind: KindNoData, Cause: CauseStatus, URL: rawURL, StatusCode: code}, "invalid response")
	}

	body := resp.Body()
	if len(body) == 0 {
		return zero, c.fail(&Error{Kind: KindNoData, Cause: CauseEmptyBody, URL: rawURL, StatusCode: resp.StatusCode()}, "no data received")
	}

	v, err := decodeBody[T](body)
	if err != nil {
		return zero, c.fail(&Error{Kind: KindDecoding, URL: rawURL, StatusCode: resp.StatusCode(), Err: err}, "decoding error")
	}
	return v, nil
}

// FetchAsync starts Fetch on a new goroutine. The returned channel yields exactly
// one Result and is then closed.
func FetchAsync[T any](ctx context.Context, c *Client, rawURL string) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, err := Fetch[T](ctx, c, rawURL)
		ch <- Result[T]{Value: v, Err: err}
	}()
	return ch
}

// FetchFunc starts Fetch on a new goroutine and calls done exactly once with its outcome.
func FetchFunc[T any](ctx context.Context, c *Client, rawURL string, done func(T, error)) {
	go func() {
		v, err := Fetch[T](ctx, c, rawURL)
		if done != nil {
			done(v, err)
		}
	}()
}

func parseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}
	return u, nil
}

func (c *Client) fail(e *Error, reason string) error {
	fields := map[string]any{
		"kind":   e.Kind.String(),
		"url":    e.URL,
		"reason": reason,
	}
	if e.Cause != CauseNone {
		fields["cause"] = e.Cause.String()
	}
	if e.StatusCode != 0 {
		fields["status_code"] = e.StatusCode
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	c.log.WarnObj("fetch failed", "fetch_error", fields)
	return e
}
