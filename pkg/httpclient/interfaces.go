package httpclient

import "context"

// Response is the part of an HTTP response the fetch pipeline inspects.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts the GET transport so callers can inject stubs or a different stack.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}
