package mock

import (
	"context"
	"sync"

	"github.com/kitbuilder587/osint-gateway/internal/search"
)

// Client is a scripted upstream for tests: returns the configured
// document or error and records every request it sees.
type Client struct {
	mu       sync.Mutex
	Document search.Document
	Err      error
	Requests []search.Request
}

func New() *Client {
	return &Client{}
}

func (c *Client) Search(ctx context.Context, req search.Request) (search.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Requests = append(c.Requests, req)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Document, nil
}

func (c *Client) LastRequest() (search.Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.Requests) == 0 {
		return search.Request{}, false
	}
	return c.Requests[len(c.Requests)-1], true
}
