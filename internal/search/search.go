package search

import (
	"context"
	"errors"
)

var (
	ErrUnauthorized = errors.New("invalid upstream API key")
	ErrForbidden    = errors.New("upstream access denied")
	ErrRateLimited  = errors.New("upstream rate limit exceeded")
	ErrTimeout      = errors.New("upstream request timed out")
	ErrNetwork      = errors.New("network error")
	ErrUpstream     = errors.New("upstream search failed")
)

// Document is the raw upstream JSON, kept loose so the normalizer can
// walk whatever categories the provider returns and the full payload
// can be passed through verbatim.
type Document map[string]any

type Client interface {
	Search(ctx context.Context, req Request) (Document, error)
}

type Request struct {
	Query   string
	Country string
	Num     int
}
