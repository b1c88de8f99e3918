package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-gateway/internal/search"
)

type Config struct {
	APIKey  string
	BaseURL string
	Engine  string
	Timeout time.Duration
}

// Client issues a single bounded GET per search. No retries: a timeout
// or transport error is surfaced immediately as a failure.
type Client struct {
	apiKey  string
	baseURL string
	engine  string
	client  *http.Client
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://serpapi.com"
	}
	if cfg.Engine == "" {
		cfg.Engine = "google"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		engine:  cfg.Engine,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

func (c *Client) Search(ctx context.Context, req search.Request) (search.Document, error) {
	if req.Num == 0 {
		req.Num = 10
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("api_key", c.apiKey)
	params.Set("engine", c.engine)
	params.Set("gl", req.Country)
	params.Set("num", strconv.Itoa(req.Num))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", search.ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", search.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", search.ErrNetwork, err)
	}

	c.logger.Debug("upstream search completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	switch resp.StatusCode {
	case http.StatusOK:
		var doc search.Document
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("%w: unmarshal response: %v", search.ErrUpstream, err)
		}
		return doc, nil

	case http.StatusUnauthorized:
		return nil, search.ErrUnauthorized

	case http.StatusForbidden:
		return nil, search.ErrForbidden

	case http.StatusTooManyRequests:
		return nil, search.ErrRateLimited

	default:
		return nil, fmt.Errorf("%w: status %d", search.ErrUpstream, resp.StatusCode)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
