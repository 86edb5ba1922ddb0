// Package feargreed reads the crypto fear and greed index from alternative.me.
package feargreed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	simplejson "github.com/bitly/go-simplejson"

	"github.com/devenn05/Crypto-signal-check/internal/adapters/breaker"
	"github.com/devenn05/Crypto-signal-check/internal/ports"
)

// DefaultURL is the public fear and greed endpoint.
const DefaultURL = "https://api.alternative.me/fng/?limit=1"

// Config holds configuration for the sentiment client.
type Config struct {
	URL     string
	Timeout time.Duration
	Breaker *breaker.Breaker
	Logger  ports.Logger
}

// Client implements ports.SentimentProvider.
type Client struct {
	url     string
	http    *http.Client
	breaker *breaker.Breaker
	logger  ports.Logger
}

// New creates a fear and greed client.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for fear and greed client")
	}
	if cfg.Breaker == nil {
		return nil, fmt.Errorf("circuit breaker is required for fear and greed client")
	}
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		url:     cfg.URL,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: cfg.Breaker,
		logger:  cfg.Logger,
	}, nil
}

// GetFearGreedIndex returns the latest index value in 0..100.
func (c *Client) GetFearGreedIndex(ctx context.Context) (int, error) {
	var index int
	err := c.breaker.Execute(func() error {
		v, err := c.fetch(ctx)
		index = v
		return err
	})
	if err != nil {
		c.logger.Warn(ctx, "Fear and greed index unavailable", map[string]interface{}{"error": err.Error()})
		return 0, fmt.Errorf("GetFearGreedIndex failed: %w: %w", ports.ErrSentimentUnavailable, err)
	}
	return index, nil
}

func (c *Client) fetch(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseIndex(body)
}

// parseIndex extracts data[0].value, which the API encodes as a string.
func parseIndex(body []byte) (int, error) {
	js, err := simplejson.NewJson(body)
	if err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	raw, err := js.Get("data").GetIndex(0).Get("value").String()
	if err != nil {
		return 0, fmt.Errorf("response has no index value: %w", err)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse index %q: %w", raw, err)
	}
	if value < 0 || value > 100 {
		return 0, fmt.Errorf("index %d outside 0..100", value)
	}
	return value, nil
}
