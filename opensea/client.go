package opensea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xyths/nft-dashboard/metrics"
)

const (
	DefaultBaseURL = "https://api.opensea.io"
	DefaultChain   = "ethereum"

	defaultTimeout = 10 * time.Second
)

type Config struct {
	APIKey  string `json:"apiKey"`
	BaseURL string `json:"baseUrl"`
	Chain   string
	Timeout string
}

// UpstreamError is a non-2xx answer from the OpenSea API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("opensea api: %d", e.Status)
}

// clientError reports a 4xx answer other than 429: the request itself is
// wrong and repeating it gives the same answer.
func clientError(err error) bool {
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		return false
	}
	return upErr.Status >= 400 && upErr.Status < 500 && upErr.Status != http.StatusTooManyRequests
}

// Permanent reports whether retrying err is pointless: a client error, or
// the circuit breaker refusing calls.
func Permanent(err error) bool {
	return clientError(err) || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

type Client struct {
	cfg     Config
	baseURL string
	chain   string
	hc      *http.Client
	cb      *gobreaker.CircuitBreaker

	mu    sync.Mutex
	slugs map[string]string // contract address -> collection slug

	Sugar *zap.SugaredLogger
}

func NewClient(cfg Config, sugar *zap.SugaredLogger) *Client {
	timeout := defaultTimeout
	if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
		timeout = d
	}
	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		chain:   cfg.Chain,
		hc:      &http.Client{Timeout: timeout},
		slugs:   make(map[string]string),
		Sugar:   sugar,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.chain == "" {
		c.chain = DefaultChain
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "opensea",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// unknown contracts and bad keys say nothing about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || clientError(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			sugar.Infow("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// Chain is the single chain every lookup is made on.
func (c *Client) Chain() string {
	return c.chain
}

func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	start := time.Now()
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, query, out)
	})
	metrics.ObserveUpstream(op, time.Since(start), err)
	return err
}

func (c *Client) do(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &UpstreamError{Status: res.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// ContractSlug resolves the collection slug of a contract. Results are memoized.
func (c *Client) ContractSlug(ctx context.Context, address string) (string, error) {
	address = strings.ToLower(address)
	c.mu.Lock()
	slug, ok := c.slugs[address]
	c.mu.Unlock()
	if ok {
		return slug, nil
	}
	var contract ResponseContract
	path := fmt.Sprintf("/api/v2/chain/%s/contract/%s", url.PathEscape(c.chain), url.PathEscape(address))
	if err := c.getJSON(ctx, "contract", path, nil, &contract); err != nil {
		return "", err
	}
	if contract.Collection == "" {
		return "", fmt.Errorf("contract %s has no collection", address)
	}
	c.mu.Lock()
	c.slugs[address] = contract.Collection
	c.mu.Unlock()
	return contract.Collection, nil
}
