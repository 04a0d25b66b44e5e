// Package gateway is a client for the ledger gateway HTTP API: transaction
// status, committed transaction details and entity details.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// DefaultURL is the public RCnet gateway.
const DefaultURL = "https://rcnet.radixdlt.com"

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the request may succeed when repeated.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsRetryable reports whether err is a retryable gateway error.
func IsRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsRetryable()
}

// Client talks to the gateway. It performs no retries of its own; callers
// decide how to repeat a request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    *rate.Limiter
	cacheSize  int
	cache      *ReceiptCache
	group      singleflight.Group
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a gateway client for baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    slog.Default(),
		limiter:   rate.NewLimiter(rate.Inf, 0),
		cacheSize: 256,
	}

	for _, opt := range opts {
		opt(c)
	}

	cache, err := NewReceiptCache(c.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create receipt cache: %w", err)
	}
	c.cache = cache

	return c, nil
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit limits outgoing requests to perSecond with the given burst.
// A non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithCacheSize sets the number of receipts and entities kept in memory.
func WithCacheSize(n int) ClientOption {
	return func(c *Client) {
		c.cacheSize = n
	}
}

// Cache exposes the receipt cache, mainly for stats.
func (c *Client) Cache() *ReceiptCache {
	return c.cache
}

// TransactionStatus fetches the current status of a transaction intent.
// Status is never cached.
func (c *Client) TransactionStatus(ctx context.Context, intentHash string) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.post(ctx, "/transaction/status", statusRequest{IntentHashHex: intentHash}, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "" {
		resp.Status = StatusUnknown
	}
	return &resp, nil
}

// CommittedDetails fetches the receipt of a committed transaction.
// Concurrent calls for the same intent share one request, and committed
// results are cached. The shared request is detached from the caller's
// cancellation and bounded by the HTTP client timeout; each caller stops
// waiting when its own ctx is done.
func (c *Client) CommittedDetails(ctx context.Context, intentHash string) (*CommittedDetails, error) {
	if d, ok := c.cache.Details(intentHash); ok {
		return d, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(intentHash, func() (interface{}, error) {
		var d CommittedDetails
		if err := c.post(shared, "/transaction/committed-details", committedDetailsRequest{IntentHashHex: intentHash}, &d); err != nil {
			return nil, err
		}
		c.cache.PutDetails(intentHash, &d)
		return &d, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("committed details request coalesced", "intent_hash", intentHash)
		}
		return res.Val.(*CommittedDetails), nil
	}
}

// EntityDetails fetches vault-aggregated details for addresses, preserving
// the order of the request. Cached entities are not requested again.
func (c *Client) EntityDetails(ctx context.Context, addresses []string) ([]EntityDetails, error) {
	if len(addresses) == 0 {
		return nil, nil
	}

	found := make(map[string]EntityDetails, len(addresses))
	var missing []string
	for _, addr := range addresses {
		if e, ok := c.cache.Entity(addr); ok {
			found[addr] = e
			continue
		}
		missing = append(missing, addr)
	}

	if len(missing) > 0 {
		var resp entityDetailsResponse
		req := entityDetailsRequest{Addresses: missing, AggregationLevel: "Vault"}
		if err := c.post(ctx, "/state/entity/details", req, &resp); err != nil {
			return nil, err
		}
		for _, e := range resp.Items {
			c.cache.PutEntity(e)
			found[e.Address] = e
		}
	}

	out := make([]EntityDetails, 0, len(addresses))
	for _, addr := range addresses {
		if e, ok := found[addr]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// post sends a JSON request and decodes a JSON response into result.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("gateway request",
		"path", path,
		"status_code", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       data,
		}
		var er errorResponse
		if json.Unmarshal(data, &er) == nil && er.Message != "" {
			apiErr.Message = er.Message
			apiErr.Code = er.Code
		}
		return apiErr
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
