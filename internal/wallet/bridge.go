package wallet

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
)

// BridgeError is a non-2xx response from the wallet bridge.
type BridgeError struct {
	StatusCode int
	Reason     Reason
	Message    string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("wallet bridge error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the request may succeed when repeated.
func (e *BridgeError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Bridge is a Connector backed by a local wallet bridge process that relays
// requests to the user's wallet.
type Bridge struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// NewBridge creates a bridge connector for baseURL.
func NewBridge(baseURL string, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			// Submit blocks while the user reviews the transaction in the wallet.
			Timeout: 5 * time.Minute,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithBridgeTimeout sets the HTTP client timeout.
func WithBridgeTimeout(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		b.httpClient.Timeout = d
	}
}

// WithBridgeLogger sets the logger.
func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithBridgeHTTPClient sets a custom HTTP client.
func WithBridgeHTTPClient(hc *http.Client) BridgeOption {
	return func(b *Bridge) {
		b.httpClient = hc
	}
}

type connectionResponse struct {
	Connected bool `json:"connected"`
}

type accountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type personaResponse struct {
	Persona *Persona `json:"persona"`
}

type submitRequest struct {
	TransactionManifest string `json:"transactionManifest"`
	Version             int    `json:"version"`
	Message             string `json:"message,omitempty"`
}

type bridgeErrorBody struct {
	Error   Reason `json:"error"`
	Message string `json:"message"`
}

// IsConnected reports whether the bridge has a live wallet session. Errors
// count as not connected.
func (b *Bridge) IsConnected(ctx context.Context) bool {
	var resp connectionResponse
	if err := b.do(ctx, http.MethodGet, "/v1/connection", nil, &resp); err != nil {
		b.logger.Debug("wallet connection check failed", "error", err)
		return false
	}
	return resp.Connected
}

// ConnectedAccounts returns the accounts shared with the application.
func (b *Bridge) ConnectedAccounts(ctx context.Context) ([]Account, error) {
	var resp accountsResponse
	if err := b.do(ctx, http.MethodGet, "/v1/accounts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// ConnectedPersona returns the logged in persona.
func (b *Bridge) ConnectedPersona(ctx context.Context) (*Persona, error) {
	var resp personaResponse
	if err := b.do(ctx, http.MethodGet, "/v1/persona", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Persona == nil {
		return nil, ErrNotConnected
	}
	return resp.Persona, nil
}

// Submit sends manifest to the wallet for signing and broadcast.
func (b *Bridge) Submit(ctx context.Context, manifest string) (TransactionHandle, error) {
	var handle TransactionHandle
	req := submitRequest{TransactionManifest: manifest, Version: 1}
	if err := b.do(ctx, http.MethodPost, "/v1/transactions", req, &handle); err != nil {
		var be *BridgeError
		if errors.As(err, &be) && be.Reason != "" {
			return TransactionHandle{}, &SubmitError{Reason: be.Reason, Message: be.Message}
		}
		return TransactionHandle{}, err
	}
	if handle.IntentHash == "" {
		return TransactionHandle{}, &SubmitError{Reason: ReasonConnectorFailure, Message: "no transaction intent hash returned"}
	}
	return handle, nil
}

func (b *Bridge) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrNotConnected
	}
	if resp.StatusCode >= 400 {
		be := &BridgeError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
		var eb bridgeErrorBody
		if json.Unmarshal(data, &eb) == nil {
			be.Reason = eb.Error
			if eb.Message != "" {
				be.Message = eb.Message
			}
		}
		return be
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
