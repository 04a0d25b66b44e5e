package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/codec/sbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIntent    = "97b96019f0fde8cfd158c353a22bdd639741f0d61e89322aebdc499dad1edc1c"
	testComponent = "component_tdx_c_1jgp27m8fykex4e4jtt0l7ze8q528ux2l5wxatzhxanzsjwr0sf"
	testBadge     = "resource_tdx_c_13qzum63tr97ltl24thp4nfl4hmkjumt9meycec7l8h5scr9rcm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewClient("https://gateway.example.com/")
		require.NoError(t, err)
		assert.Equal(t, "https://gateway.example.com", c.baseURL)
		assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
		assert.NotNil(t, c.logger)
		assert.NotNil(t, c.Cache())
	})

	t.Run("options", func(t *testing.T) {
		hc := &http.Client{}
		c, err := NewClient("https://gateway.example.com",
			WithHTTPClient(hc),
			WithTimeout(3*time.Second),
			WithRateLimit(5, 2),
			WithCacheSize(8),
		)
		require.NoError(t, err)
		assert.Same(t, hc, c.httpClient)
		assert.Equal(t, 3*time.Second, hc.Timeout)
		assert.InDelta(t, 5.0, float64(c.limiter.Limit()), 0.001)
		assert.Equal(t, 2, c.limiter.Burst())
		assert.Equal(t, 8, c.cacheSize)
	})
}

func TestTransactionStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/status", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testIntent, req["intent_hash_hex"])

		_, _ = io.WriteString(w, `{"ledger_state":{"network":"rcnet","state_version":42},"status":"CommittedSuccess"}`)
	})

	resp, err := c.TransactionStatus(context.Background(), testIntent)
	require.NoError(t, err)
	assert.Equal(t, StatusCommittedSuccess, resp.Status)
	assert.Equal(t, int64(42), resp.LedgerState.StateVersion)
}

func TestTransactionStatusMissingStatusIsUnknown(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ledger_state":{}}`)
	})

	resp, err := c.TransactionStatus(context.Background(), testIntent)
	require.NoError(t, err)
	assert.Equal(t, StatusUnknown, resp.Status)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name      string
		code      int
		body      string
		message   string
		retryable bool
	}{
		{"gateway message", http.StatusNotFound, `{"message":"Transaction not found","code":404}`, "Transaction not found", false},
		{"plain body", http.StatusBadRequest, `bad`, "Bad Request", false},
		{"rate limited", http.StatusTooManyRequests, ``, "Too Many Requests", true},
		{"server error", http.StatusServiceUnavailable, `{"message":"overloaded"}`, "overloaded", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.TransactionStatus(context.Background(), testIntent)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.retryable, apiErr.IsRetryable())
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestCommittedDetailsCached(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/transaction/committed-details", r.URL.Path)
		_, _ = io.WriteString(w, `{
			"transaction": {"intent_hash_hex": "`+testIntent+`", "transaction_status": "CommittedSuccess"},
			"details": {
				"receipt": {
					"status": "Succeeded",
					"output": [
						{"hex": "5c2100", "data_json": {"kind": "Tuple", "fields": []}},
						{"hex": "5c2201", "data_json": {"kind": "Enum", "variant_id": 1, "fields": [{"kind": "Decimal", "value": "42.5"}]}}
					]
				},
				"referenced_global_entities": ["`+testComponent+`", "`+testBadge+`"]
			}
		}`)
	})

	ctx := context.Background()
	first, err := c.CommittedDetails(ctx, testIntent)
	require.NoError(t, err)
	second, err := c.CommittedDetails(ctx, testIntent)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []string{testComponent, testBadge}, first.Details.ReferencedGlobalEntities)

	require.Len(t, first.Details.Receipt.Output, 2)
	v, err := first.Details.Receipt.Output[1].Value()
	require.NoError(t, err)
	assert.Equal(t, sbor.Enum(1, sbor.Scalar(sbor.KindDecimal, "42.5")), v)

	hits, misses := c.Cache().Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCommittedDetailsSharedRequestOutlivesCancelledCaller(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-release
		_, _ = io.WriteString(w, `{"transaction":{"intent_hash_hex":"`+testIntent+`","transaction_status":"CommittedSuccess"},"details":{"receipt":{"status":"Succeeded","output":[]}}}`)
	})
	t.Cleanup(unblock)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.CommittedDetails(ctx, testIntent)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	second := make(chan *CommittedDetails, 1)
	secondErr := make(chan error, 1)
	go func() {
		d, err := c.CommittedDetails(context.Background(), testIntent)
		second <- d
		secondErr <- err
	}()

	unblock()
	select {
	case d := <-second:
		require.NoError(t, <-secondErr)
		require.NotNil(t, d)
		assert.Equal(t, StatusCommittedSuccess, d.Transaction.Status)
	case <-time.After(2 * time.Second):
		t.Fatal("second caller did not complete")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestCommittedDetailsNotCachedUntilCommitted(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"transaction":{"transaction_status":"Pending"},"details":{"receipt":{"output":[]}}}`)
	})

	for i := 0; i < 2; i++ {
		_, err := c.CommittedDetails(context.Background(), testIntent)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestEntityDetails(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/state/entity/details", r.URL.Path)

		var req entityDetailsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Vault", req.AggregationLevel)
		assert.Equal(t, []string{testComponent, testBadge}, req.Addresses)
		calls.Add(1)

		// reversed on purpose; the client restores request order
		_, _ = io.WriteString(w, `{"items":[
			{"address":"`+testBadge+`","metadata":{"items":[{"key":"name","value":{"as_string":"Oracle Admin Badge"}}]},"details":{"type":"FungibleResource"}},
			{"address":"`+testComponent+`","metadata":{"items":[]},"details":{"type":"Component"}}
		]}`)
	})

	ctx := context.Background()
	entities, err := c.EntityDetails(ctx, []string{testComponent, testBadge})
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, testComponent, entities[0].Address)
	assert.Equal(t, EntityTypeComponent, entities[0].Type())

	name, ok := entities[1].MetadataString("name")
	assert.True(t, ok)
	assert.Equal(t, "Oracle Admin Badge", name)
	_, ok = entities[0].MetadataString("name")
	assert.False(t, ok)

	again, err := c.EntityDetails(ctx, []string{testBadge})
	require.NoError(t, err)
	assert.Equal(t, testBadge, again[0].Address)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEntityDetailsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	entities, err := c.EntityDetails(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		status    TransactionStatus
		terminal  bool
		committed bool
	}{
		{StatusUnknown, false, false},
		{StatusPending, false, false},
		{StatusCommittedSuccess, true, true},
		{StatusCommittedFailure, true, true},
		{StatusRejected, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.committed, tt.status.IsCommitted())
		})
	}
}

func TestOutputEntryWithoutData(t *testing.T) {
	_, err := OutputEntry{Hex: "5c"}.Value()
	assert.ErrorIs(t, err, sbor.ErrMalformed)
}
