package websearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"purchase-advisor/internal/common/config"
	httpclient "purchase-advisor/internal/common/http"
	"purchase-advisor/internal/common/logger"
	"purchase-advisor/internal/common/resilience"
)

func createTestClient(baseURL string) *Client {
	return NewClient(&Config{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		EngineID:   "test-cx",
		MaxResults: 3,
	}, httpclient.NewClient(time.Second))
}

func createTestBreaker(t *testing.T, timeoutMs int) *resilience.Breaker {
	return resilience.NewBreaker(t.Name(), config.CapabilityConfig{
		Timeout:         timeoutMs,
		BreakerFailures: 5,
		BreakerOpenFor:  60000,
		BreakerHalfOpen: 1,
		BreakerInterval: 60000,
	}, logger.NewTestLogger(t))
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "desk lamp", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-cx", r.URL.Query().Get("cx"))
		assert.Equal(t, "3", r.URL.Query().Get("num"))
		_, _ = w.Write([]byte(`{"items":[
			{"title":"LED Desk Lamp","link":"https://shop/lamp","snippet":"Now $24.99","pagemap":{"offer":[{"price":"24.99","pricecurrency":"USD"}]}},
			{"title":"Lamp guide","link":"https://blog/lamps","snippet":"How to pick a lamp"},
			{"title":"no link"}
		]}`))
	}))
	defer server.Close()

	results, err := createTestClient(server.URL).Search(context.Background(), "desk lamp")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "24.99 USD", results[0].Price)
	assert.Equal(t, "", results[1].Price)
}

func TestResilient_DegradesToLinkOnly(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "no items",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{}`))
			},
		},
		{
			name: "slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(500 * time.Millisecond):
				case <-r.Context().Done():
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			r := NewResilient(createTestClient(server.URL), createTestBreaker(t, 50), logger.NewTestLogger(t))
			results, err := r.Search(context.Background(), "desk lamp")

			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "desk lamp", results[0].Title)
			assert.Contains(t, results[0].Link, "q=desk+lamp")
			assert.Empty(t, results[0].Price)
		})
	}
}

func TestResilient_CallerCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResilient(createTestClient(server.URL), createTestBreaker(t, 1000), logger.NewTestLogger(t))
	_, err := r.Search(ctx, "desk lamp")

	assert.ErrorIs(t, err, context.Canceled)
}
