package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/abgdnv/produtos/pkg/config"
	"github.com/abgdnv/produtos/pkg/web"
	"github.com/stretchr/testify/require"
)

// mockBackend answers with a queue of status codes and counts the calls it receives.
type mockBackend struct {
	mu        sync.Mutex
	callCount int
	responses []int
	lastReqID string
}

func (b *mockBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callCount++
	b.lastReqID = r.Header.Get(web.RequestIDHeader)
	status := http.StatusOK
	if len(b.responses) > 0 {
		status = b.responses[0]
		b.responses = b.responses[1:]
	}
	w.WriteHeader(status)
}

func (b *mockBackend) setResponses(responses ...int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses = responses
	b.callCount = 0
}

func (b *mockBackend) getCallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.callCount
}

// setupTestEnvironment starts a backend and returns a client going through the transport chain.
func setupTestEnvironment(t *testing.T) (*http.Client, *mockBackend, string) {
	t.Helper()
	backend := &mockBackend{}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cbCfg := config.CircuitBreakerConfig{
		Enabled:             true,
		ConsecutiveFailures: 3,
		ErrorRatePercent:    60,
		OpenTimeout:         5 * time.Second,
		HalfOpenRequests:    1,
	}
	client := &http.Client{Transport: NewTransport("test-cb", cbCfg, srv.Client().Transport)}
	return client, backend, srv.URL
}

func get(t *testing.T, client *http.Client, ctx context.Context, url string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	if resp != nil {
		_ = resp.Body.Close()
	}
	return resp, err
}

func TestTransport_HappyPath(t *testing.T) {
	client, backend, url := setupTestEnvironment(t)

	// given
	backend.setResponses(http.StatusOK)

	// when
	resp, err := get(t, client, context.Background(), url)

	// then
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, backend.getCallCount(), "Server should be called exactly once")
	require.NotEmpty(t, backend.lastReqID, "Request id header should be set")
}

func TestTransport_PropagatesRequestIDFromContext(t *testing.T) {
	client, backend, url := setupTestEnvironment(t)

	// given
	ctx := web.ContextWithRequestID(context.Background(), "req-42")

	// when
	_, err := get(t, client, ctx, url)

	// then
	require.NoError(t, err)
	require.Equal(t, "req-42", backend.lastReqID)
}

func TestTransport_NoRetryOnServerError(t *testing.T) {
	client, backend, url := setupTestEnvironment(t)

	// given
	backend.setResponses(http.StatusServiceUnavailable, http.StatusOK)

	// when
	resp, err := get(t, client, context.Background(), url)

	// then
	require.NoError(t, err, "5xx is a response, not a transport error")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Equal(t, 1, backend.getCallCount(), "Server should be called exactly once, no retries")
}

func TestTransport_CircuitBreakerOpens(t *testing.T) {
	client, backend, url := setupTestEnvironment(t)

	// given
	backend.setResponses(http.StatusInternalServerError, http.StatusInternalServerError, http.StatusInternalServerError)

	// when: three consecutive failures trip the breaker
	for i := 0; i < 3; i++ {
		resp, err := get(t, client, context.Background(), url)
		require.NoError(t, err)
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	}
	require.Equal(t, 3, backend.getCallCount())

	// then: the fourth call is rejected without reaching the server
	_, err := get(t, client, context.Background(), url)
	require.ErrorIs(t, err, ErrCircuitOpen)
	require.Equal(t, 3, backend.getCallCount(), "Circuit breaker should block the call")
}

func TestTransport_CircuitBreakerIgnoresClientErrors(t *testing.T) {
	client, backend, url := setupTestEnvironment(t)

	// given
	responses := make([]int, 10)
	for i := range responses {
		responses[i] = http.StatusNotFound
	}
	backend.setResponses(responses...)

	// when
	for i := 0; i < 10; i++ {
		resp, err := get(t, client, context.Background(), url)
		// then
		require.NoError(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	// then
	require.Equal(t, 10, backend.getCallCount(), "4xx responses must not trip the breaker")
}

func TestTransport_BreakerDisabled(t *testing.T) {
	// given
	backend := &mockBackend{}
	srv := httptest.NewServer(backend)
	defer srv.Close()
	client := &http.Client{Transport: NewTransport("test", config.CircuitBreakerConfig{}, srv.Client().Transport)}
	backend.setResponses(500, 500, 500, 500, 500)

	// when
	for i := 0; i < 5; i++ {
		_, err := get(t, client, context.Background(), srv.URL)
		require.NoError(t, err)
	}

	// then
	require.Equal(t, 5, backend.getCallCount())
}
