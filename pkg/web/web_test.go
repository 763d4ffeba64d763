package web

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestRequestIDInjector(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expectID string
	}{
		{name: "caller id is kept", header: "abc-123", expectID: "abc-123"},
		{name: "missing id is generated"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var ctxID, chiID string
			h := RequestIDInjector(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				ctxID = RequestIDFromContext(r.Context())
				chiID = middleware.GetReqID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}
			rr := httptest.NewRecorder()

			// when
			h.ServeHTTP(rr, req)

			// then
			require.NotEmpty(t, ctxID)
			assert.Equal(t, ctxID, chiID)
			assert.Equal(t, ctxID, rr.Header().Get(RequestIDHeader))
			if tc.expectID != "" {
				assert.Equal(t, tc.expectID, ctxID)
			}
		})
	}
}

func TestRecoverer(t *testing.T) {
	var logs bytes.Buffer
	h := Recoverer(slog.New(slog.NewJSONHandler(&logs, nil)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
	assert.Contains(t, logs.String(), "Panic recovered")
}

func TestStructuredLogger(t *testing.T) {
	var logs bytes.Buffer
	h := StructuredLogger(slog.New(slog.NewJSONHandler(&logs, nil)))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/produtos/1", nil))

	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), `"path":"/produtos/1"`)
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected int64
		ok       bool
	}{
		{name: "valid", path: "/produtos/42", expected: 42, ok: true},
		{name: "zero", path: "/produtos/0"},
		{name: "not a number", path: "/produtos/abc"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var id int64
			var ok bool
			r := chi.NewRouter()
			r.Get("/produtos/{id}", func(w http.ResponseWriter, r *http.Request) {
				id, ok = ParseID(w, r, discard)
			})
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, id)
			if !tc.ok {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestRespondValidation(t *testing.T) {
	rr := httptest.NewRecorder()

	RespondValidation(rr, discard, map[string]string{"nome": "muito curto"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"validation_errors":{"nome":"muito curto"}}`, rr.Body.String())
}

func TestRequestMetrics(t *testing.T) {
	// given
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	r.Use(RequestMetrics(reg))
	r.Get("/produtos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	// when
	for _, path := range []string{"/produtos/1", "/produtos/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	// then
	count, err := testutil.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "both paths share the route series")
}

func TestResolveRequestID(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		ctxID    string
		expectID string
	}{
		{name: "header wins over context", header: "h-1", ctxID: "c-1", expectID: "h-1"},
		{name: "context id when no header", ctxID: "c-1", expectID: "c-1"},
		{name: "new id when neither is set"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
			req = req.WithContext(ContextWithRequestID(req.Context(), tc.ctxID))
			if tc.header != "" {
				req.Header.Set(RequestIDHeader, tc.header)
			}

			// when
			id := ResolveRequestID(req)

			// then
			if tc.expectID == "" {
				_, err := uuid.Parse(id)
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.expectID, id)
		})
	}
}

func TestRequestIDFromContext_FallsBackToChi(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "chi-7")

	assert.Equal(t, "chi-7", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Equal(t, context.Background(), ContextWithRequestID(context.Background(), ""))
}
