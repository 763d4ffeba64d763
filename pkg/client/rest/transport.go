package rest

import (
	"net/http"

	"github.com/abgdnv/produtos/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// NewTransport composes the outgoing chain: tracing, then request ids, then the
// optional circuit breaker in front of base. A nil base means http.DefaultTransport.
func NewTransport(name string, cb config.CircuitBreakerConfig, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	rt := base
	if cb.Enabled {
		rt = NewCircuitBreaker(name, cb, rt)
	}
	rt = NewRequestID(rt)
	return otelhttp.NewTransport(rt)
}
