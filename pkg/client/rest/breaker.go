// Package rest holds http.RoundTripper decorators for outgoing REST calls.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/abgdnv/produtos/pkg/config"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects calls without contacting the backend.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// serverFailure marks a 5xx response so the breaker can count it. It never leaves this package.
type serverFailure struct {
	status int
}

func (e *serverFailure) Error() string {
	return fmt.Sprintf("server responded with status %d", e.status)
}

// breakerTransport wraps each round trip in a circuit breaker. Transport errors and
// 5xx responses count as failures; 4xx responses and caller cancellations do not.
// The wrapped request is executed at most once.
type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker[*http.Response]
}

// NewCircuitBreaker returns next guarded by a breaker configured from cfg.
func NewCircuitBreaker(name string, cfg config.CircuitBreakerConfig, next http.RoundTripper) http.RoundTripper {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			// The caller gave up, the backend is not to blame.
			return errors.Is(err, context.Canceled)
		},
	}
	return &breakerTransport{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[*http.Response](st),
	}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.cb.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &serverFailure{status: resp.StatusCode}
		}
		return resp, nil
	})
	if err == nil {
		return resp, nil
	}
	var sf *serverFailure
	if errors.As(err, &sf) {
		return resp, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
	}
	return nil, err
}
