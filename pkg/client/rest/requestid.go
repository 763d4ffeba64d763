package rest

import (
	"net/http"

	"github.com/abgdnv/produtos/pkg/web"
)

// requestIDTransport stamps X-Request-Id on outgoing requests, reusing the id found in
// the request context when there is one.
type requestIDTransport struct {
	next http.RoundTripper
}

// NewRequestID returns next decorated with X-Request-Id propagation.
func NewRequestID(next http.RoundTripper) http.RoundTripper {
	return &requestIDTransport{next: next}
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(web.RequestIDHeader) != "" {
		return t.next.RoundTrip(req)
	}
	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(web.RequestIDHeader, web.ResolveRequestID(req))
	return t.next.RoundTrip(clone)
}
