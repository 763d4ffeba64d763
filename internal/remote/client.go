// Package remote is the adapter between the product manager and the /produtos REST collection.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/abgdnv/produtos/pkg/client/rest"
	"github.com/abgdnv/produtos/pkg/config"
)

// CollectionPath is the path of the product collection under the base URL.
const CollectionPath = "produtos"

// maxErrorBody bounds how much of a failed response is kept in a RemoteError.
const maxErrorBody = 512

// Store is the set of remote operations the manager depends on.
type Store interface {
	// List returns every product known to the backend, in backend order.
	List(ctx context.Context) ([]product.Product, error)

	// Create stores a new product and returns it with its assigned id.
	Create(ctx context.Context, d product.Draft) (product.Product, error)

	// Update replaces the fields of product id and returns the stored product.
	Update(ctx context.Context, id int64, d product.Draft) (product.Product, error)

	// Delete removes product id.
	Delete(ctx context.Context, id int64) error
}

// Client implements Store over HTTP. Every call issues exactly one request; failures
// are returned as *errors.NetworkError or *errors.RemoteError and never retried.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

var _ Store = (*Client)(nil)

// NewHTTPClient builds the http.Client used by Client: per-request timeout plus the
// shared outgoing transport chain.
func NewHTTPClient(cfg config.RemoteConfig, cb config.CircuitBreakerConfig) *http.Client {
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: rest.NewTransport("produtos-remote", cb, nil),
	}
}

// NewClient creates a Client for the backend at baseURL.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:   u,
		http:   httpClient,
		logger: logger.With("component", "remote"),
	}, nil
}

// List fetches GET /produtos.
func (c *Client) List(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.do(ctx, "list", http.MethodGet, c.collection(), nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// Create issues POST /produtos.
func (c *Client) Create(ctx context.Context, d product.Draft) (product.Product, error) {
	var created product.Product
	if err := c.do(ctx, "create", http.MethodPost, c.collection(), d, &created); err != nil {
		return product.Product{}, err
	}
	if !created.HasID() {
		return product.Product{}, &perrors.RemoteError{
			Op:     "create",
			Status: http.StatusOK,
			Err:    fmt.Errorf("response carries no product id"),
		}
	}
	return created, nil
}

// Update issues PUT /produtos/{id}.
func (c *Client) Update(ctx context.Context, id int64, d product.Draft) (product.Product, error) {
	var updated product.Product
	if err := c.do(ctx, "update", http.MethodPut, c.item(id), d, &updated); err != nil {
		return product.Product{}, err
	}
	if !updated.HasID() {
		updated.ID = id
	}
	if updated.ID != id {
		return product.Product{}, &perrors.RemoteError{
			Op:     "update",
			Status: http.StatusOK,
			Err:    fmt.Errorf("response carries id %d, expected %d", updated.ID, id),
		}
	}
	return updated, nil
}

// Delete issues DELETE /produtos/{id}. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete", http.MethodDelete, c.item(id), nil, nil)
}

func (c *Client) collection() string {
	return c.base.JoinPath(CollectionPath).String()
}

func (c *Client) item(id int64) string {
	return c.base.JoinPath(CollectionPath, strconv.FormatInt(id, 10)).String()
}

// do performs one request. A non-nil out receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, op, method, target string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: encoding request body: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "Sending request", "op", op, "method", method, "url", target)
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Request failed", "op", op, "error", err)
		return &perrors.NetworkError{Op: op, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WarnContext(ctx, "Remote store rejected request", "op", op, "status", resp.StatusCode)
		return &perrors.RemoteError{
			Op:     op,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(excerpt)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.WarnContext(ctx, "Undecodable response", "op", op, "status", resp.StatusCode, "error", err)
			return &perrors.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	c.logger.DebugContext(ctx, "Request completed", "op", op, "status", resp.StatusCode)
	return nil
}
