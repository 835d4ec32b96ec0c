package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/product"
)

// ProductClient provides read access to the product service. Unlike user
// lookups, product failures have no fallback anywhere in the system:
// price data is load-bearing for monetary correctness, so errors from
// here always propagate.
type ProductClient interface {
	GetProductByID(ctx context.Context, id int64) (*product.Product, error)
}

// HTTPProductClient implements ProductClient over the product service
// REST API.
type HTTPProductClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*product.Product]
}

// NewHTTPProductClient creates a new HTTP-based product client.
func NewHTTPProductClient(cfg Config) *HTTPProductClient {
	return &HTTPProductClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		breaker:    newBreaker[*product.Product]("product-service", cfg),
	}
}

func (c *HTTPProductClient) GetProductByID(ctx context.Context, id int64) (*product.Product, error) {
	prod, err := c.breaker.Execute(func() (*product.Product, error) {
		return c.fetch(ctx, id)
	})
	if err != nil {
		return nil, breakerErr("product service", err)
	}

	return prod, nil
}

func (c *HTTPProductClient) fetch(ctx context.Context, id int64) (*product.Product, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)
	slog.Debug("Calling product service", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errs.UnavailableError{Service: "product service", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errs.UnavailableError{Service: "product service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &errs.NotFoundError{Resource: "product", ID: id}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errs.UnavailableError{
			Service: "product service",
			Err:     fmt.Errorf("product service returned status %d", resp.StatusCode),
		}
	}

	var prod product.Product
	if err := json.NewDecoder(resp.Body).Decode(&prod); err != nil {
		return nil, &errs.UnavailableError{Service: "product service", Err: err}
	}

	return &prod, nil
}

// MockProductClient is an in-memory implementation for tests.
type MockProductClient struct {
	Products map[int64]*product.Product
	Err      error
	Calls    int
}

// NewMockProductClient creates an empty mock product client.
func NewMockProductClient() *MockProductClient {
	return &MockProductClient{Products: make(map[int64]*product.Product)}
}

func (m *MockProductClient) GetProductByID(ctx context.Context, id int64) (*product.Product, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if prod, ok := m.Products[id]; ok {
		return prod, nil
	}

	return nil, &errs.NotFoundError{Resource: "product", ID: id}
}

// AddProduct registers a product snapshot in the mock.
func (m *MockProductClient) AddProduct(prod *product.Product) {
	m.Products[prod.ID] = prod
}
