package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sony/gobreaker/v2"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/user"
)

// UserClient provides read access to the user service. Implementations
// issue exactly one logical read per invocation; retry policy, if any,
// belongs to the caller.
type UserClient interface {
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

// HTTPUserClient implements UserClient over the user service REST API.
type HTTPUserClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*user.User]
}

// NewHTTPUserClient creates a new HTTP-based user client.
func NewHTTPUserClient(cfg Config) *HTTPUserClient {
	return &HTTPUserClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		breaker:    newBreaker[*user.User]("user-service", cfg),
	}
}

// GetUserByID fetches a user snapshot, short-circuiting through the
// breaker while the user service is degraded.
func (c *HTTPUserClient) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	usr, err := c.breaker.Execute(func() (*user.User, error) {
		return c.fetch(ctx, id)
	})
	if err != nil {
		return nil, breakerErr("user service", err)
	}

	return usr, nil
}

func (c *HTTPUserClient) fetch(ctx context.Context, id int64) (*user.User, error) {
	url := fmt.Sprintf("%s/api/users/%d", c.baseURL, id)
	slog.Debug("Calling user service", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errs.UnavailableError{Service: "user service", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errs.UnavailableError{Service: "user service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &errs.NotFoundError{Resource: "user", ID: id}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errs.UnavailableError{
			Service: "user service",
			Err:     fmt.Errorf("user service returned status %d", resp.StatusCode),
		}
	}

	var usr user.User
	if err := json.NewDecoder(resp.Body).Decode(&usr); err != nil {
		return nil, &errs.UnavailableError{Service: "user service", Err: err}
	}

	return &usr, nil
}

// MockUserClient is an in-memory implementation for tests.
type MockUserClient struct {
	Users map[int64]*user.User
	Err   error
	Calls int
}

// NewMockUserClient creates an empty mock user client.
func NewMockUserClient() *MockUserClient {
	return &MockUserClient{Users: make(map[int64]*user.User)}
}

func (m *MockUserClient) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if usr, ok := m.Users[id]; ok {
		return usr, nil
	}

	return nil, &errs.NotFoundError{Resource: "user", ID: id}
}

// AddUser registers a user snapshot in the mock.
func (m *MockUserClient) AddUser(usr *user.User) {
	m.Users[usr.ID] = usr
}
