package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/karthikeyavasudha/clotherr/internal/domain"
)

// Client talks to the remote commerce API over HTTP/JSON. Authenticated
// calls carry the session's bearer token; all calls go through a circuit
// breaker so a dead backend fails fast instead of piling up timeouts.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name: "commerce-api",
		}),
	}
}

// do sends one request and decodes a 2xx response body into out (if non-nil).
// Only transport errors count against the breaker; HTTP error statuses are
// the backend answering, which is the opposite of an outage.
func (c *Client) do(ctx context.Context, method, path, token, idempotencyKey string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	res, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.http.Do(req)
	})
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return decodeError(res)
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/", "", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) FetchProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, "/api/v1/products/"+id, "", "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	body := map[string]string{"email": email, "password": password}
	var auth domain.AuthSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", "", body, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) SignUp(ctx context.Context, req domain.SignupRequest) (*domain.AuthSession, error) {
	var auth domain.AuthSession
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", "", "", req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) UpdateProfile(ctx context.Context, userID string, fields domain.ProfileUpdate, token string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPut, "/api/v1/auth/update/"+userID, token, "", fields, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreateOrder(ctx context.Context, payload domain.OrderPayload, token, idempotencyKey string) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders/", token, idempotencyKey, payload, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) FetchOrders(ctx context.Context, token string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/api/v1/orders/", token, "", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
