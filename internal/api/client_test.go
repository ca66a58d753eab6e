package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikeyavasudha/clotherr/internal/domain"
)

// fakeBackend is a chi-routed stand-in for the remote commerce API.
type fakeBackend struct {
	router *chi.Mux

	lastAuth           string
	lastIdempotencyKey string
	lastOrderPayload   domain.OrderPayload
	orderCalls         int
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{router: chi.NewRouter()}

	b.router.Get("/api/v1/products/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []domain.Product{
			{ID: "p1", Name: "Basic Tee", Price: 20.00, Stock: 12},
			{ID: "p2", Name: "Hoodie", Price: 45.00, Stock: 3},
		})
	})

	b.router.Get("/api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "p1" {
			respondJSON(w, http.StatusNotFound, map[string]string{"detail": "Product not found"})
			return
		}
		respondJSON(w, http.StatusOK, domain.Product{ID: "p1", Name: "Basic Tee", Price: 20.00})
	})

	b.router.Post("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "secret" {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid email or password"})
			return
		}
		respondJSON(w, http.StatusOK, domain.AuthSession{
			AccessToken: "tok-1",
			TokenType:   "bearer",
			User:        domain.User{ID: "u1", Email: creds["email"]},
		})
	})

	b.router.Post("/api/v1/orders/", func(w http.ResponseWriter, r *http.Request) {
		b.orderCalls++
		b.lastAuth = r.Header.Get("Authorization")
		b.lastIdempotencyKey = r.Header.Get("Idempotency-Key")
		if b.lastAuth == "" {
			respondJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Missing Authorization Header"})
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&b.lastOrderPayload)
		respondJSON(w, http.StatusOK, domain.Order{ID: "o1", Status: b.lastOrderPayload.Status})
	})

	b.router.Put("/api/v1/auth/update/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth = r.Header.Get("Authorization")
		var fields domain.ProfileUpdate
		_ = json.NewDecoder(r.Body).Decode(&fields)
		user := domain.User{ID: chi.URLParam(r, "id"), Email: "ada@example.com"}
		fields.Apply(&user)
		respondJSON(w, http.StatusOK, user)
	})

	return b
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T) (*Client, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	server := httptest.NewServer(backend.router)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 5*time.Second), backend
}

func TestFetchProducts(t *testing.T) {
	client, _ := newTestClient(t)

	products, err := client.FetchProducts(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Basic Tee", products[0].Name)
}

func TestSignIn_Success(t *testing.T) {
	client, _ := newTestClient(t)

	auth, err := client.SignIn(context.Background(), "ada@example.com", "secret")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", auth.AccessToken)
	assert.Equal(t, "ada@example.com", auth.User.Email)
}

func TestSignIn_FailureCarriesBackendDetail(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SignIn(context.Background(), "ada@example.com", "wrong")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Detail)
}

func TestErrorWithoutDetailBodyGetsGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	client := NewClient(server.URL, 5*time.Second)

	_, err := client.FetchProducts(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 500", apiErr.Detail)
}

func TestCreateOrder_SendsBearerTokenAndIdempotencyKey(t *testing.T) {
	client, backend := newTestClient(t)
	payload := domain.OrderPayload{
		TotalAmount:     40.00,
		ShippingAddress: "12 St James Square, London, LDN SW1Y 4JH",
		Status:          "pending",
		Items:           []domain.OrderItem{{ProductID: "p1", Quantity: 2, PriceAtPurchase: 20.00}},
	}

	order, err := client.CreateOrder(context.Background(), payload, "tok-1", "draft-1")

	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "Bearer tok-1", backend.lastAuth)
	assert.Equal(t, "draft-1", backend.lastIdempotencyKey)
	assert.InDelta(t, 40.00, backend.lastOrderPayload.TotalAmount, 1e-9)
	require.Len(t, backend.lastOrderPayload.Items, 1)
	assert.Equal(t, "p1", backend.lastOrderPayload.Items[0].ProductID)
}

func TestUpdateProfile(t *testing.T) {
	client, backend := newTestClient(t)

	city := "London"
	user, err := client.UpdateProfile(context.Background(), "u1", domain.ProfileUpdate{City: &city}, "tok-1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "London", user.City)
	assert.Equal(t, "Bearer tok-1", backend.lastAuth)
}

func TestBreakerOpensAfterRepeatedTransportFailures(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // nothing listening: every call is a transport failure
	client := NewClient(server.URL, time.Second)

	var lastErr error
	for i := 0; i < 10; i++ {
		_, lastErr = client.FetchProducts(context.Background())
		require.Error(t, lastErr)
	}

	assert.True(t, errors.Is(lastErr, gobreaker.ErrOpenState), "breaker should be open, got: %v", lastErr)
}
