package checkout

import (
	"context"
	"sync"

	"github.com/karthikeyavasudha/clotherr/internal/domain"
)

// mockSession implements SessionView for testing.
type mockSession struct {
	token string
	user  *domain.User
}

func (m *mockSession) Token() string { return m.token }

func (m *mockSession) Identity() *domain.User { return m.user }

func (m *mockSession) IsAuthenticated() bool { return m.token != "" && m.user != nil }

// mockOrderAPI implements OrderAPI. When blocking, CreateOrder sends on
// started and waits for release, so tests can hold a submission in flight.
type mockOrderAPI struct {
	mu       sync.Mutex
	calls    int
	lastKey  string
	payloads []domain.OrderPayload
	order    *domain.Order
	err      error

	started chan struct{}
	release chan struct{}
}

func (m *mockOrderAPI) CreateOrder(_ context.Context, payload domain.OrderPayload, _ string, idempotencyKey string) (*domain.Order, error) {
	m.mu.Lock()
	m.calls++
	m.lastKey = idempotencyKey
	m.payloads = append(m.payloads, payload)
	m.mu.Unlock()

	if m.started != nil {
		m.started <- struct{}{}
		<-m.release
	}

	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func (m *mockOrderAPI) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func signedInUser() *domain.User {
	return &domain.User{
		ID:           "u1",
		Email:        "ada@example.com",
		FullName:     "Ada Lovelace",
		Phone:        "020 7946 0000",
		AddressLine1: "12 St James Square",
		City:         "London",
		State:        "LDN",
		PostalCode:   "SW1Y 4JH",
		Country:      "UK",
	}
}

func fullAddress() domain.Address {
	return domain.AddressFromUser(signedInUser())
}
