package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/karthikeyavasudha/clotherr/internal/domain"
)

// CartStore is the flow's view of the cart. Clear is only invoked on the
// confirmed-success path of PlaceOrder; nothing else in the process may
// empty the cart.
type CartStore interface {
	Lines() []domain.CartLine
	Total() float64
	Count() int
	Clear()
}

// SessionView is a read-only view of the session store.
type SessionView interface {
	Token() string
	Identity() *domain.User
	IsAuthenticated() bool
}

// OrderAPI is the remote order submission collaborator.
type OrderAPI interface {
	CreateOrder(ctx context.Context, payload domain.OrderPayload, token, idempotencyKey string) (*domain.Order, error)
}

// Redirect tells the caller where to send the user when checkout cannot
// start or is backed out of. Guard failures redirect, they never error.
type Redirect string

const (
	RedirectNone  Redirect = ""
	RedirectLogin Redirect = "login"
	RedirectShop  Redirect = "shop"
)

// Flow is the checkout state machine: REVIEW -> ADDRESS -> PAYMENT ->
// SUBMITTED, each advance on explicit confirmation. The step field only
// changes inside Flow methods, and every change goes through the domain
// transition table. A Flow is one draft; it is discarded on navigation away
// and a new visit starts over at REVIEW.
type Flow struct {
	mu      sync.Mutex
	step    domain.Step
	address domain.Address
	draftID string
	order   *domain.Order

	cart     CartStore
	session  SessionView
	orders   OrderAPI
	sfg      singleflight.Group
	validate *validator.Validate
}

// NewFlow builds a draft for the current cart and session. Entering without
// a signed-in session redirects to login; entering with an empty cart
// redirects to the shop. Either way no draft is created.
func NewFlow(cart CartStore, session SessionView, orders OrderAPI) (*Flow, Redirect) {
	if !session.IsAuthenticated() {
		return nil, RedirectLogin
	}
	if cart.Count() == 0 {
		return nil, RedirectShop
	}

	return &Flow{
		step:     domain.StepReview,
		address:  domain.AddressFromUser(session.Identity()),
		draftID:  uuid.NewString(),
		cart:     cart,
		session:  session,
		orders:   orders,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, RedirectNone
}

func (f *Flow) Step() domain.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Address returns the draft's shipping address as currently entered.
func (f *Flow) Address() domain.Address {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.address
}

// Order returns the created order after the draft reached SUBMITTED.
func (f *Flow) Order() *domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// ConfirmReview moves REVIEW -> ADDRESS. The cart was non-empty at entry;
// no further validation happens here.
func (f *Flow) ConfirmReview() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.advanceLocked(domain.StepAddress)
}

// ConfirmAddress stores the entered address and moves ADDRESS -> PAYMENT.
// All fields except line2 must be non-empty; a validation failure keeps the
// flow on ADDRESS with the entered values retained.
func (f *Flow) ConfirmAddress(addr domain.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != domain.StepAddress {
		return IllegalTransitionError
	}
	f.address = addr
	if err := f.validate.Struct(addr); err != nil {
		return fmt.Errorf("shipping address is incomplete: %w", err)
	}
	return f.advanceLocked(domain.StepPayment)
}

// EditAddress moves PAYMENT -> ADDRESS, keeping the entered fields.
func (f *Flow) EditAddress() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.step != domain.StepPayment {
		return IllegalTransitionError
	}
	return f.advanceLocked(domain.StepAddress)
}

// Back moves one step backwards. From REVIEW it instead exits checkout and
// sends the user back to the shop; the draft is done at that point.
func (f *Flow) Back() (Redirect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case domain.StepReview:
		return RedirectShop, nil
	case domain.StepAddress:
		return RedirectNone, f.advanceLocked(domain.StepReview)
	case domain.StepPayment:
		return RedirectNone, f.advanceLocked(domain.StepAddress)
	default:
		return RedirectNone, IllegalTransitionError
	}
}

// PlaceOrder submits the draft: PAYMENT -> SUBMITTED. The submission is
// single-flight per draft, so a second click while the first request is in
// flight joins it instead of producing a duplicate order. On success the
// cart is cleared and the step becomes SUBMITTED; on failure everything
// stays as it was and the error message goes to the payment step inline.
func (f *Flow) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	f.mu.Lock()
	if f.step != domain.StepPayment {
		f.mu.Unlock()
		return nil, IllegalTransitionError
	}
	lines := f.cart.Lines()
	if len(lines) == 0 {
		f.mu.Unlock()
		return nil, ErrEmptyCart
	}
	payload := BuildOrderPayload(lines, f.address)
	token := f.session.Token()
	key := f.draftID
	f.mu.Unlock()

	v, err, _ := f.sfg.Do(key, func() (interface{}, error) {
		// The draft id doubles as the idempotency key: retries after a
		// failed attempt resubmit the same logical order.
		return f.orders.CreateOrder(ctx, payload, token, key)
	})
	if err != nil {
		return nil, err
	}
	order := v.(*domain.Order)

	f.mu.Lock()
	if f.step == domain.StepPayment {
		f.cart.Clear()
		f.step = domain.StepSubmitted
		f.order = order
	}
	f.mu.Unlock()
	return order, nil
}

func (f *Flow) advanceLocked(to domain.Step) error {
	if !domain.CanTransitionTo(f.step, to) {
		return IllegalTransitionError
	}
	f.step = to
	return nil
}
