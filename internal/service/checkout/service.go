package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"association-storefront/internal/domain"
	"association-storefront/internal/shopapi"
)

var (
	ErrIllegalTransition = errors.New("illegal checkout transition")
	// ErrNoRedirect means the order was accepted but no usable payment page
	// came back.
	ErrNoRedirect = errors.New("order created without a payment redirect")
)

const noRedirectMessage = "We could not start the payment. Please try again."

type orderCreator interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderCreated, error)
}

// cartReader is the part of a cart the checkout needs. It never mutates the
// cart; clearing happens only after payment is verified.
type cartReader interface {
	Items() []domain.CartItem
}

// Attempt is one pass through the checkout form. Buyer fields survive
// failures so the form can be shown again pre-filled.
type Attempt struct {
	State       domain.CheckoutState `json:"state"`
	Items       []domain.CartItem    `json:"items"`
	Total       decimal.Decimal      `json:"total"`
	Buyer       domain.Buyer         `json:"buyer"`
	FieldErrors map[string]string    `json:"field_errors,omitempty"`
	Message     string               `json:"message,omitempty"`
	RedirectURL string               `json:"authorization_url,omitempty"`
	Reference   string               `json:"reference,omitempty"`
	Err         error                `json:"-"`
}

func (a *Attempt) moveTo(next domain.CheckoutState) error {
	if !a.State.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.State, next)
	}
	a.State = next
	return nil
}

func (a *Attempt) load(items []domain.CartItem) {
	a.Items = items
	a.Total = domain.CartTotal(items)
}

type Service struct {
	orders   orderCreator
	validate *validator.Validate
	logger   *log.Logger
}

func New(orders orderCreator, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders:   orders,
		validate: newValidator(),
		logger:   logger,
	}
}

// Start opens an attempt for the given cart. An empty cart ends in the
// Empty state and the form is never offered.
func (s *Service) Start(cart cartReader) *Attempt {
	a := &Attempt{State: domain.CheckoutBrowsing}
	a.load(cart.Items())
	if len(a.Items) == 0 {
		a.State = domain.CheckoutEmpty
		return a
	}
	a.State = domain.CheckoutFormEntry
	return a
}

// Submit validates buyer and, when valid, creates the order from the cart's
// current contents. The outcome is recorded on a; the returned error is only
// non-nil when a is not in a state that accepts a submission.
func (s *Service) Submit(ctx context.Context, a *Attempt, cart cartReader, buyer domain.Buyer) error {
	if a.State != domain.CheckoutFormEntry {
		return fmt.Errorf("%w: submit from %s", ErrIllegalTransition, a.State)
	}
	a.Buyer = normalizeBuyer(buyer)
	a.FieldErrors = nil
	a.Message = ""
	a.Err = nil

	a.load(cart.Items())
	if len(a.Items) == 0 {
		return a.moveTo(domain.CheckoutEmpty)
	}

	if err := validateBuyer(s.validate, a.Buyer); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			a.FieldErrors = verr.Fields
		}
		a.Err = err
		return a.moveTo(domain.CheckoutFormEntry)
	}

	if err := a.moveTo(domain.CheckoutSubmitting); err != nil {
		return err
	}

	created, err := s.orders.CreateOrder(ctx, domain.NewOrderRequest(a.Buyer, a.Items))
	if err != nil {
		s.logger.Printf("checkout: create order items=%d total=%s error=%v", len(a.Items), a.Total, err)
		return s.fail(a, err, shopapi.UserMessage(err))
	}
	if !usableRedirect(created.AuthorizationURL) {
		s.logger.Printf("checkout: order without redirect order_id=%d reference=%s", created.OrderID, created.Reference)
		return s.fail(a, ErrNoRedirect, noRedirectMessage)
	}

	a.RedirectURL = created.AuthorizationURL
	a.Reference = created.Reference
	s.logger.Printf("checkout: redirecting order_id=%d reference=%s items=%d total=%s", created.OrderID, created.Reference, len(a.Items), a.Total)
	return a.moveTo(domain.CheckoutRedirecting)
}

// Retry returns a failed attempt to the form with the buyer fields kept.
func (s *Service) Retry(a *Attempt) error {
	if err := a.moveTo(domain.CheckoutFormEntry); err != nil {
		return err
	}
	a.Message = ""
	a.Err = nil
	return nil
}

func (s *Service) fail(a *Attempt, err error, msg string) error {
	a.Err = err
	a.Message = msg
	return a.moveTo(domain.CheckoutFailed)
}

func usableRedirect(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http") && u.Host != ""
}
