package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"association-storefront/internal/cart"
	"association-storefront/internal/domain"
	"association-storefront/internal/shopapi"
)

type stubOrders struct {
	resp  domain.OrderCreated
	err   error
	calls int
	last  domain.OrderRequest
}

func (s *stubOrders) CreateOrder(_ context.Context, req domain.OrderRequest) (domain.OrderCreated, error) {
	s.calls++
	s.last = req
	return s.resp, s.err
}

var validBuyer = domain.Buyer{
	FullName: "Ada Obi",
	Email:    "ada@example.org",
	Phone:    "+234 800 000 0000",
	Address:  "Room 12, Hall 3",
}

func hoodieCart() *cart.Store {
	return cart.New([]domain.CartItem{
		{ID: 5, Name: "Hoodie", Price: decimal.NewFromInt(80), Quantity: 3, Color: "navy", Size: "L"},
		{ID: 7, Name: "Mug", Price: decimal.RequireFromString("12.50"), Quantity: 1},
	})
}

func TestStart_EmptyCart(t *testing.T) {
	svc := New(&stubOrders{}, nil)

	a := svc.Start(cart.New(nil))
	if a.State != domain.CheckoutEmpty {
		t.Fatalf("expected empty, got %s", a.State)
	}
	if err := svc.Submit(context.Background(), a, cart.New(nil), validBuyer); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected form to be unreachable, got %v", err)
	}
}

func TestStart_FormEntryWithTotal(t *testing.T) {
	svc := New(&stubOrders{}, nil)

	a := svc.Start(hoodieCart())
	if a.State != domain.CheckoutFormEntry {
		t.Fatalf("expected form_entry, got %s", a.State)
	}
	if len(a.Items) != 2 || !a.Total.Equal(decimal.RequireFromString("252.5")) {
		t.Fatalf("unexpected attempt items=%d total=%s", len(a.Items), a.Total)
	}
}

func TestSubmit_Redirects(t *testing.T) {
	orders := &stubOrders{resp: domain.OrderCreated{AuthorizationURL: "https://checkout.paystack.com/abc", Reference: "abc", OrderID: 3}}
	svc := New(orders, nil)
	store := hoodieCart()

	a := svc.Start(store)
	if err := svc.Submit(context.Background(), a, store, validBuyer); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.State != domain.CheckoutRedirecting || a.RedirectURL != "https://checkout.paystack.com/abc" {
		t.Fatalf("unexpected attempt %+v", a)
	}
	if orders.calls != 1 {
		t.Fatalf("expected 1 order call, got %d", orders.calls)
	}
	if len(orders.last.Items) != 2 || orders.last.Items[0].SelectedColor != "navy" || orders.last.Items[0].Quantity != 3 {
		t.Fatalf("unexpected order lines %+v", orders.last.Items)
	}
	if store.Count() != 4 {
		t.Fatalf("expected cart untouched before payment, count=%d", store.Count())
	}
}

func TestSubmit_ValidationErrorsNoNetwork(t *testing.T) {
	orders := &stubOrders{}
	svc := New(orders, nil)
	store := hoodieCart()

	a := svc.Start(store)
	err := svc.Submit(context.Background(), a, store, domain.Buyer{
		FullName: "   ",
		Email:    "not-an-email",
		Phone:    "12ab",
		Address:  "Hall 3",
	})
	if err != nil {
		t.Fatalf("expected no transition error, got %v", err)
	}
	if a.State != domain.CheckoutFormEntry {
		t.Fatalf("expected to stay in form_entry, got %s", a.State)
	}
	if orders.calls != 0 {
		t.Fatalf("expected zero network calls, got %d", orders.calls)
	}
	for _, field := range []string{"full_name", "email", "phone"} {
		if _, ok := a.FieldErrors[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, a.FieldErrors)
		}
	}
	if _, ok := a.FieldErrors["address"]; ok {
		t.Fatalf("expected address to pass")
	}
	var verr *ValidationError
	if !errors.As(a.Err, &verr) {
		t.Fatalf("expected ValidationError, got %v", a.Err)
	}
	if a.Buyer.Address != "Hall 3" {
		t.Fatalf("expected buyer fields kept, got %+v", a.Buyer)
	}
}

func TestSubmit_CartEmptiedMeanwhile(t *testing.T) {
	orders := &stubOrders{}
	svc := New(orders, nil)
	store := hoodieCart()

	a := svc.Start(store)
	store.Clear()
	if err := svc.Submit(context.Background(), a, store, validBuyer); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.State != domain.CheckoutEmpty || orders.calls != 0 {
		t.Fatalf("expected empty without network, state=%s calls=%d", a.State, orders.calls)
	}
}

func TestSubmit_APIErrorThenRetry(t *testing.T) {
	orders := &stubOrders{err: &shopapi.APIError{StatusCode: 400, Message: "Hoodie is out of stock"}}
	svc := New(orders, nil)
	store := hoodieCart()

	a := svc.Start(store)
	if err := svc.Submit(context.Background(), a, store, validBuyer); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.State != domain.CheckoutFailed || a.Message != "Hoodie is out of stock" {
		t.Fatalf("unexpected attempt state=%s message=%q", a.State, a.Message)
	}
	if a.Buyer != normalizeBuyer(validBuyer) {
		t.Fatalf("expected buyer preserved, got %+v", a.Buyer)
	}

	if err := svc.Submit(context.Background(), a, store, validBuyer); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected no automatic resubmission from failed, got %v", err)
	}
	if err := svc.Retry(a); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if a.State != domain.CheckoutFormEntry || a.Message != "" {
		t.Fatalf("unexpected attempt after retry %+v", a)
	}

	orders.err = nil
	orders.resp = domain.OrderCreated{AuthorizationURL: "https://pay.example/x"}
	if err := svc.Submit(context.Background(), a, store, a.Buyer); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.State != domain.CheckoutRedirecting || orders.calls != 2 {
		t.Fatalf("expected redirect on second attempt, state=%s calls=%d", a.State, orders.calls)
	}
}

func TestSubmit_TransportErrorGenericMessage(t *testing.T) {
	svc := New(&stubOrders{err: errors.New("dial tcp: connection refused")}, nil)
	store := hoodieCart()

	a := svc.Start(store)
	svc.Submit(context.Background(), a, store, validBuyer)
	if a.State != domain.CheckoutFailed || a.Message != shopapi.GenericErrorMessage {
		t.Fatalf("unexpected attempt state=%s message=%q", a.State, a.Message)
	}
}

func TestSubmit_NoRedirect(t *testing.T) {
	for _, u := range []string{"", "javascript:alert(1)", "/relative/path"} {
		svc := New(&stubOrders{resp: domain.OrderCreated{AuthorizationURL: u, OrderID: 4}}, nil)
		store := hoodieCart()

		a := svc.Start(store)
		svc.Submit(context.Background(), a, store, validBuyer)
		if a.State != domain.CheckoutFailed || !errors.Is(a.Err, ErrNoRedirect) {
			t.Fatalf("url %q: expected failed with ErrNoRedirect, got state=%s err=%v", u, a.State, a.Err)
		}
		if a.Message == "" {
			t.Fatalf("url %q: expected a user-visible message", u)
		}
	}
}

func TestRetry_OnlyFromFailed(t *testing.T) {
	svc := New(&stubOrders{}, nil)

	a := svc.Start(cart.New(nil))
	if err := svc.Retry(a); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
}

func TestValidPhone(t *testing.T) {
	v := newValidator()
	good := []string{"+2348000000000", "0800 000 0000", "080-000-0000", "1234567", "+123 456 789 012 345"}
	bad := []string{"123456", "+", "phone", "+234 800 000 0000 0000", "-0800000000", "1234567890123456"}

	for _, p := range good {
		b := validBuyer
		b.Phone = p
		if err := validateBuyer(v, b); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", p, err)
		}
	}
	for _, p := range bad {
		b := validBuyer
		b.Phone = p
		if err := validateBuyer(v, b); err == nil {
			t.Fatalf("expected %q to be rejected", p)
		}
	}
}
