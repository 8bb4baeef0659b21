package payment

import (
	"context"
	"errors"
	"io"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"association-storefront/internal/domain"
	"association-storefront/internal/shopapi"
)

// ErrMissingReference is returned when the gateway return URL carries no
// reference parameter.
var ErrMissingReference = errors.New("missing payment reference")

const MissingReferenceMessage = "Missing payment reference"

const receiptTimeout = 5 * time.Second

type verifier interface {
	VerifyPayment(ctx context.Context, reference string) (domain.VerifiedOrder, error)
}

type receiptPublisher interface {
	PublishReceipt(ctx context.Context, r domain.Receipt) error
}

// cartClearer is the cart the buyer paid for.
type cartClearer interface {
	Clear()
}

// Result is the outcome of one return from the payment gateway.
type Result struct {
	State     domain.PaymentState   `json:"state"`
	Reference string                `json:"reference,omitempty"`
	Order     *domain.VerifiedOrder `json:"order,omitempty"`
	Message   string                `json:"message,omitempty"`
	Err       error                 `json:"-"`
}

type Service struct {
	verifier verifier
	receipts receiptPublisher
	logger   *log.Logger
	now      func() time.Time
	flights  singleflight.Group
	pending  sync.WaitGroup
}

// New builds the verification flow. receipts may be nil, in which case no
// receipt events are sent.
func New(v verifier, receipts receiptPublisher, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		verifier: v,
		receipts: receipts,
		logger:   logger,
		now:      time.Now,
	}
}

// Verify confirms the payment named by the reference query parameter. On
// success cart is cleared once; on any failure it is left as it was.
func (s *Service) Verify(ctx context.Context, query url.Values, cart cartClearer) Result {
	res := Result{State: domain.PaymentInitializing}

	ref := strings.TrimSpace(query.Get("reference"))
	if ref == "" {
		res.State = domain.PaymentVerificationFailed
		res.Err = ErrMissingReference
		res.Message = MissingReferenceMessage
		return res
	}
	res.Reference = ref
	res.State = domain.PaymentVerifying

	// Reloads of the return page share one backend call. The shared call is
	// detached so one caller leaving does not fail the others.
	flight := s.flights.DoChan(ref, func() (any, error) {
		order, err := s.verifier.VerifyPayment(context.WithoutCancel(ctx), ref)
		if err != nil {
			return nil, err
		}
		s.publishAsync(ctx, ref, order)
		return order, nil
	})

	select {
	case <-ctx.Done():
		return s.failed(res, ctx.Err())
	case out := <-flight:
		if out.Err != nil {
			return s.failed(res, out.Err)
		}
		order := out.Val.(domain.VerifiedOrder)
		cart.Clear()
		res.State = domain.PaymentVerified
		res.Order = &order
		s.logger.Printf("payment: verified reference=%s order=%d total=%s", ref, order.ID, order.TotalAmount)
		return res
	}
}

func (s *Service) failed(res Result, err error) Result {
	s.logger.Printf("payment: verification failed reference=%s error=%v", res.Reference, err)
	res.State = domain.PaymentVerificationFailed
	res.Err = err
	res.Message = shopapi.UserMessage(err)
	return res
}

// Wait blocks until every receipt event started by Verify has been sent or
// given up on. Call it during shutdown before closing the publisher.
func (s *Service) Wait() {
	s.pending.Wait()
}

// publishAsync sends the receipt event outside the verify response path.
func (s *Service) publishAsync(ctx context.Context, ref string, order domain.VerifiedOrder) {
	if s.receipts == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.publish(ctx, ref, order)
	}()
}

func (s *Service) publish(ctx context.Context, ref string, order domain.VerifiedOrder) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), receiptTimeout)
	defer cancel()
	receipt := domain.Receipt{Reference: ref, Order: order, VerifiedAt: s.now().UTC()}
	if err := s.receipts.PublishReceipt(pubCtx, receipt); err != nil {
		s.logger.Printf("payment: publish receipt reference=%s error=%v", ref, err)
	}
}
