package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"association-storefront/internal/domain"
)

const (
	maxBodyBytes = 1 << 20
	tracerName   = "association-storefront/internal/shopapi"
)

// Client talks to the shop endpoints of the association backend.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
	logger  *log.Logger
}

// New builds a client rooted at baseURL (for example
// "https://association.example/api"). Every call is bounded by timeout and
// traced with the global tracer provider; the global propagator writes the
// trace headers.
func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	return newClient(baseURL, timeout, logger, otel.GetTracerProvider(), otel.GetTextMapPropagator())
}

func newClient(baseURL string, timeout time.Duration, logger *log.Logger, tp trace.TracerProvider, prop propagation.TextMapPropagator) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithTracerProvider(tp),
				otelhttp.WithPropagators(prop),
			),
		},
		tracer: tp.Tracer(tracerName),
		logger: logger,
	}
}

// CreateOrder posts the order and returns the gateway hand-off.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderCreated, error) {
	var out domain.OrderCreated
	if err := c.do(ctx, http.MethodPost, "/shop/orders/", nil, req, &out); err != nil {
		return domain.OrderCreated{}, err
	}
	return out, nil
}

// VerifyPayment asks the backend to confirm the payment identified by
// reference and returns the paid order.
func (c *Client) VerifyPayment(ctx context.Context, reference string) (domain.VerifiedOrder, error) {
	var out struct {
		Order *domain.VerifiedOrder `json:"order"`
	}
	q := url.Values{"reference": {reference}}
	if err := c.do(ctx, http.MethodGet, "/shop/verify-payment/", q, nil, &out); err != nil {
		return domain.VerifiedOrder{}, err
	}
	if out.Order == nil {
		return domain.VerifiedOrder{}, fmt.Errorf("%w: verify payment: missing order", ErrMalformedResponse)
	}
	return *out.Order, nil
}

// ListProducts returns the catalog. Both a bare array and a paginated
// {"results": [...]} body are accepted.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/shop/products/", nil, nil, &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var products []domain.Product
		if err := json.Unmarshal(trimmed, &products); err != nil {
			return nil, fmt.Errorf("%w: list products: %v", ErrMalformedResponse, err)
		}
		return products, nil
	}

	var page struct {
		Results []domain.Product `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("%w: list products: %v", ErrMalformedResponse, err)
	}
	return page.Results, nil
}

// GetProduct fetches one product by slug. A 404 is reported as
// domain.ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, slug string) (domain.Product, error) {
	if slug == "" {
		return domain.Product{}, errors.New("slug required")
	}
	var out domain.Product
	err := c.do(ctx, http.MethodGet, "/shop/products/"+url.PathEscape(slug)+"/", nil, nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.Product{}, fmt.Errorf("%w: %w", domain.ErrNotFound, err)
		}
		return domain.Product{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "shopapi "+method+" "+path,
		trace.WithAttributes(attribute.String("shopapi.path", path)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	traceID := "-"
	if sc := span.SpanContext(); sc.IsValid() {
		traceID = sc.TraceID().String()
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("shopapi: %s %s trace=%s error=%v", method, path, traceID, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.logger.Printf("shopapi: %s %s status=%d duration=%s trace=%s", method, path, resp.StatusCode, time.Since(start), traceID)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}
