package product

import (
	"context"
	"testing"

	"association-storefront/internal/domain"
)

type stubClient struct {
	products []domain.Product
	lastSlug string
}

func (s *stubClient) ListProducts(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubClient) GetProduct(_ context.Context, slug string) (domain.Product, error) {
	s.lastSlug = slug
	return domain.Product{Slug: slug}, nil
}

func TestList_NilBecomesEmpty(t *testing.T) {
	svc := New(&stubClient{})

	products, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", products)
	}
}

func TestGet_NormalizesSlug(t *testing.T) {
	client := &stubClient{}
	svc := New(client)

	if _, err := svc.Get(context.Background(), "  Hoodie "); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if client.lastSlug != "hoodie" {
		t.Fatalf("expected normalized slug, got %q", client.lastSlug)
	}
}

func TestGet_EmptySlug(t *testing.T) {
	client := &stubClient{}
	svc := New(client)

	if _, err := svc.Get(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty slug")
	}
	if client.lastSlug != "" {
		t.Fatalf("expected no catalog call")
	}
}
