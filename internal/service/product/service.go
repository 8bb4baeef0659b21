package product

import (
	"context"
	"errors"
	"strings"

	"association-storefront/internal/domain"
)

type catalogClient interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, slug string) (domain.Product, error)
}

// Service is the read side of the shop catalog. Prices shown to the buyer
// and put into carts always come from here.
type Service struct {
	client catalogClient
}

func New(client catalogClient) *Service {
	return &Service{client: client}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *Service) Get(ctx context.Context, slug string) (domain.Product, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return domain.Product{}, errors.New("slug required")
	}
	return s.client.GetProduct(ctx, slug)
}
