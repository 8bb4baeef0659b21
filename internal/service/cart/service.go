package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	cartstore "association-storefront/internal/cart"
	"association-storefront/internal/domain"
)

var (
	ErrInvalidSelection = errors.New("invalid product selection")
	ErrOutOfStock       = errors.New("product out of stock")
)

type catalog interface {
	Get(ctx context.Context, slug string) (domain.Product, error)
}

// Service applies buyer actions to a profile's cart. Product data comes
// from the catalog, never from the request.
type Service struct {
	catalog catalog
}

func New(catalog catalog) *Service {
	return &Service{catalog: catalog}
}

type AddInput struct {
	Slug     string `json:"slug"`
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

type UpdateInput struct {
	Quantity int    `json:"quantity"`
	Color    string `json:"color"`
	Size     string `json:"size"`
}

// View is the cart as returned to the browser.
type View struct {
	Items []domain.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
	Count int               `json:"count"`
}

// Snapshot reads the store once so items, total and count agree.
func Snapshot(store *cartstore.Store) View {
	items := store.Items()
	return View{
		Items: items,
		Total: domain.CartTotal(items),
		Count: domain.CartCount(items),
	}
}

// Add resolves the product by slug and adds it to store. An omitted quantity
// means one; non-positive quantities reach the store and are ignored there.
func (s *Service) Add(ctx context.Context, store *cartstore.Store, in AddInput) (View, error) {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		return View{}, errors.New("slug required")
	}
	product, err := s.catalog.Get(ctx, slug)
	if err != nil {
		return View{}, err
	}

	color, size := strings.TrimSpace(in.Color), strings.TrimSpace(in.Size)
	if !product.HasColor(color) {
		return View{}, fmt.Errorf("%w: color %q", ErrInvalidSelection, color)
	}
	if !product.HasSize(size) {
		return View{}, fmt.Errorf("%w: size %q", ErrInvalidSelection, size)
	}
	if product.Stock != nil && *product.Stock <= 0 {
		return View{}, ErrOutOfStock
	}

	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	store.AddItem(domain.CartItem{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Image:    product.Image,
		Quantity: qty,
		Color:    color,
		Size:     size,
	})
	return Snapshot(store), nil
}

func (s *Service) Update(store *cartstore.Store, id int64, in UpdateInput) View {
	store.UpdateQuantity(id, in.Quantity, strings.TrimSpace(in.Color), strings.TrimSpace(in.Size))
	return Snapshot(store)
}

func (s *Service) Remove(store *cartstore.Store, id int64, color, size string) View {
	store.RemoveItem(id, strings.TrimSpace(color), strings.TrimSpace(size))
	return Snapshot(store)
}

func (s *Service) Clear(store *cartstore.Store) View {
	store.Clear()
	return Snapshot(store)
}
