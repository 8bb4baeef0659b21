package seed

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"association-storefront/internal/cart"
	"association-storefront/internal/domain"
	"association-storefront/internal/service/session"
)

// CartSource hands out the live cart of a profile. *session.Manager
// satisfies it; writing through the live store keeps loaded profiles and
// their storage slot in step.
type CartSource interface {
	Cart(ctx context.Context, profileID string) (*cart.Store, error)
}

// Result describes the seeded cart.
type Result struct {
	ProfileID string          `json:"profile_id"`
	Lines     int             `json:"lines"`
	Units     int             `json:"units"`
	Total     decimal.Decimal `json:"total"`
}

var demoItems = []domain.CartItem{
	{
		ID:       1,
		Name:     "Association Hoodie",
		Price:    decimal.RequireFromString("80.00"),
		Image:    "/media/shop/hoodie.jpg",
		Quantity: 1,
		Color:    "navy",
		Size:     "L",
	},
	{
		ID:       2,
		Name:     "Association Mug",
		Price:    decimal.RequireFromString("12.50"),
		Image:    "/media/shop/mug.jpg",
		Quantity: 2,
	},
}

// Apply replaces the cart of profileID with the demo cart. An empty
// profileID gets a fresh one, which is returned in the Result.
func Apply(ctx context.Context, carts CartSource, profileID string, logger *log.Logger) (Result, error) {
	if profileID == "" {
		profileID = session.NewProfileID()
	}
	if !session.ValidProfileID(profileID) {
		return Result{}, fmt.Errorf("%w: %q", session.ErrInvalidProfile, profileID)
	}

	store, err := carts.Cart(ctx, profileID)
	if err != nil {
		return Result{}, fmt.Errorf("load cart: %w", err)
	}
	store.Clear()
	for _, item := range demoItems {
		store.AddItem(item)
	}

	res := Result{
		ProfileID: profileID,
		Lines:     len(store.Items()),
		Units:     store.Count(),
		Total:     store.Total(),
	}
	if logger != nil {
		logger.Printf("seed: wrote demo cart profile=%s items=%d", profileID, res.Lines)
	}
	return res, nil
}
