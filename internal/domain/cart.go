package domain

import "github.com/shopspring/decimal"

// CartItem is one line of a shopping cart. Color and Size are optional
// variant selections; an empty string means no selection.
type CartItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Color    string          `json:"color,omitempty"`
	Size     string          `json:"size,omitempty"`
}

// ItemKey identifies a cart line. Two items with the same product id but a
// different color or size are distinct lines.
type ItemKey struct {
	ID    int64
	Color string
	Size  string
}

func (i CartItem) Key() ItemKey {
	return ItemKey{ID: i.ID, Color: i.Color, Size: i.Size}
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartTotal sums LineTotal over items.
func CartTotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// CartCount is the number of units across items.
func CartCount(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
