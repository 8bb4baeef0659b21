package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Colors      []string        `json:"colors,omitempty"`
	Sizes       []string        `json:"sizes,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
}

// HasColor reports whether color is one of the product's options. Products
// without color options accept only the empty selection.
func (p Product) HasColor(color string) bool {
	return hasOption(p.Colors, color)
}

func (p Product) HasSize(size string) bool {
	return hasOption(p.Sizes, size)
}

func hasOption(options []string, v string) bool {
	if v == "" {
		return true
	}
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}
