package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Buyer holds the checkout form fields.
type Buyer struct {
	FullName string `json:"full_name" form:"full_name" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Phone    string `json:"phone" form:"phone" validate:"required,phone"`
	Address  string `json:"address" form:"address" validate:"required"`
}

// OrderRequest is the body of the create-order call.
type OrderRequest struct {
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	Address  string      `json:"address"`
	Items    []OrderLine `json:"items"`
}

type OrderLine struct {
	ID            int64  `json:"id"`
	Quantity      int    `json:"quantity"`
	SelectedColor string `json:"selected_color,omitempty"`
	SelectedSize  string `json:"selected_size,omitempty"`
}

// OrderCreated is the create-order response. AuthorizationURL is the
// payment gateway page the buyer is sent to.
type OrderCreated struct {
	AuthorizationURL string `json:"authorization_url,omitempty"`
	Reference        string `json:"reference,omitempty"`
	OrderID          int64  `json:"order_id,omitempty"`
}

type VerifiedOrder struct {
	ID               int64               `json:"id"`
	FullName         string              `json:"full_name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	Address          string              `json:"address"`
	TotalAmount      decimal.Decimal     `json:"total_amount"`
	Status           string              `json:"status"`
	VerificationCode string              `json:"verification_code"`
	Items            []VerifiedOrderItem `json:"items"`
}

type VerifiedOrderItem struct {
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	SelectedColor string          `json:"selected_color,omitempty"`
	SelectedSize  string          `json:"selected_size,omitempty"`
}

// NewOrderRequest maps the cart lines and buyer fields to a create-order
// body. Variant selections travel as selected_color/selected_size so that
// two lines of the same product stay distinguishable.
func NewOrderRequest(b Buyer, items []CartItem) OrderRequest {
	lines := make([]OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, OrderLine{
			ID:            it.ID,
			Quantity:      it.Quantity,
			SelectedColor: it.Color,
			SelectedSize:  it.Size,
		})
	}
	return OrderRequest{
		FullName: b.FullName,
		Email:    b.Email,
		Phone:    b.Phone,
		Address:  b.Address,
		Items:    lines,
	}
}

// Receipt is announced once a payment has been verified.
type Receipt struct {
	Reference  string        `json:"reference"`
	Order      VerifiedOrder `json:"order"`
	VerifiedAt time.Time     `json:"verified_at"`
}
