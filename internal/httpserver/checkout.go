package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"association-storefront/internal/domain"
	"association-storefront/internal/service/payment"
	"association-storefront/internal/shopapi"
)

const emptyCartMessage = "Your cart is empty."

func startCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := deps.Checkout.Start(cartFrom(c))
		if a.State == domain.CheckoutEmpty {
			a.Message = emptyCartMessage
		}
		c.JSON(http.StatusOK, a)
	}
}

// submitCheckoutHandler accepts both JSON and classic form posts. Form posts
// are answered with a 303 to the payment page so the browser follows it.
func submitCheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		isForm := c.ContentType() != gin.MIMEJSON

		var buyer domain.Buyer
		if err := c.ShouldBind(&buyer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		store := cartFrom(c)
		a := deps.Checkout.Start(store)
		if a.State == domain.CheckoutFormEntry {
			if err := deps.Checkout.Submit(c.Request.Context(), a, store, buyer); err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
		}

		switch a.State {
		case domain.CheckoutRedirecting:
			if isForm {
				c.Redirect(http.StatusSeeOther, a.RedirectURL)
				return
			}
			c.JSON(http.StatusOK, a)
		case domain.CheckoutEmpty:
			if isForm {
				c.Redirect(http.StatusSeeOther, deps.CartURL)
				return
			}
			a.Message = emptyCartMessage
			c.JSON(http.StatusConflict, a)
		case domain.CheckoutFormEntry:
			c.JSON(http.StatusUnprocessableEntity, a)
		default:
			c.JSON(http.StatusBadGateway, a)
		}
	}
}

type paymentFailureView struct {
	payment.Result
	CartURL string `json:"cart_url"`
}

func paymentReturnHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := deps.Payment.Verify(c.Request.Context(), c.Request.URL.Query(), cartFrom(c))
		if res.State == domain.PaymentVerified {
			c.JSON(http.StatusOK, res)
			return
		}

		status := http.StatusBadGateway
		var apiErr *shopapi.APIError
		switch {
		case errors.Is(res.Err, payment.ErrMissingReference):
			status = http.StatusBadRequest
		case errors.As(res.Err, &apiErr) && apiErr.StatusCode < 500:
			status = http.StatusBadRequest
		}
		c.JSON(status, paymentFailureView{Result: res, CartURL: deps.CartURL})
	}
}
