package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"association-storefront/internal/domain"
	cartsvc "association-storefront/internal/service/cart"
	"association-storefront/internal/shopapi"
)

func getCartHandler(c *gin.Context) {
	c.JSON(http.StatusOK, cartsvc.Snapshot(cartFrom(c)))
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, deps.Cart.Clear(cartFrom(c)))
	}
}

func addItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in cartsvc.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		if strings.TrimSpace(in.Slug) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "slug required"})
			return
		}

		view, err := deps.Cart.Add(c.Request.Context(), cartFrom(c), in)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, view)
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, cartsvc.ErrInvalidSelection):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, cartsvc.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": shopapi.UserMessage(err)})
		}
	}
}

func updateItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		var in cartsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		c.JSON(http.StatusOK, deps.Cart.Update(cartFrom(c), id, in))
	}
}

func removeItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, deps.Cart.Remove(cartFrom(c), id, c.Query("color"), c.Query("size")))
	}
}

func itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, false
	}
	return id, true
}
