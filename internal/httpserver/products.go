package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"association-storefront/internal/domain"
	"association-storefront/internal/shopapi"
)

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := deps.Products.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": shopapi.UserMessage(err)})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := deps.Products.Get(c.Request.Context(), c.Param("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": shopapi.UserMessage(err)})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
