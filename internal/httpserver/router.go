package httpserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// buildRouter wires routes for the storefront.
func buildRouter(logger *log.Logger, deps Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if deps.CartURL == "" {
		deps.CartURL = "/cart"
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Storage))

	products := router.Group("/api/products")
	products.GET("", listProductsHandler(deps))
	products.GET("/:slug", getProductHandler(deps))

	withProfile := profileMiddleware(deps.Sessions, deps.CookieSecure, logger)

	cart := router.Group("/api/cart", withProfile)
	cart.GET("", getCartHandler)
	cart.DELETE("", clearCartHandler(deps))
	cart.POST("/items", addItemHandler(deps))
	cart.PATCH("/items/:id", updateItemHandler(deps))
	cart.DELETE("/items/:id", removeItemHandler(deps))

	checkoutGroup := router.Group("/api/checkout", withProfile)
	checkoutGroup.GET("", startCheckoutHandler(deps))
	checkoutGroup.POST("", submitCheckoutHandler(deps))

	router.GET("/payment/return", withProfile, paymentReturnHandler(deps))

	return router
}
