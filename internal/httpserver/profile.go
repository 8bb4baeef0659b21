package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"association-storefront/internal/cart"
	"association-storefront/internal/service/session"
)

const (
	profileCookie = "profile_id"
	profileMaxAge = 365 * 24 * 60 * 60

	profileIDKey = "profileID"
	cartStoreKey = "cartStore"
)

// profileMiddleware resolves the browser profile from its cookie, issuing a
// new one when missing or malformed, and puts the profile's cart store on
// the context.
func profileMiddleware(sessions *session.Manager, secure bool, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(profileCookie)
		if err != nil || !session.ValidProfileID(id) {
			id = session.NewProfileID()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     profileCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   profileMaxAge,
				HttpOnly: true,
				Secure:   secure,
				// Lax keeps the cookie on the top-level redirect back from
				// the payment gateway.
				SameSite: http.SameSiteLaxMode,
			})
		}

		store, err := sessions.Cart(c.Request.Context(), id)
		if err != nil {
			logger.Printf("profile: load cart profile=%s error=%v", id, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "profile unavailable"})
			return
		}
		c.Set(profileIDKey, id)
		c.Set(cartStoreKey, store)
		c.Next()
	}
}

func cartFrom(c *gin.Context) *cart.Store {
	return c.MustGet(cartStoreKey).(*cart.Store)
}
