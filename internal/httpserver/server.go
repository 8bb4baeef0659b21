package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartsvc "association-storefront/internal/service/cart"
	"association-storefront/internal/service/checkout"
	"association-storefront/internal/service/payment"
	"association-storefront/internal/service/product"
	"association-storefront/internal/service/session"
)

// Pinger reports whether the client storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the HTTP layer dispatches to.
type Deps struct {
	Sessions *session.Manager
	Cart     *cartsvc.Service
	Products *product.Service
	Checkout *checkout.Service
	Payment  *payment.Service
	Storage  Pinger

	AllowedOrigins []string
	CookieSecure   bool
	// CartURL is where the browser is sent back to after a failed payment
	// or an empty checkout. Defaults to /cart.
	CartURL string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server with all storefront routes.
func New(addr string, logger *log.Logger, deps Deps) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(buildRouter(logger, deps), "storefront"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(storage Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if storage == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "storage not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := storage.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "storage not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
