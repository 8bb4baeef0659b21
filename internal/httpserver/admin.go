package httpserver

import (
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"association-storefront/internal/importer"
	"association-storefront/internal/seed"
	"association-storefront/internal/service/session"
)

const maxImportBytes = 1 << 20

// NewAdmin builds the operator listener used by the seed and importer
// commands. It writes through the same session manager as the storefront,
// so loaded profiles see the change immediately. It has no authentication
// and should stay on a loopback address.
func NewAdmin(addr string, logger *log.Logger, sessions *session.Manager) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           otelhttp.NewHandler(buildAdminRouter(logger, sessions), "storefront-admin"),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func buildAdminRouter(logger *log.Logger, sessions *session.Manager) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	router.GET("/healthz", healthHandler)
	admin := router.Group("/admin/profiles")
	admin.POST("/seed", seedHandler(sessions, logger))
	admin.POST("/:id/seed", seedHandler(sessions, logger))
	admin.POST("/:id/import", importHandler(sessions, logger))
	return router
}

func seedHandler(sessions *session.Manager, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := seed.Apply(c.Request.Context(), sessions, c.Param("id"), logger)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, res)
		case errors.Is(err, session.ErrInvalidProfile):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		default:
			logger.Printf("admin: seed profile=%s error=%v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "seed failed"})
		}
	}
}

// ImportResult is the body returned by the import endpoint.
type ImportResult struct {
	ProfileID string `json:"profile_id"`
	importer.Stats
	Units int `json:"units"`
}

func importHandler(sessions *session.Manager, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		store, err := sessions.Cart(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
			return
		}

		body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
		stats, err := importer.NewCSVImporter(body, store).Run()
		if err != nil {
			logger.Printf("admin: import profile=%s error=%v", id, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Printf("admin: imported profile=%s added=%d skipped=%d", id, stats.Added, stats.Skipped)
		c.JSON(http.StatusOK, ImportResult{ProfileID: id, Stats: stats, Units: store.Count()})
	}
}
