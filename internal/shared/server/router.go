package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amargenjac/contract-clause-extractor/internal/extractions"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/config"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/metrics"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/server/middleware"
	"github.com/amargenjac/contract-clause-extractor/internal/shared/server/respond"
)

// RouterDeps carries the wired handlers the router needs.
type RouterDeps struct {
	Config             config.Config
	ExtractionsHandler *extractions.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.ExtractionsHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
