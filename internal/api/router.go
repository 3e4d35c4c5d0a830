package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groovecoder/ichnaea/internal/config"
	"github.com/groovecoder/ichnaea/internal/handler"
	"github.com/groovecoder/ichnaea/internal/metrics"
	"github.com/groovecoder/ichnaea/internal/middleware"
)

// Handlers groups the HTTP handlers wired into the router.
type Handlers struct {
	Locate *handler.LocateHandler
	Submit *handler.SubmitHandler
	Cell   *handler.CellHandler
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Cell catalog API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/geolocate", h.Locate.Geolocate)

		authed := v1.Group("")
		authed.Use(middleware.Auth(cfg.JWTSecret))
		{
			authed.POST("/submit", h.Submit.Submit)
			authed.GET("/cells", h.Cell.ListCells)
			authed.GET("/areas", h.Cell.GetArea)
			authed.POST("/areas/recompute", h.Cell.RecomputeAreas)
		}
	}

	return r
}
