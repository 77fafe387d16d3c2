package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/monitoring"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/ratelimit"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/security"
)

// NewRouter wires the gin engine: middleware, the form and predict routes,
// health, and Prometheus metrics.
func NewRouter(h *Handler, metrics *monitoring.Metrics, logger *monitoring.Logger, limiter *ratelimit.RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.MonitoringMiddleware(metrics, logger))
	router.Use(security.SecurityHeadersMiddleware())
	router.Use(limiter.IPRateLimitMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", h.Index)
	router.POST("/predict", limiter.PredictRateLimitMiddleware(), h.Predict)
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
