package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docinsight/internal/handler"
	"docinsight/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	allowedOrigins []string,
	gatherer prometheus.Gatherer,
	insightH *handler.InsightHandler,
	shippingH *handler.ShippingHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks and metrics
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")

	csv := v1.Group("/csv")
	csv.POST("/ask", insightH.Ask)
	csv.POST("/chart", insightH.Chart)
	csv.POST("/analyze", insightH.Analyze)

	shipping := v1.Group("/shipping")
	shipping.POST("/extract", shippingH.Extract)
	shipping.POST("/export", shippingH.Export)

	return r
}
