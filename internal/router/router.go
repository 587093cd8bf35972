package router

import (
	"github.com/gin-gonic/gin"

	"tunadex/internal/handler"
	"tunadex/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	payloadH *handler.PayloadHandler,
	reportH *handler.ReportHandler,
	trawlH *handler.TrawlHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	payloads := v1.Group("/payloads")
	payloads.GET("", payloadH.ListDates)
	payloads.GET("/range", payloadH.GetRange)
	payloads.GET("/:date", payloadH.GetByDate)
	payloads.GET("/:date/anomalies", payloadH.GetAnomalies)
	payloads.GET("/:date/export.csv", payloadH.ExportCSV)

	reports := v1.Group("/reports")
	reports.GET("/daily/:date", reportH.Daily)
	reports.GET("/weekly/:date", reportH.Weekly)
	reports.GET("/monthly/:date", reportH.Monthly)

	trawl := v1.Group("/trawl")
	trawl.POST("/run", trawlH.Run)

	return r
}
