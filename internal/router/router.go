package router

import (
	"github.com/gin-gonic/gin"

	"pargen/internal/config"
	"pargen/internal/handler"
	"pargen/internal/middleware"
	"pargen/internal/web"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	submissionH *handler.SubmissionHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	r.SetHTMLTemplate(web.Templates())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Browser flow
	r.GET("/", submissionH.Index)
	r.POST("/", submissionH.Submit)
	r.GET("/processing", submissionH.Processing)
	r.GET("/status", submissionH.Status)
	r.GET("/results", submissionH.Results)
	r.GET("/download_file", submissionH.Download)
	r.GET("/test_s3", submissionH.TestS3)

	return r
}
