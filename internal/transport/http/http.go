package http

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"     // swagger embed files
	ginSwagger "github.com/swaggo/gin-swagger" // gin-swagger middleware

	_ "github.com/dwarvesf/justthetip/docs"
	"github.com/dwarvesf/justthetip/internal/consts"
	"github.com/dwarvesf/justthetip/internal/handler"
	"github.com/dwarvesf/justthetip/internal/monitoring"
	"github.com/dwarvesf/justthetip/internal/ratelimit"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

// setupCORS is skipped when no origin is configured; the bot calls server to server.
func setupCORS(r *gin.Engine, cfg *config.AppConfig) {
	if cfg.ApiServer.AllowedOrigins == "" {
		return
	}
	corsOrigins := strings.Split(cfg.ApiServer.AllowedOrigins, ";")
	r.Use(cors.New(
		cors.Config{
			AllowOrigins: corsOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
			AllowHeaders: []string{
				"Origin", "Host", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Accept",
				"Authorization", "X-Requested-With", consts.HeaderUserID,
			},
			ExposeHeaders:    []string{"Retry-After"},
			AllowCredentials: true,
		},
	))
}

func NewHttpServer(appConfig *config.AppConfig, logger *logger.Logger, h *handler.Handler, limiter ratelimit.ILimiter, httpMetrics *monitoring.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		gin.Recovery(),
		monitoring.HTTPMetricsMiddleware(httpMetrics),
	)
	setupCORS(r, appConfig)

	// use ginSwagger middleware to serve the API docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", h.HealthHandler.Basic)
	r.GET("/metrics", h.MetricsHandler.Handler())

	loadV1Routes(r, h, limiter, monitoring.NewBusinessMetricsRecorder(httpMetrics), appConfig, logger)

	return r
}
