package http

import (
	"github.com/gin-gonic/gin"

	"github.com/dwarvesf/justthetip/internal/consts"
	"github.com/dwarvesf/justthetip/internal/handler"
	"github.com/dwarvesf/justthetip/internal/monitoring"
	"github.com/dwarvesf/justthetip/internal/ratelimit"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

func loadV1Routes(r *gin.Engine, h *handler.Handler, limiter ratelimit.ILimiter, recorder *monitoring.BusinessMetricsRecorder, appConfig *config.AppConfig, logger *logger.Logger) {
	limit := func(commandType string) gin.HandlerFunc {
		return RateLimit(limiter, commandType, recorder, logger)
	}
	bot := RequireRole(consts.RoleBot)
	admin := RequireRole(consts.RoleAdmin)

	v1 := r.Group("/api/v1")

	health := v1.Group("/health")
	{
		health.GET("/db", h.HealthHandler.Database)
		health.GET("/external", h.HealthHandler.External)
		health.GET("/jobs", h.HealthHandler.Jobs)
	}

	api := v1.Group("", Authenticate(appConfig.Admin.JWTSecret, logger))

	withdrawals := api.Group("/withdrawals")
	{
		withdrawals.POST("", bot, limit(ratelimit.CommandWithdraw), h.WithdrawalHandler.RequestWithdrawal)
		withdrawals.GET("/pending", admin, h.WithdrawalHandler.GetPendingWithdrawals)
		withdrawals.POST("/:id/approve", admin, h.WithdrawalHandler.ApproveWithdrawal)
		withdrawals.POST("/:id/reject", admin, h.WithdrawalHandler.RejectWithdrawal)
	}
	api.GET("/users/:user_id/withdrawals", bot, limit(ratelimit.CommandBalance), h.WithdrawalHandler.GetUserWithdrawals)

	multisig := api.Group("/multisig")
	{
		multisig.POST("", admin, h.MultiSigHandler.CreateMultiSig)
		multisig.GET("/requires", bot, h.MultiSigHandler.RequiresMultiSig)
		multisig.POST("/:address/proposals", bot, limit(ratelimit.CommandMultiSig), h.MultiSigHandler.CreateProposal)
		multisig.GET("/proposals/pending", admin, h.MultiSigHandler.GetPendingProposals)
		multisig.POST("/proposals/:id/approve", bot, limit(ratelimit.CommandMultiSig), h.MultiSigHandler.ApproveProposal)
		multisig.POST("/proposals/:id/reject", bot, limit(ratelimit.CommandMultiSig), h.MultiSigHandler.RejectProposal)
	}

	api.POST("/validate/transaction", bot, limit(ratelimit.CommandTip), h.ValidateHandler.ValidateTransaction)
	api.GET("/audit", admin, h.AuditHandler.ListAuditLogs)
}
