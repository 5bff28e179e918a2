package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	auditService "github.com/dwarvesf/justthetip/internal/audit"
	"github.com/dwarvesf/justthetip/internal/handler/audit"
	"github.com/dwarvesf/justthetip/internal/handler/health"
	"github.com/dwarvesf/justthetip/internal/handler/metrics"
	"github.com/dwarvesf/justthetip/internal/handler/multisig"
	"github.com/dwarvesf/justthetip/internal/handler/validate"
	"github.com/dwarvesf/justthetip/internal/handler/withdrawal"
	"github.com/dwarvesf/justthetip/internal/monitoring"
	multisigService "github.com/dwarvesf/justthetip/internal/multisig"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	withdrawalService "github.com/dwarvesf/justthetip/internal/withdrawal"
)

type Handler struct {
	WithdrawalHandler withdrawal.IHandler
	MultiSigHandler   multisig.IHandler
	AuditHandler      audit.IHandler
	ValidateHandler   validate.IHandler
	HealthHandler     health.IHealthHandler
	MetricsHandler    *metrics.MetricsHandler
}

func New(appConfig *config.AppConfig, logger *logger.Logger,
	queue withdrawalService.IQueue,
	manager multisigService.IManager,
	auditor auditService.IAuditor,
	db *gorm.DB,
	externals map[string]health.Pinger,
	metricsRegistry *prometheus.Registry,
	jobStatusManager *monitoring.JobStatusManager) *Handler {
	return &Handler{
		WithdrawalHandler: withdrawal.New(queue, logger, appConfig),
		MultiSigHandler:   multisig.New(manager, logger),
		AuditHandler:      audit.New(auditor, logger),
		ValidateHandler:   validate.New(logger, appConfig),
		HealthHandler:     health.New(logger, db, externals, jobStatusManager),
		MetricsHandler:    metrics.NewMetricsHandler(metricsRegistry),
	}
}
