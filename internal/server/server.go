package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/justthetip/internal/audit"
	"github.com/dwarvesf/justthetip/internal/balance"
	"github.com/dwarvesf/justthetip/internal/executor"
	"github.com/dwarvesf/justthetip/internal/handler"
	"github.com/dwarvesf/justthetip/internal/handler/health"
	"github.com/dwarvesf/justthetip/internal/monitoring"
	"github.com/dwarvesf/justthetip/internal/multisig"
	"github.com/dwarvesf/justthetip/internal/ratelimit"
	"github.com/dwarvesf/justthetip/internal/store"
	pgstore "github.com/dwarvesf/justthetip/internal/store/postgres"
	transport "github.com/dwarvesf/justthetip/internal/transport/http"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/utils/vault"
	"github.com/dwarvesf/justthetip/internal/utils/webhook"
	"github.com/dwarvesf/justthetip/internal/withdrawal"
)

const signerTokenKey = "signer_api_token"

func Init() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)
	defer logger.Sync()

	loadSecrets(appConfig, logger)

	db := pgstore.New(appConfig, logger)
	s := store.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)
	apiMetrics := monitoring.NewExternalAPIMetrics()
	apiMetrics.MustRegister(registry)
	jobMetrics := monitoring.NewBackgroundJobMetrics()
	jobMetrics.MustRegister(registry)
	recorder := monitoring.NewBusinessMetricsRecorder(httpMetrics)

	signer, err := monitoring.NewCircuitBreakerExecutor(
		executor.New(appConfig, logger),
		monitoring.CircuitBreakerConfigs[monitoring.SignerAPI],
		monitoring.TimeoutConfig{
			RequestTimeout:     appConfig.Signer.Timeout,
			HealthCheckTimeout: monitoring.DefaultTimeoutConfig.HealthCheckTimeout,
		},
		apiMetrics,
		logger,
	)
	if err != nil {
		logger.Fatal("[server.Init][NewCircuitBreakerExecutor]", map[string]string{
			"error": err.Error(),
		})
	}

	kafkaWriter := audit.NewKafkaWriter(appConfig)
	var auditWriter audit.MessageWriter
	if kafkaWriter != nil {
		auditWriter = kafkaWriter
		defer kafkaWriter.Close()
	}
	auditor := audit.New(db, s, auditWriter, logger)
	notifier := webhook.New(appConfig.Admin.WebhookURL, logger)

	queue, err := withdrawal.New(db, s, balance.New(db, s), signer, auditor, notifier, recorder, appConfig, logger)
	if err != nil {
		logger.Fatal("[server.Init][withdrawal.New]", map[string]string{
			"error": err.Error(),
		})
	}
	manager, err := multisig.New(db, s, signer, auditor, notifier, recorder, appConfig, logger)
	if err != nil {
		logger.Fatal("[server.Init][multisig.New]", map[string]string{
			"error": err.Error(),
		})
	}

	externals := map[string]health.Pinger{monitoring.SignerAPI: signer}
	limiter, redisStore := newLimiter(appConfig, logger)
	if redisStore != nil {
		externals["rate_limit_store"] = redisStore
	}

	jsm := monitoring.NewJobStatusManager(logger, jobMetrics)
	c := cron.New()
	err = scheduleJobs(c, []scheduledJob{
		{name: jobWithdrawalSweep, schedule: appConfig.Cron.WithdrawalSweep, run: expirySweep(queue, "withdrawal", jobMetrics, logger)},
		{name: jobMultiSigSweep, schedule: appConfig.Cron.MultiSigSweep, run: expirySweep(manager, "multisig_proposal", jobMetrics, logger)},
		{name: jobRateLimitCleanup, schedule: appConfig.Cron.RateLimitCleanup, run: rateLimitCleanup(limiter)},
	}, jsm, logger)
	if err != nil {
		logger.Fatal("[server.Init][scheduleJobs]", map[string]string{
			"error": err.Error(),
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go jsm.Start(ctx)
	c.Start()
	defer c.Stop()

	h := handler.New(appConfig, logger, queue, manager, auditor, db, externals, registry, jsm)
	srv := &http.Server{
		Addr:    ":" + appConfig.ApiServer.Port,
		Handler: transport.NewHttpServer(appConfig, logger, h, limiter, httpMetrics),
	}

	go func() {
		logger.Info("[server.Init] listening", map[string]string{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("[server.Init][ListenAndServe]", map[string]string{
				"error": err.Error(),
			})
		}
	}()

	<-ctx.Done()
	logger.Info("[server.Init] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("[server.Init][Shutdown]", map[string]string{
			"error": err.Error(),
		})
	}
}

// newLimiter picks the counter store. The redis store is returned separately so
// the health check can ping it.
func newLimiter(appConfig *config.AppConfig, logger *logger.Logger) (ratelimit.ILimiter, *ratelimit.RedisStore) {
	if appConfig.RateLimit.Backend != "redis" {
		return ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.DefaultRules(), logger), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     appConfig.Redis.Addr,
		Password: appConfig.Redis.Password,
		DB:       appConfig.Redis.DB,
	})
	redisStore := ratelimit.NewRedisStore(client)
	return ratelimit.New(redisStore, ratelimit.DefaultRules(), logger), redisStore
}

// loadSecrets replaces the signer token with the one stored in vault when vault is configured.
func loadSecrets(appConfig *config.AppConfig, logger *logger.Logger) {
	if appConfig.Vault.Addr == "" {
		return
	}

	client, err := vault.New(appConfig.Vault.Addr, appConfig.Vault.KVPath, appConfig.Vault.Role)
	if err != nil {
		logger.Fatal("[loadSecrets][vault.New]", map[string]string{
			"error": err.Error(),
		})
	}
	token, err := client.GetKV(signerTokenKey)
	if err != nil {
		logger.Fatal("[loadSecrets][GetKV]", map[string]string{
			"key":   signerTokenKey,
			"error": err.Error(),
		})
	}
	appConfig.Signer.APIToken = token
}
