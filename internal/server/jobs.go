package server

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/dwarvesf/justthetip/internal/monitoring"
	"github.com/dwarvesf/justthetip/internal/ratelimit"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

const (
	jobWithdrawalSweep  = "withdrawal_expiry_sweep"
	jobMultiSigSweep    = "multisig_expiry_sweep"
	jobRateLimitCleanup = "rate_limit_cleanup"

	jobTimeout = 2 * time.Minute
)

// expirer is the sweep surface shared by the withdrawal queue and the multisig manager.
type expirer interface {
	CleanupExpired(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

type scheduledJob struct {
	name     string
	schedule string
	run      func(ctx context.Context) error
}

// expirySweep closes stale records then publishes how many are still waiting.
func expirySweep(e expirer, kind string, metrics *monitoring.BackgroundJobMetrics, logger *logger.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		closed, err := e.CleanupExpired(ctx)
		if err != nil {
			return errors.Wrapf(err, "expire %s", kind)
		}

		pending, err := e.CountPending(ctx)
		if err != nil {
			return errors.Wrapf(err, "count pending %s", kind)
		}
		metrics.SetPending(kind, pending)

		logger.Debug("[expirySweep] done", map[string]string{
			"kind":    kind,
			"closed":  strconv.FormatInt(closed, 10),
			"pending": strconv.FormatInt(pending, 10),
		})
		return nil
	}
}

func rateLimitCleanup(limiter ratelimit.ILimiter) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := limiter.Cleanup(ctx)
		return err
	}
}

// scheduleJobs wraps every job in an InstrumentedJob so /api/v1/health/jobs and the
// job metrics see it, then registers it on c.
func scheduleJobs(c *cron.Cron, jobs []scheduledJob, jsm *monitoring.JobStatusManager, logger *logger.Logger) error {
	for _, job := range jobs {
		instrumented := monitoring.NewInstrumentedJob(job.name, job.run, jsm, logger, jobTimeout)
		if _, err := c.AddJob(job.schedule, instrumented); err != nil {
			return errors.Wrapf(err, "schedule %s (%s)", job.name, job.schedule)
		}
		logger.Info("[scheduleJobs] job scheduled", map[string]string{
			"job":      job.name,
			"schedule": job.schedule,
		})
	}
	return nil
}
