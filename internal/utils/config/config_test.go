package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/justthetip/internal/types/environments"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("WITHDRAWAL_TIMEOUT", "")
	t.Setenv("MULTISIG_REJECTION_THRESHOLD", "")
	t.Setenv("RATE_LIMIT_BACKEND", "")
	t.Setenv("WITHDRAWAL_AUTO_APPROVE_SOL", "")

	cfg := New()

	assert.Equal(t, environments.Test, cfg.Environment)
	assert.Equal(t, 24*time.Hour, cfg.Withdrawal.Timeout)
	assert.Equal(t, 7*24*time.Hour, cfg.MultiSig.ProposalTTL)
	assert.Equal(t, 1, cfg.MultiSig.RejectionThreshold)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, "0.1", cfg.Withdrawal.AutoApproveThresholds["SOL"])
	assert.Equal(t, "@every 5m", cfg.Cron.WithdrawalSweep)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("WITHDRAWAL_TIMEOUT", "2h")
	t.Setenv("MULTISIG_REJECTION_THRESHOLD", "2")
	t.Setenv("RATE_LIMIT_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg := New()

	assert.Equal(t, 2*time.Hour, cfg.Withdrawal.Timeout)
	assert.Equal(t, 2, cfg.MultiSig.RejectionThreshold)
	assert.Equal(t, "redis", cfg.RateLimit.Backend)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestEnvVarAtoi_PanicsOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")

	assert.Panics(t, func() { envVarAtoi("SOME_INT", 0) })
}

func TestSignerConfig_ReconcileWindow(t *testing.T) {
	assert.Equal(t, 10*time.Minute, SignerConfig{}.ReconcileWindow())
	assert.Equal(t, 3*time.Minute, SignerConfig{ReconcileAfter: 3 * time.Minute, Timeout: 30 * time.Second}.ReconcileWindow())
	assert.Equal(t, 4*time.Minute, SignerConfig{ReconcileAfter: time.Minute, Timeout: 2 * time.Minute}.ReconcileWindow())
}
