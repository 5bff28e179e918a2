package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dwarvesf/justthetip/internal/types/environments"
)

type AppConfig struct {
	Environment environments.Environment
	ApiServer   ApiServerConfig
	Postgres    DBConnection
	Redis       RedisConfig
	RateLimit   RateLimitConfig
	Withdrawal  WithdrawalConfig
	MultiSig    MultiSigConfig
	Signer      SignerConfig
	Vault       VaultConfig
	Kafka       KafkaConfig
	Admin       AdminConfig
	Cron        CronConfig
}

type ApiServerConfig struct {
	AllowedOrigins string
	Port           string
}

type DBConnection struct {
	Host string
	Port string
	User string
	Name string
	Pass string

	SSLMode string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	// Backend is either "memory" (single bot instance) or "redis" (shared counters).
	Backend string
}

type WithdrawalConfig struct {
	Timeout time.Duration
	// AutoApproveThresholds maps currency to a human-unit decimal string, e.g. SOL -> "0.1".
	AutoApproveThresholds map[string]string
	MaxAmount             string
}

type MultiSigConfig struct {
	Thresholds         map[string]string
	ProposalTTL        time.Duration
	RejectionThreshold int
}

type SignerConfig struct {
	APIURL   string
	APIToken string
	Timeout  time.Duration
	// ReconcileAfter is how long a claimed transfer may go without a stored outcome
	// before the sweeps mark it FAILED for manual reconciliation.
	ReconcileAfter time.Duration
}

type VaultConfig struct {
	Addr   string
	KVPath string
	Role   string
}

type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

type AdminConfig struct {
	JWTSecret  string
	WebhookURL string
}

type CronConfig struct {
	WithdrawalSweep  string
	MultiSigSweep    string
	RateLimitCleanup string
}

const defaultReconcileAfter = 10 * time.Minute

// ReconcileWindow is ReconcileAfter, never shorter than twice the signer timeout.
func (c SignerConfig) ReconcileWindow() time.Duration {
	d := c.ReconcileAfter
	if d <= 0 {
		d = defaultReconcileAfter
	}
	if d < 2*c.Timeout {
		d = 2 * c.Timeout
	}
	return d
}

func New() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// this will not override env variables if they already exist
	godotenv.Load(".env." + env)

	return &AppConfig{
		Environment: environments.Environment(env),
		ApiServer: ApiServerConfig{
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
			Port:           envOrDefault("PORT", "8080"),
		},
		Postgres: DBConnection{
			Host:    os.Getenv("DB_HOST"),
			Port:    os.Getenv("DB_PORT"),
			User:    os.Getenv("DB_USER"),
			Name:    os.Getenv("DB_NAME"),
			Pass:    os.Getenv("DB_PASS"),
			SSLMode: envOrDefault("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envVarAtoi("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Backend: envOrDefault("RATE_LIMIT_BACKEND", "memory"),
		},
		Withdrawal: WithdrawalConfig{
			Timeout: envVarAsDuration("WITHDRAWAL_TIMEOUT", 24*time.Hour),
			AutoApproveThresholds: map[string]string{
				"SOL":  envOrDefault("WITHDRAWAL_AUTO_APPROVE_SOL", "0.1"),
				"USDC": envOrDefault("WITHDRAWAL_AUTO_APPROVE_USDC", "10"),
			},
			MaxAmount: envOrDefault("WITHDRAWAL_MAX_AMOUNT", "1000000"),
		},
		MultiSig: MultiSigConfig{
			Thresholds: map[string]string{
				"SOL":  envOrDefault("MULTISIG_THRESHOLD_SOL", "10"),
				"USDC": envOrDefault("MULTISIG_THRESHOLD_USDC", "1000"),
			},
			ProposalTTL:        envVarAsDuration("MULTISIG_PROPOSAL_TTL", 7*24*time.Hour),
			RejectionThreshold: envVarAtoi("MULTISIG_REJECTION_THRESHOLD", 1),
		},
		Signer: SignerConfig{
			APIURL:   os.Getenv("SIGNER_API_URL"),
			APIToken: os.Getenv("SIGNER_API_TOKEN"),
			Timeout:  envVarAsDuration("SIGNER_API_TIMEOUT", 30*time.Second),
			// keep well above the signer timeout so an in-flight transfer is never swept
			ReconcileAfter: envVarAsDuration("SIGNER_RECONCILE_AFTER", defaultReconcileAfter),
		},
		Vault: VaultConfig{
			Addr:   os.Getenv("VAULT_ADDR"),
			KVPath: os.Getenv("VAULT_KV_PATH"),
			Role:   os.Getenv("VAULT_ROLE"),
		},
		Kafka: KafkaConfig{
			Brokers:    envVarAsList("KAFKA_BROKERS"),
			AuditTopic: envOrDefault("KAFKA_AUDIT_TOPIC", "justthetip.audit"),
		},
		Admin: AdminConfig{
			JWTSecret:  os.Getenv("ADMIN_JWT_SECRET"),
			WebhookURL: os.Getenv("ADMIN_WEBHOOK_URL"),
		},
		Cron: CronConfig{
			WithdrawalSweep:  envOrDefault("CRON_WITHDRAWAL_SWEEP", "@every 5m"),
			MultiSigSweep:    envOrDefault("CRON_MULTISIG_SWEEP", "@every 15m"),
			RateLimitCleanup: envOrDefault("CRON_RATE_LIMIT_CLEANUP", "@every 5m"),
		},
	}
}

func envOrDefault(envName, fallback string) string {
	if v := os.Getenv(envName); v != "" {
		return v
	}

	return fallback
}

func envVarAtoi(envName string, fallback int) int {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		panic(err)
	}

	return value
}

func envVarAsDuration(envName string, fallback time.Duration) time.Duration {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return fallback
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		panic(err)
	}

	return value
}

func envVarAsList(envName string) []string {
	valueStr := os.Getenv(envName)
	if valueStr == "" {
		return nil
	}

	items := []string{}
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}
