package monitoring

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/dwarvesf/justthetip/internal/executor"
	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

// CircuitBreakerExecutor wraps executor.IExecutor with a circuit breaker, a
// request timeout and external API metrics. Rejections of the instruction itself
// (4xx) do not count against the breaker.
type CircuitBreakerExecutor struct {
	wrapped        executor.IExecutor
	circuitBreaker *gobreaker.CircuitBreaker
	metrics        *ExternalAPIMetrics
	logger         *logger.Logger
	timeoutConfig  TimeoutConfig
}

func NewCircuitBreakerExecutor(wrapped executor.IExecutor, config CircuitBreakerConfig, timeoutConfig TimeoutConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) (*CircuitBreakerExecutor, error) {
	if err := validateCircuitBreakerConfig(config); err != nil {
		return nil, err
	}

	cb := &CircuitBreakerExecutor{
		wrapped:       wrapped,
		metrics:       metrics,
		logger:        logger,
		timeoutConfig: timeoutConfig,
	}

	settings := gobreaker.Settings{
		Name:        SignerAPI,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.ConsecutiveFailureThreshold)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var signerErr *executor.SignerError
			return errors.As(err, &signerErr) && signerErr.IsClientError()
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("[CircuitBreakerExecutor] state change", map[string]string{
				"service": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.UpdateCircuitBreakerState(name, to)
		},
	}

	cb.circuitBreaker = gobreaker.NewCircuitBreaker(settings)
	return cb, nil
}

func (cb *CircuitBreakerExecutor) State() gobreaker.State {
	return cb.circuitBreaker.State()
}

func (cb *CircuitBreakerExecutor) call(ctx context.Context, operation string, timeout time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	start := time.Now()

	result, err := cb.circuitBreaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(callCtx)
	})

	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, context.DeadlineExceeded) {
			cb.metrics.RecordTimeout(SignerAPI, operation)
		}
		cb.logError(operation, duration, err)
	}
	cb.metrics.RecordAPICall(SignerAPI, operation, status, duration)

	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (cb *CircuitBreakerExecutor) Execute(ctx context.Context, instruction model.TransferInstruction) (string, error) {
	return cb.call(ctx, "execute", cb.timeoutConfig.RequestTimeout, func(ctx context.Context) (string, error) {
		return cb.wrapped.Execute(ctx, instruction)
	})
}

func (cb *CircuitBreakerExecutor) Ping(ctx context.Context) error {
	_, err := cb.call(ctx, "health_check", cb.timeoutConfig.HealthCheckTimeout, func(ctx context.Context) (string, error) {
		return "", cb.wrapped.Ping(ctx)
	})
	return err
}

func (cb *CircuitBreakerExecutor) logError(operation string, duration float64, err error) {
	cb.logger.Error("[CircuitBreakerExecutor] external API call failed", map[string]string{
		"service":    SignerAPI,
		"operation":  operation,
		"duration":   strconv.FormatFloat(duration, 'f', 3, 64),
		"error":      err.Error(),
		"error_type": string(classifyError(err)),
		"cb_state":   cb.circuitBreaker.State().String(),
	})
}

// classifyError classifies errors into different types for metrics and logging
func classifyError(err error) APIErrorType {
	if err == nil {
		return ""
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrorTypeCircuitOpen
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}

	var signerErr *executor.SignerError
	if errors.As(err, &signerErr) {
		if signerErr.IsClientError() {
			return ErrorTypeClientError
		}
		return ErrorTypeServerError
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "timeout"), strings.Contains(errMsg, "deadline exceeded"):
		return ErrorTypeTimeout
	case strings.Contains(errMsg, "connection"), strings.Contains(errMsg, "network"),
		strings.Contains(errMsg, "unreachable"), strings.Contains(errMsg, "dns"):
		return ErrorTypeNetworkError
	}

	return ErrorTypeUnknown
}

func validateCircuitBreakerConfig(config CircuitBreakerConfig) error {
	if config.MaxRequests == 0 {
		return errors.New("max_requests must be greater than 0")
	}
	if config.ConsecutiveFailureThreshold <= 0 {
		return errors.New("consecutive_failure_threshold must be greater than 0")
	}
	if config.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}
	if config.Interval < 0 {
		return errors.New("interval must be non-negative")
	}
	return nil
}
