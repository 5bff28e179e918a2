package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dwarvesf/justthetip/internal/monitoring"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// HealthHandler implements IHealthHandler interface
type HealthHandler struct {
	logger           *logger.Logger
	db               *gorm.DB
	externals        map[string]Pinger
	jobStatusManager *monitoring.JobStatusManager
}

// New creates a health handler. externals maps a check name (signer_api, rate_limit_store)
// to the dependency it pings; nil entries report unhealthy.
func New(logger *logger.Logger, db *gorm.DB, externals map[string]Pinger, jobStatusManager *monitoring.JobStatusManager) IHealthHandler {
	return &HealthHandler{
		logger:           logger,
		db:               db,
		externals:        externals,
		jobStatusManager: jobStatusManager,
	}
}

// Basic handles the basic health check endpoint (/healthz)
// @Summary Basic health check
// @Description Returns basic system availability status
// @Tags health
// @Produce json
// @Success 200 {object} BasicHealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Basic(c *gin.Context) {
	c.JSON(http.StatusOK, BasicHealthResponse{Message: "ok"})
}

// Database handles the database health check endpoint
// @Summary Database health check
// @Description Validates database connectivity and pool usage
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/db [get]
func (h *HealthHandler) Database(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	dbCheck := h.checkDatabase(c.Request.Context())
	response.Checks["database"] = dbCheck
	response.DurationMs = time.Since(start).Milliseconds()

	if dbCheck.Status == statusHealthy {
		response.Status = statusHealthy
		c.JSON(http.StatusOK, response)
		return
	}
	response.Status = statusUnhealthy
	c.JSON(http.StatusServiceUnavailable, response)
}

// External handles the external dependencies health check endpoint
// @Summary External dependencies health check
// @Description Pings the signing service and the rate limit store in parallel
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/v1/health/external [get]
func (h *HealthHandler) External(c *gin.Context) {
	start := time.Now()

	response := HealthResponse{
		Timestamp: start,
		Checks:    make(map[string]HealthCheck),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	for name, dep := range h.externals {
		wg.Add(1)
		go func(name string, dep Pinger) {
			defer wg.Done()
			check := h.checkExternal(ctx, name, dep)
			mu.Lock()
			response.Checks[name] = check
			mu.Unlock()
		}(name, dep)
	}
	wg.Wait()
	response.DurationMs = time.Since(start).Milliseconds()

	response.Status = statusHealthy
	for _, check := range response.Checks {
		if check.Status != statusHealthy {
			response.Status = statusUnhealthy
			break
		}
	}

	if response.Status == statusHealthy {
		c.JSON(http.StatusOK, response)
		return
	}
	h.logger.Warn("[External][checkExternal] dependency unhealthy", map[string]string{
		"duration": fmt.Sprintf("%dms", response.DurationMs),
	})
	c.JSON(http.StatusServiceUnavailable, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	start := time.Now()

	check := HealthCheck{
		Metadata: make(map[string]interface{}),
	}

	if h.db == nil {
		check.Status = statusUnhealthy
		check.Error = "database connection not available"
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		check.Status = statusUnhealthy
		check.Error = fmt.Sprintf("failed to get underlying database: %v", err)
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		check.Status = statusUnhealthy
		if pingCtx.Err() == context.DeadlineExceeded {
			check.Error = "timeout"
		} else {
			check.Error = err.Error()
		}
		check.Latency = time.Since(start).Milliseconds()
		return check
	}

	stats := sqlDB.Stats()

	check.Status = statusHealthy
	check.Latency = time.Since(start).Milliseconds()
	check.Metadata["driver"] = "postgres"
	check.Metadata["connection_pool"] = map[string]interface{}{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
	}

	return check
}

func (h *HealthHandler) checkExternal(ctx context.Context, name string, dep Pinger) HealthCheck {
	start := time.Now()

	check := HealthCheck{}
	if dep == nil {
		check.Status = statusUnhealthy
		check.Error = name + " not configured"
		return check
	}

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- dep.Ping(checkCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			check.Status = statusUnhealthy
			check.Error = err.Error()
		} else {
			check.Status = statusHealthy
		}
	case <-checkCtx.Done():
		check.Status = statusUnhealthy
		check.Error = "timeout"
	}

	check.Latency = time.Since(start).Milliseconds()
	return check
}
