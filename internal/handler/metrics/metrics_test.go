package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/justthetip/internal/monitoring"
)

func scrape(t *testing.T, registry *prometheus.Registry) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", NewMetricsHandler(registry).Handler())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w
}

func TestMetricsHandler_ExposesBusinessMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	httpMetrics := monitoring.NewHTTPMetrics()
	httpMetrics.MustRegister(registry)

	recorder := monitoring.NewBusinessMetricsRecorder(httpMetrics)
	recorder.RecordWithdrawal("SOL", "COMPLETED")
	recorder.RecordWithdrawal("SOL", "COMPLETED")
	recorder.RecordProposal("EXECUTED")
	recorder.RecordRateLimitRejection("tip", "user")

	body := scrape(t, registry).Body.String()

	assert.Contains(t, body, `justthetip_withdrawals_total{currency="SOL",status="COMPLETED"} 2`)
	assert.Contains(t, body, `justthetip_multisig_proposals_total{status="EXECUTED"} 1`)
	assert.Contains(t, body, `justthetip_rate_limit_rejections_total{command_type="tip",scope="user"} 1`)
}

func TestMetricsHandler_ExposesJobMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	jobMetrics := monitoring.NewBackgroundJobMetrics()
	jobMetrics.MustRegister(registry)
	jobMetrics.SetPending("withdrawal", 4)

	body := scrape(t, registry).Body.String()

	assert.Contains(t, body, "# TYPE justthetip_pending_items gauge")
	assert.Contains(t, body, `justthetip_pending_items{kind="withdrawal"} 4`)
}

func TestMetricsHandler_EmptyRegistry(t *testing.T) {
	w := scrape(t, prometheus.NewRegistry())
	assert.NotEmpty(t, w.Header().Get("Content-Type"))
}
