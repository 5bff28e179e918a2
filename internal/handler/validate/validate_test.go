package validate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/justthetip/internal/types/environments"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
	"github.com/dwarvesf/justthetip/internal/validation"
	"github.com/dwarvesf/justthetip/internal/view"
)

func post(body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	cfg := &config.AppConfig{Withdrawal: config.WithdrawalConfig{MaxAmount: "100"}}
	r := gin.New()
	r.POST("/validate/transaction", New(logger.New(environments.Test), cfg).ValidateTransaction)

	req := httptest.NewRequest(http.MethodPost, "/validate/transaction", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateTransaction_Valid(t *testing.T) {
	w := post(`{"sender_id":"123456789012345678","recipient_id":"876543210987654321","amount":"1.5","currency":"SOL","memo":"  thanks  "}`)

	require.Equal(t, http.StatusOK, w.Code)
	var res view.Response[validation.TransactionResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.True(t, res.Data.Valid)
	require.NotNil(t, res.Data.Sanitized)
	assert.Equal(t, "thanks", res.Data.Sanitized.Memo)
	assert.Equal(t, "1.5", res.Data.Sanitized.Amount.String())
}

func TestValidateTransaction_ReportsAllErrors(t *testing.T) {
	w := post(`{"sender_id":"123456789012345678","recipient_id":"123456789012345678","amount":"500","currency":"SOL"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var res view.Response[validation.TransactionResult]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Data.Valid)
	assert.Len(t, res.Data.Errors, 2)
	assert.Equal(t, "transaction is invalid", res.Error)
}

func TestValidateTransaction_MalformedBody(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, post(`{"sender_id":`).Code)
}
