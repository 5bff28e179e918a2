package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/justthetip/internal/model"
	"github.com/dwarvesf/justthetip/internal/types/environments"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

func newTestSigner(url string) IExecutor {
	cfg := &config.AppConfig{
		Signer: config.SignerConfig{APIURL: url, APIToken: "secret", Timeout: 2 * time.Second},
	}
	return New(cfg, logger.New(environments.Test))
}

var instruction = model.TransferInstruction{
	Reference:   "wd-1",
	Destination: "So11111111111111111111111111111111111111112",
	Amount:      "50000000",
	Currency:    "SOL",
}

func TestSigner_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transfers", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "wd-1", r.Header.Get("Idempotency-Key"))

		var got model.TransferInstruction
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, instruction, got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signature":"SIG123"}`))
	}))
	defer srv.Close()

	sig, err := newTestSigner(srv.URL).Execute(context.Background(), instruction)
	require.NoError(t, err)
	assert.Equal(t, "SIG123", sig)
}

func TestSigner_Execute_ClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"insufficient hot wallet funds"}`))
	}))
	defer srv.Close()

	_, err := newTestSigner(srv.URL).Execute(context.Background(), instruction)
	require.Error(t, err)

	var signerErr *SignerError
	require.ErrorAs(t, err, &signerErr)
	assert.True(t, signerErr.IsClientError())
	assert.Equal(t, "insufficient hot wallet funds", signerErr.Message)
}

func TestSigner_Execute_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestSigner(srv.URL).Execute(context.Background(), instruction)
	var signerErr *SignerError
	require.ErrorAs(t, err, &signerErr)
	assert.False(t, signerErr.IsClientError())
	assert.Equal(t, http.StatusBadGateway, signerErr.StatusCode)
}

func TestSigner_Execute_EmptySignature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestSigner(srv.URL).Execute(context.Background(), instruction)
	assert.ErrorContains(t, err, "empty signature")
}

func TestSigner_Ping(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestSigner(srv.URL)
	assert.NoError(t, s.Ping(context.Background()))

	healthy.Store(false)
	assert.Error(t, s.Ping(context.Background()))
}
