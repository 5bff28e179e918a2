package view

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/dwarvesf/justthetip/internal/apperrors"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", pkgerrors.Wrap(apperrors.ErrNotFound, "withdrawal x"), http.StatusNotFound},
		{"expired", apperrors.ErrExpired, http.StatusConflict},
		{"already approved", apperrors.ErrAlreadyApproved, http.StatusConflict},
		{"unauthorized signer", apperrors.ErrUnauthorized, http.StatusForbidden},
		{"insufficient balance", pkgerrors.Wrapf(apperrors.ErrInsufficientBalance, "requested %s", "5"), http.StatusUnprocessableEntity},
		{"execution", apperrors.NewExecutionError(errors.New("rpc down")), http.StatusBadGateway},
		{"outcome not recorded", pkgerrors.Wrap(apperrors.ErrOutcomeNotRecorded, "db down"), http.StatusInternalServerError},
		{"invalid amount", pkgerrors.Wrap(apperrors.ErrInvalidAmount, "USDC supports at most 6 decimal places"), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromError(tt.err))
		})
	}
}

func TestCreateResponse(t *testing.T) {
	res := CreateResponse[any](nil, errors.New("bad"), map[string]string{"a": "b"}, "invalid request")
	assert.Equal(t, "bad", res.Error)
	assert.Equal(t, "invalid request", res.Message)

	ok := CreateResponse("done", nil, nil, "")
	assert.Equal(t, "done", ok.Data)
	assert.Empty(t, ok.Error)
}
