package view

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/dwarvesf/justthetip/internal/apperrors"
)

var statusByError = []struct {
	err    error
	status int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrInvalidState, http.StatusConflict},
	{apperrors.ErrExpired, http.StatusConflict},
	{apperrors.ErrAlreadyApproved, http.StatusConflict},
	{apperrors.ErrAlreadyRejected, http.StatusConflict},
	{apperrors.ErrUnauthorized, http.StatusForbidden},
	{apperrors.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{apperrors.ErrInvalidAddress, http.StatusUnprocessableEntity},
	{apperrors.ErrInvalidAmount, http.StatusBadRequest},
	{apperrors.ErrInvalidThreshold, http.StatusBadRequest},
	{apperrors.ErrUnsupportedCurrency, http.StatusBadRequest},
	{apperrors.ErrOutcomeNotRecorded, http.StatusInternalServerError},
	{apperrors.ErrExecutionFailed, http.StatusBadGateway},
}

// StatusFromError maps domain errors to HTTP status codes, 500 for anything else.
func StatusFromError(err error) int {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}
