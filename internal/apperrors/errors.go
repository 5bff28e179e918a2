package apperrors

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidState        = errors.New("invalid state for this transition")
	ErrExpired             = errors.New("expired")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnauthorized        = errors.New("signer not authorized")
	ErrAlreadyApproved     = errors.New("already approved")
	ErrAlreadyRejected     = errors.New("already rejected")
	ErrInvalidThreshold    = errors.New("invalid threshold")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrExecutionFailed     = errors.New("execution failed")
	// ErrOutcomeNotRecorded means the signer answered but the result could not be stored.
	ErrOutcomeNotRecorded = errors.New("transfer outcome not recorded")
)

// ExecutionError carries the executor failure after it has been persisted on the record.
type ExecutionError struct {
	Cause error
}

func NewExecutionError(cause error) *ExecutionError {
	return &ExecutionError{Cause: cause}
}

func (e *ExecutionError) Error() string {
	if e.Cause == nil {
		return ErrExecutionFailed.Error()
	}
	return ErrExecutionFailed.Error() + ": " + e.Cause.Error()
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailed
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}
