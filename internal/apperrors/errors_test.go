package apperrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExecutionError_Matching(t *testing.T) {
	cause := errors.New("rpc: node is behind")
	err := errors.Wrap(NewExecutionError(cause), "[ApproveWithdrawal]")

	assert.True(t, errors.Is(err, ErrExecutionFailed))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "rpc: node is behind")

	var execErr *ExecutionError
	assert.True(t, errors.As(err, &execErr))
	assert.Equal(t, cause, execErr.Cause)
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	err := errors.Wrapf(ErrExpired, "withdrawal %s", "abc")

	assert.True(t, errors.Is(err, ErrExpired))
	assert.Equal(t, "withdrawal abc: expired", err.Error())
}
