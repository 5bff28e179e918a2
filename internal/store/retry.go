package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryWrite re-runs a conditional write while it returns an error. A write whose
// guard did not match reports false without error and is not retried.
func RetryWrite(ctx context.Context, b backoff.BackOff, write func() (bool, error)) (bool, error) {
	var applied bool
	err := backoff.Retry(func() error {
		var err error
		applied, err = write()
		return err
	}, backoff.WithContext(b, ctx))
	return applied, err
}

// OutcomeBackOff paces the retries used to store a transfer outcome.
func OutcomeBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second
	return backoff.WithMaxRetries(b, 4)
}
