package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	domainerrors "github.com/istdurstig/istdurstig-server/internal/errors"
	"github.com/istdurstig/istdurstig-server/internal/store"
)

const maxSaveAttempts = 5

// retryOnConflict runs a load-mutate-save operation, re-running it from a
// fresh load whenever the save loses a version race. Any other error stops
// immediately. If every attempt loses, the result is a Conflict error.
func retryOnConflict[T any](ctx context.Context, op func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 5 * time.Millisecond
	policy.MaxInterval = 100 * time.Millisecond

	res, err := backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !errors.Is(err, store.ErrVersionConflict) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(maxSaveAttempts))

	if errors.Is(err, store.ErrVersionConflict) {
		return res, domainerrors.Wrap(err, domainerrors.CodeConflict, "resource was modified concurrently, please retry")
	}
	return res, err
}
