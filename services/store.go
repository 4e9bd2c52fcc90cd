package services

import (
	"context"
	"errors"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/metrics"
	"gorm.io/gorm"
)

const defaultStoreTimeout = 5 * time.Second

// storeCaller bounds every repository call with a timeout and converts whatever the
// store returns into an apperror kind.
type storeCaller struct {
	timeout time.Duration
}

func newStoreCaller(timeout time.Duration) storeCaller {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return storeCaller{timeout: timeout}
}

func (s storeCaller) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := translateStoreError(callCtx, op, fn(callCtx))
	metrics.ObserveStoreCall(op, start, apperror.Kind(err))

	if err != nil && !isExpected(err) {
		logging.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("store call failed")
	}
	return err
}

func translateStoreError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperror.Timeout(op, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &apperror.AppError{Err: apperror.ErrNotFound, Message: op + ": record not found"}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperror.AppError{Err: apperror.ErrConflict, Message: op + ": already exists", Cause: err}
	default:
		return apperror.UpstreamUnavailable("store", err)
	}
}

// isExpected reports errors that are part of normal control flow and not worth a warning.
func isExpected(err error) bool {
	return errors.Is(err, apperror.ErrNotFound) ||
		errors.Is(err, apperror.ErrDuplicateFavorite) ||
		errors.Is(err, apperror.ErrConflict)
}
