package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/SscSPs/bank_core/internal/apperrors"
)

// runOperation is the boundary of every public operation. Expected categories pass
// through; panics and unclassified errors are logged with context and replaced by a
// generic Failure. Any coordinator opened inside fn has been rolled back by then.
func runOperation[T any](ctx context.Context, s *BaseService, op string, fn func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			s.GetLogger(ctx).ErrorContext(ctx, "Operation panicked",
				slog.String("operation", op),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("%w: %s failed", apperrors.ErrFailure, op)
		}
	}()

	result, err = fn(ctx)
	if err == nil {
		return result, nil
	}

	var zero T
	if apperrors.IsExpected(err) {
		s.LogDebug(ctx, "Operation rejected", slog.String("operation", op), slog.String("reason", err.Error()))
		return zero, err
	}
	s.LogError(ctx, err, "Operation failed", slog.String("operation", op))
	return zero, fmt.Errorf("%w: %s failed", apperrors.ErrFailure, op)
}
