package services

import (
	"context"
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/logger"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// storageFailure logs err once and hides it behind an internal error.
func storageFailure(ctx context.Context, log *zap.Logger, op string, err error) error {
	logger.FromContext(ctx, log).Error("storage failure", zap.String("op", op), zap.Error(err))
	return apperror.Internal(err)
}

// lookupFailure maps a missing row to NotFound with the given message.
func lookupFailure(ctx context.Context, log *zap.Logger, op string, err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperror.NotFound(format, args...)
	}
	return storageFailure(ctx, log, op, err)
}

// writeFailure maps a unique violation to Conflict with the given message.
func writeFailure(ctx context.Context, log *zap.Logger, op string, err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return apperror.Conflict(format, args...)
	}
	return storageFailure(ctx, log, op, err)
}

func uniqueBy[T any, K comparable](items []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}
