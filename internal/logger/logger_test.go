package logger_test

import (
	"context"
	"testing"

	"storefront/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		l, err := logger.New(logger.Config{Level: "debug", Environment: env, ServiceName: "storefront"})
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}

func TestFromContext(t *testing.T) {
	fallback := zap.NewNop()
	assert.Same(t, fallback, logger.FromContext(context.Background(), fallback))

	scoped := zap.NewExample()
	ctx := logger.WithContext(context.Background(), scoped)
	assert.Same(t, scoped, logger.FromContext(ctx, fallback))

	assert.NotNil(t, logger.FromContext(context.Background(), nil))
}
