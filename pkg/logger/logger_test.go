package logger_test

import (
	"context"
	"testing"

	"discovery/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGet_ReturnsDefaultWhenContextEmpty(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	l := logger.Get(context.Background())
	require.NotNil(t, l)
}

func TestWithLogger_RoundTrip(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	custom := zap.NewNop()
	ctx := logger.WithLogger(context.Background(), custom)
	require.Same(t, custom, logger.Get(ctx))
}

func TestWithFields_DerivesNewLogger(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	base := context.Background()
	derived := logger.WithFields(base, zap.String("category", "pricing"))
	require.NotSame(t, logger.Get(base), logger.Get(derived))
}
