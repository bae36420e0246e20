package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test")) // falls back to global no-op provider
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	// A nil DB must not be touched when tracing is off
	err := RegisterDBTracing(nil, false, zap.NewNop())
	assert.NoError(t, err)
}
