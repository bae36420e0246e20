package inventory

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockPosition_ApplyQuantityDelta(t *testing.T) {
	pos := NewStockPosition(uuid.New(), uuid.New())

	require.NoError(t, pos.ApplyQuantityDelta(decimal.RequireFromString("10")))
	assert.True(t, pos.Quantity.Equal(decimal.RequireFromString("10")))

	require.NoError(t, pos.ApplyQuantityDelta(decimal.RequireFromString("-4")))
	assert.True(t, pos.Quantity.Equal(decimal.RequireFromString("6")))
}

func TestStockPosition_QuantityCannotGoNegative(t *testing.T) {
	pos := NewStockPosition(uuid.New(), uuid.New())
	require.NoError(t, pos.ApplyQuantityDelta(decimal.RequireFromString("3")))

	err := pos.ApplyQuantityDelta(decimal.RequireFromString("-5"))
	require.Error(t, err)

	var insufficientErr *InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.True(t, insufficientErr.Requested.Equal(decimal.RequireFromString("5")))
	assert.True(t, insufficientErr.Available.Equal(decimal.RequireFromString("3")))
	assert.True(t, insufficientErr.Shortfall().Equal(decimal.RequireFromString("2")))

	// Failed delta leaves the position untouched.
	assert.True(t, pos.Quantity.Equal(decimal.RequireFromString("3")))
}

func TestStockPosition_ReserveRequiresAvailability(t *testing.T) {
	pos := NewStockPosition(uuid.New(), uuid.New())
	require.NoError(t, pos.ApplyQuantityDelta(decimal.RequireFromString("10")))

	require.NoError(t, pos.ApplyReservedDelta(decimal.RequireFromString("6")))
	assert.True(t, pos.Available().Equal(decimal.RequireFromString("4")))

	err := pos.ApplyReservedDelta(decimal.RequireFromString("5"))
	require.Error(t, err)

	var insufficientErr *InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.True(t, insufficientErr.Available.Equal(decimal.RequireFromString("4")))
}

func TestStockPosition_ReserveReleaseRoundTrip(t *testing.T) {
	pos := NewStockPosition(uuid.New(), uuid.New())
	require.NoError(t, pos.ApplyQuantityDelta(decimal.RequireFromString("8")))

	require.NoError(t, pos.ApplyReservedDelta(decimal.RequireFromString("8")))
	assert.True(t, pos.Available().IsZero())

	require.NoError(t, pos.ApplyReservedDelta(decimal.RequireFromString("-8")))
	assert.True(t, pos.ReservedQuantity.IsZero())
	assert.True(t, pos.Available().Equal(decimal.RequireFromString("8")))
}

func TestStockPosition_CannotReleaseBelowZero(t *testing.T) {
	pos := NewStockPosition(uuid.New(), uuid.New())
	require.NoError(t, pos.ApplyQuantityDelta(decimal.RequireFromString("5")))
	require.NoError(t, pos.ApplyReservedDelta(decimal.RequireFromString("2")))

	err := pos.ApplyReservedDelta(decimal.RequireFromString("-3"))
	assert.Error(t, err)
	assert.True(t, pos.ReservedQuantity.Equal(decimal.RequireFromString("2")))
}
