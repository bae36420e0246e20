package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovementType_Direction(t *testing.T) {
	inbound := []MovementType{MovementTypeReceipt, MovementTypeTransferIn, MovementTypeAdjustment}
	for _, mt := range inbound {
		assert.True(t, mt.IsInbound(), "%s should be inbound", mt)
		assert.False(t, mt.IsOutbound(), "%s should not be outbound", mt)
	}

	outbound := []MovementType{MovementTypeSale, MovementTypeIssue, MovementTypeTransferOut}
	for _, mt := range outbound {
		assert.True(t, mt.IsOutbound(), "%s should be outbound", mt)
		assert.False(t, mt.IsInbound(), "%s should not be inbound", mt)
	}

	assert.False(t, MovementType("UNKNOWN").IsValid())
	assert.True(t, MovementTypeSale.IsValid())
}

func TestNewMovement_Validation(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	qty := decimal.RequireFromString("3")
	cost := decimal.RequireFromString("10.5")

	tests := []struct {
		name    string
		build   func() (*Movement, error)
		wantErr bool
	}{
		{
			name: "valid",
			build: func() (*Movement, error) {
				return NewMovement(itemID, locationID, MovementTypeSale, qty, cost, "sale-1")
			},
		},
		{
			name: "missing item",
			build: func() (*Movement, error) {
				return NewMovement(uuid.Nil, locationID, MovementTypeSale, qty, cost, "sale-1")
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			build: func() (*Movement, error) {
				return NewMovement(itemID, locationID, MovementTypeSale, decimal.Zero, cost, "sale-1")
			},
			wantErr: true,
		},
		{
			name: "negative cost",
			build: func() (*Movement, error) {
				return NewMovement(itemID, locationID, MovementTypeSale, qty, decimal.RequireFromString("-1"), "sale-1")
			},
			wantErr: true,
		},
		{
			name: "missing reference",
			build: func() (*Movement, error) {
				return NewMovement(itemID, locationID, MovementTypeSale, qty, cost, "")
			},
			wantErr: true,
		},
		{
			name: "bad type",
			build: func() (*Movement, error) {
				return NewMovement(itemID, locationID, MovementType("NOPE"), qty, cost, "sale-1")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.build()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sale-1", m.ReferenceID)
		})
	}
}

func TestMovement_SignedQuantityAndSetters(t *testing.T) {
	m, err := NewMovement(uuid.New(), uuid.New(), MovementTypeIssue,
		decimal.RequireFromString("2"), decimal.RequireFromString("4.5"), "req-9")
	require.NoError(t, err)

	m.WithUnitPrice(decimal.RequireFromString("7.25")).
		WithOperator("counter staff").
		WithNotes("Maintenance part request approved.")

	assert.True(t, m.SignedQuantity().Equal(decimal.RequireFromString("-2")))
	assert.True(t, m.TotalCost().Equal(decimal.RequireFromString("9")))
	require.NotNil(t, m.UnitPrice)
	assert.True(t, m.UnitPrice.Equal(decimal.RequireFromString("7.25")))

	in, err := NewMovement(uuid.New(), uuid.New(), MovementTypeReceipt,
		decimal.RequireFromString("2"), decimal.Zero, "batch-1")
	require.NoError(t, err)
	assert.True(t, in.SignedQuantity().Equal(decimal.RequireFromString("2")))
}
