package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appinv "github.com/stockops/backoffice/internal/application/inventory"
	"github.com/stockops/backoffice/internal/application/inventory/ledgertest"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
)

func newTransferService(store *ledgertest.Store) *appinv.TransferService {
	logger := zap.NewNop()
	return appinv.NewTransferService(store.Scope(), appinv.NewLedger(logger), logger)
}

func TestTransfer_PreservesLotIdentity(t *testing.T) {
	store := ledgertest.NewStore()
	svc := newTransferService(store)
	itemID, from, to := uuid.New(), uuid.New(), uuid.New()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	seedBatch(t, store, itemID, from, base, 5, 10)
	seedBatch(t, store, itemID, from, base.Add(time.Hour), 10, 12)
	seedPosition(t, store, itemID, from, 15)

	result, err := svc.Transfer(context.Background(), appinv.TransferInput{
		ItemID:         itemID,
		FromLocationID: from,
		ToLocationID:   to,
		Quantity:       decimal.NewFromInt(8),
		EmployeeName:   "Priya",
		Reference:      "weekly restock",
	})
	require.NoError(t, err)

	// Spans two source lots, so two destination lots at the source costs
	require.Len(t, result.CreatedBatches, 2)
	assert.True(t, result.CreatedBatches[0].UnitCost.Equal(decimal.NewFromInt(10)))
	assert.True(t, result.CreatedBatches[0].QuantityRemaining.Equal(decimal.NewFromInt(5)))
	assert.True(t, result.CreatedBatches[1].UnitCost.Equal(decimal.NewFromInt(12)))
	assert.True(t, result.CreatedBatches[1].QuantityRemaining.Equal(decimal.NewFromInt(3)))
	for _, batch := range result.CreatedBatches {
		assert.Equal(t, to, batch.LocationID)
		assert.Contains(t, batch.Reference, "Transfer "+result.TransferID.String())
		assert.Contains(t, batch.Reference, "weekly restock")
	}

	assert.True(t, result.WeightedUnitCost.Equal(decimal.RequireFromString("10.75")))

	// Movement pair shares the transfer ID reference
	assert.Equal(t, inventory.MovementTypeTransferOut, result.OutMovement.MovementType)
	assert.Equal(t, inventory.MovementTypeTransferIn, result.InMovement.MovementType)
	assert.Equal(t, result.TransferID.String(), result.OutMovement.ReferenceID)
	assert.Equal(t, result.TransferID.String(), result.InMovement.ReferenceID)
	assert.True(t, result.OutMovement.UnitCost.Equal(result.InMovement.UnitCost))

	ctx := context.Background()
	source, err := store.Positions.FindByItemAndLocation(ctx, itemID, from)
	require.NoError(t, err)
	assert.True(t, source.Quantity.Equal(decimal.NewFromInt(7)))

	dest, err := store.Positions.FindByItemAndLocation(ctx, itemID, to)
	require.NoError(t, err)
	assert.True(t, dest.Quantity.Equal(decimal.NewFromInt(8)))
}

func TestTransfer_InsufficientStock(t *testing.T) {
	store := ledgertest.NewStore()
	svc := newTransferService(store)
	itemID, from, to := uuid.New(), uuid.New(), uuid.New()

	seedBatch(t, store, itemID, from, time.Now(), 5, 10)
	seedPosition(t, store, itemID, from, 5)

	_, err := svc.Transfer(context.Background(), appinv.TransferInput{
		ItemID:         itemID,
		FromLocationID: from,
		ToLocationID:   to,
		Quantity:       decimal.NewFromInt(8),
		EmployeeName:   "Priya",
	})

	var insufficientErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(5)))
}

func TestTransfer_Validation(t *testing.T) {
	store := ledgertest.NewStore()
	svc := newTransferService(store)
	locationID := uuid.New()

	tests := []struct {
		name string
		in   appinv.TransferInput
		code string
	}{
		{
			name: "same location",
			in: appinv.TransferInput{
				ItemID: uuid.New(), FromLocationID: locationID, ToLocationID: locationID,
				Quantity: decimal.NewFromInt(1), EmployeeName: "Priya",
			},
			code: "INVALID_TRANSFER",
		},
		{
			name: "zero quantity",
			in: appinv.TransferInput{
				ItemID: uuid.New(), FromLocationID: locationID, ToLocationID: uuid.New(),
				Quantity: decimal.Zero, EmployeeName: "Priya",
			},
			code: "INVALID_QUANTITY",
		},
		{
			name: "missing employee",
			in: appinv.TransferInput{
				ItemID: uuid.New(), FromLocationID: locationID, ToLocationID: uuid.New(),
				Quantity: decimal.NewFromInt(1),
			},
			code: "EMPLOYEE_REQUIRED",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Transfer(context.Background(), tt.in)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}
