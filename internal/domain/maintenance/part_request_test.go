package maintenance

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreRequest(t *testing.T) *PartRequest {
	t.Helper()
	partID := uuid.New()
	req, err := NewPartRequest(uuid.New(), uuid.New(), &partID, PartSourceStoreInventory, decimal.RequireFromString("2"))
	require.NoError(t, err)
	return req
}

func TestPartRequest_Validate(t *testing.T) {
	req := newStoreRequest(t)
	assert.NoError(t, req.Validate())

	req.PartID = nil
	assert.Error(t, req.Validate())

	external, err := NewPartRequest(uuid.New(), uuid.New(), nil, PartSourceExternalSupplier, decimal.RequireFromString("1"))
	require.NoError(t, err)
	assert.Error(t, external.Validate(), "missing name, receipt and cost")

	external.ExternalItemName = "Compressor valve"
	external.ReceiptNumber = "RCP-22"
	external.Cost = decimal.RequireFromString("120")
	assert.NoError(t, external.Validate())

	external.Cost = decimal.Zero
	assert.Error(t, external.Validate())
}

func TestStageFor(t *testing.T) {
	assert.Equal(t, inventory.StageConsumed, StageFor(PartRequestStatusApproved, PartSourceStoreInventory))
	assert.Equal(t, inventory.StageNone, StageFor(PartRequestStatusApproved, PartSourceExternalSupplier))
	assert.Equal(t, inventory.StageNone, StageFor(PartRequestStatusRequested, PartSourceStoreInventory))
	assert.Equal(t, inventory.StageNone, StageFor(PartRequestStatusRejected, PartSourceStoreInventory))
}

func TestPartRequest_ApprovalCrossing(t *testing.T) {
	req := newStoreRequest(t)

	assert.True(t, req.ApprovalCrossing(PartRequestStatusApproved))
	assert.False(t, req.ApprovalCrossing(PartRequestStatusRejected))

	req.Status = PartRequestStatusApproved
	assert.True(t, req.ApprovalCrossing(PartRequestStatusCancelled))
	assert.False(t, req.ApprovalCrossing(PartRequestStatusApproved))
}

func TestPartRequest_LockedAgainst(t *testing.T) {
	req := newStoreRequest(t)
	req.Status = PartRequestStatusApproved

	// Same everything, still approved: not locked.
	assert.False(t, req.LockedAgainst(req.PartID, req.Quantity, req.Source, PartRequestStatusApproved))

	// Quantity change while approved is locked.
	assert.True(t, req.LockedAgainst(req.PartID, decimal.RequireFromString("3"), req.Source, PartRequestStatusApproved))

	// Part swap while approved is locked.
	other := uuid.New()
	assert.True(t, req.LockedAgainst(&other, req.Quantity, req.Source, PartRequestStatusApproved))

	// Source change while approved is locked.
	assert.True(t, req.LockedAgainst(req.PartID, req.Quantity, PartSourceCustomerProvided, PartRequestStatusApproved))

	// Leaving APPROVED is a status transition, not a locked edit.
	assert.False(t, req.LockedAgainst(req.PartID, decimal.RequireFromString("3"), req.Source, PartRequestStatusCancelled))

	// Non-approved requests are freely editable.
	req.Status = PartRequestStatusRequested
	assert.False(t, req.LockedAgainst(req.PartID, decimal.RequireFromString("5"), req.Source, PartRequestStatusRequested))
}

func TestPartRequest_DeletionBlocked(t *testing.T) {
	req := newStoreRequest(t)
	assert.False(t, req.DeletionBlocked())

	req.Status = PartRequestStatusApproved
	assert.True(t, req.DeletionBlocked())

	req.Source = PartSourceExternalSupplier
	assert.False(t, req.DeletionBlocked())
}

func TestNewPartUsage_Defaults(t *testing.T) {
	usage, err := NewPartUsage(uuid.New(), PartSourceStoreInventory,
		decimal.RequireFromString("3"), decimal.RequireFromString("4.5"))
	require.NoError(t, err)
	assert.True(t, usage.TotalCost.Equal(decimal.RequireFromString("13.5")))

	_, err = NewPartUsage(uuid.New(), PartSourceStoreInventory, decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}
