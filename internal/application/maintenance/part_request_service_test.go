package maintenance_test

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
	appmaint "github.com/stockops/backoffice/internal/application/maintenance"
	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/domain/shared"
)

var (
	technician = shared.Actor{ID: "u1", Name: "Tech", Role: shared.RoleStaff}
	manager    = shared.Actor{ID: "u2", Name: "Manager", Role: shared.RoleManager}
)

type requestFixture struct {
	store      *ledgertest.Store
	svc        *appmaint.PartRequestService
	ticketID   uuid.UUID
	partID     uuid.UUID
	locationID uuid.UUID
}

// newRequestFixture seeds a priced catalog part with 15 units across
// two lots (5@10, 10@12)
func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	store := ledgertest.NewStore()
	logger := zap.NewNop()

	item, err := catalog.NewItem("SPR-TEST000002", "Drive belt", "DB-7", catalog.ItemTypeSparePart, catalog.PricingModeManual)
	require.NoError(t, err)
	item.Price = decimal.NewFromInt(25)
	require.NoError(t, store.Items.Create(context.Background(), item))

	locationID := uuid.New()
	base := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	for _, seed := range []struct {
		qty, cost int64
		at        time.Time
	}{
		{5, 10, base},
		{10, 12, base.Add(time.Hour)},
	} {
		batch, err := inventory.NewStockBatch(item.ID, locationID, seed.at,
			decimal.NewFromInt(seed.qty), decimal.NewFromInt(seed.cost), "seed")
		require.NoError(t, err)
		require.NoError(t, store.Batches.Create(context.Background(), batch))
	}
	pos := inventory.NewStockPosition(item.ID, locationID)
	require.NoError(t, pos.ApplyQuantityDelta(decimal.NewFromInt(15)))
	require.NoError(t, store.Positions.Create(context.Background(), pos))

	return &requestFixture{
		store:      store,
		svc:        appmaint.NewPartRequestService(store.Scope(), appinv.NewLedger(logger), logger),
		ticketID:   uuid.New(),
		partID:     item.ID,
		locationID: locationID,
	}
}

func (f *requestFixture) createStoreRequest(t *testing.T, qty int64) *maintenance.PartRequest {
	t.Helper()
	req, err := f.svc.Create(context.Background(), appmaint.CreatePartRequestInput{
		TicketID:    f.ticketID,
		LocationID:  f.locationID,
		PartID:      &f.partID,
		Source:      maintenance.PartSourceStoreInventory,
		Quantity:    decimal.NewFromInt(qty),
		RequestedBy: "Tech",
	}, technician)
	require.NoError(t, err)
	return req
}

func (f *requestFixture) updateInput(req *maintenance.PartRequest, status maintenance.PartRequestStatus) appmaint.UpdatePartRequestInput {
	return appmaint.UpdatePartRequestInput{
		PartID:   req.PartID,
		Source:   req.Source,
		Status:   status,
		Quantity: req.Quantity,
	}
}

func (f *requestFixture) position(t *testing.T) *inventory.StockPosition {
	t.Helper()
	pos, err := f.store.Positions.FindByItemAndLocation(context.Background(), f.partID, f.locationID)
	require.NoError(t, err)
	return pos
}

func TestCreatePartRequest_NeverMovesStock(t *testing.T) {
	f := newRequestFixture(t)

	req := f.createStoreRequest(t, 8)

	assert.Equal(t, maintenance.PartRequestStatusRequested, req.Status)
	assert.True(t, f.position(t).Quantity.Equal(decimal.NewFromInt(15)))
	assert.Empty(t, f.store.Movements.All())
}

func TestUpdatePartRequest_ApprovalIssuesStock(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.createStoreRequest(t, 8)

	updated, err := f.svc.Update(ctx, req.ID, f.updateInput(req, maintenance.PartRequestStatusApproved), manager)
	require.NoError(t, err)
	assert.Equal(t, maintenance.PartRequestStatusApproved, updated.Status)

	pos := f.position(t)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(7)))
	assert.True(t, pos.ReservedQuantity.IsZero())

	movements, err := f.store.Movements.FindByReference(ctx, req.ID.String(), inventory.MovementTypeIssue)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.True(t, movements[0].UnitCost.Equal(decimal.RequireFromString("10.75")))
	// ISSUE movements journal the catalog price of the part
	require.NotNil(t, movements[0].UnitPrice)
	assert.True(t, movements[0].UnitPrice.Equal(decimal.NewFromInt(25)))
}

func TestUpdatePartRequest_ApprovalNeedsApprover(t *testing.T) {
	f := newRequestFixture(t)
	req := f.createStoreRequest(t, 8)

	_, err := f.svc.Update(context.Background(), req.ID, f.updateInput(req, maintenance.PartRequestStatusApproved), technician)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	// Nothing issued on the failed attempt
	assert.True(t, f.position(t).Quantity.Equal(decimal.NewFromInt(15)))
	assert.Empty(t, f.store.Movements.All())
}

func TestUpdatePartRequest_ApprovedEditLocked(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.createStoreRequest(t, 8)

	_, err := f.svc.Update(ctx, req.ID, f.updateInput(req, maintenance.PartRequestStatusApproved), manager)
	require.NoError(t, err)

	in := f.updateInput(req, maintenance.PartRequestStatusApproved)
	in.Quantity = decimal.NewFromInt(3)
	_, err = f.svc.Update(ctx, req.ID, in, manager)
	assert.ErrorIs(t, err, appmaint.ErrRequestApprovedLocked)

	otherPart := uuid.New()
	in = f.updateInput(req, maintenance.PartRequestStatusApproved)
	in.PartID = &otherPart
	_, err = f.svc.Update(ctx, req.ID, in, manager)
	assert.ErrorIs(t, err, appmaint.ErrRequestApprovedLocked)
}

func TestUpdatePartRequest_UnapproveReturnsAtRecoveredCost(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.createStoreRequest(t, 8)

	_, err := f.svc.Update(ctx, req.ID, f.updateInput(req, maintenance.PartRequestStatusApproved), manager)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, req.ID, f.updateInput(req, maintenance.PartRequestStatusRejected), manager)
	require.NoError(t, err)

	pos := f.position(t)
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(15)))

	adjustments, err := f.store.Movements.FindByReference(ctx, req.ID.String(), inventory.MovementTypeAdjustment)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.True(t, adjustments[0].UnitCost.Equal(decimal.RequireFromString("10.75")))

	available, _, err := f.store.Batches.List(ctx, inventory.BatchFilter{ItemID: &f.partID, OnlyAvailable: true})
	require.NoError(t, err)
	var reversalFound bool
	for _, batch := range available {
		if batch.Reference == "Part request reversal "+req.ID.String() {
			reversalFound = true
			assert.True(t, batch.UnitCost.Equal(decimal.RequireFromString("10.75")))
			assert.True(t, batch.QuantityRemaining.Equal(decimal.NewFromInt(8)))
		}
	}
	assert.True(t, reversalFound, "expected a reversal lot carrying the recovered cost")
}

func TestUpdatePartRequest_InsufficientStockRejected(t *testing.T) {
	f := newRequestFixture(t)
	req := f.createStoreRequest(t, 20)

	_, err := f.svc.Update(context.Background(), req.ID, f.updateInput(req, maintenance.PartRequestStatusApproved), manager)

	var insufficientErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.True(t, insufficientErr.Available.Equal(decimal.NewFromInt(15)))
	assert.True(t, f.position(t).Quantity.Equal(decimal.NewFromInt(15)))
}

func TestUpdatePartRequest_ExternalPartHoldsNothing(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	req, err := f.svc.Create(ctx, appmaint.CreatePartRequestInput{
		TicketID:         f.ticketID,
		LocationID:       f.locationID,
		Source:           maintenance.PartSourceExternalSupplier,
		Quantity:         decimal.NewFromInt(2),
		ExternalItemName: "OEM gasket kit",
		ReceiptNumber:    "SUP-441",
		Cost:             decimal.NewFromInt(30),
		RequestedBy:      "Tech",
	}, technician)
	require.NoError(t, err)

	in := appmaint.UpdatePartRequestInput{
		Source:           maintenance.PartSourceExternalSupplier,
		Status:           maintenance.PartRequestStatusApproved,
		Quantity:         req.Quantity,
		ExternalItemName: req.ExternalItemName,
		ReceiptNumber:    req.ReceiptNumber,
		Cost:             req.Cost,
		ApprovedBy:       "Manager",
	}
	updated, err := f.svc.Update(ctx, req.ID, in, manager)
	require.NoError(t, err)
	assert.Equal(t, maintenance.PartRequestStatusApproved, updated.Status)
	assert.Equal(t, "Manager", updated.ApprovedBy)

	assert.True(t, f.position(t).Quantity.Equal(decimal.NewFromInt(15)))
	assert.Empty(t, f.store.Movements.All())
}

func TestDeletePartRequest_Rules(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()
	req := f.createStoreRequest(t, 4)

	// Only approver-level actors may delete
	assert.ErrorIs(t, f.svc.Delete(ctx, req.ID, technician), shared.ErrForbidden)

	_, err := f.svc.Update(ctx, req.ID, f.updateInput(req, maintenance.PartRequestStatusApproved), manager)
	require.NoError(t, err)

	// Approved store requests hold issued stock, un-approve first
	assert.ErrorIs(t, f.svc.Delete(ctx, req.ID, manager), appmaint.ErrRequestApprovedLocked)

	_, err = f.svc.Update(ctx, req.ID, f.updateInput(req, maintenance.PartRequestStatusCancelled), manager)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, req.ID, manager))

	_, err = f.svc.Get(ctx, req.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
