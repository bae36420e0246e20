package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// Ledger is the stock accounting engine. Document services hand it
// per-item quantity maps and lifecycle stages; it applies the position,
// lot and journal effects inside the caller's transaction scope.
//
// All methods expect to run inside a LedgerScope.Execute call so that
// position row locks taken via FindByItemAndLocationForUpdate are held
// until the surrounding transaction commits.
type Ledger struct {
	logger *zap.Logger
}

// NewLedger creates a new ledger engine
func NewLedger(logger *zap.Logger) *Ledger {
	return &Ledger{logger: logger}
}

// Available returns the uncommitted quantity for an item at a location.
// A missing position row reads as zero.
func (l *Ledger) Available(ctx context.Context, repos LedgerRepositories, itemID, locationID uuid.UUID) (decimal.Decimal, error) {
	pos, err := repos.Positions().FindByItemAndLocation(ctx, itemID, locationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return pos.Available(), nil
}

// EnsureAvailable verifies that every requested quantity is currently
// available at the location. Used as a pre-check before a document is
// accepted; the individual operations re-check under lock.
func (l *Ledger) EnsureAvailable(ctx context.Context, repos LedgerRepositories, locationID uuid.UUID, required map[uuid.UUID]decimal.Decimal) error {
	for _, itemID := range sortedItemIDs(required) {
		quantity := required[itemID]
		if quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		available, err := l.Available(ctx, repos, itemID, locationID)
		if err != nil {
			return err
		}
		if available.LessThan(quantity) {
			return &inventory.InsufficientStockError{
				ItemID:     itemID,
				LocationID: locationID,
				Requested:  quantity,
				Available:  available,
			}
		}
	}
	return nil
}

// ApplyQuantityDelta adjusts the physical quantity of a position by a
// signed delta, creating the row on first positive delta. A negative
// delta against a missing row is an insufficient stock failure, not a
// row creation.
func (l *Ledger) ApplyQuantityDelta(ctx context.Context, repos LedgerRepositories, itemID, locationID uuid.UUID, delta decimal.Decimal) (*inventory.StockPosition, error) {
	if delta.IsZero() {
		return repos.Positions().FindByItemAndLocation(ctx, itemID, locationID)
	}

	pos, err := repos.Positions().FindByItemAndLocationForUpdate(ctx, itemID, locationID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if delta.IsNegative() {
			return nil, &inventory.InsufficientStockError{
				ItemID:     itemID,
				LocationID: locationID,
				Requested:  delta.Neg(),
				Available:  decimal.Zero,
			}
		}
		pos = inventory.NewStockPosition(itemID, locationID)
		if err := pos.ApplyQuantityDelta(delta); err != nil {
			return nil, err
		}
		if err := repos.Positions().Create(ctx, pos); err != nil {
			return nil, err
		}
		return pos, nil
	}

	if err := pos.ApplyQuantityDelta(delta); err != nil {
		return nil, err
	}
	if err := repos.Positions().Save(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// ApplyReserveDelta adjusts the reserved quantity of a position by a
// signed delta. Reserving against a missing row fails with the zero
// availability it implies.
func (l *Ledger) ApplyReserveDelta(ctx context.Context, repos LedgerRepositories, itemID, locationID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}

	pos, err := repos.Positions().FindByItemAndLocationForUpdate(ctx, itemID, locationID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if delta.IsPositive() {
			return &inventory.InsufficientStockError{
				ItemID:     itemID,
				LocationID: locationID,
				Requested:  delta,
				Available:  decimal.Zero,
			}
		}
		return shared.NewDomainError("INVALID_RELEASE", "Cannot release a reservation that was never taken")
	}

	if err := pos.ApplyReservedDelta(delta); err != nil {
		return err
	}
	return repos.Positions().Save(ctx, pos)
}

// ConsumeInput describes one hard deduction from stock
type ConsumeInput struct {
	ItemID       uuid.UUID
	LocationID   uuid.UUID
	Quantity     decimal.Decimal
	MovementType inventory.MovementType // SALE or ISSUE
	ReferenceID  string
	UnitPrice    *decimal.Decimal // Selling price, when one applies
	Operator     string
	Notes        string
	OccurredAt   time.Time
}

// Consume deducts quantity from the oldest lots, decrements the
// position and journals an outbound movement carrying the weighted
// cost of the lots touched.
func (l *Ledger) Consume(ctx context.Context, repos LedgerRepositories, in ConsumeInput) (*inventory.Movement, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Consume quantity must be positive")
	}
	if !in.MovementType.IsOutbound() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Consumption must journal an outbound movement")
	}

	pos, err := repos.Positions().FindByItemAndLocationForUpdate(ctx, in.ItemID, in.LocationID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, &inventory.InsufficientStockError{
				ItemID:     in.ItemID,
				LocationID: in.LocationID,
				Requested:  in.Quantity,
				Available:  decimal.Zero,
			}
		}
		return nil, err
	}
	if pos.Available().LessThan(in.Quantity) {
		return nil, &inventory.InsufficientStockError{
			ItemID:     in.ItemID,
			LocationID: in.LocationID,
			Requested:  in.Quantity,
			Available:  pos.Available(),
		}
	}

	batches, err := repos.Batches().FindAvailable(ctx, in.ItemID, in.LocationID)
	if err != nil {
		return nil, err
	}
	plan, err := inventory.PlanFIFOConsumption(in.Quantity, batches)
	if err != nil {
		return nil, err
	}
	if !plan.FullyFulfilled() {
		return nil, &inventory.InsufficientStockError{
			ItemID:     in.ItemID,
			LocationID: in.LocationID,
			Requested:  in.Quantity,
			Available:  plan.TotalDeducted,
		}
	}

	live := make([]*inventory.StockBatch, len(batches))
	for i := range batches {
		live[i] = &batches[i]
	}
	if err := inventory.ApplyConsumptionPlan(live, plan); err != nil {
		return nil, err
	}
	touched := make(map[uuid.UUID]bool, len(plan.Deductions))
	for _, d := range plan.Deductions {
		touched[d.BatchID] = true
	}
	for _, batch := range live {
		if touched[batch.ID] {
			if err := repos.Batches().Save(ctx, batch); err != nil {
				return nil, err
			}
		}
	}

	if err := pos.ApplyQuantityDelta(in.Quantity.Neg()); err != nil {
		return nil, err
	}
	if err := repos.Positions().Save(ctx, pos); err != nil {
		return nil, err
	}

	movement, err := inventory.NewMovement(in.ItemID, in.LocationID, in.MovementType, in.Quantity, plan.WeightedUnitCost, in.ReferenceID)
	if err != nil {
		return nil, err
	}
	movement.WithOperator(in.Operator).WithNotes(in.Notes)
	if in.UnitPrice != nil {
		movement.WithUnitPrice(*in.UnitPrice)
	}
	if !in.OccurredAt.IsZero() {
		movement.WithOccurredAt(in.OccurredAt)
	}
	if err := repos.Movements().Create(ctx, movement); err != nil {
		return nil, err
	}

	l.logger.Debug("Consumed stock",
		zap.String("item_id", in.ItemID.String()),
		zap.String("location_id", in.LocationID.String()),
		zap.String("quantity", in.Quantity.String()),
		zap.String("weighted_unit_cost", plan.WeightedUnitCost.String()),
		zap.String("reference_id", in.ReferenceID),
	)
	return movement, nil
}

// ReturnInput describes one reversal of previously consumed stock
type ReturnInput struct {
	ItemID      uuid.UUID
	LocationID  uuid.UUID
	Quantity    decimal.Decimal
	RecoverType inventory.MovementType // Movement type the cost basis is recovered from
	ReferenceID string
	BatchNote   string // Reference stamped on the reversal lot
	Notes       string
	Operator    string
	OccurredAt  time.Time
}

// Return brings previously consumed stock back by minting a fresh lot
// at the cost basis recovered from the document's own outbound
// movements. Consumed lots are never refilled, so the returned stock
// re-enters the FIFO queue as the newest lot.
func (l *Ledger) Return(ctx context.Context, repos LedgerRepositories, in ReturnInput) (*inventory.Movement, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}

	unitCost, unitPrice, err := l.CostBasis(ctx, repos, in.ReferenceID, in.ItemID, in.RecoverType)
	if err != nil {
		return nil, err
	}

	batch, err := inventory.NewStockBatch(in.ItemID, in.LocationID, time.Now(), in.Quantity, unitCost, in.BatchNote)
	if err != nil {
		return nil, err
	}
	if err := repos.Batches().Create(ctx, batch); err != nil {
		return nil, err
	}

	if _, err := l.ApplyQuantityDelta(ctx, repos, in.ItemID, in.LocationID, in.Quantity); err != nil {
		return nil, err
	}

	movement, err := inventory.NewMovement(in.ItemID, in.LocationID, inventory.MovementTypeAdjustment, in.Quantity, unitCost, in.ReferenceID)
	if err != nil {
		return nil, err
	}
	movement.WithOperator(in.Operator).WithNotes(in.Notes)
	if unitPrice != nil {
		movement.WithUnitPrice(*unitPrice)
	}
	if !in.OccurredAt.IsZero() {
		movement.WithOccurredAt(in.OccurredAt)
	}
	if err := repos.Movements().Create(ctx, movement); err != nil {
		return nil, err
	}

	l.logger.Debug("Returned stock",
		zap.String("item_id", in.ItemID.String()),
		zap.String("location_id", in.LocationID.String()),
		zap.String("quantity", in.Quantity.String()),
		zap.String("recovered_unit_cost", unitCost.String()),
		zap.String("reference_id", in.ReferenceID),
	)
	return movement, nil
}

// CostBasis recovers the weighted unit cost (and price, when recorded)
// from the movements a document journaled earlier. Falls back to zero
// cost when the document never moved this item.
func (l *Ledger) CostBasis(ctx context.Context, repos LedgerRepositories, referenceID string, itemID uuid.UUID, movementType inventory.MovementType) (decimal.Decimal, *decimal.Decimal, error) {
	movements, err := repos.Movements().FindByReference(ctx, referenceID, movementType)
	if err != nil {
		return decimal.Zero, nil, err
	}

	costTotal := decimal.Zero
	priceTotal := decimal.Zero
	quantity := decimal.Zero
	pricedQuantity := decimal.Zero
	for _, m := range movements {
		if m.ItemID != itemID {
			continue
		}
		quantity = quantity.Add(m.Quantity)
		costTotal = costTotal.Add(m.Quantity.Mul(m.UnitCost))
		if m.UnitPrice != nil {
			pricedQuantity = pricedQuantity.Add(m.Quantity)
			priceTotal = priceTotal.Add(m.Quantity.Mul(*m.UnitPrice))
		}
	}

	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil, nil
	}
	unitCost := costTotal.Div(quantity).Round(4)
	if pricedQuantity.GreaterThan(decimal.Zero) {
		unitPrice := priceTotal.Div(pricedQuantity).Round(4)
		return unitCost, &unitPrice, nil
	}
	return unitCost, nil, nil
}

func sortedItemIDs(m map[uuid.UUID]decimal.Decimal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	// Stable lock order across concurrent transactions.
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
