package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// TransitionRequest describes a document moving between lifecycle
// stages. OldRequired/NewRequired are the per-item quantities the
// document held before and should hold after; the ledger applies only
// the net effect.
type TransitionRequest struct {
	LocationID  uuid.UUID
	ReferenceID string

	OldStage    inventory.LifecycleStage
	NewStage    inventory.LifecycleStage
	OldRequired map[uuid.UUID]decimal.Decimal
	NewRequired map[uuid.UUID]decimal.Decimal

	// Prices carries the per-item selling price journaled on consumption
	Prices map[uuid.UUID]decimal.Decimal
	// ConsumeType is the outbound movement type (SALE or ISSUE)
	ConsumeType  inventory.MovementType
	ConsumeNotes string
	ReturnNotes  string
	// ReturnBatchNote is the reference stamped on reversal lots
	ReturnBatchNote string

	Operator   string
	OccurredAt time.Time
}

// Transition moves a document's stock holding from its old stage and
// quantities to the new ones. Within a stage it applies per-item net
// deltas; across stages it fully releases the old holding and then
// establishes the new one. The whole request succeeds or fails as one
// unit; callers run it inside a LedgerScope.
func (l *Ledger) Transition(ctx context.Context, repos LedgerRepositories, req TransitionRequest) error {
	if !req.OldStage.IsValid() || !req.NewStage.IsValid() {
		return shared.NewDomainError("INVALID_STAGE", "Invalid lifecycle stage")
	}

	if req.OldStage == req.NewStage {
		return l.transitionWithinStage(ctx, repos, req)
	}

	// Stage changed: fully unwind the old holding, then establish the
	// new one. Reservation release must precede consumption so the
	// freed quantity counts as available again.
	if err := l.releaseStage(ctx, repos, req, req.OldStage, req.OldRequired); err != nil {
		return err
	}
	return l.establishStage(ctx, repos, req, req.NewStage, req.NewRequired)
}

func (l *Ledger) transitionWithinStage(ctx context.Context, repos LedgerRepositories, req TransitionRequest) error {
	if req.OldStage == inventory.StageNone {
		return nil
	}

	for _, itemID := range sortedItemIDs(unionItems(req.OldRequired, req.NewRequired)) {
		oldQty := quantityOrZero(req.OldRequired, itemID)
		newQty := quantityOrZero(req.NewRequired, itemID)
		delta := newQty.Sub(oldQty)
		if delta.IsZero() {
			continue
		}

		switch req.OldStage {
		case inventory.StageReserved:
			if err := l.ApplyReserveDelta(ctx, repos, itemID, req.LocationID, delta); err != nil {
				return err
			}
		case inventory.StageConsumed:
			if delta.IsPositive() {
				if _, err := l.Consume(ctx, repos, l.consumeInput(req, itemID, delta)); err != nil {
					return err
				}
			} else {
				if _, err := l.Return(ctx, repos, l.returnInput(req, itemID, delta.Neg())); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (l *Ledger) releaseStage(ctx context.Context, repos LedgerRepositories, req TransitionRequest, stage inventory.LifecycleStage, required map[uuid.UUID]decimal.Decimal) error {
	if stage == inventory.StageNone {
		return nil
	}
	for _, itemID := range sortedItemIDs(required) {
		quantity := required[itemID]
		if quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		switch stage {
		case inventory.StageReserved:
			if err := l.ApplyReserveDelta(ctx, repos, itemID, req.LocationID, quantity.Neg()); err != nil {
				return err
			}
		case inventory.StageConsumed:
			if _, err := l.Return(ctx, repos, l.returnInput(req, itemID, quantity)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Ledger) establishStage(ctx context.Context, repos LedgerRepositories, req TransitionRequest, stage inventory.LifecycleStage, required map[uuid.UUID]decimal.Decimal) error {
	if stage == inventory.StageNone {
		return nil
	}
	for _, itemID := range sortedItemIDs(required) {
		quantity := required[itemID]
		if quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		switch stage {
		case inventory.StageReserved:
			if err := l.ApplyReserveDelta(ctx, repos, itemID, req.LocationID, quantity); err != nil {
				return err
			}
		case inventory.StageConsumed:
			if _, err := l.Consume(ctx, repos, l.consumeInput(req, itemID, quantity)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Ledger) consumeInput(req TransitionRequest, itemID uuid.UUID, quantity decimal.Decimal) ConsumeInput {
	in := ConsumeInput{
		ItemID:       itemID,
		LocationID:   req.LocationID,
		Quantity:     quantity,
		MovementType: req.ConsumeType,
		ReferenceID:  req.ReferenceID,
		Operator:     req.Operator,
		Notes:        req.ConsumeNotes,
		OccurredAt:   req.OccurredAt,
	}
	if price, ok := req.Prices[itemID]; ok {
		in.UnitPrice = &price
	}
	return in
}

func (l *Ledger) returnInput(req TransitionRequest, itemID uuid.UUID, quantity decimal.Decimal) ReturnInput {
	return ReturnInput{
		ItemID:      itemID,
		LocationID:  req.LocationID,
		Quantity:    quantity,
		RecoverType: req.ConsumeType,
		ReferenceID: req.ReferenceID,
		BatchNote:   req.ReturnBatchNote,
		Notes:       req.ReturnNotes,
		Operator:    req.Operator,
		OccurredAt:  req.OccurredAt,
	}
}

func unionItems(a, b map[uuid.UUID]decimal.Decimal) map[uuid.UUID]decimal.Decimal {
	union := make(map[uuid.UUID]decimal.Decimal, len(a)+len(b))
	for id := range a {
		union[id] = decimal.Zero
	}
	for id := range b {
		union[id] = decimal.Zero
	}
	return union
}

func quantityOrZero(m map[uuid.UUID]decimal.Decimal, id uuid.UUID) decimal.Decimal {
	if q, ok := m[id]; ok {
		return q
	}
	return decimal.Zero
}
