package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// ReceiveInput describes a batch of stock arriving from a supplier
type ReceiveInput struct {
	ItemID     uuid.UUID
	LocationID uuid.UUID
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Reference  string // Supplier invoice or delivery note
	ReceivedAt time.Time
	Operator   string
}

// ReceiveResult is everything a receipt touched
type ReceiveResult struct {
	Batch    *inventory.StockBatch
	Item     *catalog.Item
	Position *inventory.StockPosition
	Movement *inventory.Movement
}

// ReceiptService books incoming stock: a new cost lot, the position
// increment, the RECEIPT journal entry, and the item's cached cost and
// margin-derived price refresh.
type ReceiptService struct {
	scope  LedgerScope
	ledger *Ledger
	logger *zap.Logger
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(scope LedgerScope, ledger *Ledger, logger *zap.Logger) *ReceiptService {
	return &ReceiptService{scope: scope, ledger: ledger, logger: logger}
}

// Receive books one incoming batch atomically
func (s *ReceiptService) Receive(ctx context.Context, in ReceiveInput) (*ReceiveResult, error) {
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if in.UnitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	receivedAt := in.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	var result ReceiveResult
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		item, err := repos.Items().FindByID(ctx, in.ItemID)
		if err != nil {
			return err
		}

		batch, err := inventory.NewStockBatch(in.ItemID, in.LocationID, receivedAt, in.Quantity, in.UnitCost, in.Reference)
		if err != nil {
			return err
		}
		if err := repos.Batches().Create(ctx, batch); err != nil {
			return err
		}

		priceChanged := item.RefreshCost(in.UnitCost)
		if err := repos.Items().Save(ctx, item); err != nil {
			return err
		}
		if priceChanged {
			s.logger.Info("Item price refreshed from receipt",
				zap.String("item_id", item.ID.String()),
				zap.String("price", item.Price.String()),
			)
		}

		position, err := s.ledger.ApplyQuantityDelta(ctx, repos, in.ItemID, in.LocationID, in.Quantity)
		if err != nil {
			return err
		}

		referenceID := in.Reference
		if referenceID == "" {
			referenceID = batch.ID.String()
		}
		movement, err := inventory.NewMovement(in.ItemID, in.LocationID, inventory.MovementTypeReceipt, in.Quantity, in.UnitCost, referenceID)
		if err != nil {
			return err
		}
		movement.WithOperator(in.Operator).WithOccurredAt(receivedAt)
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		result = ReceiveResult{Batch: batch, Item: item, Position: position, Movement: movement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock received",
		zap.String("item_id", in.ItemID.String()),
		zap.String("location_id", in.LocationID.String()),
		zap.String("quantity", in.Quantity.String()),
		zap.String("unit_cost", in.UnitCost.String()),
	)
	return &result, nil
}
