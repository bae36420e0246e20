package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// TransferInput describes a stock move between two locations
type TransferInput struct {
	ItemID         uuid.UUID
	FromLocationID uuid.UUID
	ToLocationID   uuid.UUID
	Quantity       decimal.Decimal
	EmployeeName   string
	Reference      string
	Notes          string
}

// TransferResult reports what a transfer moved
type TransferResult struct {
	TransferID       uuid.UUID
	OutMovement      *inventory.Movement
	InMovement       *inventory.Movement
	CreatedBatches   []*inventory.StockBatch
	WeightedUnitCost decimal.Decimal
}

// TransferService moves stock between locations while preserving lot
// identity: every source lot deducted mints a destination lot at the
// same unit cost, so the cost history survives the move.
type TransferService struct {
	scope  LedgerScope
	ledger *Ledger
	logger *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(scope LedgerScope, ledger *Ledger, logger *zap.Logger) *TransferService {
	return &TransferService{scope: scope, ledger: ledger, logger: logger}
}

// Transfer executes one stock move atomically
func (s *TransferService) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.FromLocationID == in.ToLocationID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination must differ")
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be positive")
	}
	if strings.TrimSpace(in.EmployeeName) == "" {
		return nil, shared.NewDomainError("EMPLOYEE_REQUIRED", "Transfers must name the employee moving the stock")
	}

	transferID := uuid.New()
	batchReference := fmt.Sprintf("Transfer %s", transferID)
	if strings.TrimSpace(in.Reference) != "" {
		batchReference = fmt.Sprintf("Transfer %s - %s", transferID, strings.TrimSpace(in.Reference))
	}

	var result TransferResult
	err := s.scope.Execute(ctx, func(repos LedgerRepositories) error {
		source, err := repos.Positions().FindByItemAndLocationForUpdate(ctx, in.ItemID, in.FromLocationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return &inventory.InsufficientStockError{
					ItemID:     in.ItemID,
					LocationID: in.FromLocationID,
					Requested:  in.Quantity,
					Available:  decimal.Zero,
				}
			}
			return err
		}
		if source.Available().LessThan(in.Quantity) {
			return &inventory.InsufficientStockError{
				ItemID:     in.ItemID,
				LocationID: in.FromLocationID,
				Requested:  in.Quantity,
				Available:  source.Available(),
			}
		}

		batches, err := repos.Batches().FindAvailable(ctx, in.ItemID, in.FromLocationID)
		if err != nil {
			return err
		}
		plan, err := inventory.PlanFIFOConsumption(in.Quantity, batches)
		if err != nil {
			return err
		}
		if !plan.FullyFulfilled() {
			return &inventory.InsufficientStockError{
				ItemID:     in.ItemID,
				LocationID: in.FromLocationID,
				Requested:  in.Quantity,
				Available:  plan.TotalDeducted,
			}
		}

		live := make([]*inventory.StockBatch, len(batches))
		byID := make(map[uuid.UUID]*inventory.StockBatch, len(batches))
		for i := range batches {
			live[i] = &batches[i]
			byID[batches[i].ID] = live[i]
		}
		if err := inventory.ApplyConsumptionPlan(live, plan); err != nil {
			return err
		}

		now := time.Now()
		created := make([]*inventory.StockBatch, 0, len(plan.Deductions))
		for _, d := range plan.Deductions {
			if err := repos.Batches().Save(ctx, byID[d.BatchID]); err != nil {
				return err
			}
			// One destination lot per source lot, same unit cost.
			destBatch, err := inventory.NewStockBatch(in.ItemID, in.ToLocationID, now, d.DeductedAmount, d.UnitCost, batchReference)
			if err != nil {
				return err
			}
			if err := repos.Batches().Create(ctx, destBatch); err != nil {
				return err
			}
			created = append(created, destBatch)
		}

		if err := source.ApplyQuantityDelta(in.Quantity.Neg()); err != nil {
			return err
		}
		if err := repos.Positions().Save(ctx, source); err != nil {
			return err
		}

		if _, err := s.ledger.ApplyQuantityDelta(ctx, repos, in.ItemID, in.ToLocationID, in.Quantity); err != nil {
			return err
		}

		out, err := inventory.NewMovement(in.ItemID, in.FromLocationID, inventory.MovementTypeTransferOut, in.Quantity, plan.WeightedUnitCost, transferID.String())
		if err != nil {
			return err
		}
		out.WithOperator(in.EmployeeName).WithNotes(in.Notes).WithOccurredAt(now)
		if err := repos.Movements().Create(ctx, out); err != nil {
			return err
		}

		inMove, err := inventory.NewMovement(in.ItemID, in.ToLocationID, inventory.MovementTypeTransferIn, in.Quantity, plan.WeightedUnitCost, transferID.String())
		if err != nil {
			return err
		}
		inMove.WithOperator(in.EmployeeName).WithNotes(in.Notes).WithOccurredAt(now)
		if err := repos.Movements().Create(ctx, inMove); err != nil {
			return err
		}

		result = TransferResult{
			TransferID:       transferID,
			OutMovement:      out,
			InMovement:       inMove,
			CreatedBatches:   created,
			WeightedUnitCost: plan.WeightedUnitCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock transferred",
		zap.String("transfer_id", transferID.String()),
		zap.String("item_id", in.ItemID.String()),
		zap.String("from", in.FromLocationID.String()),
		zap.String("to", in.ToLocationID.String()),
		zap.String("quantity", in.Quantity.String()),
	)
	return &result, nil
}
