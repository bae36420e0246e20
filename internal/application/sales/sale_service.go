package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appinv "github.com/stockops/backoffice/internal/application/inventory"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/sales"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// Sale document locks
var (
	// ErrSaleLocked guards completed sales against non-admin edits
	ErrSaleLocked = shared.NewDomainError("SALE_LOCKED", "Completed sales can only be amended by an admin")
	// ErrLocationLocked rejects moving a sale to another location
	ErrLocationLocked = shared.NewDomainError("LOCATION_LOCKED", "A sale cannot change location; cancel and re-create it instead")
)

// saleReturnNote is journaled on reversals caused by sale edits
const saleReturnNote = "Sale line item update reversal."

// Service is the sales document engine. It owns the sale document
// itself and delegates every stock effect to the ledger, derived from
// the status transition: OPEN reserves, COMPLETED consumes, anything
// else holds nothing.
type Service struct {
	scope  appinv.LedgerScope
	ledger *appinv.Ledger
	logger *zap.Logger
}

// NewService creates a new sales service
func NewService(scope appinv.LedgerScope, ledger *appinv.Ledger, logger *zap.Logger) *Service {
	return &Service{scope: scope, ledger: ledger, logger: logger}
}

// Create records a new sale and applies its initial stock holding
func (s *Service) Create(ctx context.Context, in CreateSaleInput, actor shared.Actor) (*sales.Sale, error) {
	sale, err := sales.NewSale(in.LocationID, in.ReceiptNumber, in.PaymentMethod, in.Status, in.PaymentStatus)
	if err != nil {
		return nil, err
	}
	sale.SaleNumber = in.SaleNumber
	sale.SaleType = in.SaleType
	sale.CustomerName = in.CustomerName
	sale.CustomerPhone = in.CustomerPhone
	sale.CustomerTIN = in.CustomerTIN
	sale.MaintenanceTicketID = in.MaintenanceTicketID
	sale.DiscountAmount = in.DiscountAmount
	sale.TaxAmount = in.TaxAmount
	sale.PerformedBy = in.PerformedBy
	sale.Notes = in.Notes
	if in.SaleDate != nil {
		sale.SaleDate = *in.SaleDate
	}

	items, err := buildLines(sale.ID, in.Lines)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	sale.RecalculateTotals()

	err = s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		required := sale.RequiredByItem()
		if sale.Stage() != inventory.StageNone {
			if err := s.ledger.EnsureAvailable(ctx, repos, sale.LocationID, required); err != nil {
				return err
			}
		}

		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}

		return s.ledger.Transition(ctx, repos, s.transitionRequest(sale,
			inventory.StageNone, nil,
			sale.Stage(), required,
		))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("status", string(sale.Status)),
		zap.String("receipt_number", sale.ReceiptNumber),
	)
	return sale, nil
}

// Update amends a sale, applying only the net stock effect of the
// change. Completed sales are admin-only; location changes are always
// rejected.
func (s *Service) Update(ctx context.Context, saleID uuid.UUID, in UpdateSaleInput, actor shared.Actor) (*sales.Sale, error) {
	var updated *sales.Sale
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		sale, err := repos.Sales().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if !sale.CanBeEditedBy(actor) {
			return ErrSaleLocked
		}
		if in.LocationID != uuid.Nil && in.LocationID != sale.LocationID {
			return ErrLocationLocked
		}
		if !in.Status.IsValid() {
			return shared.NewDomainError("INVALID_STATUS", "Invalid sale status")
		}
		if !in.PaymentStatus.IsValid() {
			return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Invalid payment status")
		}

		oldStage := sale.Stage()
		oldRequired := sale.RequiredByItem()

		items, err := buildLines(sale.ID, in.Lines)
		if err != nil {
			return err
		}

		sale.ReceiptNumber = in.ReceiptNumber
		sale.SaleType = in.SaleType
		sale.Status = in.Status
		sale.PaymentStatus = in.PaymentStatus
		sale.PaymentMethod = in.PaymentMethod
		sale.CustomerName = in.CustomerName
		sale.CustomerPhone = in.CustomerPhone
		sale.CustomerTIN = in.CustomerTIN
		sale.DiscountAmount = in.DiscountAmount
		sale.TaxAmount = in.TaxAmount
		sale.PerformedBy = in.PerformedBy
		sale.Notes = in.Notes
		if in.SaleDate != nil {
			sale.SaleDate = *in.SaleDate
		}
		sale.Items = items
		sale.RecalculateTotals()

		if err := s.ledger.Transition(ctx, repos, s.transitionRequest(sale,
			oldStage, oldRequired,
			sale.Stage(), sale.RequiredByItem(),
		)); err != nil {
			return err
		}

		if err := repos.Sales().ReplaceItems(ctx, sale.ID, items); err != nil {
			return err
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sale updated",
		zap.String("sale_id", saleID.String()),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// Delete removes a sale after unwinding whatever stock it held
func (s *Service) Delete(ctx context.Context, saleID uuid.UUID, actor shared.Actor) error {
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		sale, err := repos.Sales().FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if !sale.CanBeEditedBy(actor) {
			return ErrSaleLocked
		}

		if err := s.ledger.Transition(ctx, repos, s.transitionRequest(sale,
			sale.Stage(), sale.RequiredByItem(),
			inventory.StageNone, nil,
		)); err != nil {
			return err
		}
		return repos.Sales().Delete(ctx, sale.ID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Sale deleted", zap.String("sale_id", saleID.String()))
	return nil
}

// Get retrieves one sale with its lines
func (s *Service) Get(ctx context.Context, saleID uuid.UUID) (*sales.Sale, error) {
	var sale *sales.Sale
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		var err error
		sale, err = repos.Sales().FindByID(ctx, saleID)
		return err
	})
	return sale, err
}

// List retrieves sales matching a filter
func (s *Service) List(ctx context.Context, filter sales.Filter) ([]sales.Sale, int64, error) {
	var (
		result []sales.Sale
		total  int64
	)
	err := s.scope.Execute(ctx, func(repos appinv.LedgerRepositories) error {
		var err error
		result, total, err = repos.Sales().List(ctx, filter)
		return err
	})
	return result, total, err
}

func (s *Service) transitionRequest(
	sale *sales.Sale,
	oldStage inventory.LifecycleStage, oldRequired map[uuid.UUID]decimal.Decimal,
	newStage inventory.LifecycleStage, newRequired map[uuid.UUID]decimal.Decimal,
) appinv.TransitionRequest {
	return appinv.TransitionRequest{
		LocationID:      sale.LocationID,
		ReferenceID:     sale.ID.String(),
		OldStage:        oldStage,
		NewStage:        newStage,
		OldRequired:     oldRequired,
		NewRequired:     newRequired,
		Prices:          sale.PriceByItem(),
		ConsumeType:     inventory.MovementTypeSale,
		ReturnNotes:     saleReturnNote,
		ReturnBatchNote: fmt.Sprintf("Sale reversal %s", sale.ID),
		Operator:        sale.PerformedBy,
		OccurredAt:      sale.SaleDate,
	}
}

func buildLines(saleID uuid.UUID, lines []SaleLineInput) ([]sales.SaleItem, error) {
	items := make([]sales.SaleItem, 0, len(lines))
	for _, line := range lines {
		item, err := sales.NewSaleItem(saleID, line.ItemID, line.LineType, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		item.Description = line.Description
		item.DiscountAmount = line.DiscountAmount
		item.TaxAmount = line.TaxAmount
		if line.AffectsInventory != nil {
			item.SetAffectsInventory(*line.AffectsInventory)
		}
		items = append(items, *item)
	}
	return items, nil
}
