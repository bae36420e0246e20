package maintenance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockops/backoffice/internal/domain/maintenance"
)

// RecordPartUsageInput is the payload for recording fitted parts
type RecordPartUsageInput struct {
	TicketID      uuid.UUID
	PartRequestID *uuid.UUID
	ItemID        *uuid.UUID
	Description   string
	Source        maintenance.PartSource
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	TotalCost     *decimal.Decimal // Defaults to quantity * unit cost
	RecordedBy    string
}

// PartUsageService records parts actually fitted during a job. Usage
// is bookkeeping only: the stock already moved when the part request
// was approved.
type PartUsageService struct {
	usages  maintenance.PartUsageRepository
	tickets maintenance.TicketRepository
	logger  *zap.Logger
}

// NewPartUsageService creates a new PartUsageService
func NewPartUsageService(usages maintenance.PartUsageRepository, tickets maintenance.TicketRepository, logger *zap.Logger) *PartUsageService {
	return &PartUsageService{usages: usages, tickets: tickets, logger: logger}
}

// Record stores one usage entry against an existing ticket
func (s *PartUsageService) Record(ctx context.Context, in RecordPartUsageInput) (*maintenance.PartUsage, error) {
	if _, err := s.tickets.FindByID(ctx, in.TicketID); err != nil {
		return nil, err
	}

	usage, err := maintenance.NewPartUsage(in.TicketID, in.Source, in.Quantity, in.UnitCost)
	if err != nil {
		return nil, err
	}
	usage.PartRequestID = in.PartRequestID
	usage.ItemID = in.ItemID
	usage.Description = in.Description
	usage.RecordedBy = in.RecordedBy
	if in.TotalCost != nil {
		usage.TotalCost = *in.TotalCost
	}

	if err := s.usages.Create(ctx, usage); err != nil {
		return nil, err
	}
	s.logger.Info("Part usage recorded",
		zap.String("ticket_id", in.TicketID.String()),
		zap.String("quantity", in.Quantity.String()),
	)
	return usage, nil
}

// ListByTicket retrieves the usage entries for one ticket
func (s *PartUsageService) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]maintenance.PartUsage, error) {
	return s.usages.FindByTicket(ctx, ticketID)
}
