package maintenance

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// CreateTicketInput is the payload for opening a maintenance ticket
type CreateTicketInput struct {
	TicketNumber      string
	LocationID        uuid.UUID
	CustomerName      string
	CustomerPhone     string
	DeviceDescription string
	ReportedProblem   string
	AssignedTo        string
	Notes             string
}

// TicketService manages maintenance tickets. Tickets anchor part
// requests and usage records but never move stock themselves.
type TicketService struct {
	tickets maintenance.TicketRepository
	logger  *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(tickets maintenance.TicketRepository, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, logger: logger}
}

// Create opens a new ticket
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (*maintenance.Ticket, error) {
	ticket, err := maintenance.NewTicket(in.TicketNumber, in.LocationID, in.CustomerName)
	if err != nil {
		return nil, err
	}
	ticket.CustomerPhone = in.CustomerPhone
	ticket.DeviceDescription = in.DeviceDescription
	ticket.ReportedProblem = in.ReportedProblem
	ticket.AssignedTo = in.AssignedTo
	ticket.Notes = in.Notes

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("Maintenance ticket opened",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("ticket_number", ticket.TicketNumber),
	)
	return ticket, nil
}

// UpdateStatus moves a ticket through its lifecycle
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID uuid.UUID, status maintenance.TicketStatus) (*maintenance.Ticket, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid ticket status")
	}
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	switch status {
	case maintenance.TicketStatusClosed, maintenance.TicketStatusCompleted, maintenance.TicketStatusCancelled:
		if err := ticket.Close(status); err != nil {
			return nil, err
		}
	default:
		ticket.Status = status
		ticket.Touch()
	}

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Get retrieves one ticket
func (s *TicketService) Get(ctx context.Context, ticketID uuid.UUID) (*maintenance.Ticket, error) {
	return s.tickets.FindByID(ctx, ticketID)
}

// List retrieves tickets matching a filter
func (s *TicketService) List(ctx context.Context, filter maintenance.TicketFilter) ([]maintenance.Ticket, int64, error) {
	return s.tickets.List(ctx, filter)
}
