package maintenance

import (
	"context"

	"github.com/google/uuid"
)

// TicketRepository manages maintenance ticket persistence
type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]Ticket, int64, error)
	Create(ctx context.Context, ticket *Ticket) error
	Save(ctx context.Context, ticket *Ticket) error
}

// TicketFilter defines query criteria for tickets
type TicketFilter struct {
	Status     *TicketStatus
	LocationID *uuid.UUID
	Search     string // Matches ticket number or customer name
	Limit      int
	Offset     int
}

// PartRequestRepository manages part request persistence
type PartRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PartRequest, error)
	FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]PartRequest, error)
	List(ctx context.Context, filter PartRequestFilter) ([]PartRequest, int64, error)
	Create(ctx context.Context, request *PartRequest) error
	Save(ctx context.Context, request *PartRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartRequestFilter defines query criteria for part requests
type PartRequestFilter struct {
	TicketID *uuid.UUID
	Status   *PartRequestStatus
	Source   *PartSource
	Limit    int
	Offset   int
}

// PartUsageRepository manages part usage persistence
type PartUsageRepository interface {
	FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]PartUsage, error)
	Create(ctx context.Context, usage *PartUsage) error
}
