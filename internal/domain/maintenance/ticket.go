package maintenance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// TicketStatus represents the lifecycle status of a maintenance ticket
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusCompleted  TicketStatus = "COMPLETED"
	TicketStatusClosed     TicketStatus = "CLOSED"
	TicketStatusCancelled  TicketStatus = "CANCELLED"
)

// IsValid returns true if the ticket status is valid
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusCompleted, TicketStatusClosed, TicketStatusCancelled:
		return true
	}
	return false
}

// Ticket is a maintenance job. Part requests and part usage records
// hang off a ticket; the ticket itself never moves stock.
type Ticket struct {
	shared.BaseEntity
	TicketNumber      string       `gorm:"type:varchar(64);not null;uniqueIndex"`
	Status            TicketStatus `gorm:"type:varchar(20);not null;index"`
	LocationID        uuid.UUID    `gorm:"type:uuid;not null;index"`
	CustomerName      string       `gorm:"type:varchar(255)"`
	CustomerPhone     string       `gorm:"type:varchar(50)"`
	DeviceDescription string       `gorm:"type:varchar(500)"`
	ReportedProblem   string       `gorm:"type:varchar(1000)"`
	AssignedTo        string       `gorm:"type:varchar(100)"`
	OpenedAt          time.Time    `gorm:"type:timestamptz;not null"`
	ClosedAt          *time.Time   `gorm:"type:timestamptz"`
	Notes             string       `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (Ticket) TableName() string {
	return "maintenance_tickets"
}

// NewTicket opens a new maintenance ticket
func NewTicket(ticketNumber string, locationID uuid.UUID, customerName string) (*Ticket, error) {
	if strings.TrimSpace(ticketNumber) == "" {
		return nil, shared.NewDomainError("INVALID_TICKET_NUMBER", "Ticket number cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("LOCATION_REQUIRED", "Ticket location is required")
	}
	return &Ticket{
		BaseEntity:   shared.NewBaseEntity(),
		TicketNumber: strings.TrimSpace(ticketNumber),
		Status:       TicketStatusOpen,
		LocationID:   locationID,
		CustomerName: customerName,
		OpenedAt:     time.Now(),
	}, nil
}

// Close marks the ticket closed
func (t *Ticket) Close(status TicketStatus) error {
	if status != TicketStatusClosed && status != TicketStatusCompleted && status != TicketStatusCancelled {
		return shared.NewDomainError("INVALID_STATUS", "Close requires a terminal status")
	}
	t.Status = status
	now := time.Now()
	t.ClosedAt = &now
	t.Touch()
	return nil
}
