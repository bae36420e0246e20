package maintenance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// PartUsage records a part actually fitted during a maintenance job.
// It is bookkeeping only; the stock movement happened when the part
// request was approved.
type PartUsage struct {
	shared.BaseEntity
	TicketID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartRequestID *uuid.UUID      `gorm:"type:uuid;index"`
	ItemID        *uuid.UUID      `gorm:"type:uuid;index"`
	Description   string          `gorm:"type:varchar(500)"`
	Source        PartSource      `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RecordedBy    string          `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (PartUsage) TableName() string {
	return "maintenance_part_usages"
}

// NewPartUsage records fitted parts. TotalCost defaults to quantity
// times unit cost when not supplied.
func NewPartUsage(ticketID uuid.UUID, source PartSource, quantity, unitCost decimal.Decimal) (*PartUsage, error) {
	if ticketID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TICKET", "Ticket ID cannot be empty")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invalid part source")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	return &PartUsage{
		BaseEntity: shared.NewBaseEntity(),
		TicketID:   ticketID,
		Source:     source,
		Quantity:   quantity,
		UnitCost:   unitCost,
		TotalCost:  quantity.Mul(unitCost),
	}, nil
}
