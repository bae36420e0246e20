package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// MovementType represents the kind of stock movement being recorded
type MovementType string

const (
	// MovementTypeReceipt represents stock received from a supplier
	MovementTypeReceipt MovementType = "RECEIPT"
	// MovementTypeTransferIn represents stock arriving from another location
	MovementTypeTransferIn MovementType = "TRANSFER_IN"
	// MovementTypeTransferOut represents stock leaving for another location
	MovementTypeTransferOut MovementType = "TRANSFER_OUT"
	// MovementTypeSale represents stock consumed by a completed sale
	MovementTypeSale MovementType = "SALE"
	// MovementTypeIssue represents stock issued to a maintenance job
	MovementTypeIssue MovementType = "ISSUE"
	// MovementTypeAdjustment represents a manual correction or a reversal
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeReceipt,
		MovementTypeTransferIn,
		MovementTypeTransferOut,
		MovementTypeSale,
		MovementTypeIssue,
		MovementTypeAdjustment:
		return true
	}
	return false
}

// IsInbound returns true if this movement type adds stock at its location
func (t MovementType) IsInbound() bool {
	switch t {
	case MovementTypeReceipt, MovementTypeTransferIn, MovementTypeAdjustment:
		return true
	}
	return false
}

// IsOutbound returns true if this movement type removes stock at its location
func (t MovementType) IsOutbound() bool {
	switch t {
	case MovementTypeTransferOut, MovementTypeSale, MovementTypeIssue:
		return true
	}
	return false
}

// Movement is an immutable audit record of one stock change.
// Rows are append-only; corrections are recorded as new ADJUSTMENT
// movements, never by editing history.
type Movement struct {
	shared.BaseEntity
	ItemID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_movement_item"`
	LocationID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_movement_location"`
	MovementType MovementType     `gorm:"type:varchar(20);not null;index:idx_movement_type"`
	Quantity     decimal.Decimal  `gorm:"type:decimal(18,4);not null"` // Always positive, direction given by type
	UnitCost     decimal.Decimal  `gorm:"type:decimal(18,4);not null"` // Weighted cost of the lots touched
	UnitPrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`          // Selling price, when one applies
	ReferenceID  string           `gorm:"type:varchar(64);not null;index:idx_movement_reference"`
	Operator     string           `gorm:"type:varchar(100)"` // Who performed the operation
	Notes        string           `gorm:"type:varchar(255)"`
	OccurredAt   time.Time        `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (Movement) TableName() string {
	return "inventory_movements"
}

// NewMovement creates a new movement record
func NewMovement(
	itemID, locationID uuid.UUID,
	movementType MovementType,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	referenceID string,
) (*Movement, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	if referenceID == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference ID cannot be empty")
	}

	return &Movement{
		BaseEntity:   shared.NewBaseEntity(),
		ItemID:       itemID,
		LocationID:   locationID,
		MovementType: movementType,
		Quantity:     quantity,
		UnitCost:     unitCost,
		ReferenceID:  referenceID,
		OccurredAt:   time.Now(),
	}, nil
}

// WithUnitPrice sets the selling price observed for this movement
func (m *Movement) WithUnitPrice(price decimal.Decimal) *Movement {
	m.UnitPrice = &price
	return m
}

// WithOperator sets who performed the operation
func (m *Movement) WithOperator(operator string) *Movement {
	m.Operator = operator
	return m
}

// WithNotes sets the free-form notes
func (m *Movement) WithNotes(notes string) *Movement {
	m.Notes = notes
	return m
}

// WithOccurredAt overrides the movement timestamp (document date, not clock time)
func (m *Movement) WithOccurredAt(at time.Time) *Movement {
	m.OccurredAt = at
	return m
}

// SignedQuantity returns the quantity with sign based on movement type.
// Positive for inbound, negative for outbound.
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.MovementType.IsOutbound() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// TotalCost returns the cost value moved
func (m *Movement) TotalCost() decimal.Decimal {
	return m.Quantity.Mul(m.UnitCost)
}
