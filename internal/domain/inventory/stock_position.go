package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// StockPosition is the current on-hand and reserved quantity for one
// item at one location. Rows are created lazily by the first positive
// quantity or reservation delta and are never deleted.
type StockPosition struct {
	shared.BaseEntity
	ItemID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_position_item_location,priority:1"`
	LocationID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_position_item_location,priority:2"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Physical on-hand quantity
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Quantity committed to open documents
}

// TableName returns the table name for GORM
func (StockPosition) TableName() string {
	return "inventory_stock_positions"
}

// NewStockPosition creates an empty position for an item/location pair
func NewStockPosition(itemID, locationID uuid.UUID) *StockPosition {
	return &StockPosition{
		BaseEntity:       shared.NewBaseEntity(),
		ItemID:           itemID,
		LocationID:       locationID,
		Quantity:         decimal.Zero,
		ReservedQuantity: decimal.Zero,
	}
}

// Available returns the quantity not committed to any document.
// Reservations can exceed on-hand only transiently inside a transaction,
// so the result may be negative mid-flight but never after commit.
func (p *StockPosition) Available() decimal.Decimal {
	return p.Quantity.Sub(p.ReservedQuantity)
}

// ApplyQuantityDelta adjusts the physical quantity by a signed delta.
// The on-hand quantity can never go negative.
func (p *StockPosition) ApplyQuantityDelta(delta decimal.Decimal) error {
	next := p.Quantity.Add(delta)
	if next.IsNegative() {
		return &InsufficientStockError{
			ItemID:     p.ItemID,
			LocationID: p.LocationID,
			Requested:  delta.Neg(),
			Available:  p.Quantity,
		}
	}
	p.Quantity = next
	p.UpdatedAt = time.Now()
	return nil
}

// ApplyReservedDelta adjusts the reserved quantity by a signed delta.
// A positive delta requires enough available (on-hand minus reserved)
// stock; a negative delta releases a prior reservation and is clamped
// at zero by the invariant check.
func (p *StockPosition) ApplyReservedDelta(delta decimal.Decimal) error {
	if delta.IsPositive() && p.Available().LessThan(delta) {
		return &InsufficientStockError{
			ItemID:     p.ItemID,
			LocationID: p.LocationID,
			Requested:  delta,
			Available:  p.Available(),
		}
	}
	next := p.ReservedQuantity.Add(delta)
	if next.IsNegative() {
		return shared.NewDomainError("INVALID_RELEASE", "Cannot release more than is reserved")
	}
	p.ReservedQuantity = next
	p.UpdatedAt = time.Now()
	return nil
}

// HasStock returns true if any physical quantity is on hand
func (p *StockPosition) HasStock() bool {
	return p.Quantity.GreaterThan(decimal.Zero)
}
