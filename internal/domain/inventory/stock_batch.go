package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// StockBatch is a cost lot: a quantity of one item received at one
// location at a single unit cost. QuantityReceived is immutable after
// creation; only QuantityRemaining moves, and only downward. Returns
// and reversals mint new batches instead of refilling consumed ones.
type StockBatch struct {
	shared.BaseEntity
	ItemID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_item_location,priority:1"`
	LocationID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_batch_item_location,priority:2"`
	ReceivedAt        time.Time       `gorm:"type:timestamptz;not null;index"` // FIFO ordering key
	QuantityReceived  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityRemaining decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reference         string          `gorm:"type:varchar(255)"` // Supplier invoice, transfer id, reversal note
}

// TableName returns the table name for GORM
func (StockBatch) TableName() string {
	return "inventory_batches"
}

// NewStockBatch creates a new cost lot with the full received quantity remaining
func NewStockBatch(
	itemID, locationID uuid.UUID,
	receivedAt time.Time,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
	reference string,
) (*StockBatch, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	return &StockBatch{
		BaseEntity:        shared.NewBaseEntity(),
		ItemID:            itemID,
		LocationID:        locationID,
		ReceivedAt:        receivedAt,
		QuantityReceived:  quantity,
		QuantityRemaining: quantity,
		UnitCost:          unitCost,
		Reference:         reference,
	}, nil
}

// Deduct reduces the remaining quantity.
// Returns the actual quantity deducted, capped at what the lot holds.
func (b *StockBatch) Deduct(quantity decimal.Decimal) decimal.Decimal {
	deducted := decimal.Min(quantity, b.QuantityRemaining)
	b.QuantityRemaining = b.QuantityRemaining.Sub(deducted)
	b.UpdatedAt = time.Now()
	return deducted
}

// IsDepleted returns true once the lot has nothing left to consume
func (b *StockBatch) IsDepleted() bool {
	return b.QuantityRemaining.LessThanOrEqual(decimal.Zero)
}

// HasStock returns true if the lot still has quantity to consume
func (b *StockBatch) HasStock() bool {
	return b.QuantityRemaining.GreaterThan(decimal.Zero)
}

// RemainingValue returns the cost value of what is left in the lot
func (b *StockBatch) RemainingValue() decimal.Decimal {
	return b.QuantityRemaining.Mul(b.UnitCost)
}
