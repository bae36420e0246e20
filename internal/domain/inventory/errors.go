package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsufficientStockCode is the stable error code carried by InsufficientStockError
const InsufficientStockCode = "INSUFFICIENT_STOCK"

// InsufficientStockError is returned when a deduction or reservation
// asks for more than the available quantity at a location. It carries
// the shortfall details so callers can report exactly what was missing.
type InsufficientStockError struct {
	ItemID     uuid.UUID
	LocationID uuid.UUID
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf(
		"insufficient stock for item %s at location %s: requested %s, available %s",
		e.ItemID, e.LocationID, e.Requested, e.Available,
	)
}

// Shortfall returns how much was missing
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}
