package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PositionRepository manages stock position persistence
type PositionRepository interface {
	// FindByItemAndLocation retrieves a position, returning shared.ErrNotFound when absent
	FindByItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) (*StockPosition, error)
	// FindByItemAndLocationForUpdate retrieves a position holding a row lock
	// for the rest of the enclosing transaction
	FindByItemAndLocationForUpdate(ctx context.Context, itemID, locationID uuid.UUID) (*StockPosition, error)
	// FindByLocation lists all positions at a location
	FindByLocation(ctx context.Context, locationID uuid.UUID) ([]StockPosition, error)
	// FindByItem lists all positions for an item across locations
	FindByItem(ctx context.Context, itemID uuid.UUID) ([]StockPosition, error)
	// List retrieves positions matching a filter
	List(ctx context.Context, filter PositionFilter) ([]StockPosition, int64, error)
	// Create persists a new position row
	Create(ctx context.Context, position *StockPosition) error
	// Save persists changes to an existing position
	Save(ctx context.Context, position *StockPosition) error
}

// PositionFilter defines query criteria for stock positions
type PositionFilter struct {
	ItemID     *uuid.UUID
	LocationID *uuid.UUID
	InStock    *bool // Only positions with quantity > 0
	Limit      int
	Offset     int
}

// BatchRepository manages cost lot persistence
type BatchRepository interface {
	// FindByID retrieves a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)
	// FindAvailable lists lots with remaining quantity for an item at a
	// location, oldest received first
	FindAvailable(ctx context.Context, itemID, locationID uuid.UUID) ([]StockBatch, error)
	// FindByItemAndLocation lists every lot for an item at a location,
	// depleted ones included
	FindByItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) ([]StockBatch, error)
	// List retrieves batches matching a filter
	List(ctx context.Context, filter BatchFilter) ([]StockBatch, int64, error)
	// Create persists a new lot
	Create(ctx context.Context, batch *StockBatch) error
	// Save persists changes to an existing lot
	Save(ctx context.Context, batch *StockBatch) error
}

// BatchFilter defines query criteria for cost lots
type BatchFilter struct {
	ItemID        *uuid.UUID
	LocationID    *uuid.UUID
	OnlyAvailable bool
	ReceivedFrom  *time.Time
	ReceivedTo    *time.Time
	Limit         int
	Offset        int
}

// MovementRepository manages the append-only movement journal.
// There is deliberately no update or delete operation.
type MovementRepository interface {
	// Create appends a movement record
	Create(ctx context.Context, movement *Movement) error
	// FindByReference lists movements of one type recorded against a
	// reference document, oldest first
	FindByReference(ctx context.Context, referenceID string, movementType MovementType) ([]Movement, error)
	// List retrieves movements matching a filter, newest first
	List(ctx context.Context, filter MovementFilter) ([]Movement, int64, error)
}

// MovementFilter defines query criteria for movements
type MovementFilter struct {
	ItemID       *uuid.UUID
	LocationID   *uuid.UUID
	MovementType *MovementType
	ReferenceID  *string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}
