package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages sale persistence. Items are loaded and saved with
// their sale.
type Repository interface {
	// FindByID retrieves a sale with its lines
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// List retrieves sales matching a filter, newest first
	List(ctx context.Context, filter Filter) ([]Sale, int64, error)
	// Create persists a new sale with its lines
	Create(ctx context.Context, sale *Sale) error
	// Save persists changes to a sale; ReplaceItems controls the lines
	Save(ctx context.Context, sale *Sale) error
	// ReplaceItems swaps the sale's lines for the given set, deleting
	// lines no longer present
	ReplaceItems(ctx context.Context, saleID uuid.UUID, items []SaleItem) error
	// Delete removes a sale and its lines
	Delete(ctx context.Context, id uuid.UUID) error
}

// Filter defines query criteria for sales
type Filter struct {
	Status     *SaleStatus
	LocationID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Search     string // Matches receipt number or customer name
	Limit      int
	Offset     int
}
