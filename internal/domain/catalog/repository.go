package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository manages catalog item persistence
type ItemRepository interface {
	// FindByID retrieves an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// FindBySKU retrieves an item by SKU
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	// FindByNameAndModel performs a case-insensitive lookup used for
	// duplicate detection
	FindByNameAndModel(ctx context.Context, name, model string) (*Item, error)
	// List retrieves items matching a filter
	List(ctx context.Context, filter ItemFilter) ([]Item, int64, error)
	// Create persists a new item
	Create(ctx context.Context, item *Item) error
	// Save persists changes to an existing item
	Save(ctx context.Context, item *Item) error
}

// ItemFilter defines query criteria for catalog items
type ItemFilter struct {
	ItemType   *ItemType
	CategoryID *uuid.UUID
	Active     *bool
	Search     string // Matches name, model or SKU
	Limit      int
	Offset     int
}

// CategoryRepository manages category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, category *Category) error
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LocationRepository manages location persistence
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)
	FindAll(ctx context.Context) ([]Location, error)
	Create(ctx context.Context, location *Location) error
	Save(ctx context.Context, location *Location) error
}
