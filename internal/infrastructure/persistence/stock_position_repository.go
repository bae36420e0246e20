package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// GormPositionRepository implements PositionRepository using GORM
type GormPositionRepository struct {
	db *gorm.DB
}

// NewGormPositionRepository creates a new GormPositionRepository
func NewGormPositionRepository(db *gorm.DB) *GormPositionRepository {
	return &GormPositionRepository{db: db}
}

// FindByItemAndLocation finds the position row for an item at a location
func (r *GormPositionRepository) FindByItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) (*inventory.StockPosition, error) {
	var position inventory.StockPosition
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// FindByItemAndLocationForUpdate finds the position row holding a row
// lock until the enclosing transaction commits. Must be called inside
// a transaction scope.
func (r *GormPositionRepository) FindByItemAndLocationForUpdate(ctx context.Context, itemID, locationID uuid.UUID) (*inventory.StockPosition, error) {
	var position inventory.StockPosition
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		First(&position).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &position, nil
}

// FindByLocation finds all positions at a location
func (r *GormPositionRepository) FindByLocation(ctx context.Context, locationID uuid.UUID) ([]inventory.StockPosition, error) {
	var positions []inventory.StockPosition
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at ASC").
		Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// FindByItem finds all positions for an item across locations
func (r *GormPositionRepository) FindByItem(ctx context.Context, itemID uuid.UUID) ([]inventory.StockPosition, error) {
	var positions []inventory.StockPosition
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at ASC").
		Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

// List finds positions matching the filter
func (r *GormPositionRepository) List(ctx context.Context, filter inventory.PositionFilter) ([]inventory.StockPosition, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockPosition{})
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.InStock != nil && *filter.InStock {
		query = query.Where("quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var positions []inventory.StockPosition
	if err := query.Order("created_at ASC").Find(&positions).Error; err != nil {
		return nil, 0, err
	}
	return positions, total, nil
}

// Create persists a new position row
func (r *GormPositionRepository) Create(ctx context.Context, position *inventory.StockPosition) error {
	return r.db.WithContext(ctx).Create(position).Error
}

// Save persists changes to an existing position
func (r *GormPositionRepository) Save(ctx context.Context, position *inventory.StockPosition) error {
	return r.db.WithContext(ctx).Save(position).Error
}

// Ensure GormPositionRepository implements PositionRepository
var _ inventory.PositionRepository = (*GormPositionRepository)(nil)
