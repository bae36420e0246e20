package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	var batch inventory.StockBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAvailable finds lots with remaining quantity, oldest received
// first. Consumption order depends on this ordering.
func (r *GormBatchRepository) FindAvailable(ctx context.Context, itemID, locationID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND location_id = ? AND quantity_remaining > 0", itemID, locationID).
		Order("received_at ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByItemAndLocation finds every lot for an item at a location,
// depleted ones included
func (r *GormBatchRepository) FindByItemAndLocation(ctx context.Context, itemID, locationID uuid.UUID) ([]inventory.StockBatch, error) {
	var batches []inventory.StockBatch
	if err := r.db.WithContext(ctx).
		Where("item_id = ? AND location_id = ?", itemID, locationID).
		Order("received_at ASC, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// List finds batches matching the filter
func (r *GormBatchRepository) List(ctx context.Context, filter inventory.BatchFilter) ([]inventory.StockBatch, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.StockBatch{})
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.OnlyAvailable {
		query = query.Where("quantity_remaining > 0")
	}
	if filter.ReceivedFrom != nil {
		query = query.Where("received_at >= ?", *filter.ReceivedFrom)
	}
	if filter.ReceivedTo != nil {
		query = query.Where("received_at <= ?", *filter.ReceivedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var batches []inventory.StockBatch
	if err := query.Order("received_at ASC, created_at ASC").Find(&batches).Error; err != nil {
		return nil, 0, err
	}
	return batches, total, nil
}

// Create persists a new lot
func (r *GormBatchRepository) Create(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

// Save persists changes to an existing lot
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
