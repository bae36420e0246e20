package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/stockops/backoffice/internal/domain/inventory"
)

// GormMovementRepository implements MovementRepository using GORM.
// The journal is append-only so there is no update or delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create appends a movement record
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.Movement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByReference finds movements of one type recorded against a
// reference document, oldest first. Cost recovery for reversals reads
// this ordering.
func (r *GormMovementRepository) FindByReference(ctx context.Context, referenceID string, movementType inventory.MovementType) ([]inventory.Movement, error) {
	var movements []inventory.Movement
	if err := r.db.WithContext(ctx).
		Where("reference_id = ? AND movement_type = ?", referenceID, movementType).
		Order("occurred_at ASC, created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// List finds movements matching the filter, newest first
func (r *GormMovementRepository) List(ctx context.Context, filter inventory.MovementFilter) ([]inventory.Movement, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Movement{})
	if filter.ItemID != nil {
		query = query.Where("item_id = ?", *filter.ItemID)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.ReferenceID != nil {
		query = query.Where("reference_id = ?", *filter.ReferenceID)
	}
	if filter.From != nil {
		query = query.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("occurred_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var movements []inventory.Movement
	if err := query.Order("occurred_at DESC, created_at DESC").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
