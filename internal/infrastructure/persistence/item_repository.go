package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindBySKU finds an item by SKU
func (r *GormItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).
		Where("sku = ?", sku).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByNameAndModel performs a case-insensitive lookup used for
// duplicate detection
func (r *GormItemRepository) FindByNameAndModel(ctx context.Context, name, model string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND LOWER(model) = ?",
			strings.ToLower(strings.TrimSpace(name)),
			strings.ToLower(strings.TrimSpace(model))).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// List finds items matching the filter
func (r *GormItemRepository) List(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Item{})
	if filter.ItemType != nil {
		query = query.Where("item_type = ?", *filter.ItemType)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(model) LIKE ? OR LOWER(sku) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var items []catalog.Item
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Create persists a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Save persists changes to an existing item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Ensure GormItemRepository implements ItemRepository
var _ catalog.ItemRepository = (*GormItemRepository)(nil)
