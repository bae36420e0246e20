package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockops/backoffice/internal/domain/sales"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// GormSaleRepository implements sales.Repository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its lines
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// List finds sales matching the filter, newest first
func (r *GormSaleRepository) List(ctx context.Context, filter sales.Filter) ([]sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if filter.From != nil {
		query = query.Where("sale_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("sale_date <= ?", *filter.To)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(receipt_number) LIKE ? OR LOWER(customer_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var result []sales.Sale
	if err := query.Preload("Items").Order("sale_date DESC, created_at DESC").Find(&result).Error; err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// Create persists a new sale with its lines
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// Save persists header changes to a sale. Lines are managed through
// ReplaceItems so a header save never cascades stale line state.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Omit("Items").Save(sale).Error
}

// ReplaceItems swaps the sale's lines for the given set
func (r *GormSaleRepository) ReplaceItems(ctx context.Context, saleID uuid.UUID, items []sales.SaleItem) error {
	if err := r.db.WithContext(ctx).
		Delete(&sales.SaleItem{}, "sale_id = ?", saleID).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].SaleID = saleID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// Delete removes a sale and its lines
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&sales.SaleItem{}, "sale_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&sales.Sale{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Ensure GormSaleRepository implements sales.Repository
var _ sales.Repository = (*GormSaleRepository)(nil)
