package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// GormTicketRepository implements TicketRepository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByID finds a ticket by its ID
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*maintenance.Ticket, error) {
	var ticket maintenance.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

// List finds tickets matching the filter, newest first
func (r *GormTicketRepository) List(ctx context.Context, filter maintenance.TicketFilter) ([]maintenance.Ticket, int64, error) {
	query := r.db.WithContext(ctx).Model(&maintenance.Ticket{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.LocationID != nil {
		query = query.Where("location_id = ?", *filter.LocationID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(ticket_number) LIKE ? OR LOWER(customer_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var tickets []maintenance.Ticket
	if err := query.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

// Create persists a new ticket
func (r *GormTicketRepository) Create(ctx context.Context, ticket *maintenance.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// Save persists changes to an existing ticket
func (r *GormTicketRepository) Save(ctx context.Context, ticket *maintenance.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

// GormPartRequestRepository implements PartRequestRepository using GORM
type GormPartRequestRepository struct {
	db *gorm.DB
}

// NewGormPartRequestRepository creates a new GormPartRequestRepository
func NewGormPartRequestRepository(db *gorm.DB) *GormPartRequestRepository {
	return &GormPartRequestRepository{db: db}
}

// FindByID finds a part request by its ID
func (r *GormPartRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*maintenance.PartRequest, error) {
	var request maintenance.PartRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByTicket finds all part requests raised against a ticket
func (r *GormPartRequestRepository) FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]maintenance.PartRequest, error) {
	var requests []maintenance.PartRequest
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// List finds part requests matching the filter, newest first
func (r *GormPartRequestRepository) List(ctx context.Context, filter maintenance.PartRequestFilter) ([]maintenance.PartRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&maintenance.PartRequest{})
	if filter.TicketID != nil {
		query = query.Where("ticket_id = ?", *filter.TicketID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Source != nil {
		query = query.Where("source = ?", *filter.Source)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var requests []maintenance.PartRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Create persists a new part request
func (r *GormPartRequestRepository) Create(ctx context.Context, request *maintenance.PartRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// Save persists changes to an existing part request
func (r *GormPartRequestRepository) Save(ctx context.Context, request *maintenance.PartRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Delete removes a part request
func (r *GormPartRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&maintenance.PartRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormPartUsageRepository implements PartUsageRepository using GORM
type GormPartUsageRepository struct {
	db *gorm.DB
}

// NewGormPartUsageRepository creates a new GormPartUsageRepository
func NewGormPartUsageRepository(db *gorm.DB) *GormPartUsageRepository {
	return &GormPartUsageRepository{db: db}
}

// FindByTicket finds the usage entries recorded for a ticket
func (r *GormPartUsageRepository) FindByTicket(ctx context.Context, ticketID uuid.UUID) ([]maintenance.PartUsage, error) {
	var usages []maintenance.PartUsage
	if err := r.db.WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&usages).Error; err != nil {
		return nil, err
	}
	return usages, nil
}

// Create persists a new usage entry
func (r *GormPartUsageRepository) Create(ctx context.Context, usage *maintenance.PartUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

// Ensure implementations satisfy their interfaces
var (
	_ maintenance.TicketRepository      = (*GormTicketRepository)(nil)
	_ maintenance.PartRequestRepository = (*GormPartRequestRepository)(nil)
	_ maintenance.PartUsageRepository   = (*GormPartUsageRepository)(nil)
)
