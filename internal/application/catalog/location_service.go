package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockops/backoffice/internal/domain/catalog"
)

// LocationService manages stock-holding locations
type LocationService struct {
	locations catalog.LocationRepository
	logger    *zap.Logger
}

// NewLocationService creates a new LocationService
func NewLocationService(locations catalog.LocationRepository, logger *zap.Logger) *LocationService {
	return &LocationService{locations: locations, logger: logger}
}

// Create registers a new location
func (s *LocationService) Create(ctx context.Context, name string, locationType catalog.LocationType, address string) (*catalog.Location, error) {
	location, err := catalog.NewLocation(name, locationType, address)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}
	s.logger.Info("Location created",
		zap.String("location_id", location.ID.String()),
		zap.String("type", string(locationType)),
	)
	return location, nil
}

// Get retrieves one location
func (s *LocationService) Get(ctx context.Context, id uuid.UUID) (*catalog.Location, error) {
	return s.locations.FindByID(ctx, id)
}

// List retrieves all locations
func (s *LocationService) List(ctx context.Context) ([]catalog.Location, error) {
	return s.locations.FindAll(ctx)
}

// CategoryService manages item categories
type CategoryService struct {
	categories catalog.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, logger: logger}
}

// Create registers a new category
func (s *CategoryService) Create(ctx context.Context, name, description string) (*catalog.Category, error) {
	category, err := catalog.NewCategory(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List retrieves all categories
func (s *CategoryService) List(ctx context.Context) ([]catalog.Category, error) {
	return s.categories.FindAll(ctx)
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}
