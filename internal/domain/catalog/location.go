package catalog

import (
	"strings"

	"github.com/stockops/backoffice/internal/domain/shared"
)

// LocationType classifies the physical site stock is held at
type LocationType string

const (
	// LocationTypeStore is a retail storefront
	LocationTypeStore LocationType = "STORE"
	// LocationTypeWorkshop is a maintenance workshop
	LocationTypeWorkshop LocationType = "WORKSHOP"
	// LocationTypeWarehouse is a storage warehouse
	LocationTypeWarehouse LocationType = "WAREHOUSE"
)

// IsValid returns true if the location type is valid
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeStore, LocationTypeWorkshop, LocationTypeWarehouse:
		return true
	}
	return false
}

// Location is a physical site that holds stock
type Location struct {
	shared.BaseEntity
	Name         string       `gorm:"type:varchar(255);not null;uniqueIndex"`
	LocationType LocationType `gorm:"type:varchar(20);not null"`
	Address      string       `gorm:"type:varchar(500)"`
	Active       bool         `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "catalog_locations"
}

// NewLocation creates a new location
func NewLocation(name string, locationType LocationType, address string) (*Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if !locationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION_TYPE", "Invalid location type")
	}
	return &Location{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         strings.TrimSpace(name),
		LocationType: locationType,
		Address:      address,
		Active:       true,
	}, nil
}
