package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// ItemType classifies what an item is sold or used as
type ItemType string

const (
	// ItemTypeProduct is a finished good sold over the counter
	ItemTypeProduct ItemType = "PRODUCT"
	// ItemTypeSparePart is a part consumed by maintenance jobs
	ItemTypeSparePart ItemType = "SPARE_PART"
)

// IsValid returns true if the item type is valid
func (t ItemType) IsValid() bool {
	return t == ItemTypeProduct || t == ItemTypeSparePart
}

// PricingMode controls how the selling price is maintained
type PricingMode string

const (
	// PricingModeManual leaves the price entirely to the operator
	PricingModeManual PricingMode = "MANUAL"
	// PricingModeMarginPercent derives the price from cost plus a margin
	PricingModeMarginPercent PricingMode = "MARGIN_PERCENT"
	// PricingModeCostSheet derives the price from a cost sheet calculation
	PricingModeCostSheet PricingMode = "COST_SHEET"
)

// IsValid returns true if the pricing mode is valid
func (m PricingMode) IsValid() bool {
	switch m {
	case PricingModeManual, PricingModeMarginPercent, PricingModeCostSheet:
		return true
	}
	return false
}

// Item is a catalog entry for a sellable product or spare part.
// Cost and Price are cached figures refreshed by stock receipts;
// the authoritative cost history lives in the batch ledger.
type Item struct {
	shared.BaseEntity
	SKU            string          `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Model          string          `gorm:"type:varchar(255)"`
	ItemType       ItemType        `gorm:"type:varchar(20);not null"`
	CategoryID     *uuid.UUID      `gorm:"type:uuid;index"`
	PricingMode    PricingMode     `gorm:"type:varchar(20);not null;default:'MANUAL'"`
	MarginPercent  decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	Cost           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Price          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PriceUpdatedAt *time.Time      `gorm:"type:timestamptz"`
	Active         bool            `gorm:"not null;default:true"`
	Notes          string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "catalog_items"
}

// NewItem creates a new catalog item
func NewItem(sku, name, model string, itemType ItemType, pricingMode PricingMode) (*Item, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Item name cannot be empty")
	}
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Invalid item type")
	}
	if pricingMode == "" {
		pricingMode = PricingModeManual
	}
	if !pricingMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRICING_MODE", "Invalid pricing mode")
	}

	return &Item{
		BaseEntity:  shared.NewBaseEntity(),
		SKU:         strings.TrimSpace(sku),
		Name:        strings.TrimSpace(name),
		Model:       strings.TrimSpace(model),
		ItemType:    itemType,
		PricingMode: pricingMode,
		Cost:        decimal.Zero,
		Price:       decimal.Zero,
		Active:      true,
	}, nil
}

// RefreshCost records the latest acquisition cost and, for margin-priced
// items, recomputes the selling price from it. Returns true when the
// price changed.
func (i *Item) RefreshCost(unitCost decimal.Decimal) bool {
	i.Cost = unitCost
	i.Touch()

	if i.PricingMode != PricingModeMarginPercent {
		return false
	}

	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	nextPrice := unitCost.Mul(one.Add(i.MarginPercent.Div(hundred)))
	if nextPrice.Equal(i.Price) {
		return false
	}

	i.Price = nextPrice
	now := time.Now()
	i.PriceUpdatedAt = &now
	return true
}

// MatchesName reports a case-insensitive name+model collision
func (i *Item) MatchesName(name, model string) bool {
	return strings.EqualFold(i.Name, strings.TrimSpace(name)) &&
		strings.EqualFold(i.Model, strings.TrimSpace(model))
}

// Category groups catalog items for browsing and reporting
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "catalog_categories"
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        strings.TrimSpace(name),
		Description: description,
	}, nil
}
