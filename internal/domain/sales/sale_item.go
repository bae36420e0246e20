package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// LineType classifies what a sale line charges for
type LineType string

const (
	// LineTypeProduct is a catalog product line
	LineTypeProduct LineType = "PRODUCT"
	// LineTypeSparePart is a spare part line
	LineTypeSparePart LineType = "SPARE_PART"
	// LineTypeLabor is a labor charge
	LineTypeLabor LineType = "LABOR"
	// LineTypeFee is a flat fee
	LineTypeFee LineType = "FEE"
	// LineTypeAdjustment is a manual price adjustment line
	LineTypeAdjustment LineType = "ADJUSTMENT"
)

// IsValid returns true if the line type is valid
func (t LineType) IsValid() bool {
	switch t {
	case LineTypeProduct, LineTypeSparePart, LineTypeLabor, LineTypeFee, LineTypeAdjustment:
		return true
	}
	return false
}

// stockable returns true for line types that can move inventory
func (t LineType) stockable() bool {
	return t == LineTypeProduct || t == LineTypeSparePart
}

// SaleItem is one line on a sale document
type SaleItem struct {
	shared.BaseEntity
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID           *uuid.UUID      `gorm:"type:uuid;index"`
	Description      string          `gorm:"type:varchar(500)"`
	LineType         LineType        `gorm:"type:varchar(20);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AffectsInventory bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSaleItem creates a normalized sale line. LineTotal is always
// quantity times unit price; AffectsInventory defaults to true for
// stockable line types that carry an item reference.
func NewSaleItem(saleID uuid.UUID, itemID *uuid.UUID, lineType LineType, quantity, unitPrice decimal.Decimal) (*SaleItem, error) {
	if !lineType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LINE_TYPE", "Invalid sale line type")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &SaleItem{
		BaseEntity:       shared.NewBaseEntity(),
		SaleID:           saleID,
		ItemID:           itemID,
		LineType:         lineType,
		Quantity:         quantity,
		UnitPrice:        unitPrice,
		LineTotal:        quantity.Mul(unitPrice),
		AffectsInventory: lineType.stockable() && itemID != nil,
	}, nil
}

// SetAffectsInventory overrides the inventory flag; a line can never
// move stock without an item reference.
func (i *SaleItem) SetAffectsInventory(affects bool) {
	i.AffectsInventory = affects && i.ItemID != nil && i.LineType.stockable()
}

// Reprice updates quantity and unit price, keeping LineTotal derived
func (i *SaleItem) Reprice(quantity, unitPrice decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	i.Quantity = quantity
	i.UnitPrice = unitPrice
	i.LineTotal = quantity.Mul(unitPrice)
	i.Touch()
	return nil
}
