package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/sales"
)

// SaleLineInput is one line of a sale payload
type SaleLineInput struct {
	ItemID           *uuid.UUID
	Description      string
	LineType         sales.LineType
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxAmount        decimal.Decimal
	AffectsInventory *bool // Overrides the line-type default when set
}

// CreateSaleInput is the payload for creating a sale
type CreateSaleInput struct {
	LocationID          uuid.UUID
	SaleNumber          string
	ReceiptNumber       string
	SaleDate            *time.Time
	SaleType            string
	Status              sales.SaleStatus
	PaymentStatus       sales.PaymentStatus
	PaymentMethod       string
	CustomerName        string
	CustomerPhone       string
	CustomerTIN         string
	MaintenanceTicketID *uuid.UUID
	DiscountAmount      decimal.Decimal
	TaxAmount           decimal.Decimal
	PerformedBy         string
	Notes               string
	Lines               []SaleLineInput
}

// UpdateSaleInput is the payload for amending a sale. The location is
// part of the payload only so a mismatch can be rejected; sales never
// move between locations.
type UpdateSaleInput struct {
	LocationID     uuid.UUID
	ReceiptNumber  string
	SaleDate       *time.Time
	SaleType       string
	Status         sales.SaleStatus
	PaymentStatus  sales.PaymentStatus
	PaymentMethod  string
	CustomerName   string
	CustomerPhone  string
	CustomerTIN    string
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	PerformedBy    string
	Notes          string
	Lines          []SaleLineInput
}
