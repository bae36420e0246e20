package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// SaleStatus represents the lifecycle status of a sale
type SaleStatus string

const (
	// SaleStatusOpen is an order taken but not yet handed over
	SaleStatusOpen SaleStatus = "OPEN"
	// SaleStatusCompleted means the goods have left the shelf
	SaleStatusCompleted SaleStatus = "COMPLETED"
	// SaleStatusCancelled is an abandoned order
	SaleStatusCancelled SaleStatus = "CANCELLED"
	// SaleStatusRefunded is a completed sale later refunded
	SaleStatusRefunded SaleStatus = "REFUNDED"
	// SaleStatusVoid is a sale struck from the books
	SaleStatusVoid SaleStatus = "VOID"
)

// IsValid returns true if the status is valid
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusOpen, SaleStatusCompleted, SaleStatusCancelled, SaleStatusRefunded, SaleStatusVoid:
		return true
	}
	return false
}

// PaymentStatus represents how much of the sale has been paid
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "UNPAID"
	PaymentStatusPartial  PaymentStatus = "PARTIAL"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// IsValid returns true if the payment status is valid
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// Sale is a sales document. Its inventory effect is derived from its
// status: OPEN reserves stock, COMPLETED consumes it, every other
// status holds nothing.
type Sale struct {
	shared.BaseEntity
	SaleNumber    string        `gorm:"type:varchar(64);index"`
	ReceiptNumber string        `gorm:"type:varchar(64);not null"`
	SaleDate      time.Time     `gorm:"type:timestamptz;not null"`
	SaleType      string        `gorm:"type:varchar(30);not null"`
	Status        SaleStatus    `gorm:"type:varchar(20);not null;index"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null"`
	PaymentMethod string        `gorm:"type:varchar(30);not null"`
	LocationID    uuid.UUID     `gorm:"type:uuid;not null;index"`

	CustomerName  string `gorm:"type:varchar(255)"`
	CustomerPhone string `gorm:"type:varchar(50)"`
	CustomerTIN   string `gorm:"type:varchar(50)"`

	MaintenanceTicketID *uuid.UUID `gorm:"type:uuid;index"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	PerformedBy string `gorm:"type:varchar(100)"`
	Notes       string `gorm:"type:varchar(1000)"`

	Items []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new sale document
func NewSale(locationID uuid.UUID, receiptNumber, paymentMethod string, status SaleStatus, paymentStatus PaymentStatus) (*Sale, error) {
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("LOCATION_REQUIRED", "Sale location is required")
	}
	if strings.TrimSpace(receiptNumber) == "" {
		return nil, shared.NewDomainError("RECEIPT_NUMBER_REQUIRED", "Receipt number is required")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, shared.NewDomainError("PAYMENT_METHOD_REQUIRED", "Payment method is required")
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Invalid sale status")
	}
	if !paymentStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Invalid payment status")
	}

	return &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		LocationID:    locationID,
		ReceiptNumber: strings.TrimSpace(receiptNumber),
		PaymentMethod: strings.TrimSpace(paymentMethod),
		Status:        status,
		PaymentStatus: paymentStatus,
		SaleDate:      time.Now(),
	}, nil
}

// Stage maps the sale status to its inventory lifecycle stage
func (s *Sale) Stage() inventory.LifecycleStage {
	return StageForStatus(s.Status)
}

// StageForStatus maps a sale status to the inventory stage it implies
func StageForStatus(status SaleStatus) inventory.LifecycleStage {
	switch status {
	case SaleStatusOpen:
		return inventory.StageReserved
	case SaleStatusCompleted:
		return inventory.StageConsumed
	default:
		return inventory.StageNone
	}
}

// RequiredByItem aggregates the inventory-affecting line quantities per
// item. Lines without an item or flagged as non-inventory contribute
// nothing.
func (s *Sale) RequiredByItem() map[uuid.UUID]decimal.Decimal {
	required := make(map[uuid.UUID]decimal.Decimal)
	for _, line := range s.Items {
		if !line.AffectsInventory || line.ItemID == nil {
			continue
		}
		required[*line.ItemID] = required[*line.ItemID].Add(line.Quantity)
	}
	return required
}

// PriceByItem returns the effective selling price per item: total line
// revenue divided by total quantity across that item's lines.
func (s *Sale) PriceByItem() map[uuid.UUID]decimal.Decimal {
	totals := make(map[uuid.UUID]decimal.Decimal)
	quantities := make(map[uuid.UUID]decimal.Decimal)
	for _, line := range s.Items {
		if !line.AffectsInventory || line.ItemID == nil {
			continue
		}
		totals[*line.ItemID] = totals[*line.ItemID].Add(line.LineTotal)
		quantities[*line.ItemID] = quantities[*line.ItemID].Add(line.Quantity)
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(totals))
	for itemID, total := range totals {
		qty := quantities[itemID]
		if qty.GreaterThan(decimal.Zero) {
			prices[itemID] = total.Div(qty).Round(4)
		}
	}
	return prices
}

// RecalculateTotals derives the money totals from the current lines
func (s *Sale) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, line := range s.Items {
		subtotal = subtotal.Add(line.LineTotal)
	}
	s.Subtotal = subtotal
	s.TotalAmount = subtotal.Sub(s.DiscountAmount).Add(s.TaxAmount)
	s.Touch()
}

// CanBeEditedBy enforces the completed-sale lock: once a sale has
// consumed stock, only an admin may amend it.
func (s *Sale) CanBeEditedBy(actor shared.Actor) bool {
	if s.Status != SaleStatusCompleted {
		return true
	}
	return actor.IsAdmin()
}
