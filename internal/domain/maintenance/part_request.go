package maintenance

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// PartRequestStatus represents the approval lifecycle of a part request
type PartRequestStatus string

const (
	PartRequestStatusRequested PartRequestStatus = "REQUESTED"
	PartRequestStatusApproved  PartRequestStatus = "APPROVED"
	PartRequestStatusRejected  PartRequestStatus = "REJECTED"
	PartRequestStatusFulfilled PartRequestStatus = "FULFILLED"
	PartRequestStatusCancelled PartRequestStatus = "CANCELLED"
)

// IsValid returns true if the status is valid
func (s PartRequestStatus) IsValid() bool {
	switch s {
	case PartRequestStatusRequested, PartRequestStatusApproved, PartRequestStatusRejected,
		PartRequestStatusFulfilled, PartRequestStatusCancelled:
		return true
	}
	return false
}

// PartSource says where the requested part comes from
type PartSource string

const (
	// PartSourceStoreInventory draws the part from own stock
	PartSourceStoreInventory PartSource = "STORE_INVENTORY"
	// PartSourceExternalSupplier buys the part in for this job
	PartSourceExternalSupplier PartSource = "EXTERNAL_SUPPLIER"
	// PartSourceCustomerProvided uses a part the customer brought
	PartSourceCustomerProvided PartSource = "CUSTOMER_PROVIDED"
)

// IsValid returns true if the source is valid
func (s PartSource) IsValid() bool {
	switch s {
	case PartSourceStoreInventory, PartSourceExternalSupplier, PartSourceCustomerProvided:
		return true
	}
	return false
}

// PartRequest asks for a part on a maintenance ticket. Only approval
// of a store-inventory request moves stock: it consumes the part the
// moment the request enters APPROVED, and returns it if the request
// later leaves APPROVED.
type PartRequest struct {
	shared.BaseEntity
	TicketID         uuid.UUID         `gorm:"type:uuid;not null;index"`
	PartID           *uuid.UUID        `gorm:"type:uuid;index"` // Catalog item, nil for external parts
	LocationID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	Source           PartSource        `gorm:"type:varchar(20);not null"`
	Status           PartRequestStatus `gorm:"type:varchar(20);not null;index"`
	Quantity         decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ExternalItemName string            `gorm:"type:varchar(255)"` // Required for external supplier parts
	ReceiptNumber    string            `gorm:"type:varchar(64)"`  // Supplier receipt for external parts
	Cost             decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	RequestedBy      string            `gorm:"type:varchar(100)"`
	ApprovedBy       string            `gorm:"type:varchar(100)"`
	Notes            string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PartRequest) TableName() string {
	return "maintenance_part_requests"
}

// NewPartRequest creates a part request in the REQUESTED state
func NewPartRequest(
	ticketID, locationID uuid.UUID,
	partID *uuid.UUID,
	source PartSource,
	quantity decimal.Decimal,
) (*PartRequest, error) {
	if ticketID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TICKET", "Ticket ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("LOCATION_REQUIRED", "Request location is required")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Invalid part source")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &PartRequest{
		BaseEntity: shared.NewBaseEntity(),
		TicketID:   ticketID,
		LocationID: locationID,
		PartID:     partID,
		Source:     source,
		Status:     PartRequestStatusRequested,
		Quantity:   quantity,
	}, nil
}

// Validate enforces the source-dependent field requirements
func (r *PartRequest) Validate() error {
	if r.Source == PartSourceExternalSupplier {
		if strings.TrimSpace(r.ExternalItemName) == "" {
			return shared.NewDomainError("EXTERNAL_ITEM_NAME_REQUIRED", "External part requests need an item name")
		}
		if strings.TrimSpace(r.ReceiptNumber) == "" {
			return shared.NewDomainError("RECEIPT_NUMBER_REQUIRED", "External part requests need a receipt number")
		}
		if r.Cost.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_COST", "External part requests need a positive cost")
		}
		return nil
	}
	if r.PartID == nil {
		return shared.NewDomainError("PART_REQUIRED", "Part requests from stock need a catalog part")
	}
	return nil
}

// Stage maps the request to its inventory lifecycle stage. Requests
// never reserve; they consume on approval or hold nothing.
func (r *PartRequest) Stage() inventory.LifecycleStage {
	return StageFor(r.Status, r.Source)
}

// StageFor maps a status and source pair to the inventory stage it implies
func StageFor(status PartRequestStatus, source PartSource) inventory.LifecycleStage {
	if status == PartRequestStatusApproved && source == PartSourceStoreInventory {
		return inventory.StageConsumed
	}
	return inventory.StageNone
}

// ApprovalCrossing reports whether moving from the current status to
// next enters or leaves the APPROVED state. Such moves need an
// approver-level actor.
func (r *PartRequest) ApprovalCrossing(next PartRequestStatus) bool {
	return (r.Status == PartRequestStatusApproved) != (next == PartRequestStatusApproved)
}

// LockedAgainst reports whether an edit to part, quantity or source is
// blocked because the request is approved against store inventory and
// stays approved.
func (r *PartRequest) LockedAgainst(nextPartID *uuid.UUID, nextQuantity decimal.Decimal, nextSource PartSource, nextStatus PartRequestStatus) bool {
	if r.Status != PartRequestStatusApproved || nextStatus != PartRequestStatusApproved {
		return false
	}
	if r.Source != PartSourceStoreInventory {
		return false
	}
	if nextSource != r.Source {
		return true
	}
	if !nextQuantity.Equal(r.Quantity) {
		return true
	}
	if (r.PartID == nil) != (nextPartID == nil) {
		return true
	}
	if r.PartID != nil && nextPartID != nil && *r.PartID != *nextPartID {
		return true
	}
	return false
}

// DeletionBlocked reports whether the request may not be deleted:
// approved store-inventory requests hold consumed stock and must be
// un-approved first.
func (r *PartRequest) DeletionBlocked() bool {
	return r.Status == PartRequestStatusApproved && r.Source == PartSourceStoreInventory
}
