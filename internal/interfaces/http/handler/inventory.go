package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinv "github.com/stockops/backoffice/internal/application/inventory"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/interfaces/http/dto"
	"github.com/stockops/backoffice/internal/interfaces/http/middleware"
)

// InventoryHandler serves stock positions, cost lots, the movement
// journal and the receipt/transfer operations
type InventoryHandler struct {
	BaseHandler
	positions      inventory.PositionRepository
	batches        inventory.BatchRepository
	movements      inventory.MovementRepository
	receipts       *appinv.ReceiptService
	transfers      *appinv.TransferService
	reconciliation *appinv.ReconciliationService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	positions inventory.PositionRepository,
	batches inventory.BatchRepository,
	movements inventory.MovementRepository,
	receipts *appinv.ReceiptService,
	transfers *appinv.TransferService,
	reconciliation *appinv.ReconciliationService,
) *InventoryHandler {
	return &InventoryHandler{
		positions:      positions,
		batches:        batches,
		movements:      movements,
		receipts:       receipts,
		transfers:      transfers,
		reconciliation: reconciliation,
	}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.GET("/positions", h.ListPositions)
		inv.GET("/batches", h.ListBatches)
		inv.GET("/movements", h.ListMovements)
		inv.POST("/receipts", h.Receive)
		inv.POST("/transfers", h.Transfer)
		inv.GET("/reconciliation", h.Reconcile)
	}
}

type listPositionsRequest struct {
	dto.ListRequest
	ItemID     *uuid.UUID `form:"item_id"`
	LocationID *uuid.UUID `form:"location_id"`
	InStock    *bool      `form:"in_stock"`
}

// ListPositions lists stock positions
func (h *InventoryHandler) ListPositions(c *gin.Context) {
	var req listPositionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	positions, total, err := h.positions.List(c.Request.Context(), inventory.PositionFilter{
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		InStock:    req.InStock,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, positions, total, req.Limit, req.Offset, len(positions))
}

type listBatchesRequest struct {
	dto.ListRequest
	ItemID        *uuid.UUID `form:"item_id"`
	LocationID    *uuid.UUID `form:"location_id"`
	OnlyAvailable bool       `form:"only_available"`
	ReceivedFrom  *time.Time `form:"received_from" time_format:"2006-01-02"`
	ReceivedTo    *time.Time `form:"received_to" time_format:"2006-01-02"`
}

// ListBatches lists cost lots
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	var req listBatchesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	batches, total, err := h.batches.List(c.Request.Context(), inventory.BatchFilter{
		ItemID:        req.ItemID,
		LocationID:    req.LocationID,
		OnlyAvailable: req.OnlyAvailable,
		ReceivedFrom:  req.ReceivedFrom,
		ReceivedTo:    req.ReceivedTo,
		Limit:         req.Limit,
		Offset:        req.Offset,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, batches, total, req.Limit, req.Offset, len(batches))
}

type listMovementsRequest struct {
	dto.ListRequest
	ItemID       *uuid.UUID `form:"item_id"`
	LocationID   *uuid.UUID `form:"location_id"`
	MovementType string     `form:"movement_type"`
	ReferenceID  string     `form:"reference_id"`
	From         *time.Time `form:"from" time_format:"2006-01-02"`
	To           *time.Time `form:"to" time_format:"2006-01-02"`
}

// ListMovements lists journal entries
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	var req listMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := inventory.MovementFilter{
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		From:       req.From,
		To:         req.To,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if req.MovementType != "" {
		movementType := inventory.MovementType(req.MovementType)
		filter.MovementType = &movementType
	}
	if req.ReferenceID != "" {
		filter.ReferenceID = &req.ReferenceID
	}
	movements, total, err := h.movements.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, movements, total, req.Limit, req.Offset, len(movements))
}

type receiveRequest struct {
	ItemID     uuid.UUID       `json:"item_id" binding:"required"`
	LocationID uuid.UUID       `json:"location_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"dpositive"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Reference  string          `json:"reference"`
	ReceivedAt *time.Time      `json:"received_at"`
}

// Receive books incoming stock as a new cost lot
func (h *InventoryHandler) Receive(c *gin.Context) {
	var req receiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	in := appinv.ReceiveInput{
		ItemID:     req.ItemID,
		LocationID: req.LocationID,
		Quantity:   req.Quantity,
		UnitCost:   req.UnitCost,
		Reference:  req.Reference,
		Operator:   middleware.ActorFromContext(c).Name,
	}
	if req.ReceivedAt != nil {
		in.ReceivedAt = *req.ReceivedAt
	}
	result, err := h.receipts.Receive(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

type transferRequest struct {
	ItemID         uuid.UUID       `json:"item_id" binding:"required"`
	FromLocationID uuid.UUID       `json:"from_location_id" binding:"required"`
	ToLocationID   uuid.UUID       `json:"to_location_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"dpositive"`
	EmployeeName   string          `json:"employee_name"`
	Reference      string          `json:"reference"`
}

// Transfer moves stock between locations preserving lot identity
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	employee := req.EmployeeName
	if employee == "" {
		employee = middleware.ActorFromContext(c).Name
	}
	result, err := h.transfers.Transfer(c.Request.Context(), appinv.TransferInput{
		ItemID:         req.ItemID,
		FromLocationID: req.FromLocationID,
		ToLocationID:   req.ToLocationID,
		Quantity:       req.Quantity,
		EmployeeName:   employee,
		Reference:      req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Reconcile runs a position-versus-lots consistency check on demand
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	report, err := h.reconciliation.Check(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
