package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appsales "github.com/stockops/backoffice/internal/application/sales"
	"github.com/stockops/backoffice/internal/domain/sales"
	"github.com/stockops/backoffice/internal/interfaces/http/dto"
	"github.com/stockops/backoffice/internal/interfaces/http/middleware"
)

// SalesHandler serves the sales document engine
type SalesHandler struct {
	BaseHandler
	service *appsales.Service
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(service *appsales.Service) *SalesHandler {
	return &SalesHandler{service: service}
}

// RegisterRoutes registers sales routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/sales")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}

type saleLineRequest struct {
	ItemID           *uuid.UUID      `json:"item_id"`
	Description      string          `json:"description"`
	LineType         string          `json:"line_type" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"dpositive"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	AffectsInventory *bool           `json:"affects_inventory"`
}

func (r saleLineRequest) toInput() appsales.SaleLineInput {
	return appsales.SaleLineInput{
		ItemID:           r.ItemID,
		Description:      r.Description,
		LineType:         sales.LineType(r.LineType),
		Quantity:         r.Quantity,
		UnitPrice:        r.UnitPrice,
		DiscountAmount:   r.DiscountAmount,
		TaxAmount:        r.TaxAmount,
		AffectsInventory: r.AffectsInventory,
	}
}

type createSaleRequest struct {
	LocationID          uuid.UUID         `json:"location_id" binding:"required"`
	SaleNumber          string            `json:"sale_number"`
	ReceiptNumber       string            `json:"receipt_number" binding:"required"`
	SaleDate            *time.Time        `json:"sale_date"`
	SaleType            string            `json:"sale_type"`
	Status              string            `json:"status" binding:"required"`
	PaymentStatus       string            `json:"payment_status" binding:"required"`
	PaymentMethod       string            `json:"payment_method" binding:"required"`
	CustomerName        string            `json:"customer_name"`
	CustomerPhone       string            `json:"customer_phone"`
	CustomerTIN         string            `json:"customer_tin"`
	MaintenanceTicketID *uuid.UUID        `json:"maintenance_ticket_id"`
	DiscountAmount      decimal.Decimal   `json:"discount_amount"`
	TaxAmount           decimal.Decimal   `json:"tax_amount"`
	Notes               string            `json:"notes"`
	Lines               []saleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Create opens a new sale
func (h *SalesHandler) Create(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	actor := middleware.ActorFromContext(c)

	in := appsales.CreateSaleInput{
		LocationID:          req.LocationID,
		SaleNumber:          req.SaleNumber,
		ReceiptNumber:       req.ReceiptNumber,
		SaleDate:            req.SaleDate,
		SaleType:            req.SaleType,
		Status:              sales.SaleStatus(req.Status),
		PaymentStatus:       sales.PaymentStatus(req.PaymentStatus),
		PaymentMethod:       req.PaymentMethod,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerTIN:         req.CustomerTIN,
		MaintenanceTicketID: req.MaintenanceTicketID,
		DiscountAmount:      req.DiscountAmount,
		TaxAmount:           req.TaxAmount,
		PerformedBy:         actor.Name,
		Notes:               req.Notes,
	}
	for _, line := range req.Lines {
		in.Lines = append(in.Lines, line.toInput())
	}

	sale, err := h.service.Create(c.Request.Context(), in, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

type updateSaleRequest struct {
	LocationID     uuid.UUID         `json:"location_id" binding:"required"`
	ReceiptNumber  string            `json:"receipt_number" binding:"required"`
	SaleDate       *time.Time        `json:"sale_date"`
	SaleType       string            `json:"sale_type"`
	Status         string            `json:"status" binding:"required"`
	PaymentStatus  string            `json:"payment_status" binding:"required"`
	PaymentMethod  string            `json:"payment_method" binding:"required"`
	CustomerName   string            `json:"customer_name"`
	CustomerPhone  string            `json:"customer_phone"`
	CustomerTIN    string            `json:"customer_tin"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	TaxAmount      decimal.Decimal   `json:"tax_amount"`
	Notes          string            `json:"notes"`
	Lines          []saleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// Update amends a sale, applying any stock lifecycle transition
func (h *SalesHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}
	var req updateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	actor := middleware.ActorFromContext(c)

	in := appsales.UpdateSaleInput{
		LocationID:     req.LocationID,
		ReceiptNumber:  req.ReceiptNumber,
		SaleDate:       req.SaleDate,
		SaleType:       req.SaleType,
		Status:         sales.SaleStatus(req.Status),
		PaymentStatus:  sales.PaymentStatus(req.PaymentStatus),
		PaymentMethod:  req.PaymentMethod,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		CustomerTIN:    req.CustomerTIN,
		DiscountAmount: req.DiscountAmount,
		TaxAmount:      req.TaxAmount,
		PerformedBy:    actor.Name,
		Notes:          req.Notes,
	}
	for _, line := range req.Lines {
		in.Lines = append(in.Lines, line.toInput())
	}

	sale, err := h.service.Update(c.Request.Context(), id, in, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Get retrieves one sale with its lines
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}
	sale, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

type listSalesRequest struct {
	dto.ListRequest
	Status     string     `form:"status"`
	LocationID *uuid.UUID `form:"location_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Search     string     `form:"search"`
}

// List lists sales
func (h *SalesHandler) List(c *gin.Context) {
	var req listSalesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := sales.Filter{
		LocationID: req.LocationID,
		From:       req.From,
		To:         req.To,
		Search:     req.Search,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if req.Status != "" {
		status := sales.SaleStatus(req.Status)
		filter.Status = &status
	}
	result, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result, total, req.Limit, req.Offset, len(result))
}

// Delete removes a sale, unwinding whatever stock it holds
func (h *SalesHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid sale ID")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, middleware.ActorFromContext(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
