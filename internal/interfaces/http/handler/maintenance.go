package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appmaint "github.com/stockops/backoffice/internal/application/maintenance"
	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/interfaces/http/dto"
	"github.com/stockops/backoffice/internal/interfaces/http/middleware"
)

// MaintenanceHandler serves tickets, part requests and part usage
type MaintenanceHandler struct {
	BaseHandler
	tickets  *appmaint.TicketService
	requests *appmaint.PartRequestService
	usages   *appmaint.PartUsageService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(
	tickets *appmaint.TicketService,
	requests *appmaint.PartRequestService,
	usages *appmaint.PartUsageService,
) *MaintenanceHandler {
	return &MaintenanceHandler{tickets: tickets, requests: requests, usages: usages}
}

// RegisterRoutes registers maintenance routes
func (h *MaintenanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	maint := rg.Group("/maintenance")
	{
		tickets := maint.Group("/tickets")
		{
			tickets.GET("", h.ListTickets)
			tickets.POST("", h.CreateTicket)
			tickets.GET("/:id", h.GetTicket)
			tickets.PATCH("/:id/status", h.UpdateTicketStatus)
			tickets.GET("/:id/part-usages", h.ListPartUsages)
			tickets.POST("/:id/part-usages", h.RecordPartUsage)
		}
		requests := maint.Group("/part-requests")
		{
			requests.GET("", h.ListPartRequests)
			requests.POST("", h.CreatePartRequest)
			requests.GET("/:id", h.GetPartRequest)
			requests.PUT("/:id", h.UpdatePartRequest)
			requests.DELETE("/:id", h.DeletePartRequest)
		}
	}
}

type createTicketRequest struct {
	TicketNumber      string    `json:"ticket_number" binding:"required"`
	LocationID        uuid.UUID `json:"location_id" binding:"required"`
	CustomerName      string    `json:"customer_name"`
	CustomerPhone     string    `json:"customer_phone"`
	DeviceDescription string    `json:"device_description"`
	ReportedProblem   string    `json:"reported_problem"`
	AssignedTo        string    `json:"assigned_to"`
	Notes             string    `json:"notes"`
}

// CreateTicket opens a maintenance ticket
func (h *MaintenanceHandler) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	ticket, err := h.tickets.Create(c.Request.Context(), appmaint.CreateTicketInput{
		TicketNumber:      req.TicketNumber,
		LocationID:        req.LocationID,
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		DeviceDescription: req.DeviceDescription,
		ReportedProblem:   req.ReportedProblem,
		AssignedTo:        req.AssignedTo,
		Notes:             req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// GetTicket retrieves one ticket
func (h *MaintenanceHandler) GetTicket(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}
	ticket, err := h.tickets.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

type listTicketsRequest struct {
	dto.ListRequest
	Status     string     `form:"status"`
	LocationID *uuid.UUID `form:"location_id"`
	Search     string     `form:"search"`
}

// ListTickets lists tickets
func (h *MaintenanceHandler) ListTickets(c *gin.Context) {
	var req listTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := maintenance.TicketFilter{
		LocationID: req.LocationID,
		Search:     req.Search,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if req.Status != "" {
		status := maintenance.TicketStatus(req.Status)
		filter.Status = &status
	}
	tickets, total, err := h.tickets.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, tickets, total, req.Limit, req.Offset, len(tickets))
}

type updateTicketStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTicketStatus moves a ticket through its lifecycle
func (h *MaintenanceHandler) UpdateTicketStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}
	var req updateTicketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	ticket, err := h.tickets.UpdateStatus(c.Request.Context(), id, maintenance.TicketStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

type createPartRequestRequest struct {
	TicketID         uuid.UUID       `json:"ticket_id" binding:"required"`
	LocationID       uuid.UUID       `json:"location_id" binding:"required"`
	PartID           *uuid.UUID      `json:"part_id"`
	Source           string          `json:"source" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"dpositive"`
	ExternalItemName string          `json:"external_item_name"`
	ReceiptNumber    string          `json:"receipt_number"`
	Cost             decimal.Decimal `json:"cost"`
	Notes            string          `json:"notes"`
}

// CreatePartRequest raises a part request; no stock moves until approval
func (h *MaintenanceHandler) CreatePartRequest(c *gin.Context) {
	var req createPartRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	actor := middleware.ActorFromContext(c)
	request, err := h.requests.Create(c.Request.Context(), appmaint.CreatePartRequestInput{
		TicketID:         req.TicketID,
		LocationID:       req.LocationID,
		PartID:           req.PartID,
		Source:           maintenance.PartSource(req.Source),
		Quantity:         req.Quantity,
		ExternalItemName: req.ExternalItemName,
		ReceiptNumber:    req.ReceiptNumber,
		Cost:             req.Cost,
		RequestedBy:      actor.Name,
		Notes:            req.Notes,
	}, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

type updatePartRequestRequest struct {
	PartID           *uuid.UUID      `json:"part_id"`
	Source           string          `json:"source" binding:"required"`
	Status           string          `json:"status" binding:"required"`
	Quantity         decimal.Decimal `json:"quantity" binding:"dpositive"`
	ExternalItemName string          `json:"external_item_name"`
	ReceiptNumber    string          `json:"receipt_number"`
	Cost             decimal.Decimal `json:"cost"`
	Notes            string          `json:"notes"`
}

// UpdatePartRequest amends a part request, issuing or returning stock
// when the approval state changes
func (h *MaintenanceHandler) UpdatePartRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid part request ID")
		return
	}
	var req updatePartRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	actor := middleware.ActorFromContext(c)
	request, err := h.requests.Update(c.Request.Context(), id, appmaint.UpdatePartRequestInput{
		PartID:           req.PartID,
		Source:           maintenance.PartSource(req.Source),
		Status:           maintenance.PartRequestStatus(req.Status),
		Quantity:         req.Quantity,
		ExternalItemName: req.ExternalItemName,
		ReceiptNumber:    req.ReceiptNumber,
		Cost:             req.Cost,
		ApprovedBy:       actor.Name,
		Notes:            req.Notes,
	}, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// GetPartRequest retrieves one part request
func (h *MaintenanceHandler) GetPartRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid part request ID")
		return
	}
	request, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

type listPartRequestsRequest struct {
	dto.ListRequest
	TicketID *uuid.UUID `form:"ticket_id"`
	Status   string     `form:"status"`
	Source   string     `form:"source"`
}

// ListPartRequests lists part requests
func (h *MaintenanceHandler) ListPartRequests(c *gin.Context) {
	var req listPartRequestsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := maintenance.PartRequestFilter{
		TicketID: req.TicketID,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	if req.Status != "" {
		status := maintenance.PartRequestStatus(req.Status)
		filter.Status = &status
	}
	if req.Source != "" {
		source := maintenance.PartSource(req.Source)
		filter.Source = &source
	}
	requests, total, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, requests, total, req.Limit, req.Offset, len(requests))
}

// DeletePartRequest removes a part request
func (h *MaintenanceHandler) DeletePartRequest(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid part request ID")
		return
	}
	if err := h.requests.Delete(c.Request.Context(), id, middleware.ActorFromContext(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type recordPartUsageRequest struct {
	PartRequestID *uuid.UUID       `json:"part_request_id"`
	ItemID        *uuid.UUID       `json:"item_id"`
	Description   string           `json:"description"`
	Source        string           `json:"source" binding:"required"`
	Quantity      decimal.Decimal  `json:"quantity" binding:"dpositive"`
	UnitCost      decimal.Decimal  `json:"unit_cost"`
	TotalCost     *decimal.Decimal `json:"total_cost"`
}

// RecordPartUsage records parts fitted during a job
func (h *MaintenanceHandler) RecordPartUsage(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}
	var req recordPartUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	usage, err := h.usages.Record(c.Request.Context(), appmaint.RecordPartUsageInput{
		TicketID:      ticketID,
		PartRequestID: req.PartRequestID,
		ItemID:        req.ItemID,
		Description:   req.Description,
		Source:        maintenance.PartSource(req.Source),
		Quantity:      req.Quantity,
		UnitCost:      req.UnitCost,
		TotalCost:     req.TotalCost,
		RecordedBy:    middleware.ActorFromContext(c).Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, usage)
}

// ListPartUsages lists the usage entries for one ticket
func (h *MaintenanceHandler) ListPartUsages(c *gin.Context) {
	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid ticket ID")
		return
	}
	usages, err := h.usages.ListByTicket(c.Request.Context(), ticketID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, usages)
}
