package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcatalog "github.com/stockops/backoffice/internal/application/catalog"
	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/interfaces/http/dto"
)

// CatalogHandler serves items, categories and locations
type CatalogHandler struct {
	BaseHandler
	items      *appcatalog.ItemService
	categories *appcatalog.CategoryService
	locations  *appcatalog.LocationService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(
	items *appcatalog.ItemService,
	categories *appcatalog.CategoryService,
	locations *appcatalog.LocationService,
) *CatalogHandler {
	return &CatalogHandler{items: items, categories: categories, locations: locations}
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("", h.ListItems)
		items.POST("", h.CreateItem)
		items.GET("/:id", h.GetItem)
		items.PUT("/:id", h.UpdateItem)
	}
	categories := rg.Group("/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.DELETE("/:id", h.DeleteCategory)
	}
	locations := rg.Group("/locations")
	{
		locations.GET("", h.ListLocations)
		locations.POST("", h.CreateLocation)
		locations.GET("/:id", h.GetLocation)
	}
}

type createItemRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name" binding:"required"`
	Model         string          `json:"model"`
	ItemType      string          `json:"item_type" binding:"required"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	PricingMode   string          `json:"pricing_mode"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Cost          decimal.Decimal `json:"cost"`
	Price         decimal.Decimal `json:"price"`
	Notes         string          `json:"notes"`
}

// CreateItem registers a catalog item
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	pricingMode := catalog.PricingMode(req.PricingMode)
	if req.PricingMode == "" {
		pricingMode = catalog.PricingModeManual
	}
	item, err := h.items.Create(c.Request.Context(), appcatalog.CreateItemInput{
		SKU:           req.SKU,
		Name:          req.Name,
		Model:         req.Model,
		ItemType:      catalog.ItemType(req.ItemType),
		CategoryID:    req.CategoryID,
		PricingMode:   pricingMode,
		MarginPercent: req.MarginPercent,
		Cost:          req.Cost,
		Price:         req.Price,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

type updateItemRequest struct {
	Name          string          `json:"name" binding:"required"`
	Model         string          `json:"model"`
	CategoryID    *uuid.UUID      `json:"category_id"`
	PricingMode   string          `json:"pricing_mode" binding:"required"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Price         decimal.Decimal `json:"price"`
	Active        *bool           `json:"active"`
	Notes         string          `json:"notes"`
}

// UpdateItem amends a catalog item
func (h *CatalogHandler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	item, err := h.items.Update(c.Request.Context(), id, appcatalog.UpdateItemInput{
		Name:          req.Name,
		Model:         req.Model,
		CategoryID:    req.CategoryID,
		PricingMode:   catalog.PricingMode(req.PricingMode),
		MarginPercent: req.MarginPercent,
		Price:         req.Price,
		Active:        req.Active,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetItem retrieves one catalog item
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}
	item, err := h.items.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

type listItemsRequest struct {
	dto.ListRequest
	ItemType string `form:"item_type"`
	Active   *bool  `form:"active"`
	Search   string `form:"search"`
}

// ListItems lists catalog items
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var req listItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	req.Normalize()

	filter := catalog.ItemFilter{
		Active: req.Active,
		Search: req.Search,
		Limit:  req.Limit,
		Offset: req.Offset,
	}
	if req.ItemType != "" {
		itemType := catalog.ItemType(req.ItemType)
		filter.ItemType = &itemType
	}
	items, total, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, req.Limit, req.Offset, len(items))
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory registers a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	category, err := h.categories.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// ListCategories lists all categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// DeleteCategory removes a category
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid category ID")
		return
	}
	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type createLocationRequest struct {
	Name         string `json:"name" binding:"required"`
	LocationType string `json:"location_type" binding:"required"`
	Address      string `json:"address"`
}

// CreateLocation registers a stock location
func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	location, err := h.locations.Create(c.Request.Context(), req.Name, catalog.LocationType(req.LocationType), req.Address)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, location)
}

// GetLocation retrieves one location
func (h *CatalogHandler) GetLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid location ID")
		return
	}
	location, err := h.locations.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, location)
}

// ListLocations lists all locations
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	locations, err := h.locations.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, locations)
}
