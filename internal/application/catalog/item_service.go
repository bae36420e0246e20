package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// CreateItemInput is the payload for creating a catalog item
type CreateItemInput struct {
	SKU           string
	Name          string
	Model         string
	ItemType      catalog.ItemType
	CategoryID    *uuid.UUID
	PricingMode   catalog.PricingMode
	MarginPercent decimal.Decimal
	Cost          decimal.Decimal
	Price         decimal.Decimal
	Notes         string
}

// UpdateItemInput is the payload for amending a catalog item
type UpdateItemInput struct {
	Name          string
	Model         string
	CategoryID    *uuid.UUID
	PricingMode   catalog.PricingMode
	MarginPercent decimal.Decimal
	Price         decimal.Decimal
	Active        *bool
	Notes         string
}

// ItemService manages the catalog. SKUs are unique; a name+model pair
// may exist only once regardless of case.
type ItemService struct {
	items  catalog.ItemRepository
	logger *zap.Logger
}

// NewItemService creates a new ItemService
func NewItemService(items catalog.ItemRepository, logger *zap.Logger) *ItemService {
	return &ItemService{items: items, logger: logger}
}

// Create registers a new catalog item, generating a SKU when none is given
func (s *ItemService) Create(ctx context.Context, in CreateItemInput) (*catalog.Item, error) {
	if err := s.checkDuplicateName(ctx, in.Name, in.Model, uuid.Nil); err != nil {
		return nil, err
	}

	sku := strings.TrimSpace(in.SKU)
	if sku == "" {
		sku = generateSKU(in.ItemType)
	}
	if existing, err := s.items.FindBySKU(ctx, sku); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "An item with this SKU already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	item, err := catalog.NewItem(sku, in.Name, in.Model, in.ItemType, in.PricingMode)
	if err != nil {
		return nil, err
	}
	item.CategoryID = in.CategoryID
	item.MarginPercent = in.MarginPercent
	item.Cost = in.Cost
	item.Price = in.Price
	item.Notes = in.Notes

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info("Catalog item created",
		zap.String("item_id", item.ID.String()),
		zap.String("sku", item.SKU),
	)
	return item, nil
}

// Update amends a catalog item
func (s *ItemService) Update(ctx context.Context, itemID uuid.UUID, in UpdateItemInput) (*catalog.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDuplicateName(ctx, in.Name, in.Model, itemID); err != nil {
		return nil, err
	}
	if in.PricingMode != "" && !in.PricingMode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRICING_MODE", "Invalid pricing mode")
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Model = strings.TrimSpace(in.Model)
	item.CategoryID = in.CategoryID
	if in.PricingMode != "" {
		item.PricingMode = in.PricingMode
	}
	item.MarginPercent = in.MarginPercent
	item.Price = in.Price
	item.Notes = in.Notes
	if in.Active != nil {
		item.Active = *in.Active
	}
	item.Touch()

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Get retrieves one item
func (s *ItemService) Get(ctx context.Context, itemID uuid.UUID) (*catalog.Item, error) {
	return s.items.FindByID(ctx, itemID)
}

// List retrieves items matching a filter
func (s *ItemService) List(ctx context.Context, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	return s.items.List(ctx, filter)
}

func (s *ItemService) checkDuplicateName(ctx context.Context, name, model string, selfID uuid.UUID) error {
	existing, err := s.items.FindByNameAndModel(ctx, name, model)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return shared.NewDomainError("DUPLICATE_ITEM", "An item with this name and model already exists")
	}
	return nil
}

func generateSKU(itemType catalog.ItemType) string {
	prefix := "PRD"
	if itemType == catalog.ItemTypeSparePart {
		prefix = "SPR"
	}
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("%s-%s", prefix, id[:10])
}
