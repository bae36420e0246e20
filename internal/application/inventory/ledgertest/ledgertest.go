// Package ledgertest provides in-memory repository implementations for
// exercising ledger and document service flows in tests without a
// database.
package ledgertest

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	appinv "github.com/stockops/backoffice/internal/application/inventory"
	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/domain/sales"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// Store aggregates the in-memory repositories behind one ledger scope
type Store struct {
	Positions    *PositionRepo
	Batches      *BatchRepo
	Movements    *MovementRepo
	Items        *ItemRepo
	Sales        *SaleRepo
	PartRequests *PartRequestRepo
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		Positions:    &PositionRepo{rows: map[positionKey]inventory.StockPosition{}},
		Batches:      &BatchRepo{},
		Movements:    &MovementRepo{},
		Items:        &ItemRepo{rows: map[uuid.UUID]catalog.Item{}},
		Sales:        &SaleRepo{rows: map[uuid.UUID]sales.Sale{}},
		PartRequests: &PartRequestRepo{rows: map[uuid.UUID]maintenance.PartRequest{}},
	}
}

// Scope returns a LedgerScope over the store's repositories
func (s *Store) Scope() appinv.LedgerScope {
	return appinv.NewNoOpLedgerScope(s.Positions, s.Batches, s.Movements, s.Items, s.Sales, s.PartRequests)
}

type positionKey struct {
	itemID     uuid.UUID
	locationID uuid.UUID
}

// PositionRepo is an in-memory PositionRepository
type PositionRepo struct {
	rows map[positionKey]inventory.StockPosition
}

func (r *PositionRepo) FindByItemAndLocation(_ context.Context, itemID, locationID uuid.UUID) (*inventory.StockPosition, error) {
	row, ok := r.rows[positionKey{itemID, locationID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *PositionRepo) FindByItemAndLocationForUpdate(ctx context.Context, itemID, locationID uuid.UUID) (*inventory.StockPosition, error) {
	return r.FindByItemAndLocation(ctx, itemID, locationID)
}

func (r *PositionRepo) FindByLocation(_ context.Context, locationID uuid.UUID) ([]inventory.StockPosition, error) {
	var result []inventory.StockPosition
	for key, row := range r.rows {
		if key.locationID == locationID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *PositionRepo) FindByItem(_ context.Context, itemID uuid.UUID) ([]inventory.StockPosition, error) {
	var result []inventory.StockPosition
	for key, row := range r.rows {
		if key.itemID == itemID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *PositionRepo) List(_ context.Context, filter inventory.PositionFilter) ([]inventory.StockPosition, int64, error) {
	var result []inventory.StockPosition
	for _, row := range r.rows {
		if filter.ItemID != nil && row.ItemID != *filter.ItemID {
			continue
		}
		if filter.LocationID != nil && row.LocationID != *filter.LocationID {
			continue
		}
		if filter.InStock != nil && *filter.InStock && !row.Quantity.IsPositive() {
			continue
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, int64(len(result)), nil
}

func (r *PositionRepo) Create(_ context.Context, position *inventory.StockPosition) error {
	r.rows[positionKey{position.ItemID, position.LocationID}] = *position
	return nil
}

func (r *PositionRepo) Save(_ context.Context, position *inventory.StockPosition) error {
	r.rows[positionKey{position.ItemID, position.LocationID}] = *position
	return nil
}

// BatchRepo is an in-memory BatchRepository
type BatchRepo struct {
	rows []inventory.StockBatch
}

func (r *BatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	for _, row := range r.rows {
		if row.ID == id {
			copied := row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *BatchRepo) FindAvailable(_ context.Context, itemID, locationID uuid.UUID) ([]inventory.StockBatch, error) {
	var result []inventory.StockBatch
	for _, row := range r.rows {
		if row.ItemID == itemID && row.LocationID == locationID && row.HasStock() {
			result = append(result, row)
		}
	}
	sortBatches(result)
	return result, nil
}

func (r *BatchRepo) FindByItemAndLocation(_ context.Context, itemID, locationID uuid.UUID) ([]inventory.StockBatch, error) {
	var result []inventory.StockBatch
	for _, row := range r.rows {
		if row.ItemID == itemID && row.LocationID == locationID {
			result = append(result, row)
		}
	}
	sortBatches(result)
	return result, nil
}

func (r *BatchRepo) List(_ context.Context, filter inventory.BatchFilter) ([]inventory.StockBatch, int64, error) {
	var result []inventory.StockBatch
	for _, row := range r.rows {
		if filter.ItemID != nil && row.ItemID != *filter.ItemID {
			continue
		}
		if filter.LocationID != nil && row.LocationID != *filter.LocationID {
			continue
		}
		if filter.OnlyAvailable && !row.HasStock() {
			continue
		}
		result = append(result, row)
	}
	sortBatches(result)
	return result, int64(len(result)), nil
}

func (r *BatchRepo) Create(_ context.Context, batch *inventory.StockBatch) error {
	r.rows = append(r.rows, *batch)
	return nil
}

func (r *BatchRepo) Save(_ context.Context, batch *inventory.StockBatch) error {
	for i := range r.rows {
		if r.rows[i].ID == batch.ID {
			r.rows[i] = *batch
			return nil
		}
	}
	return shared.ErrNotFound
}

func sortBatches(batches []inventory.StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].ReceivedAt.Equal(batches[j].ReceivedAt) {
			return batches[i].ReceivedAt.Before(batches[j].ReceivedAt)
		}
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})
}

// MovementRepo is an in-memory MovementRepository
type MovementRepo struct {
	rows []inventory.Movement
}

func (r *MovementRepo) Create(_ context.Context, movement *inventory.Movement) error {
	r.rows = append(r.rows, *movement)
	return nil
}

func (r *MovementRepo) FindByReference(_ context.Context, referenceID string, movementType inventory.MovementType) ([]inventory.Movement, error) {
	var result []inventory.Movement
	for _, row := range r.rows {
		if row.ReferenceID == referenceID && row.MovementType == movementType {
			result = append(result, row)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (r *MovementRepo) List(_ context.Context, filter inventory.MovementFilter) ([]inventory.Movement, int64, error) {
	var result []inventory.Movement
	for _, row := range r.rows {
		if filter.ItemID != nil && row.ItemID != *filter.ItemID {
			continue
		}
		if filter.LocationID != nil && row.LocationID != *filter.LocationID {
			continue
		}
		if filter.MovementType != nil && row.MovementType != *filter.MovementType {
			continue
		}
		if filter.ReferenceID != nil && row.ReferenceID != *filter.ReferenceID {
			continue
		}
		result = append(result, row)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OccurredAt.After(result[j].OccurredAt) })
	return result, int64(len(result)), nil
}

// All returns every journaled movement in insertion order
func (r *MovementRepo) All() []inventory.Movement {
	return append([]inventory.Movement(nil), r.rows...)
}

// ItemRepo is an in-memory catalog.ItemRepository
type ItemRepo struct {
	rows map[uuid.UUID]catalog.Item
}

func (r *ItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *ItemRepo) FindBySKU(_ context.Context, sku string) (*catalog.Item, error) {
	for _, row := range r.rows {
		if row.SKU == sku {
			copied := row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *ItemRepo) FindByNameAndModel(_ context.Context, name, model string) (*catalog.Item, error) {
	for _, row := range r.rows {
		if strings.EqualFold(strings.TrimSpace(row.Name), strings.TrimSpace(name)) &&
			strings.EqualFold(strings.TrimSpace(row.Model), strings.TrimSpace(model)) {
			copied := row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *ItemRepo) List(_ context.Context, filter catalog.ItemFilter) ([]catalog.Item, int64, error) {
	var result []catalog.Item
	for _, row := range r.rows {
		if filter.ItemType != nil && row.ItemType != *filter.ItemType {
			continue
		}
		if filter.Active != nil && row.Active != *filter.Active {
			continue
		}
		result = append(result, row)
	}
	return result, int64(len(result)), nil
}

func (r *ItemRepo) Create(_ context.Context, item *catalog.Item) error {
	r.rows[item.ID] = *item
	return nil
}

func (r *ItemRepo) Save(_ context.Context, item *catalog.Item) error {
	r.rows[item.ID] = *item
	return nil
}

// SaleRepo is an in-memory sales.Repository
type SaleRepo struct {
	rows map[uuid.UUID]sales.Sale
}

func (r *SaleRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Sale, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := row
	copied.Items = append([]sales.SaleItem(nil), row.Items...)
	return &copied, nil
}

func (r *SaleRepo) List(_ context.Context, filter sales.Filter) ([]sales.Sale, int64, error) {
	var result []sales.Sale
	for _, row := range r.rows {
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		if filter.LocationID != nil && row.LocationID != *filter.LocationID {
			continue
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SaleDate.After(result[j].SaleDate) })
	return result, int64(len(result)), nil
}

func (r *SaleRepo) Create(_ context.Context, sale *sales.Sale) error {
	copied := *sale
	copied.Items = append([]sales.SaleItem(nil), sale.Items...)
	r.rows[sale.ID] = copied
	return nil
}

func (r *SaleRepo) Save(_ context.Context, sale *sales.Sale) error {
	existing, ok := r.rows[sale.ID]
	if !ok {
		return shared.ErrNotFound
	}
	copied := *sale
	copied.Items = existing.Items // lines are managed via ReplaceItems
	r.rows[sale.ID] = copied
	return nil
}

func (r *SaleRepo) ReplaceItems(_ context.Context, saleID uuid.UUID, items []sales.SaleItem) error {
	row, ok := r.rows[saleID]
	if !ok {
		return shared.ErrNotFound
	}
	replaced := append([]sales.SaleItem(nil), items...)
	for i := range replaced {
		replaced[i].SaleID = saleID
	}
	row.Items = replaced
	r.rows[saleID] = row
	return nil
}

func (r *SaleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// PartRequestRepo is an in-memory maintenance.PartRequestRepository
type PartRequestRepo struct {
	rows map[uuid.UUID]maintenance.PartRequest
}

func (r *PartRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*maintenance.PartRequest, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := row
	return &copied, nil
}

func (r *PartRequestRepo) FindByTicket(_ context.Context, ticketID uuid.UUID) ([]maintenance.PartRequest, error) {
	var result []maintenance.PartRequest
	for _, row := range r.rows {
		if row.TicketID == ticketID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (r *PartRequestRepo) List(_ context.Context, filter maintenance.PartRequestFilter) ([]maintenance.PartRequest, int64, error) {
	var result []maintenance.PartRequest
	for _, row := range r.rows {
		if filter.TicketID != nil && row.TicketID != *filter.TicketID {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		if filter.Source != nil && row.Source != *filter.Source {
			continue
		}
		result = append(result, row)
	}
	return result, int64(len(result)), nil
}

func (r *PartRequestRepo) Create(_ context.Context, request *maintenance.PartRequest) error {
	r.rows[request.ID] = *request
	return nil
}

func (r *PartRequestRepo) Save(_ context.Context, request *maintenance.PartRequest) error {
	r.rows[request.ID] = *request
	return nil
}

func (r *PartRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// Interface guards
var (
	_ inventory.PositionRepository      = (*PositionRepo)(nil)
	_ inventory.BatchRepository         = (*BatchRepo)(nil)
	_ inventory.MovementRepository      = (*MovementRepo)(nil)
	_ catalog.ItemRepository            = (*ItemRepo)(nil)
	_ sales.Repository                  = (*SaleRepo)(nil)
	_ maintenance.PartRequestRepository = (*PartRequestRepo)(nil)
)
