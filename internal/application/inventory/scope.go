package inventory

import (
	"context"

	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/domain/sales"
)

// LedgerScope provides transactional access to the repositories a
// ledger operation touches. Everything executed within one scope call
// commits or rolls back atomically; implementations are expected to
// retry once on transient serialization failures.
type LedgerScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos LedgerRepositories) error) error
}

// LedgerRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying
// database transaction, so a document write and its stock effect land
// or fail together.
type LedgerRepositories interface {
	// Positions returns the stock position repository scoped to the current transaction
	Positions() inventory.PositionRepository
	// Batches returns the cost lot repository scoped to the current transaction
	Batches() inventory.BatchRepository
	// Movements returns the movement journal repository scoped to the current transaction
	Movements() inventory.MovementRepository
	// Items returns the catalog item repository scoped to the current transaction
	Items() catalog.ItemRepository
	// Sales returns the sale repository scoped to the current transaction
	Sales() sales.Repository
	// PartRequests returns the part request repository scoped to the current transaction
	PartRequests() maintenance.PartRequestRepository
}

// NoOpLedgerScope runs the function without a real transaction.
// Useful in tests where the backing store is already a single
// connection.
type NoOpLedgerScope struct {
	positions    inventory.PositionRepository
	batches      inventory.BatchRepository
	movements    inventory.MovementRepository
	items        catalog.ItemRepository
	sales        sales.Repository
	partRequests maintenance.PartRequestRepository
}

// NewNoOpLedgerScope creates a NoOpLedgerScope over the given repositories
func NewNoOpLedgerScope(
	positions inventory.PositionRepository,
	batches inventory.BatchRepository,
	movements inventory.MovementRepository,
	items catalog.ItemRepository,
	saleRepo sales.Repository,
	partRequests maintenance.PartRequestRepository,
) *NoOpLedgerScope {
	return &NoOpLedgerScope{
		positions:    positions,
		batches:      batches,
		movements:    movements,
		items:        items,
		sales:        saleRepo,
		partRequests: partRequests,
	}
}

// Execute runs the function without transactional guarantees
func (s *NoOpLedgerScope) Execute(_ context.Context, fn func(repos LedgerRepositories) error) error {
	return fn(s)
}

// Positions returns the stock position repository
func (s *NoOpLedgerScope) Positions() inventory.PositionRepository { return s.positions }

// Batches returns the cost lot repository
func (s *NoOpLedgerScope) Batches() inventory.BatchRepository { return s.batches }

// Movements returns the movement journal repository
func (s *NoOpLedgerScope) Movements() inventory.MovementRepository { return s.movements }

// Items returns the catalog item repository
func (s *NoOpLedgerScope) Items() catalog.ItemRepository { return s.items }

// Sales returns the sale repository
func (s *NoOpLedgerScope) Sales() sales.Repository { return s.sales }

// PartRequests returns the part request repository
func (s *NoOpLedgerScope) PartRequests() maintenance.PartRequestRepository { return s.partRequests }

var _ LedgerScope = (*NoOpLedgerScope)(nil)
var _ LedgerRepositories = (*NoOpLedgerScope)(nil)
