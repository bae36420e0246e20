package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	appinv "github.com/stockops/backoffice/internal/application/inventory"
	"github.com/stockops/backoffice/internal/domain/catalog"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/maintenance"
	"github.com/stockops/backoffice/internal/domain/sales"
)

// GormLedgerScope implements LedgerScope using GORM transactions.
// Every ledger write path runs inside Execute so that document rows,
// positions, batches and movements commit or roll back as one unit.
type GormLedgerScope struct {
	db *gorm.DB
}

// NewGormLedgerScope creates a new GormLedgerScope
func NewGormLedgerScope(db *gorm.DB) *GormLedgerScope {
	return &GormLedgerScope{db: db}
}

// Execute runs the given function within a database transaction.
// Serialization failures and deadlocks are retried once; the caller's
// function must therefore be safe to re-run from the start.
func (s *GormLedgerScope) Execute(ctx context.Context, fn func(repos appinv.LedgerRepositories) error) error {
	run := func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&gormLedgerRepositories{tx: tx})
		})
	}

	err := run()
	if err != nil && isRetryableTxError(err) {
		return run()
	}
	return err
}

// isRetryableTxError reports whether the transaction failed due to a
// serialization conflict or deadlock (pg codes 40001 and 40P01).
// The gorm postgres driver runs on pgx, so conflicts surface as
// *pgconn.PgError; the *pq.Error arm covers the lib/pq connections
// used by cmd/migrate.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// gormLedgerRepositories provides access to all ledger repositories
// scoped to one transaction
type gormLedgerRepositories struct {
	tx *gorm.DB
}

func (r *gormLedgerRepositories) Positions() inventory.PositionRepository {
	return NewGormPositionRepository(r.tx)
}

func (r *gormLedgerRepositories) Batches() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r *gormLedgerRepositories) Movements() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

func (r *gormLedgerRepositories) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormLedgerRepositories) Sales() sales.Repository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormLedgerRepositories) PartRequests() maintenance.PartRequestRepository {
	return NewGormPartRequestRepository(r.tx)
}

// Ensure GormLedgerScope implements LedgerScope
var _ appinv.LedgerScope = (*GormLedgerScope)(nil)

// Ensure gormLedgerRepositories implements LedgerRepositories
var _ appinv.LedgerRepositories = (*gormLedgerRepositories)(nil)
