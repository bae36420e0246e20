package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormMovementRepository_FindByReference(t *testing.T) {
	t.Run("finds movements for a reference oldest first", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(db)

		itemID := uuid.New()
		locationID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "item_id", "location_id", "movement_type", "quantity", "unit_cost", "reference_id", "occurred_at"}).
			AddRow(uuid.New(), itemID, locationID, "SALE", decimal.NewFromInt(3), decimal.NewFromInt(10), "sale-1", now).
			AddRow(uuid.New(), itemID, locationID, "SALE", decimal.NewFromInt(5), decimal.NewFromInt(12), "sale-1", now)

		mock.ExpectQuery(`SELECT \* FROM "inventory_movements" WHERE reference_id = \$1 AND movement_type = \$2 ORDER BY occurred_at ASC, created_at ASC`).
			WithArgs("sale-1", "SALE").
			WillReturnRows(rows)

		movements, err := repo.FindByReference(context.Background(), "sale-1", inventory.MovementTypeSale)

		assert.NoError(t, err)
		require.Len(t, movements, 2)
		assert.Equal(t, inventory.MovementTypeSale, movements[0].MovementType)
		assert.Equal(t, "sale-1", movements[0].ReferenceID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when nothing recorded", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormMovementRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "inventory_movements"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		movements, err := repo.FindByReference(context.Background(), "missing", inventory.MovementTypeIssue)

		assert.NoError(t, err)
		assert.Empty(t, movements)
	})
}

func TestGormPositionRepository_FindByItemAndLocationForUpdate(t *testing.T) {
	t.Run("acquires a row lock", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPositionRepository(db)

		itemID := uuid.New()
		locationID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "item_id", "location_id", "quantity", "reserved_quantity"}).
			AddRow(uuid.New(), itemID, locationID, decimal.NewFromInt(15), decimal.NewFromInt(4))

		mock.ExpectQuery(`SELECT \* FROM "inventory_stock_positions" WHERE item_id = \$1 AND location_id = \$2 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs(itemID, locationID, 1).
			WillReturnRows(rows)

		position, err := repo.FindByItemAndLocationForUpdate(context.Background(), itemID, locationID)

		assert.NoError(t, err)
		require.NotNil(t, position)
		assert.True(t, position.Quantity.Equal(decimal.NewFromInt(15)))
		assert.True(t, position.Available().Equal(decimal.NewFromInt(11)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormPositionRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "inventory_stock_positions"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByItemAndLocation(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
