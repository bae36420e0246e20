package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator drives the schema version of the stockops database through
// the SQL file pairs under migrations/. It wraps golang-migrate so that
// cmd/migrate only deals in commands, not driver plumbing.
type Migrator struct {
	m      *migrate.Migrate
	logger *zap.Logger
}

// New builds a Migrator over an open postgres connection
func New(db *sql.DB, migrationsPath string, logger *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("open migration source %s: %w", migrationsPath, err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error {
	err := mg.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	mg.logCurrentVersion("Schema migrated")
	return nil
}

// Down rolls back every applied migration
func (mg *Migrator) Down() error {
	err := mg.m.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("roll back migrations: %w", err)
	}
	mg.logger.Info("All migrations rolled back")
	return nil
}

// Steps applies n migrations forward, or backward when n is negative
func (mg *Migrator) Steps(n int) error {
	err := mg.m.Steps(n)
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("step %d migrations: %w", n, err)
	}
	mg.logCurrentVersion("Schema stepped", zap.Int("steps", n))
	return nil
}

// GoTo migrates up or down until the schema sits at the given version
func (mg *Migrator) GoTo(version uint) error {
	err := mg.m.Migrate(version)
	if errors.Is(err, migrate.ErrNoChange) {
		mg.logger.Info("Schema already at version", zap.Uint("version", version))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate to version %d: %w", version, err)
	}
	mg.logger.Info("Schema migrated to version", zap.Uint("version", version))
	return nil
}

// Version reports the current schema version and whether it is dirty.
// A database with no applied migrations reports version 0, clean.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

// Force stamps the schema version without running any SQL. Only for
// recovering a dirty state after a failed migration.
func (mg *Migrator) Force(version int) error {
	mg.logger.Warn("Forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Drop destroys every object in the database
func (mg *Migrator) Drop() error {
	mg.logger.Warn("Dropping all database objects")
	if err := mg.m.Drop(); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	return nil
}

// Close releases the migration source and database handles
func (mg *Migrator) Close() error {
	sourceErr, dbErr := mg.m.Close()
	if sourceErr != nil {
		return fmt.Errorf("close migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}

func (mg *Migrator) logCurrentVersion(msg string, fields ...zap.Field) {
	version, dirty, err := mg.Version()
	if err != nil {
		mg.logger.Warn(msg, append(fields, zap.Error(err))...)
		return
	}
	mg.logger.Info(msg, append(fields,
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)...)
}
