package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "stockops-backoffice", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15*time.Minute, cfg.Reconciliation.CheckInterval)
	assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
}

func TestValidate_PoolSettings(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.MaxIdleConns = 50 // exceeds MaxOpenConns

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}

func TestValidate_ProductionRequiresPassword(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Database.SSLMode = "require"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.password")

	cfg.Database.Password = "secret"
	require.NoError(t, cfg.validate())
}

func TestValidate_ProductionRejectsDisabledSSL(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Database.Password = "secret"

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sslmode")
}

func TestValidate_SamplingRatioBounds(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Telemetry.SamplingRatio = 1.5

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling_ratio")
}

func TestDSN_EscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "stock ops",
		Password: "p@ss/word",
		DBName:   "stockops",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word") // must be escaped
}
