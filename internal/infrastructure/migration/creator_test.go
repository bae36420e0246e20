package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add stock positions", "add_stock_positions"},
		{"Add-Stock-Positions", "add_stock_positions"},
		{"ADD_STOCK_POSITIONS", "add_stock_positions"},
		{"add__stock__positions", "add_stock_positions"},
		{"Batch Lots 2", "batch_lots_2"},
		{"   padded   ", "padded"},
		{"odd!@#chars", "oddchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add part usages", "usage rows per ticket")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, "_add_part_usages.up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, "_add_part_usages.down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add part usages")
	assert.Contains(t, string(up), "usage rows per ticket")
	assert.Contains(t, string(up), "Forward migration")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "rollback")
	assert.Contains(t, string(down), "Rollback migration")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	mf, err := CreateMigration(nested, "first", "first migration")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"000001_catalog.up.sql",
		"000001_catalog.down.sql",
		"000002_inventory.up.sql",
		"000002_inventory.down.sql",
		"notes.txt",
	}
	for _, f := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- sql"), 0o644))
	}

	names, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"000001_catalog", "000002_inventory"}, names)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	names, err := ListMigrations(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, names)
}
