package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/inventory"
	"github.com/stockops/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T, status SaleStatus) *Sale {
	t.Helper()
	sale, err := NewSale(uuid.New(), "R-1001", "CASH", status, PaymentStatusPaid)
	require.NoError(t, err)
	return sale
}

func TestStageForStatus(t *testing.T) {
	assert.Equal(t, inventory.StageReserved, StageForStatus(SaleStatusOpen))
	assert.Equal(t, inventory.StageConsumed, StageForStatus(SaleStatusCompleted))
	assert.Equal(t, inventory.StageNone, StageForStatus(SaleStatusCancelled))
	assert.Equal(t, inventory.StageNone, StageForStatus(SaleStatusRefunded))
	assert.Equal(t, inventory.StageNone, StageForStatus(SaleStatusVoid))
}

func TestNewSale_Validation(t *testing.T) {
	_, err := NewSale(uuid.Nil, "R-1", "CASH", SaleStatusOpen, PaymentStatusUnpaid)
	assert.Error(t, err)

	_, err = NewSale(uuid.New(), " ", "CASH", SaleStatusOpen, PaymentStatusUnpaid)
	assert.Error(t, err)

	_, err = NewSale(uuid.New(), "R-1", "", SaleStatusOpen, PaymentStatusUnpaid)
	assert.Error(t, err)

	_, err = NewSale(uuid.New(), "R-1", "CASH", SaleStatus("MAYBE"), PaymentStatusUnpaid)
	assert.Error(t, err)
}

func TestSale_RequiredByItem_SkipsNonInventoryLines(t *testing.T) {
	sale := newTestSale(t, SaleStatusOpen)
	itemA := uuid.New()
	itemB := uuid.New()

	lineA1, err := NewSaleItem(sale.ID, &itemA, LineTypeProduct, decimal.RequireFromString("2"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	lineA2, err := NewSaleItem(sale.ID, &itemA, LineTypeProduct, decimal.RequireFromString("3"), decimal.RequireFromString("9"))
	require.NoError(t, err)
	lineB, err := NewSaleItem(sale.ID, &itemB, LineTypeSparePart, decimal.RequireFromString("1"), decimal.RequireFromString("5"))
	require.NoError(t, err)
	labor, err := NewSaleItem(sale.ID, nil, LineTypeLabor, decimal.RequireFromString("4"), decimal.RequireFromString("25"))
	require.NoError(t, err)

	sale.Items = []SaleItem{*lineA1, *lineA2, *lineB, *labor}

	required := sale.RequiredByItem()
	require.Len(t, required, 2)
	assert.True(t, required[itemA].Equal(decimal.RequireFromString("5")))
	assert.True(t, required[itemB].Equal(decimal.RequireFromString("1")))
}

func TestSale_PriceByItem_WeightsAcrossLines(t *testing.T) {
	sale := newTestSale(t, SaleStatusCompleted)
	itemA := uuid.New()

	line1, err := NewSaleItem(sale.ID, &itemA, LineTypeProduct, decimal.RequireFromString("2"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	line2, err := NewSaleItem(sale.ID, &itemA, LineTypeProduct, decimal.RequireFromString("2"), decimal.RequireFromString("20"))
	require.NoError(t, err)
	sale.Items = []SaleItem{*line1, *line2}

	prices := sale.PriceByItem()
	require.Len(t, prices, 1)
	// (2*10 + 2*20) / 4 = 15
	assert.True(t, prices[itemA].Equal(decimal.RequireFromString("15")))
}

func TestSale_RecalculateTotals(t *testing.T) {
	sale := newTestSale(t, SaleStatusOpen)
	itemA := uuid.New()

	line, err := NewSaleItem(sale.ID, &itemA, LineTypeProduct, decimal.RequireFromString("3"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	fee, err := NewSaleItem(sale.ID, nil, LineTypeFee, decimal.RequireFromString("1"), decimal.RequireFromString("5"))
	require.NoError(t, err)

	sale.Items = []SaleItem{*line, *fee}
	sale.DiscountAmount = decimal.RequireFromString("5")
	sale.TaxAmount = decimal.RequireFromString("2")

	sale.RecalculateTotals()

	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("35")))
	// 35 - 5 + 2
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("32")))
}

func TestSale_CompletedEditRequiresAdmin(t *testing.T) {
	sale := newTestSale(t, SaleStatusCompleted)

	assert.False(t, sale.CanBeEditedBy(shared.Actor{Role: shared.RoleStaff}))
	assert.False(t, sale.CanBeEditedBy(shared.Actor{Role: shared.RoleManager}))
	assert.True(t, sale.CanBeEditedBy(shared.Actor{Role: shared.RoleAdmin}))

	open := newTestSale(t, SaleStatusOpen)
	assert.True(t, open.CanBeEditedBy(shared.Actor{Role: shared.RoleStaff}))
}

func TestNewSaleItem_InventoryFlagDefaults(t *testing.T) {
	saleID := uuid.New()
	itemID := uuid.New()

	product, err := NewSaleItem(saleID, &itemID, LineTypeProduct, decimal.RequireFromString("1"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.True(t, product.AffectsInventory)

	labor, err := NewSaleItem(saleID, nil, LineTypeLabor, decimal.RequireFromString("1"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.False(t, labor.AffectsInventory)

	// A stockable line without an item reference cannot move stock.
	orphan, err := NewSaleItem(saleID, nil, LineTypeProduct, decimal.RequireFromString("1"), decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.False(t, orphan.AffectsInventory)
	orphan.SetAffectsInventory(true)
	assert.False(t, orphan.AffectsInventory)
}
