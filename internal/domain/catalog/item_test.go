package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem_Validation(t *testing.T) {
	_, err := NewItem("", "Widget", "", ItemTypeProduct, PricingModeManual)
	assert.Error(t, err)

	_, err = NewItem("SKU-1", "  ", "", ItemTypeProduct, PricingModeManual)
	assert.Error(t, err)

	_, err = NewItem("SKU-1", "Widget", "", ItemType("OTHER"), PricingModeManual)
	assert.Error(t, err)

	item, err := NewItem("SKU-1", "Widget", "W-100", ItemTypeProduct, "")
	require.NoError(t, err)
	assert.Equal(t, PricingModeManual, item.PricingMode)
	assert.True(t, item.Active)
}

func TestItem_RefreshCost_ManualModeKeepsPrice(t *testing.T) {
	item, err := NewItem("SKU-1", "Widget", "", ItemTypeProduct, PricingModeManual)
	require.NoError(t, err)
	item.Price = decimal.RequireFromString("99")

	changed := item.RefreshCost(decimal.RequireFromString("40"))

	assert.False(t, changed)
	assert.True(t, item.Cost.Equal(decimal.RequireFromString("40")))
	assert.True(t, item.Price.Equal(decimal.RequireFromString("99")))
	assert.Nil(t, item.PriceUpdatedAt)
}

func TestItem_RefreshCost_MarginPercentRecomputesPrice(t *testing.T) {
	item, err := NewItem("SKU-2", "Widget", "", ItemTypeSparePart, PricingModeMarginPercent)
	require.NoError(t, err)
	item.MarginPercent = decimal.RequireFromString("25")

	changed := item.RefreshCost(decimal.RequireFromString("40"))

	assert.True(t, changed)
	// 40 * 1.25
	assert.True(t, item.Price.Equal(decimal.RequireFromString("50")), "got %s", item.Price)
	assert.NotNil(t, item.PriceUpdatedAt)
}

func TestItem_RefreshCost_UnchangedPriceDoesNotBumpTimestamp(t *testing.T) {
	item, err := NewItem("SKU-3", "Widget", "", ItemTypeProduct, PricingModeMarginPercent)
	require.NoError(t, err)
	item.MarginPercent = decimal.RequireFromString("10")
	item.Price = decimal.RequireFromString("11")

	changed := item.RefreshCost(decimal.RequireFromString("10"))

	assert.False(t, changed)
	assert.Nil(t, item.PriceUpdatedAt)
}

func TestItem_MatchesName(t *testing.T) {
	item, err := NewItem("SKU-4", "Air Filter", "AF-20", ItemTypeSparePart, PricingModeManual)
	require.NoError(t, err)

	assert.True(t, item.MatchesName("air filter", "af-20"))
	assert.True(t, item.MatchesName(" Air Filter ", "AF-20"))
	assert.False(t, item.MatchesName("Air Filter", "AF-21"))
}
