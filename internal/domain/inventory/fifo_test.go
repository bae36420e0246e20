package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBatch(t *testing.T, itemID, locationID uuid.UUID, receivedAt time.Time, qty, cost string) *StockBatch {
	t.Helper()
	batch, err := NewStockBatch(
		itemID, locationID, receivedAt,
		decimal.RequireFromString(qty),
		decimal.RequireFromString(cost),
		"",
	)
	require.NoError(t, err)
	return batch
}

func TestPlanFIFOConsumption_OldestFirst(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	b1 := makeBatch(t, itemID, locationID, base, "5", "10.00")
	b2 := makeBatch(t, itemID, locationID, base.Add(48*time.Hour), "10", "12.00")

	// Listed newest first on purpose; the planner must reorder.
	plan, err := PlanFIFOConsumption(decimal.RequireFromString("8"), []StockBatch{*b2, *b1})
	require.NoError(t, err)

	require.Len(t, plan.Deductions, 2)
	assert.Equal(t, b1.ID, plan.Deductions[0].BatchID)
	assert.True(t, plan.Deductions[0].DeductedAmount.Equal(decimal.RequireFromString("5")))
	assert.Equal(t, b2.ID, plan.Deductions[1].BatchID)
	assert.True(t, plan.Deductions[1].DeductedAmount.Equal(decimal.RequireFromString("3")))

	// (5*10 + 3*12) / 8 = 10.75
	assert.True(t, plan.WeightedUnitCost.Equal(decimal.RequireFromString("10.75")),
		"expected 10.75, got %s", plan.WeightedUnitCost)
	assert.True(t, plan.TotalCost.Equal(decimal.RequireFromString("86")))
	assert.True(t, plan.FullyFulfilled())
}

func TestPlanFIFOConsumption_TieBrokenByCreation(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	receivedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	first := makeBatch(t, itemID, locationID, receivedAt, "3", "5.00")
	second := makeBatch(t, itemID, locationID, receivedAt, "3", "7.00")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)

	plan, err := PlanFIFOConsumption(decimal.RequireFromString("3"), []StockBatch{*second, *first})
	require.NoError(t, err)

	require.Len(t, plan.Deductions, 1)
	assert.Equal(t, first.ID, plan.Deductions[0].BatchID)
}

func TestPlanFIFOConsumption_Shortfall(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	b := makeBatch(t, itemID, locationID, time.Now(), "4", "9.00")

	plan, err := PlanFIFOConsumption(decimal.RequireFromString("10"), []StockBatch{*b})
	require.NoError(t, err)

	assert.False(t, plan.FullyFulfilled())
	assert.True(t, plan.Unfulfilled.Equal(decimal.RequireFromString("6")))
	assert.True(t, plan.TotalDeducted.Equal(decimal.RequireFromString("4")))
}

func TestPlanFIFOConsumption_SkipsDepletedLots(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	empty := makeBatch(t, itemID, locationID, base, "5", "8.00")
	empty.Deduct(decimal.RequireFromString("5"))
	live := makeBatch(t, itemID, locationID, base.Add(time.Hour), "5", "9.00")

	plan, err := PlanFIFOConsumption(decimal.RequireFromString("2"), []StockBatch{*empty, *live})
	require.NoError(t, err)

	require.Len(t, plan.Deductions, 1)
	assert.Equal(t, live.ID, plan.Deductions[0].BatchID)
	assert.True(t, plan.WeightedUnitCost.Equal(decimal.RequireFromString("9")))
}

func TestPlanFIFOConsumption_RejectsNonPositive(t *testing.T) {
	_, err := PlanFIFOConsumption(decimal.Zero, nil)
	assert.Error(t, err)

	_, err = PlanFIFOConsumption(decimal.RequireFromString("-1"), nil)
	assert.Error(t, err)
}

func TestApplyConsumptionPlan(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	b1 := makeBatch(t, itemID, locationID, base, "5", "10.00")
	b2 := makeBatch(t, itemID, locationID, base.Add(time.Hour), "10", "12.00")

	plan, err := PlanFIFOConsumption(decimal.RequireFromString("8"), []StockBatch{*b1, *b2})
	require.NoError(t, err)

	require.NoError(t, ApplyConsumptionPlan([]*StockBatch{b1, b2}, plan))
	assert.True(t, b1.QuantityRemaining.IsZero())
	assert.True(t, b1.IsDepleted())
	assert.True(t, b2.QuantityRemaining.Equal(decimal.RequireFromString("7")))

	// QuantityReceived never moves.
	assert.True(t, b1.QuantityReceived.Equal(decimal.RequireFromString("5")))
	assert.True(t, b2.QuantityReceived.Equal(decimal.RequireFromString("10")))
}

func TestTotalRemaining(t *testing.T) {
	itemID := uuid.New()
	locationID := uuid.New()
	b1 := makeBatch(t, itemID, locationID, time.Now(), "5", "1.00")
	b2 := makeBatch(t, itemID, locationID, time.Now(), "2.5", "1.00")

	total := TotalRemaining([]StockBatch{*b1, *b2})
	assert.True(t, total.Equal(decimal.RequireFromString("7.5")))
}
