package inventory

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockops/backoffice/internal/domain/shared"
)

// BatchDeduction is the amount taken from a single lot during consumption
type BatchDeduction struct {
	BatchID        uuid.UUID
	DeductedAmount decimal.Decimal
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal
	RemainingInLot decimal.Decimal
}

// ConsumptionPlan is the full result of planning a FIFO consumption.
// WeightedUnitCost is the blended cost per unit across every lot
// touched, rounded to 4 decimal places.
type ConsumptionPlan struct {
	Deductions       []BatchDeduction
	TotalDeducted    decimal.Decimal
	TotalCost        decimal.Decimal
	WeightedUnitCost decimal.Decimal
	Unfulfilled      decimal.Decimal
}

// FullyFulfilled returns true if the whole requested quantity was covered
func (p *ConsumptionPlan) FullyFulfilled() bool {
	return p.Unfulfilled.IsZero()
}

// PlanFIFOConsumption decides which lots cover a requested quantity,
// oldest received first. The plan is computed without mutating the
// batches; ApplyConsumptionPlan commits it. A plan with Unfulfilled > 0
// means the location did not hold enough lot quantity and the caller
// must abort.
func PlanFIFOConsumption(requested decimal.Decimal, batches []StockBatch) (*ConsumptionPlan, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	sorted := make([]StockBatch, 0, len(batches))
	for _, b := range batches {
		if b.HasStock() {
			sorted = append(sorted, b)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].ReceivedAt.Equal(sorted[j].ReceivedAt) {
			return sorted[i].ReceivedAt.Before(sorted[j].ReceivedAt)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	deductions := make([]BatchDeduction, 0)
	remaining := requested
	totalDeducted := decimal.Zero
	totalCost := decimal.Zero

	for _, batch := range sorted {
		if remaining.IsZero() {
			break
		}

		deductAmount := decimal.Min(remaining, batch.QuantityRemaining)
		lotCost := deductAmount.Mul(batch.UnitCost)

		deductions = append(deductions, BatchDeduction{
			BatchID:        batch.ID,
			DeductedAmount: deductAmount,
			UnitCost:       batch.UnitCost,
			TotalCost:      lotCost,
			RemainingInLot: batch.QuantityRemaining.Sub(deductAmount),
		})

		totalDeducted = totalDeducted.Add(deductAmount)
		totalCost = totalCost.Add(lotCost)
		remaining = remaining.Sub(deductAmount)
	}

	var weightedUnitCost decimal.Decimal
	if totalDeducted.GreaterThan(decimal.Zero) {
		weightedUnitCost = totalCost.Div(totalDeducted).Round(4)
	}

	return &ConsumptionPlan{
		Deductions:       deductions,
		TotalDeducted:    totalDeducted,
		TotalCost:        totalCost,
		WeightedUnitCost: weightedUnitCost,
		Unfulfilled:      remaining,
	}, nil
}

// ApplyConsumptionPlan commits a plan against the live batch entities
func ApplyConsumptionPlan(batches []*StockBatch, plan *ConsumptionPlan) error {
	if plan == nil {
		return shared.NewDomainError("INVALID_PLAN", "Consumption plan cannot be nil")
	}

	byID := make(map[uuid.UUID]*StockBatch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}

	for _, d := range plan.Deductions {
		batch, ok := byID[d.BatchID]
		if !ok {
			return shared.NewDomainError("BATCH_NOT_FOUND", "Batch not found: "+d.BatchID.String())
		}
		deducted := batch.Deduct(d.DeductedAmount)
		if !deducted.Equal(d.DeductedAmount) {
			return shared.NewDomainError("DEDUCTION_MISMATCH", "Batch deduction amount mismatch")
		}
	}
	return nil
}

// TotalRemaining sums the remaining quantity across lots.
// Used by the reconciliation check against the stock position.
func TotalRemaining(batches []StockBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.QuantityRemaining)
	}
	return total
}
