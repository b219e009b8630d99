package optimizer

import (
	"GasSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// CalculateSavings estimates the weekly value of the plan. The figures are a
// reporting heuristic only.
func (o *Optimizer) CalculateSavings(orders []model.OrderAction, reallocations []model.Reallocation) model.Savings {
	prevented, batched := 0, 0
	for _, a := range orders {
		if a.Urgency == model.UrgencyImmediate || a.Urgency == model.UrgencyEmergency {
			prevented++
		}
		if a.OrderDay == model.OrderDayThursday {
			batched++
		}
	}

	stockout := o.Costs.StockoutCost.Mul(decimal.NewFromInt(int64(prevented)))
	rental := o.Costs.RentalPerDay.
		Mul(decimal.NewFromInt(int64(o.Costs.RentalDaysAvoided))).
		Mul(decimal.NewFromInt(int64(len(reallocations))))
	batch := o.Costs.UnitPrice.
		Mul(o.Costs.BatchDiscount).
		Mul(decimal.NewFromInt(int64(batched)))

	return model.Savings{
		PreventedStockouts: prevented,
		StockoutSavings:    stockout.Round(2),
		RentalSavings:      rental.Round(2),
		BatchSavings:       batch.Round(2),
		TotalWeeklySavings: stockout.Add(rental).Add(batch).Round(2),
	}
}
