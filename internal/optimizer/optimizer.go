// Package optimizer turns room forecasts and the inventory snapshot into the
// weekly action plan: orders, swaps, cross-room reallocations and savings.
package optimizer

import (
	"fmt"
	"log"
	"time"

	"GasSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// Costs holds the heuristic prices used by the savings estimate.
type Costs struct {
	StockoutCost      decimal.Decimal
	RentalPerDay      decimal.Decimal
	RentalDaysAvoided int
	UnitPrice         decimal.Decimal
	BatchDiscount     decimal.Decimal
}

// DefaultCosts returns the reference cost model.
func DefaultCosts() Costs {
	return Costs{
		StockoutCost:      decimal.NewFromInt(1000),
		RentalPerDay:      decimal.RequireFromString("0.09"),
		RentalDaysAvoided: 14,
		UnitPrice:         decimal.NewFromInt(50),
		BatchDiscount:     decimal.RequireFromString("0.10"),
	}
}

const (
	emergencyQuantity = 2
	volatileQuantity  = 2
	regularQuantity   = 1
	batchAfterDays    = 3.0
)

// Optimizer builds action plans. It never mutates the inputs.
type Optimizer struct {
	Costs Costs
}

// NewOptimizer creates an Optimizer with the given cost model.
func NewOptimizer(costs Costs) *Optimizer {
	return &Optimizer{Costs: costs}
}

// Optimize produces the action plan for the bundle's rooms.
func (o *Optimizer) Optimize(bundle *model.ForecastBundle, inventory map[string]model.InventorySnapshot, now time.Time) *model.ActionPlan {
	orders := o.GenerateOrders(bundle, inventory)
	reallocations := IdentifyReallocations(bundle, inventory)

	plan := &model.ActionPlan{
		GeneratedAt:      now,
		ImmediateActions: []model.OrderAction{},
		Reallocations:    reallocations,
		RoutineOrders:    []model.OrderAction{},
		Savings:          o.CalculateSavings(orders, reallocations),
		MondayChecklist:  []string{},
	}
	for _, a := range orders {
		switch a.Urgency {
		case model.UrgencyImmediate, model.UrgencyEmergency, model.UrgencyHigh:
			plan.ImmediateActions = append(plan.ImmediateActions, a)
		case model.UrgencyNormal:
			plan.RoutineOrders = append(plan.RoutineOrders, a)
		}
	}
	for _, a := range plan.ImmediateActions {
		plan.MondayChecklist = append(plan.MondayChecklist, fmt.Sprintf("✓ %s - %s", a.Action, a.Room))
	}
	return plan
}

// GenerateOrders proposes one action per room that needs gas, in bundle room order.
func (o *Optimizer) GenerateOrders(bundle *model.ForecastBundle, inventory map[string]model.InventorySnapshot) []model.OrderAction {
	var orders []model.OrderAction
	for _, room := range bundle.Rooms {
		fc := bundle.RoomForecasts[room]
		if fc == nil || fc.Failed() {
			continue
		}
		inv, ok := inventory[room]
		if !ok {
			log.Printf("[WARN] no inventory snapshot for room %s, skipping", room)
			continue
		}

		switch fc.Recommendation {
		case model.RecSwapImmediately:
			if inv.FullCylinders > 0 {
				orders = append(orders, model.OrderAction{
					Action:   model.ActionSwap,
					Room:     room,
					GasType:  inv.GasType,
					Quantity: 1,
					Urgency:  model.UrgencyImmediate,
					Reason:   fmt.Sprintf("Currently at %.1f PSI - Use spare cylinder", fc.CurrentPSI),
				})
			} else {
				orders = append(orders, model.OrderAction{
					Action:   model.ActionOrder,
					Room:     room,
					GasType:  inv.GasType,
					Quantity: emergencyQuantity,
					Urgency:  model.UrgencyEmergency,
					Reason:   fmt.Sprintf("CRITICAL: %.1f PSI, no spares available", fc.CurrentPSI),
				})
			}

		case model.RecOrderTodayUrgent, model.RecOrderThisWeek:
			qty := regularQuantity
			if fc.Volatility == model.VolatilityHigh {
				qty = volatileQuantity
			}
			day, urgency := model.OrderDayMonday, model.UrgencyHigh
			if fc.DaysUntilCritical > batchAfterDays {
				day, urgency = model.OrderDayThursday, model.UrgencyNormal
			}
			orders = append(orders, model.OrderAction{
				Action:   model.ActionOrder,
				Room:     room,
				GasType:  inv.GasType,
				Quantity: qty,
				OrderDay: day,
				Urgency:  urgency,
				Reason:   fmt.Sprintf("%.1f days until critical, burning %.0f PSI/day", fc.DaysUntilCritical, fc.AvgDailyBurn),
			})
		}
	}
	return orders
}
