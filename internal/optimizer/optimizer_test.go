package optimizer

import (
	"reflect"
	"testing"
	"time"

	"GasSentinel/internal/model"

	"github.com/shopspring/decimal"
)

var monday = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func bundleOf(forecasts ...*model.Forecast) *model.ForecastBundle {
	b := &model.ForecastBundle{
		GeneratedAt:   monday,
		RoomForecasts: map[string]*model.Forecast{},
	}
	for _, fc := range forecasts {
		b.Rooms = append(b.Rooms, fc.Room)
		b.RoomForecasts[fc.Room] = fc
	}
	return b
}

func inv(gas string, full int) model.InventorySnapshot {
	return model.InventorySnapshot{FullCylinders: full, GasType: gas, TotalCapacity: model.DefaultTotalCapacity}
}

func weeklyFixture() (*model.ForecastBundle, map[string]model.InventorySnapshot) {
	bundle := bundleOf(
		&model.Forecast{Room: "A", Regime: model.RegimeNormal, CurrentPSI: 450, DaysUntilCritical: -0.5, Recommendation: model.RecSwapImmediately},
		&model.Forecast{Room: "B", Regime: model.RegimeNormal, CurrentPSI: 450, DaysUntilCritical: -0.5, Recommendation: model.RecSwapImmediately},
		&model.Forecast{Room: "C", Regime: model.RegimeNormal, CurrentPSI: 650, AvgDailyBurn: 100, DaysUntilCritical: 1.5, Volatility: model.VolatilityLow, Recommendation: model.RecOrderTodayUrgent},
		&model.Forecast{Room: "D", Regime: model.RegimeNormal, CurrentPSI: 980, AvgDailyBurn: 120, DaysUntilCritical: 4, Volatility: model.VolatilityHigh, Recommendation: model.RecOrderThisWeek},
		&model.Forecast{Room: "E", Regime: model.RegimeNormal, CurrentPSI: 2000, DaysUntilCritical: 15, Recommendation: model.RecOKForNow},
		&model.Forecast{Room: "F", Error: "No historical data", Recommendation: model.RecOrderImmediately},
		&model.Forecast{Room: "G", Regime: model.RegimeNormal, CurrentPSI: 450, Recommendation: model.RecSwapImmediately},
		&model.Forecast{Room: "H", Regime: model.RegimeOff, CurrentPSI: 1800, DaysUntilCritical: NoForecastDays, Recommendation: model.RecOKForNow},
	)
	inventory := map[string]model.InventorySnapshot{
		"A": inv("Argon", 2),
		"B": inv("N2", 0),
		"C": inv("CO2", 1),
		"D": inv("CO2", 1),
		"E": inv("Argon", 1),
		"F": inv("He", 0),
		"H": inv("N2", 3),
	}
	return bundle, inventory
}

func TestGenerateOrders(t *testing.T) {
	bundle, inventory := weeklyFixture()
	orders := NewOptimizer(DefaultCosts()).GenerateOrders(bundle, inventory)

	want := []model.OrderAction{
		{Action: model.ActionSwap, Room: "A", GasType: "Argon", Quantity: 1, Urgency: model.UrgencyImmediate,
			Reason: "Currently at 450.0 PSI - Use spare cylinder"},
		{Action: model.ActionOrder, Room: "B", GasType: "N2", Quantity: 2, Urgency: model.UrgencyEmergency,
			Reason: "CRITICAL: 450.0 PSI, no spares available"},
		{Action: model.ActionOrder, Room: "C", GasType: "CO2", Quantity: 1, OrderDay: model.OrderDayMonday, Urgency: model.UrgencyHigh,
			Reason: "1.5 days until critical, burning 100 PSI/day"},
		{Action: model.ActionOrder, Room: "D", GasType: "CO2", Quantity: 2, OrderDay: model.OrderDayThursday, Urgency: model.UrgencyNormal,
			Reason: "4.0 days until critical, burning 120 PSI/day"},
	}
	if !reflect.DeepEqual(orders, want) {
		t.Errorf("orders mismatch\n got: %+v\nwant: %+v", orders, want)
	}
}

func TestOptimize_PartitionAndSavings(t *testing.T) {
	bundle, inventory := weeklyFixture()
	before := make(map[string]model.InventorySnapshot, len(inventory))
	for k, v := range inventory {
		before[k] = v
	}

	plan := NewOptimizer(DefaultCosts()).Optimize(bundle, inventory, monday)

	if !reflect.DeepEqual(inventory, before) {
		t.Error("optimizer mutated the inventory snapshot")
	}
	if !plan.GeneratedAt.Equal(monday) {
		t.Errorf("generated_at = %v", plan.GeneratedAt)
	}
	if len(plan.ImmediateActions) != 3 || len(plan.RoutineOrders) != 1 {
		t.Fatalf("immediate=%d routine=%d", len(plan.ImmediateActions), len(plan.RoutineOrders))
	}
	for _, a := range plan.ImmediateActions {
		switch a.Urgency {
		case model.UrgencyImmediate, model.UrgencyEmergency, model.UrgencyHigh:
		default:
			t.Errorf("immediate action with urgency %s", a.Urgency)
		}
	}
	if plan.RoutineOrders[0].Room != "D" {
		t.Errorf("routine order room = %s", plan.RoutineOrders[0].Room)
	}

	wantChecklist := []string{"✓ SWAP - A", "✓ ORDER - B", "✓ ORDER - C"}
	if !reflect.DeepEqual(plan.MondayChecklist, wantChecklist) {
		t.Errorf("checklist = %v", plan.MondayChecklist)
	}

	if len(plan.Reallocations) != 1 {
		t.Fatalf("reallocations = %+v", plan.Reallocations)
	}
	re := plan.Reallocations[0]
	if re.From != "H" || re.To != "B" || re.GasType != "N2" || re.Urgency != model.UrgencyHigh {
		t.Errorf("reallocation = %+v", re)
	}
	if re.Reason != "Donor has 2 spare, recipient at -0.5 days to critical" {
		t.Errorf("reason = %q", re.Reason)
	}

	s := plan.Savings
	if s.PreventedStockouts != 2 {
		t.Errorf("prevented = %d", s.PreventedStockouts)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"stockout", s.StockoutSavings, "2000"},
		{"rental", s.RentalSavings, "1.26"},
		{"batch", s.BatchSavings, "5"},
		{"total", s.TotalWeeklySavings, "2006.26"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s savings = %s, want %s", c.name, c.got, c.want)
		}
	}
}

func TestIdentifyReallocations_GreedyWithSafetyStock(t *testing.T) {
	bundle := bundleOf(
		&model.Forecast{Room: "donor", Regime: model.RegimeOff, DaysUntilCritical: NoForecastDays, Recommendation: model.RecOKForNow},
		&model.Forecast{Room: "busy", Regime: model.RegimeNormal, DaysUntilCritical: 20, Recommendation: model.RecOKForNow},
		&model.Forecast{Room: "r1", Regime: model.RegimeNormal, DaysUntilCritical: 3, Recommendation: model.RecOrderThisWeek},
		&model.Forecast{Room: "r2", Regime: model.RegimeNormal, DaysUntilCritical: 1, Recommendation: model.RecOrderTodayUrgent},
		&model.Forecast{Room: "r3", Regime: model.RegimeNormal, DaysUntilCritical: 0.5, Recommendation: model.RecOrderTodayUrgent},
	)
	inventory := map[string]model.InventorySnapshot{
		"donor": inv("N2", 2),
		"busy":  inv("N2", 4),
		"r1":    inv("N2", 0),
		"r2":    inv("N2", 0),
		"r3":    inv("Argon", 0),
	}

	got := IdentifyReallocations(bundle, inventory)
	if len(got) != 1 {
		t.Fatalf("expected 1 reallocation, got %+v", got)
	}
	if got[0].From != "donor" || got[0].To != "r2" || got[0].Urgency != model.UrgencyHigh {
		t.Errorf("reallocation = %+v", got[0])
	}
}

func TestIdentifyReallocations_MediumUrgency(t *testing.T) {
	bundle := bundleOf(
		&model.Forecast{Room: "idle", Regime: model.RegimeOff, Recommendation: model.RecOKForNow},
		&model.Forecast{Room: "lab", Regime: model.RegimeNormal, DaysUntilCritical: 3.2, Recommendation: model.RecOrderThisWeek},
	)
	inventory := map[string]model.InventorySnapshot{
		"idle": inv("CO2", 4),
		"lab":  inv("CO2", 0),
	}
	got := IdentifyReallocations(bundle, inventory)
	if len(got) != 1 || got[0].Urgency != model.UrgencyMedium {
		t.Errorf("got %+v", got)
	}
}

func TestIdentifyReallocations_None(t *testing.T) {
	got := IdentifyReallocations(bundleOf(), map[string]model.InventorySnapshot{})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCalculateSavings_Empty(t *testing.T) {
	s := NewOptimizer(DefaultCosts()).CalculateSavings(nil, nil)
	if s.PreventedStockouts != 0 || !s.TotalWeeklySavings.IsZero() {
		t.Errorf("expected zero savings, got %+v", s)
	}
}
