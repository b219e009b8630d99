package notifier

import (
	"fmt"
	"html"
	"strings"

	"GasSentinel/internal/model"
)

const gasNameWidth = 20

// FormatActionPlan formats the Monday action plan into a Telegram message.
func FormatActionPlan(plan *model.ActionPlan) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🧪 <b>GasSentinel Monday plan</b> | %s\n\n", plan.GeneratedAt.Format("2006-01-02")))

	b.WriteString("🚨 <b>Immediate actions:</b>\n")
	if len(plan.ImmediateActions) == 0 {
		b.WriteString("  none\n")
	}
	for _, a := range plan.ImmediateActions {
		if a.Action == model.ActionSwap {
			b.WriteString(fmt.Sprintf("  - SWAP cylinder in %s NOW - %s\n", esc(a.Room), esc(a.Reason)))
		} else {
			b.WriteString(fmt.Sprintf("  - ORDER %d %s for %s - %s\n", a.Quantity, esc(short(a.GasType)), esc(a.Room), esc(a.Reason)))
		}
	}

	if len(plan.Reallocations) > 0 {
		b.WriteString("\n🔄 <b>Reallocations:</b>\n")
		for _, r := range plan.Reallocations {
			b.WriteString(fmt.Sprintf("  - Move 1 %s from %s to %s (%s)\n", esc(short(r.GasType)), esc(r.From), esc(r.To), r.Urgency))
		}
	}

	if len(plan.RoutineOrders) > 0 {
		b.WriteString("\n📋 <b>Routine orders (batch Thursday):</b>\n")
		for _, a := range plan.RoutineOrders {
			b.WriteString(fmt.Sprintf("  - Order %d %s for %s - %s\n", a.Quantity, esc(short(a.GasType)), esc(a.Room), esc(a.Reason)))
		}
	}

	s := plan.Savings
	b.WriteString("\n💰 <b>Weekly savings:</b>\n")
	b.WriteString(fmt.Sprintf("  Prevented stockouts: %d ($%s)\n", s.PreventedStockouts, s.StockoutSavings.StringFixed(2)))
	b.WriteString(fmt.Sprintf("  Rental optimization: $%s\n", s.RentalSavings.StringFixed(2)))
	b.WriteString(fmt.Sprintf("  Batch discount: $%s\n", s.BatchSavings.StringFixed(2)))
	b.WriteString(fmt.Sprintf("  Total: $%s\n", s.TotalWeeklySavings.StringFixed(2)))
	return b.String()
}

// FormatForecastSummary formats one line per forecast room.
func FormatForecastSummary(bundle *model.ForecastBundle) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>Adaptive forecast</b> | %s\n\n", bundle.GeneratedAt.Format("2006-01-02 15:04")))
	for _, room := range bundle.Rooms {
		fc := bundle.RoomForecasts[room]
		if fc == nil {
			continue
		}
		if fc.Failed() {
			b.WriteString(fmt.Sprintf("%s: %s → %s\n", esc(room), esc(fc.Error), fc.Recommendation))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %.0f PSI, %s, %.1f PSI/day, %s days to critical → %s\n",
			esc(room), fc.CurrentPSI, fc.Regime, fc.AvgDailyBurn, days(fc.DaysUntilCritical), fc.Recommendation))
	}
	b.WriteString(fmt.Sprintf("\nCritical rooms: %d | Orders this week: %d\n", len(bundle.CriticalRooms), len(bundle.OrderSchedule)))
	return b.String()
}

// FormatCriticalAlert formats the weekday alert for rooms needing attention now.
// It returns "" when no room is critical.
func FormatCriticalAlert(bundle *model.ForecastBundle) string {
	if len(bundle.CriticalRooms) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>%d room(s) need attention</b>\n\n", len(bundle.CriticalRooms)))
	for _, o := range bundle.OrderSchedule {
		if o.Urgency != model.UrgencyCritical {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s: %.0f PSI, %s days to critical\n", esc(o.Room), o.CurrentPSI, days(o.DaysRemaining)))
	}
	return b.String()
}

// FormatProblemSummary formats the historical problem report.
func FormatProblemSummary(report *model.ProblemReport) string {
	var b strings.Builder
	s := report.Summary
	b.WriteString("🔎 <b>Problem analysis</b>\n\n")
	b.WriteString(fmt.Sprintf("Critical violations: %d\n", s.CriticalViolations))
	b.WriteString(fmt.Sprintf("Total violations: %d\n", s.TotalViolations))
	b.WriteString(fmt.Sprintf("Estimated disruption cost: $%.0f\n", s.TotalIncidentCost))
	b.WriteString(fmt.Sprintf("Monthly rental waste: $%.2f\n", s.MonthlyRentalWaste))
	if w := report.WorstIncident; w != nil {
		b.WriteString(fmt.Sprintf("\nWorst incident: %s at %.0f PSI on %s\n", esc(w.Room), w.PSI, w.Date))
	}

	n := len(report.CriticalIncidents)
	if n > 5 {
		n = 5
	}
	if n > 0 {
		b.WriteString("\nTop incidents:\n")
	}
	for i, in := range report.CriticalIncidents[:n] {
		b.WriteString(fmt.Sprintf("  %d. %s: %s - %.0f PSI (%s)\n", i+1, in.Date, esc(in.Room), in.PSI, esc(truncate(in.GasType, 30))))
	}
	return b.String()
}

func days(v float64) string {
	if v >= 999 {
		return "∞"
	}
	return fmt.Sprintf("%.1f", v)
}

func short(gas string) string {
	return truncate(gas, gasNameWidth)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func esc(s string) string {
	return html.EscapeString(s)
}
