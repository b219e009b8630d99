package optimizer

import (
	"fmt"
	"sort"

	"GasSentinel/internal/model"
)

// NoForecastDays stands in for days-until-critical of rooms without a usable forecast.
const NoForecastDays = 999.0

const (
	recipientDays    = 5.0
	highUrgencyDays  = 2.0
	donorSafetyStock = 1
)

type donor struct {
	room      string
	gasType   string
	available int
}

type recipient struct {
	room    string
	gasType string
	days    float64
}

// IdentifyReallocations matches idle rooms holding spare full cylinders with
// rooms that have none and will reach the critical level soon. Matching is
// exact on gas type and greedy, most urgent recipient first. Unmatched
// recipients are left out.
func IdentifyReallocations(bundle *model.ForecastBundle, inventory map[string]model.InventorySnapshot) []model.Reallocation {
	rooms := make([]string, 0, len(inventory))
	for room := range inventory {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	var donors []donor
	var recipients []recipient
	for _, room := range rooms {
		inv := inventory[room]
		fc := bundle.RoomForecasts[room]
		regime, days := model.Regime(""), NoForecastDays
		if fc != nil && !fc.Failed() {
			regime, days = fc.Regime, fc.DaysUntilCritical
		}

		if inv.FullCylinders > donorSafetyStock && regime == model.RegimeOff {
			donors = append(donors, donor{
				room:      room,
				gasType:   inv.GasType,
				available: inv.FullCylinders - donorSafetyStock,
			})
		}
		if inv.FullCylinders == 0 && days < recipientDays {
			recipients = append(recipients, recipient{room: room, gasType: inv.GasType, days: days})
		}
	}

	sort.SliceStable(recipients, func(i, j int) bool {
		return recipients[i].days < recipients[j].days
	})

	reallocations := []model.Reallocation{}
	for _, r := range recipients {
		for i := range donors {
			d := &donors[i]
			if d.gasType != r.gasType || d.available <= 0 {
				continue
			}
			urgency := model.UrgencyMedium
			if r.days < highUrgencyDays {
				urgency = model.UrgencyHigh
			}
			reallocations = append(reallocations, model.Reallocation{
				From:    d.room,
				To:      r.room,
				GasType: d.gasType,
				Urgency: urgency,
				Reason:  fmt.Sprintf("Donor has %d spare, recipient at %.1f days to critical", d.available, r.days),
			})
			d.available--
			break
		}
	}
	return reallocations
}
