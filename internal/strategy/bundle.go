package strategy

import (
	"time"

	"GasSentinel/internal/model"
)

// BuildBundle assembles the weekly forecast document. forecasts keeps the
// room order that the optimizer will follow.
func BuildBundle(forecasts []*model.Forecast, generatedAt time.Time) *model.ForecastBundle {
	b := &model.ForecastBundle{
		GeneratedAt:   generatedAt,
		CriticalRooms: []string{},
		OrderSchedule: []model.ScheduledOrder{},
		RoomForecasts: make(map[string]*model.Forecast, len(forecasts)),
		Rooms:         make([]string, 0, len(forecasts)),
	}

	for _, fc := range forecasts {
		b.Rooms = append(b.Rooms, fc.Room)
		b.RoomForecasts[fc.Room] = fc

		switch fc.Recommendation {
		case model.RecSwapImmediately, model.RecOrderTodayUrgent:
			b.CriticalRooms = append(b.CriticalRooms, fc.Room)
			b.OrderSchedule = append(b.OrderSchedule, scheduled(fc, model.UrgencyCritical))
		case model.RecOrderThisWeek:
			b.OrderSchedule = append(b.OrderSchedule, scheduled(fc, model.UrgencyNormal))
		}
	}
	return b
}

func scheduled(fc *model.Forecast, urgency model.Urgency) model.ScheduledOrder {
	return model.ScheduledOrder{
		Room:          fc.Room,
		Urgency:       urgency,
		CurrentPSI:    fc.CurrentPSI,
		DaysRemaining: fc.DaysUntilCritical,
	}
}
