package calculator

import (
	"GasSentinel/internal/model"
)

const (
	// ForecastSwapThreshold is the PSI jump that marks a cylinder swap for the forecaster.
	ForecastSwapThreshold = 500.0
	// PatternSwapThreshold is the coarser swap jump used by the pattern analysis.
	PatternSwapThreshold = 100.0
	// MaxDailyRate is the ceiling above which a daily rate is treated as a sensor anomaly.
	MaxDailyRate = 500.0
)

// EstimateConsumption derives the daily burn statistics of one room.
// readings must be the room's series in date order.
func EstimateConsumption(readings []model.Reading, swapThreshold float64) *model.ConsumptionHistory {
	h := &model.ConsumptionHistory{
		DailyRates: []float64{},
		SwapEvents: []model.SwapEvent{},
	}

	for i := 1; i < len(readings); i++ {
		prev, curr := readings[i-1], readings[i]
		days := DaysBetween(prev, curr)
		if days == 0 {
			continue
		}

		for _, ch := range model.Channels {
			p, c := prev.Meter(ch), curr.Meter(ch)
			if p == nil || c == nil {
				continue
			}
			if *c > *p+swapThreshold {
				h.SwapEvents = append(h.SwapEvents, model.SwapEvent{
					Date:        curr.Date,
					Channel:     ch,
					PreSwapPSI:  *p,
					PostSwapPSI: *c,
				})
				continue
			}
			rate := (*p - *c) / float64(days)
			if rate > 0 && rate < MaxDailyRate {
				h.DailyRates = append(h.DailyRates, rate)
			}
		}
	}

	h.AvgConsumption = Mean(h.DailyRates)
	h.StdConsumption = PopStdDev(h.DailyRates)
	h.MaxConsumption = Max(h.DailyRates)
	return h
}

// EstimateAll runs EstimateConsumption for every room.
func EstimateAll(byRoom map[string][]model.Reading, swapThreshold float64) map[string]*model.ConsumptionHistory {
	out := make(map[string]*model.ConsumptionHistory, len(byRoom))
	for room, series := range byRoom {
		out[room] = EstimateConsumption(series, swapThreshold)
	}
	return out
}

// DaysBetween returns the whole calendar days from a to b.
func DaysBetween(a, b model.Reading) int {
	return int(b.Date.Sub(a.Date).Hours() / 24)
}
