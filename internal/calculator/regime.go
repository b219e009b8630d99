package calculator

import "GasSentinel/internal/model"

const (
	// DefaultRegimeWindow is the number of trailing readings inspected.
	DefaultRegimeWindow = 7

	offRatio  = 0.2
	highRatio = 1.5
)

// DetectRegime classifies the room's trailing window against its own history.
// Any decrease on a channel counts as recent consumption; swaps are not filtered here.
func DetectRegime(readings []model.Reading, history *model.ConsumptionHistory, window int) model.Regime {
	if window <= 0 {
		window = DefaultRegimeWindow
	}
	if len(readings) > window {
		readings = readings[len(readings)-window:]
	}
	if len(readings) < 2 {
		return model.RegimeUnknown
	}

	var recent []float64
	for i := 1; i < len(readings); i++ {
		for _, ch := range model.Channels {
			p, c := readings[i-1].Meter(ch), readings[i].Meter(ch)
			if p == nil || c == nil {
				continue
			}
			if *c < *p {
				recent = append(recent, *p-*c)
			}
		}
	}
	if len(recent) == 0 {
		return model.RegimeOff
	}

	var historical float64
	if history != nil {
		historical = history.AvgConsumption
	}
	avg := Mean(recent)
	switch {
	case avg < historical*offRatio:
		return model.RegimeOff
	case avg > historical*highRatio:
		return model.RegimeHighExperiment
	default:
		return model.RegimeNormal
	}
}
