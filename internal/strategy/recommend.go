package strategy

import "GasSentinel/internal/model"

const (
	// CriticalPSI is the pressure below which a cylinder must be swapped.
	CriticalPSI = 500.0
	// NoDepletion is reported for days-until values when the room is not burning gas.
	NoDepletion = 999.0

	orderTodayDays = 2.0
	orderWeekDays  = 5.0
)

// Recommend maps the headline metrics to an ordering recommendation.
// The checks are evaluated in order; the first match wins.
func Recommend(currentPSI, daysUntilCritical float64, regime model.Regime) model.Recommendation {
	switch {
	case currentPSI < CriticalPSI:
		return model.RecSwapImmediately
	case daysUntilCritical < orderTodayDays:
		return model.RecOrderTodayUrgent
	case daysUntilCritical < orderWeekDays:
		return model.RecOrderThisWeek
	case regime == model.RegimeHighExperiment:
		return model.RecMonitorClosely
	default:
		return model.RecOKForNow
	}
}

// volatilityTag grades the prediction uncertainty.
func volatilityTag(uncertainty float64) model.Volatility {
	switch {
	case uncertainty > 100:
		return model.VolatilityHigh
	case uncertainty > 50:
		return model.VolatilityMedium
	default:
		return model.VolatilityLow
	}
}

func dayConfidence(uncertainty float64) model.Confidence {
	if uncertainty < 50 {
		return model.ConfidenceHigh
	}
	return model.ConfidenceLow
}
