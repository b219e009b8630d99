package strategy

import (
	"time"

	"GasSentinel/internal/calculator"
	"GasSentinel/internal/model"
)

const (
	// DefaultHorizon is the number of days projected forward.
	DefaultHorizon = 7

	offUncertainty = 10.0
	weekendFactor  = 0.5
)

// Forecaster projects each room's pressure forward.
type Forecaster struct {
	Now          func() time.Time
	Horizon      int
	RegimeWindow int
}

// NewForecaster creates a Forecaster with the default horizon and regime window.
// A nil clock falls back to time.Now.
func NewForecaster(now func() time.Time) *Forecaster {
	if now == nil {
		now = time.Now
	}
	return &Forecaster{
		Now:          now,
		Horizon:      DefaultHorizon,
		RegimeWindow: calculator.DefaultRegimeWindow,
	}
}

// Forecast builds the forecast of one room. readings is the room's date
// ordered series. Rooms without consumption samples get the error variant.
func (f *Forecaster) Forecast(room string, readings []model.Reading, history *model.ConsumptionHistory) *model.Forecast {
	if !history.HasSamples() || len(readings) == 0 {
		return &model.Forecast{
			Room:           room,
			Error:          "No historical data",
			Recommendation: model.RecOrderImmediately,
		}
	}

	regime := calculator.DetectRegime(readings, history, f.RegimeWindow)
	current := CurrentPSI(readings[len(readings)-1])

	var daily, uncertainty float64
	switch regime {
	case model.RegimeOff:
		daily, uncertainty = 0, offUncertainty
	case model.RegimeHighExperiment:
		// Use the maximum observed rate for safety.
		daily, uncertainty = history.MaxConsumption, history.StdConsumption
	default:
		daily, uncertainty = history.AvgConsumption, history.StdConsumption
	}

	horizon := f.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	now := f.Now()
	days := make([]model.DayProjection, 0, horizon)
	cumulative := 0.0
	for day := 1; day <= horizon; day++ {
		// The projection always accumulates the full rate; the weekend
		// factor only changes the displayed expected consumption.
		cumulative += daily
		date := now.AddDate(0, 0, day)
		dayConsumption := daily
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			dayConsumption = daily * weekendFactor
		}
		days = append(days, model.DayProjection{
			Day:                  day,
			Date:                 date.Format("2006-01-02"),
			ExpectedConsumption:  calculator.Round1(dayConsumption),
			WorstCaseConsumption: calculator.Round1(dayConsumption + 2*uncertainty),
			PredictedPSI:         calculator.Round1(current - cumulative),
			Confidence:           dayConfidence(uncertainty),
		})
	}

	untilCritical, untilEmpty := NoDepletion, NoDepletion
	if daily > 0 {
		untilCritical = (current - CriticalPSI) / daily
		untilEmpty = current / daily
	}

	return &model.Forecast{
		Room:              room,
		Regime:            regime,
		CurrentPSI:        calculator.Round1(current),
		AvgDailyBurn:      calculator.Round1(daily),
		Volatility:        volatilityTag(uncertainty),
		DaysUntilCritical: calculator.Round1(untilCritical),
		DaysUntilEmpty:    calculator.Round1(untilEmpty),
		Days:              days,
		Recommendation:    Recommend(current, untilCritical, regime),
	}
}

// CurrentPSI is the higher of the two meters; a missing meter counts as 0.
func CurrentPSI(r model.Reading) float64 {
	psi := 0.0
	for _, ch := range model.Channels {
		if v := r.Meter(ch); v != nil && *v > psi {
			psi = *v
		}
	}
	return psi
}
