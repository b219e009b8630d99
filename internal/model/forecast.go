package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoHistory marks a room without usable consumption samples.
var ErrNoHistory = errors.New("no historical data")

// Volatility tags how uncertain a room's burn prediction is.
type Volatility string

const (
	VolatilityLow    Volatility = "LOW"
	VolatilityMedium Volatility = "MEDIUM"
	VolatilityHigh   Volatility = "HIGH"
)

// Confidence is the per-day projection confidence.
type Confidence string

const (
	ConfidenceHigh Confidence = "HIGH"
	ConfidenceLow  Confidence = "LOW"
)

// Recommendation is the ordering advice attached to a forecast.
type Recommendation string

const (
	RecSwapImmediately  Recommendation = "SWAP_IMMEDIATELY"
	RecOrderTodayUrgent Recommendation = "ORDER_TODAY_URGENT"
	RecOrderThisWeek    Recommendation = "ORDER_THIS_WEEK"
	RecMonitorClosely   Recommendation = "MONITOR_CLOSELY"
	RecOKForNow         Recommendation = "OK_FOR_NOW"
	RecOrderImmediately Recommendation = "ORDER_IMMEDIATELY" // rooms without usable history
)

// DayProjection is one day of a room's forward projection.
type DayProjection struct {
	Day                  int        `json:"day"`
	Date                 string     `json:"date"`
	ExpectedConsumption  float64    `json:"expected_consumption"`
	WorstCaseConsumption float64    `json:"worst_case_consumption"`
	PredictedPSI         float64    `json:"predicted_psi"`
	Confidence           Confidence `json:"confidence"`
}

// Forecast is the per-room forecast result. A non-empty Error marks the
// degraded variant, which carries only Room, Error and Recommendation.
type Forecast struct {
	Room              string          `json:"room"`
	Error             string          `json:"error,omitempty"`
	Regime            Regime          `json:"regime,omitempty"`
	CurrentPSI        float64         `json:"current_psi"`
	AvgDailyBurn      float64         `json:"avg_daily_burn"`
	Volatility        Volatility      `json:"volatility,omitempty"`
	DaysUntilCritical float64         `json:"days_until_critical"`
	DaysUntilEmpty    float64         `json:"days_until_empty"`
	Days              []DayProjection `json:"forecast,omitempty"`
	Recommendation    Recommendation  `json:"recommendation"`
}

// Failed reports whether this is the error variant.
func (f *Forecast) Failed() bool {
	return f.Error != ""
}

// MarshalJSON emits only room, error and recommendation for the error
// variant so that zero metrics are never read as real values.
func (f Forecast) MarshalJSON() ([]byte, error) {
	if f.Failed() {
		return json.Marshal(struct {
			Room           string         `json:"room"`
			Error          string         `json:"error"`
			Recommendation Recommendation `json:"recommendation"`
		}{f.Room, f.Error, f.Recommendation})
	}
	type plain Forecast
	return json.Marshal(plain(f))
}

// Err returns ErrNoHistory for the error variant and nil otherwise.
func (f *Forecast) Err() error {
	if f.Failed() {
		return fmt.Errorf("room %s: %w", f.Room, ErrNoHistory)
	}
	return nil
}

// Urgency labels used across the forecast bundle and the action plan.
type Urgency string

const (
	UrgencyCritical  Urgency = "CRITICAL"
	UrgencyImmediate Urgency = "IMMEDIATE"
	UrgencyEmergency Urgency = "EMERGENCY"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyMedium    Urgency = "MEDIUM"
	UrgencyNormal    Urgency = "NORMAL"
)

// ScheduledOrder is an entry of the bundle's order schedule.
type ScheduledOrder struct {
	Room          string  `json:"room"`
	Urgency       Urgency `json:"urgency"`
	CurrentPSI    float64 `json:"current_psi"`
	DaysRemaining float64 `json:"days_remaining"`
}

// ForecastBundle is the weekly forecast document.
type ForecastBundle struct {
	GeneratedAt   time.Time            `json:"generated_at"`
	CriticalRooms []string             `json:"critical_rooms"`
	OrderSchedule []ScheduledOrder     `json:"order_schedule"`
	RoomForecasts map[string]*Forecast `json:"room_forecasts"`
	Rooms         []string             `json:"rooms"`
}
