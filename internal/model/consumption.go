package model

import "time"

// SwapEvent marks a pressure jump caused by a physical cylinder replacement.
type SwapEvent struct {
	Date        time.Time `json:"date"`
	Channel     Channel   `json:"channel"`
	PreSwapPSI  float64   `json:"final_psi"`
	PostSwapPSI float64   `json:"new_psi"`
}

// ConsumptionHistory holds the per-room burn statistics derived from the full log.
type ConsumptionHistory struct {
	DailyRates     []float64   `json:"daily_rates"`
	SwapEvents     []SwapEvent `json:"swap_events"`
	AvgConsumption float64     `json:"avg_consumption"`
	StdConsumption float64     `json:"std_consumption"`
	MaxConsumption float64     `json:"max_consumption"`
}

// HasSamples reports whether any consumption rate survived filtering.
func (h *ConsumptionHistory) HasSamples() bool {
	return h != nil && len(h.DailyRates) > 0
}

// Regime classifies a room's short-window consumption behavior.
type Regime string

const (
	RegimeOff            Regime = "OFF"
	RegimeNormal         Regime = "NORMAL"
	RegimeHighExperiment Regime = "HIGH_EXPERIMENT"
	RegimeUnknown        Regime = "UNKNOWN"
)
