// Package analysis inspects the historical log for low-pressure incidents,
// idle rented cylinders and coarse per-room consumption patterns.
package analysis

import (
	"math"
	"sort"

	"GasSentinel/internal/calculator"
	"GasSentinel/internal/collector"
	"GasSentinel/internal/model"
)

const (
	criticalPSI     = 500.0
	severePSI       = 300.0
	severeCost      = 1000.0
	warningCost     = 500.0
	maxReported     = 20
	idleGapDays     = 3
	idleMinDays     = 7
	gasNameMaxRunes = 30
	highPatternStd  = 50.0
	monthsInReport  = 3
)

// Analyzer produces the problem report.
type Analyzer struct {
	RentalPerDay float64
}

// NewAnalyzer creates an Analyzer charging rentalPerDay per idle cylinder.
func NewAnalyzer(rentalPerDay float64) *Analyzer {
	return &Analyzer{RentalPerDay: rentalPerDay}
}

// Report runs every analysis over the dataset.
func (a *Analyzer) Report(ds *collector.Dataset) *model.ProblemReport {
	incidents := FindIncidents(ds.Readings)
	waste := a.RentalWaste(ds)
	patterns := ConsumptionPatterns(ds)

	var incidentCost, wasteCost float64
	critical := 0
	for _, in := range incidents {
		incidentCost += in.EstimatedCost
		if in.Severity == model.SeverityCritical {
			critical++
		}
	}
	for _, w := range waste {
		wasteCost += w.WastedRentalCost
	}

	report := &model.ProblemReport{
		Summary: model.ProblemSummary{
			TotalViolations:      len(incidents),
			CriticalViolations:   critical,
			TotalIncidentCost:    incidentCost,
			MonthlyRentalWaste:   roundCents(wasteCost / monthsInReport),
			TotalPreventableCost: incidentCost + wasteCost,
		},
		CriticalIncidents:   incidents,
		RentalWaste:         waste,
		ConsumptionPatterns: patterns,
	}
	if len(report.CriticalIncidents) > maxReported {
		report.CriticalIncidents = report.CriticalIncidents[:maxReported]
	}
	if len(incidents) > 0 {
		worst := incidents[0]
		report.WorstIncident = &worst
	}
	return report
}

// FindIncidents lists every meter reading between 0 and the critical level,
// lowest pressure first.
func FindIncidents(readings []model.Reading) []model.Incident {
	incidents := []model.Incident{}
	for _, r := range readings {
		for _, ch := range model.Channels {
			v := r.Meter(ch)
			if v == nil || *v <= 0 || *v >= criticalPSI {
				continue
			}
			in := model.Incident{
				Date:          r.Date.Format("2006-01-02"),
				Room:          r.Room,
				GasType:       r.GasType,
				Meter:         ch,
				PSI:           *v,
				Severity:      model.SeverityWarning,
				EstimatedCost: warningCost,
			}
			if *v < severePSI {
				in.Severity = model.SeverityCritical
				in.EstimatedCost = severeCost
			}
			if in.GasType == "" {
				in.GasType = "Unknown"
			}
			incidents = append(incidents, in)
		}
	}
	sort.SliceStable(incidents, func(i, j int) bool {
		if incidents[i].PSI != incidents[j].PSI {
			return incidents[i].PSI < incidents[j].PSI
		}
		return incidents[i].Date < incidents[j].Date
	})
	return incidents
}

type wasteKey struct {
	room string
	gas  string
}

// RentalWaste finds full cylinders that sat untouched for more than a week.
// Gaps of up to three days (weekends) keep a run alive as long as the full
// count is unchanged.
func (a *Analyzer) RentalWaste(ds *collector.Dataset) []model.RentalWaste {
	groups := make(map[wasteKey][]model.Reading)
	var keys []wasteKey
	for _, room := range ds.Rooms {
		for _, r := range ds.ByRoom[room] {
			if r.GasType == "" {
				continue
			}
			k := wasteKey{room: room, gas: r.GasType}
			if _, ok := groups[k]; !ok {
				keys = append(keys, k)
			}
			groups[k] = append(groups[k], r)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].room != keys[j].room {
			return keys[i].room < keys[j].room
		}
		return keys[i].gas < keys[j].gas
	})

	out := []model.RentalWaste{}
	for _, k := range keys {
		series := groups[k]
		run, maxRun, lastFull := 0, 0, 0
		for i, r := range series {
			full := 0
			if r.FullCount != nil {
				full = *r.FullCount
			}
			if full <= 0 {
				run = 0
				continue
			}
			if i > 0 {
				gap := calculator.DaysBetween(series[i-1], r)
				if gap <= idleGapDays && full == lastFull {
					run += gap
				} else {
					run = 1
				}
			} else {
				run = 1
			}
			lastFull = full
			if run > maxRun {
				maxRun = run
			}
		}
		if maxRun > idleMinDays && lastFull > 0 {
			out = append(out, model.RentalWaste{
				Room:             k.room,
				Gas:              truncateRunes(k.gas, gasNameMaxRunes),
				UnusedCylinders:  lastFull,
				DaysUnused:       maxRun,
				WastedRentalCost: roundCents(float64(maxRun) * a.RentalPerDay * float64(lastFull)),
			})
		}
	}
	return out
}

// ConsumptionPatterns summarises left-meter usage per room using the coarse
// pattern swap threshold.
func ConsumptionPatterns(ds *collector.Dataset) map[string]model.ConsumptionPattern {
	patterns := make(map[string]model.ConsumptionPattern)
	for _, room := range ds.Rooms {
		series := ds.ByRoom[room]
		var rates []float64
		for i := 1; i < len(series); i++ {
			p, c := series[i-1].MeterLeft, series[i].MeterLeft
			if p == nil || c == nil {
				continue
			}
			if *c > *p+calculator.PatternSwapThreshold {
				continue
			}
			burn := *p - *c
			if burn <= 0 {
				continue
			}
			if days := calculator.DaysBetween(series[i-1], series[i]); days > 0 {
				rates = append(rates, burn/float64(days))
			}
		}
		if len(rates) == 0 {
			continue
		}
		vol := model.VolatilityLow
		if calculator.PopStdDev(rates) > highPatternStd {
			vol = model.VolatilityHigh
		}
		patterns[room] = model.ConsumptionPattern{
			AvgDailyConsumption: calculator.Round1(calculator.Mean(rates)),
			MaxDailyConsumption: calculator.Round1(calculator.Max(rates)),
			Volatility:          vol,
		}
	}
	return patterns
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
