package pipeline

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"GasSentinel/internal/collector"
	"GasSentinel/internal/model"
	"GasSentinel/internal/optimizer"
)

var monday = time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC)

func psi(v float64) *float64 { return &v }
func count(n int) *int       { return &n }

// sampleReadings builds two rooms: "292" burns 100 PSI/day down to 700 with
// no spares, "310" has been idle for a week with three full cylinders.
func sampleReadings() []model.Reading {
	var out []model.Reading
	for d := 0; d < 8; d++ {
		out = append(out, model.Reading{
			Date:      monday.AddDate(0, 0, d-8).Truncate(24 * time.Hour),
			Room:      "292",
			GasType:   "Nitrogen",
			MeterLeft: psi(1500 - 100*float64(d)),
			FullCount: count(0),
		})
	}
	for d := 0; d < 8; d++ {
		out = append(out, model.Reading{
			Date:      monday.AddDate(0, 0, d-8).Truncate(24 * time.Hour),
			Room:      "310",
			GasType:   "Nitrogen",
			MeterLeft: psi(1500),
			FullCount: count(3),
		})
	}
	// One earlier burn so the idle room has history.
	out = append(out, model.Reading{Date: monday.AddDate(0, 0, -9).Truncate(24 * time.Hour), Room: "310", GasType: "Nitrogen", MeterLeft: psi(1600)})
	return out
}

func newTestPipeline(rooms []string) *Pipeline {
	return New(Options{
		Rooms:        rooms,
		Costs:        optimizer.DefaultCosts(),
		RentalPerDay: 0.09,
		Now:          func() time.Time { return monday },
	})
}

func TestRun_EndToEnd(t *testing.T) {
	p := newTestPipeline(nil)
	res, err := p.RunSource(&collector.MockSource{Readings: sampleReadings()})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	fc := res.Bundle.RoomForecasts["292"]
	if fc == nil || fc.Failed() {
		t.Fatalf("forecast 292 = %+v", fc)
	}
	if fc.CurrentPSI != 800 || fc.AvgDailyBurn != 100 || fc.DaysUntilCritical != 3 {
		t.Errorf("forecast 292 = %+v", fc)
	}
	if fc.Recommendation != model.RecOrderThisWeek {
		t.Errorf("recommendation = %s", fc.Recommendation)
	}

	idle := res.Bundle.RoomForecasts["310"]
	if idle.Regime != model.RegimeOff {
		t.Errorf("regime 310 = %s", idle.Regime)
	}

	if len(res.Plan.ImmediateActions) != 1 || res.Plan.ImmediateActions[0].Room != "292" {
		t.Errorf("immediate actions = %+v", res.Plan.ImmediateActions)
	}
	if len(res.Plan.Reallocations) != 1 || res.Plan.Reallocations[0].From != "310" || res.Plan.Reallocations[0].To != "292" {
		t.Errorf("reallocations = %+v", res.Plan.Reallocations)
	}
	if !res.Plan.GeneratedAt.Equal(monday) || !res.Bundle.GeneratedAt.Equal(monday) {
		t.Error("documents should carry the injected clock")
	}
	if res.Report == nil {
		t.Fatal("missing problem report")
	}
}

func TestRun_Idempotent(t *testing.T) {
	p := newTestPipeline(nil)
	ds := collector.NewDataset(sampleReadings())

	first, err := json.Marshal(p.Run(ds))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(p.Run(ds))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("repeated runs over the same dataset differ")
	}
}

func TestRun_RoomFilter(t *testing.T) {
	p := newTestPipeline([]string{"310", "999"})
	res := p.Run(collector.NewDataset(sampleReadings()))

	if len(res.Bundle.Rooms) != 2 || res.Bundle.Rooms[0] != "310" || res.Bundle.Rooms[1] != "999" {
		t.Errorf("rooms = %v", res.Bundle.Rooms)
	}
	if _, ok := res.Bundle.RoomForecasts["292"]; ok {
		t.Error("filtered room was forecast")
	}
	missing := res.Bundle.RoomForecasts["999"]
	if missing == nil || !errors.Is(missing.Err(), model.ErrNoHistory) {
		t.Errorf("unknown room forecast = %+v", missing)
	}
}

func TestRun_MissingRoomJSONHasNoMetrics(t *testing.T) {
	p := newTestPipeline([]string{"999"})
	res := p.Run(collector.NewDataset(sampleReadings()))

	data, err := json.Marshal(res.Bundle.RoomForecasts["999"])
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"current_psi", "avg_daily_burn", "days_until_critical", "days_until_empty", "regime", "forecast"} {
		if _, ok := got[key]; ok {
			t.Errorf("error forecast carries %q: %s", key, data)
		}
	}
	if got["room"] != "999" || got["error"] == nil || got["recommendation"] != string(model.RecOrderImmediately) {
		t.Errorf("error forecast = %s", data)
	}

	bundle, err := json.Marshal(res.Bundle)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(bundle), `"days_until_critical":0`) {
		t.Errorf("bundle exposes zero metrics: %s", bundle)
	}
}

func TestRunSource_FormatError(t *testing.T) {
	p := newTestPipeline(nil)
	_, err := p.RunSource(&collector.ReaderSource{Label: "empty"})
	var fe *collector.DataFormatError
	if !errors.As(err, &fe) {
		t.Errorf("expected DataFormatError, got %v", err)
	}
}
