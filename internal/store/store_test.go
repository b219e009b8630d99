package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"GasSentinel/internal/model"

	"github.com/shopspring/decimal"
)

func TestStore_SaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := New(dir)

	now := time.Date(2024, 3, 11, 7, 0, 0, 0, time.UTC)
	bundle := &model.ForecastBundle{
		GeneratedAt:   now,
		CriticalRooms: []string{"292"},
		OrderSchedule: []model.ScheduledOrder{{Room: "292", Urgency: model.UrgencyCritical, CurrentPSI: 480, DaysRemaining: -0.2}},
		RoomForecasts: map[string]*model.Forecast{"292": {Room: "292", CurrentPSI: 480, Recommendation: model.RecSwapImmediately}},
		Rooms:         []string{"292"},
	}
	plan := &model.ActionPlan{
		GeneratedAt:   now,
		Reallocations: []model.Reallocation{{From: "310", To: "292", GasType: "N2", Urgency: model.UrgencyHigh}},
		Savings:       model.Savings{TotalWeeklySavings: decimal.RequireFromString("1001.26")},
	}
	report := &model.ProblemReport{}

	if err := s.SaveAll(bundle, plan, report); err != nil {
		t.Fatalf("save: %v", err)
	}
	for _, name := range []string{ForecastFile, PlanFile, ReportFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, PlanFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"immediate_actions"`, `"monday_checklist"`, `"from": "310"`, `"to": "292"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("plan JSON missing %s", key)
		}
	}

	gotBundle, err := s.LoadBundle()
	if err != nil || gotBundle == nil {
		t.Fatalf("load bundle: %v", err)
	}
	if !gotBundle.GeneratedAt.Equal(now) || gotBundle.RoomForecasts["292"].Recommendation != model.RecSwapImmediately {
		t.Errorf("bundle = %+v", gotBundle)
	}

	gotPlan, err := s.LoadPlan()
	if err != nil || gotPlan == nil {
		t.Fatalf("load plan: %v", err)
	}
	if !gotPlan.Savings.TotalWeeklySavings.Equal(decimal.RequireFromString("1001.26")) {
		t.Errorf("savings = %s", gotPlan.Savings.TotalWeeklySavings)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := New(t.TempDir())
	b, err := s.LoadBundle()
	if err != nil || b != nil {
		t.Errorf("LoadBundle = %v, %v", b, err)
	}
	p, err := s.LoadPlan()
	if err != nil || p != nil {
		t.Errorf("LoadPlan = %v, %v", p, err)
	}
}
