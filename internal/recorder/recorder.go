package recorder

import (
	"time"

	"GasSentinel/internal/model"

	"github.com/google/uuid"
)

// RunRecord describes one pipeline run.
type RunRecord struct {
	ID            uuid.UUID
	Source        string
	Trigger       string // "WEEKLY", "DAILY", "MANUAL", "API"
	GeneratedAt   time.Time
	Rooms         int
	CriticalRooms int
	Actions       int
	TotalSavings  string
}

// NewRunID returns a fresh run identifier.
func NewRunID() uuid.UUID {
	return uuid.New()
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordForecasts(runID uuid.UUID, bundle *model.ForecastBundle) error
	RecordPlan(runID uuid.UUID, plan *model.ActionPlan) error
	Close() error
}

// NewRunRecord summarises a run's documents.
func NewRunRecord(source, trigger string, bundle *model.ForecastBundle, plan *model.ActionPlan) *RunRecord {
	return &RunRecord{
		ID:            NewRunID(),
		Source:        source,
		Trigger:       trigger,
		GeneratedAt:   bundle.GeneratedAt,
		Rooms:         len(bundle.Rooms),
		CriticalRooms: len(bundle.CriticalRooms),
		Actions:       len(plan.ImmediateActions) + len(plan.RoutineOrders) + len(plan.Reallocations),
		TotalSavings:  plan.Savings.TotalWeeklySavings.StringFixed(2),
	}
}
