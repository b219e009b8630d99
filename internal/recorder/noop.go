package recorder

import (
	"GasSentinel/internal/model"

	"github.com/google/uuid"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunRecord) error                               { return nil }
func (n *NoopRecorder) RecordForecasts(_ uuid.UUID, _ *model.ForecastBundle) error { return nil }
func (n *NoopRecorder) RecordPlan(_ uuid.UUID, _ *model.ActionPlan) error          { return nil }
func (n *NoopRecorder) Close() error                                               { return nil }
