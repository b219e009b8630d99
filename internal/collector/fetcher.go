package collector

import (
	"path/filepath"
	"strings"

	"GasSentinel/internal/model"
)

// Source defines the interface for loading the raw reading log.
type Source interface {
	Load() ([]model.Reading, error)
	Name() string
}

// NewFileSource picks a Source implementation from the file extension.
func NewFileSource(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewXLSXSource(path), nil
	case ".csv":
		return NewCSVSource(path), nil
	default:
		return nil, formatErr(path, "unsupported file type (want .xlsx or .csv)", nil)
	}
}

// MockSource returns fixed readings for development and testing.
type MockSource struct {
	Readings []model.Reading
	Err      error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Load() ([]model.Reading, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.Reading, len(m.Readings))
	copy(out, m.Readings)
	return out, nil
}
