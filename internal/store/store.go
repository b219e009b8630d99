package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"GasSentinel/internal/model"
)

// Output document file names.
const (
	ForecastFile = "weekly_forecast.json"
	PlanFile     = "monday_action_plan.json"
	ReportFile   = "problem_report.json"
)

// Store writes and reads the output documents in one directory.
type Store struct {
	Dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// SaveAll writes the forecast bundle, action plan and problem report.
func (s *Store) SaveAll(bundle *model.ForecastBundle, plan *model.ActionPlan, report *model.ProblemReport) error {
	if err := SaveJSON(filepath.Join(s.Dir, ForecastFile), bundle); err != nil {
		return err
	}
	if err := SaveJSON(filepath.Join(s.Dir, PlanFile), plan); err != nil {
		return err
	}
	return SaveJSON(filepath.Join(s.Dir, ReportFile), report)
}

// LoadBundle reads the forecast bundle. Returns nil if the file doesn't exist.
func (s *Store) LoadBundle() (*model.ForecastBundle, error) {
	var b model.ForecastBundle
	ok, err := LoadJSON(filepath.Join(s.Dir, ForecastFile), &b)
	if err != nil || !ok {
		return nil, err
	}
	return &b, nil
}

// LoadPlan reads the action plan. Returns nil if the file doesn't exist.
func (s *Store) LoadPlan() (*model.ActionPlan, error) {
	var p model.ActionPlan
	ok, err := LoadJSON(filepath.Join(s.Dir, PlanFile), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// SaveJSON writes v as indented JSON, creating the parent directory.
func SaveJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON decodes path into v. It reports false when the file doesn't exist.
func LoadJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
