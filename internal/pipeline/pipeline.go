// Package pipeline runs the full analysis over one reading log: consumption
// estimation, regime detection, forecasting, order optimization and the
// historical problem report.
package pipeline

import (
	"fmt"
	"log"
	"time"

	"GasSentinel/internal/analysis"
	"GasSentinel/internal/calculator"
	"GasSentinel/internal/collector"
	"GasSentinel/internal/model"
	"GasSentinel/internal/optimizer"
	"GasSentinel/internal/strategy"
)

// Result bundles the three output documents of one run.
type Result struct {
	Bundle *model.ForecastBundle
	Plan   *model.ActionPlan
	Report *model.ProblemReport
}

// Options configures a Pipeline.
type Options struct {
	Horizon      int
	Rooms        []string // restricts forecasting to these rooms; empty means all
	Costs        optimizer.Costs
	RentalPerDay float64
	Now          func() time.Time
}

// Pipeline is safe to run repeatedly; given the same dataset and clock it
// returns identical documents.
type Pipeline struct {
	Forecaster *strategy.Forecaster
	Optimizer  *optimizer.Optimizer
	Analyzer   *analysis.Analyzer
	Rooms      []string
	Now        func() time.Time
}

// New creates a Pipeline sharing one clock between every stage.
func New(opts Options) *Pipeline {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	fc := strategy.NewForecaster(now)
	if opts.Horizon > 0 {
		fc.Horizon = opts.Horizon
	}
	return &Pipeline{
		Forecaster: fc,
		Optimizer:  optimizer.NewOptimizer(opts.Costs),
		Analyzer:   analysis.NewAnalyzer(opts.RentalPerDay),
		Rooms:      opts.Rooms,
		Now:        now,
	}
}

// Run analyses a loaded dataset.
func (p *Pipeline) Run(ds *collector.Dataset) *Result {
	now := p.Now()
	histories := calculator.EstimateAll(ds.ByRoom, calculator.ForecastSwapThreshold)

	rooms := p.selectRooms(ds)
	forecasts := make([]*model.Forecast, 0, len(rooms))
	for _, room := range rooms {
		fc := p.Forecaster.Forecast(room, ds.ByRoom[room], histories[room])
		if err := fc.Err(); err != nil {
			log.Printf("[WARN] forecast degraded: %v", err)
		}
		forecasts = append(forecasts, fc)
	}

	bundle := strategy.BuildBundle(forecasts, now)
	return &Result{
		Bundle: bundle,
		Plan:   p.Optimizer.Optimize(bundle, ds.Inventory, now),
		Report: p.Analyzer.Report(ds),
	}
}

// RunSource loads the source and analyses it. Load failures abort the run.
func (p *Pipeline) RunSource(src collector.Source) (*Result, error) {
	ds, err := collector.NewCollector(src).Collect()
	if err != nil {
		return nil, err
	}
	return p.Run(ds), nil
}

// RunFile analyses the reading log at path.
func (p *Pipeline) RunFile(path string) (*Result, error) {
	src, err := collector.NewFileSource(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return p.RunSource(src)
}

func (p *Pipeline) selectRooms(ds *collector.Dataset) []string {
	if len(p.Rooms) == 0 {
		return ds.Rooms
	}
	for _, room := range p.Rooms {
		if _, ok := ds.ByRoom[room]; !ok {
			log.Printf("[WARN] room %s not present in %s", room, ds.Source)
		}
	}
	return p.Rooms
}
