package collector

import (
	"fmt"
	"log"
	"sort"

	"GasSentinel/internal/model"
)

// InMemorySource names datasets built directly from readings.
const InMemorySource = "in-memory readings"

// Dataset is the cleaned reading log, grouped per room in date order.
type Dataset struct {
	Source    string
	Readings  []model.Reading
	Rooms     []string // first-appearance order in the source
	ByRoom    map[string][]model.Reading
	Inventory map[string]model.InventorySnapshot
}

// Collector loads a reading source and prepares the per-room series.
type Collector struct {
	Source Source
}

// NewCollector creates a new Collector.
func NewCollector(source Source) *Collector {
	return &Collector{Source: source}
}

// Collect loads the source and builds the dataset. A *DataFormatError from
// the source aborts the run.
func (c *Collector) Collect() (*Dataset, error) {
	readings, err := c.Source.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.Source.Name(), err)
	}
	ds := NewDataset(readings)
	ds.Source = c.Source.Name()
	log.Printf("[INFO] dataset %s: %d readings across %d rooms", ds.Source, len(ds.Readings), len(ds.Rooms))
	return ds, nil
}

// NewDataset groups readings by room and orders each room's series by date.
// Same-day duplicates keep their source order.
func NewDataset(readings []model.Reading) *Dataset {
	ds := &Dataset{
		Source:    InMemorySource,
		ByRoom:    make(map[string][]model.Reading),
		Inventory: make(map[string]model.InventorySnapshot),
	}
	for _, r := range readings {
		if _, ok := ds.ByRoom[r.Room]; !ok {
			ds.Rooms = append(ds.Rooms, r.Room)
		}
		ds.ByRoom[r.Room] = append(ds.ByRoom[r.Room], r)
	}
	for _, room := range ds.Rooms {
		series := ds.ByRoom[room]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].Date.Before(series[j].Date)
		})
		ds.Readings = append(ds.Readings, series...)
		ds.Inventory[room] = latestInventory(series)
	}
	return ds
}

// latestInventory takes, per column, the last non-null value of the room's series.
func latestInventory(series []model.Reading) model.InventorySnapshot {
	inv := model.InventorySnapshot{TotalCapacity: model.DefaultTotalCapacity}
	for _, r := range series {
		if r.FullCount != nil {
			inv.FullCylinders = *r.FullCount
		}
		if r.EmptyCount != nil {
			inv.EmptyCylinders = *r.EmptyCount
		}
		if r.GasType != "" {
			inv.GasType = r.GasType
		}
		if r.TotalCapacity != nil {
			inv.TotalCapacity = *r.TotalCapacity
		}
	}
	return inv
}
