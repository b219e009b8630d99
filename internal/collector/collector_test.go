package collector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"GasSentinel/internal/model"

	"github.com/xuri/excelize/v2"
)

func psi(v float64) *float64 { return &v }
func count(n int) *int       { return &n }

var day0 = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestNewDataset_GroupsAndSorts(t *testing.T) {
	readings := []model.Reading{
		{Date: day0.AddDate(0, 0, 2), Room: "310", GasType: "Argon", MeterLeft: psi(800)},
		{Date: day0.AddDate(0, 0, 1), Room: "292", GasType: "N2", MeterLeft: psi(1700), FullCount: count(1)},
		{Date: day0, Room: "292", GasType: "N2", MeterLeft: psi(1800), FullCount: count(2), EmptyCount: count(1)},
		{Date: day0.AddDate(0, 0, 1), Room: "292", GasType: "N2", MeterLeft: psi(1690), TotalCapacity: count(6)},
	}
	ds := NewDataset(readings)

	if ds.Source != InMemorySource {
		t.Errorf("source = %q, want %q", ds.Source, InMemorySource)
	}
	if len(ds.Rooms) != 2 || ds.Rooms[0] != "310" || ds.Rooms[1] != "292" {
		t.Errorf("rooms = %v", ds.Rooms)
	}
	series := ds.ByRoom["292"]
	if len(series) != 3 {
		t.Fatalf("series len = %d", len(series))
	}
	if *series[0].MeterLeft != 1800 || *series[1].MeterLeft != 1700 || *series[2].MeterLeft != 1690 {
		t.Errorf("series not date ordered with stable duplicates: %v %v %v",
			*series[0].MeterLeft, *series[1].MeterLeft, *series[2].MeterLeft)
	}

	inv := ds.Inventory["292"]
	want := model.InventorySnapshot{FullCylinders: 1, EmptyCylinders: 1, GasType: "N2", TotalCapacity: 6}
	if inv != want {
		t.Errorf("inventory = %+v, want %+v", inv, want)
	}
	if ds.Inventory["310"].TotalCapacity != model.DefaultTotalCapacity {
		t.Errorf("default capacity = %d", ds.Inventory["310"].TotalCapacity)
	}
}

func TestCollect_MockSource(t *testing.T) {
	src := &MockSource{Readings: []model.Reading{{Date: day0, Room: "292", MeterLeft: psi(1000)}}}
	ds, err := NewCollector(src).Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if ds.Source != "mock" || len(ds.Readings) != 1 {
		t.Errorf("dataset = %+v", ds)
	}

	boom := errors.New("boom")
	_, err = NewCollector(&MockSource{Err: boom}).Collect()
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func writeWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cellRef, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
}

func TestFileSource_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.xlsx")
	writeWorkbook(t, path, [][]interface{}{
		{"Gas cylinder log"},
		{"Date", "Item Description", "Location", "Quantity", "Empty", "Full", "Meter Left", "Meter Right"},
		{45355, "Nitrogen UHP", 292, 4, 1, 2, 1800, "OFF"},
		{"2024-03-05", "Nitrogen UHP", "292", 4, 1, 2, 1700.5, 900},
		{"", "Nitrogen UHP", "292", 4, 1, 2, 1600, 850},
	})

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("file source: %v", err)
	}
	ds, err := NewCollector(src).Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	series := ds.ByRoom["292"]
	if len(series) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(series))
	}
	if !series[0].Date.Equal(day0) {
		t.Errorf("serial date = %v", series[0].Date)
	}
	if series[0].MeterRight != nil || *series[1].MeterLeft != 1700.5 {
		t.Errorf("meters = %+v", series)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	uploaded, err := (&ReaderSource{Label: "upload", Data: data}).Load()
	if err != nil {
		t.Fatalf("reader source: %v", err)
	}
	if len(uploaded) != 2 {
		t.Errorf("upload readings = %d", len(uploaded))
	}
}

func TestFileSource_Errors(t *testing.T) {
	var fe *DataFormatError

	if _, err := NewFileSource("readings.json"); !errors.As(err, &fe) {
		t.Errorf("unsupported extension: %v", err)
	}

	src, err := NewFileSource(filepath.Join(t.TempDir(), "missing.xlsx"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Load(); !errors.As(err, &fe) {
		t.Errorf("missing file: %v", err)
	}

	if _, err := (&ReaderSource{Label: "empty"}).Load(); !errors.As(err, &fe) {
		t.Errorf("empty upload: %v", err)
	}
}

func TestLoadLevels(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "levels.csv")
	data := "Room,Gas_Type,PSI,Full,Empty,Days_Remaining,Last_Updated\n" +
		"292.0,Nitrogen,1850,2,1,,2024-03-04\n" +
		"310,Argon,620,0,3,1.5,2024-03-04\n" +
		",Argon,700,,,,\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	levels, err := LoadLevels(path)
	if err != nil {
		t.Fatalf("load levels: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %+v", levels)
	}
	if levels[0].Room != "292" || levels[0].DaysRemaining != 18.5 || *levels[0].Full != 2 {
		t.Errorf("level 0 = %+v", levels[0])
	}
	if levels[1].DaysRemaining != 1.5 || levels[1].LastUpdated != "2024-03-04" {
		t.Errorf("level 1 = %+v", levels[1])
	}

	bad := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(bad, []byte("Room,PSI\n292,1000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadLevels(bad)
	var fe *DataFormatError
	if !errors.As(err, &fe) || fe.Reason != "missing required column: Gas_Type" {
		t.Errorf("expected missing column error, got %v", err)
	}
}
