package collector

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `Gas cylinder log,,,,,,,
Date,Item Description,Location,Quantity,Empty,Full,Meter Left,Meter Right
2024-03-04,Nitrogen UHP,292.0,4,1,2,1800,OFF
2024-03-05,Nitrogen UHP,292,4,1,2,1700,HALF
not a date,Nitrogen UHP,292,4,1,2,1600,
2024-03-05,Argon,,4,0,1,900,800
3/6/2024,Argon,310,,,,900,750.5
`

func TestParseRows_CSV(t *testing.T) {
	readings, err := loadCSV("sample.csv", strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}

	r0 := readings[0]
	if r0.Room != "292" || r0.GasType != "Nitrogen UHP" {
		t.Errorf("room/gas = %q/%q", r0.Room, r0.GasType)
	}
	if !r0.Date.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", r0.Date)
	}
	if r0.MeterLeft == nil || *r0.MeterLeft != 1800 || r0.MeterRight != nil {
		t.Errorf("meters = %v/%v", r0.MeterLeft, r0.MeterRight)
	}
	if r0.FullCount == nil || *r0.FullCount != 2 || r0.EmptyCount == nil || *r0.EmptyCount != 1 {
		t.Errorf("counts = %v/%v", r0.FullCount, r0.EmptyCount)
	}
	if readings[1].MeterRight != nil {
		t.Error("HALF should coerce to nil")
	}

	r2 := readings[2]
	if r2.Room != "310" || r2.TotalCapacity != nil || r2.FullCount != nil {
		t.Errorf("reading = %+v", r2)
	}
	if !r2.Date.Equal(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", r2.Date)
	}
	if r2.MeterRight == nil || *r2.MeterRight != 750.5 {
		t.Errorf("right meter = %v", r2.MeterRight)
	}
}

func TestParseRows_FormatErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no header", "Gas cylinder log\n"},
		{"short header", "log\nDate,Item Description,Location\n2024-03-04,N2,292\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadCSV(tt.name, strings.NewReader(tt.data))
			var fe *DataFormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected DataFormatError, got %v", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in string
		ok bool
	}{
		{"2024-03-04", true},
		{"2024-03-04 13:45:00", true},
		{"3/4/2024", true},
		{"45355", true},
		{"45355.5", true},
		{"", false},
		{"OFF", false},
		{"-3", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDate(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestNormalizeRoom(t *testing.T) {
	tests := []struct{ in, want string }{
		{"292.0", "292"},
		{" 292 ", "292"},
		{"B12", "B12"},
		{"292.5", "292.5"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeRoom(tt.in); got != tt.want {
			t.Errorf("normalizeRoom(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFloat_Sentinels(t *testing.T) {
	for _, s := range []string{"OFF", "HALF", "FULL", "", "  ", "NaN", "Inf", "n/a"} {
		if v := parseFloat(s); v != nil {
			t.Errorf("parseFloat(%q) = %v, want nil", s, *v)
		}
	}
	if v := parseFloat(" 1250.5 "); v == nil || *v != 1250.5 {
		t.Errorf("parseFloat = %v", v)
	}
}
