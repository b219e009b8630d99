package collector

import (
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"GasSentinel/internal/model"

	"github.com/xuri/excelize/v2"
)

// Fixed column positions of the reading log. One descriptive row precedes the header.
const (
	colDate = iota
	colItemDescription
	colLocation
	colQuantity
	colEmpty
	colFull
	colMeterLeft
	colMeterRight

	requiredColumns = colMeterRight + 1
	headerRow       = 1
	firstDataRow    = 2
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/06",
	"2006/01/02",
	"Jan 2, 2006",
	"2-Jan-2006",
}

// parseRows converts the raw sheet rows into readings. Rows without a valid
// date or room are dropped.
func parseRows(source string, rows [][]string) ([]model.Reading, error) {
	if len(rows) <= headerRow {
		return nil, formatErr(source, "missing header row", nil)
	}
	if header := rows[headerRow]; len(header) < requiredColumns {
		return nil, formatErr(source, "header must have date, item description, location, quantity, empty, full, meter-left and meter-right columns", nil)
	}

	readings := make([]model.Reading, 0, len(rows)-firstDataRow)
	dropped := 0
	for _, row := range rows[firstDataRow:] {
		date, ok := parseDate(cell(row, colDate))
		if !ok {
			dropped++
			continue
		}
		room := normalizeRoom(cell(row, colLocation))
		if room == "" {
			dropped++
			continue
		}
		readings = append(readings, model.Reading{
			Date:          date,
			Room:          room,
			GasType:       strings.TrimSpace(cell(row, colItemDescription)),
			MeterLeft:     parseFloat(cell(row, colMeterLeft)),
			MeterRight:    parseFloat(cell(row, colMeterRight)),
			FullCount:     parseInt(cell(row, colFull)),
			EmptyCount:    parseInt(cell(row, colEmpty)),
			TotalCapacity: parseInt(cell(row, colQuantity)),
		})
	}

	log.Printf("[INFO] %s: loaded %d readings, dropped %d rows", source, len(readings), dropped)
	return readings, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// parseDate accepts Excel serial dates and common text layouts, truncated to the calendar day.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return truncateDay(t), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return truncateDay(t), true
		}
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// normalizeRoom turns numeric room cells such as "292.0" into "292".
func normalizeRoom(s string) string {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

// parseFloat coerces non-numeric cells ("OFF", "HALF", "FULL", blanks) to nil.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseInt(s string) *int {
	f := parseFloat(s)
	if f == nil {
		return nil
	}
	n := int(math.Trunc(*f))
	return &n
}
