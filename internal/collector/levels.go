package collector

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"GasSentinel/internal/model"

	"github.com/xuri/excelize/v2"
)

// Column names of the simplified current-levels sheet.
var (
	levelsRequired = []string{"Room", "Gas_Type", "PSI"}
)

// LoadLevels reads the current-levels view (header on the first row).
// Room, Gas_Type and PSI are required; Full, Empty, Days_Remaining and
// Last_Updated are optional. Missing Days_Remaining is estimated as PSI/100.
func LoadLevels(path string) ([]model.CurrentLevel, error) {
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, formatErr(path, "open workbook", err)
		}
		defer f.Close()
		if rows, err = firstSheetRows(path, f); err != nil {
			return nil, err
		}
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, formatErr(path, "open file", err)
		}
		defer f.Close()
		if rows, err = readCSVRows(path, f); err != nil {
			return nil, err
		}
	default:
		return nil, formatErr(path, "unsupported file type (want .xlsx or .csv)", nil)
	}
	return parseLevels(path, rows)
}

func parseLevels(source string, rows [][]string) ([]model.CurrentLevel, error) {
	if len(rows) == 0 {
		return nil, formatErr(source, "missing header row", nil)
	}
	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range levelsRequired {
		if _, ok := idx[name]; !ok {
			return nil, formatErr(source, "missing required column: "+name, nil)
		}
	}

	get := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(cell(row, i))
	}

	levels := make([]model.CurrentLevel, 0, len(rows)-1)
	for _, row := range rows[1:] {
		room := normalizeRoom(get(row, "Room"))
		psi := parseFloat(get(row, "PSI"))
		if room == "" || psi == nil {
			continue
		}
		lvl := model.CurrentLevel{
			Room:        room,
			GasType:     get(row, "Gas_Type"),
			PSI:         *psi,
			Full:        parseInt(get(row, "Full")),
			Empty:       parseInt(get(row, "Empty")),
			LastUpdated: get(row, "Last_Updated"),
		}
		if d := parseFloat(get(row, "Days_Remaining")); d != nil {
			lvl.DaysRemaining = *d
		} else {
			lvl.DaysRemaining = math.Round(*psi/100*10) / 10
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}
