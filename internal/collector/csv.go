package collector

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"

	"GasSentinel/internal/model"
)

// CSVSource reads the reading log from a comma separated export of the sheet.
type CSVSource struct {
	Path string
}

// NewCSVSource creates a new CSV source.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Name() string { return s.Path }

func (s *CSVSource) Load() ([]model.Reading, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, formatErr(s.Path, "open file", err)
	}
	defer f.Close()
	return loadCSV(s.Path, f)
}

func loadCSV(name string, r io.Reader) ([]model.Reading, error) {
	rows, err := readCSVRows(name, r)
	if err != nil {
		return nil, err
	}
	return parseRows(name, rows)
}

func readCSVRows(name string, r io.Reader) ([][]string, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, formatErr(name, "read csv", err)
	}
	return rows, nil
}

// ReaderSource loads an uploaded file held in memory. Zip content is treated
// as an xlsx workbook, anything else as CSV.
type ReaderSource struct {
	Label string
	Data  []byte
}

func (s *ReaderSource) Name() string { return s.Label }

func (s *ReaderSource) Load() ([]model.Reading, error) {
	if len(s.Data) == 0 {
		return nil, formatErr(s.Label, "empty upload", nil)
	}
	if bytes.HasPrefix(s.Data, []byte("PK\x03\x04")) {
		return loadXLSX(s.Label, bytes.NewReader(s.Data))
	}
	return loadCSV(s.Label, bytes.NewReader(s.Data))
}
