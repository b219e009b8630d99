package collector

import (
	"io"

	"GasSentinel/internal/model"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads the reading log from the first sheet of an Excel workbook.
type XLSXSource struct {
	Path string
}

// NewXLSXSource creates a new Excel source.
func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{Path: path}
}

func (s *XLSXSource) Name() string { return s.Path }

func (s *XLSXSource) Load() ([]model.Reading, error) {
	f, err := excelize.OpenFile(s.Path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, formatErr(s.Path, "open workbook", err)
	}
	defer f.Close()
	return readWorkbook(s.Path, f)
}

func loadXLSX(name string, r io.Reader) ([]model.Reading, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, formatErr(name, "open workbook", err)
	}
	defer f.Close()
	return readWorkbook(name, f)
}

func readWorkbook(name string, f *excelize.File) ([]model.Reading, error) {
	rows, err := firstSheetRows(name, f)
	if err != nil {
		return nil, err
	}
	return parseRows(name, rows)
}

func firstSheetRows(name string, f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, formatErr(name, "workbook has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, formatErr(name, "read sheet "+sheets[0], err)
	}
	return rows, nil
}
