package dataset

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/aristath/growthmap/internal/domain"
)

// XLSXSource reads one sheet of an Excel workbook; row 1 is the header
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource creates a workbook source. An empty sheet selects the first one.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Name returns the workbook path and sheet
func (s *XLSXSource) Name() string {
	if s.sheet == "" {
		return s.path
	}
	return fmt.Sprintf("%s[%s]", s.path, s.sheet)
}

// Read loads the sheet
func (s *XLSXSource) Read(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.Name(), Reason: "open workbook", Err: err}
	}
	defer f.Close()

	return readWorkbook(s.Name(), f, s.sheet)
}

// readXLSX decodes a workbook held in memory
func readXLSX(name string, r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &domain.DataSourceError{Source: name, Reason: "open workbook", Err: err}
	}
	defer f.Close()

	return readWorkbook(name, f, sheet)
}

func readWorkbook(name string, f *excelize.File, sheet string) (*Table, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &domain.DataSourceError{Source: name, Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &domain.DataSourceError{Source: name, Reason: fmt.Sprintf("read sheet %q", sheet), Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.DataSourceError{Source: name, Reason: fmt.Sprintf("sheet %q is empty", sheet)}
	}

	return tableFromRecords(name, rows[0], rows[1:])
}
