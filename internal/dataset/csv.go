package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/aristath/growthmap/internal/domain"
)

// CSVSource reads a comma-separated file with a header row
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV source for a local file
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name returns the file path
func (s *CSVSource) Name() string { return s.path }

// Read parses the whole file
func (s *CSVSource) Read(ctx context.Context) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, &domain.DataSourceError{Source: s.path, Reason: "open", Err: err}
	}
	defer f.Close()

	return readCSV(s.path, f)
}

// readCSV loads every column as text through a dataframe so that NA markers
// are detected uniformly, then converts the required columns.
func readCSV(name string, r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, &domain.DataSourceError{Source: name, Reason: "parse csv", Err: df.Err}
	}

	names := df.Names()
	if err := requireColumns(name, names); err != nil {
		return nil, err
	}

	// Header cells may carry stray whitespace; map canonical names to actual ones
	actual := make(map[string]string, len(names))
	for _, n := range names {
		if _, seen := actual[strings.TrimSpace(n)]; !seen {
			actual[strings.TrimSpace(n)] = n
		}
	}

	columns := make(map[string][]string, len(RequiredColumns))
	for _, col := range RequiredColumns {
		s := df.Col(actual[col])
		if s.Err != nil {
			return nil, &domain.DataSourceError{Source: name, Reason: fmt.Sprintf("read column %q", col), Err: s.Err}
		}
		values := s.Records()
		for i, nan := range s.IsNaN() {
			if nan {
				values[i] = ""
			}
		}
		columns[col] = values
	}

	n := df.Nrow()

	// Any empty cell drops the row, including columns the explorer never reads
	incomplete := make([]bool, n)
	for _, col := range names {
		for i, nan := range df.Col(col).IsNaN() {
			if nan {
				incomplete[i] = true
			}
		}
	}

	table := &Table{Source: name, Rows: make([]Row, 0, n)}
	for i := 0; i < n; i++ {
		row := rowFromCells(func(col string) string {
			return columns[col][i]
		})
		row.Incomplete = incomplete[i]
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
