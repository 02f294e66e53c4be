package dataset

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aristath/growthmap/internal/domain"
)

// Source reads the raw company table
type Source interface {
	// Name identifies the source in logs and errors
	Name() string
	// Read loads the entire table; it is called once per session
	Read(ctx context.Context) (*Table, error)
}

// Options selects and configures a source
type Options struct {
	Path  string // local file or s3://bucket/key
	Sheet string // xlsx sheet; first sheet when empty
	Table string // sqlite table; "companies" when empty
	S3    S3Options
}

// Format is the on-disk encoding of a dataset
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// DetectFormat infers the format from a file name or object key
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unsupported dataset format %q", path.Ext(name))
	}
}

// NewSource returns the source matching opts.Path
func NewSource(opts Options) (Source, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, &domain.DataSourceError{Source: "<empty>", Reason: "dataset path is not configured"}
	}

	if strings.HasPrefix(opts.Path, "s3://") {
		return NewS3Source(opts)
	}

	format, err := DetectFormat(opts.Path)
	if err != nil {
		return nil, &domain.DataSourceError{Source: opts.Path, Reason: "detect format", Err: err}
	}

	switch format {
	case FormatXLSX:
		return NewXLSXSource(opts.Path, opts.Sheet), nil
	case FormatSQLite:
		return NewSQLiteSource(opts.Path, opts.Table), nil
	default:
		return NewCSVSource(opts.Path), nil
	}
}

// asDataSourceError wraps err unless it already is a DataSourceError
func asDataSourceError(source string, err error) error {
	var dsErr *domain.DataSourceError
	if errors.As(err, &dsErr) {
		return err
	}
	return &domain.DataSourceError{Source: source, Reason: "read", Err: err}
}
