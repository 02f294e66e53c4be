package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrDataSource matches any *DataSourceError via errors.Is
	ErrDataSource = errors.New("data source error")
	// ErrInvalidWeights matches any *InvalidWeightsError via errors.Is
	ErrInvalidWeights = errors.New("invalid weights")
)

// DataSourceError reports an unreadable dataset or one missing required columns.
// It is fatal at startup; there is no partial load.
type DataSourceError struct {
	Source string
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data source %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("data source %s: %s", e.Source, e.Reason)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// InvalidWeightsError reports a weight vector that cannot be normalized
type InvalidWeightsError struct {
	Weights WeightVector
	Reason  string
}

func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("invalid weights %s: %s", e.Weights, e.Reason)
}

func (e *InvalidWeightsError) Is(target error) bool { return target == ErrInvalidWeights }
