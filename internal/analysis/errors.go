package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSheets is returned when a workbook contains no sheet to analyse.
var ErrNoSheets = errors.New("tidak ada sheet yang ditemukan dalam file Excel")

// ValidationError reports a required column that is absent from the dataset.
type ValidationError struct {
	Column    string   `json:"column"`
	Available []string `json:"available_columns"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("kolom '%s' tidak ditemukan. Kolom yang tersedia: %s",
		e.Column, strings.Join(e.Available, ", "))
}

// EmptyResultError reports a vendor filter that matched no transaction.
type EmptyResultError struct {
	Vendor string `json:"vendor"`
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("tidak ada transaksi yang ditemukan untuk vendor: %s", e.Vendor)
}

// ComputationError wraps an unexpected failure raised while building an analysis.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

func missingColumn(column string, available []string) *ValidationError {
	cols := make([]string, len(available))
	copy(cols, available)
	return &ValidationError{Column: column, Available: cols}
}

var errRangeMismatch = errors.New("bin counts do not add up to the transaction count")
