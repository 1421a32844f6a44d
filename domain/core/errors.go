package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input errors
	ErrInputNotFound   = errors.New("input file not found")
	ErrUnsupportedType = errors.New("unsupported input file type")
	ErrEmptyDataset    = errors.New("dataset has no data rows")

	// Schema errors
	ErrSchemaMismatch = errors.New("schema mismatch")
	ErrMissingColumn  = fmt.Errorf("%w: missing column", ErrSchemaMismatch)
	ErrUnknownLevel   = fmt.Errorf("%w: unknown level", ErrSchemaMismatch)
	ErrNotNumeric     = fmt.Errorf("%w: non-numeric value", ErrSchemaMismatch)
	ErrWrongKind      = fmt.Errorf("%w: wrong column kind", ErrSchemaMismatch)

	// Modeling errors
	ErrInvalidFormula = errors.New("invalid formula")
	ErrMissingLevel   = errors.New("baseline level not observed")
	ErrRankDeficient  = errors.New("design matrix is rank deficient")

	// Report errors
	ErrDocumentClosed = errors.New("report document already closed")
)

// Error constructors with context
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w %q", ErrMissingColumn, column)
}

func NewUnknownLevelError(column, value string, row int) error {
	return fmt.Errorf("%w %q in column %s (row %d)", ErrUnknownLevel, value, column, row)
}

func NewNotNumericError(column, value string, row int) error {
	return fmt.Errorf("%w %q in column %s (row %d)", ErrNotNumeric, value, column, row)
}

func NewWrongKindError(column, want string) error {
	return fmt.Errorf("%w: %s is not %s", ErrWrongKind, column, want)
}

func NewRankDeficientError(reason string) error {
	return fmt.Errorf("%w: %s", ErrRankDeficient, reason)
}

// Error checking helpers
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrSchemaMismatch)
}

func IsModelError(err error) bool {
	return errors.Is(err, ErrInvalidFormula) ||
		errors.Is(err, ErrMissingLevel) ||
		errors.Is(err, ErrRankDeficient)
}
