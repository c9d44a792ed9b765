// Package errors defines the typed error taxonomy for the calcium
// converter. Every failure in the pipeline is an *AppError carrying a
// machine-readable type plus enough context (column, row, episode) for
// the user to fix the source spreadsheet. All errors are fatal to the
// run; nothing is retried or substituted.
package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Classification and validation failures from the input sheet.
	ErrTypeMissingColumn      ErrorType = "MISSING_COLUMN"
	ErrTypeNonAdjacentColumns ErrorType = "NON_ADJACENT_COLUMNS"
	ErrTypeInvalidData        ErrorType = "INVALID_DATA"
	ErrTypeNoLabels           ErrorType = "NO_LABELS"
	ErrTypeMissingBaseline    ErrorType = "MISSING_BASELINE"
	ErrTypeDivisionByZero     ErrorType = "DIVISION_BY_ZERO"

	// Ambient failures around the pipeline.
	ErrTypeParsing ErrorType = "PARSING"
	ErrTypeStorage ErrorType = "STORAGE"
	ErrTypeConfig  ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Context) > 0 {
		msg = fmt.Sprintf("%s (%s)", msg, formatContext(e.Context))
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsType reports whether err is an *AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == t
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper constructors for the converter's error taxonomy

// NewMissingColumnError reports that no header matched the expected
// substring.
func NewMissingColumnError(want string) *AppError {
	return NewAppError(ErrTypeMissingColumn, fmt.Sprintf("no column header containing %q", want), nil)
}

// NewNonAdjacentColumnsError reports that the ratio columns do not
// form one contiguous block.
func NewNonAdjacentColumnsError(headers []string) *AppError {
	return NewAppError(ErrTypeNonAdjacentColumns, "ratio columns are not adjacent in the sheet", nil).
		WithContext("headers", headers)
}

// NewInvalidDataError reports a bad or blank cell, citing column and
// 0-based data row.
func NewInvalidDataError(column string, row int, cause error) *AppError {
	return NewAppError(ErrTypeInvalidData, "invalid cell value", cause).
		WithContext("column", column).
		WithContext("row", row)
}

// NewNoLabelsError reports an empty Labels column.
func NewNoLabelsError() *AppError {
	return NewAppError(ErrTypeNoLabels, "labels column contains no treatment labels", nil)
}

// NewMissingBaselineError reports a recording that does not open with
// a standard-bath period.
func NewMissingBaselineError(firstLabel string) *AppError {
	return NewAppError(ErrTypeMissingBaseline, "first episode must be a standard bath (STD) baseline", nil).
		WithContext("first_label", firstLabel)
}

// NewDivisionByZeroError reports a ratio equal to the dissociation
// asymptote, which makes the concentration formula undefined.
func NewDivisionByZeroError(ratio float64) *AppError {
	return NewAppError(ErrTypeDivisionByZero, "ratio equals calibration maximum, concentration undefined", nil).
		WithContext("ratio", ratio)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

func formatContext(ctx map[string]interface{}) string {
	// Deterministic order for the keys the converter actually uses.
	keys := []string{"column", "row", "episode", "first_label", "ratio", "headers"}
	var out string
	for _, k := range keys {
		if v, ok := ctx[k]; ok {
			if out != "" {
				out += ", "
			}
			out += fmt.Sprintf("%s=%v", k, v)
		}
	}
	for k, v := range ctx {
		if !containsKey(keys, k) {
			if out != "" {
				out += ", "
			}
			out += fmt.Sprintf("%s=%v", k, v)
		}
	}
	return out
}

func containsKey(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}
