package errors

import "fmt"

// ErrorCode represents a Strata error code.
type ErrorCode string

const (
	ErrMissingColumns ErrorCode = "MISSING_COLUMNS" // 422
	ErrInvalidRow     ErrorCode = "INVALID_ROW"     // 422
	ErrEmptySelection ErrorCode = "EMPTY_SELECTION" // 404
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrTooManyRows    ErrorCode = "TOO_MANY_ROWS"   // 413
	ErrFileNotFound   ErrorCode = "FILE_NOT_FOUND"  // 404
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// GeoError represents a structured error with code, status, and details.
type GeoError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *GeoError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMissingColumns creates a 422 error listing required CSV columns that are absent.
func NewMissingColumns(missing []string) *GeoError {
	return &GeoError{
		Code:    ErrMissingColumns,
		Status:  422,
		Message: fmt.Sprintf("missing required columns: %v", missing),
		Details: map[string]any{"missing_columns": missing},
	}
}

// NewInvalidRow creates a 422 error identifying a malformed layer row.
// Row-level failures inside the pipeline are collected as skipped rows rather
// than surfaced as errors; this constructor is for callers that must report a
// single bad row directly.
func NewInvalidRow(index int, reason string) *GeoError {
	return &GeoError{
		Code:    ErrInvalidRow,
		Status:  422,
		Message: fmt.Sprintf("row %d: %s", index, reason),
		Details: map[string]any{"row_index": index, "reason": reason},
	}
}

// NewEmptySelection creates a 404 error for a borehole filter that matches nothing.
func NewEmptySelection() *GeoError {
	return &GeoError{
		Code:    ErrEmptySelection,
		Status:  404,
		Message: "no layer records match the selected boreholes",
	}
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *GeoError {
	return &GeoError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an archived run cannot be found.
func NewNotFound(identifier string) *GeoError {
	return &GeoError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("run not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewTooManyRows creates a 413 error when the input exceeds the configured row cap.
func NewTooManyRows(max, actual int) *GeoError {
	return &GeoError{
		Code:    ErrTooManyRows,
		Status:  413,
		Message: fmt.Sprintf("input exceeds maximum row count: %d rows (max %d)", actual, max),
		Details: map[string]any{"max_rows": max, "actual_rows": actual},
	}
}

// NewFileNotFound creates a 404 error for a missing input file.
func NewFileNotFound(path string) *GeoError {
	return &GeoError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *GeoError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &GeoError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a GeoError with the given code.
func Is(err error, code ErrorCode) bool {
	if gErr, ok := err.(*GeoError); ok {
		return gErr.Code == code
	}
	return false
}
