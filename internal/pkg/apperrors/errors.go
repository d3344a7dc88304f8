package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateName = errors.New("name already exists")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Storage errors. These are logged at the repository boundary and never
	// reach HTTP callers.
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// Error codes attached to CustomError
const (
	CodeNotFound         = "NOT_FOUND"
	CodeDuplicateName    = "DUPLICATE_NAME"
	CodeValidationFailed = "VALIDATION_FAILED"
)

// NewNotFoundError creates a new custom error for a missing record
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
		Code:    CodeNotFound,
	}
}

// NewDuplicateNameError creates a new custom error for a name collision
func NewDuplicateNameError(message string) error {
	return &CustomError{
		Err:     ErrDuplicateName,
		Message: message,
		Code:    CodeDuplicateName,
	}
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Code:    CodeValidationFailed,
		Field:   field,
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Field   string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// AsCustom extracts a CustomError from an error chain.
func AsCustom(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
