package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrInvalidFormat    = errors.New("invalid token format")
	ErrNoEmail          = errors.New("identity has no email")
	ErrAccountNotLinked = errors.New("account is linked to another provider")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Storage errors
	ErrStorage = errors.New("storage failure")
)

// Participation errors
var (
	ErrActivityNotFound     = errors.New("activity not found")
	ErrAlreadyParticipating = errors.New("already participating")
	ErrActivityFull         = errors.New("activity full")
	ErrNotParticipating     = errors.New("not participating")
)

// FieldViolation describes a single rejected input field
type FieldViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err        error
	Message    string
	Code       string
	Details    map[string]interface{}
	Violations []FieldViolation
	Cause      error
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

// Unwrap exposes both the taxonomy sentinel and the underlying cause
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithCause attaches the error that triggered this one
func (e *CustomError) WithCause(cause error) *CustomError {
	e.Cause = cause
	return e
}

// NewValidationError creates a validation error carrying the rejected fields
func NewValidationError(message string, violations []FieldViolation) error {
	return &CustomError{
		Err:        ErrValidationFailed,
		Message:    message,
		Violations: violations,
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewConflictReason creates a conflict error whose message is the reason itself
func NewConflictReason(reason error) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: reason.Error(),
		Cause:   reason,
	}
}

// NewNotFoundReason creates a not found error whose message is the reason itself
func NewNotFoundReason(reason error) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: reason.Error(),
		Cause:   reason,
	}
}

// NewUnauthorizedError creates an authentication error with a message
func NewUnauthorizedError(message string) error {
	return &CustomError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewStorageError wraps a store failure. The cause is kept for logging only.
func NewStorageError(operation string, cause error) error {
	return &CustomError{
		Err:     ErrStorage,
		Message: operation + " failed",
		Cause:   cause,
	}
}

// AsStorageError passes application errors through and wraps anything else as a storage failure
func AsStorageError(operation string, err error) error {
	if err == nil {
		return nil
	}
	var custom *CustomError
	if errors.As(err, &custom) {
		return err
	}
	return NewStorageError(operation, err)
}

// Is returns whether target matches any of the errors in errList
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

// ViolationsOf returns the field violations carried by err, if any
func ViolationsOf(err error) []FieldViolation {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Violations
	}
	return nil
}
