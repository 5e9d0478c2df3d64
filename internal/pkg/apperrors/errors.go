package apperrors

import "errors"

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrStorage      = errors.New("storage failure")
)

// Authentication errors
var (
	ErrInvalidCredentials = &CustomError{Err: ErrUnauthorized, Message: "invalid student ID or password"}
	ErrAccountDisabled    = &CustomError{Err: ErrUnauthorized, Message: "account is disabled"}
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenMissing       = errors.New("token missing")
)

// Domain errors. Each one unwraps to its kind.
var (
	ErrUserNotFound        = &CustomError{Err: ErrNotFound, Message: "user not found"}
	ErrStudentIDExists     = &CustomError{Err: ErrConflict, Message: "student ID already registered"}
	ErrAchievementNotFound = &CustomError{Err: ErrNotFound, Message: "achievement not found"}
	ErrUnsupportedFileType = &CustomError{Err: ErrValidation, Message: "unsupported file type"}
	ErrFileTooLarge        = &CustomError{Err: ErrValidation, Message: "file too large"}
)

// NewNotFoundError creates a new custom error for a missing resource with a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrNotFound, Message: message}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewUnauthorizedError creates a new custom error for rejected credentials or permissions
func NewUnauthorizedError(message string) error {
	return &CustomError{Err: ErrUnauthorized, Message: message}
}

// NewValidationError creates a new custom error for rejected input with a message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidation, Message: message}
}

// NewStorageError wraps a persistence failure; the cause stays reachable via errors.Is/As
func NewStorageError(message string, cause error) error {
	return &CustomError{Err: errors.Join(ErrStorage, cause), Message: message}
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

// Message returns the user facing message of the outermost CustomError in the chain,
// or fallback when there is none.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
