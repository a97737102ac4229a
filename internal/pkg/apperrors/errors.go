package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")
)

// Authentication errors
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Authorization errors. ErrWrongRole and ErrNotApproved both wrap ErrPermissionDenied.
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrWrongRole        = &CustomError{Err: ErrPermissionDenied, Message: "wrong role", Code: "WRONG_ROLE"}
	ErrNotApproved      = &CustomError{Err: ErrPermissionDenied, Message: "profile not approved", Code: "NOT_APPROVED"}
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrBadRequest       = errors.New("bad request")
)

// Profile errors
var (
	ErrProfileNotFound      = &CustomError{Err: ErrResourceNotFound, Message: "Profile not found"}
	ErrEmailAlreadyExists   = &CustomError{Err: ErrResourceAlreadyExists, Message: "An account with this email already exists"}
	ErrProfileAlreadyActive = &CustomError{Err: ErrConflict, Message: "Profile is already approved"}
)

// Job and meeting errors
var (
	ErrJobNotFound          = &CustomError{Err: ErrResourceNotFound, Message: "Job not found"}
	ErrMeetingNotFound      = &CustomError{Err: ErrResourceNotFound, Message: "Meeting not found"}
	ErrRegistrationNotFound = &CustomError{Err: ErrResourceNotFound, Message: "Registration not found"}
	ErrNotificationNotFound = &CustomError{Err: ErrResourceNotFound, Message: "Notification not found"}
	ErrMeetingFull          = &CustomError{Err: ErrConflict, Message: "Meeting is full", Code: "MEETING_FULL"}
	ErrAlreadyRegistered    = &CustomError{Err: ErrConflict, Message: "You are already registered for this meeting", Code: "ALREADY_REGISTERED"}
	ErrRegistrationClosed   = &CustomError{Err: ErrConflict, Message: "Registration is closed for this meeting", Code: "REGISTRATION_CLOSED"}
)

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

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a user-facing message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewUnauthenticatedError creates a not-authenticated error carrying a user-facing message
func NewUnauthenticatedError(message string) error {
	return &CustomError{
		Err:     ErrNotAuthenticated,
		Message: message,
	}
}

// Is returns whether err matches target or any of errList
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

// UserMessage returns the message of the outermost CustomError in the chain, if any
func UserMessage(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}
