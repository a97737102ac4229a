package dto

// ErrorCode represents standardized error codes
type ErrorCode string

// Standard error codes for the application
const (
	ErrorCodeInvalidCredentials ErrorCode = "AUTH_001"
	ErrorCodeInvalidEmail       ErrorCode = "AUTH_002"
	ErrorCodeInvalidToken       ErrorCode = "AUTH_005"
	ErrorCodeExpiredToken       ErrorCode = "AUTH_006"
	ErrorCodeUnauthorized       ErrorCode = "AUTH_008"

	ErrorCodeForbidden   ErrorCode = "PERM_001"
	ErrorCodeWrongRole   ErrorCode = "PERM_002"
	ErrorCodeNotApproved ErrorCode = "PERM_003"

	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_004"
	ErrorCodeMeetingFull           ErrorCode = "MTG_001"
	ErrorCodeAlreadyRegistered     ErrorCode = "MTG_002"
	ErrorCodeRegistrationClosed    ErrorCode = "MTG_003"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"

	ErrorCodeInternalServer ErrorCode = "SRV_001"
	ErrorCodeDatabaseError  ErrorCode = "SRV_002"
	ErrorCodeUnavailable    ErrorCode = "SRV_003"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string    `json:"error" example:"Job not found"`
	Details string    `json:"details,omitempty" example:"no job with id 665f1c2e9b1d4c3a2f0e1d2c"`
	Code    ErrorCode `json:"code,omitempty" example:"RES_001"`
}

// NewErrorResponse creates an error body with a code and message
func NewErrorResponse(code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: message,
		Code:  code,
	}
}

// WithDetails attaches the raw detail string
func (e *ErrorResponse) WithDetails(details string) *ErrorResponse {
	e.Details = details
	return e
}
