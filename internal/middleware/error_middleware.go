package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/svce/alumniconnect/internal/app/models/dto"
	"github.com/svce/alumniconnect/internal/pkg/apperrors"
	"github.com/svce/alumniconnect/internal/pkg/logger"
)

// conflictCodes maps the conflict sentinels onto their response codes
var conflictCodes = []struct {
	err  error
	code dto.ErrorCode
}{
	{apperrors.ErrMeetingFull, dto.ErrorCodeMeetingFull},
	{apperrors.ErrAlreadyRegistered, dto.ErrorCodeAlreadyRegistered},
	{apperrors.ErrRegistrationClosed, dto.ErrorCodeRegistrationClosed},
}

// message prefers the user-facing message carried by the error chain
func message(err error, fallback string) string {
	if msg, ok := apperrors.UserMessage(err); ok {
		return msg
	}
	return fallback
}

// HandleAPIError maps a service error onto the JSON error envelope.
// Unclassified errors are logged and returned as 500 with the raw detail.
func HandleAPIError(c *gin.Context, err error) {
	HandleOperationError(c, err, "Internal server error")
}

// HandleOperationError is HandleAPIError with the 500 message naming the failed operation,
// e.g. "Failed to create job".
func HandleOperationError(c *gin.Context, err error, operation string) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest, apperrors.ErrInvalidEmail, apperrors.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorCodeValidationFailed, message(err, "Validation failed")))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidCredentials, message(err, "Invalid credentials")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeExpiredToken, "Token expired"))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeInvalidToken, "Invalid token"))
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, message(err, "Authentication required")))

	case errors.Is(err, apperrors.ErrWrongRole):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeWrongRole, message(err, "Permission denied")))
	case errors.Is(err, apperrors.ErrNotApproved):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeNotApproved, message(err, "Permission denied")))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, message(err, "Permission denied")))

	case errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, message(err, "Resource not found")))

	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeResourceAlreadyExists, message(err, "Resource already exists")))
	case errors.Is(err, apperrors.ErrConflict):
		code := dto.ErrorCodeConflict
		for _, cc := range conflictCodes {
			if errors.Is(err, cc.err) {
				code = cc.code
				break
			}
		}
		c.JSON(http.StatusConflict, dto.NewErrorResponse(code, message(err, "Conflict")))

	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg(operation)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternalServer, operation).WithDetails(err.Error()))
	}
}

// BadRequest writes a 400 for malformed input that never reached a service
func BadRequest(c *gin.Context, msg, details string) {
	resp := dto.NewErrorResponse(dto.ErrorCodeValidationFailed, msg)
	if details != "" {
		resp = resp.WithDetails(details)
	}
	c.JSON(http.StatusBadRequest, resp)
}
