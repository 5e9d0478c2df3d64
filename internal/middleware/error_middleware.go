package middleware

import (
	"errors"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
	"github.com/ccnu/student-achievements/internal/pkg/logger"
	"github.com/ccnu/student-achievements/internal/pkg/observability"
)

const internalErrorMessage = "internal server error"

// StatusFor maps an error kind to the HTTP status it represents
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenMissing):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the message safe to show to the caller. Unexpected errors are
// logged and reported, and hidden behind a generic message.
func publicMessage(c *gin.Context, err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Str("requestID", RequestID(c)).
			Msg("Request failed")
		observability.CaptureWithHub(sentrygin.GetHubFromContext(c), err)
		return internalErrorMessage
	}
	return err.Error()
}

// RespondResult writes a failure on the student facing surface: HTTP 200 and success=false
func RespondResult(c *gin.Context, err error) {
	c.JSON(http.StatusOK, dto.Result{Success: false, Message: publicMessage(c, err)})
}

// RespondAdmin writes a failure on the reviewer surface: HTTP 200 with the status in the body
func RespondAdmin(c *gin.Context, err error) {
	c.JSON(http.StatusOK, dto.APIResponse{Code: StatusFor(err), Message: publicMessage(c, err)})
}

// RespondBindError rejects a request body that could not be decoded or validated with a 400
func RespondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(HandleValidationError(err)))
}

// HandleAPIError writes err with its own HTTP status and the ErrorResponse envelope
func HandleAPIError(c *gin.Context, err error) {
	status := StatusFor(err)
	var code dto.ErrorCode
	switch status {
	case http.StatusNotFound:
		code = dto.ErrorCodeResourceNotFound
	case http.StatusBadRequest:
		code = dto.ErrorCodeValidationFailed
	case http.StatusConflict:
		code = dto.ErrorCodeResourceAlreadyExists
	case http.StatusUnauthorized:
		code = dto.ErrorCodeUnauthorized
	default:
		code = dto.ErrorCodeInternalServer
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, publicMessage(c, err))))
}
