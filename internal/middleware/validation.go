package middleware

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ccnu/student-achievements/internal/app/models/dto"
	"github.com/ccnu/student-achievements/internal/pkg/validation"
)

// HandleValidationError converts a binding error into an ErrorDetail. Validator errors
// list each offending field; decoding errors are reported as malformed requests.
func HandleValidationError(err error) *dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		messages := make([]string, 0, len(verrs))
		fields := make(map[string]string, len(verrs))
		for _, e := range verrs {
			msg := formatValidationError(e)
			messages = append(messages, msg)
			fields[e.Field()] = msg
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, strings.Join(messages, "; ")).
			WithDetails(fields)
		if len(verrs) == 1 {
			detail = detail.WithField(verrs[0].Field())
		}
		return detail
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return dto.NewErrorDetail(dto.ErrorCodeMalformedRequest, "Invalid request format").
			WithField(typeErr.Field).
			WithDetails(typeErr.Error())
	}

	return dto.NewErrorDetail(dto.ErrorCodeMalformedRequest, "Invalid request format").WithDetails(err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case validation.IdentifierTag:
		return e.Field() + " may only contain letters, digits, '-' and '_' (at most 50)"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
