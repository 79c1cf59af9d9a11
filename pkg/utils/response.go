package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "facility-tickets/pkg/errors"
)

// SuccessResponse writes the resource as-is; the frontend consumes bare
// objects, not an envelope.
func SuccessResponse(ctx echo.Context, body interface{}, code int) error {
	return ctx.JSON(code, body)
}

// ErrorResponse maps an error to the `{"message": ...}` body the frontend
// expects. HttpError carries its own status code; validator errors become
// 400; anything else is a 500 and gets logged with its cause.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
			)
		}
		return ctx.JSON(httpErr.Code, map[string]string{"message": httpErr.Message})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed on '%s'", e.Field(), e.Tag()))
		}
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"message": "Validation error: " + strings.Join(msgs, "; "),
		})
	}

	logger.Error("unexpected error", zap.Error(err))
	return ctx.JSON(http.StatusInternalServerError, map[string]string{
		"message": "Internal server error",
	})
}
