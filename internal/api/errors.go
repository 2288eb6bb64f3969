// errors.go - Structured error handling for API responses
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/KaramelBytes/edalens/internal/ai"
	"github.com/KaramelBytes/edalens/internal/eda"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-" msgpack:"-"`
	Code    string `json:"code" msgpack:"code"`
	Message string `json:"message" msgpack:"message"`
	Details string `json:"details,omitempty" msgpack:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(status int, code, message string, cause error) *APIError {
	err := &APIError{Status: status, Code: code, Message: message}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	return newError(http.StatusBadRequest, "BAD_REQUEST", message, cause)
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	return newError(http.StatusInternalServerError, "INTERNAL_ERROR", message, cause)
}

// NewBadGatewayError creates a 502 error for a failed upstream model call
func NewBadGatewayError(message string, cause error) *APIError {
	return newError(http.StatusBadGateway, "INFERENCE_ERROR", message, cause)
}

// NewGatewayTimeoutError creates a 504 error for an upstream call that ran out of time
func NewGatewayTimeoutError(message string, cause error) *APIError {
	return newError(http.StatusGatewayTimeout, "INFERENCE_TIMEOUT", message, cause)
}

// pipelineError maps an analysis failure to an APIError by stage.
func pipelineError(err error) *APIError {
	var se *eda.StageError
	if !errors.As(err, &se) {
		return NewInternalError("analysis failed", err)
	}
	switch se.Stage {
	case eda.StageLoad:
		return NewBadRequestError("could not parse the uploaded file", se.Err)
	case eda.StageInsight:
		if errors.Is(err, context.DeadlineExceeded) {
			return NewGatewayTimeoutError("the model did not answer in time", se.Err)
		}
		var mnf *ai.ModelNotFoundError
		if errors.As(err, &mnf) {
			return NewBadGatewayError("the configured model is not available", se.Err)
		}
		var ue *ai.UnreachableError
		if errors.As(err, &ue) {
			return NewBadGatewayError("the inference runtime is unreachable", se.Err)
		}
		return NewBadGatewayError("insight generation failed", se.Err)
	default:
		return NewInternalError("rendering plots failed", se.Err)
	}
}

// ErrorHandler middleware for Echo
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = &APIError{
			Status:  http.StatusInternalServerError,
			Code:    "UNKNOWN_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		}
	}
	if apiErr.Status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request().URL.Path).Int("status", apiErr.Status).Msg("request failed")
	}

	if wantsHTML(c) {
		if rerr := c.Render(apiErr.Status, "error", pageData{Title: "Error", Error: apiErr}); rerr == nil {
			return
		}
	}
	_ = c.JSON(apiErr.Status, apiErr)
}

// wantsHTML reports whether the failed request came from the browser UI.
func wantsHTML(c echo.Context) bool {
	if c.Echo().Renderer == nil {
		return false
	}
	p := c.Request().URL.Path
	if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/artifacts/") {
		return false
	}
	return true
}
