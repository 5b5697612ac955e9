// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/catalog"
	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/portal"
	"github.com/authentiq/portal/internal/session"
	"github.com/authentiq/portal/internal/upload"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int         `json:"-"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error constructors for consistent error handling

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNothingStagedError creates the 400 returned for an empty submission.
// The validation notification travels in Details.
func NewNothingStagedError(n models.Notification) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "NOTHING_STAGED",
		Message: n.Title,
		Details: n,
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

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// mapDomainError translates package errors into API errors. resource and id
// name the thing being looked up for 404 messages.
func mapDomainError(err error, resource, id string) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, upload.ErrNothingStaged):
		return NewNothingStagedError(upload.NothingStagedNotification)
	case errors.Is(err, upload.ErrBusy):
		return NewConflictError("a submission is already being processed")
	case errors.Is(err, upload.ErrInvalidDocumentType):
		return NewValidationError("documentType")
	case errors.Is(err, session.ErrVisitNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, portal.ErrUnknownPortal):
		return NewNotFoundError(resource, id)
	default:
		return NewInternalError("request failed", err)
	}
}

// NewErrorHandler returns the echo error handler. verbose adds the cause of
// unexpected errors to the response.
// Usage: e.HTTPErrorHandler = api.NewErrorHandler(logger, verbose)
func NewErrorHandler(logger *slog.Logger, verbose bool) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
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
			if httpErr.Code == http.StatusNotFound {
				apiErr.Code = "NOT_FOUND"
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			if verbose {
				apiErr.Details = err.Error()
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"code", apiErr.Code,
				"error", err)
		}

		if err := c.JSON(apiErr.Status, apiErr); err != nil {
			logger.Warn("failed to write error response", "error", err)
		}
	}
}
