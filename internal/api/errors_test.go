package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authentiq/portal/internal/catalog"
	"github.com/authentiq/portal/internal/portal"
	"github.com/authentiq/portal/internal/session"
	"github.com/authentiq/portal/internal/upload"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"nothing staged", fmt.Errorf("submit: %w", upload.ErrNothingStaged), http.StatusBadRequest, "NOTHING_STAGED"},
		{"busy", upload.ErrBusy, http.StatusConflict, "CONFLICT"},
		{"document type", fmt.Errorf("x: %w", upload.ErrInvalidDocumentType), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"visit", fmt.Errorf("visit a: %w", session.ErrVisitNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"catalog", catalog.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"portal", portal.ErrUnknownPortal, http.StatusNotFound, "NOT_FOUND"},
		{"api error", NewConflictError("taken"), http.StatusConflict, "CONFLICT"},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := mapDomainError(tt.err, "thing", "42")
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		verbose bool
		status  int
		code    string
		details bool
	}{
		{"api error", NewNotFoundError("visit", "x"), false, http.StatusNotFound, "NOT_FOUND", false},
		{"echo not found", echo.ErrNotFound, false, http.StatusNotFound, "NOT_FOUND", false},
		{"echo method", echo.ErrMethodNotAllowed, false, http.StatusMethodNotAllowed, "HTTP_ERROR", false},
		{"unknown quiet", errors.New("boom"), false, http.StatusInternalServerError, "UNKNOWN_ERROR", false},
		{"unknown verbose", errors.New("boom"), true, http.StatusInternalServerError, "UNKNOWN_ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewErrorHandler(nil, tt.verbose)(tt.err, c)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			_, hasDetails := body["details"]
			assert.Equal(t, tt.details, hasDetails)
		})
	}
}
