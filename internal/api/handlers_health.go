// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version string
	visits  VisitManager
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, visits VisitManager) HealthHandler {
	return &HealthHandlerImpl{
		version: version,
		visits:  visits,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	}
	if h.visits != nil {
		resp["activeVisits"] = h.visits.Count()
	}
	return c.JSON(http.StatusOK, resp)
}
