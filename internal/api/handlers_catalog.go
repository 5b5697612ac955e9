// handlers_catalog.go - Sample record handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/catalog"
)

// CatalogHandlerImpl implements the CatalogHandler interface
type CatalogHandlerImpl struct {
	catalog catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler instance
func NewCatalogHandler(c catalog.Catalog) CatalogHandler {
	return &CatalogHandlerImpl{catalog: c}
}

// HandleBlacklist returns flagged documents matching ?q=
func (h *CatalogHandlerImpl) HandleBlacklist(c echo.Context) error {
	entries, err := h.catalog.Blacklist(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return NewInternalError("failed to query blacklist", err)
	}
	return c.JSON(http.StatusOK, entries)
}

// HandleApprovals returns institutions awaiting approval
func (h *CatalogHandlerImpl) HandleApprovals(c echo.Context) error {
	list, err := h.catalog.Approvals(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to query approvals", err)
	}
	return c.JSON(http.StatusOK, list)
}

// HandleDashboard returns the figures of a portal dashboard
func (h *CatalogHandlerImpl) HandleDashboard(c echo.Context) error {
	name := c.Param("portal")
	d, err := h.catalog.Dashboard(c.Request().Context(), name)
	if err != nil {
		return mapDomainError(err, "dashboard", name)
	}
	return c.JSON(http.StatusOK, d)
}
