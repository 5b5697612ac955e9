// handlers_site.go - Route table, UI settings and server-rendered pages
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/catalog"
	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/web"
)

// UIConfig carries the delays the pages animate against.
type UIConfig struct {
	UploadDelay    time.Duration
	VerifyDelay    time.Duration
	PreloaderDelay time.Duration
}

type uiConfigResponse struct {
	UploadDelayMs    int64                 `json:"uploadDelayMs"`
	VerifyDelayMs    int64                 `json:"verifyDelayMs"`
	PreloaderDelayMs int64                 `json:"preloaderDelayMs"`
	AcceptFilter     string                `json:"acceptFilter"`
	MaxFileSize      int64                 `json:"maxFileSize"`
	DocumentTypes    []models.DocumentType `json:"documentTypes"`
}

// SiteHandlerImpl implements the SiteHandler interface
type SiteHandlerImpl struct {
	visits  VisitManager
	catalog catalog.Catalog
	ui      UIConfig
	log     *slog.Logger
}

// NewSiteHandler creates a new site handler instance
func NewSiteHandler(visits VisitManager, c catalog.Catalog, ui UIConfig, logger *slog.Logger) SiteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteHandlerImpl{
		visits:  visits,
		catalog: c,
		ui:      ui,
		log:     logger.With("component", "api.site"),
	}
}

// HandleRoutes returns the fixed route table
func (h *SiteHandlerImpl) HandleRoutes(c echo.Context) error {
	return c.JSON(http.StatusOK, web.Routes)
}

// HandleUIConfig returns the settings the pages need
func (h *SiteHandlerImpl) HandleUIConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, uiConfigResponse{
		UploadDelayMs:    h.ui.UploadDelay.Milliseconds(),
		VerifyDelayMs:    h.ui.VerifyDelay.Milliseconds(),
		PreloaderDelayMs: h.ui.PreloaderDelay.Milliseconds(),
		AcceptFilter:     models.AcceptFilter,
		MaxFileSize:      models.AdvisoryMaxFileSize,
		DocumentTypes:    models.DocumentTypes,
	})
}

// HandlePage renders one route of the table. Every view starts a fresh visit.
func (h *SiteHandlerImpl) HandlePage(route web.Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		visit := h.visits.StartVisit(route.Path, route.Flow, c.Request().UserAgent())

		data := h.pageData(route)
		data.VisitID = visit.ID
		data.Preloader = visit.Preloader.Visible()
		if visit.Desk != nil {
			data.DocumentType = visit.Desk.DocumentType()
		}

		if err := h.loadCatalog(c.Request().Context(), route, &data); err != nil {
			return mapDomainError(err, "catalog", route.Name)
		}
		return c.Render(http.StatusOK, route.Name, data)
	}
}

// HandleNotFound renders the not-found page
func (h *SiteHandlerImpl) HandleNotFound(c echo.Context) error {
	return c.Render(http.StatusNotFound, web.NotFound.Name, h.pageData(web.NotFound))
}

func (h *SiteHandlerImpl) pageData(route web.Route) web.PageData {
	return web.PageData{
		Route:            route,
		Nav:              web.PublicNav(),
		PreloaderDelayMs: h.ui.PreloaderDelay.Milliseconds(),
		AcceptFilter:     models.AcceptFilter,
		MaxFileSizeMB:    models.AdvisoryMaxFileSize / (1024 * 1024),
		DocumentTypes:    models.DocumentTypes,
		DocumentType:     models.DocumentTypeCertificate,
		Year:             time.Now().Year(),
	}
}

func (h *SiteHandlerImpl) loadCatalog(ctx context.Context, route web.Route, data *web.PageData) error {
	switch route.Name {
	case "institution-dashboard", "verifier-dashboard":
		dash, err := h.catalog.Dashboard(ctx, route.Portal)
		if err != nil {
			return err
		}
		data.Dashboard = &dash
	case "institution-blacklist":
		entries, err := h.catalog.Blacklist(ctx, "")
		if err != nil {
			return err
		}
		data.Blacklist = entries
	case "admin-approval":
		approvals, err := h.catalog.Approvals(ctx)
		if err != nil {
			return err
		}
		data.Approvals = approvals
	}
	return nil
}
