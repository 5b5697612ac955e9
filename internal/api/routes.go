// routes.go - Route registration helpers
// This file provides a clean way to register all API and page routes
package api

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/catalog"
	"github.com/authentiq/portal/internal/portal"
	"github.com/authentiq/portal/internal/web"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Visits  VisitManager
	Catalog catalog.Catalog
	Portal  *portal.Desk
	Version string
	UI      UIConfig
	Logger  *slog.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Site    SiteHandler
	Visit   VisitHandler
	Catalog CatalogHandler
	Portal  PortalHandler
	Stream  StreamHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.Visits),
		Site:    NewSiteHandler(deps.Visits, deps.Catalog, deps.UI, deps.Logger),
		Visit:   NewVisitHandler(deps.Visits, deps.Logger),
		Catalog: NewCatalogHandler(deps.Catalog),
		Portal:  NewPortalHandler(deps.Portal, deps.Visits),
		Stream:  NewStreamHandler(deps.Visits, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health and site metadata
	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/routes", handlers.Site.HandleRoutes)
	apiGroup.GET("/config/ui", handlers.Site.HandleUIConfig)

	// Visit and desk routes
	visitGroup := apiGroup.Group("/visits")
	visitGroup.POST("", handlers.Visit.HandleStartVisit)
	visitGroup.GET("/:visitId", handlers.Visit.HandleGetVisit)
	visitGroup.DELETE("/:visitId", handlers.Visit.HandleEndVisit)
	visitGroup.POST("/:visitId/keepalive", handlers.Visit.HandleKeepAlive)
	visitGroup.POST("/:visitId/files", handlers.Visit.HandleStageFiles)
	visitGroup.DELETE("/:visitId/files/:index", handlers.Visit.HandleRemoveFile)
	visitGroup.PUT("/:visitId/document-type", handlers.Visit.HandleSetDocumentType)
	visitGroup.POST("/:visitId/submit", handlers.Visit.HandleSubmit)
	visitGroup.GET("/:visitId/results", handlers.Visit.HandleResults)
	visitGroup.GET("/:visitId/jobs", handlers.Visit.HandleJobs)
	visitGroup.GET("/:visitId/jobs/:jobId", handlers.Visit.HandleGetJob)
	visitGroup.GET("/:visitId/notifications", handlers.Visit.HandleNotifications)
	visitGroup.GET("/:visitId/ws", handlers.Stream.HandleVisitStream)

	// Sample records
	catalogGroup := apiGroup.Group("/catalog")
	catalogGroup.GET("/blacklist", handlers.Catalog.HandleBlacklist)
	catalogGroup.GET("/approvals", handlers.Catalog.HandleApprovals)
	catalogGroup.GET("/dashboard/:portal", handlers.Catalog.HandleDashboard)

	// Form acknowledgements
	apiGroup.POST("/portal/:portal/login", handlers.Portal.HandleLogin)
	apiGroup.POST("/portal/:portal/signup", handlers.Portal.HandleSignup)
	apiGroup.POST("/portal/logout", handlers.Portal.HandleLogout)
	apiGroup.POST("/admin/approvals/:id/approve", handlers.Portal.HandleApprove)
	apiGroup.POST("/admin/approvals/:id/reject", handlers.Portal.HandleReject)
	apiGroup.POST("/blacklist/:id/recheck", handlers.Portal.HandleRecheck)
	apiGroup.POST("/blacklist/:id/confirm", handlers.Portal.HandleConfirmBlacklist)
	apiGroup.POST("/contact", handlers.Portal.HandleContact)

	// Unknown API paths answer in JSON rather than with the HTML page
	apiGroup.RouteNotFound("/*", func(c echo.Context) error {
		return NewNotFoundError("route", c.Request().URL.Path)
	})
}

// RegisterPageRoutes registers one GET route per page of the route table.
// Every other path renders the not-found page.
func RegisterPageRoutes(e *echo.Echo, handlers *Handlers) {
	for _, route := range web.Routes {
		e.GET(route.Path, handlers.Site.HandlePage(route))
	}
	e.RouteNotFound("/*", handlers.Site.HandleNotFound)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, logger *slog.Logger, verbose bool) error {
	e.HTTPErrorHandler = NewErrorHandler(logger, verbose)

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer
	return web.RegisterStaticRoutes(e)
}
