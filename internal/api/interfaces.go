// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/session"
	"github.com/authentiq/portal/internal/web"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SiteHandler serves the route table, UI settings and page HTML
type SiteHandler interface {
	HandleRoutes(c echo.Context) error
	HandleUIConfig(c echo.Context) error
	HandlePage(route web.Route) echo.HandlerFunc
	HandleNotFound(c echo.Context) error
}

// VisitHandler handles per-page visit state and the upload/verify desk
type VisitHandler interface {
	HandleStartVisit(c echo.Context) error
	HandleGetVisit(c echo.Context) error
	HandleEndVisit(c echo.Context) error
	HandleKeepAlive(c echo.Context) error
	HandleStageFiles(c echo.Context) error
	HandleRemoveFile(c echo.Context) error
	HandleSetDocumentType(c echo.Context) error
	HandleSubmit(c echo.Context) error
	HandleResults(c echo.Context) error
	HandleJobs(c echo.Context) error
	HandleGetJob(c echo.Context) error
	HandleNotifications(c echo.Context) error
}

// CatalogHandler serves the sample records
type CatalogHandler interface {
	HandleBlacklist(c echo.Context) error
	HandleApprovals(c echo.Context) error
	HandleDashboard(c echo.Context) error
}

// PortalHandler answers form submissions with acknowledgements
type PortalHandler interface {
	HandleLogin(c echo.Context) error
	HandleSignup(c echo.Context) error
	HandleLogout(c echo.Context) error
	HandleApprove(c echo.Context) error
	HandleReject(c echo.Context) error
	HandleRecheck(c echo.Context) error
	HandleConfirmBlacklist(c echo.Context) error
	HandleContact(c echo.Context) error
}

// StreamHandler pushes visit events over WebSocket
type StreamHandler interface {
	HandleVisitStream(c echo.Context) error
}

// VisitManager defines the interface for visit management
// This allows swapping the manager in tests
type VisitManager interface {
	StartVisit(page string, flow models.Flow, userAgent string) *session.Visit
	GetVisit(id string) (*session.Visit, bool)
	TouchVisit(id string) bool
	EndVisit(id string) bool
	Snapshot(id string) (models.VisitSnapshot, error)
	Count() int
}

var _ VisitManager = (*session.Manager)(nil)
