// handlers_portal.go - Form acknowledgement handlers
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/authentiq/portal/internal/portal"
)

// HeaderVisitID names the visit whose feed also receives acknowledgements.
const HeaderVisitID = "X-Visit-ID"

// PortalHandlerImpl implements the PortalHandler interface
type PortalHandlerImpl struct {
	desk   *portal.Desk
	visits VisitManager
}

// NewPortalHandler creates a new portal handler instance
func NewPortalHandler(desk *portal.Desk, visits VisitManager) PortalHandler {
	return &PortalHandlerImpl{desk: desk, visits: visits}
}

// HandleLogin acknowledges a login form
func (h *PortalHandlerImpl) HandleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	name := c.Param("portal")
	ack, err := h.desk.Login(portal.Portal(name))
	if err != nil {
		return mapDomainError(err, "portal", name)
	}
	return h.respond(c, ack)
}

// HandleSignup acknowledges a signup form
func (h *PortalHandlerImpl) HandleSignup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	name := c.Param("portal")
	ack, err := h.desk.Signup(portal.Portal(name))
	if err != nil {
		return mapDomainError(err, "portal", name)
	}
	return h.respond(c, ack)
}

// HandleLogout returns the landing page redirect
func (h *PortalHandlerImpl) HandleLogout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.desk.Logout())
}

// HandleApprove acknowledges an institution approval
func (h *PortalHandlerImpl) HandleApprove(c echo.Context) error {
	return h.byID(c, "approval", h.desk.Approve)
}

// HandleReject acknowledges an institution rejection
func (h *PortalHandlerImpl) HandleReject(c echo.Context) error {
	return h.byID(c, "approval", h.desk.Reject)
}

// HandleRecheck acknowledges a manual review request
func (h *PortalHandlerImpl) HandleRecheck(c echo.Context) error {
	return h.byID(c, "blacklist entry", h.desk.Recheck)
}

// HandleConfirmBlacklist acknowledges a blacklist confirmation
func (h *PortalHandlerImpl) HandleConfirmBlacklist(c echo.Context) error {
	return h.byID(c, "blacklist entry", h.desk.ConfirmBlacklist)
}

// HandleContact acknowledges the contact form
func (h *PortalHandlerImpl) HandleContact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	return h.respond(c, h.desk.Contact())
}

func (h *PortalHandlerImpl) byID(c echo.Context, resource string, action func(context.Context, string) (portal.Ack, error)) error {
	id := c.Param("id")
	ack, err := action(c.Request().Context(), id)
	if err != nil {
		return mapDomainError(err, resource, id)
	}
	return h.respond(c, ack)
}

// respond returns the acknowledgement and mirrors its notification onto the
// caller's visit feed when the request names a live visit.
func (h *PortalHandlerImpl) respond(c echo.Context, ack portal.Ack) error {
	if id := c.Request().Header.Get(HeaderVisitID); id != "" && h.visits != nil && ack.Notification.Title != "" {
		if visit, ok := h.visits.GetVisit(id); ok {
			visit.Feed.Publish(ack.Notification)
		}
	}
	return c.JSON(http.StatusOK, ack)
}

// Request types. Fields are decoded but never checked.

type credentialsRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}
