// handlers_visits.go - Visit lifecycle and submission desk handlers
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/session"
	"github.com/authentiq/portal/internal/web"
)

// VisitHandlerImpl implements the VisitHandler interface
type VisitHandlerImpl struct {
	visits VisitManager
	log    *slog.Logger
}

// NewVisitHandler creates a new visit handler instance
func NewVisitHandler(visits VisitManager, logger *slog.Logger) VisitHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &VisitHandlerImpl{
		visits: visits,
		log:    logger.With("component", "api.visits"),
	}
}

// HandleStartVisit creates the state of a page view
func (h *VisitHandlerImpl) HandleStartVisit(c echo.Context) error {
	var req startVisitRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	route := web.Resolve(req.Page)
	if route.Name == web.NotFound.Name {
		return NewNotFoundError("page", req.Page)
	}
	visit := h.visits.StartVisit(req.Page, route.Flow, c.Request().UserAgent())

	snap, err := h.visits.Snapshot(visit.ID)
	if err != nil {
		return mapDomainError(err, "visit", visit.ID)
	}
	return c.JSON(http.StatusCreated, snap)
}

// HandleGetVisit returns the visit snapshot
func (h *VisitHandlerImpl) HandleGetVisit(c echo.Context) error {
	visit, err := h.lookup(c)
	if err != nil {
		return err
	}
	return h.respondSnapshot(c, visit.ID)
}

// HandleEndVisit discards a visit
func (h *VisitHandlerImpl) HandleEndVisit(c echo.Context) error {
	id := c.Param("visitId")
	if !h.visits.EndVisit(id) {
		return NewNotFoundError("visit", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleKeepAlive marks a visit as active
func (h *VisitHandlerImpl) HandleKeepAlive(c echo.Context) error {
	id := c.Param("visitId")
	if id == "" {
		return NewValidationError("visitId")
	}
	if ok := h.visits.TouchVisit(id); !ok {
		return NewNotFoundError("visit", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleStageFiles adds files to the visit's stager. Accepts multipart
// "files" parts or a JSON list of descriptors; content is never inspected.
func (h *VisitHandlerImpl) HandleStageFiles(c echo.Context) error {
	visit, err := h.lookupDesk(c)
	if err != nil {
		return err
	}

	var files []models.StagedFile
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return NewBadRequestError("invalid multipart body", err)
		}
		for _, fh := range form.File["files"] {
			files = append(files, models.StagedFile{
				Name:      fh.Filename,
				SizeBytes: fh.Size,
				MimeHint:  fh.Header.Get(echo.HeaderContentType),
			})
		}
	} else {
		var req stageFilesRequest
		if err := c.Bind(&req); err != nil {
			return NewBadRequestError("invalid JSON body", err)
		}
		if err := req.validate(); err != nil {
			return err
		}
		files = req.Files
	}

	visit.Stager.Add(files...)
	return c.JSON(http.StatusOK, visit.Stager.Files())
}

// HandleRemoveFile removes a staged file by position. Out-of-range positions
// are a no-op.
func (h *VisitHandlerImpl) HandleRemoveFile(c echo.Context) error {
	visit, err := h.lookupDesk(c)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(c.Param("index"))
	if errors.Is(err, strconv.ErrRange) {
		// Beyond int range, so beyond any staged position.
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return NewBadRequestError("invalid file index", err)
	}
	visit.Stager.Remove(index)
	return c.NoContent(http.StatusNoContent)
}

// HandleSetDocumentType selects the document type of later uploads
func (h *VisitHandlerImpl) HandleSetDocumentType(c echo.Context) error {
	visit, err := h.lookupDesk(c)
	if err != nil {
		return err
	}
	if visit.Flow != models.FlowUpload {
		return NewConflictError("document type applies to uploads only")
	}

	var req documentTypeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := visit.Desk.SetDocumentType(req.DocumentType); err != nil {
		return mapDomainError(err, "visit", visit.ID)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"documentType": visit.Desk.DocumentType(),
	})
}

// HandleSubmit triggers simulated processing of the staged batch
func (h *VisitHandlerImpl) HandleSubmit(c echo.Context) error {
	visit, err := h.lookupDesk(c)
	if err != nil {
		return err
	}

	job, err := visit.Desk.Submit(c.Request().Context())
	if err != nil {
		h.log.Debug("submission rejected", "visit", visit.ID[:8], "error", err)
		return mapDomainError(err, "visit", visit.ID)
	}
	return c.JSON(http.StatusAccepted, job)
}

// HandleResults returns the result board, newest first. Supports ?q= and
// MessagePack via the Accept header.
func (h *VisitHandlerImpl) HandleResults(c echo.Context) error {
	visit, err := h.lookup(c)
	if err != nil {
		return err
	}

	list := visit.Board.Filter(c.QueryParam("q"))

	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationMsgpack) {
		data, err := msgpack.Marshal(list)
		if err != nil {
			return NewInternalError("failed to encode msgpack", err)
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationMsgpack, data)
	}
	return c.JSON(http.StatusOK, list)
}

// HandleJobs lists the desk's tracked batches, oldest first
func (h *VisitHandlerImpl) HandleJobs(c echo.Context) error {
	visit, err := h.lookupDesk(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visit.Desk.Jobs())
}

// HandleGetJob returns one batch of the desk
func (h *VisitHandlerImpl) HandleGetJob(c echo.Context) error {
	visit, err := h.lookupDesk(c)
	if err != nil {
		return err
	}
	jobID := c.Param("jobId")
	job, ok := visit.Desk.GetJob(jobID)
	if !ok {
		return NewNotFoundError("job", jobID)
	}
	return c.JSON(http.StatusOK, job)
}

// HandleNotifications drains the visit's notification queue
func (h *VisitHandlerImpl) HandleNotifications(c echo.Context) error {
	visit, err := h.lookup(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visit.Feed.Drain())
}

func (h *VisitHandlerImpl) lookup(c echo.Context) (*session.Visit, error) {
	id := c.Param("visitId")
	if id == "" {
		return nil, NewValidationError("visitId")
	}
	visit, ok := h.visits.GetVisit(id)
	if !ok {
		return nil, NewNotFoundError("visit", id)
	}
	return visit, nil
}

// lookupDesk resolves a visit whose page drives a submission flow.
func (h *VisitHandlerImpl) lookupDesk(c echo.Context) (*session.Visit, error) {
	visit, err := h.lookup(c)
	if err != nil {
		return nil, err
	}
	if visit.Desk == nil {
		return nil, NewNotFoundError("desk", visit.ID)
	}
	return visit, nil
}

func (h *VisitHandlerImpl) respondSnapshot(c echo.Context, id string) error {
	snap, err := h.visits.Snapshot(id)
	if err != nil {
		return mapDomainError(err, "visit", id)
	}
	return c.JSON(http.StatusOK, snap)
}

// Request types

type startVisitRequest struct {
	Page string `json:"page"`
}

func (r *startVisitRequest) validate() error {
	if r.Page == "" || !strings.HasPrefix(r.Page, "/") {
		return NewValidationError("page")
	}
	return nil
}

type stageFilesRequest struct {
	Files []models.StagedFile `json:"files"`
}

func (r *stageFilesRequest) validate() error {
	for i, f := range r.Files {
		if f.Name == "" {
			return NewValidationError("files[" + strconv.Itoa(i) + "].name")
		}
	}
	return nil
}

type documentTypeRequest struct {
	DocumentType models.DocumentType `json:"documentType"`
}
