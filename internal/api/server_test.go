package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/portal"
	"github.com/authentiq/portal/internal/session"
	"github.com/authentiq/portal/internal/testutil"
	"github.com/authentiq/portal/internal/upload"
)

const testDelay = 3000 * time.Millisecond

type testServer struct {
	e       *echo.Echo
	visits  *session.Manager
	clock   *clockwork.FakeClock
	catalog *testutil.MockCatalog
}

// newTestServer wires the full router against a fake clock and an
// in-memory catalog.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clock := clockwork.NewFakeClock()
	visits := session.NewManager(session.Options{
		UploadDelay:    testDelay,
		VerifyDelay:    testDelay,
		PreloaderDelay: 2000 * time.Millisecond,
		Clock:          clock,
	})
	store := testutil.NewMockCatalog()

	e := echo.New()
	require.NoError(t, SetupMiddleware(e, nil, true))

	handlers := NewHandlers(&Dependencies{
		Visits:  visits,
		Catalog: store,
		Portal:  portal.NewDesk(store, nil),
		Version: "test",
		UI: UIConfig{
			UploadDelay:    testDelay,
			VerifyDelay:    testDelay,
			PreloaderDelay: 2000 * time.Millisecond,
		},
	})
	RegisterRoutes(e, handlers)
	RegisterPageRoutes(e, handlers)

	return &testServer{e: e, visits: visits, clock: clock, catalog: store}
}

func (s *testServer) do(method, path string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	return s.do(method, path, body, nil)
}

func (s *testServer) startVisit(t *testing.T, page string) models.VisitSnapshot {
	t.Helper()
	rec := s.doJSON(t, http.MethodPost, "/api/visits", map[string]string{"page": page})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap models.VisitSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func (s *testServer) snapshot(t *testing.T, id string) models.VisitSnapshot {
	t.Helper()
	rec := s.do(http.MethodGet, "/api/visits/"+id, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap models.VisitSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

// jobStatus reads a job straight from the desk.
func (s *testServer) jobStatus(jobID, visitID string) (upload.Job, bool) {
	visit, ok := s.visits.GetVisit(visitID)
	if !ok || visit.Desk == nil {
		return upload.Job{}, false
	}
	return visit.Desk.GetJob(jobID)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}
