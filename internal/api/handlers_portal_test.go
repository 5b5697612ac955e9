package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/portal"
)

func decodeAck(t *testing.T, body []byte) portal.Ack {
	t.Helper()
	var ack portal.Ack
	require.NoError(t, json.Unmarshal(body, &ack))
	return ack
}

func TestPortalAcknowledgements(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		path     string
		body     interface{}
		title    string
		desc     string
		severity models.Severity
		redirect string
	}{
		{
			name:     "institution login",
			path:     "/api/portal/institution/login",
			body:     map[string]string{"email": "a@b.c", "password": "x"},
			title:    "Login Successful!",
			desc:     "Welcome back to your institution dashboard.",
			severity: models.SeverityDefault,
			redirect: "/institution/dashboard",
		},
		{
			name:     "admin login",
			path:     "/api/portal/admin/login",
			body:     map[string]string{},
			title:    "Admin Login Successful!",
			desc:     "Welcome to the admin dashboard.",
			severity: models.SeverityDefault,
			redirect: "/admin/approval",
		},
		{
			name:     "verifier signup",
			path:     "/api/portal/verifier/signup",
			title:    "Account Created!",
			desc:     "Welcome to AuthentiQ. You can now start verifying documents.",
			severity: models.SeverityDefault,
			redirect: "/verifier/dashboard",
		},
		{
			name:     "institution signup",
			path:     "/api/portal/institution/signup",
			title:    "Application Submitted!",
			desc:     "Your account requires Admin approval. We'll review your approval letter and contact you within 24 hours.",
			severity: models.SeverityDefault,
		},
		{
			name:     "approve",
			path:     "/api/admin/approvals/REQ001/approve",
			title:    "Institution Approved!",
			desc:     "Birla Institute of Technology has been approved and can now access the system.",
			severity: models.SeverityDefault,
		},
		{
			name:     "reject",
			path:     "/api/admin/approvals/REQ003/reject",
			title:    "Application Rejected",
			desc:     "NIT Jamshedpur's application has been rejected.",
			severity: models.SeverityDestructive,
		},
		{
			name:     "recheck",
			path:     "/api/blacklist/DOC002/recheck",
			title:    "Recheck Initiated",
			desc:     "Document DOC002 has been queued for manual review.",
			severity: models.SeverityDefault,
		},
		{
			name:     "confirm",
			path:     "/api/blacklist/DOC004/confirm",
			title:    "Document Blacklisted",
			desc:     "Document DOC004 has been permanently flagged in the system.",
			severity: models.SeverityDefault,
		},
		{
			name:     "contact",
			path:     "/api/contact",
			body:     map[string]string{"name": "Ann", "message": "hi"},
			title:    "Message Sent!",
			desc:     "Thank you for contacting us. We'll get back to you soon.",
			severity: models.SeverityDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.doJSON(t, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			ack := decodeAck(t, rec.Body.Bytes())
			assert.Equal(t, tt.title, ack.Notification.Title)
			assert.Equal(t, tt.desc, ack.Notification.Description)
			assert.Equal(t, tt.severity, ack.Notification.Severity)
			assert.Equal(t, tt.redirect, ack.Redirect)
		})
	}
}

func TestPortalAcknowledgements_FormBody(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{"email": {"v@example.com"}, "password": {"secret"}}
	rec := s.do(http.MethodPost, "/api/portal/verifier/login", strings.NewReader(form.Encode()), map[string]string{
		echo.HeaderContentType: echo.MIMEApplicationForm,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/verifier/dashboard", decodeAck(t, rec.Body.Bytes()).Redirect)
}

func TestPortalAcknowledgements_NotFound(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/portal/admin/signup",
		"/api/portal/student/login",
		"/api/admin/approvals/REQ999/approve",
		"/api/admin/approvals/REQ999/reject",
		"/api/blacklist/DOC999/recheck",
		"/api/blacklist/DOC999/confirm",
	} {
		rec := s.do(http.MethodPost, path, nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestHandleLogout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/portal/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ack := decodeAck(t, rec.Body.Bytes())
	assert.Equal(t, "/", ack.Redirect)
	assert.Empty(t, ack.Notification.Title)
}

func TestAcknowledgementReachesVisitFeed(t *testing.T) {
	s := newTestServer(t)
	snap := s.startVisit(t, "/contact")

	rec := s.do(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Ann"}`), map[string]string{
		HeaderVisitID: snap.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	visit, ok := s.visits.GetVisit(snap.ID)
	require.True(t, ok)
	pending := visit.Feed.Drain()
	require.Len(t, pending, 1)
	assert.Equal(t, "Message Sent!", pending[0].Title)

	// An unknown visit does not fail the request.
	rec = s.do(http.MethodPost, "/api/contact", nil, map[string]string{HeaderVisitID: "gone"})
	assert.Equal(t, http.StatusOK, rec.Code)
}
