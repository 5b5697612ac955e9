package session

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authentiq/portal/internal/models"
)

const chromeLinux = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.11 (KHTML, like Gecko) Chrome/23.0.1271.97 Safari/537.11"

func newTestManager(clock clockwork.Clock, maxVisits int) *Manager {
	return NewManager(Options{
		MaxVisits:   maxVisits,
		UploadDelay: 3 * time.Second,
		VerifyDelay: 3 * time.Second,
		Clock:       clock,
	})
}

func TestVisitManager(t *testing.T) {
	m := newTestManager(clockwork.NewFakeClock(), 10)

	visit := m.StartVisit("/verifier/verify", models.FlowVerify, chromeLinux)
	if visit.Desk == nil {
		t.Fatalf("Expected a desk on a flow page")
	}
	if visit.Preloader != nil {
		t.Errorf("Expected no preloader outside the landing page")
	}

	got, ok := m.GetVisit(visit.ID)
	if !ok {
		t.Fatalf("Visit not found")
	}
	if got != visit {
		t.Errorf("Expected the same visit back")
	}

	if !m.EndVisit(visit.ID) {
		t.Fatalf("Expected EndVisit to succeed")
	}
	if _, ok := m.GetVisit(visit.ID); ok {
		t.Errorf("Expected visit to be gone after EndVisit")
	}
	if m.EndVisit(visit.ID) {
		t.Errorf("Expected second EndVisit to report false")
	}
}

func TestVisitManager_NoDeskOnPlainPages(t *testing.T) {
	m := newTestManager(clockwork.NewFakeClock(), 10)

	visit := m.StartVisit("/about", models.FlowNone, "")

	assert.Nil(t, visit.Desk)
	assert.Empty(t, visit.Client)

	snap, err := m.Snapshot(visit.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.State)
	assert.Empty(t, snap.Staged)
	assert.Empty(t, snap.Results)
}

func TestVisitManager_Snapshot(t *testing.T) {
	m := newTestManager(clockwork.NewFakeClock(), 10)

	visit := m.StartVisit("/institution/upload", models.FlowUpload, chromeLinux)
	visit.Stager.Add(models.StagedFile{Name: "a.pdf", SizeBytes: 42})

	snap, err := m.Snapshot(visit.ID)
	require.NoError(t, err)
	assert.Equal(t, visit.ID, snap.ID)
	assert.Equal(t, models.FlowUpload, snap.Flow)
	assert.Equal(t, models.DeskIdle, snap.State)
	assert.Equal(t, models.DocumentTypeCertificate, snap.DocumentType)
	assert.Len(t, snap.Staged, 1)
	assert.Equal(t, "Chrome 23.0.1271.97 on Linux x86_64", snap.Client)

	_, err = m.Snapshot("missing")
	assert.ErrorIs(t, err, ErrVisitNotFound)
}

func TestVisitManager_PreloaderHidesAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(clock, 10)

	visit := m.StartVisit(LandingPage, models.FlowNone, "")
	require.NotNil(t, visit.Preloader)
	assert.True(t, visit.Preloader.Visible())

	clock.Advance(DefaultPreloaderDelay - time.Millisecond)
	assert.True(t, visit.Preloader.Visible())

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return !visit.Preloader.Visible() }, time.Second, 5*time.Millisecond)
}

func TestVisitManager_CleanupOldVisits(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(clock, 10)

	stale := m.StartVisit("/about", models.FlowNone, "")
	clock.Advance(20 * time.Minute)
	fresh := m.StartVisit("/contact", models.FlowNone, "")
	clock.Advance(15 * time.Minute)

	removed := m.CleanupOldVisits(30 * time.Minute)

	assert.Equal(t, 1, removed)
	_, ok := m.GetVisit(stale.ID)
	assert.False(t, ok)
	_, ok = m.GetVisit(fresh.ID)
	assert.True(t, ok)
}

func TestVisitManager_TouchKeepsVisitAlive(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(clock, 10)

	visit := m.StartVisit("/about", models.FlowNone, "")
	clock.Advance(25 * time.Minute)
	require.True(t, m.TouchVisit(visit.ID))
	clock.Advance(25 * time.Minute)

	assert.Equal(t, 0, m.CleanupOldVisits(30*time.Minute))
	assert.False(t, m.TouchVisit("missing"))
}

func TestVisitManager_CleanupSkipsBusyDesk(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(Options{VerifyDelay: time.Hour, Clock: clock})

	visit := m.StartVisit("/verifier/verify", models.FlowVerify, "")
	visit.Stager.Add(models.StagedFile{Name: "degree.pdf"})
	_, err := visit.Desk.Submit(context.Background())
	require.NoError(t, err)

	clock.Advance(45 * time.Minute)
	assert.Equal(t, 0, m.CleanupOldVisits(30*time.Minute))
	assert.Equal(t, 1, m.Count())
}

func TestVisitManager_EvictsLeastRecentlyUsed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(clock, 2)

	first := m.StartVisit("/about", models.FlowNone, "")
	clock.Advance(time.Minute)
	second := m.StartVisit("/contact", models.FlowNone, "")
	clock.Advance(time.Minute)
	m.TouchVisit(first.ID)
	clock.Advance(time.Minute)

	third := m.StartVisit("/how-it-works", models.FlowNone, "")

	assert.Equal(t, 2, m.Count())
	_, ok := m.GetVisit(second.ID)
	assert.False(t, ok, "least recently used visit should be evicted")
	_, ok = m.GetVisit(first.ID)
	assert.True(t, ok)
	_, ok = m.GetVisit(third.ID)
	assert.True(t, ok)
}

func TestVisitManager_TimerOutlivesVisit(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(clock, 10)

	visit := m.StartVisit("/verifier/verify", models.FlowVerify, "")
	visit.Stager.Add(models.StagedFile{Name: "late.pdf"})
	_, err := visit.Desk.Submit(context.Background())
	require.NoError(t, err)

	require.True(t, m.EndVisit(visit.ID))
	clock.Advance(3 * time.Second)

	assert.Eventually(t, func() bool { return visit.Desk.State() == models.DeskIdle }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, visit.Board.Len())
	assert.Empty(t, visit.Feed.Pending(), "closed feed drops late notifications")
}

func TestVisitManager_CleanupOldJobs(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := newTestManager(clock, 10)

	verify := m.StartVisit("/verifier/verify", models.FlowVerify, "")
	upload := m.StartVisit("/institution/upload", models.FlowUpload, "")
	m.StartVisit("/about", models.FlowNone, "")

	for _, v := range []*Visit{verify, upload} {
		v.Stager.Add(models.StagedFile{Name: "a.pdf"})
		_, err := v.Desk.Submit(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 0, m.CleanupOldJobs(time.Minute), "processing jobs are kept")

	clock.Advance(3 * time.Second)
	assert.Eventually(t, func() bool {
		return verify.Desk.State() == models.DeskIdle && upload.Desk.State() == models.DeskIdle
	}, time.Second, 5*time.Millisecond)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 2, m.CleanupOldJobs(time.Minute))
	assert.Empty(t, verify.Desk.Jobs())
	assert.Empty(t, upload.Desk.Jobs())
	assert.Equal(t, 3, m.Count())
}

func TestClientLabel(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"desktop chrome", chromeLinux, "Chrome 23.0.1271.97 on Linux x86_64"},
		{"bot", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot Googlebot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClientLabel(tt.header))
		})
	}
}
