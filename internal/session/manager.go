// Package session keeps the per-page visit state of the portal in memory.
package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/authentiq/portal/internal/metrics"
	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/notify"
	"github.com/authentiq/portal/internal/results"
	"github.com/authentiq/portal/internal/staging"
	"github.com/authentiq/portal/internal/upload"
)

// DefaultMaxVisits limits concurrent visits to prevent memory exhaustion.
const DefaultMaxVisits = 1000

// LandingPage is the page that owns a preloader.
const LandingPage = "/"

// Options configures a Manager. Zero values select defaults.
type Options struct {
	MaxVisits      int
	UploadDelay    time.Duration
	VerifyDelay    time.Duration
	PreloaderDelay time.Duration
	Clock          clockwork.Clock
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
}

// Visit is the state owned by one page view. Everything hanging off a visit
// is private to it and discarded when the visit ends.
type Visit struct {
	ID        string
	Page      string
	Flow      models.Flow
	Client    string
	CreatedAt time.Time

	Stager    *staging.Stager
	Board     *results.Board
	Feed      *notify.Feed
	Desk      *upload.Desk // nil on pages without a flow
	Preloader *Preloader   // nil except on the landing page

	lastAccessed time.Time
}

// Manager handles active page visits.
type Manager struct {
	visits map[string]*Visit
	mu     sync.RWMutex
	opts   Options
	log    *slog.Logger
}

// NewManager creates a visit manager.
func NewManager(opts Options) *Manager {
	if opts.MaxVisits <= 0 {
		opts.MaxVisits = DefaultMaxVisits
	}
	if opts.PreloaderDelay <= 0 {
		opts.PreloaderDelay = DefaultPreloaderDelay
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Manager{
		visits: make(map[string]*Visit),
		opts:   opts,
		log:    opts.Logger.With("component", "visits"),
	}
}

// StartVisit creates the state for a new page view.
func (m *Manager) StartVisit(page string, flow models.Flow, userAgent string) *Visit {
	m.evictIfNeeded()

	now := m.opts.Clock.Now()
	visit := &Visit{
		ID:           uuid.New().String(),
		Page:         page,
		Flow:         flow,
		Client:       ClientLabel(userAgent),
		CreatedAt:    now,
		Stager:       staging.NewStager(),
		Board:        results.NewBoard(),
		lastAccessed: now,
	}
	visit.Feed = notify.NewFeed(m.opts.Clock, func(n models.Notification) {
		m.opts.Metrics.IncrementNotification(string(n.Severity))
	})

	if flow != models.FlowNone {
		visit.Desk = upload.NewDesk(flow, visit.Stager, visit.Board, visit.Feed, upload.Options{
			Delay:   m.delayFor(flow),
			Clock:   m.opts.Clock,
			Logger:  m.opts.Logger.With("visit", visit.ID[:8]),
			Metrics: m.opts.Metrics,
		})
	}
	if page == LandingPage {
		visit.Preloader = NewPreloader(m.opts.Clock, m.opts.PreloaderDelay)
	}

	m.mu.Lock()
	m.visits[visit.ID] = visit
	count := len(m.visits)
	m.mu.Unlock()

	m.opts.Metrics.SetActiveVisits(count)
	m.log.Debug("visit started", "visit", visit.ID[:8], "page", page, "flow", string(flow), "client", visit.Client)
	return visit
}

func (m *Manager) delayFor(flow models.Flow) time.Duration {
	switch flow {
	case models.FlowUpload:
		return m.opts.UploadDelay
	case models.FlowVerify:
		return m.opts.VerifyDelay
	default:
		return 0
	}
}

// GetVisit retrieves a visit by ID and marks it as accessed.
func (m *Manager) GetVisit(id string) (*Visit, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	visit, ok := m.visits[id]
	if !ok {
		return nil, false
	}
	visit.lastAccessed = m.opts.Clock.Now()
	return visit, true
}

// TouchVisit updates the last accessed time of a visit.
func (m *Manager) TouchVisit(id string) bool {
	_, ok := m.GetVisit(id)
	return ok
}

// EndVisit discards a visit. A batch still being processed completes into
// the discarded state.
func (m *Manager) EndVisit(id string) bool {
	m.mu.Lock()
	visit, ok := m.visits[id]
	if ok {
		delete(m.visits, id)
	}
	count := len(m.visits)
	m.mu.Unlock()

	if !ok {
		return false
	}
	visit.Feed.Close()
	m.opts.Metrics.SetActiveVisits(count)
	m.log.Debug("visit ended", "visit", id[:8])
	return true
}

// Snapshot returns the externally visible state of a visit.
func (m *Manager) Snapshot(id string) (models.VisitSnapshot, error) {
	m.mu.RLock()
	visit, ok := m.visits[id]
	var lastAccessed time.Time
	if ok {
		lastAccessed = visit.lastAccessed
	}
	m.mu.RUnlock()

	if !ok {
		return models.VisitSnapshot{}, fmt.Errorf("visit %s: %w", id, ErrVisitNotFound)
	}

	snap := models.VisitSnapshot{
		ID:               visit.ID,
		Page:             visit.Page,
		Flow:             visit.Flow,
		Client:           visit.Client,
		Staged:           visit.Stager.Files(),
		Results:          visit.Board.List(),
		PreloaderVisible: visit.Preloader.Visible(),
		CreatedAt:        visit.CreatedAt,
		LastAccessed:     lastAccessed,
	}
	if visit.Desk != nil {
		snap.State = visit.Desk.State()
		if visit.Flow == models.FlowUpload {
			snap.DocumentType = visit.Desk.DocumentType()
		}
	}
	return snap, nil
}

// Count returns the number of live visits.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.visits)
}

// CleanupOldVisits removes visits idle longer than maxAge. Visits with a busy
// desk are kept until their batch completes.
func (m *Manager) CleanupOldVisits(maxAge time.Duration) int {
	now := m.opts.Clock.Now()
	cutoff := now.Add(-maxAge)

	m.mu.Lock()
	var removed []*Visit
	for id, visit := range m.visits {
		if visit.busy() || !visit.lastAccessed.Before(cutoff) {
			continue
		}
		delete(m.visits, id)
		removed = append(removed, visit)
	}
	count := len(m.visits)
	m.mu.Unlock()

	for _, visit := range removed {
		visit.Feed.Close()
		m.log.Info("cleaned up idle visit", "visit", visit.ID[:8],
			"idle", now.Sub(visit.lastAccessed).Round(time.Second))
	}
	if len(removed) > 0 {
		m.opts.Metrics.SetActiveVisits(count)
	}
	return len(removed)
}

// CleanupOldJobs drops finished desk jobs older than maxAge from every live
// visit. Jobs still processing are kept.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.RLock()
	desks := make([]*upload.Desk, 0, len(m.visits))
	for _, visit := range m.visits {
		if visit.Desk != nil {
			desks = append(desks, visit.Desk)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, d := range desks {
		removed += d.CleanupOldJobs(maxAge)
	}
	return removed
}

// evictIfNeeded frees room for one more visit by dropping the least recently
// used visits whose desk is idle.
func (m *Manager) evictIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.visits) < m.opts.MaxVisits {
		return
	}

	candidates := make([]*Visit, 0, len(m.visits))
	for _, visit := range m.visits {
		if !visit.busy() {
			candidates = append(candidates, visit)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastAccessed.Before(candidates[j].lastAccessed)
	})

	toFree := len(m.visits) - m.opts.MaxVisits + 1
	for _, visit := range candidates {
		if toFree == 0 {
			break
		}
		delete(m.visits, visit.ID)
		visit.Feed.Close()
		toFree--
		m.log.Info("evicted visit to free memory", "visit", visit.ID[:8])
	}
}

func (v *Visit) busy() bool {
	return v.Desk != nil && v.Desk.State() == models.DeskBusy
}
