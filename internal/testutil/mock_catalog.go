// mock_catalog.go - In-memory catalog implementation for testing
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/authentiq/portal/internal/catalog"
	"github.com/authentiq/portal/internal/models"
	"github.com/authentiq/portal/internal/results"
)

// MockCatalog implements catalog.Catalog over plain slices
type MockCatalog struct {
	fixtures *catalog.Fixtures
	mu       sync.RWMutex

	// Err, when set, is returned by every query
	Err error
	// Calls counts queries by method name
	Calls map[string]int
}

// NewMockCatalog creates a mock catalog holding the embedded sample data
func NewMockCatalog() *MockCatalog {
	return NewMockCatalogWith(catalog.DefaultFixtures())
}

// NewMockCatalogWith creates a mock catalog holding the given fixtures
func NewMockCatalogWith(f *catalog.Fixtures) *MockCatalog {
	return &MockCatalog{
		fixtures: f,
		Calls:    make(map[string]int),
	}
}

func (m *MockCatalog) record(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
	return m.Err
}

func (m *MockCatalog) Blacklist(ctx context.Context, query string) ([]models.BlacklistEntry, error) {
	if err := m.record("Blacklist"); err != nil {
		return nil, err
	}
	out := make([]models.BlacklistEntry, 0)
	query = strings.TrimSpace(query)
	for _, e := range m.fixtures.Blacklist {
		if results.Matches(query, e.StudentName, e.DocumentType, e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockCatalog) FindBlacklistEntry(ctx context.Context, id string) (models.BlacklistEntry, error) {
	if err := m.record("FindBlacklistEntry"); err != nil {
		return models.BlacklistEntry{}, err
	}
	for _, e := range m.fixtures.Blacklist {
		if e.ID == id {
			return e, nil
		}
	}
	return models.BlacklistEntry{}, fmt.Errorf("blacklist entry %s: %w", id, catalog.ErrNotFound)
}

func (m *MockCatalog) Approvals(ctx context.Context) ([]models.PendingInstitution, error) {
	if err := m.record("Approvals"); err != nil {
		return nil, err
	}
	out := make([]models.PendingInstitution, len(m.fixtures.Approvals))
	copy(out, m.fixtures.Approvals)
	return out, nil
}

func (m *MockCatalog) FindApproval(ctx context.Context, id string) (models.PendingInstitution, error) {
	if err := m.record("FindApproval"); err != nil {
		return models.PendingInstitution{}, err
	}
	for _, a := range m.fixtures.Approvals {
		if a.ID == id {
			return a, nil
		}
	}
	return models.PendingInstitution{}, fmt.Errorf("approval %s: %w", id, catalog.ErrNotFound)
}

func (m *MockCatalog) Dashboard(ctx context.Context, portal string) (models.Dashboard, error) {
	if err := m.record("Dashboard"); err != nil {
		return models.Dashboard{}, err
	}
	d, ok := m.fixtures.Dashboards[portal]
	if !ok {
		return models.Dashboard{}, fmt.Errorf("dashboard %s: %w", portal, catalog.ErrNotFound)
	}
	return models.Dashboard{
		Portal:              portal,
		Stats:               d.Stats,
		RecentVerifications: d.RecentVerifications,
	}, nil
}

func (m *MockCatalog) Close() error {
	return nil
}

// Ensure MockCatalog implements catalog.Catalog
var _ catalog.Catalog = (*MockCatalog)(nil)
