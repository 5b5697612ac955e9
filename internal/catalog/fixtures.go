package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/authentiq/portal/internal/models"
)

//go:embed fixtures/catalog.yaml
var defaultFixtures []byte

// DashboardFixture holds the figures of one portal dashboard.
type DashboardFixture struct {
	Stats               []models.DashboardStat      `yaml:"stats"`
	RecentVerifications []models.RecentVerification `yaml:"recent_verifications"`
}

// Fixtures is the hard-coded sample data behind the dashboards.
type Fixtures struct {
	Blacklist  []models.BlacklistEntry     `yaml:"blacklist"`
	Approvals  []models.PendingInstitution `yaml:"approvals"`
	Dashboards map[string]DashboardFixture `yaml:"dashboards"`
}

// ParseFixtures decodes fixtures from YAML.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog fixtures: %w", err)
	}
	for i, entry := range f.Blacklist {
		if !entry.Status.Known() {
			return nil, fmt.Errorf("blacklist entry %d (%s): unknown status %q", i, entry.ID, entry.Status)
		}
	}
	return &f, nil
}

// DefaultFixtures returns the embedded sample data.
func DefaultFixtures() *Fixtures {
	f, err := ParseFixtures(defaultFixtures)
	if err != nil {
		panic(err)
	}
	return f
}
