// Package catalog serves the sample records shown on the portal dashboards.
package catalog

import (
	"context"
	"errors"

	"github.com/authentiq/portal/internal/models"
)

// ErrNotFound is returned when a record or dashboard does not exist.
var ErrNotFound = errors.New("not found")

// Catalog is read-only access to the sample records.
type Catalog interface {
	// Blacklist returns flagged documents whose student name, document type
	// or ID contains query, case-insensitively. An empty query matches all.
	Blacklist(ctx context.Context, query string) ([]models.BlacklistEntry, error)
	FindBlacklistEntry(ctx context.Context, id string) (models.BlacklistEntry, error)
	Approvals(ctx context.Context) ([]models.PendingInstitution, error)
	FindApproval(ctx context.Context, id string) (models.PendingInstitution, error)
	Dashboard(ctx context.Context, portal string) (models.Dashboard, error)
	Close() error
}
