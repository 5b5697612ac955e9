package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marcboeker/go-duckdb"

	"github.com/authentiq/portal/internal/models"
)

var schema = []string{
	`CREATE TABLE blacklist (
		ord           INTEGER NOT NULL,
		id            VARCHAR PRIMARY KEY,
		student_name  VARCHAR NOT NULL,
		document_type VARCHAR NOT NULL,
		flagged_date  VARCHAR NOT NULL,
		flagged_by    VARCHAR NOT NULL,
		reason        VARCHAR NOT NULL,
		status        VARCHAR NOT NULL,
		confidence    INTEGER NOT NULL
	)`,
	`CREATE TABLE approvals (
		ord              INTEGER NOT NULL,
		id               VARCHAR PRIMARY KEY,
		institution_name VARCHAR NOT NULL,
		contact_person   VARCHAR NOT NULL,
		email            VARCHAR NOT NULL,
		phone            VARCHAR NOT NULL,
		submitted_date   VARCHAR NOT NULL,
		status           VARCHAR NOT NULL
	)`,
	`CREATE TABLE dashboard_stats (
		portal      VARCHAR NOT NULL,
		ord         INTEGER NOT NULL,
		title       VARCHAR NOT NULL,
		stat_value  VARCHAR NOT NULL,
		stat_change VARCHAR NOT NULL
	)`,
	`CREATE TABLE recent_verifications (
		portal      VARCHAR NOT NULL,
		ord         INTEGER NOT NULL,
		id          VARCHAR NOT NULL,
		document    VARCHAR NOT NULL,
		status      VARCHAR NOT NULL,
		verified_on VARCHAR NOT NULL
	)`,
}

const blacklistColumns = "id, student_name, document_type, flagged_date, flagged_by, reason, status, confidence"

const approvalColumns = "id, institution_name, contact_person, email, phone, submitted_date, status"

var _ Catalog = (*DuckCatalog)(nil)

// DuckCatalog keeps the fixtures in an in-memory DuckDB database.
type DuckCatalog struct {
	db  *sql.DB
	log *slog.Logger
}

// NewDuckCatalog creates an in-memory database and loads fixtures into it.
func NewDuckCatalog(ctx context.Context, fixtures *Fixtures, logger *slog.Logger) (*DuckCatalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "catalog")

	// An empty path opens an in-memory database shared by all pool connections.
	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA threads=1",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create catalog tables: %w", err)
		}
	}

	c := &DuckCatalog{db: db, log: log}
	if err := c.load(ctx, fixtures); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("catalog loaded",
		"blacklist", len(fixtures.Blacklist),
		"approvals", len(fixtures.Approvals),
		"dashboards", len(fixtures.Dashboards))
	return c, nil
}

func (c *DuckCatalog) load(ctx context.Context, f *Fixtures) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin fixture load: %w", err)
	}
	defer tx.Rollback()

	for i, e := range f.Blacklist {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO blacklist (ord, "+blacklistColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			i, e.ID, e.StudentName, e.DocumentType, e.FlaggedDate, e.FlaggedBy, e.Reason, string(e.Status), e.Confidence,
		); err != nil {
			return fmt.Errorf("failed to insert blacklist entry %s: %w", e.ID, err)
		}
	}

	for i, a := range f.Approvals {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO approvals (ord, "+approvalColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			i, a.ID, a.InstitutionName, a.ContactPerson, a.Email, a.Phone, a.SubmittedDate, a.Status,
		); err != nil {
			return fmt.Errorf("failed to insert approval %s: %w", a.ID, err)
		}
	}

	for portal, d := range f.Dashboards {
		for i, s := range d.Stats {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO dashboard_stats (portal, ord, title, stat_value, stat_change) VALUES (?, ?, ?, ?, ?)",
				portal, i, s.Title, s.Value, s.Change,
			); err != nil {
				return fmt.Errorf("failed to insert %s stat: %w", portal, err)
			}
		}
		for i, r := range d.RecentVerifications {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO recent_verifications (portal, ord, id, document, status, verified_on) VALUES (?, ?, ?, ?, ?, ?)",
				portal, i, r.ID, r.Document, string(r.Status), r.Date,
			); err != nil {
				return fmt.Errorf("failed to insert %s recent verification: %w", portal, err)
			}
		}
	}

	return tx.Commit()
}

// Blacklist implements Catalog.
func (c *DuckCatalog) Blacklist(ctx context.Context, query string) ([]models.BlacklistEntry, error) {
	q := "SELECT " + blacklistColumns + " FROM blacklist"
	var args []interface{}

	if term := strings.TrimSpace(query); term != "" {
		q += " WHERE contains(lower(student_name), lower(?)) OR contains(lower(document_type), lower(?)) OR contains(lower(id), lower(?))"
		args = append(args, term, term, term)
	}
	q += " ORDER BY ord"

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query blacklist: %w", err)
	}
	defer rows.Close()

	entries := make([]models.BlacklistEntry, 0)
	for rows.Next() {
		e, err := scanBlacklist(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindBlacklistEntry implements Catalog.
func (c *DuckCatalog) FindBlacklistEntry(ctx context.Context, id string) (models.BlacklistEntry, error) {
	row := c.db.QueryRowContext(ctx, "SELECT "+blacklistColumns+" FROM blacklist WHERE id = ?", id)
	e, err := scanBlacklist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BlacklistEntry{}, fmt.Errorf("blacklist entry %s: %w", id, ErrNotFound)
	}
	return e, err
}

// Approvals implements Catalog.
func (c *DuckCatalog) Approvals(ctx context.Context) ([]models.PendingInstitution, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT "+approvalColumns+" FROM approvals ORDER BY ord")
	if err != nil {
		return nil, fmt.Errorf("failed to query approvals: %w", err)
	}
	defer rows.Close()

	out := make([]models.PendingInstitution, 0)
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// FindApproval implements Catalog.
func (c *DuckCatalog) FindApproval(ctx context.Context, id string) (models.PendingInstitution, error) {
	row := c.db.QueryRowContext(ctx, "SELECT "+approvalColumns+" FROM approvals WHERE id = ?", id)
	a, err := scanApproval(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PendingInstitution{}, fmt.Errorf("approval %s: %w", id, ErrNotFound)
	}
	return a, err
}

// Dashboard implements Catalog.
func (c *DuckCatalog) Dashboard(ctx context.Context, portal string) (models.Dashboard, error) {
	d := models.Dashboard{
		Portal: portal,
		Stats:  make([]models.DashboardStat, 0),
	}

	rows, err := c.db.QueryContext(ctx,
		"SELECT title, stat_value, stat_change FROM dashboard_stats WHERE portal = ? ORDER BY ord", portal)
	if err != nil {
		return d, fmt.Errorf("failed to query dashboard stats: %w", err)
	}
	for rows.Next() {
		var s models.DashboardStat
		if err := rows.Scan(&s.Title, &s.Value, &s.Change); err != nil {
			rows.Close()
			return d, fmt.Errorf("failed to scan dashboard stat: %w", err)
		}
		d.Stats = append(d.Stats, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return d, err
	}

	rows, err = c.db.QueryContext(ctx,
		"SELECT id, document, status, verified_on FROM recent_verifications WHERE portal = ? ORDER BY ord", portal)
	if err != nil {
		return d, fmt.Errorf("failed to query recent verifications: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			r      models.RecentVerification
			status string
		)
		if err := rows.Scan(&r.ID, &r.Document, &status, &r.Date); err != nil {
			return d, fmt.Errorf("failed to scan recent verification: %w", err)
		}
		r.Status = models.StatusLabel(status)
		d.RecentVerifications = append(d.RecentVerifications, r)
	}
	if err := rows.Err(); err != nil {
		return d, err
	}

	if len(d.Stats) == 0 && len(d.RecentVerifications) == 0 {
		return d, fmt.Errorf("dashboard %s: %w", portal, ErrNotFound)
	}
	return d, nil
}

// Close releases the database.
func (c *DuckCatalog) Close() error {
	return c.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBlacklist(s scanner) (models.BlacklistEntry, error) {
	var (
		e      models.BlacklistEntry
		status string
	)
	if err := s.Scan(&e.ID, &e.StudentName, &e.DocumentType, &e.FlaggedDate, &e.FlaggedBy, &e.Reason, &status, &e.Confidence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, err
		}
		return e, fmt.Errorf("failed to scan blacklist entry: %w", err)
	}
	e.Status = models.StatusLabel(status)
	return e, nil
}

func scanApproval(s scanner) (models.PendingInstitution, error) {
	var a models.PendingInstitution
	if err := s.Scan(&a.ID, &a.InstitutionName, &a.ContactPerson, &a.Email, &a.Phone, &a.SubmittedDate, &a.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("failed to scan approval: %w", err)
	}
	return a, nil
}
