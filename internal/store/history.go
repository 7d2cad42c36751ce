// Package store provides a SQLite-backed history of computed plans.
// Runs are keyed by a household fingerprint so an unchanged household can
// reuse its last report instead of being recomputed.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when no run matches a lookup.
var ErrNotFound = errors.New("run not found")

// Run is one stored plan computation.
type Run struct {
	ID            string
	Fingerprint   string
	Household     string
	Strategy      string
	Nominal       string
	Mode          string
	Income        decimal.Decimal
	Residual      decimal.Decimal
	InterestSaved decimal.Decimal
	MonthsSaved   int
	ExitDate      string
	Report        []byte // JSON-encoded plan
	CreatedAt     time.Time
}

// History provides SQLite-backed plan run storage.
type History struct {
	db *sql.DB
}

// Open opens or creates the history database at the given path.
func Open(dbPath string) (*History, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &History{db: db}, nil
}

// Close closes the history database.
func (h *History) Close() error {
	return h.db.Close()
}

// SaveRun stores a run, assigning an ID and timestamp when missing.
// It returns the stored run ID.
func (h *History) SaveRun(r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	_, err := h.db.Exec(`INSERT OR REPLACE INTO plan_runs
		(run_id, fingerprint, household, strategy, nominal, mode,
		 income, residual, interest_saved, months_saved, exit_date,
		 report_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Fingerprint, r.Household, r.Strategy, r.Nominal, r.Mode,
		r.Income.String(), r.Residual.String(), r.InterestSaved.String(), r.MonthsSaved, r.ExitDate,
		string(r.Report), r.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	return r.ID, nil
}

const runColumns = `run_id, fingerprint, household, strategy, nominal, mode,
	income, residual, interest_saved, months_saved, exit_date, report_json, created_at`

// LatestForFingerprint returns the newest run computed from the same inputs.
func (h *History) LatestForFingerprint(fingerprint string) (Run, error) {
	row := h.db.QueryRow(`SELECT `+runColumns+` FROM plan_runs
		WHERE fingerprint = ? ORDER BY created_at DESC LIMIT 1`, fingerprint)
	return scanRun(row)
}

// Get returns a run by ID or by a unique ID prefix.
func (h *History) Get(idOrPrefix string) (Run, error) {
	if idOrPrefix == "" {
		return Run{}, ErrNotFound
	}
	rows, err := h.db.Query(`SELECT `+runColumns+` FROM plan_runs
		WHERE run_id LIKE ? ORDER BY created_at DESC LIMIT 2`, escapeLike(idOrPrefix)+"%")
	if err != nil {
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, ErrNotFound
	case 1:
		return found[0], nil
	}
	if found[0].ID == idOrPrefix {
		return found[0], nil
	}
	return Run{}, fmt.Errorf("run prefix %q is ambiguous", idOrPrefix)
}

// Recent returns up to limit runs, newest first.
func (h *History) Recent(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(`SELECT `+runColumns+` FROM plan_runs
		ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Count returns the number of stored runs.
func (h *History) Count() (int, error) {
	var n int
	err := h.db.QueryRow("SELECT COUNT(*) FROM plan_runs").Scan(&n)
	return n, err
}

// PruneBefore deletes runs created before cutoff and reports how many.
func (h *History) PruneBefore(cutoff time.Time) (int64, error) {
	res, err := h.db.Exec("DELETE FROM plan_runs WHERE created_at < ?", cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var r Run
	var report, created string
	err := s.Scan(&r.ID, &r.Fingerprint, &r.Household, &r.Strategy, &r.Nominal, &r.Mode,
		&r.Income, &r.Residual, &r.InterestSaved, &r.MonthsSaved, &r.ExitDate,
		&report, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	r.Report = []byte(report)
	r.CreatedAt, _ = time.Parse(timeLayout, created)
	return r, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}

// DefaultPath returns the platform-appropriate history database path.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "halos", "history.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "halos", "history.db")
}
