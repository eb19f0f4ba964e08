// Package store persists postings in sqlite and enforces deduplication
// through a UNIQUE constraint on the posting fingerprint.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sdumal/JobParserEzh/internal/source"
)

// Store is the persistent set of seen postings.
type Store struct {
	db *sql.DB
}

// Job is a persisted posting row.
type Job struct {
	ID          int64
	Title       string
	Description string
	Link        string
	Source      string
	Location    string
	Company     string
	Tags        string
	Published   time.Time // zero when the source carried no date
	CreatedAt   time.Time
	Fingerprint string
	Delivered   bool
}

// Open opens (creating if needed) the sqlite database at path and applies
// the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert persists a posting and returns true if it was new. A fingerprint
// already present is the normal duplicate signal: the row is left untouched
// and Insert returns (false, nil). The uniqueness check lives in the schema,
// not here, so it holds under concurrent writers too.
func (s *Store) Insert(ctx context.Context, p source.Posting) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var published sql.NullString
	if !p.Published.IsZero() {
		published = sql.NullString{String: formatTime(p.Published), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (title, description, link, source, location, company, tags, published, created_at, fingerprint)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.Title,
		p.Description,
		p.Link,
		p.Source,
		p.Location,
		p.Company,
		p.Tags,
		published,
		formatTime(time.Now()),
		p.Fingerprint(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert job: %w", err)
	}

	return true, nil
}

// Undelivered returns postings ingested within maxAge of now whose delivered
// flag is unset, most recent first.
func (s *Store) Undelivered(ctx context.Context, maxAge time.Duration) ([]Job, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cutoff := formatTime(time.Now().Add(-maxAge))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, link, source, location, company, tags, published, created_at, fingerprint, delivered
		FROM jobs
		WHERE created_at > ? AND delivered = 0
		ORDER BY created_at DESC, id DESC
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query undelivered: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate undelivered: %w", err)
	}

	return jobs, nil
}

// MarkDelivered sets the delivered flag for each fingerprint. Fingerprints
// not present in the store are silently ignored.
func (s *Store) MarkDelivered(ctx context.Context, fingerprints []string) error {
	if s == nil || s.db == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if len(fingerprints) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, fp := range fingerprints {
		if _, err := tx.ExecContext(ctx, "UPDATE jobs SET delivered = 1 WHERE fingerprint = ?", fp); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("mark delivered: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mark delivered: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(scanner rowScanner) (Job, error) {
	var (
		job                      Job
		description, location    sql.NullString
		company, tags, published sql.NullString
		createdAt                string
		delivered                int
	)

	if err := scanner.Scan(
		&job.ID,
		&job.Title,
		&description,
		&job.Link,
		&job.Source,
		&location,
		&company,
		&tags,
		&published,
		&createdAt,
		&job.Fingerprint,
		&delivered,
	); err != nil {
		return Job{}, fmt.Errorf("scan job: %w", err)
	}

	job.Description = description.String
	job.Location = location.String
	job.Company = company.String
	job.Tags = tags.String
	job.Delivered = delivered != 0

	var err error
	if published.Valid {
		job.Published, err = parseTime(published.String)
		if err != nil {
			return Job{}, fmt.Errorf("parse published: %w", err)
		}
	}
	job.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return Job{}, fmt.Errorf("parse created_at: %w", err)
	}

	return job, nil
}

// isUniqueViolation reports whether err is the sqlite UNIQUE constraint
// error raised for a duplicate fingerprint.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// timeLayout keeps the fractional part fixed-width so stored timestamps
// compare lexicographically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339, value)
}
