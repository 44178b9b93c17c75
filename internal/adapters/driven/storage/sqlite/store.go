// Package sqlite implements the record store on SQLite with an FTS5
// full-text index. The index is maintained by triggers co-located with
// every insert, update and delete, so it can never observably diverge
// from the primary table between two store operations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// requestQueueSize bounds the number of queued store operations.
const requestQueueSize = 64

// Store is a SQLite-backed capture record store. All operations are
// serialized through a single worker goroutine that owns the database
// handle; public methods submit work and wait for the reply, so the
// engine is only ever touched by one logical thread at a time.
type Store struct {
	db   *sql.DB
	path string

	reqs       chan func(*sql.DB)
	done       chan struct{}
	workerDone chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewStore opens (or creates) the store at dataDir/captures.db.
// If dataDir is empty, defaults to ~/.recapd/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".recapd", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "captures.db")

	// WAL mode for concurrent readers, busy timeout for the writer.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		reqs:       make(chan func(*sql.DB), requestQueueSize),
		done:       make(chan struct{}),
		workerDone: make(chan struct{}),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	// Rebuild the index from the content table at open, so a database
	// written by an older build or recovered from backup starts in sync.
	if _, err := db.Exec("INSERT INTO captures_fts(captures_fts) VALUES ('rebuild')"); err != nil {
		db.Close()
		return nil, fmt.Errorf("rebuilding search index: %w", err)
	}

	go s.run()
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close shuts down the worker and the database. Operations already queued
// complete before the handle is closed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	<-s.workerDone
	return s.db.Close()
}

// run is the single worker loop. On shutdown it drains the queue so no
// submitted operation is left without a reply.
func (s *Store) run() {
	defer close(s.workerDone)
	for {
		select {
		case fn := <-s.reqs:
			fn(s.db)
		case <-s.done:
			for {
				select {
				case fn := <-s.reqs:
					fn(s.db)
				default:
					return
				}
			}
		}
	}
}

// do submits fn to the worker queue and waits for its reply.
func (s *Store) do(ctx context.Context, fn func(db *sql.DB) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return domain.ErrStoreClosed
	}

	errCh := make(chan error, 1)
	req := func(db *sql.DB) { errCh <- fn(db) }

	select {
	case s.reqs <- req:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// migrate creates the schema. Versioned via user_version so future schema
// changes can build on it.
func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("getting user_version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS captures (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			observed_at     INTEGER NOT NULL,
			summary         TEXT NOT NULL CHECK (length(summary) > 0),
			screenshot_path TEXT NOT NULL DEFAULT '',
			app_name        TEXT NOT NULL DEFAULT '',
			window_title    TEXT NOT NULL DEFAULT '',
			recorded_at     INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_captures_recorded_at
		ON captures(recorded_at);

		CREATE VIRTUAL TABLE IF NOT EXISTS captures_fts USING fts5(
			summary,
			app_name,
			window_title,
			content='captures',
			content_rowid='id'
		);

		CREATE TRIGGER IF NOT EXISTS captures_ai AFTER INSERT ON captures BEGIN
			INSERT INTO captures_fts(rowid, summary, app_name, window_title)
			VALUES (NEW.id, NEW.summary, NEW.app_name, NEW.window_title);
		END;

		CREATE TRIGGER IF NOT EXISTS captures_ad AFTER DELETE ON captures BEGIN
			INSERT INTO captures_fts(captures_fts, rowid, summary, app_name, window_title)
			VALUES ('delete', OLD.id, OLD.summary, OLD.app_name, OLD.window_title);
		END;

		CREATE TRIGGER IF NOT EXISTS captures_au AFTER UPDATE ON captures BEGIN
			INSERT INTO captures_fts(captures_fts, rowid, summary, app_name, window_title)
			VALUES ('delete', OLD.id, OLD.summary, OLD.app_name, OLD.window_title);
			INSERT INTO captures_fts(rowid, summary, app_name, window_title)
			VALUES (NEW.id, NEW.summary, NEW.app_name, NEW.window_title);
		END;
		`
		if _, err := s.db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := s.db.Exec("PRAGMA user_version = 1"); err != nil {
			return fmt.Errorf("setting user_version: %w", err)
		}
	}

	return nil
}

// Insert stores a record and returns its assigned id.
func (s *Store) Insert(ctx context.Context, rec *domain.CaptureRecord) (int64, error) {
	if rec == nil || strings.TrimSpace(rec.Summary) == "" {
		return 0, fmt.Errorf("%w: summary must not be empty", domain.ErrInvalidInput)
	}

	var id int64
	err := s.do(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `
			INSERT INTO captures (observed_at, summary, screenshot_path, app_name, window_title, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.ObservedAt.UnixNano(), rec.Summary, rec.ScreenshotPath,
			rec.AppName, rec.WindowTitle, rec.RecordedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

const recordColumns = "id, observed_at, summary, screenshot_path, app_name, window_title, recorded_at"

// FetchRecent returns records ordered by id descending. Ordering is by id
// rather than timestamp so pagination stays consistent for historical rows
// with absent or out-of-order timestamps.
func (s *Store) FetchRecent(ctx context.Context, limit, offset int) ([]domain.CaptureRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var records []domain.CaptureRecord
	err := s.do(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT `+recordColumns+`
			FROM captures
			ORDER BY id DESC
			LIMIT ? OFFSET ?
		`, limit, offset)
		if err != nil {
			return fmt.Errorf("querying records: %w", err)
		}
		defer rows.Close()

		records, err = scanRecords(rows)
		return err
	})
	return records, err
}

// FetchToday returns records persisted since the start of the local day.
func (s *Store) FetchToday(ctx context.Context) ([]domain.CaptureRecord, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var records []domain.CaptureRecord
	err := s.do(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT `+recordColumns+`
			FROM captures
			WHERE recorded_at >= ?
			ORDER BY id DESC
		`, dayStart.UnixNano())
		if err != nil {
			return fmt.Errorf("querying today's records: %w", err)
		}
		defer rows.Close()

		records, err = scanRecords(rows)
		return err
	})
	return records, err
}

// FetchInRange returns records with RecordedAt within the inclusive
// bounds. The bounds are validated before the query reaches the worker.
func (s *Store) FetchInRange(ctx context.Context, start, end time.Time) ([]domain.CaptureRecord, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start is after end", domain.ErrInvalidInput)
	}

	var records []domain.CaptureRecord
	err := s.do(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT `+recordColumns+`
			FROM captures
			WHERE recorded_at >= ? AND recorded_at <= ?
			ORDER BY id DESC
		`, start.UnixNano(), end.UnixNano())
		if err != nil {
			return fmt.Errorf("querying range: %w", err)
		}
		defer rows.Close()

		records, err = scanRecords(rows)
		return err
	})
	return records, err
}

// Search runs a full-text query over summary, application name and window
// title, ranked by FTS5 relevance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]domain.CaptureRecord, error) {
	match := buildMatchQuery(query)
	if match == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = 50
	}

	var records []domain.CaptureRecord
	err := s.do(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `
			SELECT c.id, c.observed_at, c.summary, c.screenshot_path, c.app_name, c.window_title, c.recorded_at
			FROM captures c
			JOIN captures_fts fts ON c.id = fts.rowid
			WHERE captures_fts MATCH ?
			ORDER BY rank
			LIMIT ?
		`, match, limit)
		if err != nil {
			return fmt.Errorf("searching records: %w", err)
		}
		defer rows.Close()

		records, err = scanRecords(rows)
		return err
	})
	return records, err
}

// buildMatchQuery turns user input into an FTS5 MATCH expression. Each
// whitespace-delimited token becomes an independent quoted prefix term;
// tokens are OR-combined.
func buildMatchQuery(query string) string {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return ""
	}
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = `"` + strings.ReplaceAll(tok, `"`, `""`) + `"*`
	}
	return strings.Join(terms, " OR ")
}

// Delete removes one record. The FTS delete trigger fires in the same
// statement, so index and table cannot disagree.
func (s *Store) Delete(ctx context.Context, id int64) error {
	return s.do(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, "DELETE FROM captures WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("deleting record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading rows affected: %w", err)
		}
		if n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// DeleteMany removes a set of records in one transaction and returns the
// screenshot paths of the removed rows.
func (s *Store) DeleteMany(ctx context.Context, ids []int64) (int, []string, error) {
	if len(ids) == 0 {
		return 0, nil, nil
	}

	var (
		count int
		paths []string
	)
	err := s.do(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
		args := make([]any, len(ids))
		for i, id := range ids {
			args[i] = id
		}

		rows, err := tx.QueryContext(ctx,
			"SELECT screenshot_path FROM captures WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return fmt.Errorf("querying screenshot paths: %w", err)
		}
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return fmt.Errorf("scanning screenshot path: %w", err)
			}
			if p != "" {
				paths = append(paths, p)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating screenshot paths: %w", err)
		}
		rows.Close()

		res, err := tx.ExecContext(ctx,
			"DELETE FROM captures WHERE id IN ("+placeholders+")", args...)
		if err != nil {
			return fmt.Errorf("deleting records: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading rows affected: %w", err)
		}
		count = int(n)

		return tx.Commit()
	})
	if err != nil {
		return 0, nil, err
	}
	return count, paths, nil
}

// DeleteOlderThan removes records recorded strictly before cutoff.
// Records recorded exactly at cutoff are retained.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, []string, error) {
	var (
		count int
		paths []string
	)
	err := s.do(ctx, func(db *sql.DB) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		rows, err := tx.QueryContext(ctx,
			"SELECT screenshot_path FROM captures WHERE recorded_at < ?", cutoff.UnixNano())
		if err != nil {
			return fmt.Errorf("querying screenshot paths: %w", err)
		}
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return fmt.Errorf("scanning screenshot path: %w", err)
			}
			if p != "" {
				paths = append(paths, p)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("iterating screenshot paths: %w", err)
		}
		rows.Close()

		res, err := tx.ExecContext(ctx,
			"DELETE FROM captures WHERE recorded_at < ?", cutoff.UnixNano())
		if err != nil {
			return fmt.Errorf("deleting old records: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading rows affected: %w", err)
		}
		count = int(n)

		return tx.Commit()
	})
	if err != nil {
		return 0, nil, err
	}
	return count, paths, nil
}

// Statistics aggregates the stored records.
func (s *Store) Statistics(ctx context.Context) (*domain.Statistics, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &domain.Statistics{}
	err := s.do(ctx, func(db *sql.DB) error {
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM captures").Scan(&stats.TotalCount); err != nil {
			return fmt.Errorf("counting records: %w", err)
		}

		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM captures WHERE recorded_at >= ?",
			dayStart.UnixNano()).Scan(&stats.TodayCount); err != nil {
			return fmt.Errorf("counting today's records: %w", err)
		}

		rows, err := db.QueryContext(ctx, `
			SELECT app_name, COUNT(*) AS cnt
			FROM captures
			WHERE app_name != ''
			GROUP BY app_name
			ORDER BY cnt DESC
			LIMIT 10
		`)
		if err != nil {
			return fmt.Errorf("querying app counts: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var ac domain.AppCount
			if err := rows.Scan(&ac.AppName, &ac.Count); err != nil {
				return fmt.Errorf("scanning app count: %w", err)
			}
			stats.AppCounts = append(stats.AppCounts, ac)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating app counts: %w", err)
		}

		var first, last sql.NullInt64
		if err := db.QueryRowContext(ctx,
			"SELECT MIN(recorded_at), MAX(recorded_at) FROM captures").Scan(&first, &last); err != nil {
			return fmt.Errorf("querying date range: %w", err)
		}
		if first.Valid {
			stats.FirstRecordedAt = time.Unix(0, first.Int64)
		}
		if last.Valid {
			stats.LastRecordedAt = time.Unix(0, last.Int64)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// scanRecords reads capture rows in recordColumns order.
func scanRecords(rows *sql.Rows) ([]domain.CaptureRecord, error) {
	var records []domain.CaptureRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			rec      domain.CaptureRecord
			observed int64
			recorded int64
		)
		if err := rows.Scan(&rec.ID, &observed, &rec.Summary, &rec.ScreenshotPath,
			&rec.AppName, &rec.WindowTitle, &recorded); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.ObservedAt = time.Unix(0, observed)
		rec.RecordedAt = time.Unix(0, recorded)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
