package playlist

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

	"playshot/internal/services"
)

const entryColumns = "id, name, enabled, screen_name, hashtag, created_at, updated_at"

// Store persists playlist entries in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to (or creates) the playlist database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure playlist db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// List returns every entry ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM playlists ORDER BY name`)
}

// Enabled returns the entries that should be captured, ordered by name.
func (s *Store) Enabled(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM playlists WHERE enabled = 1 ORDER BY name`)
}

// Get fetches a single entry. A missing id yields services.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM playlists WHERE id = ?`, strings.TrimSpace(id))
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}
	return entry, nil
}

// Upsert inserts the entry or replaces the stored fields of an existing id.
func (s *Store) Upsert(ctx context.Context, entry Entry) (*Entry, error) {
	normalized, err := normalizeEntry(entry)
	if err != nil {
		return nil, err
	}
	if err := upsert(ctx, s.db, normalized, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.Get(ctx, normalized.ID)
}

// SetEnabled toggles whether an entry is captured.
func (s *Store) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE playlists SET enabled = ?, updated_at = ? WHERE id = ?`,
		boolToInt(enabled), time.Now().UTC().Format(time.RFC3339Nano), strings.TrimSpace(id),
	)
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	return requireRow(res, id)
}

// Remove deletes an entry.
func (s *Store) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("remove playlist: %w", err)
	}
	return requireRow(res, id)
}

// Import upserts all entries in one transaction. Either every entry is
// stored or none is.
func (s *Store) Import(ctx context.Context, entries []Entry) (int, error) {
	normalized := make([]Entry, 0, len(entries))
	for _, e := range entries {
		n, err := normalizeEntry(e)
		if err != nil {
			return 0, err
		}
		normalized = append(normalized, n)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, e := range normalized {
		if err := upsert(ctx, tx, e, now); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(normalized), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, e Entry, now time.Time) error {
	ts := now.Format(time.RFC3339Nano)
	_, err := db.ExecContext(ctx,
		`INSERT INTO playlists (id, name, enabled, screen_name, hashtag, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             name = excluded.name,
             enabled = excluded.enabled,
             screen_name = excluded.screen_name,
             hashtag = excluded.hashtag,
             updated_at = excluded.updated_at`,
		e.ID, e.Name, boolToInt(e.Enabled), nullableString(e.ScreenName), nullableString(e.Hashtag), ts, ts,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: playlists.name") {
			return services.Wrap(services.ErrValidation, "playlist", "upsert",
				fmt.Sprintf("Playlist name %q already used by another id", e.Name), err)
		}
		return fmt.Errorf("upsert playlist %s: %w", e.ID, err)
	}
	return nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return entries, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		entry      Entry
		enabled    int64
		screenName sql.NullString
		hashtag    sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&entry.ID, &entry.Name, &enabled, &screenName, &hashtag, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	entry.Enabled = enabled != 0
	entry.ScreenName = screenName.String
	entry.Hashtag = hashtag.String
	entry.CreatedAt = parseTime(createdRaw)
	entry.UpdatedAt = parseTime(updatedRaw)
	return &entry, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

func notFound(id string) error {
	return services.Wrap(services.ErrNotFound, "playlist", "lookup", fmt.Sprintf("No playlist with id %q", strings.TrimSpace(id)), nil)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
