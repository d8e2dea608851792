// Package store keeps a local SQLite history of discovered items.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const defaultRecentLimit = 50

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db *sql.DB
}

// Item is a stored discovery record.
type Item struct {
	ID         int64
	Platform   string
	ExternalID string
	Title      string
	Author     string
	URL        string
	Payload    json.RawMessage
	FirstSeen  time.Time
	LastSeen   time.Time
	SeenCount  int
}

// ItemInput is one record to upsert.
type ItemInput struct {
	Platform   string
	ExternalID string
	Title      string
	Author     string
	URL        string
	Payload    json.RawMessage
	SeenAt     time.Time
}

// Filter narrows Recent. Zero values mean all platforms, any time, 50 rows.
type Filter struct {
	Platform string
	Since    time.Time
	Limit    int
}

// PlatformCount aggregates stored items for one platform.
type PlatformCount struct {
	Platform string
	Items    int
	LastSeen time.Time
}

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

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
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

// RecordItems upserts items keyed on (platform, external_id). New rows get
// first_seen = last_seen = SeenAt; existing rows keep first_seen, move
// last_seen forward and bump seen_count. It returns how many rows were new.
func (s *Store) RecordItems(ctx context.Context, items []ItemInput) (int, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store is not initialized")
	}
	if len(items) == 0 {
		return 0, nil
	}

	for i, in := range items {
		if strings.TrimSpace(in.Platform) == "" {
			return 0, fmt.Errorf("item %d: platform is required", i)
		}
		if strings.TrimSpace(in.ExternalID) == "" {
			return 0, fmt.Errorf("item %d: external_id is required", i)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, in := range items {
		seenAt := in.SeenAt
		if seenAt.IsZero() {
			seenAt = time.Now()
		}
		payload := string(in.Payload)
		if strings.TrimSpace(payload) == "" {
			payload = "{}"
		}
		var urlVal sql.NullString
		if u := strings.TrimSpace(in.URL); u != "" {
			urlVal = sql.NullString{String: u, Valid: true}
		}

		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM items WHERE platform = ? AND external_id = ?",
			in.Platform, in.ExternalID).Scan(&exists)
		if err != nil {
			return 0, fmt.Errorf("check item: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO items (platform, external_id, title, author, url, payload, first_seen, last_seen)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(platform, external_id) DO UPDATE SET
				title = excluded.title,
				author = excluded.author,
				url = COALESCE(excluded.url, items.url),
				payload = excluded.payload,
				last_seen = MAX(items.last_seen, excluded.last_seen),
				seen_count = items.seen_count + 1
		`, in.Platform, in.ExternalID, in.Title, in.Author, urlVal, payload, formatTime(seenAt), formatTime(seenAt))
		if err != nil {
			return 0, fmt.Errorf("upsert item: %w", err)
		}
		if exists == 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Recent returns stored items, most recently seen first.
func (s *Store) Recent(ctx context.Context, f Filter) ([]Item, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `
		SELECT id, platform, external_id, title, author, url, payload, first_seen, last_seen, seen_count
		FROM items
		WHERE last_seen >= ?`
	args := []any{formatTime(f.Since)}
	if f.Platform != "" {
		query += " AND platform = ?"
		args = append(args, f.Platform)
	}
	query += " ORDER BY last_seen DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	items := []Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Prune deletes items not seen in the last retainDays days.
func (s *Store) Prune(ctx context.Context, retainDays int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store is not initialized")
	}
	if retainDays <= 0 {
		return 0, fmt.Errorf("retain days must be positive, got %d", retainDays)
	}

	cutoff := formatTime(time.Now().AddDate(0, 0, -retainDays))
	res, err := s.db.ExecContext(ctx, "DELETE FROM items WHERE last_seen < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Counts returns per-platform totals, ordered by platform name.
func (s *Store) Counts(ctx context.Context) ([]PlatformCount, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT platform, COUNT(*), MAX(last_seen)
		FROM items
		GROUP BY platform
		ORDER BY platform
	`)
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := []PlatformCount{}
	for rows.Next() {
		var pc PlatformCount
		var lastSeen string
		if err := rows.Scan(&pc.Platform, &pc.Items, &lastSeen); err != nil {
			return nil, fmt.Errorf("scan counts: %w", err)
		}
		pc.LastSeen, err = parseTime(lastSeen)
		if err != nil {
			return nil, fmt.Errorf("parse last_seen: %w", err)
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (Item, error) {
	var (
		it                  Item
		urlVal              sql.NullString
		payload             string
		firstSeen, lastSeen string
	)
	if err := scanner.Scan(
		&it.ID,
		&it.Platform,
		&it.ExternalID,
		&it.Title,
		&it.Author,
		&urlVal,
		&payload,
		&firstSeen,
		&lastSeen,
		&it.SeenCount,
	); err != nil {
		return Item{}, fmt.Errorf("scan item: %w", err)
	}
	if urlVal.Valid {
		it.URL = urlVal.String
	}
	it.Payload = json.RawMessage(payload)

	var err error
	it.FirstSeen, err = parseTime(firstSeen)
	if err != nil {
		return Item{}, fmt.Errorf("parse first_seen: %w", err)
	}
	it.LastSeen, err = parseTime(lastSeen)
	if err != nil {
		return Item{}, fmt.Errorf("parse last_seen: %w", err)
	}
	return it, nil
}

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
