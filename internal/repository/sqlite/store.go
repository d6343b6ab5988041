// Package sqlite archives events and results in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/sqlite/migrations"
)

// Store owns the SQLite handle shared by the event and result repositories.
type Store struct {
	db *sql.DB

	Events  *EventRepo
	Results *ResultRepo
}

// EventRepo is an EventLog backed by SQLite.
type EventRepo struct {
	db *sql.DB
}

// ResultRepo is a ResultRepository backed by SQLite.
type ResultRepo struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens the database at path and applies the embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, Events: &EventRepo{db: db}, Results: &ResultRepo{db: db}}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// migrate runs every embedded .sql file once, in name order.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var found int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE name = ?`, name).Scan(&found)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(upSection(string(content))); err != nil {
			tx.Rollback()
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, name, toMillis(time.Now())); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}
	return nil
}

// upSection returns the SQL between the Up and Down markers.
func upSection(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	i := strings.Index(content, up)
	if i == -1 {
		return content
	}
	content = content[i+len(up):]
	if j := strings.Index(content, down); j != -1 {
		content = content[:j]
	}
	return content
}

// Append inserts a batch of events in one transaction.
func (s *EventRepo) Append(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := toMillis(time.Now())
	for _, e := range events {
		data := string(e.Data)
		if data == "" {
			data = "{}"
		}
		created := now
		if !e.CreatedAt.IsZero() {
			created = toMillis(e.CreatedAt)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (game_id, nonce, kind, data, created_at) VALUES (?, ?, ?, ?, ?)`,
			e.GameID, e.Nonce, e.Kind, data, created,
		); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// ListByGame returns a game's events in insertion order.
func (s *EventRepo) ListByGame(ctx context.Context, gameID string) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, game_id, nonce, kind, data, created_at FROM events WHERE game_id = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var data string
		var created int64
		if err := rows.Scan(&e.ID, &e.GameID, &e.Nonce, &e.Kind, &data, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Data = []byte(data)
		e.CreatedAt = fromMillis(created)
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveResults upserts one row per seat.
func (s *ResultRepo) SaveResults(ctx context.Context, results []model.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, r := range results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO results (game_id, seat, variant, identity, name, rank, winner, territories, score, army, rounds, finished_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (game_id, seat) DO UPDATE SET
			   rank = excluded.rank, winner = excluded.winner, territories = excluded.territories,
			   score = excluded.score, army = excluded.army, rounds = excluded.rounds, finished_at = excluded.finished_at`,
			r.GameID, r.Seat, r.Variant, r.Identity, r.Name, r.Rank, r.Winner,
			r.Territories, r.Score, r.Army, r.Rounds, toMillis(r.FinishedAt),
		)
		if err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}
	return tx.Commit()
}

// ListByGame returns a game's standings best first.
func (s *ResultRepo) ListByGame(ctx context.Context, gameID string) ([]model.Result, error) {
	return s.listResults(ctx, `WHERE game_id = ? ORDER BY rank, seat`, gameID)
}

// ListByIdentity returns the most recent results of one participant.
func (s *ResultRepo) ListByIdentity(ctx context.Context, identity string) ([]model.Result, error) {
	return s.listResults(ctx, `WHERE identity = ? ORDER BY finished_at DESC LIMIT 100`, identity)
}

// Wins counts first places per identity across every stored game.
func (s *ResultRepo) Wins(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT identity, COUNT(*) FROM results WHERE winner = 1 GROUP BY identity`)
	if err != nil {
		return nil, fmt.Errorf("count wins: %w", err)
	}
	defer rows.Close()

	wins := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan wins: %w", err)
		}
		wins[id] = n
	}
	return wins, rows.Err()
}

func (s *ResultRepo) listResults(ctx context.Context, where string, arg any) ([]model.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, seat, variant, identity, name, rank, winner, territories, score, army, rounds, finished_at
		 FROM results `+where, arg)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var r model.Result
		var finished int64
		if err := rows.Scan(&r.GameID, &r.Seat, &r.Variant, &r.Identity, &r.Name, &r.Rank, &r.Winner,
			&r.Territories, &r.Score, &r.Army, &r.Rounds, &finished); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.FinishedAt = fromMillis(finished)
		results = append(results, r)
	}
	return results, rows.Err()
}
