package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
)

// EventRepo archives engine events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo creates an EventRepo.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Append inserts a batch of events in one transaction.
func (r *EventRepo) Append(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (game_id, nonce, kind, data) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare insert event: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		data := []byte(e.Data)
		if len(data) == 0 {
			data = []byte("{}")
		}
		if _, err := stmt.ExecContext(ctx, e.GameID, e.Nonce, e.Kind, data); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// ListByGame returns a game's events in insertion order.
func (r *EventRepo) ListByGame(ctx context.Context, gameID string) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, nonce, kind, data, created_at
		 FROM events WHERE game_id = $1 ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var data []byte
		if err := rows.Scan(&e.ID, &e.GameID, &e.Nonce, &e.Kind, &data, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Data = data
		events = append(events, e)
	}
	return events, rows.Err()
}
