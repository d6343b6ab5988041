package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
)

// ResultRepo stores final standings of finished games.
type ResultRepo struct {
	db *sql.DB
}

// NewResultRepo creates a ResultRepo.
func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// SaveResults upserts one row per seat.
func (r *ResultRepo) SaveResults(ctx context.Context, results []model.Result) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, res := range results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO results (game_id, seat, variant, identity, name, rank, winner, territories, score, army, rounds, finished_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (game_id, seat) DO UPDATE SET
			   rank = EXCLUDED.rank, winner = EXCLUDED.winner, territories = EXCLUDED.territories,
			   score = EXCLUDED.score, army = EXCLUDED.army, rounds = EXCLUDED.rounds, finished_at = EXCLUDED.finished_at`,
			res.GameID, res.Seat, res.Variant, res.Identity, res.Name, res.Rank, res.Winner,
			res.Territories, res.Score, res.Army, res.Rounds, res.FinishedAt,
		)
		if err != nil {
			return fmt.Errorf("save result: %w", err)
		}
	}
	return tx.Commit()
}

// ListByGame returns a game's standings best first.
func (r *ResultRepo) ListByGame(ctx context.Context, gameID string) ([]model.Result, error) {
	return r.list(ctx, `WHERE game_id = $1 ORDER BY rank, seat`, gameID)
}

// ListByIdentity returns the most recent results of one participant.
func (r *ResultRepo) ListByIdentity(ctx context.Context, identity string) ([]model.Result, error) {
	return r.list(ctx, `WHERE identity = $1 ORDER BY finished_at DESC LIMIT 100`, identity)
}

func (r *ResultRepo) list(ctx context.Context, where string, arg any) ([]model.Result, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, seat, variant, identity, name, rank, winner, territories, score, army, rounds, finished_at
		 FROM results `+where, arg)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.GameID, &res.Seat, &res.Variant, &res.Identity, &res.Name, &res.Rank, &res.Winner,
			&res.Territories, &res.Score, &res.Army, &res.Rounds, &res.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
