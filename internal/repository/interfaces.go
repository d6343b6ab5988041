package repository

import (
	"context"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// GameStore holds the live state of every match. Loads of missing records
// return nil, nil.
type GameStore interface {
	LoadGame(ctx context.Context, gameID string) (*conquest.Game, error)
	LoadPlayer(ctx context.Context, gameID string, index int) (*conquest.Player, error)
	LoadPlayers(ctx context.Context, gameID string) ([]conquest.Player, error)
	LoadTile(ctx context.Context, gameID string, index int) (*conquest.Tile, error)
	LoadTiles(ctx context.Context, gameID string) ([]conquest.Tile, error)
	ListOpen(ctx context.Context) ([]conquest.Game, error)

	// Atomic stages the writes made by fn and commits them together. Nothing
	// is written when fn returns an error.
	Atomic(ctx context.Context, gameID string, fn func(w GameWriter) error) error
}

// GameWriter stages writes for one Atomic commit.
type GameWriter interface {
	SaveGame(g *conquest.Game) error
	SavePlayer(p *conquest.Player) error
	SaveTile(t *conquest.Tile) error
	DeletePlayer(gameID string, index int) error
	DeleteGame(gameID string) error
}

// EventLog archives engine events in commit order.
type EventLog interface {
	Append(ctx context.Context, events []model.Event) error
	ListByGame(ctx context.Context, gameID string) ([]model.Event, error)
}

// ResultRepository keeps the final standings of finished games.
type ResultRepository interface {
	SaveResults(ctx context.Context, results []model.Result) error
	ListByGame(ctx context.Context, gameID string) ([]model.Result, error)
	ListByIdentity(ctx context.Context, identity string) ([]model.Result, error)
}
