// Package memory keeps match state in process. It backs the simulator and
// service tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

type record struct {
	game    *conquest.Game
	players map[int]conquest.Player
	tiles   map[int]conquest.Tile
}

// Store is a GameStore over plain maps. Values are copied in and out.
type Store struct {
	mu    sync.RWMutex
	games map[string]*record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{games: make(map[string]*record)}
}

func (s *Store) LoadGame(_ context.Context, gameID string) (*conquest.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.games[gameID]
	if !ok || r.game == nil {
		return nil, nil
	}
	g := *r.game
	return &g, nil
}

func (s *Store) LoadPlayer(_ context.Context, gameID string, index int) (*conquest.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}
	p, ok := r.players[index]
	if !ok {
		return nil, nil
	}
	p.Cards = slices.Clone(p.Cards)
	return &p, nil
}

func (s *Store) LoadPlayers(_ context.Context, gameID string) ([]conquest.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}
	players := make([]conquest.Player, 0, len(r.players))
	for _, p := range r.players {
		p.Cards = slices.Clone(p.Cards)
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Index < players[j].Index })
	return players, nil
}

func (s *Store) LoadTile(_ context.Context, gameID string, index int) (*conquest.Tile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}
	t, ok := r.tiles[index]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) LoadTiles(_ context.Context, gameID string) ([]conquest.Tile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}
	tiles := make([]conquest.Tile, 0, len(r.tiles))
	for _, t := range r.tiles {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Index < tiles[j].Index })
	return tiles, nil
}

func (s *Store) ListOpen(_ context.Context) ([]conquest.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []conquest.Game
	for _, r := range s.games {
		if r.game != nil && !r.game.Started {
			games = append(games, *r.game)
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

// Atomic records the writes made by fn and applies them only if fn succeeds.
func (s *Store) Atomic(ctx context.Context, gameID string, fn func(w repository.GameWriter) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w := &stagedWriter{}
	if err := fn(w); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range w.ops {
		op(s)
	}
	return nil
}

func (s *Store) record(gameID string) *record {
	r, ok := s.games[gameID]
	if !ok {
		r = &record{players: make(map[int]conquest.Player), tiles: make(map[int]conquest.Tile)}
		s.games[gameID] = r
	}
	return r
}

type stagedWriter struct {
	ops []func(s *Store)
}

func (w *stagedWriter) SaveGame(g *conquest.Game) error {
	c := *g
	w.ops = append(w.ops, func(s *Store) { s.record(c.ID).game = &c })
	return nil
}

func (w *stagedWriter) SavePlayer(p *conquest.Player) error {
	c := *p
	c.Cards = slices.Clone(p.Cards)
	w.ops = append(w.ops, func(s *Store) { s.record(c.GameID).players[c.Index] = c })
	return nil
}

func (w *stagedWriter) SaveTile(t *conquest.Tile) error {
	c := *t
	w.ops = append(w.ops, func(s *Store) { s.record(c.GameID).tiles[c.Index] = c })
	return nil
}

func (w *stagedWriter) DeletePlayer(gameID string, index int) error {
	w.ops = append(w.ops, func(s *Store) {
		if r, ok := s.games[gameID]; ok {
			delete(r.players, index)
		}
	})
	return nil
}

func (w *stagedWriter) DeleteGame(gameID string) error {
	w.ops = append(w.ops, func(s *Store) { delete(s.games, gameID) })
	return nil
}
