package service

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

type nonceKey struct{}

// WithExpectedNonce makes the next action fail with ErrStaleNonce unless the
// game is still at nonce n.
func WithExpectedNonce(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, nonceKey{}, n)
}

// ExpectedNonce returns the nonce set by WithExpectedNonce.
func ExpectedNonce(ctx context.Context) (int, bool) {
	n, ok := ctx.Value(nonceKey{}).(int)
	return n, ok
}

// Dispatcher runs engine operations one at a time per game: load, apply,
// commit, then archive and broadcast the resulting events.
type Dispatcher struct {
	store       repository.GameStore
	events      repository.EventLog         // optional
	results     repository.ResultRepository // optional
	broadcaster Broadcaster

	// gameLocks serializes actions on the same game. Two requests for one
	// game must never load the same nonce and both commit.
	gameLocks sync.Map
}

// NewDispatcher creates a Dispatcher over a game store.
func NewDispatcher(store repository.GameStore, broadcaster Broadcaster) *Dispatcher {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &Dispatcher{store: store, broadcaster: broadcaster}
}

// SetEventLog configures the optional event archive.
func (d *Dispatcher) SetEventLog(events repository.EventLog) {
	d.events = events
}

// SetResultRepo configures the optional results archive.
func (d *Dispatcher) SetResultRepo(results repository.ResultRepository) {
	d.results = results
}

// gameLock returns the mutex for a given game ID.
func (d *Dispatcher) gameLock(gameID string) *sync.Mutex {
	v, _ := d.gameLocks.LoadOrStore(gameID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// load assembles the match stored under gameID.
func (d *Dispatcher) load(ctx context.Context, gameID string) (*conquest.Match, error) {
	g, err := d.store.LoadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("%w: game %s", conquest.ErrNotFound, gameID)
	}
	players, err := d.store.LoadPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	tiles, err := d.store.LoadTiles(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return conquest.NewMatch(g, players, tiles)
}

// act applies fn to the stored match and commits the result. A failing fn
// leaves the store untouched.
func (d *Dispatcher) act(ctx context.Context, gameID, action string, fn func(m *conquest.Match) error) (*conquest.Match, error) {
	mu := d.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()
	return d.apply(ctx, gameID, action, fn)
}

// apply is act for callers already holding the game lock.
func (d *Dispatcher) apply(ctx context.Context, gameID, action string, fn func(m *conquest.Match) error) (*conquest.Match, error) {
	m, err := d.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if want, ok := ExpectedNonce(ctx); ok && want != m.Game.Nonce {
		return nil, fmt.Errorf("%w: expected nonce %d, game is at %d", conquest.ErrStaleNonce, want, m.Game.Nonce)
	}
	before := m.Clone()
	if err := fn(m); err != nil {
		log.Debug().Err(err).Str("gameId", gameID).Str("action", action).Int("nonce", m.Game.Nonce).Msg("Action rejected")
		return nil, err
	}
	if err := d.store.Atomic(ctx, gameID, func(w repository.GameWriter) error {
		return writeChanges(w, before, m)
	}); err != nil {
		return nil, err
	}

	log.Info().Str("gameId", gameID).Str("action", action).Int("nonce", m.Game.Nonce).Msg("Action applied")
	d.publish(ctx, m, m.Events())
	return m, nil
}

// create stores a brand new match.
func (d *Dispatcher) create(ctx context.Context, m *conquest.Match) error {
	mu := d.gameLock(m.Game.ID)
	mu.Lock()
	defer mu.Unlock()

	if err := d.store.Atomic(ctx, m.Game.ID, func(w repository.GameWriter) error {
		return writeChanges(w, nil, m)
	}); err != nil {
		return err
	}
	log.Info().Str("gameId", m.Game.ID).Str("variant", string(m.Game.Variant)).Msg("Game created")
	d.publish(ctx, m, m.Events())
	return nil
}

// remove deletes a match after check approves it.
func (d *Dispatcher) remove(ctx context.Context, gameID string, check func(m *conquest.Match) error) error {
	mu := d.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	m, err := d.load(ctx, gameID)
	if err != nil {
		return err
	}
	if err := check(m); err != nil {
		return err
	}
	if err := d.store.Atomic(ctx, gameID, func(w repository.GameWriter) error {
		return w.DeleteGame(gameID)
	}); err != nil {
		return err
	}
	d.gameLocks.Delete(gameID)
	log.Info().Str("gameId", gameID).Msg("Game deleted")
	d.broadcaster.BroadcastGameEvent(gameID, "game_deleted", nil)
	return nil
}

// writeChanges stages every record that differs between before and after.
// A nil before writes everything.
func writeChanges(w repository.GameWriter, before, after *conquest.Match) error {
	if err := w.SaveGame(after.Game); err != nil {
		return err
	}
	for i := range after.Players {
		if before != nil && i < len(before.Players) && samePlayer(before.Players[i], after.Players[i]) {
			continue
		}
		if err := w.SavePlayer(&after.Players[i]); err != nil {
			return err
		}
	}
	if before != nil {
		for i := len(after.Players); i < len(before.Players); i++ {
			if err := w.DeletePlayer(after.Game.ID, i); err != nil {
				return err
			}
		}
	}
	for i := range after.Tiles {
		if before != nil && before.Tiles[i] == after.Tiles[i] {
			continue
		}
		if err := w.SaveTile(&after.Tiles[i]); err != nil {
			return err
		}
	}
	return nil
}

func samePlayer(a, b conquest.Player) bool {
	return a.GameID == b.GameID &&
		a.Index == b.Index &&
		a.Identity == b.Identity &&
		a.Name == b.Name &&
		a.Supply == b.Supply &&
		a.Eliminated == b.Eliminated &&
		a.Rank == b.Rank &&
		slices.Equal(a.Cards, b.Cards)
}

// publish archives and broadcasts committed events. Failures here are logged
// only; the action itself is already durable.
func (d *Dispatcher) publish(ctx context.Context, m *conquest.Match, events []conquest.Event) {
	if len(events) == 0 {
		return
	}
	if d.events != nil {
		records := make([]model.Event, 0, len(events))
		now := time.Now().UTC()
		for _, e := range events {
			data, err := json.Marshal(e.Data)
			if err != nil {
				log.Error().Err(err).Str("gameId", e.GameID).Str("kind", string(e.Kind)).Msg("Failed to encode event")
				continue
			}
			records = append(records, model.Event{GameID: e.GameID, Nonce: e.Nonce, Kind: string(e.Kind), Data: data, CreatedAt: now})
		}
		if err := d.events.Append(ctx, records); err != nil {
			log.Error().Err(err).Str("gameId", m.Game.ID).Int("count", len(records)).Msg("Failed to archive events")
		}
	}
	for _, e := range events {
		d.broadcaster.BroadcastGameEvent(e.GameID, string(e.Kind), d.redact(m, e))
		if e.Kind == conquest.EventGameOver {
			d.saveResults(ctx, m)
		}
	}
}

// redact hides the card drawn in a battle from everyone but the attacker, who
// receives the full record privately.
func (d *Dispatcher) redact(m *conquest.Match, e conquest.Event) conquest.Event {
	rec, ok := e.Data.(conquest.BattleRecord)
	if !ok || rec.Card == 0 {
		return e
	}
	if ib, ok := d.broadcaster.(IdentityBroadcaster); ok && rec.Attacker < len(m.Players) {
		ib.BroadcastToIdentity(m.Players[rec.Attacker].Identity, e.GameID, string(e.Kind), e)
	}
	rec.Card = 0
	e.Data = rec
	return e
}

// saveResults archives the final standings of a finished match.
func (d *Dispatcher) saveResults(ctx context.Context, m *conquest.Match) {
	if d.results == nil {
		return
	}
	now := time.Now().UTC()
	var results []model.Result
	for _, s := range m.Standings() {
		p := m.Players[s.Player]
		results = append(results, model.Result{
			GameID:      m.Game.ID,
			Variant:     string(m.Game.Variant),
			Seat:        s.Player,
			Identity:    p.Identity,
			Name:        p.Name,
			Rank:        p.Rank,
			Winner:      s.Player == m.Game.Winner,
			Territories: s.Territories,
			Score:       s.Score,
			Army:        s.Army,
			Rounds:      m.Round(),
			FinishedAt:  now,
		})
	}
	if err := d.results.SaveResults(ctx, results); err != nil {
		log.Error().Err(err).Str("gameId", m.Game.ID).Msg("Failed to save results")
		return
	}
	log.Info().Str("gameId", m.Game.ID).Int("winner", m.Game.Winner).Msg("Game finished")
}
