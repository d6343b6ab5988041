package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

var (
	ErrNameRequired = errors.New("game name is required")
	ErrNoResults    = errors.New("results archive is not configured")
)

// CreateParams describes a new lobby.
type CreateParams struct {
	Name       string
	HostName   string
	Variant    conquest.Variant
	RoundLimit int
	// Seed fixes the dice and the deal. Zero draws a random seed.
	Seed uint64
}

// GameService handles the lobby and the end of a match.
type GameService struct {
	d              *Dispatcher
	settlement     Settlement
	defaultVariant conquest.Variant
}

// NewGameService creates a GameService.
func NewGameService(d *Dispatcher, settlement Settlement, defaultVariant conquest.Variant) *GameService {
	if settlement == nil {
		settlement = NoopSettlement{}
	}
	if defaultVariant == "" {
		defaultVariant = conquest.World
	}
	return &GameService{d: d, settlement: settlement, defaultVariant: defaultVariant}
}

// CreateGame opens a lobby with the caller seated as host.
func (s *GameService) CreateGame(ctx context.Context, caller string, p CreateParams) (*conquest.Match, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	variant := p.Variant
	if variant == "" {
		variant = s.defaultVariant
	}
	seed := p.Seed
	if seed == 0 {
		var err error
		if seed, err = newSeed(); err != nil {
			return nil, err
		}
	}
	hostName := p.HostName
	if hostName == "" {
		hostName = caller
	}

	m, err := conquest.Create(uuid.NewString(), name, caller, hostName, variant, seed, p.RoundLimit)
	if err != nil {
		return nil, err
	}
	if err := s.d.create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("draw seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// JoinGame seats the caller in a lobby.
func (s *GameService) JoinGame(ctx context.Context, gameID, caller, name string) (*conquest.Match, error) {
	if name == "" {
		name = caller
	}
	return s.d.act(ctx, gameID, "join", func(m *conquest.Match) error {
		_, err := m.Join(caller, name)
		return err
	})
}

// LeaveGame removes the caller from a lobby.
func (s *GameService) LeaveGame(ctx context.Context, gameID, caller string) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "leave", func(m *conquest.Match) error {
		return m.Leave(caller)
	})
}

// KickPlayer lets the host remove a seat from the lobby.
func (s *GameService) KickPlayer(ctx context.Context, gameID, caller string, index int) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "kick", func(m *conquest.Match) error {
		return m.Kick(caller, index)
	})
}

// DeleteGame drops a lobby. Only the host may, and only before start.
func (s *GameService) DeleteGame(ctx context.Context, gameID, caller string) error {
	return s.d.remove(ctx, gameID, func(m *conquest.Match) error {
		return m.CheckDelete(caller)
	})
}

// EvictGame drops a game from the live store whatever its state. Batch
// tooling calls it once a match's result is recorded.
func (s *GameService) EvictGame(ctx context.Context, gameID string) error {
	return s.d.remove(ctx, gameID, func(*conquest.Match) error { return nil })
}

// StartGame deals the map and opens the first turn.
func (s *GameService) StartGame(ctx context.Context, gameID, caller string) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "start", func(m *conquest.Match) error {
		return m.Start(caller)
	})
}

// ClaimPrize records the winner's claim, pays it out through the settlement
// collaborator and marks it settled. The payout only runs once the claim is
// committed. A claim left unsettled by a failure can be retried by the winner
// and settles again under the same game id.
func (s *GameService) ClaimPrize(ctx context.Context, gameID, caller string) (*conquest.Match, error) {
	mu := s.d.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.d.apply(ctx, gameID, "claim", func(m *conquest.Match) error {
		if m.Unsettled(caller) {
			return nil
		}
		return m.Claim(caller)
	}); err != nil {
		return nil, err
	}
	if err := s.settlement.Settle(ctx, gameID, caller); err != nil {
		log.Error().Err(err).Str("gameId", gameID).Str("winner", caller).Msg("Settlement failed")
		return nil, fmt.Errorf("settle prize: %w", err)
	}
	m, err := s.d.apply(ctx, gameID, "settle", func(m *conquest.Match) error {
		return m.MarkSettled()
	})
	if err != nil {
		log.Error().Err(err).Str("gameId", gameID).Str("winner", caller).Msg("Prize paid but not marked settled")
		return nil, err
	}
	return m, nil
}

// GetGame returns the match as seen by caller.
func (s *GameService) GetGame(ctx context.Context, gameID, caller string) (*Snapshot, error) {
	m, err := s.d.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(m, caller), nil
}

// LoadMatch returns the full match state, hidden information included.
func (s *GameService) LoadMatch(ctx context.Context, gameID string) (*conquest.Match, error) {
	return s.d.load(ctx, gameID)
}

// ListOpenGames returns the lobbies waiting for players.
func (s *GameService) ListOpenGames(ctx context.Context) ([]conquest.Game, error) {
	games, err := s.d.store.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	for i := range games {
		games[i].Seed = 0
	}
	return games, nil
}

// Results returns the final standings of a finished game.
func (s *GameService) Results(ctx context.Context, gameID string) ([]model.Result, error) {
	if s.d.results == nil {
		return nil, ErrNoResults
	}
	return s.d.results.ListByGame(ctx, gameID)
}

// History returns the recent results of one participant.
func (s *GameService) History(ctx context.Context, identity string) ([]model.Result, error) {
	if s.d.results == nil {
		return nil, ErrNoResults
	}
	return s.d.results.ListByIdentity(ctx, identity)
}
