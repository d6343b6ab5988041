package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/model"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

var ErrNoEventLog = errors.New("event log is not configured")

// PlayService dispatches in-match actions.
type PlayService struct {
	d *Dispatcher
}

// NewPlayService creates a PlayService.
func NewPlayService(d *Dispatcher) *PlayService {
	return &PlayService{d: d}
}

// Supply places reinforcements on one of the caller's tiles.
func (s *PlayService) Supply(ctx context.Context, gameID, caller string, tile, amount int) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "supply", func(m *conquest.Match) error {
		return m.Supply(caller, tile, amount)
	})
}

// Attack commits troops against a neighboring enemy tile.
func (s *PlayService) Attack(ctx context.Context, gameID, caller string, from, to, dispatched int) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "attack", func(m *conquest.Match) error {
		return m.Attack(caller, from, to, dispatched)
	})
}

// Defend resolves the pending attack from one tile to another.
func (s *PlayService) Defend(ctx context.Context, gameID, caller string, from, to int) (*conquest.BattleRecord, *conquest.Match, error) {
	var rec *conquest.BattleRecord
	m, err := s.d.act(ctx, gameID, "defend", func(m *conquest.Match) error {
		var err error
		rec, err = m.Defend(caller, from, to)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return rec, m, nil
}

// Discard redeems a set of three cards for supply.
func (s *PlayService) Discard(ctx context.Context, gameID, caller string, set [3]int) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "discard", func(m *conquest.Match) error {
		return m.Discard(caller, set)
	})
}

// Transfer fortifies a tile and ends the caller's turn.
func (s *PlayService) Transfer(ctx context.Context, gameID, caller string, from, to, amount int) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "transfer", func(m *conquest.Match) error {
		return m.Transfer(caller, from, to, amount)
	})
}

// Finish ends the current phase.
func (s *PlayService) Finish(ctx context.Context, gameID, caller string) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "finish", func(m *conquest.Match) error {
		return m.Finish(caller)
	})
}

// Surrender takes the caller out of the match.
func (s *PlayService) Surrender(ctx context.Context, gameID, caller string) (*conquest.Match, error) {
	return s.d.act(ctx, gameID, "surrender", func(m *conquest.Match) error {
		return m.Surrender(caller)
	})
}

// Emote broadcasts a reaction during the attack phase.
func (s *PlayService) Emote(ctx context.Context, gameID, caller string, emote int) error {
	_, err := s.d.act(ctx, gameID, "emote", func(m *conquest.Match) error {
		return m.Emote(caller, emote)
	})
	return err
}

// Events returns the archived events of a game as caller may see them. Cards
// drawn in battle stay visible to their attacker only.
func (s *PlayService) Events(ctx context.Context, gameID, caller string) ([]model.Event, error) {
	if s.d.events == nil {
		return nil, ErrNoEventLog
	}
	m, err := s.d.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	events, err := s.d.events.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	seat := m.Seat(caller)
	for i := range events {
		if events[i].Kind != string(conquest.EventBattle) {
			continue
		}
		data, err := redactBattle(events[i].Data, seat)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", events[i].ID, err)
		}
		events[i].Data = data
	}
	return events, nil
}

// redactBattle clears the drawn card of an archived battle unless seat fought
// it as the attacker.
func redactBattle(data json.RawMessage, seat int) (json.RawMessage, error) {
	var rec conquest.BattleRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Card == 0 || (seat >= 0 && rec.Attacker == seat) {
		return data, nil
	}
	rec.Card = 0
	return json.Marshal(rec)
}

// AuditReport is the outcome of replaying every archived battle of a game.
type AuditReport struct {
	GameID   string   `json:"game_id"`
	Battles  int      `json:"battles"`
	Verified int      `json:"verified"`
	Failures []string `json:"failures,omitempty"`
}

// Audit recomputes every archived battle from the game seed and reports the
// ones that disagree.
func (s *PlayService) Audit(ctx context.Context, gameID string) (*AuditReport, error) {
	if s.d.events == nil {
		return nil, ErrNoEventLog
	}
	m, err := s.d.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	events, err := s.d.events.ListByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	report := &AuditReport{GameID: gameID}
	for _, e := range events {
		if e.Kind != string(conquest.EventBattle) {
			continue
		}
		report.Battles++
		var rec conquest.BattleRecord
		if err := json.Unmarshal(e.Data, &rec); err != nil {
			report.Failures = append(report.Failures, fmt.Sprintf("event %d: %v", e.ID, err))
			continue
		}
		if err := conquest.VerifyBattle(m.Game.Seed, m.Rules, rec); err != nil {
			report.Failures = append(report.Failures, err.Error())
			continue
		}
		report.Verified++
	}
	if len(report.Failures) > 0 {
		log.Warn().Str("gameId", gameID).Int("failures", len(report.Failures)).Msg("Battle audit found mismatches")
	}
	return report, nil
}
