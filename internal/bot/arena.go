package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// DefaultMaxActions bounds a match whose strategies never finish it.
const DefaultMaxActions = 20000

// MatchConfig configures a single bot-vs-bot match.
type MatchConfig struct {
	Name       string
	Variant    conquest.Variant
	Seed       uint64 // 0 = random
	RoundLimit int    // 0 = play until one player is left
	// Strategies holds one strategy per seat. Seat 0 hosts.
	Strategies []Strategy
	MaxActions int
	// Evict drops the match from the live store once RunMatch returns.
	Evict bool
}

// MatchResult describes the outcome of an arena match.
type MatchResult struct {
	GameID         string              `json:"game_id"`
	Seed           uint64              `json:"seed,string"`
	Winner         int                 `json:"winner"` // seat, or conquest.NoWinner for a draw or a truncated match
	WinnerStrategy string              `json:"winner_strategy,omitempty"`
	Rounds         int                 `json:"rounds"`
	Actions        int                 `json:"actions"`
	Rejected       int                 `json:"rejected"`
	Battles        int                 `json:"battles"`
	Truncated      bool                `json:"truncated"`
	Standings      []conquest.Standing `json:"standings"`
}

// Identity returns the identity a bot plays under on seat.
func Identity(seat int) string {
	return fmt.Sprintf("bot-%d", seat)
}

// RunMatch plays a full match between strategies through the services, so
// every action takes the same path as one from a human client.
func RunMatch(ctx context.Context, games *service.GameService, play *service.PlayService, cfg MatchConfig) (*MatchResult, error) {
	if len(cfg.Strategies) == 0 {
		return nil, errors.New("at least one strategy is required")
	}
	if cfg.MaxActions <= 0 {
		cfg.MaxActions = DefaultMaxActions
	}
	if cfg.Name == "" {
		cfg.Name = "arena"
	}

	m, err := games.CreateGame(ctx, Identity(0), service.CreateParams{
		Name:       cfg.Name,
		HostName:   seatName(cfg.Strategies, 0),
		Variant:    cfg.Variant,
		RoundLimit: cfg.RoundLimit,
		Seed:       cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("create arena game: %w", err)
	}
	gameID := m.Game.ID
	if cfg.Evict {
		defer func() {
			if err := games.EvictGame(context.WithoutCancel(ctx), gameID); err != nil {
				log.Warn().Err(err).Str("gameId", gameID).Msg("Failed to evict arena game")
			}
		}()
	}
	for seat := 1; seat < len(cfg.Strategies); seat++ {
		if _, err := games.JoinGame(ctx, gameID, Identity(seat), seatName(cfg.Strategies, seat)); err != nil {
			return nil, fmt.Errorf("seat %d: %w", seat, err)
		}
	}
	if _, err := games.StartGame(ctx, gameID, Identity(0)); err != nil {
		return nil, fmt.Errorf("start arena game: %w", err)
	}

	result := &MatchResult{GameID: gameID, Winner: conquest.NoWinner}
	for result.Actions < cfg.MaxActions {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m, err = games.LoadMatch(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if m.Game.Over {
			break
		}

		seat := m.CurrentPlayer()
		a := cfg.Strategies[seat].Next(m, seat)
		actx := service.WithExpectedNonce(ctx, m.Game.Nonce)
		if err := Apply(actx, play, gameID, Identity(seat), a); err != nil {
			if conquest.CodeOf(err) == "" || a.Kind == KindFinish {
				return nil, fmt.Errorf("seat %d %s: %w", seat, a, err)
			}
			result.Rejected++
			log.Debug().Err(err).Str("gameId", gameID).Int("seat", seat).Str("action", a.String()).Msg("Bot action rejected, finishing phase")
			if err := Apply(actx, play, gameID, Identity(seat), Finish); err != nil {
				return nil, fmt.Errorf("seat %d finish after rejected %s: %w", seat, a, err)
			}
		}
		result.Actions++
	}

	m, err = games.LoadMatch(ctx, gameID)
	if err != nil {
		return nil, err
	}
	result.Seed = m.Game.Seed
	result.Rounds = m.Round()
	result.Battles = m.Game.Battles
	result.Standings = m.Standings()
	if !m.Game.Over {
		result.Truncated = true
		log.Warn().Str("gameId", gameID).Int("actions", result.Actions).Msg("Arena match hit the action budget")
		return result, nil
	}
	result.Winner = m.Game.Winner
	if result.Winner != conquest.NoWinner {
		result.WinnerStrategy = cfg.Strategies[result.Winner].Name()
	}
	log.Info().
		Str("gameId", gameID).
		Int("winner", result.Winner).
		Str("strategy", result.WinnerStrategy).
		Int("rounds", result.Rounds).
		Int("actions", result.Actions).
		Msg("Arena match finished")
	return result, nil
}

func seatName(strategies []Strategy, seat int) string {
	return fmt.Sprintf("%s-%d", strategies[seat].Name(), seat)
}

// Apply performs a through the play service as identity.
func Apply(ctx context.Context, play *service.PlayService, gameID, identity string, a Action) error {
	var err error
	switch a.Kind {
	case KindSupply:
		_, err = play.Supply(ctx, gameID, identity, a.Tile, a.Amount)
	case KindDiscard:
		_, err = play.Discard(ctx, gameID, identity, a.Cards)
	case KindAttack:
		_, err = play.Attack(ctx, gameID, identity, a.From, a.To, a.Amount)
	case KindDefend:
		_, _, err = play.Defend(ctx, gameID, identity, a.From, a.To)
	case KindTransfer:
		_, err = play.Transfer(ctx, gameID, identity, a.From, a.To, a.Amount)
	default:
		_, err = play.Finish(ctx, gameID, identity)
	}
	return err
}
