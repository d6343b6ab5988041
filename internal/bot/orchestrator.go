package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// Orchestrator plays a full match against a running server, one client per
// seat.
type Orchestrator struct {
	baseURL    string
	strategies []Strategy
	variant    conquest.Variant
	roundLimit int
	maxActions int
	bots       []*Client
}

// NewOrchestrator creates a new Orchestrator. Seat i plays strategies[i].
func NewOrchestrator(baseURL string, strategies []Strategy, variant conquest.Variant, roundLimit int) *Orchestrator {
	return &Orchestrator{
		baseURL:    baseURL,
		strategies: strategies,
		variant:    variant,
		roundLimit: roundLimit,
		maxActions: DefaultMaxActions,
	}
}

// Run executes a full game: log in, create, join, start, play loop. It
// returns the finished game's ID.
func (o *Orchestrator) Run(ctx context.Context) (string, error) {
	if len(o.strategies) == 0 {
		return "", errors.New("at least one strategy is required")
	}
	log.Info().Int("bots", len(o.strategies)).Str("variant", string(o.variant)).Msg("Starting bot game")

	for i, s := range o.strategies {
		c := NewClient(Identity(i), seatName(o.strategies, i), o.baseURL)
		if err := c.Login(); err != nil {
			return "", fmt.Errorf("login %s: %w", c.Name(), err)
		}
		o.bots = append(o.bots, c)
		log.Debug().Str("bot", c.Name()).Str("strategy", s.Name()).Msg("Bot ready")
	}

	gameID, err := o.bots[0].CreateGame("Bot Game", o.variant, o.roundLimit, 0)
	if err != nil {
		return "", fmt.Errorf("create game: %w", err)
	}
	log.Info().Str("gameId", gameID).Msg("Game created")

	for _, c := range o.bots[1:] {
		if err := c.JoinGame(gameID); err != nil {
			return "", fmt.Errorf("join %s: %w", c.Name(), err)
		}
	}
	if err := o.bots[0].StartGame(gameID); err != nil {
		return "", fmt.Errorf("start game: %w", err)
	}
	log.Info().Str("gameId", gameID).Msg("Game started")

	// The host watches the event stream for logging only; turns are driven by
	// polling the snapshot.
	host := o.bots[0]
	if err := host.ConnectWS(); err != nil {
		return "", fmt.Errorf("ws connect: %w", err)
	}
	defer host.CloseWS()
	if err := host.SubscribeGame(gameID); err != nil {
		return "", fmt.Errorf("ws subscribe: %w", err)
	}
	go o.watch(host)

	return gameID, o.playLoop(ctx, gameID)
}

func (o *Orchestrator) playLoop(ctx context.Context, gameID string) error {
	for actions := 0; actions < o.maxActions; actions++ {
		if err := ctx.Err(); err != nil {
			log.Info().Msg("Context cancelled, stopping bots")
			return err
		}

		snap, err := o.bots[0].GetGame(gameID)
		if err != nil {
			return fmt.Errorf("get game: %w", err)
		}
		if snap.Game.Over {
			log.Info().Str("gameId", gameID).Int("winner", snap.Game.Winner).Int("round", snap.Round).Msg("Game ended")
			return nil
		}

		// Re-read as the current player to see its own hand.
		seat := snap.CurrentPlayer
		c := o.bots[seat]
		if seat != 0 {
			if snap, err = c.GetGame(gameID); err != nil {
				return fmt.Errorf("get game as %s: %w", c.Name(), err)
			}
		}
		m, err := MatchFromSnapshot(snap)
		if err != nil {
			return err
		}
		a := o.strategies[seat].Next(m, seat)
		if err := c.Act(gameID, snap.Game.Nonce, a); err != nil {
			var se *StatusError
			if !errors.As(err, &se) || se.Status != http.StatusUnprocessableEntity || a.Kind == KindFinish {
				return fmt.Errorf("%s %s: %w", c.Name(), a, err)
			}
			log.Warn().Err(err).Str("bot", c.Name()).Str("action", a.String()).Msg("Action rejected, finishing phase")
			if err := c.Act(gameID, snap.Game.Nonce, Finish); err != nil {
				return fmt.Errorf("%s finish: %w", c.Name(), err)
			}
		}
	}
	return fmt.Errorf("game %s still running after %d actions", gameID, o.maxActions)
}

func (o *Orchestrator) watch(c *Client) {
	for event := range c.Events() {
		switch event.Type {
		case string(conquest.EventBattle), string(conquest.EventEliminated), string(conquest.EventGameOver):
			log.Info().Str("type", event.Type).RawJSON("data", event.Data).Msg("Game event")
		default:
			log.Debug().Str("type", event.Type).Msg("Game event")
		}
	}
}
