package conquest

import (
	"fmt"
	"sort"
)

// Phase is one step of a player's turn. The persisted form is the game nonce:
// phase = nonce mod 3, player = (nonce / 3) mod player count.
type Phase int

const (
	Supply Phase = iota
	Attack
	Transfer
)

var phaseNames = [...]string{"supply", "attack", "transfer"}

func (p Phase) String() string {
	if p < Supply || p > Transfer {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	if p < Supply || p > Transfer {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(phaseNames[p]), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if string(b) == name {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// PhaseOf returns the phase encoded by a nonce.
func PhaseOf(nonce int) Phase {
	return Phase(nonce % 3)
}

// PlayerOf returns the seat whose turn a nonce encodes.
func PlayerOf(nonce, players int) int {
	if players <= 0 {
		return 0
	}
	return (nonce / 3) % players
}

// Round returns the zero-based round a nonce falls in. A round is one turn for
// every seat.
func Round(nonce, players int) int {
	if players <= 0 {
		return 0
	}
	return nonce / (3 * players)
}

// Phase returns the current phase.
func (m *Match) Phase() Phase {
	return PhaseOf(m.Game.Nonce)
}

// CurrentPlayer returns the seat whose turn it is.
func (m *Match) CurrentPlayer() int {
	return PlayerOf(m.Game.Nonce, m.Game.PlayerCount)
}

// Round returns the zero-based round of the match.
func (m *Match) Round() int {
	return Round(m.Game.Nonce, m.Game.PlayerCount)
}

// checkLive rejects actions on games that are not running.
func (m *Match) checkLive() error {
	if !m.Game.Started {
		return ErrGameNotStarted
	}
	if m.Game.Over {
		return ErrGameOver
	}
	return nil
}

// actor resolves the caller to the current player and checks the phase.
func (m *Match) actor(caller string, phase Phase) (int, error) {
	seat, err := m.currentSeat(caller)
	if err != nil {
		return 0, err
	}
	if m.Phase() != phase {
		return 0, errorf(ErrInvalidPhase, "%s is not allowed during the %s phase", phase, m.Phase())
	}
	return seat, nil
}

func (m *Match) currentSeat(caller string) (int, error) {
	if err := m.checkLive(); err != nil {
		return 0, err
	}
	seat := m.Seat(caller)
	if seat < 0 {
		return 0, errorf(ErrInvalidPlayer, "caller is not seated in game %s", m.Game.ID)
	}
	if seat != m.CurrentPlayer() {
		return 0, errorf(ErrInvalidPlayer, "it is player %d's turn", m.CurrentPlayer())
	}
	return seat, nil
}

// Finish ends the current phase early and moves to the next phase or player.
// Supply left unplaced is forfeited; a pending attack is recalled.
func (m *Match) Finish(caller string) error {
	if _, err := m.currentSeat(caller); err != nil {
		return err
	}
	m.increment()
	return nil
}

// Emote records a reaction. Any seated player still in the game may emote, but
// only while someone is attacking.
func (m *Match) Emote(caller string, emote int) error {
	if err := m.checkLive(); err != nil {
		return err
	}
	seat := m.Seat(caller)
	if seat < 0 || m.Players[seat].Eliminated {
		return errorf(ErrInvalidPlayer, "caller is not playing in game %s", m.Game.ID)
	}
	if m.Phase() != Attack {
		return errorf(ErrInvalidPhase, "emotes are only allowed during the attack phase")
	}
	m.emit(EventEmote, EmoteEvent{Player: seat, Emote: emote})
	return nil
}

// increment advances one phase.
func (m *Match) increment() {
	if m.Phase() == Attack {
		m.recallAttacks()
	}
	m.Game.Nonce++
	if m.Phase() == Supply {
		m.beginTurn()
		return
	}
	m.emitPhase()
}

// roll advances a full turn without granting anything.
func (m *Match) roll() {
	m.Game.Nonce += 3
}

// endTurn jumps to the supply phase of the next seat.
func (m *Match) endTurn() {
	m.recallAttacks()
	m.Game.Nonce = (m.Game.Nonce/3 + 1) * 3
	m.beginTurn()
}

// beginTurn runs at the start of a supply phase: skips eliminated seats, applies
// the round limit, grants supply and forces redemption of oversized hands.
func (m *Match) beginTurn() {
	for i := 0; i < len(m.Players) && m.Players[m.CurrentPlayer()].Eliminated; i++ {
		m.roll()
	}
	if m.Game.RoundLimit > 0 && m.Round() >= m.Game.RoundLimit {
		m.finishByScore()
		return
	}
	m.emitPhase()

	p := m.CurrentPlayer()
	m.grantSupply(p)
	if m.Rules.MaxHand <= 0 {
		return
	}
	for len(m.Players[p].Cards) >= m.Rules.MaxHand {
		set, ok := FindSet(m.Players[p].Cards, m.Map.TileCount())
		if !ok {
			break
		}
		hand, err := RedeemSet(m.Players[p].Cards, set)
		if err != nil {
			break
		}
		m.redeem(p, set, hand, true)
	}
}

func (m *Match) emitPhase() {
	m.emit(EventPhaseChanged, PhaseEvent{
		Player: m.CurrentPlayer(),
		Phase:  m.Phase(),
		Round:  m.Round(),
	})
}

// eliminate removes a player who holds no territory. The conqueror takes the
// hand; by is -1 when nobody does.
func (m *Match) eliminate(player, by int) {
	p := &m.Players[player]
	if p.Eliminated {
		return
	}
	p.Rank = len(m.Alive())
	p.Eliminated = true
	p.Supply = 0
	cards := len(p.Cards)
	if by >= 0 {
		m.Players[by].Cards = append(m.Players[by].Cards, p.Cards...)
	}
	p.Cards = nil
	m.emit(EventEliminated, EliminatedEvent{Player: player, By: by, Rank: p.Rank, Cards: cards})
	m.checkSoleSurvivor()
}

func (m *Match) checkSoleSurvivor() {
	if m.Game.Over {
		return
	}
	alive := m.Alive()
	if len(alive) != 1 {
		return
	}
	m.Game.Over = true
	m.Game.Winner = alive[0]
	m.Players[alive[0]].Rank = 1
	m.emit(EventGameOver, GameOverEvent{Winner: alive[0], Standings: m.Standings()})
}

// Standing is one line of the final or current ranking.
type Standing struct {
	Player      int  `json:"player"`
	Territories int  `json:"territories"`
	Score       int  `json:"score"`
	Army        int  `json:"army"`
	Rank        int  `json:"rank"`
	Eliminated  bool `json:"eliminated"`
}

// Standings lists every player, best first: live players by score then army,
// eliminated players by the rank they went out with.
func (m *Match) Standings() []Standing {
	out := make([]Standing, len(m.Players))
	for i := range m.Players {
		out[i] = Standing{
			Player:      i,
			Territories: m.Territories(i),
			Score:       m.Score(i),
			Army:        m.ArmyOf(i),
			Rank:        m.Players[i].Rank,
			Eliminated:  m.Players[i].Eliminated,
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Eliminated != b.Eliminated {
			return !a.Eliminated
		}
		if a.Eliminated {
			return a.Rank < b.Rank
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Army > b.Army
	})
	return out
}

// finishByScore ends the game at the round limit. Players tied on score and
// army share a rank; a shared first place is a draw.
func (m *Match) finishByScore() {
	standings := m.Standings()
	rank := 0
	for i := range standings {
		s := &standings[i]
		if s.Eliminated {
			continue
		}
		if i == 0 || standings[i-1].Score != s.Score || standings[i-1].Army != s.Army {
			rank = i + 1
		}
		s.Rank = rank
		m.Players[s.Player].Rank = rank
	}
	m.Game.Over = true
	m.Game.Winner = NoWinner
	if len(standings) > 0 && standings[0].Rank == 1 && (len(standings) == 1 || standings[1].Rank != 1) {
		m.Game.Winner = standings[0].Player
	}
	m.emit(EventGameOver, GameOverEvent{Winner: m.Game.Winner, Standings: standings})
}
