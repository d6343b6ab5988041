package service

import "github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"

// PlayerView is a seat as shown to one viewer. Only the viewer's own hand is
// listed; everyone else shows a count.
type PlayerView struct {
	conquest.Player
	HandSize int `json:"hand_size"`
}

// Snapshot is the state of a match as shown to one viewer.
type Snapshot struct {
	Game          conquest.Game        `json:"game"`
	Players       []PlayerView         `json:"players"`
	Tiles         []conquest.Tile      `json:"tiles"`
	Phase         conquest.Phase       `json:"phase"`
	CurrentPlayer int                  `json:"current_player"`
	Round         int                  `json:"round"`
	Standings     []conquest.Standing  `json:"standings,omitempty"`
	Pending       *conquest.AttackLink `json:"pending,omitempty"`
}

// NewSnapshot renders m for viewer. The seed stays hidden until the game is
// over because it decides every future die.
func NewSnapshot(m *conquest.Match, viewer string) *Snapshot {
	s := &Snapshot{
		Game:          *m.Game,
		Tiles:         append([]conquest.Tile(nil), m.Tiles...),
		Phase:         m.Phase(),
		CurrentPlayer: m.CurrentPlayer(),
		Round:         m.Round(),
		Pending:       m.PendingAttack(),
	}
	if !m.Game.Over {
		s.Game.Seed = 0
	}
	if m.Game.Started {
		s.Standings = m.Standings()
	}
	for _, p := range m.Players {
		v := PlayerView{Player: p, HandSize: len(p.Cards)}
		if p.Identity == viewer {
			v.Cards = append([]int(nil), p.Cards...)
		} else {
			v.Cards = nil
		}
		s.Players = append(s.Players, v)
	}
	return s
}
