package conquest

import (
	"fmt"
	"slices"
)

const (
	// Unowned marks a tile no player holds yet.
	Unowned = -1
	// NoTile marks an empty attack link.
	NoTile = -1
	// NoWinner marks a game without a single winner.
	NoWinner = -1
)

// Game is the persisted header of one match.
type Game struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Host        string  `json:"host"`
	Variant     Variant `json:"variant"`
	Seed        uint64  `json:"seed,string"`
	PlayerCount int     `json:"player_count"`
	RoundLimit  int     `json:"round_limit"`
	Nonce       int     `json:"nonce"`
	Started     bool    `json:"started"`
	Over        bool    `json:"over"`
	Sets        int     `json:"sets"`
	Battles     int     `json:"battles"`
	Winner      int     `json:"winner"`
	Claimed     bool    `json:"claimed"`
	Settled     bool    `json:"settled"`
}

// Player is one seat of a match.
type Player struct {
	GameID     string `json:"game_id"`
	Index      int    `json:"index"`
	Identity   string `json:"identity"`
	Name       string `json:"name"`
	Supply     int    `json:"supply"`
	Cards      []int  `json:"cards"`
	Eliminated bool   `json:"eliminated"`
	Rank       int    `json:"rank"`
}

// Tile is the persisted state of one territory.
type Tile struct {
	GameID     string `json:"game_id"`
	Index      int    `json:"index"`
	Army       int    `json:"army"`
	Owner      int    `json:"owner"`
	Dispatched int    `json:"dispatched"`
	From       int    `json:"from"`
	To         int    `json:"to"`
	Order      int    `json:"order"`
}

// Land is a tile joined with its place on the map. It lives for one action.
type Land struct {
	*Tile
	Neighbors []int
	Faction   int
}

// Match aggregates everything an action needs. Services load a Match, call one
// operation, then persist Game, Players and Tiles.
type Match struct {
	Game    *Game
	Players []Player
	Tiles   []Tile
	Map     *Map
	Rules   Rules

	events []Event
}

// NewMatch assembles a match from persisted entities and checks they are
// consistent with the game's variant.
func NewMatch(game *Game, players []Player, tiles []Tile) (*Match, error) {
	if game == nil {
		return nil, errorf(ErrNotFound, "game not found")
	}
	m, err := Lookup(game.Variant)
	if err != nil {
		return nil, err
	}
	if len(tiles) != m.TileCount() {
		return nil, fmt.Errorf("game %s: %d tiles stored, map %s has %d", game.ID, len(tiles), m.Variant, m.TileCount())
	}
	if len(players) != game.PlayerCount {
		return nil, fmt.Errorf("game %s: %d players stored, expected %d", game.ID, len(players), game.PlayerCount)
	}
	for i := range players {
		if players[i].Index != i {
			return nil, fmt.Errorf("game %s: player slot %d holds index %d", game.ID, i, players[i].Index)
		}
	}
	for i := range tiles {
		if tiles[i].Index != i {
			return nil, fmt.Errorf("game %s: tile slot %d holds index %d", game.ID, i, tiles[i].Index)
		}
	}
	return &Match{Game: game, Players: players, Tiles: tiles, Map: m, Rules: m.Rules()}, nil
}

// Clone returns a deep copy of the match state. Events are not copied.
func (m *Match) Clone() *Match {
	g := *m.Game
	players := make([]Player, len(m.Players))
	for i, p := range m.Players {
		p.Cards = slices.Clone(p.Cards)
		players[i] = p
	}
	return &Match{
		Game:    &g,
		Players: players,
		Tiles:   slices.Clone(m.Tiles),
		Map:     m.Map,
		Rules:   m.Rules,
	}
}

// Events returns and clears the events recorded since the last call.
func (m *Match) Events() []Event {
	ev := m.events
	m.events = nil
	return ev
}

func (m *Match) emit(kind EventKind, data any) {
	m.events = append(m.events, Event{
		GameID: m.Game.ID,
		Nonce:  m.Game.Nonce,
		Kind:   kind,
		Data:   data,
	})
}

// Land returns the per-action view of a tile.
func (m *Match) Land(index int) (Land, error) {
	neighbors, err := m.Map.Neighbors(index)
	if err != nil {
		return Land{}, err
	}
	faction, _ := m.Map.Faction(index)
	return Land{Tile: &m.Tiles[index], Neighbors: neighbors, Faction: faction}, nil
}

// Seat returns the index of the player with the given identity, or -1.
func (m *Match) Seat(identity string) int {
	for i := range m.Players {
		if m.Players[i].Identity == identity {
			return i
		}
	}
	return -1
}

// Territories returns how many tiles a player owns.
func (m *Match) Territories(player int) int {
	n := 0
	for i := range m.Tiles {
		if m.Tiles[i].Owner == player {
			n++
		}
	}
	return n
}

// ArmyOf returns the total army a player has on the board, dispatched troops
// included.
func (m *Match) ArmyOf(player int) int {
	n := 0
	for i := range m.Tiles {
		if m.Tiles[i].Owner == player {
			n += m.Tiles[i].Army + m.Tiles[i].Dispatched
		}
	}
	return n
}

// OwnsFaction reports whether a player holds every tile of a faction.
func (m *Match) OwnsFaction(player, faction int) bool {
	members := m.Map.FactionMembers(faction)
	if len(members) == 0 {
		return false
	}
	for _, t := range members {
		if m.Tiles[t].Owner != player {
			return false
		}
	}
	return true
}

// FactionBonus sums the faction scores of every faction a player fully owns.
func (m *Match) FactionBonus(player int) int {
	bonus := 0
	for f := 0; f < m.Map.FactionCount(); f++ {
		if m.OwnsFaction(player, f) {
			bonus += m.Map.FactionScore(f)
		}
	}
	return bonus
}

// Score is territories held plus faction scores, used to rank players when
// the round limit ends the game.
func (m *Match) Score(player int) int {
	return m.Territories(player) + m.FactionBonus(player)
}

// Alive returns the indices of players still in the game.
func (m *Match) Alive() []int {
	var out []int
	for i := range m.Players {
		if !m.Players[i].Eliminated {
			out = append(out, i)
		}
	}
	return out
}
