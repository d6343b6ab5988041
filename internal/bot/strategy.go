package bot

import (
	"fmt"
	"strings"

	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// Kind names the operation an Action performs.
type Kind string

const (
	KindSupply   Kind = "supply"
	KindDiscard  Kind = "discard"
	KindAttack   Kind = "attack"
	KindDefend   Kind = "defend"
	KindTransfer Kind = "transfer"
	KindFinish   Kind = "finish"
)

// Action is one move chosen by a strategy for the current player.
type Action struct {
	Kind   Kind
	Tile   int
	From   int
	To     int
	Amount int
	Cards  [3]int
}

func (a Action) String() string {
	switch a.Kind {
	case KindSupply:
		return fmt.Sprintf("supply %d on %d", a.Amount, a.Tile)
	case KindDiscard:
		return fmt.Sprintf("discard %v", a.Cards)
	case KindAttack, KindTransfer:
		return fmt.Sprintf("%s %d from %d to %d", a.Kind, a.Amount, a.From, a.To)
	case KindDefend:
		return fmt.Sprintf("defend %d to %d", a.From, a.To)
	default:
		return string(a.Kind)
	}
}

// Finish is the action that ends the current phase.
var Finish = Action{Kind: KindFinish}

// Strategy picks the next action for the player on seat. It is only asked
// while the match is live and seat is the current player.
type Strategy interface {
	Name() string
	Next(m *conquest.Match, seat int) Action
}

// StrategyForName returns the strategy registered under name. seed feeds the
// strategies that roll their own dice.
func StrategyForName(name string, seed uint64) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return NewRandomStrategy(seed), nil
	case "greedy", "":
		return GreedyStrategy{}, nil
	case "passive":
		return PassiveStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// ParseStrategies turns a comma separated list into strategies. Each random
// seat gets its own seed derived from seed.
func ParseStrategies(list string, seed uint64) ([]Strategy, error) {
	var out []Strategy
	for i, name := range strings.Split(list, ",") {
		s, err := StrategyForName(name, seed+uint64(i)*7919)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// --- PassiveStrategy ---

// PassiveStrategy spends its supply on its first tile and never attacks.
type PassiveStrategy struct{}

func (PassiveStrategy) Name() string { return "passive" }

func (PassiveStrategy) Next(m *conquest.Match, seat int) Action {
	if a, ok := obligatory(m, seat); ok {
		return a
	}
	if m.Phase() == conquest.Supply && m.Players[seat].Supply > 0 {
		if owned := ownedTiles(m, seat); len(owned) > 0 {
			return Action{Kind: KindSupply, Tile: owned[0], Amount: m.Players[seat].Supply}
		}
	}
	return Finish
}

// obligatory returns the action every strategy takes before choosing freely:
// resolving a pending attack and redeeming a set during supply.
func obligatory(m *conquest.Match, seat int) (Action, bool) {
	if p := m.PendingAttack(); p != nil {
		return Action{Kind: KindDefend, From: p.From, To: p.To}, true
	}
	if m.Phase() == conquest.Supply {
		if set, ok := conquest.FindSet(m.Players[seat].Cards, m.Map.TileCount()); ok {
			return Action{Kind: KindDiscard, Cards: set}, true
		}
	}
	return Action{}, false
}

func ownedTiles(m *conquest.Match, seat int) []int {
	var out []int
	for _, t := range m.Tiles {
		if t.Owner == seat {
			out = append(out, t.Index)
		}
	}
	return out
}

// enemyNeighbors lists the tiles next to tile held by someone else.
func enemyNeighbors(m *conquest.Match, seat, tile int) []int {
	adj, err := m.Map.Neighbors(tile)
	if err != nil {
		return nil
	}
	var out []int
	for _, n := range adj {
		if owner := m.Tiles[n].Owner; owner != seat && owner != conquest.Unowned {
			out = append(out, n)
		}
	}
	return out
}

// attackOption is a legal attack with everything but one army dispatched.
type attackOption struct {
	from, to   int
	dispatched int
	defenders  int
}

func attackOptions(m *conquest.Match, seat int) []attackOption {
	var out []attackOption
	for _, from := range ownedTiles(m, seat) {
		army := m.Tiles[from].Army
		if army < 2 {
			continue
		}
		for _, to := range enemyNeighbors(m, seat, from) {
			out = append(out, attackOption{from: from, to: to, dispatched: army - 1, defenders: m.Tiles[to].Army})
		}
	}
	return out
}

// canTransfer reports whether the match allows fortifying from one owned tile
// to another.
func canTransfer(m *conquest.Match, seat, from, to int) bool {
	if from == to {
		return false
	}
	if !m.Rules.MultiHopTransfer {
		return m.Map.IsNeighbor(from, to)
	}
	return m.Map.Connected(from, to, func(t int) bool { return m.Tiles[t].Owner == seat })
}
