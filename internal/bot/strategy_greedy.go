package bot

import "github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"

// GreedyStrategy reinforces its strongest border, attacks only with the odds
// on its side and pulls idle armies from the interior to the front.
type GreedyStrategy struct{}

func (GreedyStrategy) Name() string { return "greedy" }

func (g GreedyStrategy) Next(m *conquest.Match, seat int) Action {
	if a, ok := obligatory(m, seat); ok {
		return a
	}
	switch m.Phase() {
	case conquest.Supply:
		return g.supply(m, seat)
	case conquest.Attack:
		return g.attack(m, seat)
	default:
		return g.transfer(m, seat)
	}
}

// supply stacks everything on the border tile with the largest lead over its
// weakest enemy neighbor.
func (GreedyStrategy) supply(m *conquest.Match, seat int) Action {
	supply := m.Players[seat].Supply
	owned := ownedTiles(m, seat)
	if supply == 0 || len(owned) == 0 {
		return Finish
	}
	best, bestLead := owned[0], 0
	found := false
	for _, t := range owned {
		enemies := enemyNeighbors(m, seat, t)
		if len(enemies) == 0 {
			continue
		}
		weakest := m.Tiles[enemies[0]].Army
		for _, e := range enemies[1:] {
			weakest = min(weakest, m.Tiles[e].Army)
		}
		lead := m.Tiles[t].Army - weakest
		if !found || lead > bestLead {
			best, bestLead, found = t, lead, true
		}
	}
	return Action{Kind: KindSupply, Tile: best, Amount: supply}
}

// attack picks the attack with the best attacker to defender ratio among
// those where the attackers outnumber the defenders.
func (GreedyStrategy) attack(m *conquest.Match, seat int) Action {
	var best *attackOption
	for _, o := range attackOptions(m, seat) {
		if o.dispatched <= o.defenders {
			continue
		}
		if best == nil || o.dispatched*best.defenders > best.dispatched*o.defenders {
			best = &o
		}
	}
	if best == nil {
		return Finish
	}
	return Action{Kind: KindAttack, From: best.from, To: best.to, Amount: best.dispatched}
}

// transfer moves the largest interior army to the weakest reachable border
// tile.
func (GreedyStrategy) transfer(m *conquest.Match, seat int) Action {
	owned := ownedTiles(m, seat)
	var interior, border []int
	for _, t := range owned {
		if len(enemyNeighbors(m, seat, t)) == 0 {
			interior = append(interior, t)
		} else {
			border = append(border, t)
		}
	}

	from := conquest.NoTile
	for _, t := range interior {
		if m.Tiles[t].Army > 1 && (from == conquest.NoTile || m.Tiles[t].Army > m.Tiles[from].Army) {
			from = t
		}
	}
	if from == conquest.NoTile {
		return Finish
	}
	to := conquest.NoTile
	for _, t := range border {
		if canTransfer(m, seat, from, t) && (to == conquest.NoTile || m.Tiles[t].Army < m.Tiles[to].Army) {
			to = t
		}
	}
	if to == conquest.NoTile {
		return Finish
	}
	return Action{Kind: KindTransfer, From: from, To: to, Amount: m.Tiles[from].Army - 1}
}
