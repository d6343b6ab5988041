package bot

import (
	"golang.org/x/exp/rand"

	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// RandomStrategy plays random but legal actions. It is not safe for
// concurrent use; give every match its own instance.
type RandomStrategy struct {
	rng *rand.Rand
}

// NewRandomStrategy returns a RandomStrategy whose choices are fixed by seed.
func NewRandomStrategy(seed uint64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (*RandomStrategy) Name() string { return "random" }

func (s *RandomStrategy) Next(m *conquest.Match, seat int) Action {
	if a, ok := obligatory(m, seat); ok {
		return a
	}
	switch m.Phase() {
	case conquest.Supply:
		return s.supply(m, seat)
	case conquest.Attack:
		return s.attack(m, seat)
	default:
		return s.transfer(m, seat)
	}
}

func (s *RandomStrategy) supply(m *conquest.Match, seat int) Action {
	supply := m.Players[seat].Supply
	owned := ownedTiles(m, seat)
	if supply == 0 || len(owned) == 0 {
		return Finish
	}
	return Action{
		Kind:   KindSupply,
		Tile:   owned[s.rng.Intn(len(owned))],
		Amount: 1 + s.rng.Intn(supply),
	}
}

// attack keeps attacking with a fixed probability while any attack is legal.
func (s *RandomStrategy) attack(m *conquest.Match, seat int) Action {
	opts := attackOptions(m, seat)
	if len(opts) == 0 || s.rng.Float64() < 0.3 {
		return Finish
	}
	o := opts[s.rng.Intn(len(opts))]
	return Action{Kind: KindAttack, From: o.from, To: o.to, Amount: 1 + s.rng.Intn(o.dispatched)}
}

func (s *RandomStrategy) transfer(m *conquest.Match, seat int) Action {
	if s.rng.Float64() < 0.5 {
		return Finish
	}
	owned := ownedTiles(m, seat)
	for _, i := range s.rng.Perm(len(owned)) {
		from := owned[i]
		army := m.Tiles[from].Army
		if army < 2 {
			continue
		}
		for _, j := range s.rng.Perm(len(owned)) {
			to := owned[j]
			if canTransfer(m, seat, from, to) {
				return Action{Kind: KindTransfer, From: from, To: to, Amount: 1 + s.rng.Intn(army-1)}
			}
		}
	}
	return Finish
}
