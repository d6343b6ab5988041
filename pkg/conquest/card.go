package conquest

import (
	"math"
	"slices"
)

// Unit is the troop type printed on a card.
type Unit int

const (
	Infantry Unit = iota
	Cavalry
	Artillery
	Joker
)

func (u Unit) String() string {
	switch u {
	case Infantry:
		return "infantry"
	case Cavalry:
		return "cavalry"
	case Artillery:
		return "artillery"
	case Joker:
		return "joker"
	default:
		return "unknown"
	}
}

// CardCount returns the deck size for a map with the given number of
// territories: one card per territory plus jokers.
func CardCount(territories int) int {
	if territories > 20 {
		return territories + int(math.Round(float64(territories)*0.05))
	}
	return territories + 1
}

// CardUnit returns the unit of a card. Ids past the territory count are jokers.
func CardUnit(id, territories int) (Unit, error) {
	if id <= 0 || id > CardCount(territories) {
		return 0, errorf(ErrInvalidCard, "card %d does not exist", id)
	}
	if id > territories {
		return Joker, nil
	}
	switch id % 3 {
	case 1:
		return Infantry, nil
	case 2:
		return Cavalry, nil
	default:
		return Artillery, nil
	}
}

// CardTile returns the territory pictured on a card, or NoTile for jokers and
// invalid ids.
func CardTile(id, territories int) int {
	if id <= 0 || id > territories {
		return NoTile
	}
	return id - 1
}

// ValidateSet accepts three units that are all alike or all different.
// Jokers stand in for whatever unit completes the set.
func ValidateSet(units [3]Unit) error {
	var real []Unit
	for _, u := range units {
		if u != Joker {
			real = append(real, u)
		}
	}
	allSame, allDistinct := true, true
	for i := 0; i < len(real); i++ {
		for j := i + 1; j < len(real); j++ {
			if real[i] == real[j] {
				allDistinct = false
			} else {
				allSame = false
			}
		}
	}
	if !allSame && !allDistinct {
		return errorf(ErrInvalidSet, "%s, %s and %s do not form a set", units[0], units[1], units[2])
	}
	return nil
}

// SetBonus returns the supply granted for the next set given how many sets have
// already been redeemed in the match: 4, 6, 8, 10, 12, 15, then 5 more each time.
func SetBonus(redeemed int) int {
	n := redeemed + 1
	switch {
	case n <= 5:
		return 2 + 2*n
	default:
		return 15 + 5*(n-6)
	}
}

// setUnits resolves three card ids to units, rejecting repeats and unknown ids.
func setUnits(set [3]int, territories int) ([3]Unit, error) {
	var units [3]Unit
	for i, id := range set {
		for j := 0; j < i; j++ {
			if set[j] == id {
				return units, errorf(ErrInvalidCard, "card %d used twice", id)
			}
		}
		u, err := CardUnit(id, territories)
		if err != nil {
			return units, err
		}
		units[i] = u
	}
	return units, nil
}

// RedeemSet removes the three cards of set from hand and returns the remaining
// hand. The input slice is not modified.
func RedeemSet(hand []int, set [3]int) ([]int, error) {
	out := slices.Clone(hand)
	for _, id := range set {
		i := slices.Index(out, id)
		if i < 0 {
			return nil, errorf(ErrInvalidCard, "card %d not in hand", id)
		}
		out = slices.Delete(out, i, i+1)
	}
	return out, nil
}

// FindSet searches a hand for a redeemable set, preferring sets without jokers.
// The search is deterministic in the order of the hand.
func FindSet(hand []int, territories int) ([3]int, bool) {
	byUnit := make(map[Unit][]int)
	for _, id := range hand {
		u, err := CardUnit(id, territories)
		if err != nil {
			continue
		}
		byUnit[u] = append(byUnit[u], id)
	}

	for _, u := range []Unit{Infantry, Cavalry, Artillery} {
		if ids := byUnit[u]; len(ids) >= 3 {
			return [3]int{ids[0], ids[1], ids[2]}, true
		}
	}
	inf, cav, art := byUnit[Infantry], byUnit[Cavalry], byUnit[Artillery]
	if len(inf) > 0 && len(cav) > 0 && len(art) > 0 {
		return [3]int{inf[0], cav[0], art[0]}, true
	}

	jokers := byUnit[Joker]
	if len(jokers) == 0 {
		return [3]int{}, false
	}
	var others []int
	for _, id := range hand {
		if u, err := CardUnit(id, territories); err == nil && u != Joker {
			others = append(others, id)
		}
	}
	switch {
	case len(others) >= 2:
		return [3]int{others[0], others[1], jokers[0]}, true
	case len(others) == 1 && len(jokers) >= 2:
		return [3]int{others[0], jokers[0], jokers[1]}, true
	case len(jokers) >= 3:
		return [3]int{jokers[0], jokers[1], jokers[2]}, true
	}
	return [3]int{}, false
}
