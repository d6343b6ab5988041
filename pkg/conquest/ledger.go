package conquest

// BaseSupply is the reinforcement earned from territory count alone.
func BaseSupply(territories int) int {
	return max(3, territories/3)
}

// SupplyFor returns the reinforcement a player earns at the start of a turn.
func (m *Match) SupplyFor(player int) int {
	return BaseSupply(m.Territories(player)) + m.FactionBonus(player)
}

func (m *Match) grantSupply(player int) {
	territories := m.Territories(player)
	base := BaseSupply(territories)
	faction := m.FactionBonus(player)
	m.Players[player].Supply = base + faction
	m.emit(EventSupplyGranted, SupplyGrantedEvent{
		Player:      player,
		Territories: territories,
		Base:        base,
		Faction:     faction,
		Supply:      base + faction,
	})
}

// Supply places reinforcements from the current player's pool on one of
// their tiles.
func (m *Match) Supply(caller string, tile, amount int) error {
	p, err := m.actor(caller, Supply)
	if err != nil {
		return err
	}
	land, err := m.Land(tile)
	if err != nil {
		return err
	}
	if land.Owner != p {
		return errorf(ErrInvalidOwner, "tile %d is not owned by player %d", tile, p)
	}
	if amount < 1 {
		return errorf(ErrInvalidMove, "supply amount must be positive, got %d", amount)
	}
	if amount > m.Players[p].Supply {
		return errorf(ErrInsufficientSupply, "requested %d, %d available", amount, m.Players[p].Supply)
	}

	land.Army += amount
	m.Players[p].Supply -= amount
	m.emit(EventSupplied, SuppliedEvent{
		Player:    p,
		Tile:      tile,
		Amount:    amount,
		Army:      land.Army,
		Remaining: m.Players[p].Supply,
	})
	return nil
}

// Discard redeems three cards from the current player's hand for supply.
func (m *Match) Discard(caller string, set [3]int) error {
	p, err := m.actor(caller, Supply)
	if err != nil {
		return err
	}
	units, err := setUnits(set, m.Map.TileCount())
	if err != nil {
		return err
	}
	hand, err := RedeemSet(m.Players[p].Cards, set)
	if err != nil {
		return err
	}
	if err := ValidateSet(units); err != nil {
		return err
	}
	m.redeem(p, set, hand, false)
	return nil
}

// redeem applies an already validated set. hand is the player's hand without
// the set.
func (m *Match) redeem(player int, set [3]int, hand []int, forced bool) {
	bonus := SetBonus(m.Game.Sets)
	ownership := 0
	for _, id := range set {
		if t := CardTile(id, m.Map.TileCount()); t != NoTile && m.Tiles[t].Owner == player {
			ownership += m.Rules.OwnershipBonus
		}
	}
	p := &m.Players[player]
	p.Cards = hand
	p.Supply += bonus + ownership
	m.Game.Sets++
	m.emit(EventSetRedeemed, SetRedeemedEvent{
		Player:    player,
		Cards:     set,
		Bonus:     bonus,
		Ownership: ownership,
		Forced:    forced,
		Sets:      m.Game.Sets,
	})
}

// Transfer fortifies one tile from another and ends the turn.
func (m *Match) Transfer(caller string, from, to, amount int) error {
	p, err := m.actor(caller, Transfer)
	if err != nil {
		return err
	}
	src, err := m.Land(from)
	if err != nil {
		return err
	}
	dst, err := m.Land(to)
	if err != nil {
		return err
	}
	if src.Owner != p || dst.Owner != p {
		return errorf(ErrInvalidOwner, "tiles %d and %d must both be owned by player %d", from, to, p)
	}
	if from == to {
		return errorf(ErrInvalidMove, "cannot transfer a tile onto itself")
	}
	if !m.linked(from, to, p) {
		return errorf(ErrInvalidAdjacency, "tile %d is not connected to tile %d", from, to)
	}
	if amount < 1 || amount >= src.Army {
		return errorf(ErrInvalidMove, "transfer of %d from an army of %d must leave at least one behind", amount, src.Army)
	}

	src.Army -= amount
	dst.Army += amount
	m.emit(EventFortified, FortifyEvent{Player: p, From: from, To: to, Amount: amount})
	m.increment()
	return nil
}

func (m *Match) linked(from, to, player int) bool {
	if !m.Rules.MultiHopTransfer {
		return m.Map.IsNeighbor(from, to)
	}
	return m.Map.Connected(from, to, func(t int) bool {
		return m.Tiles[t].Owner == player
	})
}
