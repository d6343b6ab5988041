package conquest

// Create opens a new match in the lobby with the host seated first. Tiles exist
// from the start but stay unowned until Start deals them.
func Create(id, name, host, hostName string, variant Variant, seed uint64, roundLimit int) (*Match, error) {
	mp, err := Lookup(variant)
	if err != nil {
		return nil, err
	}
	if roundLimit < 0 {
		roundLimit = 0
	}
	game := &Game{
		ID:          id,
		Name:        name,
		Host:        host,
		Variant:     variant,
		Seed:        seed,
		PlayerCount: 1,
		RoundLimit:  roundLimit,
		Winner:      NoWinner,
	}
	tiles := make([]Tile, mp.TileCount())
	for i := range tiles {
		tiles[i] = Tile{GameID: id, Index: i, Owner: Unowned, From: NoTile, To: NoTile}
	}
	players := []Player{{GameID: id, Index: 0, Identity: host, Name: hostName}}

	m := &Match{Game: game, Players: players, Tiles: tiles, Map: mp, Rules: mp.Rules()}
	m.emit(EventGameCreated, SeatEvent{Player: 0, Identity: host, Name: hostName})
	return m, nil
}

func (m *Match) checkLobby() error {
	if m.Game.Started {
		return ErrGameStarted
	}
	return nil
}

// Join seats a new player at the next index.
func (m *Match) Join(identity, name string) (*Player, error) {
	if err := m.checkLobby(); err != nil {
		return nil, err
	}
	if m.Seat(identity) >= 0 {
		return nil, ErrAlreadyJoined
	}
	if m.Game.PlayerCount >= m.Rules.MaxPlayers {
		return nil, errorf(ErrGameFull, "game %s already has %d players", m.Game.ID, m.Game.PlayerCount)
	}
	idx := len(m.Players)
	m.Players = append(m.Players, Player{GameID: m.Game.ID, Index: idx, Identity: identity, Name: name})
	m.Game.PlayerCount = len(m.Players)
	m.emit(EventPlayerJoined, SeatEvent{Player: idx, Identity: identity, Name: name})
	return &m.Players[idx], nil
}

// Leave removes the caller from the lobby. The host cannot leave; they delete
// the game instead.
func (m *Match) Leave(identity string) error {
	if err := m.checkLobby(); err != nil {
		return err
	}
	seat := m.Seat(identity)
	if seat < 0 {
		return errorf(ErrInvalidPlayer, "caller is not seated in game %s", m.Game.ID)
	}
	if identity == m.Game.Host {
		return errorf(ErrInvalidPlayer, "the host cannot leave, delete the game instead")
	}
	m.removeSeat(seat, false)
	return nil
}

// Kick lets the host remove another player before start.
func (m *Match) Kick(caller string, index int) error {
	if err := m.checkLobby(); err != nil {
		return err
	}
	if caller != m.Game.Host {
		return ErrNotHost
	}
	if index < 0 || index >= len(m.Players) {
		return errorf(ErrNotFound, "no player at index %d", index)
	}
	if m.Players[index].Identity == m.Game.Host {
		return errorf(ErrInvalidPlayer, "the host cannot kick themselves")
	}
	m.removeSeat(index, true)
	return nil
}

// CheckDelete reports whether caller may delete the game.
func (m *Match) CheckDelete(caller string) error {
	if err := m.checkLobby(); err != nil {
		return err
	}
	if caller != m.Game.Host {
		return ErrNotHost
	}
	return nil
}

// removeSeat drops a player and shifts later seats down by one.
func (m *Match) removeSeat(seat int, kicked bool) {
	p := m.Players[seat]
	m.Players = append(m.Players[:seat], m.Players[seat+1:]...)
	for i := range m.Players {
		m.Players[i].Index = i
	}
	m.Game.PlayerCount = len(m.Players)
	m.emit(EventPlayerLeft, SeatEvent{Player: seat, Identity: p.Identity, Name: p.Name, Kicked: kicked})
}

// Start deals the territories and opens the first turn. Tiles are handed out
// round-robin from seat 0 in a seeded shuffle order, each with one army; the
// rest of ArmyNumber is spread over the same order.
func (m *Match) Start(caller string) error {
	if err := m.checkLobby(); err != nil {
		return err
	}
	if caller != m.Game.Host {
		return ErrNotHost
	}
	count := len(m.Players)
	if count < m.Rules.MinPlayers || count > m.Rules.MaxPlayers {
		return errorf(ErrPlayerCount, "need %d to %d players, have %d", m.Rules.MinPlayers, m.Rules.MaxPlayers, count)
	}

	n := len(m.Tiles)
	order := deal(m.Game.Seed, n)
	for k, t := range order {
		m.Tiles[t].Owner = k % count
		m.Tiles[t].Army = 1
	}
	for i := 0; i < m.Rules.ArmyNumber-n; i++ {
		m.Tiles[order[i%n]].Army++
	}

	m.Game.Started = true
	m.Game.Nonce = 0
	for i := range m.Players {
		m.Players[i].Supply = m.SupplyFor(i)
	}
	m.emit(EventGameStarted, m.Standings())
	m.beginTurn()
	return nil
}

// Surrender takes the caller out of the game. Their tiles stay where they are
// and their hand returns to the deck.
func (m *Match) Surrender(caller string) error {
	if err := m.checkLive(); err != nil {
		return err
	}
	seat := m.Seat(caller)
	if seat < 0 || m.Players[seat].Eliminated {
		return errorf(ErrInvalidPlayer, "caller is not playing in game %s", m.Game.ID)
	}
	current := seat == m.CurrentPlayer()
	if current {
		m.recallAttacks()
	}
	m.emit(EventSurrendered, SeatEvent{Player: seat, Identity: caller, Name: m.Players[seat].Name})
	m.eliminate(seat, -1)
	if !m.Game.Over && current {
		m.endTurn()
	}
	return nil
}

// Claim marks the prize of a finished game as taken by its winner.
func (m *Match) Claim(caller string) error {
	if !m.Game.Over {
		return ErrGameNotOver
	}
	seat := m.Seat(caller)
	if seat < 0 || seat != m.Game.Winner {
		return errorf(ErrInvalidPlayer, "only the winner can claim the prize")
	}
	if m.Game.Claimed {
		return ErrAlreadyClaimed
	}
	m.Game.Claimed = true
	m.emit(EventPrizeClaimed, SeatEvent{Player: seat, Identity: caller, Name: m.Players[seat].Name})
	return nil
}

// Unsettled reports whether caller is the winner of a claim whose payout has
// not been confirmed.
func (m *Match) Unsettled(caller string) bool {
	seat := m.Seat(caller)
	return m.Game.Claimed && !m.Game.Settled && seat >= 0 && seat == m.Game.Winner
}

// MarkSettled records that the claimed prize has been paid out.
func (m *Match) MarkSettled() error {
	if !m.Game.Claimed {
		return errorf(ErrInvalidPhase, "prize of game %s has not been claimed", m.Game.ID)
	}
	if m.Game.Settled {
		return ErrAlreadyClaimed
	}
	m.Game.Settled = true
	return nil
}
