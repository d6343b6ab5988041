package conquest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// newTinyMatch returns a started two player match on the tiny map with its
// start events drained.
func newTinyMatch(t *testing.T, seed uint64, roundLimit int) *Match {
	t.Helper()
	m, err := Create("g1", "test", "alice", "Alice", Tiny, seed, roundLimit)
	require.NoError(t, err)
	_, err = m.Join("bob", "Bob")
	require.NoError(t, err)
	require.NoError(t, m.Start("alice"))
	m.Events()
	return m
}

// arrange overwrites ownership and armies and recomputes the current
// player's supply.
func arrange(m *Match, owners, armies []int) {
	for i := range m.Tiles {
		m.Tiles[i].Owner = owners[i]
		m.Tiles[i].Army = armies[i]
	}
	p := m.CurrentPlayer()
	m.Players[p].Supply = m.SupplyFor(p)
}

// finishUntil ends phases until the match reaches the wanted phase.
func finishUntil(t *testing.T, m *Match, phase Phase) {
	t.Helper()
	for i := 0; i < 3 && m.Phase() != phase; i++ {
		caller := m.Players[m.CurrentPlayer()].Identity
		require.NoError(t, m.Finish(caller))
	}
	require.Equal(t, phase, m.Phase())
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestStartDealsEveryTile(t *testing.T) {
	m, err := Create("g1", "test", "alice", "Alice", Tiny, 42, 0)
	require.NoError(t, err)
	_, err = m.Join("bob", "Bob")
	require.NoError(t, err)
	require.NoError(t, m.Start("alice"))

	require.True(t, m.Game.Started)
	require.Equal(t, 0, m.Game.Nonce)
	require.Equal(t, Supply, m.Phase())
	require.Equal(t, 0, m.CurrentPlayer())

	require.Equal(t, 3, m.Territories(0), "seat 0 is dealt first")
	require.Equal(t, 2, m.Territories(1))
	total := 0
	for _, tile := range m.Tiles {
		require.NotEqual(t, Unowned, tile.Owner)
		require.GreaterOrEqual(t, tile.Army, 1)
		total += tile.Army
	}
	require.Equal(t, m.Rules.ArmyNumber, total)

	require.Equal(t, 3, BaseSupply(3))
	require.Equal(t, BaseSupply(3)+m.FactionBonus(0), m.Players[0].Supply)

	got := kinds(m.Events())
	require.Equal(t, EventGameCreated, got[0])
	require.Contains(t, got, EventPlayerJoined)
	require.Contains(t, got, EventGameStarted)
	require.Contains(t, got, EventSupplyGranted)
	require.Empty(t, m.Events(), "events drain on read")
}

func TestStartIsDeterministic(t *testing.T) {
	a := newTinyMatch(t, 7, 0)
	b := newTinyMatch(t, 7, 0)
	require.Equal(t, a.Tiles, b.Tiles)

	w1, err := Create("w", "world", "alice", "Alice", World, 99, 0)
	require.NoError(t, err)
	w2 := w1.Clone()
	for _, m := range []*Match{w1, w2} {
		_, err := m.Join("bob", "Bob")
		require.NoError(t, err)
		_, err = m.Join("carol", "Carol")
		require.NoError(t, err)
		require.NoError(t, m.Start("alice"))
	}
	require.Equal(t, w1.Tiles, w2.Tiles)
	require.Equal(t, 14, w1.Territories(0))
	require.Equal(t, 14, w1.Territories(1))
	require.Equal(t, 14, w1.Territories(2))
	require.Equal(t, 120, w1.ArmyOf(0)+w1.ArmyOf(1)+w1.ArmyOf(2))
}

func TestActionsBeforeStart(t *testing.T) {
	m, err := Create("g1", "test", "alice", "Alice", Tiny, 1, 0)
	require.NoError(t, err)
	require.ErrorIs(t, m.Supply("alice", 0, 1), ErrGameNotStarted)
	require.ErrorIs(t, m.Finish("alice"), ErrGameNotStarted)
	require.ErrorIs(t, m.Surrender("alice"), ErrGameNotStarted)
	require.ErrorIs(t, m.Claim("alice"), ErrGameNotOver)
}

func TestIllegalActionsLeaveStateUnchanged(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 1, 0, 1, 1}, []int{5, 1, 1, 1, 1})
	before := m.Clone()

	require.ErrorIs(t, m.Attack("alice", 0, 1, 2), ErrInvalidPhase)
	_, err := m.Defend("alice", 0, 1)
	require.ErrorIs(t, err, ErrInvalidPhase)
	require.ErrorIs(t, m.Transfer("alice", 0, 2, 1), ErrInvalidPhase)
	require.ErrorIs(t, m.Supply("bob", 1, 1), ErrInvalidPlayer)
	require.ErrorIs(t, m.Supply("mallory", 0, 1), ErrInvalidPlayer)
	require.ErrorIs(t, m.Finish("bob"), ErrInvalidPlayer)
	require.ErrorIs(t, m.Supply("alice", 1, 1), ErrInvalidOwner)
	require.ErrorIs(t, m.Supply("alice", 0, 0), ErrInvalidMove)
	require.ErrorIs(t, m.Supply("alice", 0, 99), ErrInsufficientSupply)
	require.ErrorIs(t, m.Supply("alice", 17, 1), ErrNotFound)

	require.Equal(t, before.Game, m.Game)
	require.Equal(t, before.Players, m.Players)
	require.Equal(t, before.Tiles, m.Tiles)
	require.Empty(t, m.Events())
}

func TestSupplyPlacesReinforcements(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 1, 0, 1, 1}, []int{1, 1, 1, 1, 1})
	require.Equal(t, 3, m.Players[0].Supply)

	require.NoError(t, m.Supply("alice", 0, 2))
	require.NoError(t, m.Supply("alice", 2, 1))
	require.Equal(t, 3, m.Tiles[0].Army)
	require.Equal(t, 2, m.Tiles[2].Army)
	require.Equal(t, 0, m.Players[0].Supply)
	require.ErrorIs(t, m.Supply("alice", 0, 1), ErrInsufficientSupply)

	ev := m.Events()
	require.Len(t, ev, 2)
	require.Equal(t, SuppliedEvent{Player: 0, Tile: 2, Amount: 1, Army: 2, Remaining: 0}, ev[1].Data)
}

func TestNonceDrivesTurns(t *testing.T) {
	m := newTinyMatch(t, 42, 0)

	want := []struct {
		player int
		phase  Phase
	}{
		{0, Attack},
		{0, Transfer},
		{1, Supply},
		{1, Attack},
		{1, Transfer},
		{0, Supply},
	}
	for i, w := range want {
		caller := m.Players[m.CurrentPlayer()].Identity
		require.NoError(t, m.Finish(caller))
		require.Equal(t, i+1, m.Game.Nonce)
		require.Equal(t, w.player, m.CurrentPlayer(), "nonce %d", m.Game.Nonce)
		require.Equal(t, w.phase, m.Phase(), "nonce %d", m.Game.Nonce)
	}
	require.Equal(t, 1, m.Round())
	require.Equal(t, m.SupplyFor(0), m.Players[0].Supply, "supply granted again at turn start")
}

func TestPhaseText(t *testing.T) {
	b, err := json.Marshal(struct {
		Phase Phase `json:"phase"`
	}{Attack})
	require.NoError(t, err)
	require.JSONEq(t, `{"phase":"attack"}`, string(b))

	var p Phase
	require.NoError(t, p.UnmarshalText([]byte("transfer")))
	require.Equal(t, Transfer, p)
	require.Error(t, p.UnmarshalText([]byte("dance")))
	require.Equal(t, "phase(7)", Phase(7).String())
	require.Equal(t, 2, PlayerOf(7, 3))
	require.Equal(t, 0, PlayerOf(7, 0))
}

func TestTransfer(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 0, 0, 1, 0}, []int{5, 1, 1, 1, 1})
	finishUntil(t, m, Transfer)

	require.ErrorIs(t, m.Transfer("alice", 0, 3, 1), ErrInvalidOwner)
	require.ErrorIs(t, m.Transfer("alice", 0, 0, 1), ErrInvalidMove)
	require.ErrorIs(t, m.Transfer("alice", 0, 1, 5), ErrInvalidMove)
	require.ErrorIs(t, m.Transfer("alice", 0, 1, 0), ErrInvalidMove)
	require.ErrorIs(t, m.Transfer("alice", 0, 4, 1), ErrInvalidAdjacency)

	require.NoError(t, m.Transfer("alice", 0, 1, 4))
	require.Equal(t, 1, m.Tiles[0].Army)
	require.Equal(t, 5, m.Tiles[1].Army)
	require.Equal(t, 1, m.CurrentPlayer(), "a transfer ends the turn")
	require.Equal(t, Supply, m.Phase())
	require.Contains(t, kinds(m.Events()), EventFortified)
}

func TestMultiHopTransfer(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	m.Rules.MultiHopTransfer = true
	arrange(m, []int{0, 1, 0, 1, 0}, []int{5, 1, 1, 1, 1})
	finishUntil(t, m, Transfer)

	// 0 -> 2 -> 4 runs through owned tiles only.
	require.NoError(t, m.Transfer("alice", 0, 4, 2))
	require.Equal(t, 3, m.Tiles[4].Army)
}

func TestMultiHopTransferBlocked(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	m.Rules.MultiHopTransfer = true
	arrange(m, []int{0, 1, 1, 1, 0}, []int{5, 1, 1, 1, 1})
	finishUntil(t, m, Transfer)
	require.ErrorIs(t, m.Transfer("alice", 0, 4, 2), ErrInvalidAdjacency)
}

func TestAttackValidation(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 1, 0, 1, 1}, []int{60, 1, 1, 1, 1})
	finishUntil(t, m, Attack)
	before := m.Clone()

	require.ErrorIs(t, m.Attack("alice", 0, 2, 1), ErrInvalidDefender)
	require.ErrorIs(t, m.Attack("alice", 3, 4, 1), ErrInvalidAttacker)
	require.ErrorIs(t, m.Attack("alice", 2, 3, 1), ErrInvalidAdjacency)
	require.ErrorIs(t, m.Attack("alice", 2, 1, 1), ErrInvalidDispatch)
	require.ErrorIs(t, m.Attack("alice", 0, 1, 60), ErrInvalidDispatch)
	require.ErrorIs(t, m.Attack("alice", 0, 1, 0), ErrInvalidDispatch)
	require.ErrorIs(t, m.Attack("bob", 1, 0, 1), ErrInvalidPlayer)
	require.Equal(t, before.Tiles, m.Tiles)

	require.NoError(t, m.Attack("alice", 0, 1, 50))
	require.Equal(t, 10, m.Tiles[0].Army)
	require.Equal(t, 50, m.Tiles[0].Dispatched)
	require.Equal(t, 1, m.Tiles[0].To)
	require.Equal(t, 0, m.Tiles[1].From)
	require.Equal(t, 1, m.Tiles[0].Order)
	require.Equal(t, 1, m.Game.Battles)
	require.Equal(t, 61, m.ArmyOf(0), "dispatched troops still count")
	require.Equal(t, &AttackLink{Battle: 1, Player: 0, From: 0, To: 1, Dispatched: 50}, m.PendingAttack())

	require.ErrorIs(t, m.Attack("alice", 0, 1, 5), ErrInvalidDispatch, "one pending attack at a time")
	_, err := m.Defend("alice", 2, 1)
	require.ErrorIs(t, err, ErrInvalidDispatch)
	_, err = m.Defend("bob", 0, 1)
	require.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestAttackCapturesTile(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 1, 0, 1, 1}, []int{60, 1, 1, 1, 1})
	finishUntil(t, m, Attack)

	require.NoError(t, m.Attack("alice", 0, 1, 50))
	rec, err := m.Defend("alice", 0, 1)
	require.NoError(t, err)

	require.Equal(t, AttackerWins, rec.Outcome)
	require.Equal(t, 0, rec.DefenderLeft)
	require.Equal(t, 51-(rec.AttackerLeft+rec.DefenderLeft), pairs(rec.Duels))
	require.Equal(t, 0, m.Tiles[1].Owner)
	require.Equal(t, rec.AttackerLeft, m.Tiles[1].Army)
	require.Equal(t, 10, m.Tiles[0].Army)
	require.Equal(t, 0, m.Tiles[0].Dispatched)
	require.Equal(t, NoTile, m.Tiles[0].To)
	require.Equal(t, NoTile, m.Tiles[1].From)

	require.Len(t, m.Players[0].Cards, 1, "a capture draws a card")
	require.Equal(t, m.Players[0].Cards[0], rec.Card)
	require.False(t, m.Players[1].Eliminated)
	require.NoError(t, VerifyBattle(m.Game.Seed, m.Rules, *rec))

	require.Contains(t, kinds(m.Events()), EventBattle)
}

func pairs(duels []Duel) int {
	return Battle{Duels: duels}.Pairs()
}

func TestBattlesReplayFromSeed(t *testing.T) {
	run := func() *BattleRecord {
		m := newTinyMatch(t, 2024, 0)
		arrange(m, []int{0, 1, 0, 1, 1}, []int{9, 6, 1, 1, 1})
		finishUntil(t, m, Attack)
		require.NoError(t, m.Attack("alice", 0, 1, 8))
		rec, err := m.Defend("alice", 0, 1)
		require.NoError(t, err)
		return rec
	}
	a, b := run(), run()
	require.Equal(t, a, b)
	require.Equal(t, 8+6-pairs(a.Duels), a.AttackerLeft+a.DefenderLeft)
}

func TestFinishRecallsPendingAttack(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 1, 0, 1, 1}, []int{6, 1, 1, 1, 1})
	finishUntil(t, m, Attack)

	require.NoError(t, m.Attack("alice", 0, 1, 4))
	require.NoError(t, m.Finish("alice"))
	require.Equal(t, Transfer, m.Phase())
	require.Equal(t, 6, m.Tiles[0].Army)
	require.Equal(t, 0, m.Tiles[0].Dispatched)
	require.Equal(t, NoTile, m.Tiles[0].To)
	require.Equal(t, NoTile, m.Tiles[1].From)
	require.Nil(t, m.PendingAttack())
	require.Contains(t, kinds(m.Events()), EventAttackRecalled)
}

func TestEliminationEndsGame(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 0, 0, 0, 1}, []int{1, 1, 60, 1, 1})
	m.Players[1].Cards = []int{5}
	finishUntil(t, m, Attack)

	require.ErrorIs(t, m.Claim("alice"), ErrGameNotOver)
	require.NoError(t, m.Attack("alice", 2, 4, 50))
	rec, err := m.Defend("alice", 2, 4)
	require.NoError(t, err)
	require.Equal(t, AttackerWins, rec.Outcome)

	require.True(t, m.Game.Over)
	require.Equal(t, 0, m.Game.Winner)
	require.True(t, m.Players[1].Eliminated)
	require.Equal(t, 2, m.Players[1].Rank)
	require.Equal(t, 1, m.Players[0].Rank)
	require.Empty(t, m.Players[1].Cards)
	require.Contains(t, m.Players[0].Cards, 5, "the conqueror takes the hand")

	got := kinds(m.Events())
	require.Contains(t, got, EventEliminated)
	require.Equal(t, EventGameOver, got[len(got)-1])

	require.ErrorIs(t, m.Finish("alice"), ErrGameOver)
	require.ErrorIs(t, m.Claim("bob"), ErrInvalidPlayer)
	require.ErrorIs(t, m.MarkSettled(), ErrInvalidPhase)
	require.False(t, m.Unsettled("alice"))
	require.NoError(t, m.Claim("alice"))
	require.True(t, m.Game.Claimed)
	require.ErrorIs(t, m.Claim("alice"), ErrAlreadyClaimed)

	require.True(t, m.Unsettled("alice"))
	require.False(t, m.Unsettled("bob"))
	require.NoError(t, m.MarkSettled())
	require.False(t, m.Unsettled("alice"))
	require.ErrorIs(t, m.MarkSettled(), ErrAlreadyClaimed)
}

func TestDiscard(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 0, 1, 1, 1}, []int{1, 1, 1, 1, 1})
	m.Players[0].Cards = []int{1, 2, 3, 4}
	supply := m.Players[0].Supply

	require.ErrorIs(t, m.Discard("alice", [3]int{1, 4, 2}), ErrInvalidSet)
	require.ErrorIs(t, m.Discard("alice", [3]int{1, 2, 5}), ErrInvalidCard)
	require.ErrorIs(t, m.Discard("alice", [3]int{1, 2, 9}), ErrInvalidCard)
	require.ErrorIs(t, m.Discard("bob", [3]int{1, 2, 3}), ErrInvalidPlayer)

	// Cards 1 and 2 show tiles 0 and 1, both held by alice.
	require.NoError(t, m.Discard("alice", [3]int{1, 2, 3}))
	require.Equal(t, supply+SetBonus(0)+2*m.Rules.OwnershipBonus, m.Players[0].Supply)
	require.Equal(t, []int{4}, m.Players[0].Cards)
	require.Equal(t, 1, m.Game.Sets)

	require.ErrorIs(t, m.Discard("alice", [3]int{1, 2, 3}), ErrInvalidCard, "the same set cannot be redeemed twice")

	finishUntil(t, m, Attack)
	require.ErrorIs(t, m.Discard("alice", [3]int{1, 2, 3}), ErrInvalidPhase)
}

func TestForcedRedemptionAtTurnStart(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	arrange(m, []int{0, 0, 0, 1, 1}, []int{1, 1, 1, 1, 1})
	m.Players[1].Cards = []int{1, 2, 3, 4, 5}
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Finish("alice"))
	}

	require.Equal(t, 1, m.CurrentPlayer())
	require.Len(t, m.Players[1].Cards, 2)
	require.Equal(t, 1, m.Game.Sets)
	require.GreaterOrEqual(t, m.Players[1].Supply, m.SupplyFor(1)+SetBonus(0))

	var forced bool
	for _, e := range m.Events() {
		if ev, ok := e.Data.(SetRedeemedEvent); ok {
			forced = ev.Forced
		}
	}
	require.True(t, forced)
}

func newTrio(t *testing.T) *Match {
	t.Helper()
	m, err := Create("g3", "trio", "alice", "Alice", Tiny, 5, 0)
	require.NoError(t, err)
	for _, id := range []string{"bob", "carol"} {
		_, err := m.Join(id, id)
		require.NoError(t, err)
	}
	require.NoError(t, m.Start("alice"))
	m.Events()
	return m
}

func TestSurrenderOnOwnTurn(t *testing.T) {
	m := newTrio(t)
	require.NoError(t, m.Surrender("alice"))

	require.True(t, m.Players[0].Eliminated)
	require.Equal(t, 3, m.Players[0].Rank)
	require.False(t, m.Game.Over)
	require.Equal(t, 3, m.Game.Nonce)
	require.Equal(t, 1, m.CurrentPlayer())
	require.Equal(t, Supply, m.Phase())
	require.Equal(t, 2, m.Territories(0), "tiles stay where they are")

	require.ErrorIs(t, m.Surrender("alice"), ErrInvalidPlayer)
	require.NoError(t, m.Surrender("carol"))
	require.True(t, m.Game.Over)
	require.Equal(t, 1, m.Game.Winner)
	require.Equal(t, 2, m.Players[2].Rank)
}

func TestSurrenderReturnsHandAndSkipsSeat(t *testing.T) {
	m := newTrio(t)
	m.Players[2].Cards = []int{1}
	require.NoError(t, m.Surrender("carol"))
	require.Empty(t, m.Players[2].Cards)
	require.Empty(t, m.Players[0].Cards)
	require.Empty(t, m.Players[1].Cards)
	require.Equal(t, 0, m.Game.Nonce, "surrender out of turn keeps the turn")

	for i := 0; i < 6; i++ {
		caller := m.Players[m.CurrentPlayer()].Identity
		require.NoError(t, m.Finish(caller))
	}
	require.Equal(t, 9, m.Game.Nonce)
	require.Equal(t, 0, m.CurrentPlayer(), "eliminated seats are skipped")
}

func TestRoundLimitRanksByScore(t *testing.T) {
	m := newTinyMatch(t, 42, 1)
	arrange(m, []int{0, 0, 0, 1, 1}, []int{1, 1, 1, 1, 1})
	for i := 0; i < 6; i++ {
		caller := m.Players[m.CurrentPlayer()].Identity
		require.NoError(t, m.Finish(caller))
	}

	require.True(t, m.Game.Over)
	require.Equal(t, 0, m.Game.Winner)
	require.Equal(t, 1, m.Players[0].Rank)
	require.Equal(t, 2, m.Players[1].Rank)

	var over GameOverEvent
	for _, e := range m.Events() {
		if ev, ok := e.Data.(GameOverEvent); ok {
			over = ev
		}
	}
	require.Len(t, over.Standings, 2)
	require.Equal(t, 4, over.Standings[0].Score, "three tiles plus the north faction")
	require.Equal(t, 2, over.Standings[1].Score)
}

func TestRoundLimitTieIsDraw(t *testing.T) {
	m := newTinyMatch(t, 42, 1)
	arrange(m, []int{0, 0, 1, 1, Unowned}, []int{1, 1, 1, 1, 1})
	for i := 0; i < 6; i++ {
		caller := m.Players[m.CurrentPlayer()].Identity
		require.NoError(t, m.Finish(caller))
	}
	require.True(t, m.Game.Over)
	require.Equal(t, NoWinner, m.Game.Winner)
	require.Equal(t, 1, m.Players[0].Rank)
	require.Equal(t, 1, m.Players[1].Rank)
	require.ErrorIs(t, m.Claim("alice"), ErrInvalidPlayer)
}

func TestEmote(t *testing.T) {
	m := newTinyMatch(t, 42, 0)
	require.ErrorIs(t, m.Emote("bob", 1), ErrInvalidPhase)
	finishUntil(t, m, Attack)
	require.ErrorIs(t, m.Emote("mallory", 1), ErrInvalidPlayer)
	require.NoError(t, m.Emote("bob", 3))

	ev := m.Events()
	require.Equal(t, EmoteEvent{Player: 1, Emote: 3}, ev[len(ev)-1].Data)
}

func TestLobbyRoster(t *testing.T) {
	m, err := Create("g1", "lobby", "alice", "Alice", Tiny, 1, 0)
	require.NoError(t, err)

	require.ErrorIs(t, m.Start("alice"), ErrPlayerCount)
	_, err = m.Join("bob", "Bob")
	require.NoError(t, err)
	_, err = m.Join("bob", "Bob")
	require.ErrorIs(t, err, ErrAlreadyJoined)
	_, err = m.Join("carol", "Carol")
	require.NoError(t, err)
	_, err = m.Join("dave", "Dave")
	require.ErrorIs(t, err, ErrGameFull)

	require.ErrorIs(t, m.Leave("alice"), ErrInvalidPlayer)
	require.ErrorIs(t, m.Leave("mallory"), ErrInvalidPlayer)
	require.ErrorIs(t, m.Kick("bob", 2), ErrNotHost)
	require.ErrorIs(t, m.Kick("alice", 0), ErrInvalidPlayer)
	require.ErrorIs(t, m.Kick("alice", 5), ErrNotFound)
	require.ErrorIs(t, m.CheckDelete("bob"), ErrNotHost)
	require.NoError(t, m.CheckDelete("alice"))

	require.NoError(t, m.Kick("alice", 1))
	require.Equal(t, 2, m.Game.PlayerCount)
	require.Equal(t, "carol", m.Players[1].Identity)
	require.Equal(t, 1, m.Players[1].Index, "seats are renumbered")

	require.NoError(t, m.Leave("carol"))
	require.Equal(t, 1, m.Game.PlayerCount)
	_, err = m.Join("bob", "Bob")
	require.NoError(t, err)

	require.ErrorIs(t, m.Start("bob"), ErrNotHost)
	require.NoError(t, m.Start("alice"))
	require.ErrorIs(t, m.Start("alice"), ErrGameStarted)
	_, err = m.Join("erin", "Erin")
	require.ErrorIs(t, err, ErrGameStarted)
	require.ErrorIs(t, m.Leave("bob"), ErrGameStarted)
	require.ErrorIs(t, m.Kick("alice", 1), ErrGameStarted)
	require.ErrorIs(t, m.CheckDelete("alice"), ErrGameStarted)
}

func TestCreateUnknownVariant(t *testing.T) {
	_, err := Create("g1", "x", "alice", "Alice", "atlantis", 1, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewMatchChecksConsistency(t *testing.T) {
	m := newTinyMatch(t, 42, 0)

	_, err := NewMatch(nil, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = NewMatch(m.Game, m.Players, m.Tiles[:4])
	require.Error(t, err)
	_, err = NewMatch(m.Game, m.Players[:1], m.Tiles)
	require.Error(t, err)

	loaded, err := NewMatch(m.Game, m.Players, m.Tiles)
	require.NoError(t, err)
	require.Equal(t, m.Rules, loaded.Rules)
	require.Equal(t, CodeInvalidPhase, CodeOf(loaded.Attack("alice", 0, 1, 1)))
}
