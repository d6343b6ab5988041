package conquest

import (
	"fmt"
	"slices"
	"sort"
)

// Outcome is the state of an attack.
type Outcome string

const (
	Pending      Outcome = "pending"
	AttackerWins Outcome = "attacker_wins"
	DefenderWins Outcome = "defender_wins"
)

// Duel is one throw of the dice within a battle.
type Duel struct {
	Index        int   `json:"index"`
	Attack       []int `json:"attack"`
	Defend       []int `json:"defend"`
	AttackerLoss int   `json:"attacker_loss"`
	DefenderLoss int   `json:"defender_loss"`
}

// Battle is the pure result of resolving an attack.
type Battle struct {
	ID           int
	Duels        []Duel
	AttackerLeft int
	DefenderLeft int
}

// Pairs returns how many dice pairs were compared over the whole battle.
func (b Battle) Pairs() int {
	n := 0
	for _, d := range b.Duels {
		n += d.AttackerLoss + d.DefenderLoss
	}
	return n
}

// Resolve fights a battle between attackers dispatched troops and defenders
// resident troops. Each duel the attacker throws up to MaxAttackDice and the
// defender up to MaxDefendDice; dice are compared highest first, ties go to the
// defender, and each lost pair costs the loser one troop. Duels repeat until a
// side is exhausted or MaxDuels is reached.
func Resolve(seed uint64, battle, attackers, defenders int, rules Rules) Battle {
	b := Battle{ID: battle, AttackerLeft: attackers, DefenderLeft: defenders}
	for duel := 0; b.AttackerLeft > 0 && b.DefenderLeft > 0; duel++ {
		if rules.MaxDuels > 0 && duel >= rules.MaxDuels {
			break
		}
		na := min(b.AttackerLeft, rules.MaxAttackDice)
		nd := min(b.DefenderLeft, rules.MaxDefendDice)
		if na <= 0 || nd <= 0 {
			break
		}
		d := Duel{
			Index:  duel,
			Attack: throw(seed, battle, duel, 0, na),
			Defend: throw(seed, battle, duel, rules.MaxAttackDice, nd),
		}
		for i := 0; i < len(d.Attack) && i < len(d.Defend); i++ {
			if b.AttackerLeft == 0 || b.DefenderLeft == 0 {
				break
			}
			if d.Attack[i] > d.Defend[i] {
				b.DefenderLeft--
				d.DefenderLoss++
			} else {
				b.AttackerLeft--
				d.AttackerLoss++
			}
		}
		b.Duels = append(b.Duels, d)
	}
	return b
}

// throw rolls n dice starting at die index offset and sorts them high to low.
func throw(seed uint64, battle, duel, offset, n int) []int {
	dice := make([]int, n)
	for i := range dice {
		dice[i] = Die(seed, battle, duel, offset+i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(dice)))
	return dice
}

// BattleRecord is the audit trail of a resolved attack. Together with the
// match seed it is enough to recompute every die.
type BattleRecord struct {
	GameID       string  `json:"game_id"`
	Battle       int     `json:"battle"`
	Attacker     int     `json:"attacker"`
	Defender     int     `json:"defender"`
	AttackerTile int     `json:"attacker_tile"`
	DefenderTile int     `json:"defender_tile"`
	Dispatched   int     `json:"dispatched"`
	DefenderArmy int     `json:"defender_army"`
	Duels        []Duel  `json:"duels"`
	AttackerLeft int     `json:"attacker_left"`
	DefenderLeft int     `json:"defender_left"`
	Outcome      Outcome `json:"outcome"`
	Card         int     `json:"card,omitempty"`
}

// VerifyBattle recomputes a recorded battle from the seed and reports the
// first disagreement.
func VerifyBattle(seed uint64, rules Rules, rec BattleRecord) error {
	b := Resolve(seed, rec.Battle, rec.Dispatched, rec.DefenderArmy, rules)
	if len(b.Duels) != len(rec.Duels) {
		return fmt.Errorf("battle %d: %d duels recorded, %d recomputed", rec.Battle, len(rec.Duels), len(b.Duels))
	}
	for i, d := range b.Duels {
		r := rec.Duels[i]
		if !slices.Equal(d.Attack, r.Attack) || !slices.Equal(d.Defend, r.Defend) {
			return fmt.Errorf("battle %d duel %d: dice %v/%v recorded, %v/%v recomputed", rec.Battle, i, r.Attack, r.Defend, d.Attack, d.Defend)
		}
		if d.AttackerLoss != r.AttackerLoss || d.DefenderLoss != r.DefenderLoss {
			return fmt.Errorf("battle %d duel %d: losses disagree", rec.Battle, i)
		}
	}
	if b.AttackerLeft != rec.AttackerLeft || b.DefenderLeft != rec.DefenderLeft {
		return fmt.Errorf("battle %d: survivors %d/%d recorded, %d/%d recomputed", rec.Battle, rec.AttackerLeft, rec.DefenderLeft, b.AttackerLeft, b.DefenderLeft)
	}
	want := DefenderWins
	if b.DefenderLeft == 0 {
		want = AttackerWins
	}
	if rec.Outcome != want {
		return fmt.Errorf("battle %d: outcome %s recorded, %s recomputed", rec.Battle, rec.Outcome, want)
	}
	return nil
}

// Attack commits troops from one of the current player's tiles against a
// neighboring enemy tile. The attack stays pending until Defend resolves it.
func (m *Match) Attack(caller string, from, to, dispatched int) error {
	p, err := m.actor(caller, Attack)
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
	if src.Owner != p {
		return errorf(ErrInvalidAttacker, "tile %d is not owned by player %d", from, p)
	}
	if dst.Owner == p || dst.Owner == Unowned {
		return errorf(ErrInvalidDefender, "tile %d cannot be attacked by player %d", to, p)
	}
	if !m.Map.IsNeighbor(from, to) {
		return errorf(ErrInvalidAdjacency, "tile %d does not border tile %d", from, to)
	}
	if t := m.pendingAttack(); t != NoTile {
		return errorf(ErrInvalidDispatch, "attack from tile %d is still pending", t)
	}
	if dispatched < 1 || dispatched >= src.Army {
		return errorf(ErrInvalidDispatch, "dispatch of %d from an army of %d must leave at least one behind", dispatched, src.Army)
	}

	m.Game.Battles++
	src.Army -= dispatched
	src.Dispatched = dispatched
	src.To = to
	src.Order = m.Game.Battles
	dst.From = from
	dst.Order = m.Game.Battles
	m.emit(EventAttackLaunched, AttackEvent{
		Player:     p,
		Battle:     m.Game.Battles,
		From:       from,
		To:         to,
		Dispatched: dispatched,
	})
	return nil
}

// Defend resolves the pending attack from one tile to another.
func (m *Match) Defend(caller string, from, to int) (*BattleRecord, error) {
	p, err := m.actor(caller, Attack)
	if err != nil {
		return nil, err
	}
	src, err := m.Land(from)
	if err != nil {
		return nil, err
	}
	dst, err := m.Land(to)
	if err != nil {
		return nil, err
	}
	if src.Owner != p {
		return nil, errorf(ErrInvalidAttacker, "tile %d is not owned by player %d", from, p)
	}
	if src.Dispatched == 0 || src.To != to || dst.From != from {
		return nil, errorf(ErrInvalidDispatch, "no pending attack from tile %d to tile %d", from, to)
	}

	defender := dst.Owner
	b := Resolve(m.Game.Seed, src.Order, src.Dispatched, dst.Army, m.Rules)
	rec := &BattleRecord{
		GameID:       m.Game.ID,
		Battle:       src.Order,
		Attacker:     p,
		Defender:     defender,
		AttackerTile: from,
		DefenderTile: to,
		Dispatched:   src.Dispatched,
		DefenderArmy: dst.Army,
		Duels:        b.Duels,
		AttackerLeft: b.AttackerLeft,
		DefenderLeft: b.DefenderLeft,
	}

	src.Dispatched, src.To, src.Order = 0, NoTile, 0
	dst.From, dst.Order = NoTile, 0

	if b.DefenderLeft > 0 {
		rec.Outcome = DefenderWins
		src.Army += b.AttackerLeft
		dst.Army = b.DefenderLeft
		m.emit(EventBattle, *rec)
		return rec, nil
	}

	rec.Outcome = AttackerWins
	dst.Owner = p
	dst.Army = b.AttackerLeft
	rec.Card = m.drawCard(p, rec.Battle)
	m.emit(EventBattle, *rec)
	if m.Territories(defender) == 0 {
		m.eliminate(defender, p)
	}
	return rec, nil
}

// pendingAttack returns the tile with troops in flight, or NoTile.
func (m *Match) pendingAttack() int {
	for i := range m.Tiles {
		if m.Tiles[i].Dispatched > 0 {
			return i
		}
	}
	return NoTile
}

// AttackLink is an attack waiting for Defend.
type AttackLink struct {
	Battle     int `json:"battle"`
	Player     int `json:"player"`
	From       int `json:"from"`
	To         int `json:"to"`
	Dispatched int `json:"dispatched"`
}

// PendingAttack returns the attack waiting for Defend, or nil.
func (m *Match) PendingAttack() *AttackLink {
	from := m.pendingAttack()
	if from == NoTile {
		return nil
	}
	t := m.Tiles[from]
	return &AttackLink{Battle: t.Order, Player: t.Owner, From: from, To: t.To, Dispatched: t.Dispatched}
}

// recallAttacks returns dispatched troops to their tiles and clears links.
func (m *Match) recallAttacks() {
	for i := range m.Tiles {
		t := &m.Tiles[i]
		if t.Dispatched == 0 {
			continue
		}
		if t.To != NoTile {
			m.Tiles[t.To].From = NoTile
			m.Tiles[t.To].Order = 0
		}
		m.emit(EventAttackRecalled, AttackEvent{
			Player:     t.Owner,
			Battle:     t.Order,
			From:       i,
			To:         t.To,
			Dispatched: t.Dispatched,
		})
		t.Army += t.Dispatched
		t.Dispatched, t.To, t.Order = 0, NoTile, 0
	}
}

// drawCard gives the player a card from the unclaimed pool, chosen by the seed
// and the battle id. It returns 0 when the pool is empty.
func (m *Match) drawCard(player, battle int) int {
	held := make(map[int]bool)
	for i := range m.Players {
		for _, id := range m.Players[i].Cards {
			held[id] = true
		}
	}
	var pool []int
	for id := 1; id <= CardCount(m.Map.TileCount()); id++ {
		if !held[id] {
			pool = append(pool, id)
		}
	}
	if len(pool) == 0 {
		return 0
	}
	id := pool[derive(m.Game.Seed, "draw", battle)%uint64(len(pool))]
	m.Players[player].Cards = append(m.Players[player].Cards, id)
	return id
}
