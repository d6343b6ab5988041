package conquest

// Rules holds the tunable parameters of a match. Each variant ships a default
// ruleset; see Map.Rules.
type Rules struct {
	MinPlayers int
	MaxPlayers int

	// ArmyNumber is the total army placed on the board at start. Every tile
	// receives one and the remainder is spread over the shuffled tiles.
	ArmyNumber int

	MaxAttackDice int
	MaxDefendDice int

	// MultiHopTransfer allows fortifying along any chain of owned tiles
	// instead of only to a direct neighbor.
	MultiHopTransfer bool

	// OwnershipBonus is added to supply for every redeemed card whose
	// territory the redeeming player owns.
	OwnershipBonus int

	// MaxHand forces set redemption at the start of a turn once a hand holds
	// this many cards. Zero disables forced redemption.
	MaxHand int

	// MaxDuels caps the dice rounds of one battle. Zero fights until one side
	// is exhausted.
	MaxDuels int
}
