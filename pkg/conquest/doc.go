// Package conquest implements the rules of a turn-based territory conquest
// game: maps of tiles grouped into factions, a card deck redeemed in sets, an
// army ledger, and battles decided by dice derived from the match seed.
//
// A Match is loaded from persisted Game, Player and Tile records, mutated by
// exactly one operation, and saved back. The turn order lives entirely in
// Game.Nonce; every operation validates against it and leaves the match
// untouched when it fails.
package conquest
