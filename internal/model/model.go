package model

import (
	"encoding/json"
	"time"
)

// Event is an archived engine event.
type Event struct {
	ID        int64           `json:"id"`
	GameID    string          `json:"game_id"`
	Nonce     int             `json:"nonce"`
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// Result is one player's final line in a finished game.
type Result struct {
	GameID      string    `json:"game_id"`
	Variant     string    `json:"variant"`
	Seat        int       `json:"seat"`
	Identity    string    `json:"identity"`
	Name        string    `json:"name"`
	Rank        int       `json:"rank"`
	Winner      bool      `json:"winner"`
	Territories int       `json:"territories"`
	Score       int       `json:"score"`
	Army        int       `json:"army"`
	Rounds      int       `json:"rounds"`
	FinishedAt  time.Time `json:"finished_at"`
}
