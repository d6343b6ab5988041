package conquest

// EventKind names a state change worth telling clients and the audit log about.
type EventKind string

const (
	EventGameCreated    EventKind = "game_created"
	EventPlayerJoined   EventKind = "player_joined"
	EventPlayerLeft     EventKind = "player_left"
	EventGameStarted    EventKind = "game_started"
	EventPhaseChanged   EventKind = "phase_changed"
	EventSupplyGranted  EventKind = "supply_granted"
	EventSupplied       EventKind = "supplied"
	EventSetRedeemed    EventKind = "set_redeemed"
	EventAttackLaunched EventKind = "attack_launched"
	EventAttackRecalled EventKind = "attack_recalled"
	EventBattle         EventKind = "battle"
	EventFortified      EventKind = "fortified"
	EventEliminated     EventKind = "player_eliminated"
	EventSurrendered    EventKind = "player_surrendered"
	EventEmote          EventKind = "emote"
	EventGameOver       EventKind = "game_over"
	EventPrizeClaimed   EventKind = "prize_claimed"
)

// Event is one state change. Nonce is the game nonce after the change.
type Event struct {
	GameID string    `json:"game_id"`
	Nonce  int       `json:"nonce"`
	Kind   EventKind `json:"kind"`
	Data   any       `json:"data"`
}

type SeatEvent struct {
	Player   int    `json:"player"`
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Kicked   bool   `json:"kicked,omitempty"`
}

type PhaseEvent struct {
	Player int   `json:"player"`
	Phase  Phase `json:"phase"`
	Round  int   `json:"round"`
}

type SupplyGrantedEvent struct {
	Player      int `json:"player"`
	Territories int `json:"territories"`
	Base        int `json:"base"`
	Faction     int `json:"faction"`
	Supply      int `json:"supply"`
}

type SuppliedEvent struct {
	Player    int `json:"player"`
	Tile      int `json:"tile"`
	Amount    int `json:"amount"`
	Army      int `json:"army"`
	Remaining int `json:"remaining"`
}

type SetRedeemedEvent struct {
	Player    int    `json:"player"`
	Cards     [3]int `json:"cards"`
	Bonus     int    `json:"bonus"`
	Ownership int    `json:"ownership"`
	Forced    bool   `json:"forced"`
	Sets      int    `json:"sets"`
}

type AttackEvent struct {
	Player     int `json:"player"`
	Battle     int `json:"battle"`
	From       int `json:"from"`
	To         int `json:"to"`
	Dispatched int `json:"dispatched"`
}

type FortifyEvent struct {
	Player int `json:"player"`
	From   int `json:"from"`
	To     int `json:"to"`
	Amount int `json:"amount"`
}

type EliminatedEvent struct {
	Player int `json:"player"`
	By     int `json:"by"`
	Rank   int `json:"rank"`
	Cards  int `json:"cards"`
}

type EmoteEvent struct {
	Player int `json:"player"`
	Emote  int `json:"emote"`
}

type GameOverEvent struct {
	Winner    int        `json:"winner"`
	Standings []Standing `json:"standings"`
}
