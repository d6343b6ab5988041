package service

import "context"

// Broadcaster sends real-time events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastGameEvent(gameID string, eventType string, data any)
}

// NoopBroadcaster is a no-op implementation for testing or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastGameEvent(string, string, any) {}

// IdentityBroadcaster is implemented by broadcasters that can reach a single
// participant. Private events such as a drawn card go through it.
type IdentityBroadcaster interface {
	BroadcastToIdentity(identity, gameID, eventType string, data any)
}

// Settlement pays out the prize of a finished game to its winner. Settle may
// be called again for a game whose payout was never confirmed, so it must pay
// at most once per game id.
type Settlement interface {
	Settle(ctx context.Context, gameID, winner string) error
}

// NoopSettlement accepts every claim without moving anything.
type NoopSettlement struct{}

func (NoopSettlement) Settle(context.Context, string, string) error { return nil }
