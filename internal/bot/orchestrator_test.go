package bot

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/auth"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/handler"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository/memory"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.GameService) {
	t.Helper()
	hub := handler.NewHub()
	d := service.NewDispatcher(memory.NewStore(), hub)
	games := service.NewGameService(d, nil, conquest.Tiny)
	srv := httptest.NewServer(handler.NewRouter(handler.RouterConfig{
		Games:          games,
		Play:           service.NewPlayService(d),
		Hub:            hub,
		JWT:            auth.NewJWTManager("bot-test-secret", time.Hour),
		AllowedOrigins: []string{"*"},
		DevTokens:      true,
	}))
	t.Cleanup(srv.Close)
	return srv, games
}

func TestOrchestratorPlaysRemoteGame(t *testing.T) {
	srv, games := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orch := NewOrchestrator(srv.URL, []Strategy{GreedyStrategy{}, NewRandomStrategy(8)}, conquest.Tiny, 6)
	gameID, err := orch.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	m, err := games.LoadMatch(ctx, gameID)
	if err != nil {
		t.Fatalf("LoadMatch: %v", err)
	}
	if !m.Game.Over {
		t.Error("expected the remote game to be over")
	}
	if m.Players[0].Identity != Identity(0) || m.Players[1].Name != "random-1" {
		t.Errorf("unexpected seats %+v", m.Players)
	}
}

func TestClientLobbyAndActions(t *testing.T) {
	srv, games := newTestServer(t)
	ctx := context.Background()

	alice := NewClient("alice", "Alice", srv.URL)
	bob := NewClient("bob", "Bob", srv.URL)
	for _, c := range []*Client{alice, bob} {
		if err := c.Login(); err != nil {
			t.Fatalf("Login: %v", err)
		}
	}
	id, err := alice.CreateGame("hands", conquest.Tiny, 0, 42)
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if err := bob.JoinGame(id); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if err := alice.StartGame(id); err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	snap, err := bob.GetGame(id)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if snap.Game.Seed != 0 {
		t.Error("expected the seed to stay hidden while the game runs")
	}
	m, err := MatchFromSnapshot(snap)
	if err != nil {
		t.Fatalf("MatchFromSnapshot: %v", err)
	}
	full, _ := games.LoadMatch(ctx, id)
	if m.Phase() != full.Phase() || m.CurrentPlayer() != full.CurrentPlayer() {
		t.Errorf("rebuilt match disagrees with the server: %s/%d vs %s/%d",
			m.Phase(), m.CurrentPlayer(), full.Phase(), full.CurrentPlayer())
	}

	err = bob.Act(id, snap.Game.Nonce, Finish)
	se, ok := err.(*StatusError)
	if !ok || se.Status != 403 {
		t.Errorf("expected 403 acting out of turn, got %v", err)
	}
	if err := alice.Act(id, snap.Game.Nonce+1, Finish); err == nil {
		t.Error("expected a stale nonce to be rejected")
	}
	if err := alice.Act(id, snap.Game.Nonce, Finish); err != nil {
		t.Errorf("Finish: %v", err)
	}
}
