//go:build integration

package redis

import (
	"context"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/testutil"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	return &Client{rdb: testRDB}
}

func saveMatch(t *testing.T, c *Client, m *conquest.Match) {
	t.Helper()
	err := c.Atomic(context.Background(), m.Game.ID, func(w repository.GameWriter) error {
		if err := w.SaveGame(m.Game); err != nil {
			return err
		}
		for i := range m.Players {
			if err := w.SavePlayer(&m.Players[i]); err != nil {
				return err
			}
		}
		for i := range m.Tiles {
			if err := w.SaveTile(&m.Tiles[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("save match: %v", err)
	}
}

func TestMatchRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	m, err := conquest.Create("g1", "Round trip", "alice", "Alice", conquest.Tiny, 1<<63+5, 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := m.Join("bob", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := m.Start("alice"); err != nil {
		t.Fatalf("start: %v", err)
	}
	saveMatch(t, c, m)

	g, err := c.LoadGame(ctx, "g1")
	if err != nil {
		t.Fatalf("load game: %v", err)
	}
	if g == nil || g.Seed != m.Game.Seed || !g.Started {
		t.Fatalf("game round-trip failed: %+v", g)
	}

	players, err := c.LoadPlayers(ctx, "g1")
	if err != nil {
		t.Fatalf("load players: %v", err)
	}
	if len(players) != 2 || players[1].Identity != "bob" {
		t.Fatalf("players = %+v", players)
	}

	tiles, err := c.LoadTiles(ctx, "g1")
	if err != nil {
		t.Fatalf("load tiles: %v", err)
	}
	loaded, err := conquest.NewMatch(g, players, tiles)
	if err != nil {
		t.Fatalf("rebuild match: %v", err)
	}
	for i := range tiles {
		if loaded.Tiles[i] != m.Tiles[i] {
			t.Errorf("tile %d = %+v, want %+v", i, loaded.Tiles[i], m.Tiles[i])
		}
	}

	tile, err := c.LoadTile(ctx, "g1", 3)
	if err != nil || tile == nil || tile.Index != 3 {
		t.Fatalf("load tile 3: %+v, %v", tile, err)
	}
	p, err := c.LoadPlayer(ctx, "g1", 0)
	if err != nil || p == nil || p.Identity != "alice" {
		t.Fatalf("load player 0: %+v, %v", p, err)
	}
}

func TestMissingRecords(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	g, err := c.LoadGame(ctx, "nope")
	if err != nil || g != nil {
		t.Fatalf("LoadGame(nope) = %+v, %v, want nil, nil", g, err)
	}
	p, err := c.LoadPlayer(ctx, "nope", 0)
	if err != nil || p != nil {
		t.Fatalf("LoadPlayer(nope) = %+v, %v, want nil, nil", p, err)
	}
	tile, err := c.LoadTile(ctx, "nope", 0)
	if err != nil || tile != nil {
		t.Fatalf("LoadTile(nope) = %+v, %v, want nil, nil", tile, err)
	}
}

func TestAtomicDiscardsOnError(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := c.Atomic(ctx, "g2", func(w repository.GameWriter) error {
		if err := w.SaveGame(&conquest.Game{ID: "g2", Variant: conquest.Tiny}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Atomic error = %v, want boom", err)
	}
	g, _ := c.LoadGame(ctx, "g2")
	if g != nil {
		t.Fatalf("game written despite error: %+v", g)
	}
}

func TestOpenGamesTracking(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	m, _ := conquest.Create("g3", "Lobby", "alice", "Alice", conquest.Tiny, 7, 0)
	saveMatch(t, c, m)

	open, err := c.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 || open[0].ID != "g3" {
		t.Fatalf("open = %+v", open)
	}

	m.Join("bob", "Bob")
	m.Start("alice")
	saveMatch(t, c, m)
	open, _ = c.ListOpen(ctx)
	if len(open) != 0 {
		t.Fatalf("started game still open: %+v", open)
	}

	err = c.Atomic(ctx, "g3", func(w repository.GameWriter) error {
		if err := w.DeletePlayer("g3", 1); err != nil {
			return err
		}
		return w.DeleteGame("g3")
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	g, _ := c.LoadGame(ctx, "g3")
	if g != nil {
		t.Fatal("expected game to be deleted")
	}
	players, _ := c.LoadPlayers(ctx, "g3")
	if len(players) != 0 {
		t.Fatalf("players left behind: %+v", players)
	}
}
