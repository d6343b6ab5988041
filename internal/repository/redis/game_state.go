package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/repository"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// Key patterns for Redis game state. Players and tiles are hashes keyed by
// their index.
func stateKey(gameID string) string   { return "game:" + gameID + ":state" }
func playersKey(gameID string) string { return "game:" + gameID + ":players" }
func tilesKey(gameID string) string   { return "game:" + gameID + ":tiles" }

const openGamesKey = "games:open"

// LoadGame returns the game header.
func (c *Client) LoadGame(ctx context.Context, gameID string) (*conquest.Game, error) {
	data, err := c.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	var g conquest.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", gameID, err)
	}
	return &g, nil
}

// LoadPlayer returns one seat.
func (c *Client) LoadPlayer(ctx context.Context, gameID string, index int) (*conquest.Player, error) {
	data, err := c.rdb.HGet(ctx, playersKey(gameID), strconv.Itoa(index)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	var p conquest.Player
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode player %s/%d: %w", gameID, index, err)
	}
	return &p, nil
}

// LoadPlayers returns every seat ordered by index.
func (c *Client) LoadPlayers(ctx context.Context, gameID string) ([]conquest.Player, error) {
	fields, err := c.rdb.HGetAll(ctx, playersKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	players := make([]conquest.Player, 0, len(fields))
	for field, data := range fields {
		var p conquest.Player
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("decode player %s/%s: %w", gameID, field, err)
		}
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Index < players[j].Index })
	return players, nil
}

// LoadTile returns one tile.
func (c *Client) LoadTile(ctx context.Context, gameID string, index int) (*conquest.Tile, error) {
	data, err := c.rdb.HGet(ctx, tilesKey(gameID), strconv.Itoa(index)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tile: %w", err)
	}
	var t conquest.Tile
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tile %s/%d: %w", gameID, index, err)
	}
	return &t, nil
}

// LoadTiles returns every tile ordered by index.
func (c *Client) LoadTiles(ctx context.Context, gameID string) ([]conquest.Tile, error) {
	fields, err := c.rdb.HGetAll(ctx, tilesKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get tiles: %w", err)
	}
	tiles := make([]conquest.Tile, 0, len(fields))
	for field, data := range fields {
		var t conquest.Tile
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode tile %s/%s: %w", gameID, field, err)
		}
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Index < tiles[j].Index })
	return tiles, nil
}

// ListOpen returns the games still waiting in the lobby.
func (c *Client) ListOpen(ctx context.Context) ([]conquest.Game, error) {
	ids, err := c.rdb.SMembers(ctx, openGamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list open games: %w", err)
	}
	sort.Strings(ids)
	var games []conquest.Game
	for _, id := range ids {
		g, err := c.LoadGame(ctx, id)
		if err != nil {
			return nil, err
		}
		if g != nil && !g.Started {
			games = append(games, *g)
		}
	}
	return games, nil
}

// Atomic queues every write made by fn in a MULTI/EXEC transaction.
func (c *Client) Atomic(ctx context.Context, gameID string, fn func(w repository.GameWriter) error) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return fn(&txWriter{ctx: ctx, pipe: pipe})
	})
	if err != nil {
		return fmt.Errorf("commit game %s: %w", gameID, err)
	}
	return nil
}

type txWriter struct {
	ctx  context.Context
	pipe redis.Pipeliner
}

func (w *txWriter) SaveGame(g *conquest.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	w.pipe.Set(w.ctx, stateKey(g.ID), data, 0)
	if g.Started {
		w.pipe.SRem(w.ctx, openGamesKey, g.ID)
	} else {
		w.pipe.SAdd(w.ctx, openGamesKey, g.ID)
	}
	return nil
}

func (w *txWriter) SavePlayer(p *conquest.Player) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode player: %w", err)
	}
	w.pipe.HSet(w.ctx, playersKey(p.GameID), strconv.Itoa(p.Index), data)
	return nil
}

func (w *txWriter) SaveTile(t *conquest.Tile) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode tile: %w", err)
	}
	w.pipe.HSet(w.ctx, tilesKey(t.GameID), strconv.Itoa(t.Index), data)
	return nil
}

func (w *txWriter) DeletePlayer(gameID string, index int) error {
	w.pipe.HDel(w.ctx, playersKey(gameID), strconv.Itoa(index))
	return nil
}

func (w *txWriter) DeleteGame(gameID string) error {
	w.pipe.Del(w.ctx, stateKey(gameID), playersKey(gameID), tilesKey(gameID))
	w.pipe.SRem(w.ctx, openGamesKey, gameID)
	return nil
}
