package bot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// WSEvent mirrors handler.WSEvent for client-side deserialization.
type WSEvent struct {
	Type   string          `json:"type"`
	GameID string          `json:"game_id"`
	Data   json.RawMessage `json:"data"`
}

// Client is an HTTP+WebSocket client for a single bot player.
type Client struct {
	identity string
	name     string
	baseURL  string
	token    string
	wsConn   *websocket.Conn
	events   chan WSEvent
	httpC    *http.Client
	mu       sync.Mutex
	closedWS bool
}

// NewClient creates a new bot client targeting the given server URL.
func NewClient(identity, name, baseURL string) *Client {
	return &Client{
		identity: identity,
		name:     name,
		baseURL:  strings.TrimRight(baseURL, "/"),
		events:   make(chan WSEvent, 64),
		httpC:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the bot name.
func (c *Client) Name() string { return c.name }

// Identity returns the identity the bot plays under.
func (c *Client) Identity() string { return c.identity }

// Login fetches a token from the dev token endpoint.
func (c *Client) Login() error {
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"identity": c.identity, "name": c.name}
	if err := c.do(http.MethodPost, "/api/v1/auth/token", body, -1, &tok); err != nil {
		return fmt.Errorf("dev token: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("dev token: empty access token")
	}
	c.token = tok.AccessToken
	log.Debug().Str("bot", c.name).Str("identity", c.identity).Msg("Bot logged in")
	return nil
}

// CreateGame opens a lobby and returns its ID.
func (c *Client) CreateGame(name string, variant conquest.Variant, roundLimit int, seed uint64) (string, error) {
	body := map[string]any{
		"name":        name,
		"variant":     variant,
		"round_limit": roundLimit,
	}
	if seed != 0 {
		body["seed"] = strconv.FormatUint(seed, 10)
	}
	var snap service.Snapshot
	if err := c.do(http.MethodPost, "/api/v1/games", body, -1, &snap); err != nil {
		return "", err
	}
	return snap.Game.ID, nil
}

// JoinGame joins an existing game.
func (c *Client) JoinGame(gameID string) error {
	return c.do(http.MethodPost, "/api/v1/games/"+gameID+"/join", nil, -1, nil)
}

// StartGame starts a game (host only).
func (c *Client) StartGame(gameID string) error {
	return c.do(http.MethodPost, "/api/v1/games/"+gameID+"/start", nil, -1, nil)
}

// GetGame fetches the game as this bot sees it.
func (c *Client) GetGame(gameID string) (*service.Snapshot, error) {
	var snap service.Snapshot
	if err := c.do(http.MethodGet, "/api/v1/games/"+gameID, nil, -1, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Act sends a against the given nonce.
func (c *Client) Act(gameID string, nonce int, a Action) error {
	path := "/api/v1/games/" + gameID + "/" + string(a.Kind)
	var body any
	switch a.Kind {
	case KindSupply:
		body = map[string]int{"tile": a.Tile, "amount": a.Amount}
	case KindDiscard:
		body = map[string][3]int{"cards": a.Cards}
	case KindAttack, KindTransfer:
		body = map[string]int{"from": a.From, "to": a.To, "amount": a.Amount}
	case KindDefend:
		body = map[string]int{"from": a.From, "to": a.To}
	default:
		path = "/api/v1/games/" + gameID + "/finish"
	}
	return c.do(http.MethodPost, path, body, nonce, nil)
}

// MatchFromSnapshot rebuilds a match from what one viewer can see. Other
// players' hands are empty.
func MatchFromSnapshot(s *service.Snapshot) (*conquest.Match, error) {
	game := s.Game
	players := make([]conquest.Player, len(s.Players))
	for i, v := range s.Players {
		players[i] = v.Player
	}
	tiles := append([]conquest.Tile(nil), s.Tiles...)
	return conquest.NewMatch(&game, players, tiles)
}

// ConnectWS opens a WebSocket connection and starts listening for events.
func (c *Client) ConnectWS() error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/v1/ws?token=" + url.QueryEscape(c.token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	c.wsConn = conn

	go c.readWSLoop()
	return nil
}

// SubscribeGame sends a subscribe message for the given game.
func (c *Client) SubscribeGame(gameID string) error {
	msg := map[string]string{"action": "subscribe", "game_id": gameID}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wsConn.WriteJSON(msg)
}

// Events returns the channel of incoming WebSocket events.
func (c *Client) Events() <-chan WSEvent { return c.events }

// CloseWS closes the WebSocket connection.
func (c *Client) CloseWS() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wsConn != nil && !c.closedWS {
		c.closedWS = true
		c.wsConn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.wsConn.Close()
	}
}

func (c *Client) readWSLoop() {
	defer close(c.events)
	for {
		_, msg, err := c.wsConn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closedWS
			c.mu.Unlock()
			if !closed {
				log.Debug().Err(err).Str("bot", c.name).Msg("WS read error")
			}
			return
		}
		var event WSEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		c.events <- event
	}
}

// do sends a JSON request and decodes the response into out when it is not
// nil. A non-negative nonce is sent as the expected game nonce.
func (c *Client) do(method, path string, payload any, nonce int, out any) error {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(data)
	} else if method == http.MethodPost {
		bodyReader = bytes.NewReader([]byte("{}"))
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	if nonce >= 0 {
		req.Header.Set("X-Game-Nonce", strconv.Itoa(nonce))
	}

	resp, err := c.httpC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError is returned for responses with an error status.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}
