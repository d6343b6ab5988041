package handler

import (
	"net/http"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/auth"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/middleware"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
)

// RouterConfig collects what the HTTP surface needs.
type RouterConfig struct {
	Games          *service.GameService
	Play           *service.PlayService
	Hub            *Hub
	JWT            *auth.JWTManager
	AllowedOrigins []string
	DevTokens      bool
}

// NewRouter builds the full HTTP handler with global middleware applied.
func NewRouter(cfg RouterConfig) http.Handler {
	authHandler := NewAuthHandler(cfg.JWT, cfg.DevTokens)
	gameHandler := NewGameHandler(cfg.Games)
	playHandler := NewPlayHandler(cfg.Play)
	wsHandler := NewWSHandler(cfg.Hub, cfg.JWT, cfg.AllowedOrigins)

	mux := http.NewServeMux()
	authMw := auth.Middleware(cfg.JWT)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/token", authHandler.DevToken)
	mux.HandleFunc("GET /api/v1/variants", gameHandler.ListVariants)

	api := http.NewServeMux()
	api.HandleFunc("GET /me", authHandler.Me)
	api.HandleFunc("GET /history", gameHandler.History)
	api.HandleFunc("POST /games", gameHandler.CreateGame)
	api.HandleFunc("GET /games", gameHandler.ListGames)
	api.HandleFunc("GET /games/{id}", gameHandler.GetGame)
	api.HandleFunc("DELETE /games/{id}", gameHandler.DeleteGame)
	api.HandleFunc("POST /games/{id}/join", gameHandler.JoinGame)
	api.HandleFunc("POST /games/{id}/leave", gameHandler.LeaveGame)
	api.HandleFunc("POST /games/{id}/kick/{index}", gameHandler.KickPlayer)
	api.HandleFunc("POST /games/{id}/start", gameHandler.StartGame)
	api.HandleFunc("POST /games/{id}/claim", gameHandler.ClaimPrize)
	api.HandleFunc("GET /games/{id}/results", gameHandler.Results)
	api.HandleFunc("POST /games/{id}/supply", playHandler.Supply)
	api.HandleFunc("POST /games/{id}/attack", playHandler.Attack)
	api.HandleFunc("POST /games/{id}/defend", playHandler.Defend)
	api.HandleFunc("POST /games/{id}/discard", playHandler.Discard)
	api.HandleFunc("POST /games/{id}/transfer", playHandler.Transfer)
	api.HandleFunc("POST /games/{id}/finish", playHandler.Finish)
	api.HandleFunc("POST /games/{id}/surrender", playHandler.Surrender)
	api.HandleFunc("POST /games/{id}/emote", playHandler.Emote)
	api.HandleFunc("GET /games/{id}/events", playHandler.Events)
	api.HandleFunc("GET /games/{id}/audit", playHandler.Audit)

	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", authMw(api)))

	// WebSocket (auth via query param, not middleware)
	mux.HandleFunc("GET /api/v1/ws", wsHandler.ServeWS)

	return middleware.Chain(mux, middleware.Recover, middleware.Logger, middleware.CORS(cfg.AllowedOrigins), middleware.JSON)
}
