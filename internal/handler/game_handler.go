package handler

import (
	"net/http"
	"strconv"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/auth"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// GameHandler handles lobby and match lifecycle endpoints.
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a GameHandler.
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// CreateGame handles POST /api/v1/games
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	var req struct {
		Name       string `json:"name"`
		HostName   string `json:"host_name,omitempty"`
		Variant    string `json:"variant,omitempty"`
		RoundLimit int    `json:"round_limit,omitempty"`
		Seed       uint64 `json:"seed,omitempty,string"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.HostName == "" {
		req.HostName = auth.NameFromContext(r.Context())
	}

	m, err := h.gameSvc.CreateGame(r.Context(), identity, service.CreateParams{
		Name:       req.Name,
		HostName:   req.HostName,
		Variant:    conquest.Variant(req.Variant),
		RoundLimit: req.RoundLimit,
		Seed:       req.Seed,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, service.NewSnapshot(m, identity))
}

// ListGames handles GET /api/v1/games
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameSvc.ListOpenGames(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if games == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// ListVariants handles GET /api/v1/variants
func (h *GameHandler) ListVariants(w http.ResponseWriter, r *http.Request) {
	type variant struct {
		Name      conquest.Variant `json:"name"`
		Tiles     int              `json:"tiles"`
		Factions  int              `json:"factions"`
		MaxPlayer int              `json:"max_players"`
	}
	var out []variant
	for _, v := range conquest.Variants() {
		m, err := conquest.Lookup(v)
		if err != nil {
			continue
		}
		out = append(out, variant{Name: v, Tiles: m.TileCount(), Factions: m.FactionCount(), MaxPlayer: m.Rules().MaxPlayers})
	}
	writeJSON(w, http.StatusOK, out)
}

// GetGame handles GET /api/v1/games/{id}
func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	snap, err := h.gameSvc.GetGame(r.Context(), r.PathValue("id"), auth.IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteGame handles DELETE /api/v1/games/{id}
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if err := h.gameSvc.DeleteGame(r.Context(), r.PathValue("id"), identity); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// JoinGame handles POST /api/v1/games/{id}/join
func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Name == "" {
		req.Name = auth.NameFromContext(r.Context())
	}
	m, err := h.gameSvc.JoinGame(r.Context(), r.PathValue("id"), identity, req.Name)
	h.respond(w, r, m, err)
}

// LeaveGame handles POST /api/v1/games/{id}/leave
func (h *GameHandler) LeaveGame(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	m, err := h.gameSvc.LeaveGame(r.Context(), r.PathValue("id"), identity)
	h.respond(w, r, m, err)
}

// KickPlayer handles POST /api/v1/games/{id}/kick/{index}
func (h *GameHandler) KickPlayer(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid player index")
		return
	}
	identity := auth.IdentityFromContext(r.Context())
	m, err := h.gameSvc.KickPlayer(r.Context(), r.PathValue("id"), identity, index)
	h.respond(w, r, m, err)
}

// StartGame handles POST /api/v1/games/{id}/start
func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	m, err := h.gameSvc.StartGame(r.Context(), r.PathValue("id"), identity)
	h.respond(w, r, m, err)
}

// ClaimPrize handles POST /api/v1/games/{id}/claim
func (h *GameHandler) ClaimPrize(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	m, err := h.gameSvc.ClaimPrize(r.Context(), r.PathValue("id"), identity)
	h.respond(w, r, m, err)
}

// Results handles GET /api/v1/games/{id}/results
func (h *GameHandler) Results(w http.ResponseWriter, r *http.Request) {
	results, err := h.gameSvc.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if results == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// History handles GET /api/v1/history, the caller's finished games.
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	results, err := h.gameSvc.History(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if results == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *GameHandler) respond(w http.ResponseWriter, r *http.Request, m *conquest.Match, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.NewSnapshot(m, auth.IdentityFromContext(r.Context())))
}
