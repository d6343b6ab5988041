package handler

import (
	"context"
	"net/http"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/auth"
	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// PlayHandler handles in-match actions. Each action responds with the match as
// seen by the caller.
type PlayHandler struct {
	playSvc *service.PlayService
}

// NewPlayHandler creates a PlayHandler.
func NewPlayHandler(playSvc *service.PlayService) *PlayHandler {
	return &PlayHandler{playSvc: playSvc}
}

type supplyRequest struct {
	Tile   int `json:"tile"`
	Amount int `json:"amount"`
}

type moveRequest struct {
	From   int `json:"from"`
	To     int `json:"to"`
	Amount int `json:"amount"`
}

type discardRequest struct {
	Cards [3]int `json:"cards"`
}

type emoteRequest struct {
	Emote int `json:"emote"`
}

// Supply handles POST /api/v1/games/{id}/supply
func (h *PlayHandler) Supply(w http.ResponseWriter, r *http.Request) {
	var req supplyRequest
	h.act(w, r, &req, func(s *service.PlayService, a action) (*conquest.Match, error) {
		return s.Supply(a.ctx, a.gameID, a.caller, req.Tile, req.Amount)
	})
}

// Attack handles POST /api/v1/games/{id}/attack
func (h *PlayHandler) Attack(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	h.act(w, r, &req, func(s *service.PlayService, a action) (*conquest.Match, error) {
		return s.Attack(a.ctx, a.gameID, a.caller, req.From, req.To, req.Amount)
	})
}

// Defend handles POST /api/v1/games/{id}/defend. The response carries the
// battle record next to the updated match.
func (h *PlayHandler) Defend(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	a, ok := h.parse(w, r, &req)
	if !ok {
		return
	}
	rec, m, err := h.playSvc.Defend(a.ctx, a.gameID, a.caller, req.From, req.To)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"battle": rec,
		"game":   service.NewSnapshot(m, a.caller),
	})
}

// Discard handles POST /api/v1/games/{id}/discard
func (h *PlayHandler) Discard(w http.ResponseWriter, r *http.Request) {
	var req discardRequest
	h.act(w, r, &req, func(s *service.PlayService, a action) (*conquest.Match, error) {
		return s.Discard(a.ctx, a.gameID, a.caller, req.Cards)
	})
}

// Transfer handles POST /api/v1/games/{id}/transfer
func (h *PlayHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	h.act(w, r, &req, func(s *service.PlayService, a action) (*conquest.Match, error) {
		return s.Transfer(a.ctx, a.gameID, a.caller, req.From, req.To, req.Amount)
	})
}

// Finish handles POST /api/v1/games/{id}/finish
func (h *PlayHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, func(s *service.PlayService, a action) (*conquest.Match, error) {
		return s.Finish(a.ctx, a.gameID, a.caller)
	})
}

// Surrender handles POST /api/v1/games/{id}/surrender
func (h *PlayHandler) Surrender(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, nil, func(s *service.PlayService, a action) (*conquest.Match, error) {
		return s.Surrender(a.ctx, a.gameID, a.caller)
	})
}

// Emote handles POST /api/v1/games/{id}/emote
func (h *PlayHandler) Emote(w http.ResponseWriter, r *http.Request) {
	var req emoteRequest
	a, ok := h.parse(w, r, &req)
	if !ok {
		return
	}
	if err := h.playSvc.Emote(a.ctx, a.gameID, a.caller, req.Emote); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// Events handles GET /api/v1/games/{id}/events
func (h *PlayHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.playSvc.Events(r.Context(), r.PathValue("id"), auth.IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if events == nil {
		writeJSON(w, http.StatusOK, []struct{}{})
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Audit handles GET /api/v1/games/{id}/audit
func (h *PlayHandler) Audit(w http.ResponseWriter, r *http.Request) {
	report, err := h.playSvc.Audit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// action is the parsed part of every play request.
type action struct {
	ctx    context.Context
	gameID string
	caller string
}

// parse decodes the body into req when req is non-nil and resolves the caller
// and expected nonce. It writes the error response itself.
func (h *PlayHandler) parse(w http.ResponseWriter, r *http.Request, req any) (action, bool) {
	if req != nil {
		if err := decodeJSON(r, req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return action{}, false
		}
	}
	ctx, err := actionContext(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return action{}, false
	}
	return action{ctx: ctx, gameID: r.PathValue("id"), caller: auth.IdentityFromContext(r.Context())}, true
}

func (h *PlayHandler) act(w http.ResponseWriter, r *http.Request, req any, fn func(s *service.PlayService, a action) (*conquest.Match, error)) {
	a, ok := h.parse(w, r, req)
	if !ok {
		return
	}
	m, err := fn(h.playSvc, a)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, service.NewSnapshot(m, a.caller))
}
