package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/auth"
)

// AuthHandler issues identity tokens.
type AuthHandler struct {
	jwtMgr  *auth.JWTManager
	devMode bool
}

// NewAuthHandler creates an AuthHandler. Tokens are only issued in dev mode;
// in production identities come from an external issuer sharing the secret.
func NewAuthHandler(jwtMgr *auth.JWTManager, devMode bool) *AuthHandler {
	return &AuthHandler{jwtMgr: jwtMgr, devMode: devMode}
}

// DevToken handles POST /api/v1/auth/token and signs a token for any identity.
func (h *AuthHandler) DevToken(w http.ResponseWriter, r *http.Request) {
	if !h.devMode {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req struct {
		Identity string `json:"identity"`
		Name     string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Identity = strings.TrimSpace(req.Identity)
	if req.Identity == "" {
		writeError(w, http.StatusBadRequest, "identity is required")
		return
	}

	tok, err := h.jwtMgr.IssueToken(req.Identity, req.Name)
	if err != nil {
		log.Error().Err(err).Str("identity", req.Identity).Msg("Failed to issue dev token")
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, tok)
}

// Me handles GET /api/v1/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"identity": auth.IdentityFromContext(r.Context()),
		"name":     auth.NameFromContext(r.Context()),
	})
}
