package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/z-korp/zconqueror-contracts-sub001/internal/service"
	"github.com/z-korp/zconqueror-contracts-sub001/pkg/conquest"
)

// nonceHeader carries the nonce a client acted against.
const nonceHeader = "X-Game-Nonce"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps an error from the service layer to a response. Rule
// violations carry their code so clients can react without parsing text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := conquest.CodeOf(err)
	if code == "" {
		switch {
		case errors.Is(err, service.ErrNameRequired):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNoEventLog), errors.Is(err, service.ErrNoResults):
			writeError(w, http.StatusNotImplemented, err.Error())
		default:
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, statusForCode(code), map[string]string{"error": err.Error(), "code": string(code)})
}

func statusForCode(code conquest.Code) int {
	switch code {
	case conquest.CodeNotFound:
		return http.StatusNotFound
	case conquest.CodeNotHost, conquest.CodeInvalidPlayer:
		return http.StatusForbidden
	case conquest.CodeStaleNonce, conquest.CodeGameStarted, conquest.CodeAlreadyJoined, conquest.CodeAlreadyClaimed:
		return http.StatusConflict
	default:
		return http.StatusUnprocessableEntity
	}
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// actionContext attaches the expected nonce from the request header, if any.
func actionContext(r *http.Request) (context.Context, error) {
	v := r.Header.Get(nonceHeader)
	if v == "" {
		return r.Context(), nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return nil, errors.New("invalid " + nonceHeader + " header")
	}
	return service.WithExpectedNonce(r.Context(), n), nil
}
