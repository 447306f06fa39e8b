// internal/httpserver/routes_matches.go
//
// Read-only routes over the finished-match archive:
//   - GET /matches?limit=N → most recently finished first (default 20, max 100)
//   - GET /matches/{id}    → one match with both histories and the secret

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-arena/internal/store"
)

const maxMatchesLimit = 100

// mountMatches registers the /matches routes.
func (s *Server) mountMatches(r chi.Router) {
	r.Route("/matches", func(r chi.Router) {
		r.Get("/", s.handleListMatches)
		r.Get("/{id}", s.handleGetMatch)
	})
}

type matchesRes struct {
	Matches []store.Match `json:"matches"`
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	if s.deps.Archive == nil {
		_ = json.NewEncoder(w).Encode(matchesRes{Matches: []store.Match{}})
		return
	}
	limit := store.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(n, maxMatchesLimit)
	}
	rows, err := s.deps.Archive.Recent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list matches")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []store.Match{}
	}
	_ = json.NewEncoder(w).Encode(matchesRes{Matches: rows})
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.deps.Archive == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	m, err := s.deps.Archive.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("gameId", id).Msg("get match")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(m)
}
