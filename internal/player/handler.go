// internal/player/handler.go
//
// Player HTTP surface.
// Responsibilities:
//   - /health for the arbiter's reachability check.
//   - /get_guess: decode the turn request, prompt the model, reply with the raw guess.

package player

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-arena/internal/agent"
)

// Router serves the agent endpoints: "/", "/health" and POST /get_guess.
func (p *Player) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(p.timeout + 10*time.Second))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service":   "wordle-arena-player",
			"player":    p.label,
			"endpoints": []string{"/health", "POST /get_guess"},
		})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "player",
			"player":  p.label,
		})
	})
	r.Post("/get_guess", p.handleGuess)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})
	return r
}

func (p *Player) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req agent.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"No game data provided"}`, http.StatusBadRequest)
		return
	}
	resp := p.Guess(r.Context(), req)
	log.Debug().Str("agent", p.label).Interface("request", req).Interface("response", resp).Msg("get_guess")
	_ = json.NewEncoder(w).Encode(resp)
}
