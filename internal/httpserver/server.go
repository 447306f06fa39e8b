// internal/httpserver/server.go
//
// HTTP server wiring for the arena arbiter.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Match control: POST /game/start, GET /game/state.
//   - Observer stream: GET /ws (see ws.go).
//   - Frontend debug logging: POST /log.
//   - Match archive: GET /matches, GET /matches/{id} (see routes_matches.go).
//   - Diagnostics: /metrics, /debug/words.
//
// Notes:
//   - /ws is mounted outside the request timeout; the connection lives as
//     long as the observer stays.
//   - CORS allows a single configured origin ("*" by default).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-arena/internal/arena"
	"github.com/robalobadob/wordle-arena/internal/events"
	"github.com/robalobadob/wordle-arena/internal/metrics"
	"github.com/robalobadob/wordle-arena/internal/store"
	"github.com/robalobadob/wordle-arena/internal/words"
)

// DefaultRequestTimeout bounds ordinary (non-websocket) handlers.
const DefaultRequestTimeout = 10 * time.Second

// Deps are the collaborators the server exposes over HTTP.
type Deps struct {
	Arena   *arena.Orchestrator
	Broker  *events.Broker
	Archive store.Archive
	Metrics *metrics.Metrics
	Words   *words.Bank

	ClientOrigin   string
	RequestTimeout time.Duration
}

// Server bundles the router and its dependencies.
type Server struct {
	r    *chi.Mux
	deps Deps
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.ClientOrigin == "" {
		d.ClientOrigin = "*"
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = DefaultRequestTimeout
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Words == nil {
		d.Words = words.Default()
	}
	s := &Server{r: chi.NewRouter(), deps: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)      // add X-Request-ID
	s.r.Use(chimw.RealIP)         // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)      // recover from panics
	s.r.Use(cors(d.ClientOrigin)) // single-origin CORS

	// Observer stream: no timeout, no forced content type.
	s.r.Get("/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(d.RequestTimeout))
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordle-arena","endpoints":["/health","POST /game/start","/game/state","/ws","/matches","/metrics"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":        true,
				"observers": s.deps.Broker.Subscribers(),
			})
		})

		// --- match control ---
		r.Post("/game/start", s.handleStart)
		r.Get("/game/state", s.handleState)
		r.Post("/log", s.handleLog)

		// --- archive ---
		s.mountMatches(r)

		// Debug: word bank size
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]int{"words": s.deps.Words.Len()})
		})
	})

	// Prometheus sets its own content type.
	s.r.Handle("/metrics", d.Metrics.Handler())

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not_found","path":"` + r.URL.Path + `"}`))
	})

	return s
}

// Run serves HTTP on addr until ctx is canceled, then shuts down.
func (s *Server) Run(ctx context.Context, addr string) error {
	return Serve(ctx, addr, s.r)
}

// Serve runs h on addr with graceful shutdown when ctx ends.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	hs := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- hs.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ GAME ---------------------------------------

type startRes struct {
	GameID string `json:"gameId"`
}

// handleStart abandons any live match and starts a new one.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	id, err := s.deps.Arena.Start()
	if err != nil {
		if errors.Is(err, arena.ErrNoAgents) {
			http.Error(w, `{"error":"agents_not_configured"}`, http.StatusServiceUnavailable)
			return
		}
		if errors.Is(err, arena.ErrAgentsUnreachable) {
			http.Error(w, `{"error":"agents_unreachable"}`, http.StatusServiceUnavailable)
			return
		}
		log.Error().Err(err).Msg("start game")
		http.Error(w, `{"error":"start_failed"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(startRes{GameID: id})
}

// handleState returns the redacted live snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(s.deps.Arena.Snapshot())
}

type logReq struct {
	Message string `json:"message"`
}

// handleLog writes a frontend debug message to the server log.
func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	var req logReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	logFrontend(req.Message)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func logFrontend(msg string) {
	log.Debug().Str("source", "frontend").Msg(msg)
}
