// internal/httpserver/server.go
//
// HTTP server wiring for the guessing game.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /start, POST /guess, GET /status/{gameID}.
//   - Daily word endpoints: mounted under /daily (see routes_daily.go).
//   - History endpoints (only when a history store is configured): GET /stats, GET /history.
//
// Notes:
//   - Handlers only translate JSON to session.Manager calls and errors to status codes.
//   - Error bodies are {"error": code, "detail": message}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/guess-server/internal/game"
	"github.com/robalobadob/wordle/apps/guess-server/internal/history"
	"github.com/robalobadob/wordle/apps/guess-server/internal/session"
)

// History is the read side of the finished-game archive.
type History interface {
	Summary(ctx context.Context) (history.Summary, error)
	Recent(ctx context.Context, limit int) ([]history.Result, error)
	Leaderboard(ctx context.Context, day string, limit int) ([]history.LBRow, error)
}

// Options configures a Server.
type Options struct {
	ClientOrigin   string        // CORS origin
	RequestTimeout time.Duration // per-request handler budget
	History        History       // nil disables /stats, /history and the leaderboard
}

// Server bundles router, game manager and optional history.
type Server struct {
	r       *chi.Mux
	games   *session.Manager
	history History
}

// New constructs a Server, installs middleware, and registers routes.
func New(games *session.Manager, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), games: games, history: opts.History}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add X-Request-ID
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                          // zerolog access line
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":     "guess-server",
			"wordLength":  s.games.WordLength(),
			"maxAttempts": s.games.MaxAttempts(),
			"endpoints":   []string{"/health", "POST /start", "POST /guess", "GET /status/{gameID}", "POST /daily/start", "GET /daily/leaderboard", "GET /stats", "GET /history"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	// --- game ---
	s.r.Post("/start", s.handleStart)
	s.r.Post("/guess", s.handleGuess)
	s.r.Get("/status/{gameID}", s.handleStatus)

	// --- word of the day ---
	s.mountDaily(s.r)

	// --- history ---
	s.r.Get("/stats", s.handleStats)
	s.r.Get("/history", s.handleHistory)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})

	return s
}

// Handler exposes the router (used by main and tests).
func (s *Server) Handler() http.Handler { return s.r }

// ------------------------------ GAME ---------------------------------------

// startReq/Res payloads for POST /start. The body is optional.
type startReq struct {
	Mode string `json:"mode"` // "" | "random" | "daily"
}
type startRes struct {
	GameID string `json:"game_id"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	id, err := s.games.StartGame(r.Context(), game.Mode(req.Mode))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, startRes{GameID: id})
}

// guessReq/Res payloads for POST /guess.
type guessReq struct {
	GameID string `json:"game_id"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Result       []game.Mark `json:"result"`
	Win          bool        `json:"win"`
	AttemptsLeft int         `json:"attempts_left"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	res, err := s.games.SubmitGuess(r.Context(), req.GameID, req.Guess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guessRes{Result: res.Feedback, Win: res.Win, AttemptsLeft: res.AttemptsLeft})
}

// statusRes is returned by GET /status/{gameID}.
type statusRes struct {
	GameID       string       `json:"game_id"`
	Guesses      []game.Guess `json:"guesses"`
	AttemptsLeft int          `json:"attempts_left"`
	Finished     bool         `json:"finished"`
	State        game.State   `json:"state"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.games.GetStatus(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusRes{
		GameID:       st.ID,
		Guesses:      st.Guesses,
		AttemptsLeft: st.AttemptsLeft,
		Finished:     st.Finished,
		State:        st.State,
	})
}

// ----------------------------- HISTORY -------------------------------------

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled", "set HISTORY_DB to enable")
		return
	}
	sum, err := s.history.Summary(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled", "set HISTORY_DB to enable")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit", "limit must be 1-100")
			return
		}
		limit = n
	}
	rows, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// ------------------------------ errors -------------------------------------

// fail maps domain errors to client errors; anything else is a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "game not found")
	case errors.Is(err, game.ErrLengthMismatch):
		writeError(w, http.StatusBadRequest, "length_mismatch", err.Error())
	case errors.Is(err, game.ErrNoAttemptsLeft):
		writeError(w, http.StatusBadRequest, "no_attempts_left", "game is over")
	case errors.Is(err, session.ErrUnknownMode):
		writeError(w, http.StatusBadRequest, "bad_mode", err.Error())
	default:
		log.Error().Err(err).Str("requestId", chimw.GetReqID(r.Context())).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"error": code, "detail": detail})
}
