// internal/httpserver/routes_daily.go
//
// HTTP routes for the "word of the day" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/start       → start a game on today's word
//   - GET  /daily/leaderboard → best wins for today (or ?date=YYYY-MM-DD)
//
// Daily games are ordinary sessions: /guess and /status/{gameID} apply.
// Every player gets the same word on the same UTC day.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/guess-server/internal/history"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Post("/start", s.handleDailyStart)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// dailyStartRes is returned by /daily/start.
type dailyStartRes struct {
	GameID string `json:"game_id"`
	Date   string `json:"date"`
}

func (s *Server) handleDailyStart(w http.ResponseWriter, r *http.Request) {
	id, day, err := s.games.StartDaily(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dailyStartRes{GameID: id, Date: day})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string          `json:"date"`
	Top  []history.LBRow `json:"top"`
}

// handleLeaderboard returns the top 20 daily wins for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled", "set HISTORY_DB to enable")
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.games.Today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date", "date must be YYYY-MM-DD")
		return
	}
	rows, err := s.history.Leaderboard(r.Context(), date, 20)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
