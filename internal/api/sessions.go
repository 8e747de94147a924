package api

import (
	"net/http"

	"github.com/kalambet/readmind/internal/storage"
)

type recordSessionRequest struct {
	Date    string `json:"date"` // YYYY-MM-DD; defaults to today
	Minutes int    `json:"minutes"`
	Pages   int    `json:"pages"`
	Book    string `json:"book"`
	Notes   string `json:"notes"`
}

func handleRecordSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordSessionRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if req.Date == "" {
			req.Date = deps.Now().Format(storage.DateLayout)
		}

		sess := storage.ReadingSession{
			Date:    req.Date,
			Minutes: req.Minutes,
			Pages:   req.Pages,
			Book:    req.Book,
			Notes:   req.Notes,
		}
		if err := deps.Tracker.RecordSession(sess); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, sess)
	}
}

func handleListSessions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := deps.Tracker.ListSessions()
		if err != nil {
			writeError(w, err)
			return
		}
		if sessions == nil {
			sessions = []storage.ReadingSession{}
		}
		writeJSON(w, sessions)
	}
}

func handleStreak(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today, ok := parseDateParam(r, "today", deps.Now())
		if !ok {
			httpError(w, http.StatusBadRequest, "validation_error", "today must be YYYY-MM-DD")
			return
		}

		streak, err := deps.Tracker.CurrentStreak(today)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, map[string]any{
			"streak": streak,
			"as_of":  today.Format(storage.DateLayout),
		})
	}
}

func handleCalendar(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := deps.Now()
		defaultStart := now.AddDate(0, 0, -(now.Day() - 1)) // first of current month
		defaultEnd := defaultStart.AddDate(0, 1, -1)

		start, ok := parseDateParam(r, "start", defaultStart)
		if !ok {
			httpError(w, http.StatusBadRequest, "validation_error", "start must be YYYY-MM-DD")
			return
		}
		end, ok := parseDateParam(r, "end", defaultEnd)
		if !ok {
			httpError(w, http.StatusBadRequest, "validation_error", "end must be YYYY-MM-DD")
			return
		}
		if end.Before(start) {
			httpError(w, http.StatusBadRequest, "validation_error", "end must not be before start")
			return
		}

		days, err := deps.Tracker.MinutesByDay(start, end)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, days)
	}
}
