// Package api exposes the reading-companion operations over a loopback HTTP
// API and an MCP server.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/readmind/internal/assistant"
	"github.com/kalambet/readmind/internal/conversations"
	"github.com/kalambet/readmind/internal/goals"
	"github.com/kalambet/readmind/internal/library"
	"github.com/kalambet/readmind/internal/progress"
	"github.com/kalambet/readmind/internal/storage"
)

const maxRequestBodySize = 10 << 20 // 10MB

// AppDeps holds the dependencies for the HTTP handlers.
type AppDeps struct {
	Store         *storage.Store
	Tracker       *progress.Tracker
	Goals         *goals.Store
	Conversations *conversations.Manager
	Importer      *library.Importer
	Assistant     *assistant.Engine
	Token         string
	Now           func() time.Time // defaults to time.Now
}

// NewAppHandler builds the chi router. /health is open; everything else
// requires the bearer token.
func NewAppHandler(deps AppDeps) http.Handler {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Post("/sessions", handleRecordSession(deps))
		r.Get("/sessions", handleListSessions(deps))
		r.Get("/streak", handleStreak(deps))
		r.Get("/calendar", handleCalendar(deps))

		r.Post("/goals", handleCreateGoal(deps))
		r.Get("/goals", handleListGoals(deps))
		r.Patch("/goals/{id}", handleUpdateGoal(deps))
		r.Delete("/goals/{id}", handleDeleteGoal(deps))

		r.Post("/ask", handleAsk(deps))
		r.Get("/conversations", handleSearchConversations(deps))
		r.Get("/conversations/{id}", handleGetConversation(deps))
		r.Delete("/conversations/{id}", handleDeleteConversation(deps))
		r.Post("/conversations/{id}/favorite", handleToggleFavorite(deps))
		r.Post("/conversations/{id}/messages/{messageID}/helpful", handleSetHelpful(deps))

		r.Post("/analyze", handleAnalyze(deps))
		r.Post("/summarize", handleSummarize(deps))

		r.Post("/documents", handleImportDocument(deps))
		r.Get("/documents", handleListDocuments(deps))
		r.Get("/documents/{id}", handleGetDocument(deps))
		r.Delete("/documents/{id}", handleDeleteDocument(deps))
		r.Get("/jobs/{id}", handleGetJob(deps))
	})

	return r
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}

// writeError maps domain errors to the HTTP error envelope: validation
// failures are 400, missing records 404, everything else 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *storage.ValidationError
	switch {
	case errors.As(err, &verr):
		httpError(w, http.StatusBadRequest, "validation_error", "%v", verr)
	case errors.Is(err, storage.ErrNotFound):
		httpError(w, http.StatusNotFound, "not_found", "%v", err)
	default:
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

// parseDateParam reads a YYYY-MM-DD query parameter, falling back to def when
// absent. The second return value reports whether parsing succeeded.
func parseDateParam(r *http.Request, key string, def time.Time) (time.Time, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, true
	}
	t, err := time.Parse(storage.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
