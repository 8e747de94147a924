package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/readmind/internal/storage"
)

type askRequest struct {
	ConversationID string `json:"conversation_id"`
	Question       string `json:"question"`
}

func handleAsk(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req askRequest
		if !decodeBody(w, r, &req) {
			return
		}

		conv, err := deps.Conversations.Ask(r.Context(), req.ConversationID, req.Question)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, conv)
	}
}

func handleSearchConversations(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("term")
		favoritesOnly := r.URL.Query().Get("favorites") == "true"
		category := r.URL.Query().Get("category")

		results, err := deps.Conversations.Search(term, favoritesOnly, category)
		if err != nil {
			writeError(w, err)
			return
		}
		if results == nil {
			results = []storage.Conversation{}
		}
		writeJSON(w, results)
	}
}

func handleGetConversation(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv, err := deps.Conversations.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, conv)
	}
}

func handleDeleteConversation(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Conversations.Delete(chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func handleToggleFavorite(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv, err := deps.Conversations.ToggleFavorite(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, conv)
	}
}

type helpfulRequest struct {
	Helpful bool `json:"helpful"`
}

func handleSetHelpful(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convID := chi.URLParam(r, "id")
		msgID := chi.URLParam(r, "messageID")

		var req helpfulRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := deps.Conversations.SetHelpful(convID, msgID, req.Helpful); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "recorded"})
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func handleAnalyze(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Text == "" {
			httpError(w, http.StatusBadRequest, "validation_error", "text is required")
			return
		}

		analysis, err := deps.Assistant.AnalyzeText(r.Context(), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, analysis)
	}
}

type summarizeRequest struct {
	Content string `json:"content"`
}

func handleSummarize(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req summarizeRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Content == "" {
			httpError(w, http.StatusBadRequest, "validation_error", "content is required")
			return
		}

		summary, err := deps.Assistant.SummarizeChapter(r.Context(), req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, summary)
	}
}
