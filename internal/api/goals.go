package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/readmind/internal/goals"
	"github.com/kalambet/readmind/internal/storage"
)

func handleCreateGoal(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in goals.Input
		if !decodeBody(w, r, &in) {
			return
		}

		g, err := deps.Goals.Create(in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, g)
	}
}

func handleListGoals(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			list []storage.Goal
			err  error
		)
		if r.URL.Query().Get("active") == "true" {
			list, err = deps.Goals.ListActive()
		} else {
			list, err = deps.Goals.List()
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []storage.Goal{}
		}
		writeJSON(w, list)
	}
}

func handleUpdateGoal(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var in goals.Input
		if !decodeBody(w, r, &in) {
			return
		}

		g, err := deps.Goals.Update(id, in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, g)
	}
}

func handleDeleteGoal(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := deps.Goals.Delete(id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}
