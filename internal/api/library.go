package api

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/readmind/internal/storage"
)

type importRequest struct {
	Type    string `json:"type"` // "text", "file", or "url"
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"` // text content, or base64 file bytes
	Name    string `json:"name"`    // original file name (for type "file")
	URL     string `json:"url"`
}

func handleImportDocument(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Type == "" {
			req.Type = "text"
		}

		switch req.Type {
		case "text":
			doc, err := deps.Importer.ImportText(req.Title, req.Author, req.Content)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, doc)

		case "file":
			if req.Name == "" {
				httpError(w, http.StatusBadRequest, "validation_error", "name is required for file imports")
				return
			}
			raw, err := base64.StdEncoding.DecodeString(req.Content)
			if err != nil {
				httpError(w, http.StatusBadRequest, "validation_error", "content must be base64 for file imports")
				return
			}

			// The extractor works on paths, so stage the upload in a temp file
			// with the original extension.
			tmp, err := os.CreateTemp("", "readmind-import-*"+filepath.Ext(req.Name))
			if err != nil {
				writeError(w, err)
				return
			}
			defer os.Remove(tmp.Name())
			if _, err := tmp.Write(raw); err != nil {
				tmp.Close()
				writeError(w, err)
				return
			}
			tmp.Close()

			title := req.Title
			if title == "" {
				base := filepath.Base(req.Name)
				title = base[:len(base)-len(filepath.Ext(base))]
			}

			doc, err := deps.Importer.ImportFile(tmp.Name(), title)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, doc)

		case "url":
			jobID, err := deps.Importer.QueueURL(req.URL)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, map[string]string{"job_id": jobID, "status": "queued"})

		default:
			httpError(w, http.StatusBadRequest, "validation_error", "type must be text, file, or url")
		}
	}
}

func handleListDocuments(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			docs []storage.Document
			err  error
		)
		if term := r.URL.Query().Get("term"); term != "" {
			docs, err = deps.Store.SearchDocuments(term)
		} else {
			limit := parseIntParam(r, "limit", 20, 100)
			offset := parseIntParam(r, "offset", 0, 0)
			docs, err = deps.Store.ListDocuments(limit, offset)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if docs == nil {
			docs = []storage.Document{}
		}
		writeJSON(w, docs)
	}
}

func handleGetDocument(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := deps.Store.GetDocument(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, doc)
	}
}

func handleDeleteDocument(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.DeleteDocument(chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]string{"status": "deleted"})
	}
}

func handleGetJob(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := deps.Store.GetJob(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{
			"id":         job.ID,
			"status":     job.Status,
			"attempts":   job.Attempts,
			"last_error": job.LastError,
		})
	}
}
