package library

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/readmind/internal/storage"
)

const jobTypeImportURL = "import_url"

// maxFetchSize caps how much of a fetched page is read.
const maxFetchSize = 5 << 20 // 5MB

// JobStore abstracts the job queue and document persistence for the worker.
type JobStore interface {
	ClaimNextJob(jobType string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
	SaveDocument(storage.Document) error
}

// Worker processes import_url jobs from the SQLite job queue: fetch the page,
// extract title and text, store the document.
type Worker struct {
	store  JobStore
	client *http.Client
	poll   time.Duration
	logger *slog.Logger
}

// NewWorker creates a Worker. If pollInterval is <= 0, it defaults to 500ms.
func NewWorker(store JobStore, client *http.Client, pollInterval time.Duration) *Worker {
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Worker{
		store:  store,
		client: client,
		poll:   pollInterval,
		logger: slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single import job.
// Returns true if a job was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob(jobTypeImportURL)
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Warn("import job failed", "job_id", job.ID, "error", err)
		if failErr := w.store.FailJob(job.ID, err.Error()); failErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", failErr)
		}
		return true, nil
	}

	if err := w.store.CompleteJob(job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	return true, nil
}

type importPayload struct {
	URL string `json:"url"`
}

func (w *Worker) processJob(ctx context.Context, job *storage.Job) error {
	var payload importPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payload.URL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", payload.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetching %s: status %d", payload.URL, resp.StatusCode)
	}

	title, text, err := extractHTML(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return fmt.Errorf("extracting page text: %w", err)
	}
	if text == "" {
		return fmt.Errorf("page %s has no extractable text", payload.URL)
	}
	if title == "" {
		title = payload.URL
	}

	wordCount := countWords(text)
	doc := storage.Document{
		ID:          uuid.New().String(),
		Title:       title,
		Author:      "Unknown Author",
		Content:     text,
		Source:      "url",
		WordCount:   wordCount,
		ReadingTime: (wordCount + readingSpeed - 1) / readingSpeed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := w.store.SaveDocument(doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	w.logger.Info("imported document from url", "url", payload.URL, "doc_id", doc.ID, "words", wordCount)
	return nil
}
