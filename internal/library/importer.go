// Package library manages the document collection: importing from pasted
// text, local files (plain text or PDF), and URLs fetched in the background.
package library

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/readmind/internal/storage"
)

// readingSpeed is the words-per-minute assumption behind the reading-time
// estimate shown in the library.
const readingSpeed = 250

// maxConcurrentImports bounds parallel file imports.
const maxConcurrentImports = 4

// Storage is the persistence surface the importer needs.
type Storage interface {
	SaveDocument(storage.Document) error
	EnqueueJob(storage.Job) error
}

// Importer builds library documents from the supported sources.
type Importer struct {
	storage Storage
	now     func() time.Time
}

func NewImporter(s Storage) *Importer {
	return &Importer{storage: s, now: time.Now}
}

// ImportText stores pasted text as a document.
func (i *Importer) ImportText(title, author, content string) (storage.Document, error) {
	return i.saveDocument(title, author, content, "text")
}

// ImportFile reads a local .txt, .md, or .pdf file and stores it as a
// document. An empty title defaults to the file name without extension.
func (i *Importer) ImportFile(path, title string) (storage.Document, error) {
	var content string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := extractPDFText(path)
		if err != nil {
			return storage.Document{}, fmt.Errorf("extracting PDF text: %w", err)
		}
		content = text
	case ".txt", ".md", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return storage.Document{}, fmt.Errorf("reading file: %w", err)
		}
		content = string(data)
	default:
		return storage.Document{}, &storage.ValidationError{
			Field:  "file",
			Reason: "unsupported type (expected .txt, .md, or .pdf)",
		}
	}

	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return i.saveDocument(title, "Unknown Author", content, "file")
}

// ImportFiles imports multiple files concurrently. Each failure is reported
// per file; successfully imported documents are returned even when some files
// fail.
func (i *Importer) ImportFiles(ctx context.Context, paths []string) ([]storage.Document, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentImports)

	var mu sync.Mutex
	var docs []storage.Document

	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := i.ImportFile(path, "")
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			docs = append(docs, doc)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return docs, err
}

// QueueURL validates the URL and enqueues a background import job. The
// returned id can be used to check the job status.
func (i *Importer) QueueURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &storage.ValidationError{Field: "url", Reason: "must be an absolute http(s) URL"}
	}

	job := storage.Job{
		ID:          uuid.New().String(),
		Type:        jobTypeImportURL,
		PayloadJSON: fmt.Sprintf(`{"url":%q}`, rawURL),
	}
	if err := i.storage.EnqueueJob(job); err != nil {
		return "", fmt.Errorf("enqueueing import job: %w", err)
	}
	return job.ID, nil
}

func (i *Importer) saveDocument(title, author, content, source string) (storage.Document, error) {
	if strings.TrimSpace(content) == "" {
		return storage.Document{}, &storage.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	if author == "" {
		author = "Unknown Author"
	}

	wordCount := countWords(content)
	doc := storage.Document{
		ID:          uuid.New().String(),
		Title:       title,
		Author:      author,
		Content:     content,
		Source:      source,
		WordCount:   wordCount,
		ReadingTime: (wordCount + readingSpeed - 1) / readingSpeed,
		CreatedAt:   i.now().UTC(),
	}
	if err := i.storage.SaveDocument(doc); err != nil {
		return storage.Document{}, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

func countWords(text string) int {
	return len(strings.Fields(text))
}
