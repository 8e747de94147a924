package storage

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError is returned when user-supplied input is rejected before any
// write happens. Field names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DateLayout is the canonical day-granularity date format used across the
// application ("2006-01-02").
const DateLayout = "2006-01-02"

// ReadingSession is one day's logged reading activity. Date is the unique key:
// logging again for the same day replaces the previous session.
type ReadingSession struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
	Pages   int    `json:"pages"`
	Book    string `json:"book"`
	Notes   string `json:"notes,omitempty"`
}

// Goal units.
const (
	UnitBooks   = "books"
	UnitPages   = "pages"
	UnitMinutes = "minutes"
	UnitHours   = "hours"
)

// Goal categories.
const (
	GoalPersonal = "personal"
	GoalDaily    = "daily"
	GoalYearly   = "yearly"
	GoalGenre    = "genre"
	GoalSkill    = "skill"
)

// Goal is a target reading metric with running progress. CurrentValue may
// exceed TargetValue; over-achievement is never clamped.
type Goal struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TargetValue  int       `json:"target_value"`
	CurrentValue int       `json:"current_value"`
	Unit         string    `json:"unit"`
	Deadline     string    `json:"deadline"`
	Category     string    `json:"category"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Message types.
const (
	MessageQuestion = "question"
	MessageAnswer   = "answer"
)

// Message is a single question or answer inside a conversation. Messages are
// immutable once appended, except for the Helpful flag on answers, which is
// tri-state: nil (unset), true, or false.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Helpful   *bool     `json:"helpful,omitempty"`
}

// Conversation is a threaded sequence of question/answer messages. Messages
// are strictly insertion-ordered; UpdatedAt is refreshed on every append.
type Conversation struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Messages   []Message `json:"messages"`
}

// Document is an imported reading item in the library.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Content     string    `json:"content"`
	Source      string    `json:"source"` // "text", "file", or "url"
	WordCount   int       `json:"word_count"`
	ReadingTime int       `json:"reading_time"` // minutes, at ~250 wpm
	CreatedAt   time.Time `json:"created_at"`
}

// Job is a queued background task (currently only URL imports).
type Job struct {
	ID          string
	Type        string
	PayloadJSON string
	Status      string // "pending", "running", "completed", "failed"
	Attempts    int
	MaxAttempts int
	RunAfter    time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastError   string
}
