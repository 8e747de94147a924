// Package progress implements the reading-progress core: the session log,
// streak derivation, calendar aggregation, and the daily-goal advancement rule.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/kalambet/readmind/internal/storage"
)

// Habit goals tick by one per logged day, independent of the minutes actually
// read. A second log for the same day ticks again; there is no deduplication
// by date.
const (
	habitCategory = storage.GoalDaily
	habitUnit     = storage.UnitMinutes
)

// Store is the persistence surface the tracker needs.
type Store interface {
	RecordSession(s storage.ReadingSession, goalCategory, goalUnit string) error
	GetSession(date string) (storage.ReadingSession, error)
	ListSessions() ([]storage.ReadingSession, error)
}

// Tracker records reading sessions and derives streak and calendar views from
// the session log.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// RecordSession validates and persists a session. A session already recorded
// for the same date is replaced (last write wins). Every active-or-not goal in
// the daily/minutes bucket is advanced by one in the same transaction.
func (t *Tracker) RecordSession(s storage.ReadingSession) error {
	if s.Minutes <= 0 {
		return &storage.ValidationError{Field: "minutes", Reason: "must be positive"}
	}
	if s.Pages <= 0 {
		return &storage.ValidationError{Field: "pages", Reason: "must be positive"}
	}
	if strings.TrimSpace(s.Book) == "" {
		return &storage.ValidationError{Field: "book", Reason: "must not be empty"}
	}
	if _, err := time.Parse(storage.DateLayout, s.Date); err != nil {
		return &storage.ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}

	if err := t.store.RecordSession(s, habitCategory, habitUnit); err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// SessionsForDate returns the sessions logged for the given day (0 or 1 under
// the one-session-per-day invariant).
func (t *Tracker) SessionsForDate(date time.Time) ([]storage.ReadingSession, error) {
	s, err := t.store.GetSession(date.Format(storage.DateLayout))
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []storage.ReadingSession{s}, nil
}

// TotalMinutes sums the minutes read on the given day. Defined as a sum so it
// keeps working if multiple sessions per day are ever allowed.
func (t *Tracker) TotalMinutes(date time.Time) (int, error) {
	sessions, err := t.SessionsForDate(date)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, s := range sessions {
		total += s.Minutes
	}
	return total, nil
}

// ListSessions returns every logged session in descending date order.
func (t *Tracker) ListSessions() ([]storage.ReadingSession, error) {
	return t.store.ListSessions()
}

// CurrentStreak counts consecutive days with at least one session, walking
// backward from today. A day without a session ends the walk, so a missing
// session today yields 0. The session log is loaded once into a date-keyed
// set; the walk never re-scans it.
func (t *Tracker) CurrentStreak(today time.Time) (int, error) {
	sessions, err := t.store.ListSessions()
	if err != nil {
		return 0, err
	}

	byDate := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		byDate[s.Date] = struct{}{}
	}

	streak := 0
	for day := today; ; day = day.AddDate(0, 0, -1) {
		if _, ok := byDate[day.Format(storage.DateLayout)]; !ok {
			break
		}
		streak++
	}
	return streak, nil
}
