package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/kalambet/readmind/internal/storage"
)

func openTestTracker(t *testing.T) (*Tracker, *storage.Store) {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewTracker(s), s
}

func mustRecord(t *testing.T, tr *Tracker, date string, minutes int) {
	t.Helper()
	sess := storage.ReadingSession{Date: date, Minutes: minutes, Pages: 10, Book: "Dune"}
	if err := tr.RecordSession(sess); err != nil {
		t.Fatalf("RecordSession(%s): %v", date, err)
	}
}

func day(date string) time.Time {
	d, err := time.Parse(storage.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRecordSessionValidation(t *testing.T) {
	tr, _ := openTestTracker(t)

	cases := []struct {
		name  string
		sess  storage.ReadingSession
		field string
	}{
		{"zero minutes", storage.ReadingSession{Date: "2026-08-29", Minutes: 0, Pages: 10, Book: "Dune"}, "minutes"},
		{"negative minutes", storage.ReadingSession{Date: "2026-08-29", Minutes: -5, Pages: 10, Book: "Dune"}, "minutes"},
		{"zero pages", storage.ReadingSession{Date: "2026-08-29", Minutes: 30, Pages: 0, Book: "Dune"}, "pages"},
		{"blank book", storage.ReadingSession{Date: "2026-08-29", Minutes: 30, Pages: 10, Book: "   "}, "book"},
		{"bad date", storage.ReadingSession{Date: "29/08/2026", Minutes: 30, Pages: 10, Book: "Dune"}, "date"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tr.RecordSession(tc.sess)
			var verr *storage.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
}

func TestRecordSessionReplacesSameDay(t *testing.T) {
	tr, _ := openTestTracker(t)

	mustRecord(t, tr, "2026-08-29", 20)
	mustRecord(t, tr, "2026-08-29", 45)

	sessions, err := tr.SessionsForDate(day("2026-08-29"))
	if err != nil {
		t.Fatalf("SessionsForDate: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	if sessions[0].Minutes != 45 {
		t.Errorf("minutes = %d, want 45 (last write wins)", sessions[0].Minutes)
	}
}

func TestSessionsForDateEmpty(t *testing.T) {
	tr, _ := openTestTracker(t)

	sessions, err := tr.SessionsForDate(day("2026-08-29"))
	if err != nil {
		t.Fatalf("SessionsForDate: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no sessions, got %d", len(sessions))
	}

	total, err := tr.TotalMinutes(day("2026-08-29"))
	if err != nil {
		t.Fatalf("TotalMinutes: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestCurrentStreakZeroWithoutToday(t *testing.T) {
	tr, _ := openTestTracker(t)

	// Sessions exist, but not for today: streak is 0.
	mustRecord(t, tr, "2026-08-27", 30)
	mustRecord(t, tr, "2026-08-28", 30)

	streak, err := tr.CurrentStreak(day("2026-08-29"))
	if err != nil {
		t.Fatalf("CurrentStreak: %v", err)
	}
	if streak != 0 {
		t.Errorf("streak = %d, want 0", streak)
	}
}

func TestCurrentStreakConsecutiveDays(t *testing.T) {
	tr, _ := openTestTracker(t)

	for _, d := range []string{"2026-08-26", "2026-08-27", "2026-08-28", "2026-08-29"} {
		mustRecord(t, tr, d, 30)
	}
	// A gap further back must not extend the streak.
	mustRecord(t, tr, "2026-08-23", 30)

	streak, err := tr.CurrentStreak(day("2026-08-29"))
	if err != nil {
		t.Fatalf("CurrentStreak: %v", err)
	}
	if streak != 4 {
		t.Errorf("streak = %d, want 4", streak)
	}
}

func TestCurrentStreakSameDayReplaceKeepsStreak(t *testing.T) {
	tr, _ := openTestTracker(t)

	mustRecord(t, tr, "2026-08-28", 30)
	mustRecord(t, tr, "2026-08-29", 20)
	mustRecord(t, tr, "2026-08-29", 50)

	streak, err := tr.CurrentStreak(day("2026-08-29"))
	if err != nil {
		t.Fatalf("CurrentStreak: %v", err)
	}
	if streak != 2 {
		t.Errorf("streak = %d, want 2", streak)
	}
}

// TestHabitGoalTicksOncePerLog verifies the flat-increment rule: every logged
// session adds exactly one to each daily/minutes goal, including a same-day
// replacement.
func TestHabitGoalTicksOncePerLog(t *testing.T) {
	tr, s := openTestTracker(t)

	habit := storage.Goal{
		ID: "g1", Title: "Read every day", TargetValue: 30,
		Unit: storage.UnitMinutes, Deadline: "2026-12-31",
		Category: storage.GoalDaily, IsActive: true, CreatedAt: time.Now(),
	}
	if err := s.CreateGoal(habit); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	mustRecord(t, tr, "2026-08-28", 90)
	mustRecord(t, tr, "2026-08-29", 5)

	got, err := s.GetGoal("g1")
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.CurrentValue != 2 {
		t.Errorf("current_value = %d, want 2 (one per log, minutes ignored)", got.CurrentValue)
	}

	// Replacing a day's session still ticks the goal.
	mustRecord(t, tr, "2026-08-29", 60)
	got, err = s.GetGoal("g1")
	if err != nil {
		t.Fatalf("GetGoal: %v", err)
	}
	if got.CurrentValue != 3 {
		t.Errorf("current_value = %d, want 3 after same-day replace", got.CurrentValue)
	}
}

func TestHabitGoalOtherBucketsUntouched(t *testing.T) {
	tr, s := openTestTracker(t)

	pages := storage.Goal{
		ID: "g1", Title: "Daily pages", TargetValue: 50,
		Unit: storage.UnitPages, Deadline: "2026-12-31",
		Category: storage.GoalDaily, IsActive: true, CreatedAt: time.Now(),
	}
	yearlyMinutes := storage.Goal{
		ID: "g2", Title: "Minutes this year", TargetValue: 6000,
		Unit: storage.UnitMinutes, Deadline: "2026-12-31",
		Category: storage.GoalYearly, IsActive: true, CreatedAt: time.Now(),
	}
	for _, g := range []storage.Goal{pages, yearlyMinutes} {
		if err := s.CreateGoal(g); err != nil {
			t.Fatalf("CreateGoal: %v", err)
		}
	}

	mustRecord(t, tr, "2026-08-29", 30)

	for _, id := range []string{"g1", "g2"} {
		g, err := s.GetGoal(id)
		if err != nil {
			t.Fatalf("GetGoal(%s): %v", id, err)
		}
		if g.CurrentValue != 0 {
			t.Errorf("goal %s advanced: current_value = %d, want 0", id, g.CurrentValue)
		}
	}
}
