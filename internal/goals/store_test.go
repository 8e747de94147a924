package goals

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kalambet/readmind/internal/storage"
)

func openTestGoals(t *testing.T) *Store {
	t.Helper()
	s, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewStore(s)
}

func validInput() Input {
	return Input{
		Title:       "Read 24 books",
		Description: "one every two weeks",
		TargetValue: 24,
		Unit:        storage.UnitBooks,
		Deadline:    "2026-12-31",
		Category:    storage.GoalYearly,
	}
}

func TestCreateGoal(t *testing.T) {
	gs := openTestGoals(t)

	g, err := gs.Create(validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.ID == "" {
		t.Error("expected a generated id")
	}
	if g.CurrentValue != 0 {
		t.Errorf("current_value = %d, want 0", g.CurrentValue)
	}
	if !g.IsActive {
		t.Error("new goal should be active")
	}

	got, err := gs.Get(g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != g.Title {
		t.Errorf("title = %q, want %q", got.Title, g.Title)
	}
}

func TestCreateGoalTrimsTitle(t *testing.T) {
	gs := openTestGoals(t)

	in := validInput()
	in.Title = "  Read 24 books  "
	g, err := gs.Create(in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.Title != "Read 24 books" {
		t.Errorf("title = %q, want trimmed", g.Title)
	}
}

func TestCreateGoalValidation(t *testing.T) {
	gs := openTestGoals(t)

	cases := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"blank title", func(in *Input) { in.Title = "   " }, "title"},
		{"zero target", func(in *Input) { in.TargetValue = 0 }, "target_value"},
		{"negative target", func(in *Input) { in.TargetValue = -3 }, "target_value"},
		{"bad deadline", func(in *Input) { in.Deadline = "end of year" }, "deadline"},
		{"unknown unit", func(in *Input) { in.Unit = "chapters" }, "unit"},
		{"unknown category", func(in *Input) { in.Category = "sprint" }, "category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := gs.Create(in)
			var verr *storage.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Errorf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}

	// Nothing was stored by the rejected inputs.
	list, err := gs.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty store after rejected creates, got %d goals", len(list))
	}
}

func TestUpdateGoal(t *testing.T) {
	gs := openTestGoals(t)

	g, err := gs.Create(validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := validInput()
	in.Title = "Read 30 books"
	in.TargetValue = 30
	updated, err := gs.Update(g.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Read 30 books" || updated.TargetValue != 30 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.CurrentValue != g.CurrentValue {
		t.Errorf("current_value changed on update: %d -> %d", g.CurrentValue, updated.CurrentValue)
	}
}

func TestUpdateGoalUnknownID(t *testing.T) {
	gs := openTestGoals(t)

	if _, err := gs.Create(validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := gs.Update("missing", validInput())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The rejected update left the existing goal alone.
	list, err := gs.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Read 24 books" {
		t.Errorf("store changed by failed update: %+v", list)
	}
}

func TestUpdateGoalInvalidInputLeavesGoalUnchanged(t *testing.T) {
	gs := openTestGoals(t)

	g, err := gs.Create(validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	in := validInput()
	in.Unit = "chapters"
	if _, err := gs.Update(g.ID, in); err == nil {
		t.Fatal("expected validation error")
	}

	got, err := gs.Get(g.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Unit != storage.UnitBooks {
		t.Errorf("unit = %q, want %q", got.Unit, storage.UnitBooks)
	}
}

func TestDeleteGoal(t *testing.T) {
	gs := openTestGoals(t)

	g, err := gs.Create(validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := gs.Delete(g.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := gs.Get(g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := gs.Delete(g.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListActiveFiltersAndKeepsOrder(t *testing.T) {
	gs := openTestGoals(t)

	var ids []string
	for i := 0; i < 4; i++ {
		in := validInput()
		in.Title = fmt.Sprintf("goal %d", i)
		g, err := gs.Create(in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, g.ID)
	}

	// Deactivate the second goal through the storage layer.
	deactivated, err := gs.Get(ids[1])
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	deactivated.IsActive = false
	st := gs.storage.(*storage.Store)
	if err := st.UpdateGoal(deactivated); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}

	active, err := gs.ListActive()
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	want := []string{ids[0], ids[2], ids[3]}
	if len(active) != len(want) {
		t.Fatalf("expected %d active goals, got %d", len(want), len(active))
	}
	for i, id := range want {
		if active[i].ID != id {
			t.Errorf("active %d: got %s, want %s", i, active[i].ID, id)
		}
	}
}
