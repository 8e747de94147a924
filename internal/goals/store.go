// Package goals manages reading goals: creation, edits, deletion, and listing.
// Progress advancement on session logging lives in internal/progress.
package goals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/readmind/internal/storage"
)

var validUnits = map[string]bool{
	storage.UnitBooks:   true,
	storage.UnitPages:   true,
	storage.UnitMinutes: true,
	storage.UnitHours:   true,
}

var validCategories = map[string]bool{
	storage.GoalPersonal: true,
	storage.GoalDaily:    true,
	storage.GoalYearly:   true,
	storage.GoalGenre:    true,
	storage.GoalSkill:    true,
}

// Storage is the persistence surface the goal store needs.
type Storage interface {
	CreateGoal(storage.Goal) error
	GetGoal(id string) (storage.Goal, error)
	UpdateGoal(storage.Goal) error
	DeleteGoal(id string) error
	ListGoals() ([]storage.Goal, error)
}

// Input holds the editable fields of a goal, used for both create and update.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TargetValue int    `json:"target_value"`
	Unit        string `json:"unit"`
	Deadline    string `json:"deadline"`
	Category    string `json:"category"`
}

// Store owns the goal collection.
type Store struct {
	storage Storage
	now     func() time.Time
}

func NewStore(s Storage) *Store {
	return &Store{storage: s, now: time.Now}
}

func validate(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return &storage.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if in.TargetValue <= 0 {
		return &storage.ValidationError{Field: "target_value", Reason: "must be a positive integer"}
	}
	if _, err := time.Parse(storage.DateLayout, in.Deadline); err != nil {
		return &storage.ValidationError{Field: "deadline", Reason: "must be YYYY-MM-DD"}
	}
	if !validUnits[in.Unit] {
		return &storage.ValidationError{Field: "unit", Reason: "must be one of books, pages, minutes, hours"}
	}
	if !validCategories[in.Category] {
		return &storage.ValidationError{Field: "category", Reason: "must be one of personal, daily, yearly, genre, skill"}
	}
	return nil
}

// Create validates the input and stores a new goal with a fresh id, zero
// progress, and active status.
func (s *Store) Create(in Input) (storage.Goal, error) {
	if err := validate(in); err != nil {
		return storage.Goal{}, err
	}

	g := storage.Goal{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		TargetValue:  in.TargetValue,
		CurrentValue: 0,
		Unit:         in.Unit,
		Deadline:     in.Deadline,
		Category:     in.Category,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.storage.CreateGoal(g); err != nil {
		return storage.Goal{}, fmt.Errorf("creating goal: %w", err)
	}
	return g, nil
}

// Update replaces the editable fields of an existing goal. CurrentValue is
// untouched. Returns storage.ErrNotFound for an unknown id.
func (s *Store) Update(id string, in Input) (storage.Goal, error) {
	if err := validate(in); err != nil {
		return storage.Goal{}, err
	}

	g, err := s.storage.GetGoal(id)
	if err != nil {
		return storage.Goal{}, err
	}

	g.Title = strings.TrimSpace(in.Title)
	g.Description = in.Description
	g.TargetValue = in.TargetValue
	g.Unit = in.Unit
	g.Deadline = in.Deadline
	g.Category = in.Category

	if err := s.storage.UpdateGoal(g); err != nil {
		return storage.Goal{}, err
	}
	return g, nil
}

// Delete removes a goal immediately and irreversibly.
func (s *Store) Delete(id string) error {
	return s.storage.DeleteGoal(id)
}

// Get returns a goal by id.
func (s *Store) Get(id string) (storage.Goal, error) {
	return s.storage.GetGoal(id)
}

// List returns all goals in creation order.
func (s *Store) List() ([]storage.Goal, error) {
	return s.storage.ListGoals()
}

// ListActive returns active goals in stable creation order.
func (s *Store) ListActive() ([]storage.Goal, error) {
	all, err := s.storage.ListGoals()
	if err != nil {
		return nil, err
	}
	active := make([]storage.Goal, 0, len(all))
	for _, g := range all {
		if g.IsActive {
			active = append(active, g)
		}
	}
	return active, nil
}
