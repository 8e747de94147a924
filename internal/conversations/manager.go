// Package conversations manages Q&A threads: asking questions through the
// assistant, searching history, favorites, and answer feedback.
package conversations

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kalambet/readmind/internal/assistant"
	"github.com/kalambet/readmind/internal/storage"
)

// titleLimit is the maximum conversation title length derived from the first
// question.
const titleLimit = 50

// Responder produces an answer for a question. Satisfied by
// *assistant.Engine; tests inject a deterministic double.
type Responder interface {
	Answer(ctx context.Context, question string) (string, error)
}

// Storage is the persistence surface the manager needs.
type Storage interface {
	SaveConversation(storage.Conversation) error
	GetConversation(id string) (storage.Conversation, error)
	ListConversations() ([]storage.Conversation, error)
	AppendMessages(conversationID string, updatedAt time.Time, msgs ...storage.Message) error
	SetConversationFavorite(id string, favorite bool) error
	DeleteConversation(id string) error
	SetMessageHelpful(conversationID, messageID string, helpful bool) error
}

// Manager owns the conversation collection.
type Manager struct {
	storage   Storage
	responder Responder
	now       func() time.Time
}

func NewManager(s Storage, r Responder) *Manager {
	return &Manager{storage: s, responder: r, now: time.Now}
}

// Ask appends a question to the conversation (creating a new one when
// conversationID is empty), obtains the assistant's answer, and appends it.
// The answer is generated before anything is persisted so a failed generation
// leaves the store unchanged.
func (m *Manager) Ask(ctx context.Context, conversationID, question string) (storage.Conversation, error) {
	q := strings.TrimSpace(question)
	if q == "" {
		return storage.Conversation{}, &storage.ValidationError{Field: "question", Reason: "must not be empty"}
	}

	if conversationID != "" {
		// Existence check up front so an unknown id fails before the
		// simulated delay.
		if _, err := m.storage.GetConversation(conversationID); err != nil {
			return storage.Conversation{}, err
		}
	}

	answer, err := m.responder.Answer(ctx, q)
	if err != nil {
		return storage.Conversation{}, fmt.Errorf("generating answer: %w", err)
	}

	now := m.now().UTC()
	questionMsg := storage.Message{
		ID:        uuid.New().String(),
		Type:      storage.MessageQuestion,
		Content:   q,
		Timestamp: now,
	}
	answerMsg := storage.Message{
		ID:        uuid.New().String(),
		Type:      storage.MessageAnswer,
		Content:   answer,
		Timestamp: now,
	}

	if conversationID == "" {
		conv := storage.Conversation{
			ID:         uuid.New().String(),
			Title:      truncateTitle(q),
			Category:   assistant.Categorize(q),
			IsFavorite: false,
			CreatedAt:  now,
			UpdatedAt:  now,
			Messages:   []storage.Message{questionMsg, answerMsg},
		}
		if err := m.storage.SaveConversation(conv); err != nil {
			return storage.Conversation{}, fmt.Errorf("saving conversation: %w", err)
		}
		return conv, nil
	}

	if err := m.storage.AppendMessages(conversationID, now, questionMsg, answerMsg); err != nil {
		return storage.Conversation{}, err
	}
	return m.storage.GetConversation(conversationID)
}

// truncateTitle derives a conversation title from the first question,
// truncated to 50 characters with an ellipsis.
func truncateTitle(question string) string {
	if utf8.RuneCountInString(question) <= titleLimit {
		return question
	}
	runes := []rune(question)
	return string(runes[:titleLimit]) + "..."
}

// Search returns conversations matching all given filters, newest first.
// term matches case-insensitively against the title or any message content;
// category "all" (or "") matches every category.
func (m *Manager) Search(term string, favoritesOnly bool, category string) ([]storage.Conversation, error) {
	all, err := m.storage.ListConversations()
	if err != nil {
		return nil, err
	}

	lowerTerm := strings.ToLower(term)
	matched := make([]storage.Conversation, 0, len(all))
	for _, c := range all {
		if favoritesOnly && !c.IsFavorite {
			continue
		}
		if category != "" && category != "all" && c.Category != category {
			continue
		}
		if lowerTerm != "" && !matchesTerm(c, lowerTerm) {
			continue
		}
		matched = append(matched, c)
	}
	return matched, nil
}

func matchesTerm(c storage.Conversation, lowerTerm string) bool {
	if strings.Contains(strings.ToLower(c.Title), lowerTerm) {
		return true
	}
	for _, msg := range c.Messages {
		if strings.Contains(strings.ToLower(msg.Content), lowerTerm) {
			return true
		}
	}
	return false
}

// Get returns a conversation by id.
func (m *Manager) Get(id string) (storage.Conversation, error) {
	return m.storage.GetConversation(id)
}

// ToggleFavorite flips the favorite flag and returns the updated conversation.
func (m *Manager) ToggleFavorite(id string) (storage.Conversation, error) {
	c, err := m.storage.GetConversation(id)
	if err != nil {
		return storage.Conversation{}, err
	}
	if err := m.storage.SetConversationFavorite(id, !c.IsFavorite); err != nil {
		return storage.Conversation{}, err
	}
	c.IsFavorite = !c.IsFavorite
	return c, nil
}

// Delete removes a conversation and its messages.
func (m *Manager) Delete(id string) error {
	return m.storage.DeleteConversation(id)
}

// SetHelpful records feedback on an answer message.
func (m *Manager) SetHelpful(conversationID, messageID string, helpful bool) error {
	return m.storage.SetMessageHelpful(conversationID, messageID, helpful)
}
