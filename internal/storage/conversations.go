package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveConversation inserts a new conversation together with its initial
// messages in a single transaction.
func (s *Store) SaveConversation(c Conversation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO conversations (id, title, category, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Category, boolToInt(c.IsFavorite),
		c.CreatedAt.UTC().Format(time.RFC3339), c.UpdatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}

	for i, m := range c.Messages {
		if err := insertMessage(tx, c.ID, i, m); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// AppendMessages appends messages to an existing conversation in insertion
// order and refreshes updated_at. Returns ErrNotFound for an unknown id.
func (s *Store) AppendMessages(conversationID string, updatedAt time.Time, msgs ...Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning append transaction: %w", err)
	}
	defer tx.Rollback()

	var nextSeq int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(seq) + 1, 0) FROM messages WHERE conversation_id = ?`, conversationID,
	).Scan(&nextSeq)
	if err != nil {
		return fmt.Errorf("computing next seq: %w", err)
	}

	res, err := tx.Exec(`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		updatedAt.UTC().Format(time.RFC3339), conversationID)
	if err != nil {
		return fmt.Errorf("refreshing updated_at: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	for i, m := range msgs {
		if err := insertMessage(tx, conversationID, nextSeq+i, m); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertMessage(tx *sql.Tx, conversationID string, seq int, m Message) error {
	var helpful any
	if m.Helpful != nil {
		helpful = boolToInt(*m.Helpful)
	}
	if _, err := tx.Exec(`
		INSERT INTO messages (id, conversation_id, seq, type, content, timestamp, helpful)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, conversationID, seq, m.Type, m.Content,
		m.Timestamp.UTC().Format(time.RFC3339), helpful,
	); err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// GetConversation returns a conversation with its messages in insertion order.
func (s *Store) GetConversation(id string) (Conversation, error) {
	var c Conversation
	var isFavorite int
	var createdAt, updatedAt string
	err := s.db.QueryRow(`
		SELECT id, title, category, is_favorite, created_at, updated_at
		FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.Title, &c.Category, &isFavorite, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return Conversation{}, ErrNotFound
	}
	if err != nil {
		return Conversation{}, err
	}
	c.IsFavorite = isFavorite != 0
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Conversation{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return Conversation{}, fmt.Errorf("parsing updated_at: %w", err)
	}

	if c.Messages, err = s.conversationMessages(id); err != nil {
		return Conversation{}, err
	}
	return c, nil
}

func (s *Store) conversationMessages(conversationID string) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT id, type, content, timestamp, helpful
		FROM messages WHERE conversation_id = ? ORDER BY seq ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var timestamp string
		var helpful sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Type, &m.Content, &timestamp, &helpful); err != nil {
			return nil, err
		}
		if m.Timestamp, err = time.Parse(time.RFC3339, timestamp); err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		if helpful.Valid {
			v := helpful.Int64 != 0
			m.Helpful = &v
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// ListConversations returns all conversations with messages, newest first.
func (s *Store) ListConversations() ([]Conversation, error) {
	rows, err := s.db.Query(`
		SELECT id FROM conversations ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	results := make([]Conversation, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetConversation(id)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, nil
}

// SetConversationFavorite sets the favorite flag on a conversation.
func (s *Store) SetConversationFavorite(id string, favorite bool) error {
	res, err := s.db.Exec(`UPDATE conversations SET is_favorite = ? WHERE id = ?`,
		boolToInt(favorite), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}

	return tx.Commit()
}

// SetMessageHelpful records answer feedback on a message within a
// conversation. Returns ErrNotFound when either id is unknown.
func (s *Store) SetMessageHelpful(conversationID, messageID string, helpful bool) error {
	res, err := s.db.Exec(`
		UPDATE messages SET helpful = ? WHERE id = ? AND conversation_id = ?`,
		boolToInt(helpful), messageID, conversationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
