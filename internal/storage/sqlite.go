package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database with methods for sessions, goals,
// conversations, documents, and background jobs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (used by
// tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "readmind.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// --- Sessions ---

// RecordSession replaces any existing session for the same date with s and, in
// the same transaction, advances every goal matching goalCategory/goalUnit by
// one. Pass empty strings to skip the goal advancement.
func (s *Store) RecordSession(sess ReadingSession, goalCategory, goalUnit string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning record transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO sessions (date, minutes, pages, book, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			minutes = excluded.minutes,
			pages = excluded.pages,
			book = excluded.book,
			notes = excluded.notes`,
		sess.Date, sess.Minutes, sess.Pages, sess.Book, sess.Notes,
	); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if goalCategory != "" && goalUnit != "" {
		if _, err := tx.Exec(
			`UPDATE goals SET current_value = current_value + 1 WHERE category = ? AND unit = ?`,
			goalCategory, goalUnit,
		); err != nil {
			return fmt.Errorf("advancing goals: %w", err)
		}
	}

	return tx.Commit()
}

// GetSession returns the session recorded for the given date (YYYY-MM-DD).
func (s *Store) GetSession(date string) (ReadingSession, error) {
	var sess ReadingSession
	err := s.db.QueryRow(`
		SELECT date, minutes, pages, book, notes FROM sessions WHERE date = ?`, date,
	).Scan(&sess.Date, &sess.Minutes, &sess.Pages, &sess.Book, &sess.Notes)
	if err == sql.ErrNoRows {
		return ReadingSession{}, ErrNotFound
	}
	if err != nil {
		return ReadingSession{}, err
	}
	return sess, nil
}

// ListSessions returns all sessions in descending date order.
func (s *Store) ListSessions() ([]ReadingSession, error) {
	rows, err := s.db.Query(`
		SELECT date, minutes, pages, book, notes FROM sessions ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ReadingSession
	for rows.Next() {
		var sess ReadingSession
		if err := rows.Scan(&sess.Date, &sess.Minutes, &sess.Pages, &sess.Book, &sess.Notes); err != nil {
			return nil, err
		}
		results = append(results, sess)
	}
	return results, rows.Err()
}

// --- Goals ---

func (s *Store) CreateGoal(g Goal) error {
	_, err := s.db.Exec(`
		INSERT INTO goals (id, title, description, target_value, current_value, unit, deadline, category, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Description, g.TargetValue, g.CurrentValue,
		g.Unit, g.Deadline, g.Category, boolToInt(g.IsActive), g.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetGoal(id string) (Goal, error) {
	var g Goal
	var isActive int
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, title, description, target_value, current_value, unit, deadline, category, is_active, created_at
		FROM goals WHERE id = ?`, id,
	).Scan(&g.ID, &g.Title, &g.Description, &g.TargetValue, &g.CurrentValue, &g.Unit, &g.Deadline, &g.Category, &isActive, &createdAt)
	if err == sql.ErrNoRows {
		return Goal{}, ErrNotFound
	}
	if err != nil {
		return Goal{}, err
	}
	g.IsActive = isActive != 0
	if g.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Goal{}, fmt.Errorf("parsing created_at: %w", err)
	}
	return g, nil
}

// UpdateGoal replaces the editable fields of an existing goal. CurrentValue
// and CreatedAt are not touched by this operation.
func (s *Store) UpdateGoal(g Goal) error {
	res, err := s.db.Exec(`
		UPDATE goals SET title = ?, description = ?, target_value = ?, unit = ?, deadline = ?, category = ?, is_active = ?
		WHERE id = ?`,
		g.Title, g.Description, g.TargetValue, g.Unit, g.Deadline, g.Category, boolToInt(g.IsActive), g.ID,
	)
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

func (s *Store) DeleteGoal(id string) error {
	res, err := s.db.Exec(`DELETE FROM goals WHERE id = ?`, id)
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

// ListGoals returns all goals in creation order.
func (s *Store) ListGoals() ([]Goal, error) {
	rows, err := s.db.Query(`
		SELECT id, title, description, target_value, current_value, unit, deadline, category, is_active, created_at
		FROM goals ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Goal
	for rows.Next() {
		var g Goal
		var isActive int
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Title, &g.Description, &g.TargetValue, &g.CurrentValue, &g.Unit, &g.Deadline, &g.Category, &isActive, &createdAt); err != nil {
			return nil, err
		}
		g.IsActive = isActive != 0
		if g.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		results = append(results, g)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
