package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/journal/internal/domain"
)

//go:embed schema.sql
var schema string

var (
	// ErrNotFound is returned when no entry matches an id or prefix
	ErrNotFound = errors.New("entry not found")

	// ErrAmbiguousID is returned when an id prefix matches several entries
	ErrAmbiguousID = errors.New("ambiguous entry id")
)

const entryColumns = "id, content, date, timestamp, sentiment, themes, ai_prompt, word_count, writing_time, last_modified"

// Store persists journal entries and small pieces of state in SQLite
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts a new entry
func (s *Store) Append(e *domain.Entry) error {
	if err := insertEntry(s.db, e, false); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertEntry(db execer, e *domain.Entry, replace bool) error {
	themes, err := json.Marshal(e.Themes)
	if err != nil {
		return fmt.Errorf("marshal themes: %w", err)
	}

	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}

	_, err = db.Exec(
		verb+" INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.Content, e.Date, e.Timestamp.UTC(), e.Sentiment, string(themes),
		e.AIPrompt, e.WordCount, e.WritingTime, utcOrNil(e.LastModified),
	)
	return err
}

// Update overwrites the content and derived fields of an existing entry
func (s *Store) Update(e *domain.Entry) error {
	themes, err := json.Marshal(e.Themes)
	if err != nil {
		return fmt.Errorf("marshal themes: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE entries
		 SET content = ?, sentiment = ?, themes = ?, word_count = ?, last_modified = ?
		 WHERE id = ?`,
		e.Content, e.Sentiment, string(themes), e.WordCount, utcOrNil(e.LastModified), e.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireOne(res, e.ID)
}

// Remove deletes an entry
func (s *Store) Remove(id string) error {
	res, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireOne(res, id)
}

func requireOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Get retrieves an entry by ID
func (s *Store) Get(id string) (*domain.Entry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE id = ?", id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

// List returns every entry, most recent first
func (s *Store) List() ([]domain.Entry, error) {
	rows, err := s.db.Query(
		"SELECT " + entryColumns + " FROM entries ORDER BY timestamp DESC, seq DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// Resolve expands a unique id prefix to the full entry id
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNotFound)
	}

	rows, err := s.db.Query(
		"SELECT id FROM entries WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id = ? DESC LIMIT 2",
		prefix, len(prefix), prefix, prefix,
	)
	if err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve id: %w", err)
	}

	switch {
	case len(ids) == 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case ids[0] == prefix || len(ids) == 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// Import writes entries in one transaction, replacing existing ones with the
// same id. With replace set, every other entry is removed first.
func (s *Store) Import(entries []domain.Entry, replace bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.Exec("DELETE FROM entries"); err != nil {
			return fmt.Errorf("clear entries: %w", err)
		}
	}

	for i := range entries {
		if err := insertEntry(tx, &entries[i], true); err != nil {
			return fmt.Errorf("import entry %s: %w", entries[i].ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Clear removes every entry and all saved state
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM entries; DELETE FROM state;"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// GetState reads a state value; ok is false when the key is unset
func (s *Store) GetState(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get state %s: %w", key, err)
	}
	return value, true, nil
}

// SetState writes a state value
func (s *Store) SetState(key, value string) error {
	_, err := s.db.Exec("INSERT OR REPLACE INTO state (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return fmt.Errorf("set state %s: %w", key, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*domain.Entry, error) {
	var (
		e            domain.Entry
		themes       string
		lastModified sql.NullTime
	)

	err := sc.Scan(
		&e.ID, &e.Content, &e.Date, &e.Timestamp, &e.Sentiment, &themes,
		&e.AIPrompt, &e.WordCount, &e.WritingTime, &lastModified,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(themes), &e.Themes); err != nil {
		return nil, fmt.Errorf("decode themes of %s: %w", e.ID, err)
	}
	if lastModified.Valid {
		t := lastModified.Time
		e.LastModified = &t
	}

	return &e, nil
}

func utcOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
