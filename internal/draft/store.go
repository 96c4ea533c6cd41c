// Package draft persists in-progress form data across sessions. Each draft
// lives in a named slot of a SQLite database. Attachments are never stored;
// only their file names are kept so the UI can show what had been selected.
package draft

import (
	"database/sql"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/language"

	"github.com/hrinsight/onboardform/internal/errl"
	"github.com/hrinsight/onboardform/internal/i18n"
	"github.com/hrinsight/onboardform/internal/models"
)

// Store manages the SQLite draft slots.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the draft database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errl.Errorf("failed to open draft database: %w", err)
	}
	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, errl.Errorf("failed to create tables: %w", err)
	}
	slog.Info("Draft store initialized", "path", path)
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			slot TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS preferences (
			slot TEXT PRIMARY KEY,
			language TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return errl.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Save serializes the form into the slot, replacing whatever was there.
// Last writer wins; there is no versioning.
func (s *Store) Save(slot string, fs *models.FormState) error {
	raw, err := encodePayload(fs)
	if err != nil {
		return errl.Errorf("failed to encode draft: %w", err)
	}
	query := `
		INSERT INTO drafts (slot, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, slot, raw); err != nil {
		return errl.Errorf("failed to save draft for slot %s: %w", slot, err)
	}
	slog.Info("Draft saved", "slot", slot)
	return nil
}

// Draft is the result of restoring a slot: the reconstructed form (without
// attachment contents) and the display-only names of the files that had been
// attached when the draft was saved.
type Draft struct {
	Form            *models.FormState
	AttachmentNames map[string]string
}

// Restore reads the slot. It reports false when no draft exists. A draft that
// cannot be parsed is logged and treated as absent; it never fails the form.
func (s *Store) Restore(slot string) (*Draft, bool, error) {
	var raw []byte
	err := s.db.QueryRow(`SELECT payload FROM drafts WHERE slot = ?`, slot).Scan(&raw)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, errl.Errorf("failed to read draft for slot %s: %w", slot, err)
	}
	d, err := decodePayload(raw)
	if err != nil {
		slog.Warn("Discarding malformed draft", "slot", slot, "error", err)
		return nil, false, nil
	}
	return d, true, nil
}

// Clear removes the slot.
func (s *Store) Clear(slot string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE slot = ?`, slot); err != nil {
		return errl.Errorf("failed to clear draft for slot %s: %w", slot, err)
	}
	slog.Info("Draft cleared", "slot", slot)
	return nil
}

// SaveLanguage stores the UI language preference for the slot. The preference
// lives in its own table; it is not part of the draft payload.
func (s *Store) SaveLanguage(slot string, tag language.Tag) error {
	query := `
		INSERT INTO preferences (slot, language, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(slot) DO UPDATE SET language = excluded.language, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, slot, tag.String()); err != nil {
		return errl.Errorf("failed to save language for slot %s: %w", slot, err)
	}
	return nil
}

// Language reads the UI language preference for the slot. It reports false
// when no preference has been stored.
func (s *Store) Language(slot string) (language.Tag, bool, error) {
	var code string
	err := s.db.QueryRow(`SELECT language FROM preferences WHERE slot = ?`, slot).Scan(&code)
	if err != nil {
		if err == sql.ErrNoRows {
			return i18n.Vietnamese, false, nil
		}
		return i18n.Vietnamese, false, errl.Errorf("failed to read language for slot %s: %w", slot, err)
	}
	return i18n.Match(code), true, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
