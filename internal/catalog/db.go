package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"hangar/internal/debug"
)

const createTUIsTable = `
CREATE TABLE IF NOT EXISTS tuis (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL UNIQUE,
	command       TEXT NOT NULL,
	args          TEXT NOT NULL DEFAULT '[]',
	working_dir   TEXT NOT NULL DEFAULT '',
	description   TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	favorite      INTEGER NOT NULL DEFAULT 0,
	launch_count  INTEGER NOT NULL DEFAULT 0,
	last_launched DATETIME,
	created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

const createCategoriesTable = `
CREATE TABLE IF NOT EXISTS categories (
	name     TEXT PRIMARY KEY,
	position INTEGER NOT NULL DEFAULT 0
);
`

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS launch_history (
	id          TEXT PRIMARY KEY,
	tui_id      TEXT NOT NULL REFERENCES tuis(id) ON DELETE CASCADE,
	launched_at DATETIME NOT NULL,
	success     INTEGER NOT NULL,
	exit_code   INTEGER,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	error       TEXT NOT NULL DEFAULT ''
);
`

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

const tuiColumns = `id, name, command, args, working_dir, description, category,
	favorite, launch_count, last_launched, created_at`

// Store is the persistent catalog: programs, categories, launch history
// and settings, backed by a single SQLite file.
type Store struct {
	conn *sql.DB
}

// Open initializes the database connection and schema
func Open(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Performance Tuning
	// WAL mode allows simultaneous readers and writers
	// Synchronous NORMAL is safe against app crashes, faster than FULL
	// foreign_keys makes history rows cascade with their parent entry
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, err
		}
	}

	schema := []string{
		createTUIsTable,
		createCategoriesTable,
		createHistoryTable,
		createSettingsTable,
	}
	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, err
		}
	}

	debug.Log(debug.STORE, "opened catalog at %s", dbPath)
	return &Store{conn: db}, nil
}

// DefaultPath returns the standard catalog location,
// ~/.config/hangar/hangar.db on most systems.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "hangar", "hangar.db"), nil
}

// Add inserts a new entry. A missing ID is generated; duplicate names fail.
func (s *Store) Add(t *TUI) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := s.conn.Exec(
		`INSERT INTO tuis (id, name, command, args, working_dir, description, category, favorite, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Command, encodeArgs(t.Args), t.WorkingDir,
		t.Description, t.Category, t.Favorite, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("add %q: %w", t.Name, err)
	}
	return s.ensureCategory(t.Category)
}

// Get returns the entry with the given ID, or nil when absent.
func (s *Store) Get(id string) (*TUI, error) {
	row := s.conn.QueryRow(`SELECT `+tuiColumns+` FROM tuis WHERE id = ?`, id)
	return scanTUI(row)
}

// GetByName returns the entry with the given name, or nil when absent.
func (s *Store) GetByName(name string) (*TUI, error) {
	row := s.conn.QueryRow(`SELECT `+tuiColumns+` FROM tuis WHERE name = ?`, name)
	return scanTUI(row)
}

// List returns entries matching the filter, favorites first, then by
// launch count, then by name.
func (s *Store) List(f Filter) ([]TUI, error) {
	query := `SELECT ` + tuiColumns + ` FROM tuis`
	var args []any
	switch {
	case f.FavoritesOnly:
		query += ` WHERE favorite = 1`
	case f.Category != "":
		query += ` WHERE category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY favorite DESC, launch_count DESC, name COLLATE NOCASE ASC`

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tuis []TUI
	for rows.Next() {
		t, err := scanTUIRow(rows)
		if err != nil {
			return nil, err
		}
		tuis = append(tuis, *t)
	}
	return tuis, rows.Err()
}

// Update rewrites all mutable fields of an entry, keyed by ID.
func (s *Store) Update(t *TUI) error {
	res, err := s.conn.Exec(
		`UPDATE tuis SET name = ?, command = ?, args = ?, working_dir = ?,
		 description = ?, category = ?, favorite = ? WHERE id = ?`,
		t.Name, t.Command, encodeArgs(t.Args), t.WorkingDir,
		t.Description, t.Category, t.Favorite, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update %q: %w", t.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update %q: no such entry", t.Name)
	}
	return s.ensureCategory(t.Category)
}

// Delete removes an entry; its history rows cascade with it.
func (s *Store) Delete(id string) error {
	_, err := s.conn.Exec(`DELETE FROM tuis WHERE id = ?`, id)
	return err
}

// SetFavorite flips the favorite flag on an entry.
func (s *Store) SetFavorite(id string, fav bool) error {
	_, err := s.conn.Exec(`UPDATE tuis SET favorite = ? WHERE id = ?`, fav, id)
	return err
}

// Count returns the number of catalogued entries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.conn.QueryRow(`SELECT COUNT(*) FROM tuis`).Scan(&n)
	return n, err
}

// RecordLaunch appends one history row and bumps the entry's launch
// counter and last-launched timestamp in the same transaction. The
// counter counts attempts, not successes.
func (s *Store) RecordLaunch(rec LaunchRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.LaunchedAt.IsZero() {
		rec.LaunchedAt = time.Now()
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO launch_history (id, tui_id, launched_at, success, exit_code, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TUIID, rec.LaunchedAt, rec.Success, rec.ExitCode,
		rec.DurationMS, rec.Error,
	); err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE tuis SET launch_count = launch_count + 1, last_launched = ? WHERE id = ?`,
		rec.LaunchedAt, rec.TUIID,
	); err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return tx.Commit()
}

// History returns launch records, newest first. An empty tuiID selects
// records for every entry; limit <= 0 means no limit.
func (s *Store) History(tuiID string, limit int) ([]LaunchRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `SELECT id, tui_id, launched_at, success, exit_code, duration_ms, error
		FROM launch_history`
	var args []any
	if tuiID != "" {
		query += ` WHERE tui_id = ?`
		args = append(args, tuiID)
	}
	query += ` ORDER BY launched_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []LaunchRecord
	for rows.Next() {
		var rec LaunchRecord
		var exitCode sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.TUIID, &rec.LaunchedAt, &rec.Success,
			&exitCode, &rec.DurationMS, &rec.Error); err != nil {
			return nil, err
		}
		if exitCode.Valid {
			code := int(exitCode.Int64)
			rec.ExitCode = &code
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// ListCategories returns categories in tab order.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.conn.Query(`SELECT name, position FROM categories ORDER BY position ASC, name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Name, &c.Position); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// AddCategory registers a category at the end of the tab order.
func (s *Store) AddCategory(name string) error {
	return s.ensureCategory(name)
}

// RemoveCategory drops a category and clears it from any entries using it.
func (s *Store) RemoveCategory(name string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM categories WHERE name = ?`, name); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE tuis SET category = '' WHERE category = ?`, name); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ensureCategory(name string) error {
	if name == "" {
		return nil
	}
	// Use INSERT OR IGNORE to handle duplicates gracefully
	_, err := s.conn.Exec(
		`INSERT OR IGNORE INTO categories (name, position)
		 VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM categories))`,
		name,
	)
	return err
}

// GetSetting returns the stored value for key, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting upserts a key-value setting.
func (s *Store) SetSetting(key, value string) error {
	// Use INSERT OR REPLACE to upsert the setting
	_, err := s.conn.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTUIInto(sc rowScanner) (*TUI, error) {
	var t TUI
	var args string
	var lastLaunched sql.NullTime
	err := sc.Scan(&t.ID, &t.Name, &t.Command, &args, &t.WorkingDir,
		&t.Description, &t.Category, &t.Favorite, &t.LaunchCount,
		&lastLaunched, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Args = decodeArgs(args)
	if lastLaunched.Valid {
		ts := lastLaunched.Time
		t.LastLaunched = &ts
	}
	return &t, nil
}

func scanTUI(row *sql.Row) (*TUI, error) {
	t, err := scanTUIInto(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return t, err
}

func scanTUIRow(rows *sql.Rows) (*TUI, error) {
	return scanTUIInto(rows)
}

func encodeArgs(args []string) string {
	if len(args) == 0 {
		return "[]"
	}
	b, err := json.Marshal(args)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeArgs(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var args []string
	if err := json.Unmarshal([]byte(s), &args); err != nil {
		return nil
	}
	return args
}
