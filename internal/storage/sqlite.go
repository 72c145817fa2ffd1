package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/secondbrain/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL,
	category   TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '[]',
	links      TEXT NOT NULL DEFAULT '[]',
	favorite   INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_created ON notes(created_at);
`

// SQLite stores the collection in a single notes table. Tags and links are
// JSON arrays.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Load reads every note, newest first.
func (s *SQLite) Load() ([]models.Note, error) {
	rows, err := s.conn.Query(`
		SELECT id, title, content, category, tags, links, favorite, created_at
		FROM notes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: query notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var (
			n                          models.Note
			category, tags, links, ts string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &category, &tags, &links, &n.IsFavorite, &ts); err != nil {
			return nil, fmt.Errorf("storage: scan note: %w", err)
		}
		if n.Category, err = models.ParseCategory(category); err != nil {
			n.Category = models.CategoryOther
		}
		if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
			return nil, fmt.Errorf("storage: note %s tags: %w", n.ID, err)
		}
		if err := json.Unmarshal([]byte(links), &n.Links); err != nil {
			return nil, fmt.Errorf("storage: note %s links: %w", n.ID, err)
		}
		if len(n.Links) == 0 {
			n.Links = nil
		}
		if n.CreatedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("storage: note %s created_at: %w", n.ID, err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Save upserts every note and deletes rows whose id is no longer present,
// all within one transaction.
func (s *SQLite) Save(notes []models.Note) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	existing, err := ids(tx)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO notes (id, title, content, category, tags, links, favorite, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			content    = excluded.content,
			category   = excluded.category,
			tags       = excluded.tags,
			links      = excluded.links,
			favorite   = excluded.favorite,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("storage: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notes {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		links := n.Links
		if links == nil {
			links = []models.Link{}
		}
		tagsJSON, err := json.Marshal(tags)
		if err != nil {
			return fmt.Errorf("storage: encode tags: %w", err)
		}
		linksJSON, err := json.Marshal(links)
		if err != nil {
			return fmt.Errorf("storage: encode links: %w", err)
		}
		if _, err := stmt.Exec(n.ID, n.Title, n.Content, n.Category.String(),
			string(tagsJSON), string(linksJSON), n.IsFavorite,
			n.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("storage: upsert %s: %w", n.ID, err)
		}
		delete(existing, n.ID)
	}

	for id := range existing {
		if _, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
			return fmt.Errorf("storage: delete %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func ids(tx *sql.Tx) (map[string]struct{}, error) {
	rows, err := tx.Query(`SELECT id FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("storage: list ids: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: scan id: %w", err)
		}
		out[id] = struct{}{}
	}
	return out, rows.Err()
}
