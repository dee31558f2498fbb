package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rosales/inkwell/internal/apperr"
	"github.com/rosales/inkwell/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	audio       TEXT NOT NULL DEFAULT '',
	date        DATETIME,
	created_by  TEXT NOT NULL,
	created_at  DATETIME NOT NULL,
	updated_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_created_by ON notes(created_by);
`

// DB wraps a sql.DB with note persistence operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Insert persists a new note.
func (db *DB) Insert(ctx context.Context, n *models.Note) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO notes (id, title, description, image, audio, date, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.Title, n.Description, n.Image, n.Audio, nullTime(n.Date), n.CreatedBy, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert note: %w", err)
	}
	return nil
}

// Get returns the note with the given id, or apperr.ErrNotFound.
func (db *DB) Get(ctx context.Context, id string) (*models.Note, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, title, description, image, audio, date, created_by, created_at, updated_at
		FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get note: %w", err)
	}
	return n, nil
}

// ListByOwner returns the owner's notes ordered by creation time descending.
func (db *DB) ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, description, image, audio, date, created_by, created_at, updated_at
		FROM notes WHERE created_by = ?
		ORDER BY created_at DESC, id
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("store: list notes: %w", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan note: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an existing note.
func (db *DB) Update(ctx context.Context, n *models.Note) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE notes
		SET title = ?, description = ?, image = ?, audio = ?, date = ?, updated_at = ?
		WHERE id = ?
	`, n.Title, n.Description, n.Image, n.Audio, nullTime(n.Date), n.UpdatedAt, n.ID)
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update note: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Delete removes a note record.
func (db *DB) Delete(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete note: %w", err)
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*models.Note, error) {
	var n models.Note
	var date sql.NullTime
	err := row.Scan(&n.ID, &n.Title, &n.Description, &n.Image, &n.Audio, &date,
		&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if date.Valid {
		d := date.Time
		n.Date = &d
	}
	return &n, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
