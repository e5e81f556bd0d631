// Package audit keeps an append-only log of repository writes in Postgres.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one recorded mutation.
type Entry struct {
	ID         string         `json:"id"`
	Actor      string         `json:"actor"`
	Collection string         `json:"collection"`
	DocumentID string         `json:"document_id"`
	Action     string         `json:"action"`
	Changes    map[string]any `json:"changes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

const schema = `
	CREATE TABLE IF NOT EXISTS audit_entries (
		id          UUID PRIMARY KEY,
		actor       TEXT NOT NULL DEFAULT '',
		collection  TEXT NOT NULL,
		document_id TEXT NOT NULL,
		action      TEXT NOT NULL,
		changes     JSONB,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS audit_entries_created_at_idx ON audit_entries (created_at DESC);
`

// Store handles PostgreSQL operations for audit entries
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate audit schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Record inserts e, filling in its id and creation time.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Actor == "" {
		e.Actor = ActorFrom(ctx)
	}

	var changes any
	if len(e.Changes) > 0 {
		raw, err := json.Marshal(e.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal audit changes: %w", err)
		}
		changes = raw
	}

	query := `
		INSERT INTO audit_entries (id, actor, collection, document_id, action, changes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query,
		e.ID, e.Actor, e.Collection, e.DocumentID, e.Action, changes,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns the newest entries first. collection filters when non-empty.
func (s *Store) List(ctx context.Context, collection string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `
		SELECT id, actor, collection, document_id, action, changes, created_at
		FROM audit_entries
		WHERE ($1 = '' OR collection = $1)
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e       Entry
			changes []byte
		)
		if err := rows.Scan(&e.ID, &e.Actor, &e.Collection, &e.DocumentID, &e.Action, &changes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal audit changes: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
