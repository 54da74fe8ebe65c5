// Package journal keeps a local record of the changes this console applied:
// settings saves and allocation updates, with their before/after values. The
// backend keeps its own audit log; this journal answers "what did I change
// from this machine" without a round trip.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/kivo360/omoictl/models"
)

// Change kinds.
const (
	KindSettings   = "settings"
	KindAllocation = "allocation"
)

// timeLayout is RFC3339 with a fixed-width fraction so that lexicographic
// order on the stored text matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Entry is one recorded change.
type Entry struct {
	ID        string
	CreatedAt time.Time
	Kind      string
	// Target is the project ID for settings changes, the sandbox ID for
	// allocation changes.
	Target    string
	OldValues json.RawMessage
	NewValues json.RawMessage
}

// Journal is a sqlite-backed change log.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS changes (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	kind       TEXT NOT NULL,
	target     TEXT NOT NULL,
	old_values TEXT NOT NULL,
	new_values TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_changes_kind_created ON changes(kind, created_at DESC);
`

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close releases the database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) record(kind, target string, oldValues, newValues any) error {
	oldJSON, err := json.Marshal(oldValues)
	if err != nil {
		return fmt.Errorf("encode old values: %w", err)
	}
	newJSON, err := json.Marshal(newValues)
	if err != nil {
		return fmt.Errorf("encode new values: %w", err)
	}
	_, err = j.db.Exec(
		`INSERT INTO changes (id, created_at, kind, target, old_values, new_values) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		time.Now().UTC().Format(timeLayout),
		kind,
		target,
		string(oldJSON),
		string(newJSON),
	)
	if err != nil {
		return fmt.Errorf("record %s change: %w", kind, err)
	}
	return nil
}

// RecordSettingsChange logs a settings save for a project.
func (j *Journal) RecordSettingsChange(projectID string, before, after models.SpecDrivenSettings) error {
	return j.record(KindSettings, projectID, before, after)
}

// RecordAllocationChange logs an allocation update for a sandbox.
func (j *Journal) RecordAllocationChange(sandboxID string, before, after models.ResourceAllocation) error {
	return j.record(KindAllocation, sandboxID, before, after)
}

// List returns the most recent entries, newest first. kind filters by change
// kind when non-empty. limit <= 0 means 50.
func (j *Journal) List(kind string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, created_at, kind, target, old_values, new_values FROM changes`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var e Entry
		var createdAt, oldValues, newValues string
		if err := rows.Scan(&e.ID, &createdAt, &e.Kind, &e.Target, &oldValues, &newValues); err != nil {
			return nil, fmt.Errorf("scan journal row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		e.OldValues = json.RawMessage(oldValues)
		e.NewValues = json.RawMessage(newValues)
		out = append(out, e)
	}
	return out, rows.Err()
}
