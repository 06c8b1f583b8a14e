package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/comalice/presenterx"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	presenter_id TEXT PRIMARY KEY,
	saved_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transitions (
	presenter_id TEXT NOT NULL REFERENCES snapshots(presenter_id) ON DELETE CASCADE,
	seq          INTEGER NOT NULL,
	action_type  TEXT NOT NULL,
	action       TEXT NOT NULL,
	from_state   TEXT NOT NULL,
	to_state     TEXT NOT NULL,
	from_variant TEXT NOT NULL DEFAULT '',
	to_variant   TEXT NOT NULL DEFAULT '',
	swapped      INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL,
	PRIMARY KEY (presenter_id, seq)
);
`

// SQLiteStore is a Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000", sqliteSchema} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init %s: %w", path, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Save replaces the stored journal of snapshot.PresenterID, which must be
// a UUID.
func (s *SQLiteStore) Save(ctx context.Context, snapshot Snapshot) error {
	if _, err := parsePresenterID(snapshot.PresenterID); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transitions WHERE presenter_id = ?`, snapshot.PresenterID); err != nil {
			return fmt.Errorf("clear transitions: %w", err)
		}
		savedAt := snapshot.SavedAt
		if savedAt.IsZero() {
			savedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (presenter_id, saved_at) VALUES (?, ?)
			 ON CONFLICT(presenter_id) DO UPDATE SET saved_at = excluded.saved_at`,
			snapshot.PresenterID, savedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO transitions
			(presenter_id, seq, action_type, action, from_state, to_state, from_variant, to_variant, swapped, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, t := range snapshot.Transitions {
			swapped := 0
			if t.Swapped {
				swapped = 1
			}
			if _, err := stmt.ExecContext(ctx, snapshot.PresenterID, t.Seq, t.ActionType, t.Action, t.From, t.To,
				t.FromVariant, t.ToVariant, swapped, t.Timestamp.UTC().Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("insert transition %d: %w", t.Seq, err)
			}
		}
		return nil
	})
}

// Load returns the stored journal of presenterID, ordered by sequence.
func (s *SQLiteStore) Load(ctx context.Context, presenterID string) (Snapshot, error) {
	id, err := parsePresenterID(presenterID)
	if err != nil {
		return Snapshot{}, err
	}

	var savedAt string
	err = s.db.QueryRowContext(ctx, `SELECT saved_at FROM snapshots WHERE presenter_id = ?`, presenterID).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: presenter %q", ErrNotFound, presenterID)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	snapshot := Snapshot{PresenterID: presenterID}
	if snapshot.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return Snapshot{}, fmt.Errorf("parse saved_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT seq, action_type, action, from_state, to_state,
		from_variant, to_variant, swapped, created_at
		FROM transitions WHERE presenter_id = ? ORDER BY seq`, presenterID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t       presenterx.Transition
			swapped int
			created string
		)
		if err := rows.Scan(&t.Seq, &t.ActionType, &t.Action, &t.From, &t.To,
			&t.FromVariant, &t.ToVariant, &swapped, &created); err != nil {
			return Snapshot{}, fmt.Errorf("scan transition: %w", err)
		}
		t.PresenterID = id
		t.Swapped = swapped != 0
		if t.Timestamp, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return Snapshot{}, fmt.Errorf("parse created_at: %w", err)
		}
		snapshot.Transitions = append(snapshot.Transitions, t)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("read transitions: %w", err)
	}
	return snapshot, nil
}

// Presenters lists every stored presenter ID, most recently saved first.
func (s *SQLiteStore) Presenters(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT presenter_id FROM snapshots ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func parsePresenterID(presenterID string) (uuid.UUID, error) {
	id, err := uuid.Parse(presenterID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %w", ErrInvalidID, presenterID, err)
	}
	return id, nil
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
