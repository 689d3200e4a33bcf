// Package archive persists drawing sessions, a canvas size plus its undo
// history, in SQLite.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/history"
)

//go:embed schema.sql
var schema string

// ErrSessionNotFound is returned for an unknown session name.
var ErrSessionNotFound = errors.New("archive: session not found")

// Session is a named canvas with its history.
type Session struct {
	Name      string
	Width     int
	Height    int
	State     history.State
	UpdatedAt time.Time
}

// Info summarizes a stored session.
type Info struct {
	Name      string
	Width     int
	Height    int
	Snapshots int
	Cursor    int
	UpdatedAt time.Time
}

// Store is a SQLite session archive.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the archive at path, creating it if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save stores sess, replacing any session with the same name.
func (s *Store) Save(ctx context.Context, sess Session) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := strings.TrimSpace(sess.Name)
	if name == "" {
		return fmt.Errorf("session name is required")
	}
	if sess.Width <= 0 || sess.Height <= 0 {
		return fmt.Errorf("session size must be positive, got %dx%d", sess.Width, sess.Height)
	}
	updatedAt := sess.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshots WHERE session = ?`, name); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (name, width, height, cursor, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   width = excluded.width,
		   height = excluded.height,
		   cursor = excluded.cursor,
		   updated_at = excluded.updated_at`,
		name, sess.Width, sess.Height, sess.State.Cursor, toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snapshots (session, seq, id, color, mode, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for i, snap := range sess.State.Snapshots {
		if snap == nil {
			err = fmt.Errorf("snapshot %d is nil", i)
			return err
		}
		_, err = stmt.ExecContext(ctx,
			name, i, snap.ID().String(), formatColor(snap.Color()), snap.Mode().String(),
			snap.Data(), toMillis(snap.CreatedAt()),
		)
		if err != nil {
			return fmt.Errorf("insert snapshot %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	sketch.Logger().Debug("archive: saved", "session", name, "snapshots", len(sess.State.Snapshots))
	return nil
}

// Load returns the session called name.
func (s *Store) Load(ctx context.Context, name string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	name = strings.TrimSpace(name)

	sess := Session{Name: name}
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT width, height, cursor, updated_at FROM sessions WHERE name = ?`, name,
	).Scan(&sess.Width, &sess.Height, &sess.State.Cursor, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, fmt.Errorf("%w: %q", ErrSessionNotFound, name)
		}
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	sess.UpdatedAt = fromMillis(updatedAt)

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, color, mode, data, created_at
		   FROM snapshots
		  WHERE session = ?
		  ORDER BY seq`, name)
	if err != nil {
		return Session{}, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id, col, mode string
			data          []byte
			createdAt     int64
		)
		if err := rows.Scan(&id, &col, &mode, &data, &createdAt); err != nil {
			return Session{}, fmt.Errorf("scan snapshot: %w", err)
		}
		snap, err := decodeSnapshot(id, col, mode, data, createdAt)
		if err != nil {
			return Session{}, fmt.Errorf("snapshot %d: %w", len(sess.State.Snapshots), err)
		}
		sess.State.Snapshots = append(sess.State.Snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("iterate snapshots: %w", err)
	}
	return sess, nil
}

// List returns a summary of every session, newest first.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT s.name, s.width, s.height, s.cursor, s.updated_at,
		        (SELECT COUNT(*) FROM snapshots p WHERE p.session = s.name)
		   FROM sessions s
		  ORDER BY s.updated_at DESC, s.name`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Info
	for rows.Next() {
		var info Info
		var updatedAt int64
		if err := rows.Scan(&info.Name, &info.Width, &info.Height, &info.Cursor, &updatedAt, &info.Snapshots); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.UpdatedAt = fromMillis(updatedAt)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

// Delete removes the session called name and its snapshots.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, name)
	}
	return nil
}

func decodeSnapshot(id, col, mode string, data []byte, createdAt int64) (*history.Snapshot, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	c, err := sketch.ParseHex(col)
	if err != nil {
		return nil, fmt.Errorf("parse color: %w", err)
	}
	m, err := sketch.ParseMode(mode)
	if err != nil {
		return nil, fmt.Errorf("parse mode: %w", err)
	}
	return history.LoadSnapshot(uid, c, m, data, fromMillis(createdAt)), nil
}

// formatColor encodes c as #rrggbbaa.
func formatColor(c sketch.RGBA) string {
	n := c.Color().(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
