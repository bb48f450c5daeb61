// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mdhender/fudi"
)

var ErrSessionNotFound = errors.New("store: session not found")

// Session is one recorded stream of messages.
type Session struct {
	ID         string
	Source     string // file name or "stdin"
	StartedAt  time.Time
	FinishedAt time.Time // zero while the session is open
	Discarded  int64     // atoms the tokenizer dropped while recording
	Messages   int64
}

// CreateSession starts a new session and returns it.
func (s *SQLiteStore) CreateSession(ctx context.Context, source string) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: time.Now().UTC(),
	}
	const query = `
		INSERT INTO sessions (id, source, started_at)
		VALUES (?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.Source,
		session.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return session, nil
}

// AppendMessages adds messages to the end of a session.
// The messages are written in one transaction.
func (s *SQLiteStore) AppendMessages(ctx context.Context, sessionID string, receivedAt time.Time, list ...fudi.Message) error {
	if len(list) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	const seqQuery = `
		SELECT COALESCE((SELECT MAX(seq) FROM messages WHERE session_id = ?), 0)
		FROM sessions
		WHERE id = ?
	`
	if err := tx.QueryRowContext(ctx, seqQuery, sessionID, sessionID).Scan(&seq); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("append messages %s: %w", sessionID, ErrSessionNotFound)
		}
		return fmt.Errorf("next seq: %w", err)
	}

	insertMessage, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (session_id, seq, received_at, selector)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare message: %w", err)
	}
	defer insertMessage.Close()

	insertAtom, err := tx.PrepareContext(ctx, `
		INSERT INTO atoms (session_id, seq, pos, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare atom: %w", err)
	}
	defer insertAtom.Close()

	at := receivedAt.UTC().Format(time.RFC3339Nano)
	for _, m := range list {
		seq++
		if _, err := insertMessage.ExecContext(ctx, sessionID, seq, at, nullString(string(m.Selector()))); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
		for pos, atom := range m {
			if _, err := insertAtom.ExecContext(ctx, sessionID, seq, pos, string(atom)); err != nil {
				return fmt.Errorf("insert atom: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FinishSession closes a session and records how many atoms were discarded.
func (s *SQLiteStore) FinishSession(ctx context.Context, id string, discarded int64) error {
	const query = `
		UPDATE sessions
		SET finished_at = ?,
		    discarded = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		time.Now().UTC().Format(time.RFC3339Nano),
		discarded,
		id,
	)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("finish session: %w", err)
	} else if n == 0 {
		return fmt.Errorf("finish session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

const sessionColumns = `
	s.id, s.source, s.started_at, s.finished_at, s.discarded,
	(SELECT COUNT(*) FROM messages m WHERE m.session_id = s.id)
`

// GetSession returns a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions s WHERE s.id = ?`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get session %s: %w", id, ErrSessionNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListSessions returns every session, oldest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions s ORDER BY s.started_at, s.id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionMessages returns the messages of a session in the order they were added.
func (s *SQLiteStore) SessionMessages(ctx context.Context, id string) ([]fudi.Message, error) {
	if _, err := s.GetSession(ctx, id); err != nil {
		return nil, err
	}

	// the left join keeps messages that have no atoms
	const query = `
		SELECT m.seq, a.value
		FROM messages m
		LEFT JOIN atoms a ON a.session_id = m.session_id AND a.seq = m.seq
		WHERE m.session_id = ?
		ORDER BY m.seq, a.pos
	`
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var list []fudi.Message
	lastSeq := int64(-1)
	for rows.Next() {
		var seq int64
		var value sql.NullString
		if err := rows.Scan(&seq, &value); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if seq != lastSeq {
			list = append(list, fudi.Message{})
			lastSeq = seq
		}
		if value.Valid {
			list[len(list)-1] = append(list[len(list)-1], fudi.Atom(value.String))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var session Session
	var startedAt string
	var finishedAt sql.NullString
	if err := row.Scan(
		&session.ID,
		&session.Source,
		&startedAt,
		&finishedAt,
		&session.Discarded,
		&session.Messages,
	); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		session.StartedAt = t
	}
	if finishedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, finishedAt.String); err == nil {
			session.FinishedAt = t
		}
	}
	return &session, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
