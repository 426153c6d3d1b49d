package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mediadup/internal/scan"
)

const sessionColumns = "id, roots_json, status, started_at, finished_at, files_seen, bytes_hashed, error_count, groups_json, file_errors_json, root_errors_json"

// SaveSession archives a finished scan session. The coordinator freezes the
// session before handing it over, so this is insert-only.
func (s *Store) SaveSession(ctx context.Context, session *scan.Session) error {
	if session == nil {
		return errors.New("session is nil")
	}

	rootsJSON, err := json.Marshal(session.Roots)
	if err != nil {
		return fmt.Errorf("marshal roots: %w", err)
	}
	groupsJSON, err := json.Marshal(session.Groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	fileErrorsJSON, err := json.Marshal(session.FileErrors)
	if err != nil {
		return fmt.Errorf("marshal file errors: %w", err)
	}
	rootErrorsJSON, err := json.Marshal(session.RootErrors)
	if err != nil {
		return fmt.Errorf("marshal root errors: %w", err)
	}

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO sessions (`+sessionColumns+`)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID.String(),
		string(rootsJSON),
		string(session.Status),
		session.StartedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(session.FinishedAt),
		session.FilesSeen,
		session.BytesHashed,
		session.ErrorCount,
		string(groupsJSON),
		string(fileErrorsJSON),
		string(rootErrorsJSON),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession fetches a session by identifier. A missing session returns
// (nil, nil).
func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*scan.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id.String())
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// LatestSession returns the most recently started session, or nil when the
// history is empty.
func (s *Store) LatestSession(ctx context.Context) (*scan.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC LIMIT 1`)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return session, nil
}

// ListSessions returns sessions newest first. A limit <= 0 returns the whole
// history.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]*scan.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*scan.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// RemoveSession deletes a session by identifier and reports whether a row was
// removed.
func (s *Store) RemoveSession(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all sessions from the history.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM sessions`)
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	return res.RowsAffected()
}

func scanSession(scanner interface{ Scan(dest ...any) error }) (*scan.Session, error) {
	var (
		idStr       string
		rootsJSON   string
		statusStr   string
		startedRaw  string
		finishedRaw sql.NullString
		filesSeen   int64
		bytesHashed int64
		errorCount  int64
		groupsJSON  sql.NullString
		fileErrJSON sql.NullString
		rootErrJSON sql.NullString
	)

	if err := scanner.Scan(
		&idStr,
		&rootsJSON,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&filesSeen,
		&bytesHashed,
		&errorCount,
		&groupsJSON,
		&fileErrJSON,
		&rootErrJSON,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse session id %q: %w", idStr, err)
	}

	session := &scan.Session{
		ID:          id,
		Status:      scan.Status(statusStr),
		FilesSeen:   filesSeen,
		BytesHashed: bytesHashed,
		ErrorCount:  errorCount,
	}

	if err := json.Unmarshal([]byte(rootsJSON), &session.Roots); err != nil {
		return nil, fmt.Errorf("unmarshal roots: %w", err)
	}
	if groupsJSON.Valid && groupsJSON.String != "" {
		if err := json.Unmarshal([]byte(groupsJSON.String), &session.Groups); err != nil {
			return nil, fmt.Errorf("unmarshal groups: %w", err)
		}
	}
	if fileErrJSON.Valid && fileErrJSON.String != "" {
		if err := json.Unmarshal([]byte(fileErrJSON.String), &session.FileErrors); err != nil {
			return nil, fmt.Errorf("unmarshal file errors: %w", err)
		}
	}
	if rootErrJSON.Valid && rootErrJSON.String != "" {
		if err := json.Unmarshal([]byte(rootErrJSON.String), &session.RootErrors); err != nil {
			return nil, fmt.Errorf("unmarshal root errors: %w", err)
		}
	}

	if started, err := parseTimeString(startedRaw); err == nil {
		session.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			session.FinishedAt = finished
		}
	}
	return session, nil
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
