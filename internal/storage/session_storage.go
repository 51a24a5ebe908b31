package storage

import (
	"context"
	"database/sql"
	"errors"
)

func (s *Store) CreateSession(ctx context.Context, sessionID string, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO auth_sessions(id, user_id, created_at) VALUES(?, ?, ?)",
		sessionID, userID, s.timestamp())
	return err
}

// IsSessionActive reports false for unknown and revoked sessions.
func (s *Store) IsSessionActive(ctx context.Context, sessionID string) (bool, error) {
	var revokedAt sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT revoked_at FROM auth_sessions WHERE id = ?", sessionID).Scan(&revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return !revokedAt.Valid, nil
}

// RevokeSession is idempotent: revoking twice keeps the first timestamp.
func (s *Store) RevokeSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE auth_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL",
		s.timestamp(), sessionID)
	return err
}
