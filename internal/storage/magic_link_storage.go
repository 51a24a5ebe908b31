package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"NameMyChild/internal/models"
)

func (s *Store) CreateMagicLink(ctx context.Context, link models.MagicLink) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO magic_links(token, request_id, email, code_challenge, expires_at, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		link.Token, link.RequestID, link.Email, link.CodeChallenge,
		link.ExpiresAt.UTC().Format(timeLayout), s.timestamp())
	return err
}

// ConsumeMagicLink marks the link used and returns it. A link can be
// consumed once, and only before it expires.
func (s *Store) ConsumeMagicLink(ctx context.Context, token string) (models.MagicLink, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.MagicLink{}, err
	}
	defer tx.Rollback()

	var (
		link                 models.MagicLink
		expiresAt, createdAt string
		usedAt               sql.NullString
	)
	err = tx.QueryRowContext(ctx,
		"SELECT token, request_id, email, code_challenge, expires_at, used_at, created_at FROM magic_links WHERE token = ?",
		token).Scan(&link.Token, &link.RequestID, &link.Email, &link.CodeChallenge, &expiresAt, &usedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return link, ErrNotFound
		}
		return link, err
	}
	link.ExpiresAt = parseTime(expiresAt)
	link.CreatedAt = parseTime(createdAt)
	link.UsedAt = parseNullTime(usedAt)

	if link.UsedAt != nil {
		return link, ErrLinkUsed
	}
	now := s.now().UTC()
	if !now.Before(link.ExpiresAt) {
		return link, ErrLinkExpired
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE magic_links SET used_at = ? WHERE token = ?",
		now.Format(timeLayout), token); err != nil {
		return link, err
	}
	if err := tx.Commit(); err != nil {
		return link, err
	}
	link.UsedAt = &now
	return link, nil
}

// MagicLinkChallenge returns the code challenge stored for requestID.
func (s *Store) MagicLinkChallenge(ctx context.Context, requestID string) (string, error) {
	var challenge string
	err := s.db.QueryRowContext(ctx,
		"SELECT code_challenge FROM magic_links WHERE request_id = ?", requestID).Scan(&challenge)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return challenge, err
}

// DeleteExpiredMagicLinks removes links that expired before cutoff.
func (s *Store) DeleteExpiredMagicLinks(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM magic_links WHERE expires_at < ?", cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
