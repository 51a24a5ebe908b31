package storage

import (
	"context"
	"database/sql"
	"errors"

	"NameMyChild/internal/models"

	"modernc.org/sqlite"
)

// SQLITE_CONSTRAINT_UNIQUE
const sqliteConstraintUnique = 2067

func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (models.User, error) {
	createdAt := s.timestamp()
	var hash sql.NullString
	if passwordHash != "" {
		hash = sql.NullString{String: passwordHash, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users(email, password_hash, created_at) VALUES(?, ?, ?)",
		email, hash, createdAt)
	if err != nil {
		var sqliteErr *sqlite.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqliteConstraintUnique {
			return models.User{}, ErrUsernameExists
		}
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	return models.User{ID: id, Email: email, PasswordHash: passwordHash, CreatedAt: parseTime(createdAt)}, nil
}

// EnsureUser returns the user with this email, creating a password-less one
// on first sight (magic-link sign-in).
func (s *Store) EnsureUser(ctx context.Context, email string) (models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}
	user, err = s.CreateUser(ctx, email, "")
	if errors.Is(err, ErrUsernameExists) {
		// 동시에 생성된 경우
		return s.GetUserByEmail(ctx, email)
	}
	return user, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?", email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE id = ?", id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (models.User, error) {
	var (
		user      models.User
		hash      sql.NullString
		createdAt string
	)
	if err := row.Scan(&user.ID, &user.Email, &hash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}
	if hash.Valid {
		user.PasswordHash = hash.String
	}
	user.CreatedAt = parseTime(createdAt)
	return user, nil
}
