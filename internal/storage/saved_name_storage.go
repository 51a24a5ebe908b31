package storage

import (
	"context"

	"NameMyChild/internal/models"
)

// SaveName appends a name to the user's list. Duplicates are kept.
func (s *Store) SaveName(ctx context.Context, userID int64, name string) (models.SavedName, error) {
	createdAt := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO saved_names(user_id, name, created_at) VALUES(?, ?, ?)",
		userID, name, createdAt)
	if err != nil {
		return models.SavedName{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.SavedName{}, err
	}
	return models.SavedName{ID: id, UserID: userID, Name: name, CreatedAt: parseTime(createdAt)}, nil
}

// GetSavedNames returns the user's names in the order they were saved.
func (s *Store) GetSavedNames(ctx context.Context, userID int64) ([]models.SavedName, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name, created_at FROM saved_names WHERE user_id = ? ORDER BY id ASC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]models.SavedName, 0)
	for rows.Next() {
		var (
			n         models.SavedName
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Name, &createdAt); err != nil {
			return nil, err
		}
		n.CreatedAt = parseTime(createdAt)
		names = append(names, n)
	}
	return names, rows.Err()
}
