package models

import "time"

// SavedName is the wire shape of a saved name: only the name travels.
type SavedName struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}
