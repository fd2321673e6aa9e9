package models

import (
	"time"
)

type Workspace struct {
	ID             string    `json:"id" db:"id"`
	LibraryID      string    `json:"library_id" db:"library_id"`
	Name           string    `json:"name" db:"name"` // Unique per library
	IsFavorite     bool      `json:"is_favorite" db:"is_favorite"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at" db:"last_accessed_at"`
}
