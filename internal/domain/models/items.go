package models

import (
	"time"
)

// Page is a titled note in a library. Pages created inside a workspace
// ("untitled" scratch pages) carry the workspace ID and are deleted when
// the workspace is deleted.
type Page struct {
	ID          string    `json:"id" db:"id"`
	LibraryID   string    `json:"library_id" db:"library_id"`
	WorkspaceID *string   `json:"workspace_id,omitempty" db:"workspace_id"` // NULL = library-scoped
	Title       string    `json:"title" db:"title"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// File is a file-backed document reference. Content extraction is handled
// elsewhere; the ledger only needs existence.
type File struct {
	ID        string    `json:"id" db:"id"`
	LibraryID string    `json:"library_id" db:"library_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Form is an interactive form definition that can be placed in a workspace.
type Form struct {
	ID        string    `json:"id" db:"id"`
	LibraryID string    `json:"library_id" db:"library_id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
