package repositories

import (
	"context"
	"time"

	"lorebook/internal/domain/models"
)

// WorkspaceRepository defines data access operations for workspaces
type WorkspaceRepository interface {
	// Create creates a new workspace. Name is unique per library.
	Create(ctx context.Context, ws *models.Workspace) error

	// GetByID retrieves a workspace by ID
	GetByID(ctx context.Context, id string) (*models.Workspace, error)

	// Touch updates the last-accessed timestamp
	Touch(ctx context.Context, id string) error

	// SetFavorite sets the favorite flag
	SetFavorite(ctx context.Context, id string, favorite bool) error

	// Delete deletes the workspace row. Ledger entries and
	// workspace-scoped pages are removed by the service cascade.
	Delete(ctx context.Context, id string) error

	// ListStale lists unfavorited workspaces not accessed since cutoff
	ListStale(ctx context.Context, cutoff time.Time) ([]models.Workspace, error)
}
