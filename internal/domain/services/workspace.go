package services

import (
	"context"

	"lorebook/internal/domain/models"
)

// WorkspaceService handles workspace lifecycle
type WorkspaceService interface {
	// CreateWorkspace creates an empty workspace
	CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*models.Workspace, error)

	// CreateWelcomeWorkspace creates a workspace pre-seeded with the
	// embedded welcome template
	CreateWelcomeWorkspace(ctx context.Context, libraryID string) (*models.Workspace, error)

	// GetWorkspace retrieves a workspace and bumps its last-accessed time
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)

	// SetFavorite sets the favorite flag, which exempts the workspace
	// from retention reaping
	SetFavorite(ctx context.Context, id string, favorite bool) error

	// DeleteWorkspace deletes the workspace, its ledger entries, and any
	// pages that exist only because they were created inside it
	DeleteWorkspace(ctx context.Context, id string) error

	// DeletePage deletes a page together with its ledger references in
	// every workspace, then compacts the affected workspaces
	DeletePage(ctx context.Context, id string) error

	// ReapStale deletes unfavorited workspaces unaccessed beyond the
	// retention window. Returns the number reaped.
	ReapStale(ctx context.Context) (int, error)
}

// CreateWorkspaceRequest represents a workspace creation request
type CreateWorkspaceRequest struct {
	LibraryID string `json:"library_id"`
	Name      string `json:"name"`
	Favorite  bool   `json:"favorite,omitempty"`
}
