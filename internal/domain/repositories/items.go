package repositories

import (
	"context"

	"lorebook/internal/domain/models"
)

// ItemResolver answers "does item X exist and is it usable?" for one item
// kind. The ordering engine validates against it before admitting an item
// to a workspace; the composite view uses GetSummary to annotate entries.
type ItemResolver interface {
	// Exists reports whether the item exists at all
	Exists(ctx context.Context, itemID string) (bool, error)

	// IsActive reports whether the item is usable. Kinds without an
	// active flag report true for every existing item.
	IsActive(ctx context.Context, itemID string) (bool, error)

	// GetSummary returns the minimal projection for the composite view.
	// Returns domain.ErrNotFound if the item no longer exists.
	GetSummary(ctx context.Context, itemID string) (*models.ItemSummary, error)
}

// PageRepository defines data access operations for pages
type PageRepository interface {
	ItemResolver

	// Create creates a new page
	Create(ctx context.Context, page *models.Page) error

	// Delete deletes a page and cascades its ledger entries
	Delete(ctx context.Context, id string) error

	// DeleteByWorkspace deletes pages that exist only because they were
	// created inside the given workspace
	DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error)
}

// FileRepository defines data access operations for file references
type FileRepository interface {
	ItemResolver

	// Create registers a new file reference
	Create(ctx context.Context, file *models.File) error

	// Delete deletes a file reference and cascades its ledger entries
	Delete(ctx context.Context, id string) error
}

// FormRepository defines data access operations for forms
type FormRepository interface {
	ItemResolver

	// Create creates a new form
	Create(ctx context.Context, form *models.Form) error

	// Delete deletes a form and cascades its ledger entries
	Delete(ctx context.Context, id string) error
}
