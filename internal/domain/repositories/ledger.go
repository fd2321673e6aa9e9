package repositories

import (
	"context"

	"lorebook/internal/domain/models"
)

// LedgerRepository is the position ledger: one ordered sequence of
// (kind, item-id) entries per workspace, position unique across all kinds.
//
// The store enforces position uniqueness with a non-deferrable unique
// index, so callers reassigning overlapping position ranges must first
// move rows out of the live range (OffsetAll) and then land each row at
// its final position (SetPosition). The ordering engine owns that
// sequencing; the repository only provides the primitives.
//
// All mutating methods participate in an ambient transaction when one is
// present in the context.
type LedgerRepository interface {
	// LockWorkspace acquires the exclusive per-workspace lock
	// (SELECT ... FOR UPDATE on the workspace row). Every structural
	// mutation takes this lock before reading or writing entries.
	// Returns domain.ErrNotFound if the workspace does not exist.
	LockWorkspace(ctx context.Context, workspaceID string) error

	// GetEntry retrieves one entry, or nil if absent
	GetEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (*models.LedgerEntry, error)

	// ListEntries lists all entries for a workspace ordered by
	// position, tie-broken by added_at.
	ListEntries(ctx context.Context, workspaceID string) ([]models.LedgerEntry, error)

	// InsertEntry inserts a new entry. Returns domain.ErrConflict on
	// duplicate (workspace, kind, item) membership or position collision.
	InsertEntry(ctx context.Context, entry *models.LedgerEntry) error

	// DeleteEntry deletes one entry; reports whether a row was removed
	DeleteEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error)

	// DeleteByWorkspace deletes all entries for a workspace
	DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error)

	// DeleteByItem deletes every entry referencing an item, across all
	// workspaces, returning the affected workspace ids so the caller can
	// compact their positions.
	DeleteByItem(ctx context.Context, kind models.ItemKind, itemID string) ([]string, error)

	// OffsetAll shifts every position in the workspace down by offset,
	// moving the whole ledger into a disjoint (negative) range in a
	// single statement.
	OffsetAll(ctx context.Context, workspaceID string, offset int) error

	// SetPosition writes one entry's position
	SetPosition(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, position int) error

	// SetDepth writes one entry's depth
	SetDepth(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, depth int) error

	// ToggleAIContext flips the AI-context flag and returns the new value.
	// Single-row conditional update; no workspace lock required.
	ToggleAIContext(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error)

	// ToggleCollapsed flips the collapsed flag and returns the new value
	ToggleCollapsed(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error)

	// Stats summarizes the workspace's position sequence
	Stats(ctx context.Context, workspaceID string) (*models.PositionStats, error)
}
