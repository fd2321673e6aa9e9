package services

import (
	"context"

	"lorebook/internal/domain/models"
)

// OrderingService is the operations layer over a workspace's position
// ledger. Mutations keep the ledger canonical: after every committed call
// the positions in a workspace are exactly 0..N-1 with no duplicates.
type OrderingService interface {
	// AddItem admits an item to the workspace. With no position it
	// appends; with a position it inserts there and shifts the rest up.
	AddItem(ctx context.Context, req *AddItemRequest) (*models.LedgerEntry, error)

	// RemoveItem removes an item and compacts the remaining positions.
	// Reports false if the item had no entry.
	RemoveItem(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error)

	// MoveItem repositions an item (and optionally rewrites its depth).
	// Reports false when the move is a no-op.
	MoveItem(ctx context.Context, req *MoveItemRequest) (bool, error)

	// ToggleAIContext flips the entry's AI-context flag and returns the new value
	ToggleAIContext(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error)

	// ToggleCollapsed flips the entry's collapsed flag and returns the new value
	ToggleCollapsed(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error)

	// NormalizePositions rewrites the workspace's positions into the
	// canonical 0..N-1 sequence. Returns the number of rewritten rows;
	// zero means the ledger was already canonical.
	NormalizePositions(ctx context.Context, workspaceID string) (int, error)

	// ListItems returns the workspace's entries in position order, each
	// resolved to a kind-tagged summary. Entries whose item was deleted
	// are kept and marked orphaned.
	ListItems(ctx context.Context, workspaceID string) ([]models.WorkspaceItem, error)

	// GetPositionStats summarizes the workspace's position sequence for
	// diagnostics.
	GetPositionStats(ctx context.Context, workspaceID string) (*models.PositionStats, error)
}

// AddItemRequest represents an add-to-workspace request
type AddItemRequest struct {
	WorkspaceID   string          `json:"workspace_id"`
	Kind          models.ItemKind `json:"kind"`
	ItemID        string          `json:"item_id"`
	Position      *int            `json:"position,omitempty"` // nil = append
	Depth         int             `json:"depth,omitempty"`
	IsInAIContext bool            `json:"is_in_ai_context,omitempty"`
	IsCollapsed   bool            `json:"is_collapsed,omitempty"`
}

// MoveItemRequest represents a reorder request
type MoveItemRequest struct {
	WorkspaceID string          `json:"workspace_id"`
	Kind        models.ItemKind `json:"kind"`
	ItemID      string          `json:"item_id"`
	NewPosition int             `json:"new_position"` // Clamped into [0, N-1]
	NewDepth    *int            `json:"new_depth,omitempty"`
}
