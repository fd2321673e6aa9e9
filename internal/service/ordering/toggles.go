package ordering

import (
	"context"
	"fmt"

	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
)

// ToggleAIContext flips the entry's AI-context flag and returns the new
// value. Flags don't affect positions, so this is a single conditional
// update without the workspace lock.
func (s *Service) ToggleAIContext(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("%w: unknown item kind '%s'", domain.ErrValidation, kind)
	}
	return s.ledger.ToggleAIContext(ctx, workspaceID, kind, itemID)
}

// ToggleCollapsed flips the entry's collapsed flag and returns the new value
func (s *Service) ToggleCollapsed(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("%w: unknown item kind '%s'", domain.ErrValidation, kind)
	}
	return s.ledger.ToggleCollapsed(ctx, workspaceID, kind, itemID)
}
