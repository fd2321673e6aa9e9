package ordering

import (
	"context"
	"errors"

	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
)

// ListItems returns the workspace's entries in position order, each
// resolved to a kind-tagged summary through the owning repository.
//
// Entries whose referenced item has been deleted are kept and marked
// orphaned rather than pruned: the read path stays side-effect free, and
// eager cleanup belongs to the DeleteByItem cascade on the item's own
// delete path.
func (s *Service) ListItems(ctx context.Context, workspaceID string) ([]models.WorkspaceItem, error) {
	entries, err := s.ledger.ListEntries(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	items := make([]models.WorkspaceItem, 0, len(entries))
	for _, entry := range entries {
		resolver, err := s.resolverFor(entry.Kind)
		if err != nil {
			return nil, err
		}

		item := models.WorkspaceItem{LedgerEntry: entry}
		summary, err := resolver.GetSummary(ctx, entry.ItemID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			item.Orphaned = true
		case err != nil:
			return nil, err
		default:
			item.Title = summary.Title
			item.Active = summary.Active
		}
		items = append(items, item)
	}

	return items, nil
}

// GetPositionStats summarizes the workspace's position sequence. Tests and
// diagnostics use it to assert the canonical 0..N-1 invariant holds.
func (s *Service) GetPositionStats(ctx context.Context, workspaceID string) (*models.PositionStats, error) {
	return s.ledger.Stats(ctx, workspaceID)
}

// NormalizePositions rewrites the workspace's positions into the canonical
// 0..N-1 sequence, ordered by current position and tie-broken by added_at.
// Idempotent: a second run performs zero writes. Exists for standalone
// repair; MoveItem uses the same primitive internally.
func (s *Service) NormalizePositions(ctx context.Context, workspaceID string) (int, error) {
	writes := 0
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.LockWorkspace(txCtx, workspaceID); err != nil {
			return err
		}

		entries, err := s.ledger.ListEntries(txCtx, workspaceID)
		if err != nil {
			return err
		}

		writes, err = s.norm.applyOrder(txCtx, workspaceID, entries, canonicalTargets(len(entries)))
		return err
	})
	if err != nil {
		return 0, err
	}

	if writes > 0 {
		s.logger.Info("workspace positions normalized",
			"workspace_id", workspaceID,
			"rewritten", writes,
		)
	}
	return writes, nil
}
