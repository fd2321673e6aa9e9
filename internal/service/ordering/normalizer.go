package ordering

import (
	"context"
	"fmt"

	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
)

// sentinelOffset is subtracted from every position to park the whole ledger
// in a negative range while canonical positions are reassigned. The unique
// index on (workspace_id, position) is not deferrable, so overlapping
// ranges can never be renumbered in place: some intermediate row order
// would collide. Parking first guarantees every landing position in
// [0, N-1] is free. The constant only needs to exceed any plausible entry
// count; applyOrder still guards against corrupted positions above it.
const sentinelOffset = 1 << 20

// normalizer renumbers a workspace's ledger. It is the single primitive
// behind insert-at shifts, remove compaction, move, and standalone repair,
// which keeps the collision-avoidance logic in exactly one place.
type normalizer struct {
	ledger repositories.LedgerRepository
}

// canonicalTargets returns the canonical 0..n-1 position sequence
func canonicalTargets(n int) []int {
	targets := make([]int, n)
	for i := range targets {
		targets[i] = i
	}
	return targets
}

// applyOrder rewrites positions so entries[i] lands at targets[i], updating
// the in-memory entries to match. Entries must be in the desired final
// order; targets must be strictly increasing and non-negative.
//
// Returns the number of rewritten rows. When every entry already sits at
// its target the call performs zero writes, which makes normalization
// idempotent and lets no-op moves commit without touching the table.
func (n *normalizer) applyOrder(ctx context.Context, workspaceID string, entries []models.LedgerEntry, targets []int) (int, error) {
	if len(entries) != len(targets) {
		return 0, fmt.Errorf("applyOrder: %d entries for %d targets", len(entries), len(targets))
	}

	dirty := false
	for i := range entries {
		if entries[i].Position != targets[i] {
			dirty = true
			break
		}
	}
	if !dirty {
		return 0, nil
	}

	// Park every row out of the live range. Corrupted ledgers can carry
	// positions beyond the constant, so grow the offset past the maximum.
	offset := sentinelOffset
	for i := range entries {
		if entries[i].Position >= offset {
			offset = entries[i].Position + 1
		}
	}
	if err := n.ledger.OffsetAll(ctx, workspaceID, offset); err != nil {
		return 0, err
	}

	// Land each row at its final position. Targets are all non-negative
	// and parked rows are all negative, so no landing can collide.
	for i := range entries {
		if err := n.ledger.SetPosition(ctx, workspaceID, entries[i].Kind, entries[i].ItemID, targets[i]); err != nil {
			return 0, err
		}
		entries[i].Position = targets[i]
	}

	return len(entries), nil
}
