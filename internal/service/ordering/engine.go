package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lorebook/internal/config"
	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AddItem admits an item to the workspace ledger.
//
// Without a position the entry is appended after the current maximum across
// all kinds. With a position in [0, N] the existing entries at or above it
// are shifted up one slot before the insert; out-of-range positions are
// clamped into [0, N]. Fails with ErrNotFound when the workspace or item is
// missing or inactive, and ErrConflict when the item is already a member.
func (s *Service) AddItem(ctx context.Context, req *services.AddItemRequest) (*models.LedgerEntry, error) {
	if err := validateAddItemRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.Depth < 0 || req.Depth > config.MaxWorkspaceDepth {
		return nil, fmt.Errorf("depth %d outside [0, %d]: %w", req.Depth, config.MaxWorkspaceDepth, domain.ErrRange)
	}

	resolver, err := s.resolverFor(req.Kind)
	if err != nil {
		return nil, err
	}
	usable, err := resolver.IsActive(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("resolve %s %s: %w", req.Kind, req.ItemID, err)
	}
	if !usable {
		return nil, fmt.Errorf("%s %s: %w", req.Kind, req.ItemID, domain.ErrNotFound)
	}

	var created *models.LedgerEntry
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.LockWorkspace(txCtx, req.WorkspaceID); err != nil {
			return err
		}

		existing, err := s.ledger.GetEntry(txCtx, req.WorkspaceID, req.Kind, req.ItemID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%s %s in workspace %s: %w", req.Kind, req.ItemID, req.WorkspaceID, domain.ErrConflict)
		}

		entries, err := s.ledger.ListEntries(txCtx, req.WorkspaceID)
		if err != nil {
			return err
		}

		entry := &models.LedgerEntry{
			WorkspaceID:   req.WorkspaceID,
			Kind:          req.Kind,
			ItemID:        req.ItemID,
			Depth:         req.Depth,
			IsInAIContext: req.IsInAIContext,
			IsCollapsed:   req.IsCollapsed,
			AddedAt:       time.Now(),
		}

		if req.Position == nil || *req.Position >= len(entries) {
			// Append: one past the current maximum across all kinds
			entry.Position = 0
			if len(entries) > 0 {
				entry.Position = maxPosition(entries) + 1
			}
		} else {
			at := *req.Position
			if at < 0 {
				at = 0
			}
			// Open the slot: entries at or above the requested position
			// move up one, relative order on both sides preserved
			targets := make([]int, len(entries))
			for i := range entries {
				if i < at {
					targets[i] = i
				} else {
					targets[i] = i + 1
				}
			}
			if _, err := s.norm.applyOrder(txCtx, req.WorkspaceID, entries, targets); err != nil {
				return err
			}
			entry.Position = at
		}

		if err := s.ledger.InsertEntry(txCtx, entry); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("workspace item added",
		"workspace_id", created.WorkspaceID,
		"kind", created.Kind,
		"item_id", created.ItemID,
		"position", created.Position,
	)
	return created, nil
}

// RemoveItem removes an item from the workspace ledger and compacts the
// remaining positions back to 0..N-1. Reports false when the item had no
// entry; the workspace itself must exist.
func (s *Service) RemoveItem(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("%w: unknown item kind '%s'", domain.ErrValidation, kind)
	}

	removed := false
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.LockWorkspace(txCtx, workspaceID); err != nil {
			return err
		}

		ok, err := s.ledger.DeleteEntry(txCtx, workspaceID, kind, itemID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		removed = true

		// Compact the survivors. Parking them at the sentinel offset
		// first means the suffix decrement can never trip the unique
		// index, whatever order the rows are rewritten in.
		entries, err := s.ledger.ListEntries(txCtx, workspaceID)
		if err != nil {
			return err
		}
		_, err = s.norm.applyOrder(txCtx, workspaceID, entries, canonicalTargets(len(entries)))
		return err
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.logger.Debug("workspace item removed",
			"workspace_id", workspaceID,
			"kind", kind,
			"item_id", itemID,
		)
	}
	return removed, nil
}

// MoveItem repositions an item within the workspace ordering.
//
// The target position is clamped into [0, N-1]; a request matching the
// current position with no depth change reports false and writes nothing.
// The workspace is normalized before the move so corruption left by earlier
// writers cannot skew the shift arithmetic. The move itself parks the
// ledger at the sentinel offset, shifts the span between the old and new
// position by one, and lands the target - all inside the workspace lock.
func (s *Service) MoveItem(ctx context.Context, req *services.MoveItemRequest) (bool, error) {
	if err := validateMoveItemRequest(req); err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if req.NewDepth != nil && (*req.NewDepth < 0 || *req.NewDepth > config.MaxWorkspaceDepth) {
		return false, fmt.Errorf("depth %d outside [0, %d]: %w", *req.NewDepth, config.MaxWorkspaceDepth, domain.ErrRange)
	}

	moved := false
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.LockWorkspace(txCtx, req.WorkspaceID); err != nil {
			return err
		}

		entries, err := s.ledger.ListEntries(txCtx, req.WorkspaceID)
		if err != nil {
			return err
		}

		// Defensive: positions must be exactly canonical before index
		// arithmetic means anything
		if _, err := s.norm.applyOrder(txCtx, req.WorkspaceID, entries, canonicalTargets(len(entries))); err != nil {
			return err
		}

		from := -1
		for i := range entries {
			if entries[i].Kind == req.Kind && entries[i].ItemID == req.ItemID {
				from = i
				break
			}
		}
		if from == -1 {
			return fmt.Errorf("%s %s in workspace %s: %w", req.Kind, req.ItemID, req.WorkspaceID, domain.ErrNotFound)
		}

		to := clamp(req.NewPosition, 0, len(entries)-1)
		depthChanged := req.NewDepth != nil && *req.NewDepth != entries[from].Depth

		if to == from && !depthChanged {
			return nil
		}

		// Depth is independent of the position algorithm
		if depthChanged {
			if err := s.ledger.SetDepth(txCtx, req.WorkspaceID, req.Kind, req.ItemID, *req.NewDepth); err != nil {
				return err
			}
		}

		if to != from {
			reordered := reorder(entries, from, to)
			if _, err := s.norm.applyOrder(txCtx, req.WorkspaceID, reordered, canonicalTargets(len(reordered))); err != nil {
				return err
			}
		}

		moved = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if moved {
		s.logger.Debug("workspace item moved",
			"workspace_id", req.WorkspaceID,
			"kind", req.Kind,
			"item_id", req.ItemID,
			"position", req.NewPosition,
		)
	}
	return moved, nil
}

// maxPosition returns the largest position among entries
func maxPosition(entries []models.LedgerEntry) int {
	max := entries[0].Position
	for _, e := range entries[1:] {
		if e.Position > max {
			max = e.Position
		}
	}
	return max
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// reorder returns entries with the element at from re-inserted at to
func reorder(entries []models.LedgerEntry, from, to int) []models.LedgerEntry {
	result := make([]models.LedgerEntry, 0, len(entries))
	result = append(result, entries[:from]...)
	result = append(result, entries[from+1:]...)
	result = append(result[:to], append([]models.LedgerEntry{entries[from]}, result[to:]...)...)
	return result
}

func validateAddItemRequest(req *services.AddItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.By(validKind)),
		validation.Field(&req.ItemID, validation.Required),
	)
}

func validateMoveItemRequest(req *services.MoveItemRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.WorkspaceID, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.By(validKind)),
		validation.Field(&req.ItemID, validation.Required),
	)
}

func validKind(value interface{}) error {
	kind, ok := value.(models.ItemKind)
	if !ok || !kind.Valid() {
		return errors.New("must be one of page, file, form")
	}
	return nil
}
