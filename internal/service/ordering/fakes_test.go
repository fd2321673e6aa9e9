package ordering

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
)

// fakeTxManager runs the function directly. The fakes below enforce the
// same uniqueness rules the database would, so engine bugs surface as
// constraint errors instead of silently corrupt state.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeLedger is an in-memory LedgerRepository that rejects any write whose
// result would violate the per-workspace position uniqueness constraint,
// modeling a non-deferrable unique index.
type fakeLedger struct {
	workspaces map[string]bool
	entries    []*models.LedgerEntry
	clock      int64 // logical added_at clock for deterministic ordering
}

func newFakeLedger(workspaceIDs ...string) *fakeLedger {
	f := &fakeLedger{workspaces: make(map[string]bool)}
	for _, id := range workspaceIDs {
		f.workspaces[id] = true
	}
	return f
}

func (f *fakeLedger) nextAddedAt() time.Time {
	f.clock++
	return time.Unix(0, f.clock)
}

func (f *fakeLedger) checkUnique(workspaceID string) error {
	seen := make(map[int]bool)
	for _, e := range f.entries {
		if e.WorkspaceID != workspaceID {
			continue
		}
		if seen[e.Position] {
			return fmt.Errorf("duplicate position %d in workspace %s: %w", e.Position, workspaceID, domain.ErrConflict)
		}
		seen[e.Position] = true
	}
	return nil
}

func (f *fakeLedger) find(workspaceID string, kind models.ItemKind, itemID string) *models.LedgerEntry {
	for _, e := range f.entries {
		if e.WorkspaceID == workspaceID && e.Kind == kind && e.ItemID == itemID {
			return e
		}
	}
	return nil
}

func (f *fakeLedger) LockWorkspace(ctx context.Context, workspaceID string) error {
	if !f.workspaces[workspaceID] {
		return fmt.Errorf("workspace %s: %w", workspaceID, domain.ErrNotFound)
	}
	return nil
}

func (f *fakeLedger) GetEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (*models.LedgerEntry, error) {
	e := f.find(workspaceID, kind, itemID)
	if e == nil {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeLedger) ListEntries(ctx context.Context, workspaceID string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for _, e := range f.entries {
		if e.WorkspaceID == workspaceID {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Position != entries[j].Position {
			return entries[i].Position < entries[j].Position
		}
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})
	return entries, nil
}

func (f *fakeLedger) InsertEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if !f.workspaces[entry.WorkspaceID] {
		return fmt.Errorf("workspace %s: %w", entry.WorkspaceID, domain.ErrNotFound)
	}
	if f.find(entry.WorkspaceID, entry.Kind, entry.ItemID) != nil {
		return fmt.Errorf("%s %s in workspace %s: %w", entry.Kind, entry.ItemID, entry.WorkspaceID, domain.ErrConflict)
	}
	entry.AddedAt = f.nextAddedAt()
	copied := *entry
	f.entries = append(f.entries, &copied)
	return f.checkUnique(entry.WorkspaceID)
}

func (f *fakeLedger) DeleteEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	for i, e := range f.entries {
		if e.WorkspaceID == workspaceID && e.Kind == kind && e.ItemID == itemID {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedger) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	var kept []*models.LedgerEntry
	var deleted int64
	for _, e := range f.entries {
		if e.WorkspaceID == workspaceID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return deleted, nil
}

func (f *fakeLedger) DeleteByItem(ctx context.Context, kind models.ItemKind, itemID string) ([]string, error) {
	var kept []*models.LedgerEntry
	var affected []string
	for _, e := range f.entries {
		if e.Kind == kind && e.ItemID == itemID {
			affected = append(affected, e.WorkspaceID)
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return affected, nil
}

func (f *fakeLedger) OffsetAll(ctx context.Context, workspaceID string, offset int) error {
	for _, e := range f.entries {
		if e.WorkspaceID == workspaceID {
			e.Position -= offset
		}
	}
	return f.checkUnique(workspaceID)
}

func (f *fakeLedger) SetPosition(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, position int) error {
	e := f.find(workspaceID, kind, itemID)
	if e == nil {
		return fmt.Errorf("%s %s in workspace %s: %w", kind, itemID, workspaceID, domain.ErrNotFound)
	}
	e.Position = position
	return f.checkUnique(workspaceID)
}

func (f *fakeLedger) SetDepth(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, depth int) error {
	e := f.find(workspaceID, kind, itemID)
	if e == nil {
		return fmt.Errorf("%s %s in workspace %s: %w", kind, itemID, workspaceID, domain.ErrNotFound)
	}
	e.Depth = depth
	return nil
}

func (f *fakeLedger) ToggleAIContext(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	e := f.find(workspaceID, kind, itemID)
	if e == nil {
		return false, fmt.Errorf("%s %s in workspace %s: %w", kind, itemID, workspaceID, domain.ErrNotFound)
	}
	e.IsInAIContext = !e.IsInAIContext
	return e.IsInAIContext, nil
}

func (f *fakeLedger) ToggleCollapsed(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	e := f.find(workspaceID, kind, itemID)
	if e == nil {
		return false, fmt.Errorf("%s %s in workspace %s: %w", kind, itemID, workspaceID, domain.ErrNotFound)
	}
	e.IsCollapsed = !e.IsCollapsed
	return e.IsCollapsed, nil
}

func (f *fakeLedger) Stats(ctx context.Context, workspaceID string) (*models.PositionStats, error) {
	stats := &models.PositionStats{}
	unique := make(map[int]bool)
	first := true
	for _, e := range f.entries {
		if e.WorkspaceID != workspaceID {
			continue
		}
		stats.Count++
		unique[e.Position] = true
		if first || e.Position < stats.Min {
			stats.Min = e.Position
		}
		if first || e.Position > stats.Max {
			stats.Max = e.Position
		}
		first = false
	}
	stats.UniqueCount = len(unique)
	stats.HasGaps = stats.Count > 0 && (stats.Min != 0 || stats.Max != stats.Count-1)
	return stats, nil
}

// fakeResolver is an in-memory ItemResolver
type fakeResolver struct {
	items map[string]fakeItem
}

type fakeItem struct {
	title  string
	active bool
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{items: make(map[string]fakeItem)}
}

func (f *fakeResolver) add(id, title string, active bool) {
	f.items[id] = fakeItem{title: title, active: active}
}

func (f *fakeResolver) remove(id string) {
	delete(f.items, id)
}

func (f *fakeResolver) Exists(ctx context.Context, itemID string) (bool, error) {
	_, ok := f.items[itemID]
	return ok, nil
}

func (f *fakeResolver) IsActive(ctx context.Context, itemID string) (bool, error) {
	item, ok := f.items[itemID]
	return ok && item.active, nil
}

func (f *fakeResolver) GetSummary(ctx context.Context, itemID string) (*models.ItemSummary, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	return &models.ItemSummary{Title: item.title, Active: item.active}, nil
}
