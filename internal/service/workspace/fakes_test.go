package workspace

import (
	"context"
	"fmt"
	"time"

	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
	"lorebook/internal/domain/services"
)

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// fakeWorkspaces is an in-memory WorkspaceRepository
type fakeWorkspaces struct {
	rows map[string]*models.Workspace
}

func newFakeWorkspaces() *fakeWorkspaces {
	return &fakeWorkspaces{rows: make(map[string]*models.Workspace)}
}

func (f *fakeWorkspaces) Create(ctx context.Context, ws *models.Workspace) error {
	for _, existing := range f.rows {
		if existing.LibraryID == ws.LibraryID && existing.Name == ws.Name {
			return fmt.Errorf("workspace '%s': %w", ws.Name, domain.ErrConflict)
		}
	}
	copied := *ws
	f.rows[ws.ID] = &copied
	return nil
}

func (f *fakeWorkspaces) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	ws, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	copied := *ws
	return &copied, nil
}

func (f *fakeWorkspaces) Touch(ctx context.Context, id string) error {
	ws, ok := f.rows[id]
	if !ok {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	ws.LastAccessedAt = time.Now()
	return nil
}

func (f *fakeWorkspaces) SetFavorite(ctx context.Context, id string, favorite bool) error {
	ws, ok := f.rows[id]
	if !ok {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	ws.IsFavorite = favorite
	return nil
}

func (f *fakeWorkspaces) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeWorkspaces) ListStale(ctx context.Context, cutoff time.Time) ([]models.Workspace, error) {
	var stale []models.Workspace
	for _, ws := range f.rows {
		if !ws.IsFavorite && ws.LastAccessedAt.Before(cutoff) {
			stale = append(stale, *ws)
		}
	}
	return stale, nil
}

// fakeLedger implements only what the lifecycle paths use; the ordering
// engine has its own full-fidelity fake in its package.
type fakeLedger struct {
	workspaces     *fakeWorkspaces
	entries        map[string]int      // workspace id -> entry count
	itemWorkspaces map[string][]string // item id -> workspaces referencing it
	itemDeletes    []string            // recorded kind/item cascade calls
}

func newFakeLedger(workspaces *fakeWorkspaces) *fakeLedger {
	return &fakeLedger{
		workspaces:     workspaces,
		entries:        make(map[string]int),
		itemWorkspaces: make(map[string][]string),
	}
}

func (f *fakeLedger) LockWorkspace(ctx context.Context, workspaceID string) error {
	if _, ok := f.workspaces.rows[workspaceID]; !ok {
		return fmt.Errorf("workspace %s: %w", workspaceID, domain.ErrNotFound)
	}
	return nil
}

func (f *fakeLedger) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	n := f.entries[workspaceID]
	delete(f.entries, workspaceID)
	return int64(n), nil
}

func (f *fakeLedger) GetEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (*models.LedgerEntry, error) {
	return nil, nil
}

func (f *fakeLedger) ListEntries(ctx context.Context, workspaceID string) ([]models.LedgerEntry, error) {
	return nil, nil
}

func (f *fakeLedger) InsertEntry(ctx context.Context, entry *models.LedgerEntry) error {
	f.entries[entry.WorkspaceID]++
	return nil
}

func (f *fakeLedger) DeleteEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return false, nil
}

func (f *fakeLedger) DeleteByItem(ctx context.Context, kind models.ItemKind, itemID string) ([]string, error) {
	f.itemDeletes = append(f.itemDeletes, string(kind)+"/"+itemID)
	return f.itemWorkspaces[itemID], nil
}

func (f *fakeLedger) OffsetAll(ctx context.Context, workspaceID string, offset int) error {
	return nil
}

func (f *fakeLedger) SetPosition(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, position int) error {
	return nil
}

func (f *fakeLedger) SetDepth(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, depth int) error {
	return nil
}

func (f *fakeLedger) ToggleAIContext(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return false, nil
}

func (f *fakeLedger) ToggleCollapsed(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return false, nil
}

func (f *fakeLedger) Stats(ctx context.Context, workspaceID string) (*models.PositionStats, error) {
	return &models.PositionStats{}, nil
}

// fakePages is an in-memory PageRepository
type fakePages struct {
	rows map[string]*models.Page
}

func newFakePages() *fakePages {
	return &fakePages{rows: make(map[string]*models.Page)}
}

func (f *fakePages) Create(ctx context.Context, page *models.Page) error {
	copied := *page
	f.rows[page.ID] = &copied
	return nil
}

func (f *fakePages) Delete(ctx context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	delete(f.rows, id)
	return nil
}

func (f *fakePages) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	var deleted int64
	for id, page := range f.rows {
		if page.WorkspaceID != nil && *page.WorkspaceID == workspaceID {
			delete(f.rows, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakePages) Exists(ctx context.Context, itemID string) (bool, error) {
	_, ok := f.rows[itemID]
	return ok, nil
}

func (f *fakePages) IsActive(ctx context.Context, itemID string) (bool, error) {
	page, ok := f.rows[itemID]
	return ok && page.IsActive, nil
}

func (f *fakePages) GetSummary(ctx context.Context, itemID string) (*models.ItemSummary, error) {
	page, ok := f.rows[itemID]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", itemID, domain.ErrNotFound)
	}
	return &models.ItemSummary{Title: page.Title, Active: page.IsActive}, nil
}

// fakeOrdering records AddItem calls; lifecycle tests don't exercise the
// rest of the engine
type fakeOrdering struct {
	ledger     *fakeLedger
	added      []*services.AddItemRequest
	normalized []string
}

func (f *fakeOrdering) AddItem(ctx context.Context, req *services.AddItemRequest) (*models.LedgerEntry, error) {
	f.added = append(f.added, req)
	entry := &models.LedgerEntry{
		WorkspaceID:   req.WorkspaceID,
		Kind:          req.Kind,
		ItemID:        req.ItemID,
		Position:      len(f.added) - 1,
		Depth:         req.Depth,
		IsInAIContext: req.IsInAIContext,
		IsCollapsed:   req.IsCollapsed,
		AddedAt:       time.Now(),
	}
	if f.ledger != nil {
		_ = f.ledger.InsertEntry(ctx, entry)
	}
	return entry, nil
}

func (f *fakeOrdering) RemoveItem(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return false, nil
}

func (f *fakeOrdering) MoveItem(ctx context.Context, req *services.MoveItemRequest) (bool, error) {
	return false, nil
}

func (f *fakeOrdering) ToggleAIContext(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return false, nil
}

func (f *fakeOrdering) ToggleCollapsed(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return false, nil
}

func (f *fakeOrdering) NormalizePositions(ctx context.Context, workspaceID string) (int, error) {
	f.normalized = append(f.normalized, workspaceID)
	return 0, nil
}

func (f *fakeOrdering) ListItems(ctx context.Context, workspaceID string) ([]models.WorkspaceItem, error) {
	return nil, nil
}

func (f *fakeOrdering) GetPositionStats(ctx context.Context, workspaceID string) (*models.PositionStats, error) {
	return &models.PositionStats{}, nil
}
