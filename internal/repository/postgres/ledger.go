package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
)

// PostgresLedgerRepository implements the LedgerRepository interface over a
// single kind-polymorphic table. One table holds page, file, and form
// memberships so a position shift is one statement over one unique index,
// never a multi-table dance.
type PostgresLedgerRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(config *RepositoryConfig) repositories.LedgerRepository {
	return &PostgresLedgerRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// LockWorkspace acquires the exclusive per-workspace lock. The lock is held
// until the surrounding transaction commits or rolls back, serializing all
// structural mutations of one workspace while unrelated workspaces proceed.
func (r *PostgresLedgerRepository) LockWorkspace(ctx context.Context, workspaceID string) error {
	query := fmt.Sprintf(`
		SELECT id FROM %s WHERE id = $1 FOR UPDATE
	`, r.tables.Workspaces)

	var id string
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, workspaceID).Scan(&id)
	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("workspace %s: %w", workspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("lock workspace: %w", err)
	}

	return nil
}

// GetEntry retrieves one entry, or nil if absent
func (r *PostgresLedgerRepository) GetEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (*models.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT workspace_id, kind, item_id, position, depth, is_in_ai_context, is_collapsed, added_at
		FROM %s
		WHERE workspace_id = $1 AND kind = $2 AND item_id = $3
	`, r.tables.WorkspaceItems)

	var entry models.LedgerEntry
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, workspaceID, kind, itemID).Scan(
		&entry.WorkspaceID,
		&entry.Kind,
		&entry.ItemID,
		&entry.Position,
		&entry.Depth,
		&entry.IsInAIContext,
		&entry.IsCollapsed,
		&entry.AddedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}

	return &entry, nil
}

// ListEntries lists all entries ordered by position, tie-broken by added_at
func (r *PostgresLedgerRepository) ListEntries(ctx context.Context, workspaceID string) ([]models.LedgerEntry, error) {
	query := fmt.Sprintf(`
		SELECT workspace_id, kind, item_id, position, depth, is_in_ai_context, is_collapsed, added_at
		FROM %s
		WHERE workspace_id = $1
		ORDER BY position ASC, added_at ASC
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.WorkspaceID,
			&entry.Kind,
			&entry.ItemID,
			&entry.Position,
			&entry.Depth,
			&entry.IsInAIContext,
			&entry.IsCollapsed,
			&entry.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return entries, nil
}

// InsertEntry inserts a new entry
func (r *PostgresLedgerRepository) InsertEntry(ctx context.Context, entry *models.LedgerEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (workspace_id, kind, item_id, position, depth, is_in_ai_context, is_collapsed, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING added_at
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		entry.WorkspaceID,
		entry.Kind,
		entry.ItemID,
		entry.Position,
		entry.Depth,
		entry.IsInAIContext,
		entry.IsCollapsed,
		entry.AddedAt,
	).Scan(&entry.AddedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("%s %s in workspace %s: %w", entry.Kind, entry.ItemID, entry.WorkspaceID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("workspace %s: %w", entry.WorkspaceID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

// DeleteEntry deletes one entry
func (r *PostgresLedgerRepository) DeleteEntry(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE workspace_id = $1 AND kind = $2 AND item_id = $3
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, workspaceID, kind, itemID)
	if err != nil {
		return false, fmt.Errorf("delete ledger entry: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteByWorkspace deletes all entries for a workspace
func (r *PostgresLedgerRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE workspace_id = $1
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("delete ledger entries: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByItem deletes every entry referencing an item across workspaces
// and returns the affected workspace ids. Positions in those workspaces are
// compacted by the caller; the cascade only guarantees the weak references
// disappear with the item.
func (r *PostgresLedgerRepository) DeleteByItem(ctx context.Context, kind models.ItemKind, itemID string) ([]string, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE kind = $1 AND item_id = $2
		RETURNING workspace_id
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, kind, itemID)
	if err != nil {
		return nil, fmt.Errorf("delete ledger entries for item: %w", err)
	}
	defer rows.Close()

	var workspaceIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan deleted ledger entry: %w", err)
		}
		workspaceIDs = append(workspaceIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete ledger entries for item: %w", err)
	}

	return workspaceIDs, nil
}

// OffsetAll shifts every position in the workspace down by offset in a
// single statement. With offset greater than the current maximum position,
// every row lands in a negative range disjoint from the live one, so the
// per-row unique check never observes a collision regardless of the order
// the rows are visited in.
func (r *PostgresLedgerRepository) OffsetAll(ctx context.Context, workspaceID string, offset int) error {
	query := fmt.Sprintf(`
		UPDATE %s SET position = position - $1 WHERE workspace_id = $2
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	if _, err := exec.Exec(ctx, query, offset, workspaceID); err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("offset ledger positions: %w", domain.ErrConflict)
		}
		return fmt.Errorf("offset ledger positions: %w", err)
	}

	return nil
}

// SetPosition writes one entry's position
func (r *PostgresLedgerRepository) SetPosition(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, position int) error {
	query := fmt.Sprintf(`
		UPDATE %s SET position = $1
		WHERE workspace_id = $2 AND kind = $3 AND item_id = $4
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, position, workspaceID, kind, itemID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("position %d in workspace %s: %w", position, workspaceID, domain.ErrConflict)
		}
		return fmt.Errorf("set ledger position: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s in workspace %s: %w", kind, itemID, workspaceID, domain.ErrNotFound)
	}

	return nil
}

// SetDepth writes one entry's depth
func (r *PostgresLedgerRepository) SetDepth(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string, depth int) error {
	query := fmt.Sprintf(`
		UPDATE %s SET depth = $1
		WHERE workspace_id = $2 AND kind = $3 AND item_id = $4
	`, r.tables.WorkspaceItems)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, depth, workspaceID, kind, itemID)
	if err != nil {
		return fmt.Errorf("set ledger depth: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %s in workspace %s: %w", kind, itemID, workspaceID, domain.ErrNotFound)
	}

	return nil
}

// ToggleAIContext flips the AI-context flag and returns the new value
func (r *PostgresLedgerRepository) ToggleAIContext(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return r.toggleFlag(ctx, "is_in_ai_context", workspaceID, kind, itemID)
}

// ToggleCollapsed flips the collapsed flag and returns the new value
func (r *PostgresLedgerRepository) ToggleCollapsed(ctx context.Context, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	return r.toggleFlag(ctx, "is_collapsed", workspaceID, kind, itemID)
}

// toggleFlag flips a boolean column in a single conditional update. Flags
// don't participate in the position invariants, so no workspace lock.
func (r *PostgresLedgerRepository) toggleFlag(ctx context.Context, column, workspaceID string, kind models.ItemKind, itemID string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NOT %s
		WHERE workspace_id = $1 AND kind = $2 AND item_id = $3
		RETURNING %s
	`, r.tables.WorkspaceItems, column, column, column)

	var value bool
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, workspaceID, kind, itemID).Scan(&value)
	if err != nil {
		if isPgNoRowsError(err) {
			return false, fmt.Errorf("%s %s in workspace %s: %w", kind, itemID, workspaceID, domain.ErrNotFound)
		}
		return false, fmt.Errorf("toggle %s: %w", column, err)
	}

	return value, nil
}

// Stats summarizes the workspace's position sequence
func (r *PostgresLedgerRepository) Stats(ctx context.Context, workspaceID string) (*models.PositionStats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*),
		       COALESCE(MIN(position), 0),
		       COALESCE(MAX(position), 0),
		       COUNT(DISTINCT position)
		FROM %s
		WHERE workspace_id = $1
	`, r.tables.WorkspaceItems)

	var stats models.PositionStats
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, workspaceID).Scan(
		&stats.Count,
		&stats.Min,
		&stats.Max,
		&stats.UniqueCount,
	)
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}

	// A canonical ledger spans exactly [0, N-1]
	stats.HasGaps = stats.Count > 0 && (stats.Min != 0 || stats.Max != stats.Count-1)

	return &stats, nil
}
