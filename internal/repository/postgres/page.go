package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
)

// PostgresPageRepository implements the PageRepository interface
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new page
func (r *PostgresPageRepository) Create(ctx context.Context, page *models.Page) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, library_id, workspace_id, title, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Pages)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		page.ID,
		page.LibraryID,
		page.WorkspaceID,
		page.Title,
		page.IsActive,
		page.CreatedAt,
		page.UpdatedAt,
	).Scan(&page.ID, &page.CreatedAt, &page.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("page '%s': %w", page.Title, domain.ErrConflict)
		}
		return fmt.Errorf("create page: %w", err)
	}

	return nil
}

// Exists reports whether the page exists
func (r *PostgresPageRepository) Exists(ctx context.Context, itemID string) (bool, error) {
	return r.existsWhere(ctx, itemID, false)
}

// IsActive reports whether the page exists and is active
func (r *PostgresPageRepository) IsActive(ctx context.Context, itemID string) (bool, error) {
	return r.existsWhere(ctx, itemID, true)
}

func (r *PostgresPageRepository) existsWhere(ctx context.Context, itemID string, activeOnly bool) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1`, r.tables.Pages)
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += `)`

	var exists bool
	exec := GetExecutor(ctx, r.pool)
	if err := exec.QueryRow(ctx, query, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check page existence: %w", err)
	}

	return exists, nil
}

// GetSummary returns the composite-view projection of a page
func (r *PostgresPageRepository) GetSummary(ctx context.Context, itemID string) (*models.ItemSummary, error) {
	query := fmt.Sprintf(`
		SELECT title, is_active FROM %s WHERE id = $1
	`, r.tables.Pages)

	var summary models.ItemSummary
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, itemID).Scan(&summary.Title, &summary.Active)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", itemID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page summary: %w", err)
	}

	return &summary, nil
}

// Delete deletes a page. The polymorphic ledger table cannot carry an
// ON DELETE CASCADE to per-kind tables, so callers remove the weak
// references with LedgerRepository.DeleteByItem in the same transaction.
func (r *PostgresPageRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1
	`, r.tables.Pages)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByWorkspace deletes pages scoped to the given workspace
func (r *PostgresPageRepository) DeleteByWorkspace(ctx context.Context, workspaceID string) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE workspace_id = $1
	`, r.tables.Pages)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("delete workspace pages: %w", err)
	}

	return result.RowsAffected(), nil
}
