package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
)

// PostgresWorkspaceRepository implements the WorkspaceRepository interface
type PostgresWorkspaceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(config *RepositoryConfig) repositories.WorkspaceRepository {
	return &PostgresWorkspaceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new workspace
func (r *PostgresWorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, library_id, name, is_favorite, created_at, last_accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, last_accessed_at
	`, r.tables.Workspaces)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		ws.ID,
		ws.LibraryID,
		ws.Name,
		ws.IsFavorite,
		ws.CreatedAt,
		ws.LastAccessedAt,
	).Scan(&ws.ID, &ws.CreatedAt, &ws.LastAccessedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("workspace '%s': %w", ws.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create workspace: %w", err)
	}

	return nil
}

// GetByID retrieves a workspace by ID
func (r *PostgresWorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, library_id, name, is_favorite, created_at, last_accessed_at
		FROM %s
		WHERE id = $1
	`, r.tables.Workspaces)

	var ws models.Workspace
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, id).Scan(
		&ws.ID,
		&ws.LibraryID,
		&ws.Name,
		&ws.IsFavorite,
		&ws.CreatedAt,
		&ws.LastAccessedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get workspace: %w", err)
	}

	return &ws, nil
}

// Touch updates the last-accessed timestamp
func (r *PostgresWorkspaceRepository) Touch(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET last_accessed_at = NOW() WHERE id = $1
	`, r.tables.Workspaces)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("touch workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SetFavorite sets the favorite flag
func (r *PostgresWorkspaceRepository) SetFavorite(ctx context.Context, id string, favorite bool) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_favorite = $1 WHERE id = $2
	`, r.tables.Workspaces)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, favorite, id)
	if err != nil {
		return fmt.Errorf("set workspace favorite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a workspace row
func (r *PostgresWorkspaceRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1
	`, r.tables.Workspaces)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListStale lists unfavorited workspaces not accessed since cutoff
func (r *PostgresWorkspaceRepository) ListStale(ctx context.Context, cutoff time.Time) ([]models.Workspace, error) {
	query := fmt.Sprintf(`
		SELECT id, library_id, name, is_favorite, created_at, last_accessed_at
		FROM %s
		WHERE is_favorite = FALSE AND last_accessed_at < $1
		ORDER BY last_accessed_at ASC
	`, r.tables.Workspaces)

	exec := GetExecutor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []models.Workspace
	for rows.Next() {
		var ws models.Workspace
		err := rows.Scan(
			&ws.ID,
			&ws.LibraryID,
			&ws.Name,
			&ws.IsFavorite,
			&ws.CreatedAt,
			&ws.LastAccessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}

	return workspaces, nil
}
