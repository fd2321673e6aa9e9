package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
)

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create registers a new file reference
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, library_id, name, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		file.ID,
		file.LibraryID,
		file.Name,
		file.CreatedAt,
	).Scan(&file.ID, &file.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("file '%s': %w", file.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// Exists reports whether the file exists
func (r *PostgresFileRepository) Exists(ctx context.Context, itemID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.tables.Files)

	var exists bool
	exec := GetExecutor(ctx, r.pool)
	if err := exec.QueryRow(ctx, query, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check file existence: %w", err)
	}

	return exists, nil
}

// IsActive reports true for every existing file; files carry no active flag
func (r *PostgresFileRepository) IsActive(ctx context.Context, itemID string) (bool, error) {
	return r.Exists(ctx, itemID)
}

// GetSummary returns the composite-view projection of a file
func (r *PostgresFileRepository) GetSummary(ctx context.Context, itemID string) (*models.ItemSummary, error) {
	query := fmt.Sprintf(`
		SELECT name FROM %s WHERE id = $1
	`, r.tables.Files)

	var summary models.ItemSummary
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, itemID).Scan(&summary.Title)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", itemID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file summary: %w", err)
	}

	summary.Active = true
	return &summary, nil
}

// Delete deletes a file reference
func (r *PostgresFileRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1
	`, r.tables.Files)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
