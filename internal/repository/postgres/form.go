package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
)

// PostgresFormRepository implements the FormRepository interface
type PostgresFormRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFormRepository creates a new form repository
func NewFormRepository(config *RepositoryConfig) repositories.FormRepository {
	return &PostgresFormRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new form
func (r *PostgresFormRepository) Create(ctx context.Context, form *models.Form) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, library_id, name, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.Forms)

	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query,
		form.ID,
		form.LibraryID,
		form.Name,
		form.IsActive,
		form.CreatedAt,
	).Scan(&form.ID, &form.CreatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("form '%s': %w", form.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create form: %w", err)
	}

	return nil
}

// Exists reports whether the form exists
func (r *PostgresFormRepository) Exists(ctx context.Context, itemID string) (bool, error) {
	return r.existsWhere(ctx, itemID, false)
}

// IsActive reports whether the form exists and is active
func (r *PostgresFormRepository) IsActive(ctx context.Context, itemID string) (bool, error) {
	return r.existsWhere(ctx, itemID, true)
}

func (r *PostgresFormRepository) existsWhere(ctx context.Context, itemID string, activeOnly bool) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1`, r.tables.Forms)
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += `)`

	var exists bool
	exec := GetExecutor(ctx, r.pool)
	if err := exec.QueryRow(ctx, query, itemID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check form existence: %w", err)
	}

	return exists, nil
}

// GetSummary returns the composite-view projection of a form
func (r *PostgresFormRepository) GetSummary(ctx context.Context, itemID string) (*models.ItemSummary, error) {
	query := fmt.Sprintf(`
		SELECT name, is_active FROM %s WHERE id = $1
	`, r.tables.Forms)

	var summary models.ItemSummary
	exec := GetExecutor(ctx, r.pool)
	err := exec.QueryRow(ctx, query, itemID).Scan(&summary.Title, &summary.Active)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("form %s: %w", itemID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get form summary: %w", err)
	}

	return &summary, nil
}

// Delete deletes a form
func (r *PostgresFormRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s WHERE id = $1
	`, r.tables.Forms)

	exec := GetExecutor(ctx, r.pool)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("form %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
