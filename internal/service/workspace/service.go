package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lorebook/internal/config"
	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
	"lorebook/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// workspaceService implements the WorkspaceService interface
type workspaceService struct {
	workspaces    repositories.WorkspaceRepository
	ledger        repositories.LedgerRepository
	pages         repositories.PageRepository
	ordering      services.OrderingService
	txManager     repositories.TransactionManager
	retentionDays int
	logger        *slog.Logger
}

// NewService creates a new workspace service
func NewService(
	workspaces repositories.WorkspaceRepository,
	ledger repositories.LedgerRepository,
	pages repositories.PageRepository,
	ordering services.OrderingService,
	txManager repositories.TransactionManager,
	retentionDays int,
	logger *slog.Logger,
) services.WorkspaceService {
	if retentionDays <= 0 {
		retentionDays = config.DefaultWorkspaceRetentionDays
	}
	return &workspaceService{
		workspaces:    workspaces,
		ledger:        ledger,
		pages:         pages,
		ordering:      ordering,
		txManager:     txManager,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// CreateWorkspace creates an empty workspace
func (s *workspaceService) CreateWorkspace(ctx context.Context, req *services.CreateWorkspaceRequest) (*models.Workspace, error) {
	if err := validateCreateWorkspaceRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	ws := &models.Workspace{
		ID:             uuid.New().String(),
		LibraryID:      req.LibraryID,
		Name:           req.Name,
		IsFavorite:     req.Favorite,
		CreatedAt:      now,
		LastAccessedAt: now,
	}

	if err := s.workspaces.Create(ctx, ws); err != nil {
		return nil, err
	}

	s.logger.Info("workspace created",
		"workspace_id", ws.ID,
		"library_id", ws.LibraryID,
		"name", ws.Name,
	)
	return ws, nil
}

// GetWorkspace retrieves a workspace and bumps its last-accessed time
func (s *workspaceService) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.workspaces.Touch(ctx, id); err != nil {
		return nil, err
	}
	ws.LastAccessedAt = time.Now()

	return ws, nil
}

// SetFavorite sets the favorite flag
func (s *workspaceService) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return s.workspaces.SetFavorite(ctx, id, favorite)
}

// DeleteWorkspace deletes the workspace, all its ledger entries, and the
// pages that exist only because they were created inside it. One
// transaction under the workspace lock, so a concurrent add cannot slip an
// entry into a half-deleted workspace.
func (s *workspaceService) DeleteWorkspace(ctx context.Context, id string) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ledger.LockWorkspace(txCtx, id); err != nil {
			return err
		}

		if _, err := s.ledger.DeleteByWorkspace(txCtx, id); err != nil {
			return err
		}
		if _, err := s.pages.DeleteByWorkspace(txCtx, id); err != nil {
			return err
		}
		return s.workspaces.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("workspace deleted", "workspace_id", id)
	return nil
}

// DeletePage deletes a page and every ledger entry referencing it, in one
// transaction. The affected workspaces are compacted afterwards; until then
// their positions may hold gaps, which every read and mutation tolerates.
func (s *workspaceService) DeletePage(ctx context.Context, id string) error {
	var affected []string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		workspaceIDs, err := s.ledger.DeleteByItem(txCtx, models.ItemKindPage, id)
		if err != nil {
			return err
		}
		affected = workspaceIDs
		return s.pages.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	for _, workspaceID := range affected {
		if _, err := s.ordering.NormalizePositions(ctx, workspaceID); err != nil {
			// The gap stays until the workspace's next normalization
			s.logger.Warn("failed to compact workspace after page delete",
				"workspace_id", workspaceID,
				"page_id", id,
				"error", err,
			)
		}
	}

	s.logger.Info("page deleted",
		"page_id", id,
		"workspaces", len(affected),
	)
	return nil
}

// ReapStale deletes unfavorited workspaces unaccessed beyond the retention
// window
func (s *workspaceService) ReapStale(ctx context.Context) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	stale, err := s.workspaces.ListStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	reaped := 0
	for _, ws := range stale {
		if err := s.DeleteWorkspace(ctx, ws.ID); err != nil {
			// A workspace accessed (and re-locked) mid-reap is fine to skip
			s.logger.Warn("failed to reap workspace",
				"workspace_id", ws.ID,
				"error", err,
			)
			continue
		}
		reaped++
	}

	if reaped > 0 {
		s.logger.Info("stale workspaces reaped",
			"reaped", reaped,
			"cutoff", cutoff,
		)
	}
	return reaped, nil
}

func validateCreateWorkspaceRequest(req *services.CreateWorkspaceRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.LibraryID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxWorkspaceNameLength),
		),
	)
}
