package ordering

import (
	"fmt"
	"log/slog"

	"lorebook/internal/domain"
	"lorebook/internal/domain/models"
	"lorebook/internal/domain/repositories"
	"lorebook/internal/domain/services"
)

// Service implements the OrderingService interface: the operations layer
// over the position ledger. Every structural mutation runs inside one
// transaction that first takes the workspace lock, so concurrent callers
// serialize per workspace and never observe a partial shift.
type Service struct {
	ledger    repositories.LedgerRepository
	resolvers map[models.ItemKind]repositories.ItemResolver
	norm      *normalizer
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewService creates a new ordering service. The page/file/form
// repositories act as the item reference resolvers for their kinds; only
// the resolver surface is required here.
func NewService(
	ledger repositories.LedgerRepository,
	pages repositories.ItemResolver,
	files repositories.ItemResolver,
	forms repositories.ItemResolver,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.OrderingService {
	return &Service{
		ledger: ledger,
		resolvers: map[models.ItemKind]repositories.ItemResolver{
			models.ItemKindPage: pages,
			models.ItemKindFile: files,
			models.ItemKindForm: forms,
		},
		norm:      &normalizer{ledger: ledger},
		txManager: txManager,
		logger:    logger,
	}
}

// resolverFor returns the item resolver registered for a kind
func (s *Service) resolverFor(kind models.ItemKind) (repositories.ItemResolver, error) {
	resolver, ok := s.resolvers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown item kind '%s'", domain.ErrValidation, kind)
	}
	return resolver, nil
}
