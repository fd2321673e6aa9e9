package workspace

import (
	"context"
	"embed"
	"fmt"
	"time"

	"lorebook/internal/domain/models"
	"lorebook/internal/domain/services"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFiles embed.FS

// welcomeTemplate is the shape of the embedded welcome-workspace seed
type welcomeTemplate struct {
	Name  string        `yaml:"name"`
	Pages []welcomePage `yaml:"pages"`
}

type welcomePage struct {
	Title     string `yaml:"title"`
	Depth     int    `yaml:"depth"`
	AIContext bool   `yaml:"ai_context"`
	Collapsed bool   `yaml:"collapsed"`
}

func loadWelcomeTemplate() (*welcomeTemplate, error) {
	data, err := templateFiles.ReadFile("templates/welcome.yaml")
	if err != nil {
		return nil, fmt.Errorf("read welcome template: %w", err)
	}

	var tmpl welcomeTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("unmarshal welcome template: %w", err)
	}

	return &tmpl, nil
}

// CreateWelcomeWorkspace creates a workspace pre-seeded with the embedded
// template. The pages are workspace-scoped, so deleting the workspace
// deletes them too.
func (s *workspaceService) CreateWelcomeWorkspace(ctx context.Context, libraryID string) (*models.Workspace, error) {
	tmpl, err := loadWelcomeTemplate()
	if err != nil {
		return nil, err
	}

	ws, err := s.CreateWorkspace(ctx, &services.CreateWorkspaceRequest{
		LibraryID: libraryID,
		Name:      tmpl.Name,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, pageTmpl := range tmpl.Pages {
		page := &models.Page{
			ID:          uuid.New().String(),
			LibraryID:   libraryID,
			WorkspaceID: &ws.ID,
			Title:       pageTmpl.Title,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.pages.Create(ctx, page); err != nil {
			return nil, fmt.Errorf("seed welcome page '%s': %w", pageTmpl.Title, err)
		}

		// Appending in template order keeps the ledger canonical
		_, err := s.ordering.AddItem(ctx, &services.AddItemRequest{
			WorkspaceID:   ws.ID,
			Kind:          models.ItemKindPage,
			ItemID:        page.ID,
			Depth:         pageTmpl.Depth,
			IsInAIContext: pageTmpl.AIContext,
			IsCollapsed:   pageTmpl.Collapsed,
		})
		if err != nil {
			return nil, fmt.Errorf("place welcome page '%s': %w", pageTmpl.Title, err)
		}
	}

	s.logger.Info("welcome workspace seeded",
		"workspace_id", ws.ID,
		"library_id", libraryID,
		"pages", len(tmpl.Pages),
	)
	return ws, nil
}
