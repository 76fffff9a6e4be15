package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// CatalogService handles project (list) management
type CatalogService struct {
	store  ports.CatalogStore
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ports.CatalogStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: orDiscard(logger),
	}
}

// ProjectSummary is one row of the project listing
type ProjectSummary struct {
	Name     string
	Artworks int
	Active   bool
}

// ListProjectsResponse represents the response from listing projects
type ListProjectsResponse struct {
	Projects []ProjectSummary
	Active   string
	Total    int
}

// List returns every project in creation order
func (s *CatalogService) List(ctx context.Context) (*ListProjectsResponse, error) {
	catalog, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	summaries := make([]ProjectSummary, 0, len(catalog.Projects))
	for _, p := range catalog.Projects {
		summaries = append(summaries, ProjectSummary{
			Name:     p.Name,
			Artworks: len(p.Artworks),
			Active:   p.Name == catalog.Active,
		})
	}

	return &ListProjectsResponse{
		Projects: summaries,
		Active:   catalog.Active,
		Total:    len(summaries),
	}, nil
}

// Catalog returns the full current state
func (s *CatalogService) Catalog(ctx context.Context) (domain.Catalog, error) {
	return s.store.LoadCatalog(ctx)
}

// Create adds an empty project and makes it active
func (s *CatalogService) Create(ctx context.Context, name string) (domain.Catalog, error) {
	catalog, err := s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		return c.CreateProject(name)
	})
	if err != nil {
		return catalog, fmt.Errorf("failed to create project: %w", err)
	}
	s.logger.Info("project created", "project", catalog.Active)
	return catalog, nil
}

// Rename renames a project. An empty oldName targets the active project.
func (s *CatalogService) Rename(ctx context.Context, oldName, newName string) (domain.Catalog, error) {
	catalog, err := s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		target, err := resolveProject(c, oldName)
		if err != nil {
			return c, err
		}
		oldName = target
		return c.RenameProject(target, newName)
	})
	if err != nil {
		return catalog, fmt.Errorf("failed to rename project: %w", err)
	}
	s.logger.Info("project renamed", "from", oldName, "to", newName)
	return catalog, nil
}

// Delete removes a project. An empty name targets the active project.
func (s *CatalogService) Delete(ctx context.Context, name string) (domain.Catalog, error) {
	catalog, err := s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		target, err := resolveProject(c, name)
		if err != nil {
			return c, err
		}
		name = target
		return c.DeleteProject(target)
	})
	if err != nil {
		return catalog, fmt.Errorf("failed to delete project: %w", err)
	}
	s.logger.Info("project deleted", "project", name, "active", catalog.Active)
	return catalog, nil
}

// Select makes a project active
func (s *CatalogService) Select(ctx context.Context, name string) (domain.Catalog, error) {
	catalog, err := s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		return c.SelectProject(name)
	})
	if err != nil {
		return catalog, fmt.Errorf("failed to select project: %w", err)
	}
	return catalog, nil
}

// Clear empties a project's list. An empty name targets the active project.
func (s *CatalogService) Clear(ctx context.Context, name string) (domain.Catalog, error) {
	catalog, err := s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		target, err := resolveProject(c, name)
		if err != nil {
			return c, err
		}
		name = target
		return c.ClearProject(target)
	})
	if err != nil {
		return catalog, fmt.Errorf("failed to clear project: %w", err)
	}
	s.logger.Info("project cleared", "project", name)
	return catalog, nil
}

// resolveProject maps "" to the active project and checks existence
func resolveProject(c domain.Catalog, name string) (string, error) {
	if name == "" {
		if c.Active == "" {
			return "", domain.ErrNoActiveProject
		}
		return c.Active, nil
	}
	if !c.Has(name) {
		return "", fmt.Errorf("%w: project %q", domain.ErrNotFound, name)
	}
	return name, nil
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
