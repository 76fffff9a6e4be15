package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// ArtworkService handles artwork records inside projects
type ArtworkService struct {
	store      ports.CatalogStore
	normalizer ports.ImageNormalizer
	logger     *slog.Logger
}

// NewArtworkService creates a new artwork service
func NewArtworkService(store ports.CatalogStore, normalizer ports.ImageNormalizer, logger *slog.Logger) *ArtworkService {
	return &ArtworkService{
		store:      store,
		normalizer: normalizer,
		logger:     orDiscard(logger),
	}
}

// AddArtworkRequest represents a request to add an artwork
type AddArtworkRequest struct {
	Project string // empty means the active project
	Fields  domain.ArtworkFields
	Image   io.Reader
}

// AddArtworkResponse represents the response from adding an artwork
type AddArtworkResponse struct {
	Project string
	Artwork domain.Artwork
}

// Add validates the fields, normalizes the image and appends the record.
// Nothing is stored when any step fails.
func (s *ArtworkService) Add(ctx context.Context, req AddArtworkRequest) (*AddArtworkResponse, error) {
	fields := req.Fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if req.Image == nil {
		return nil, fmt.Errorf("%w: select an image for the new artwork", domain.ErrValidation)
	}

	// Fail early on a missing list, before spending time on the image
	current, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	if _, err := resolveProject(current, req.Project); err != nil {
		return nil, err
	}

	jpeg, err := s.normalizer.Normalize(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	artwork, err := domain.NewArtwork(fields, jpeg)
	if err != nil {
		return nil, err
	}

	var project string
	_, err = s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		target, err := resolveProject(c, req.Project)
		if err != nil {
			return c, err
		}
		project = target
		return c.AddArtwork(target, *artwork)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save artwork: %w", err)
	}

	s.logger.Info("artwork added",
		"project", project,
		"id", artwork.ID,
		"asset", artwork.AssetNumber,
		"image_bytes", len(jpeg))

	return &AddArtworkResponse{Project: project, Artwork: *artwork}, nil
}

// UpdateArtworkRequest represents a request to edit an artwork.
// Empty fields keep their current value; a nil Image keeps the current photo.
type UpdateArtworkRequest struct {
	Project string
	ID      string
	Fields  domain.ArtworkFields
	Image   io.Reader
}

// Update edits a record in place
func (s *ArtworkService) Update(ctx context.Context, req UpdateArtworkRequest) (*AddArtworkResponse, error) {
	var jpeg []byte
	if req.Image != nil {
		var err error
		jpeg, err = s.normalizer.Normalize(ctx, req.Image)
		if err != nil {
			return nil, err
		}
	}

	var (
		project string
		updated domain.Artwork
	)
	_, err := s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		target, err := resolveProject(c, req.Project)
		if err != nil {
			return c, err
		}
		existing, err := c.FindArtwork(target, req.ID)
		if err != nil {
			return c, err
		}

		fields := existing.ArtworkFields.Merge(req.Fields.Normalize())
		if err := fields.Validate(); err != nil {
			return c, err
		}

		updated = existing
		updated.ArtworkFields = fields
		if jpeg != nil {
			updated.ImageData = domain.EncodeImageData(jpeg)
		}
		project = target
		return c.UpdateArtwork(target, updated)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update artwork: %w", err)
	}

	s.logger.Info("artwork updated", "project", project, "id", updated.ID, "new_image", jpeg != nil)
	return &AddArtworkResponse{Project: project, Artwork: updated}, nil
}

// Remove deletes a record by full or short id
func (s *ArtworkService) Remove(ctx context.Context, project, ref string) (*domain.Artwork, error) {
	var removed domain.Artwork
	_, err := s.store.UpdateCatalog(ctx, func(c domain.Catalog) (domain.Catalog, error) {
		target, err := resolveProject(c, project)
		if err != nil {
			return c, err
		}
		removed, err = c.FindArtwork(target, ref)
		if err != nil {
			return c, err
		}
		project = target
		return c.RemoveArtwork(target, removed.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove artwork: %w", err)
	}

	s.logger.Info("artwork removed", "project", project, "id", removed.ID)
	return &removed, nil
}

// Get returns one record by full or short id
func (s *ArtworkService) Get(ctx context.Context, project, ref string) (*domain.Artwork, error) {
	catalog, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	target, err := resolveProject(catalog, project)
	if err != nil {
		return nil, err
	}
	a, err := catalog.FindArtwork(target, ref)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns a project with its artworks. An empty name means the active project.
func (s *ArtworkService) List(ctx context.Context, project string) (*domain.Project, error) {
	catalog, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	target, err := resolveProject(catalog, project)
	if err != nil {
		return nil, err
	}
	p, err := catalog.Project(target)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
