package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// CaptureService pairs a freshly captured photo with a bundle of field values.
// The field values are passed in explicitly rather than read from ambient state.
type CaptureService struct {
	source   ports.CaptureSource
	artworks *ArtworkService
	logger   *slog.Logger
}

// NewCaptureService creates a new capture service
func NewCaptureService(source ports.CaptureSource, artworks *ArtworkService, logger *slog.Logger) *CaptureService {
	return &CaptureService{
		source:   source,
		artworks: artworks,
		logger:   orDiscard(logger),
	}
}

// CaptureRequest represents one capture.
// With an empty EditID a new record is added, otherwise the photo of EditID is
// replaced and non-empty Fields are merged into it.
type CaptureRequest struct {
	Project string
	EditID  string
	Fields  domain.ArtworkFields
}

// CaptureResponse represents the outcome of one capture
type CaptureResponse struct {
	Project   string
	Artwork   domain.Artwork
	ImagePath string
	Updated   bool
}

// Execute waits for the next photo and stores it
func (s *CaptureService) Execute(ctx context.Context, req CaptureRequest) (*CaptureResponse, error) {
	// Reject an incomplete record before the user takes the photo
	if req.EditID == "" {
		if err := req.Fields.Normalize().Validate(); err != nil {
			return nil, err
		}
	} else if _, err := s.artworks.Get(ctx, req.Project, req.EditID); err != nil {
		return nil, err
	}

	path, err := s.source.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture cancelled: %w", err)
	}
	s.logger.Debug("photo captured", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open captured photo: %w", err)
	}
	defer f.Close()

	if req.EditID == "" {
		added, err := s.artworks.Add(ctx, AddArtworkRequest{
			Project: req.Project,
			Fields:  req.Fields,
			Image:   f,
		})
		if err != nil {
			return nil, err
		}
		return &CaptureResponse{Project: added.Project, Artwork: added.Artwork, ImagePath: path}, nil
	}

	updated, err := s.artworks.Update(ctx, UpdateArtworkRequest{
		Project: req.Project,
		ID:      req.EditID,
		Fields:  req.Fields,
		Image:   f,
	})
	if err != nil {
		return nil, err
	}
	return &CaptureResponse{Project: updated.Project, Artwork: updated.Artwork, ImagePath: path, Updated: true}, nil
}
