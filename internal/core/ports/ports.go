package ports

import (
	"context"
	"io"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
)

// CatalogStore defines the port for persisting projects and the active project name
type CatalogStore interface {
	// LoadCatalog returns the persisted catalog, or the default catalog on first run
	LoadCatalog(ctx context.Context) (domain.Catalog, error)

	// UpdateCatalog loads the catalog, applies fn and persists the result as one
	// exclusive step. Nothing is written when fn returns an error.
	UpdateCatalog(ctx context.Context, fn func(domain.Catalog) (domain.Catalog, error)) (domain.Catalog, error)
}

// SettingsStore defines the port for the document settings record
type SettingsStore interface {
	// LoadSettings returns the defaults merged with any saved override
	LoadSettings(ctx context.Context) (domain.Settings, error)

	// UpdateSettings loads the settings, applies fn and persists the result as one
	// exclusive step. Nothing is written when fn returns an error.
	UpdateSettings(ctx context.Context, fn func(domain.Settings) (domain.Settings, error)) (domain.Settings, error)

	// ResetSettings drops the saved override
	ResetSettings(ctx context.Context) error
}

// ImageNormalizer defines the port for shrinking and re-encoding artwork photos
type ImageNormalizer interface {
	// Normalize decodes r and returns a width-capped JPEG.
	// Undecodable input fails with domain.ErrImageDecode.
	Normalize(ctx context.Context, r io.Reader) ([]byte, error)
}

// LetterheadSource defines the port for loading the letterhead image
type LetterheadSource interface {
	// Fetch returns the letterhead bytes
	Fetch(ctx context.Context) ([]byte, error)

	// Location describes where the letterhead is read from (for messages)
	Location() string
}

// Renderer defines the port for serializing a document model
type Renderer interface {
	// Format is the name used on the command line (docx, pdf)
	Format() string

	// Extension is the output file extension without the dot
	Extension() string

	// Render writes the serialized document to w
	Render(ctx context.Context, doc *domain.Document, w io.Writer) error
}

// CaptureSource defines the port for waiting on newly captured photos
type CaptureSource interface {
	// Next blocks until a new image file is available and returns its path
	Next(ctx context.Context) (string, error)
}
