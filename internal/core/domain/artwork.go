package domain

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// MaxFieldLength bounds a single text field of an artwork record
	MaxFieldLength = 500

	// MaxCommentsLength bounds the free-form comments field
	MaxCommentsLength = 4000

	jpegDataURLPrefix = "data:image/jpeg;base64,"
)

// ArtworkFields is the bundle of user-entered values for an artwork.
// It carries everything except the id and the image.
type ArtworkFields struct {
	AssetNumber string `json:"assetNumber" yaml:"asset_number"`
	Author      string `json:"author" yaml:"author"`
	Title       string `json:"title" yaml:"title"`
	Year        string `json:"year" yaml:"year"`
	Technique   string `json:"technique" yaml:"technique"`
	Dimensions  string `json:"dimensions" yaml:"dimensions"`
	Comments    string `json:"comments" yaml:"comments"`
}

// Artwork is one catalogued item of a project
type Artwork struct {
	ID string `json:"id"`
	ArtworkFields
	ImageData string `json:"imageData"` // data:image/jpeg;base64,...
}

// Normalize returns a copy with surrounding whitespace removed from every field.
// Comments keep their inner line breaks.
func (f ArtworkFields) Normalize() ArtworkFields {
	return ArtworkFields{
		AssetNumber: strings.TrimSpace(f.AssetNumber),
		Author:      strings.TrimSpace(f.Author),
		Title:       strings.TrimSpace(f.Title),
		Year:        strings.TrimSpace(f.Year),
		Technique:   strings.TrimSpace(f.Technique),
		Dimensions:  strings.TrimSpace(f.Dimensions),
		Comments:    strings.TrimSpace(f.Comments),
	}
}

// Validate checks required fields and length limits
func (f ArtworkFields) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"asset number", f.AssetNumber},
		{"author", f.Author},
		{"title", f.Title},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s cannot be empty", ErrValidation, r.name)
		}
	}

	limited := map[string]string{
		"asset number": f.AssetNumber,
		"author":       f.Author,
		"title":        f.Title,
		"year":         f.Year,
		"technique":    f.Technique,
		"dimensions":   f.Dimensions,
	}
	for name, value := range limited {
		if len(value) > MaxFieldLength {
			return fmt.Errorf("%w: %s too long (max %d characters)", ErrValidation, name, MaxFieldLength)
		}
	}
	if len(f.Comments) > MaxCommentsLength {
		return fmt.Errorf("%w: comments too long (max %d characters)", ErrValidation, MaxCommentsLength)
	}

	return nil
}

// Merge overlays the non-empty values of patch onto f
func (f ArtworkFields) Merge(patch ArtworkFields) ArtworkFields {
	pick := func(current, next string) string {
		if next != "" {
			return next
		}
		return current
	}
	return ArtworkFields{
		AssetNumber: pick(f.AssetNumber, patch.AssetNumber),
		Author:      pick(f.Author, patch.Author),
		Title:       pick(f.Title, patch.Title),
		Year:        pick(f.Year, patch.Year),
		Technique:   pick(f.Technique, patch.Technique),
		Dimensions:  pick(f.Dimensions, patch.Dimensions),
		Comments:    pick(f.Comments, patch.Comments),
	}
}

// NewArtwork validates fields and builds a record around an already normalized JPEG
func NewArtwork(fields ArtworkFields, jpeg []byte) (*Artwork, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if len(jpeg) == 0 {
		return nil, fmt.Errorf("%w: an image is required for a new artwork", ErrValidation)
	}

	id, err := NewArtworkID()
	if err != nil {
		return nil, err
	}

	return &Artwork{
		ID:            id,
		ArtworkFields: fields,
		ImageData:     EncodeImageData(jpeg),
	}, nil
}

// NewArtworkID returns a time-ordered unique id (UUID v7 embeds the creation time)
func NewArtworkID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate artwork id: %w", err)
	}
	return id.String(), nil
}

// EncodeImageData wraps JPEG bytes into a data URL
func EncodeImageData(jpeg []byte) string {
	return jpegDataURLPrefix + base64.StdEncoding.EncodeToString(jpeg)
}

// DecodeImageData extracts the raw bytes of a base64 data URL.
// A bare base64 payload without the "data:" header is accepted as well.
func DecodeImageData(dataURL string) ([]byte, error) {
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		comma := strings.IndexByte(dataURL, ',')
		if comma < 0 {
			return nil, fmt.Errorf("%w: missing data URL separator", ErrImageData)
		}
		if !strings.HasSuffix(dataURL[:comma], ";base64") {
			return nil, fmt.Errorf("%w: data URL is not base64 encoded", ErrImageData)
		}
		payload = dataURL[comma+1:]
	}
	if payload == "" {
		return nil, fmt.Errorf("%w: empty image", ErrImageData)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageData, err)
	}
	return data, nil
}

// ShortID returns the trailing block of the id, enough to tell records apart in listings
func (a *Artwork) ShortID() string {
	if i := strings.LastIndexByte(a.ID, '-'); i >= 0 && i+1 < len(a.ID) {
		return a.ID[i+1:]
	}
	return a.ID
}

// MatchesID reports whether ref is the full id or its short form
func (a *Artwork) MatchesID(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	return a.ID == ref || strings.EqualFold(a.ShortID(), ref)
}

// DisplayName is a one-line label used by pickers and listings
func (a *Artwork) DisplayName() string {
	return fmt.Sprintf("%s · %s · %s", a.AssetNumber, a.Author, a.Title)
}
