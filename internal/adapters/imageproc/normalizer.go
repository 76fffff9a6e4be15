package imageproc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// Defaults match the size the documents were designed around
const (
	DefaultMaxWidth = 800
	DefaultQuality  = 70
)

// Normalizer shrinks photos to a maximum width and re-encodes them as JPEG
type Normalizer struct {
	maxWidth int
	quality  int
}

// Ensure it implements the interface
var _ ports.ImageNormalizer = (*Normalizer)(nil)

// NewNormalizer creates a normalizer. Non-positive values fall back to the defaults.
func NewNormalizer(maxWidth, quality int) *Normalizer {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Normalizer{maxWidth: maxWidth, quality: quality}
}

// Normalize decodes r (JPEG, PNG, GIF, BMP or TIFF), applies the EXIF orientation,
// scales it down to the maximum width keeping the aspect ratio and returns JPEG bytes.
// Narrower images are re-encoded without upscaling.
func (n *Normalizer) Normalize(ctx context.Context, r io.Reader) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrImageDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, fmt.Errorf("%w: empty image %dx%d", domain.ErrImageDecode, bounds.Dx(), bounds.Dy())
	}

	if bounds.Dx() > n.maxWidth {
		img = imaging.Resize(img, n.maxWidth, 0, imaging.Lanczos)
	}

	// JPEG has no alpha channel: flatten transparent areas onto white
	flat := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(n.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
