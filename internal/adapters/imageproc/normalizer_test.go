package imageproc

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizer_Normalize(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		expectedWidth  int
		expectedHeight int
	}{
		{"wide image is scaled down", 1600, 800, 800, 400},
		{"portrait image is scaled down", 1000, 2000, 800, 1600},
		{"narrow image keeps its size", 400, 300, 400, 300},
		{"exact width keeps its size", 800, 600, 800, 600},
	}

	n := NewNormalizer(0, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := n.Normalize(context.Background(), bytes.NewReader(encodePNG(t, tt.width, tt.height)))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}

			img, err := jpeg.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("output is not a JPEG: %v", err)
			}
			b := img.Bounds()
			if b.Dx() != tt.expectedWidth || b.Dy() != tt.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, b.Dx(), b.Dy())
			}
		})
	}
}

func TestNormalizer_CustomWidth(t *testing.T) {
	n := NewNormalizer(200, 90)
	out, err := n.Normalize(context.Background(), bytes.NewReader(encodePNG(t, 400, 100)))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 50 {
		t.Errorf("expected 200x50, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNormalizer_Undecodable(t *testing.T) {
	n := NewNormalizer(0, 0)
	_, err := n.Normalize(context.Background(), strings.NewReader("definitely not an image"))
	if !errors.Is(err, domain.ErrImageDecode) {
		t.Errorf("expected ErrImageDecode, got %v", err)
	}
}

func TestNormalizer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNormalizer(0, 0).Normalize(ctx, bytes.NewReader(encodePNG(t, 10, 10)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
