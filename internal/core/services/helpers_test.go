package services

import (
	"strings"
	"testing"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
)

// fakeJPEG is enough for the assembler, which never decodes the picture itself
var fakeJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0xFF, 0xD9}

// Helper to build a valid artwork
func createTestArtwork(t *testing.T, asset, author, title string) domain.Artwork {
	t.Helper()

	a, err := domain.NewArtwork(domain.ArtworkFields{
		AssetNumber: asset,
		Author:      author,
		Title:       title,
		Year:        "1970",
		Technique:   "Óleo sobre tela",
		Dimensions:  "100 x 80 cm",
	}, fakeJPEG)
	if err != nil {
		t.Fatalf("failed to create test artwork: %v", err)
	}
	return *a
}

// Helper to build a catalog with one active project holding n artworks
func createTestCatalog(t *testing.T, project string, n int) domain.Catalog {
	t.Helper()

	artworks := make([]domain.Artwork, 0, n)
	for i := 0; i < n; i++ {
		artworks = append(artworks, createTestArtwork(t,
			"BN-"+strings.Repeat("0", 3)+string(rune('1'+i)),
			"Autor "+string(rune('A'+i)),
			"Obra "+string(rune('A'+i)),
		))
	}
	return domain.NewCatalog([]domain.Project{{Name: project, Artworks: artworks}}, project)
}
