package services

import (
	"context"
	"testing"

	"github.com/kamal-hamza/obras-cli/internal/core/ports/mocks"
)

func TestStatsService_Execute(t *testing.T) {
	catalog := createTestCatalog(t, "Sala", 3)
	catalog, _ = catalog.CreateProject("Vacío")
	extra := createTestArtwork(t, "BN-7", "Autor A", "Otra")
	extra.Technique = ""
	catalog, _ = catalog.AddArtwork("Vacío", extra)

	svc := NewStatsService(mocks.NewMockCatalogStoreWith(catalog))
	stats, err := svc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if stats.TotalProjects != 2 || stats.TotalArtworks != 4 {
		t.Errorf("unexpected totals: %d projects, %d artworks", stats.TotalProjects, stats.TotalArtworks)
	}
	if stats.Projects[0].Label != "Sala" || stats.Projects[0].Count != 3 {
		t.Errorf("projects should keep creation order, got %+v", stats.Projects)
	}
	if stats.Authors[0].Label != "Autor A" || stats.Authors[0].Count != 2 {
		t.Errorf("most frequent author first, got %+v", stats.Authors)
	}
	if stats.Techniques[0].Count != 3 {
		t.Errorf("expected 3 oil paintings first, got %+v", stats.Techniques)
	}

	foundUnknown := false
	for _, c := range stats.Techniques {
		if c.Label == unknownLabel {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Errorf("empty technique should be grouped under %q", unknownLabel)
	}
	if stats.ImageBytes != 4*len(fakeJPEG) {
		t.Errorf("expected %d image bytes, got %d", 4*len(fakeJPEG), stats.ImageBytes)
	}
}
