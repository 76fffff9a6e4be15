package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// unknownLabel groups records with an empty grouping field
const unknownLabel = "(sin dato)"

// StatsService computes catalog statistics
type StatsService struct {
	store ports.CatalogStore
}

// NewStatsService creates a new stats service
func NewStatsService(store ports.CatalogStore) *StatsService {
	return &StatsService{store: store}
}

// Count is a label with its number of occurrences
type Count struct {
	Label string
	Count int
}

// StatsResponse represents catalog statistics
type StatsResponse struct {
	Projects      []Count // in creation order
	Techniques    []Count // most frequent first
	Authors       []Count
	TotalProjects int
	TotalArtworks int
	ImageBytes    int
	Active        string
}

// Execute computes statistics over every project
func (s *StatsService) Execute(ctx context.Context) (*StatsResponse, error) {
	catalog, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	resp := &StatsResponse{
		TotalProjects: len(catalog.Projects),
		TotalArtworks: catalog.TotalArtworks(),
		Active:        catalog.Active,
	}

	techniques := make(map[string]int)
	authors := make(map[string]int)
	for _, p := range catalog.Projects {
		resp.Projects = append(resp.Projects, Count{Label: p.Name, Count: len(p.Artworks)})
		for _, a := range p.Artworks {
			techniques[groupKey(a.Technique)]++
			authors[groupKey(a.Author)]++
			if img, err := domain.DecodeImageData(a.ImageData); err == nil {
				resp.ImageBytes += len(img)
			}
		}
	}

	resp.Techniques = sortedCounts(techniques)
	resp.Authors = sortedCounts(authors)
	return resp, nil
}

func groupKey(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return unknownLabel
	}
	return value
}

func sortedCounts(m map[string]int) []Count {
	counts := make([]Count, 0, len(m))
	for label, n := range m {
		counts = append(counts, Count{Label: label, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	return counts
}
