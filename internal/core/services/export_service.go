package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
)

// DefaultOutputName is the base file name of a single export
const DefaultOutputName = "ListadoDeObras"

// ExportService turns a project into a finished document on disk
type ExportService struct {
	catalog    ports.CatalogStore
	settings   ports.SettingsStore
	letterhead ports.LetterheadSource
	assembler  *AssemblerService
	renderers  map[string]ports.Renderer
	logger     *slog.Logger
	now        func() time.Time
}

// NewExportService creates a new export service
func NewExportService(
	catalog ports.CatalogStore,
	settings ports.SettingsStore,
	letterhead ports.LetterheadSource,
	assembler *AssemblerService,
	renderers []ports.Renderer,
	logger *slog.Logger,
) *ExportService {
	byFormat := make(map[string]ports.Renderer, len(renderers))
	for _, r := range renderers {
		byFormat[r.Format()] = r
	}
	return &ExportService{
		catalog:    catalog,
		settings:   settings,
		letterhead: letterhead,
		assembler:  assembler,
		renderers:  byFormat,
		logger:     orDiscard(logger),
		now:        time.Now,
	}
}

// WithClock replaces the clock used for the {FECHA} token (for testing)
func (s *ExportService) WithClock(now func() time.Time) *ExportService {
	s.now = now
	return s
}

// Formats lists the available output formats
func (s *ExportService) Formats() []string {
	formats := make([]string, 0, len(s.renderers))
	for f := range s.renderers {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// ExportRequest represents a request to export one project
type ExportRequest struct {
	Project         string // empty means the active project
	Format          string
	IncludePreamble bool
	OutputDir       string
	FileName        string // base name without extension
}

// ExportResponse represents the result of exporting one project
type ExportResponse struct {
	Project  string
	Format   string
	Path     string
	Artworks int
	Bytes    int
}

// Execute exports one project
func (s *ExportService) Execute(ctx context.Context, req ExportRequest) (*ExportResponse, error) {
	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	name, err := resolveProject(catalog, req.Project)
	if err != nil {
		return nil, err
	}
	project, err := catalog.Project(name)
	if err != nil {
		return nil, err
	}
	if len(project.Artworks) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrEmptyProject, project.Name)
	}

	renderer, err := s.renderer(req.Format)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	letterhead, err := s.fetchLetterhead(ctx)
	if err != nil {
		return nil, err
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = DefaultOutputName
	}

	return s.export(ctx, project, settings, letterhead, renderer, req.IncludePreamble, req.OutputDir, fileName)
}

// ExportAllRequest represents a request to export every project
type ExportAllRequest struct {
	Format          string
	IncludePreamble bool
	OutputDir       string
}

// ExportAllResponse represents the result of exporting every project
type ExportAllResponse struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   []string // empty projects
	Results   []ExportResponse
	Errors    map[string]error
}

// ExecuteAll exports each non-empty project to its own file named after the project slug.
// The letterhead is fetched once and shared by every document.
func (s *ExportService) ExecuteAll(ctx context.Context, req ExportAllRequest) (*ExportAllResponse, error) {
	catalog, err := s.catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}

	renderer, err := s.renderer(req.Format)
	if err != nil {
		return nil, err
	}

	resp := &ExportAllResponse{Errors: make(map[string]error)}
	var pending []domain.Project
	for _, p := range catalog.Projects {
		if len(p.Artworks) == 0 {
			resp.Skipped = append(resp.Skipped, p.Name)
			continue
		}
		pending = append(pending, p)
	}
	resp.Total = len(pending)
	if len(pending) == 0 {
		return resp, nil
	}

	settings, err := s.settings.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	letterhead, err := s.fetchLetterhead(ctx)
	if err != nil {
		return nil, err
	}

	used := make(map[string]int)
	for _, p := range pending {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		fileName := domain.GenerateSlug(p.Name)
		// Distinct names can fold to the same slug
		if n := used[fileName]; n > 0 {
			used[fileName] = n + 1
			fileName = fmt.Sprintf("%s-%d", fileName, n+1)
		} else {
			used[fileName] = 1
		}

		result, err := s.export(ctx, p, settings, letterhead, renderer, req.IncludePreamble, req.OutputDir, fileName)
		if err != nil {
			resp.Failed++
			resp.Errors[p.Name] = err
			continue
		}
		resp.Succeeded++
		resp.Results = append(resp.Results, *result)
	}

	return resp, nil
}

func (s *ExportService) renderer(format string) (ports.Renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	r, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q (available: %s)",
			domain.ErrValidation, format, strings.Join(s.Formats(), ", "))
	}
	return r, nil
}

func (s *ExportService) fetchLetterhead(ctx context.Context) ([]byte, error) {
	data, err := s.letterhead.Fetch(ctx)
	if err == nil && len(data) == 0 {
		err = errors.New("empty response")
	}
	if err != nil {
		s.logger.Error("letterhead fetch failed", "location", s.letterhead.Location(), "error", err)
		if errors.Is(err, domain.ErrLetterhead) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLetterhead, s.letterhead.Location(), err)
	}
	return data, nil
}

func (s *ExportService) export(
	ctx context.Context,
	project domain.Project,
	settings domain.Settings,
	letterhead []byte,
	renderer ports.Renderer,
	includePreamble bool,
	outputDir, fileName string,
) (*ExportResponse, error) {
	doc, err := s.assembler.Assemble(AssembleRequest{
		Artworks:        project.Artworks,
		Settings:        settings,
		Letterhead:      letterhead,
		IncludePreamble: includePreamble,
		Now:             s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble %q: %w", project.Name, err)
	}

	var buf bytes.Buffer
	if err := renderer.Render(ctx, doc, &buf); err != nil {
		return nil, fmt.Errorf("failed to render %q: %w", project.Name, err)
	}

	if outputDir == "" {
		outputDir = "."
	}
	path := filepath.Join(outputDir, fileName+"."+renderer.Extension())
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	s.logger.Info("document exported",
		"project", project.Name,
		"format", renderer.Format(),
		"path", path,
		"artworks", len(project.Artworks),
		"bytes", buf.Len())

	return &ExportResponse{
		Project:  project.Name,
		Format:   renderer.Format(),
		Path:     path,
		Artworks: len(project.Artworks),
		Bytes:    buf.Len(),
	}, nil
}

// writeFileAtomic writes through a temp file so a failed export never leaves a partial document
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".obras-export-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
