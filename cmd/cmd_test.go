package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/ports"
	"github.com/kamal-hamza/obras-cli/internal/core/ports/mocks"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/pkg/config"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

// TestCommandStructure verifies that all commands are properly registered
func TestCommandStructure(t *testing.T) {
	commands := [][]string{
		{"init"}, {"version"}, {"add"}, {"edit"}, {"remove"}, {"list"}, {"show"},
		{"browse"}, {"capture"}, {"export"}, {"export-all"}, {"stats"}, {"config"}, {"doctor"},
		{"project", "list"}, {"project", "new"}, {"project", "rename"},
		{"project", "delete"}, {"project", "use"}, {"project", "clear"},
		{"settings", "show"}, {"settings", "set"}, {"settings", "edit"}, {"settings", "reset"},
		{"config", "get"}, {"config", "set"}, {"config", "edit"},
	}

	for _, path := range commands {
		name := strings.Join(path, " ")
		t.Run(name, func(t *testing.T) {
			cmd, _, err := rootCmd.Find(path)
			if err != nil {
				t.Fatalf("Command '%s' not found: %v", name, err)
			}
			if cmd.Name() != path[len(path)-1] {
				t.Errorf("Find(%q) resolved to %q", name, cmd.Name())
			}
			if cmd.Use == "" {
				t.Errorf("Command '%s' has no Use field", name)
			}
		})
	}
}

// TestRootCommandExists verifies the root command is properly configured
func TestRootCommandExists(t *testing.T) {
	if rootCmd.Use != "obras" {
		t.Errorf("Expected root command Use to be 'obras', got '%s'", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("Root command Short description is empty")
	}
	if rootCmd.PersistentFlags().Lookup("project") == nil {
		t.Error("Root command should expose --project")
	}
}

// TestCommandsHaveHelp verifies all commands have help text
func TestCommandsHaveHelp(t *testing.T) {
	var walk func(prefix string, cmds []*cobra.Command)
	walk = func(prefix string, cmds []*cobra.Command) {
		for _, cmd := range cmds {
			name := strings.TrimSpace(prefix + " " + cmd.Name())
			t.Run(name, func(t *testing.T) {
				if cmd.Short == "" {
					t.Errorf("Command '%s' has no Short description", name)
				}
			})
			walk(name, cmd.Commands())
		}
	}
	walk("", rootCmd.Commands())
}

func TestExportFlags(t *testing.T) {
	for _, flag := range []string{"intro", "no-intro", "format", "output", "name", "open"} {
		if exportCmd.Flags().Lookup(flag) == nil {
			t.Errorf("export is missing --%s", flag)
		}
	}
	if addCmd.Flags().Lookup("image") == nil {
		t.Error("add is missing --image")
	}
	for _, f := range artworkFieldFlags {
		if addCmd.Flags().Lookup(f.name) == nil || editCmd.Flags().Lookup(f.name) == nil || captureCmd.Flags().Lookup(f.name) == nil {
			t.Errorf("field flag --%s not registered everywhere", f.name)
		}
	}
}

func TestDecideIntro(t *testing.T) {
	defer func(prev *config.Config) { appConfig = prev }(appConfig)

	appConfig = config.DefaultConfig()
	appConfig.AskIntro = false

	tests := []struct {
		name     string
		intro    bool
		noIntro  bool
		expected bool
	}{
		{"intro flag", true, false, true},
		{"no-intro flag", false, true, false},
		{"no flag and no prompt", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decideIntro(tt.intro, tt.noIntro); got != tt.expected {
				t.Errorf("decideIntro(%v, %v) = %v, want %v", tt.intro, tt.noIntro, got, tt.expected)
			}
		})
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		hint string
	}{
		{"no active project", fmt.Errorf("failed: %w", domain.ErrNoActiveProject), "obras project use"},
		{"empty project", fmt.Errorf("%w: %q", domain.ErrEmptyProject, "A"), "obras add"},
		{"letterhead", fmt.Errorf("%w: missing", domain.ErrLetterhead), "letterhead"},
		{"cancelled", errCancelled, "cancelled"},
		{"plain", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError(tt.err); !strings.Contains(got, tt.hint) {
				t.Errorf("describeError() = %q, want it to mention %q", got, tt.hint)
			}
		})
	}
}

func TestResolveName(t *testing.T) {
	if got, err := resolveName("Sede", ""); err != nil || got != "Sede" {
		t.Errorf("expected active project, got %q, %v", got, err)
	}
	if got, err := resolveName("Sede", " Anexo "); err != nil || got != "Anexo" {
		t.Errorf("expected explicit project, got %q, %v", got, err)
	}
	if _, err := resolveName("", ""); !errors.Is(err, domain.ErrNoActiveProject) {
		t.Errorf("expected ErrNoActiveProject, got %v", err)
	}
}

func TestBrowseModel_Delete(t *testing.T) {
	project := &domain.Project{Name: "Sede", Artworks: []domain.Artwork{
		{ID: "id-1", ArtworkFields: domain.ArtworkFields{AssetNumber: "1", Author: "Gego", Title: "Esfera"}},
		{ID: "id-2", ArtworkFields: domain.ArtworkFields{AssetNumber: "2", Author: "Soto", Title: "Penetrable"}},
	}}

	var removed []string
	m := newBrowseModel(project, func(p, id string) error {
		removed = append(removed, p+"/"+id)
		return nil
	})

	key := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	// d asks, anything but y cancels
	next, _ := m.Update(key("d"))
	next, cmd := next.Update(key("n"))
	if cmd != nil || len(removed) != 0 {
		t.Fatal("cancelled delete should not remove anything")
	}

	next, _ = next.Update(key("d"))
	next, cmd = next.Update(key("y"))
	if cmd == nil {
		t.Fatal("confirmed delete should return a command")
	}
	next, _ = next.Update(cmd())

	bm := next.(browseModel)
	if len(removed) != 1 || removed[0] != "Sede/id-1" {
		t.Errorf("unexpected removals %v", removed)
	}
	if len(bm.artworks) != 1 || bm.artworks[0].ID != "id-2" {
		t.Errorf("expected only id-2 left, got %+v", bm.artworks)
	}
	if len(bm.table.Rows()) != 1 {
		t.Errorf("expected table to shrink to 1 row, got %d", len(bm.table.Rows()))
	}
}

func TestRenderStatsChart(t *testing.T) {
	store := mocks.NewMockCatalogStoreWith(domain.NewCatalog([]domain.Project{
		{Name: "Sede", Artworks: []domain.Artwork{
			{ID: "a", ArtworkFields: domain.ArtworkFields{Author: "Gego", Technique: "Metal"}},
		}},
	}, "Sede"))

	resp, err := services.NewStatsService(store).Execute(t.Context())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var buf bytes.Buffer
	if err := renderStatsChart(resp, &buf); err != nil {
		t.Fatalf("renderStatsChart() error = %v", err)
	}
	html := buf.String()
	for _, want := range []string{"<html", "Obras por proyecto", "Gego"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart html missing %q", want)
		}
	}
}

func TestEnsureExportable(t *testing.T) {
	saved := artworkService
	defer func() { artworkService = saved }()
	artworkService = services.NewArtworkService(mocks.NewMockCatalogStore(), mocks.NewMockNormalizer(), nil)

	if err := ensureExportable(t.Context(), ""); !errors.Is(err, domain.ErrEmptyProject) {
		t.Fatalf("expected ErrEmptyProject for the empty default project, got %v", err)
	}

	_, err := artworkService.Add(t.Context(), services.AddArtworkRequest{
		Fields: domain.ArtworkFields{AssetNumber: "BN-7", Author: "Gego", Title: "Reticulárea"},
		Image:  strings.NewReader("photo"),
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := ensureExportable(t.Context(), ""); err != nil {
		t.Errorf("expected a non-empty project to pass, got %v", err)
	}
	if err := ensureExportable(t.Context(), "Sin nombre"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown project, got %v", err)
	}
}

func TestProjectSummary(t *testing.T) {
	ui.SetTheme("none")
	defer ui.SetTheme("auto")

	tests := []struct {
		total    int
		active   string
		expected string
	}{
		{2, "Sala 1", "2 projects · active: " + ui.IconActive + " Sala 1"},
		{1, "", ui.IconWarning + " No active project"},
	}
	for _, tt := range tests {
		if got := projectSummary(tt.total, tt.active); got != tt.expected {
			t.Errorf("projectSummary(%d, %q) = %q, want %q", tt.total, tt.active, got, tt.expected)
		}
	}
}

// TestServiceInitialization verifies services can be wired from mocks
func TestServiceInitialization(t *testing.T) {
	store := mocks.NewMockCatalogStore()
	settings := mocks.NewMockSettingsStore()

	export := services.NewExportService(
		store,
		settings,
		mocks.NewMockLetterhead([]byte("logo")),
		services.NewAssemblerService(domain.ReplaceAll),
		[]ports.Renderer{mocks.NewMockRenderer("docx"), mocks.NewMockRenderer("pdf")},
		nil,
	)
	if got := strings.Join(export.Formats(), ","); got != "docx,pdf" {
		t.Errorf("expected docx,pdf formats, got %s", got)
	}

	artworks := services.NewArtworkService(store, mocks.NewMockNormalizer(), nil)
	if services.NewCaptureService(&mocks.MockCaptureSource{}, artworks, nil) == nil {
		t.Error("CaptureService is nil")
	}
}
