package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

// errCancelled is returned when the user backs out of a picker or prompt
var errCancelled = errors.New("cancelled")

// stdin is shared so consecutive prompts do not lose buffered input
var stdin = bufio.NewReader(os.Stdin)

// GetPreferredEditor returns the editor command from config, env, or default
func GetPreferredEditor() string {
	// 1. Check Config
	if appConfig != nil && appConfig.Editor != "" {
		return appConfig.Editor
	}
	// 2. Check Environment
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	// 3. Fallback
	return "vi"
}

// runEditor opens path in the preferred editor and waits for it to exit
func runEditor(path string) error {
	c := exec.Command(GetPreferredEditor(), path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c.Run()
}

// editText round-trips content through a temp file in the preferred editor
func editText(content []byte, pattern string) ([]byte, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(content); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	if err := runEditor(path); err != nil {
		return nil, fmt.Errorf("editor failed: %w", err)
	}
	return os.ReadFile(path)
}

// readLine reads one trimmed line from stdin
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// prompt asks for a value; an empty answer keeps current
func prompt(label, current string) (string, error) {
	if current != "" {
		fmt.Print(ui.StyleInfo.Render(label) + ui.FormatMuted(" ["+current+"]") + ": ")
	} else {
		fmt.Print(ui.StyleInfo.Render(label) + ": ")
	}
	value, err := readLine(stdin)
	if err != nil {
		return "", errCancelled
	}
	if value == "" {
		return current, nil
	}
	return value, nil
}

// confirm asks a y/n question; anything but y means no
func confirm(question string) bool {
	fmt.Print(ui.StyleWarning.Render(question + " (y/n): "))
	answer, err := readLine(stdin)
	return err == nil && strings.EqualFold(answer, "y")
}

// askYesNo asks a y/n question with a default for an empty answer
func askYesNo(question string, def bool) bool {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	fmt.Print(ui.StyleInfo.Render(question+" "+hint) + ": ")
	answer, err := readLine(stdin)
	if err != nil || answer == "" {
		return def
	}
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes") || strings.EqualFold(answer, "s") || strings.EqualFold(answer, "si")
}

// pickProject lets the user choose a project name with the fuzzy finder
func pickProject(names []string, active string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no projects yet", domain.ErrNotFound)
	}
	idx, err := fuzzyfinder.Find(
		names,
		func(i int) string {
			if names[i] == active {
				return names[i] + " (active)"
			}
			return names[i]
		},
	)
	if err != nil {
		return "", errCancelled
	}
	return names[idx], nil
}

// pickArtwork lets the user choose an artwork of project with the fuzzy finder
func pickArtwork(project *domain.Project) (*domain.Artwork, error) {
	if len(project.Artworks) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrEmptyProject, project.Name)
	}
	idx, err := fuzzyfinder.Find(
		project.Artworks,
		func(i int) string {
			return project.Artworks[i].DisplayName()
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return artworkDetails(&project.Artworks[i])
		}),
	)
	if err != nil {
		return nil, errCancelled
	}
	return &project.Artworks[idx], nil
}

// artworkDetails renders every field, one per line
func artworkDetails(a *domain.Artwork) string {
	lines := []string{
		"ID:          " + a.ID,
		"Asset No.:   " + a.AssetNumber,
		"Author:      " + a.Author,
		"Title:       " + a.Title,
		"Year:        " + a.Year,
		"Technique:   " + a.Technique,
		"Dimensions:  " + a.Dimensions,
	}
	if a.Comments != "" {
		lines = append(lines, "Comments:", a.Comments)
	}
	return strings.Join(lines, "\n")
}

// copyToClipboard copies text, reporting failures without aborting
func copyToClipboard(text string) {
	if err := clipboard.WriteAll(text); err != nil {
		fmt.Println(ui.FormatMuted("(Clipboard access failed, please copy manually)"))
		return
	}
	fmt.Println(ui.FormatMuted("Path copied to clipboard"))
}

// describeError turns sentinel errors into a message with a next step
func describeError(err error) string {
	msg := err.Error()
	switch {
	case errors.Is(err, errCancelled):
		return "Operation cancelled."
	case errors.Is(err, domain.ErrNoActiveProject):
		return msg + "\n  Pick one with 'obras project use' or create one with 'obras project new NAME'"
	case errors.Is(err, domain.ErrEmptyProject):
		return msg + "\n  Add artworks with 'obras add' or 'obras capture' first"
	case errors.Is(err, domain.ErrLetterhead):
		return msg + "\n  Check the 'letterhead' entry with 'obras config get letterhead'"
	case errors.Is(err, domain.ErrImageDecode):
		return msg + "\n  Supported formats: JPEG, PNG, GIF, BMP, TIFF"
	}
	return msg
}

// targetProject returns the project named by --project, or "" for the active one
func targetProject() string {
	return strings.TrimSpace(projectFlag)
}

// resolveName maps an omitted project name to the active one
func resolveName(active, name string) (string, error) {
	if name = strings.TrimSpace(name); name != "" {
		return name, nil
	}
	if active == "" {
		return "", domain.ErrNoActiveProject
	}
	return active, nil
}

// formatBytes renders a byte count for humans
func formatBytes(n int) string {
	return humanize.Bytes(uint64(n))
}
