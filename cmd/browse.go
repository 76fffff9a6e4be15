package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the active project interactively",
	Long: `Browse the artworks of the active project in a table.

Controls:
  - ↑/↓   : Navigate
  - Enter : Show / hide details
  - d     : Delete (press y to confirm)
  - q     : Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	project, err := artworkService.List(getContext(), targetProject())
	if err != nil {
		return err
	}

	if len(project.Artworks) == 0 {
		fmt.Println(ui.FormatInfo("No artworks in " + project.Name))
		return nil
	}

	m := newBrowseModel(project, removeArtwork)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		return err
	}
	return nil
}

func removeArtwork(project, id string) error {
	_, err := artworkService.Remove(getContext(), project, id)
	return err
}

// --- TUI Model ---

// removedMsg reports the outcome of a delete started from the table
type removedMsg struct {
	id  string
	err error
}

type browseModel struct {
	table      table.Model
	project    string
	artworks   []domain.Artwork
	remove     func(project, id string) error
	details    bool
	confirming bool
	status     string
}

func newBrowseModel(project *domain.Project, remove func(project, id string) error) browseModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Asset", Width: 12},
		{Title: "Author", Width: 24},
		{Title: "Title", Width: 32},
		{Title: "Year", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(artworkRows(project.Artworks)),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.ColorDefault).
		Background(ui.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	artworks := make([]domain.Artwork, len(project.Artworks))
	copy(artworks, project.Artworks)

	return browseModel{
		table:    t,
		project:  project.Name,
		artworks: artworks,
		remove:   remove,
	}
}

func artworkRows(artworks []domain.Artwork) []table.Row {
	rows := make([]table.Row, 0, len(artworks))
	for i, a := range artworks {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			ui.Truncate(a.AssetNumber, 12),
			ui.Truncate(a.Author, 24),
			ui.Truncate(a.Title, 32),
			a.Year,
		})
	}
	return rows
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case removedMsg:
		if msg.err != nil {
			m.status = ui.FormatError(msg.err.Error())
			return m, nil
		}
		for i := range m.artworks {
			if m.artworks[i].ID == msg.id {
				m.artworks = append(m.artworks[:i], m.artworks[i+1:]...)
				break
			}
		}
		m.table.SetRows(artworkRows(m.artworks))
		if m.table.Cursor() >= len(m.artworks) && len(m.artworks) > 0 {
			m.table.SetCursor(len(m.artworks) - 1)
		}
		m.status = ui.FormatSuccess("Artwork removed.")
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			if msg.String() != "y" {
				m.status = ui.FormatMuted("Cancelled.")
				return m, nil
			}
			target := m.artworks[m.table.Cursor()]
			project, remove := m.project, m.remove
			return m, func() tea.Msg {
				return removedMsg{id: target.ID, err: remove(project, target.ID)}
			}
		}

		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			m.details = !m.details
			return m, nil

		case "d", "x", "delete":
			if len(m.artworks) == 0 {
				return m, nil
			}
			m.confirming = true
			m.status = ui.FormatWarning("Delete " + m.artworks[m.table.Cursor()].DisplayName() + "? (y/n)")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if len(m.artworks) == 0 {
		return "\n  " + ui.FormatInfo("No artworks left in "+m.project) + "\n\n  Press 'q' to quit.\n"
	}

	view := "\n" +
		ui.StyleTitle.Render(" "+m.project+" ") + "\n\n" +
		m.table.View() + "\n"

	if m.details {
		view += "\n" + artworkDetails(&m.artworks[m.table.Cursor()]) + "\n"
	}
	if m.status != "" {
		view += "\n" + m.status + "\n"
	}

	return view + "\n" +
		ui.FormatMuted(" [Enter] Details  [d] Delete  [q] Quit") + "\n"
}
