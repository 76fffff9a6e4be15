package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the artworks of the active project",
	Long: `List the artworks of the active project (or --project) in document order.

Examples:
  obras list
  obras ls -p "Oficina de Caracas"`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	project, err := artworkService.List(getContext(), targetProject())
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle(project.Name))
	fmt.Println()

	if len(project.Artworks) == 0 {
		fmt.Println(ui.FormatInfo("No artworks yet. Add one with 'obras add --image PHOTO'"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "#", Align: "right"},
		{Header: "ID"},
		{Header: "Asset", MaxWidth: 14},
		{Header: "Author", MaxWidth: 24},
		{Header: "Title", MaxWidth: 32},
		{Header: "Year"},
		{Header: "Technique", MaxWidth: 20},
	})
	for i, a := range project.Artworks {
		table.AddRow(strconv.Itoa(i+1), a.ShortID(), a.AssetNumber, a.Author, a.Title, a.Year, a.Technique)
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d artworks", len(project.Artworks))))
	return nil
}
