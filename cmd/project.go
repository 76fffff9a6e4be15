package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var forceProject bool

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects", "p"},
	Short:   "Manage artwork lists (projects)",
	Long: `Manage projects. Each project is a named list of artworks that
exports to one assignment document. Most commands act on the active project.

Examples:
  obras project new "Oficina de Caracas"
  obras project use
  obras project rename "Sede Principal"
  obras project delete "Borrador" --force`,
	RunE: runProjectList,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE:    runProjectList,
}

var projectNewCmd = &cobra.Command{
	Use:     "new <name>",
	Aliases: []string{"create"},
	Short:   "Create a project and make it active",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runProjectNew,
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename [old] <new>",
	Short: "Rename a project (the active one when old is omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runProjectRename,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [name]",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all its artworks",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runProjectDelete,
}

var projectUseCmd = &cobra.Command{
	Use:     "use [name]",
	Aliases: []string{"select", "switch"},
	Short:   "Make a project active (interactive when name is omitted)",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runProjectUse,
}

var projectClearCmd = &cobra.Command{
	Use:   "clear [name]",
	Short: "Remove every artwork from a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProjectClear,
}

func init() {
	projectDeleteCmd.Flags().BoolVarP(&forceProject, "force", "f", false, "Skip confirmation")
	projectClearCmd.Flags().BoolVarP(&forceProject, "force", "f", false, "Skip confirmation")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectRenameCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectUseCmd)
	projectCmd.AddCommand(projectClearCmd)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	resp, err := catalogService.List(getContext())
	if err != nil {
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatInfo("No projects yet. Create one with 'obras project new NAME'"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "", Width: 1},
		{Header: "Project", MaxWidth: 50},
		{Header: "Artworks", Align: "right"},
	})
	for _, p := range resp.Projects {
		marker := ""
		if p.Active {
			marker = ui.StyleActive.Render(ui.IconActive)
		}
		table.AddRow(marker, p.Name, fmt.Sprintf("%d", p.Artworks))
	}

	fmt.Println(ui.FormatTitle("Projects"))
	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(projectSummary(resp.Total, resp.Active))
	return nil
}

// projectSummary is the line under the project table
func projectSummary(total int, active string) string {
	if active == "" {
		return ui.FormatWarning("No active project")
	}
	return ui.FormatMuted(fmt.Sprintf("%d projects · active:", total)) + " " + ui.FormatActive(active)
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	catalog, err := catalogService.Create(getContext(), name)
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Project created: " + ui.FormatBold(catalog.Active)))
	return nil
}

func runProjectRename(cmd *cobra.Command, args []string) error {
	oldName, newName := "", args[0]
	if len(args) == 2 {
		oldName, newName = args[0], args[1]
	}

	if _, err := catalogService.Rename(getContext(), oldName, newName); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Project renamed to " + ui.FormatBold(strings.TrimSpace(newName))))
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	catalog, err := catalogService.Catalog(ctx)
	if err != nil {
		return err
	}
	target, err := resolveName(catalog.Active, name)
	if err != nil {
		return err
	}
	project, err := catalog.Project(target)
	if err != nil {
		return err
	}

	if !forceProject {
		fmt.Println(ui.FormatWarning("You are about to delete:"))
		fmt.Printf("  %s %s\n", ui.StyleBold.Render(project.Name), ui.StyleMuted.Render(fmt.Sprintf("(%d artworks)", len(project.Artworks))))
		fmt.Println()
		if !confirm("Delete project?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	next, err := catalogService.Delete(ctx, project.Name)
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Project deleted."))
	if next.Active == "" {
		fmt.Println(ui.FormatInfo("No projects left. Create one with 'obras project new NAME'"))
	} else if next.Active != catalog.Active {
		fmt.Println(ui.FormatInfo("Active project is now " + ui.FormatBold(next.Active)))
	}
	return nil
}

func runProjectUse(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		catalog, err := catalogService.Catalog(ctx)
		if err != nil {
			return err
		}
		name, err = pickProject(catalog.Names(), catalog.Active)
		if errors.Is(err, errCancelled) {
			fmt.Println(ui.FormatInfo("Operation cancelled."))
			return nil
		}
		if err != nil {
			return err
		}
	}

	catalog, err := catalogService.Select(ctx, name)
	if err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Active project: " + ui.FormatBold(catalog.Active)))
	return nil
}

func runProjectClear(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	catalog, err := catalogService.Catalog(ctx)
	if err != nil {
		return err
	}
	target, err := resolveName(catalog.Active, name)
	if err != nil {
		return err
	}
	project, err := catalog.Project(target)
	if err != nil {
		return err
	}
	if len(project.Artworks) == 0 {
		fmt.Println(ui.FormatInfo("Project is already empty."))
		return nil
	}

	if !forceProject && !confirm(fmt.Sprintf("Remove all %d artworks from %q?", len(project.Artworks), project.Name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	if _, err := catalogService.Clear(ctx, project.Name); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Project cleared."))
	return nil
}
