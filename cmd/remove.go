package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var forceRemove bool

var removeCmd = &cobra.Command{
	Use:     "remove [id]",
	Aliases: []string{"rm"},
	Short:   "Remove an artwork from the active project",
	Long: `Remove an artwork by full or short id. Without an id a fuzzy finder opens.

Examples:
  obras remove 4f2a9c1e77d0
  obras rm -f 4f2a9c1e77d0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Skip confirmation")
}

func runRemove(cmd *cobra.Command, args []string) error {
	target, err := selectArtwork(args)
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	if !forceRemove {
		fmt.Println(ui.FormatWarning("You are about to remove:"))
		fmt.Printf("  %s %s\n", ui.StyleBold.Render(target.DisplayName()), ui.StyleMuted.Render("("+target.ShortID()+")"))
		fmt.Println()
		if !confirm("Remove artwork?") {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if _, err := artworkService.Remove(getContext(), targetProject(), target.ID); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Artwork removed."))
	return nil
}
