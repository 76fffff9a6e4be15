package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var (
	addFields   domain.ArtworkFields
	addImage    string
	addNoPrompt bool
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an artwork to the active project",
	Long: `Add an artwork record. The photo is shrunk to the configured maximum
width and stored as JPEG inside the project.

Fields not given as flags are asked for interactively (use --no-prompt in scripts).
Asset number, author and title are required.

Examples:
  obras add --image IMG_0042.jpg
  obras add -i scan.png -n BN-1042 -a "Gego" -t "Reticulárea" -y 1969`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addFieldFlags(addCmd, &addFields)
	addCmd.Flags().StringVarP(&addImage, "image", "i", "", "Photo of the artwork (JPEG, PNG, GIF, BMP, TIFF)")
	addCmd.Flags().BoolVar(&addNoPrompt, "no-prompt", false, "Do not ask for missing fields")
	addCmd.MarkFlagRequired("image")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	f, err := os.Open(addImage)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	fields := addFields
	if !addNoPrompt {
		if err := promptMissingFields(cmd, &fields, domain.ArtworkFields{}); err != nil {
			return err
		}
	}

	resp, err := artworkService.Add(ctx, services.AddArtworkRequest{
		Project: targetProject(),
		Fields:  fields,
		Image:   f,
	})
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess("Artwork added to " + ui.FormatBold(resp.Project)))
	fmt.Println(ui.FormatMuted("  " + resp.Artwork.DisplayName() + "  (" + resp.Artwork.ShortID() + ")"))
	return nil
}
