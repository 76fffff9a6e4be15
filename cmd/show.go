package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var showImage string

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show every field of an artwork",
	Long: `Show one artwork. Without an id a fuzzy finder opens.

Examples:
  obras show 4f2a9c1e77d0
  obras show 4f2a9c1e77d0 --save-image foto.jpg`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showImage, "save-image", "", "Write the stored JPEG to this file")
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := selectArtwork(args)
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	jpeg, err := domain.DecodeImageData(a.ImageData)
	if err != nil {
		return fmt.Errorf("artwork %s: %w", a.ShortID(), err)
	}

	fmt.Println(ui.FormatTitle(a.Title))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("ID", a.ID))
	fmt.Println(ui.RenderKeyValue("Asset number", a.AssetNumber))
	fmt.Println(ui.RenderKeyValue("Author", a.Author))
	fmt.Println(ui.RenderKeyValue("Year", a.Year))
	fmt.Println(ui.RenderKeyValue("Technique", a.Technique))
	fmt.Println(ui.RenderKeyValue("Dimensions", a.Dimensions))
	fmt.Println(ui.RenderKeyValue("Photo", formatBytes(len(jpeg))+" JPEG"))
	if a.Comments != "" {
		fmt.Println(ui.RenderKeyValue("Comments", ""))
		fmt.Println(a.Comments)
	}

	if showImage != "" {
		if err := os.WriteFile(showImage, jpeg, 0644); err != nil {
			return fmt.Errorf("failed to save image: %w", err)
		}
		fmt.Println()
		fmt.Println(ui.FormatSuccess("Photo saved to " + showImage))
	}
	return nil
}
