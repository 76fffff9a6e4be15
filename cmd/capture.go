package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/adapters/capture"
	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var (
	captureFields   domain.ArtworkFields
	captureEditID   string
	captureDir      string
	captureNoPrompt bool
	captureConsume  bool
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Wait for the next photo in the inbox folder and store it",
	Long: `Wait for a photo to appear in the inbox folder (camera sync, phone
upload or scanner target) and store it as an artwork.

The fields are collected first; the command then waits until a new image
file lands in the folder and stops changing. Press Ctrl+C to stop waiting.

With --edit the photo replaces the image of an existing artwork.

Examples:
  obras capture -n BN-1042 -a "Gego" -t "Reticulárea"
  obras capture --edit 4f2a9c1e77d0
  obras capture --dir /media/camera/DCIM`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	addFieldFlags(captureCmd, &captureFields)
	captureCmd.Flags().StringVar(&captureEditID, "edit", "", "Replace the photo of this artwork instead of adding one")
	captureCmd.Flags().StringVar(&captureDir, "dir", "", "Folder to watch (default: capture_dir or the vault inbox)")
	captureCmd.Flags().BoolVar(&captureNoPrompt, "no-prompt", false, "Do not ask for missing fields")
	captureCmd.Flags().BoolVar(&captureConsume, "consume", false, "Delete the photo file once stored")
}

func runCapture(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	fields := captureFields
	if captureEditID == "" && !captureNoPrompt {
		if err := promptMissingFields(cmd, &fields, domain.ArtworkFields{}); err != nil {
			return err
		}
	}

	dir := captureDir
	if dir == "" {
		dir = appVault.CaptureDir(appConfig.CaptureDir)
	}
	settle := time.Duration(appConfig.CaptureSettleMS) * time.Millisecond

	source, err := capture.NewFolderSource(dir, settle, appLogger.Logger)
	if err != nil {
		return err
	}
	defer source.Close()

	captureService := services.NewCaptureService(source, artworkService, appLogger.Logger)

	fmt.Println(ui.FormatInfo(ui.IconPhoto + " Waiting for a photo in " + source.Dir()))
	fmt.Println(ui.FormatMuted("  Press Ctrl+C to stop"))

	resp, err := captureService.Execute(ctx, services.CaptureRequest{
		Project: targetProject(),
		EditID:  captureEditID,
		Fields:  fields,
	})
	if err != nil && errors.Is(err, context.Canceled) {
		fmt.Println()
		fmt.Println(ui.FormatInfo("Capture stopped."))
		return nil
	}
	if err != nil {
		return err
	}

	if resp.Updated {
		fmt.Println(ui.FormatSuccess("Photo replaced for " + resp.Artwork.DisplayName()))
	} else {
		fmt.Println(ui.FormatSuccess("Artwork added to " + ui.FormatBold(resp.Project)))
		fmt.Println(ui.FormatMuted("  " + resp.Artwork.DisplayName() + "  (" + resp.Artwork.ShortID() + ")"))
	}

	if captureConsume {
		if err := os.Remove(resp.ImagePath); err != nil {
			fmt.Println(ui.FormatWarning("Could not delete " + resp.ImagePath + ": " + err.Error()))
		}
	}
	return nil
}
