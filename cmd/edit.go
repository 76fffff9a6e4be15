package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var (
	editFields    domain.ArtworkFields
	editImage     string
	editInEditor  bool
	editPromptAll bool
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit an artwork of the active project",
	Long: `Edit an artwork. Only the given fields change; the photo is kept
unless --image supplies a new one. The id may be the full id or the short id
shown by 'obras list'. Without an id a fuzzy finder opens.

Without field flags the fields are asked for one by one, or opened as YAML
in your editor with --editor.

Examples:
  obras edit 4f2a9c1e77d0 --year 1971
  obras edit --editor
  obras edit 4f2a9c1e77d0 --image nueva.jpg`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	addFieldFlags(editCmd, &editFields)
	editCmd.Flags().StringVarP(&editImage, "image", "i", "", "Replace the photo")
	editCmd.Flags().BoolVarP(&editInEditor, "editor", "e", false, "Edit the fields as YAML in $EDITOR")
	editCmd.Flags().BoolVar(&editPromptAll, "prompt", false, "Ask for every field even when flags are given")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	target, err := selectArtwork(args)
	if errors.Is(err, errCancelled) {
		fmt.Println(ui.FormatInfo("Operation cancelled."))
		return nil
	}
	if err != nil {
		return err
	}

	fields := editFields
	switch {
	case editInEditor:
		fields, err = editFieldsInEditor(target.ArtworkFields)
		if err != nil {
			return err
		}
	case editPromptAll || (!anyFieldFlag(cmd) && editImage == ""):
		fmt.Println(ui.FormatInfo("Editing " + target.DisplayName()))
		fmt.Println(ui.FormatMuted("Press Enter to keep the current value"))
		fmt.Println()
		if err := promptMissingFields(cmd, &fields, target.ArtworkFields); err != nil {
			return err
		}
	}

	var image io.Reader
	if editImage != "" {
		f, err := os.Open(editImage)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()
		image = f
	}

	resp, err := artworkService.Update(ctx, services.UpdateArtworkRequest{
		Project: targetProject(),
		ID:      target.ID,
		Fields:  fields,
		Image:   image,
	})
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess("Artwork updated"))
	fmt.Println(ui.FormatMuted("  " + resp.Artwork.DisplayName()))
	return nil
}

// selectArtwork resolves an id argument or opens the picker
func selectArtwork(args []string) (*domain.Artwork, error) {
	ctx := getContext()

	if len(args) == 1 {
		return artworkService.Get(ctx, targetProject(), args[0])
	}

	project, err := artworkService.List(ctx, targetProject())
	if err != nil {
		return nil, err
	}
	return pickArtwork(project)
}

func editFieldsInEditor(current domain.ArtworkFields) (domain.ArtworkFields, error) {
	data, err := yaml.Marshal(current)
	if err != nil {
		return current, err
	}

	header := []byte("# Edit the artwork fields. Empty values keep the current value.\n")
	edited, err := editText(append(header, data...), "obras-artwork-*.yaml")
	if err != nil {
		return current, err
	}

	var fields domain.ArtworkFields
	if err := yaml.Unmarshal(edited, &fields); err != nil {
		return current, fmt.Errorf("%w: invalid YAML: %v", domain.ErrValidation, err)
	}
	return fields, nil
}
