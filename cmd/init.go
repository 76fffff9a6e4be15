package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/adapters/repository"
	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/logging"
	"github.com/kamal-hamza/obras-cli/pkg/config"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
	"github.com/kamal-hamza/obras-cli/pkg/vault"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the obras vault",
	Long: `Initialize the obras vault directory structure.

This creates the managed vault at ~/.local/share/obras/ with the following structure:
  - obras.db    : Projects, artworks and document settings
  - assets/     : The letterhead image (logo.jpg)
  - inbox/      : Photos dropped here are picked up by 'obras capture'
  - logs/       : obras.log
and writes a default config.yaml to ~/.config/obras/.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	v, err := vault.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine vault location"))
		return err
	}

	if v.Exists() {
		fmt.Println(ui.FormatWarning("Vault already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + v.RootPath))
		return nil
	}

	fmt.Println(ui.FormatInfo("Initializing obras vault..."))
	fmt.Println()

	if err := v.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize vault"))
		return err
	}

	// Create default config unless the user already has one
	cfg := config.DefaultConfig()
	if _, err := os.Stat(v.ConfigPath); os.IsNotExist(err) {
		if err := cfg.Save(v.ConfigPath); err != nil {
			fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
		} else {
			fmt.Println(ui.FormatSuccess("Config created at " + v.ConfigPath))
		}
	}

	// Seed the database with the first-run project
	s, err := repository.OpenSQLiteStore(v.DBPath, logging.NewNop())
	if err != nil {
		fmt.Println(ui.FormatError("Failed to create database"))
		return err
	}
	defer s.Close()
	catalog, err := s.UpdateCatalog(getContext(), func(c domain.Catalog) (domain.Catalog, error) {
		return c, nil
	})
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess("Vault initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", v.RootPath))
	fmt.Println(ui.RenderKeyValue("Active project", catalog.Active))
	fmt.Println()

	letterheadPath := v.GetAssetPath(cfg.Letterhead)
	if _, err := os.Stat(letterheadPath); err != nil {
		fmt.Println(ui.FormatWarning("No letterhead yet. Copy your logo to " + letterheadPath))
		fmt.Println()
	}

	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Add an artwork: obras add --image photo.jpg"))
	fmt.Println(ui.FormatMuted("  2. Review the list: obras list"))
	fmt.Println(ui.FormatMuted("  3. Export the document: obras export"))

	return nil
}
