package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your obras installation",
	Long: `Diagnose issues with your obras setup.

Checks for:
  - Vault directory integrity
  - Configuration file existence
  - Database and stored photos
  - Letterhead availability
  - Editor and clipboard`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := getContext()
	failures := 0
	check := func(name string, fn func() error) {
		if !checkStep(name, fn) {
			failures++
		}
	}

	fmt.Println(ui.FormatTitle("Obras Doctor"))
	fmt.Println()

	// 1. Vault structure
	for _, dir := range []struct{ name, path string }{
		{"Vault Directory", appVault.RootPath},
		{"Assets Directory", appVault.AssetsPath},
		{"Inbox Directory", appVault.InboxPath},
	} {
		check(dir.name, func() error {
			if info, err := os.Stat(dir.path); err != nil || !info.IsDir() {
				return fmt.Errorf("missing at %s (run 'obras init')", dir.path)
			}
			return nil
		})
	}

	// 2. Config
	check("Configuration File", func() error {
		if _, err := os.Stat(appVault.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appVault.ConfigPath)
		}
		return nil
	})

	// 3. Data
	var catalog domain.Catalog
	check("Database", func() error {
		var err error
		catalog, err = catalogService.Catalog(ctx)
		return err
	})

	check("Active Project", func() error {
		if catalog.Active == "" {
			return domain.ErrNoActiveProject
		}
		return nil
	})

	check("Stored Photos", func() error {
		broken := 0
		for _, p := range catalog.Projects {
			for _, a := range p.Artworks {
				if _, err := domain.DecodeImageData(a.ImageData); err != nil {
					fmt.Printf("    %s / %s: %v\n", p.Name, a.DisplayName(), err)
					broken++
				}
			}
		}
		if broken > 0 {
			return fmt.Errorf("%d artworks have unreadable photos (replace them with 'obras edit ID --image')", broken)
		}
		return nil
	})

	// 4. Letterhead
	check("Letterhead ("+letterheadSource.Location()+")", func() error {
		data, err := letterheadSource.Fetch(ctx)
		if err != nil {
			return err
		}
		if kind := http.DetectContentType(data); kind != "image/jpeg" && kind != "image/png" && kind != "image/gif" {
			return fmt.Errorf("not an image (%s)", kind)
		}
		return nil
	})

	// 5. Environment
	check("Editor", func() error {
		if appConfig.Editor == "" && os.Getenv("EDITOR") == "" {
			return fmt.Errorf("not set (using fallback 'vi')")
		}
		return nil
	})

	check("Clipboard", func() error {
		if clipboard.Unsupported {
			return fmt.Errorf("unavailable (export paths will not be copied)")
		}
		return nil
	})

	fmt.Println()
	if failures > 0 {
		fmt.Println(ui.FormatWarning(fmt.Sprintf("%d checks need attention", failures)))
	} else {
		fmt.Println(ui.FormatSuccess("Everything looks good"))
	}
	return nil
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) bool {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render(ui.IconSuccess), name)
		return true
	}
	fmt.Printf("%s %s\n", ui.StyleError.Render(ui.IconError), name)
	fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	return false
}
