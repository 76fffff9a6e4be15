package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var (
	exportFormat  string
	exportOutput  string
	exportName    string
	exportIntro   bool
	exportNoIntro bool
	exportOpen    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the active project as an assignment document",
	Long: `Export the active project (or --project) as a document with the
letterhead on every page, one block per artwork and, optionally, the
introduction with the closing text and signatures.

The file is written as ListadoDeObras.<format> (see output_name in the config)
into the current directory or --output. Nothing is written when the project
is empty or the letterhead cannot be loaded.

Formats: docx, pdf

Examples:
  obras export
  obras export --intro --format pdf
  obras export --no-intro -o ~/Documentos`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "F", "", "Output format: docx or pdf (default from config)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output directory (default from config or current directory)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "Output file name without extension (default from config)")
	exportCmd.Flags().BoolVar(&exportIntro, "intro", false, "Include introduction, closing text and signatures")
	exportCmd.Flags().BoolVar(&exportNoIntro, "no-intro", false, "Only the artwork blocks")
	exportCmd.Flags().BoolVar(&exportOpen, "open", false, "Open the document when done")
	exportCmd.MarkFlagsMutuallyExclusive("intro", "no-intro")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	project := targetProject()
	if err := ensureExportable(ctx, project); err != nil {
		return err
	}

	format := exportFormatOrDefault()
	includePreamble := decideIntro(exportIntro, exportNoIntro)

	fmt.Println(ui.FormatInfo(fmt.Sprintf("Exporting %s...", strings.ToUpper(format))))

	resp, err := exportService.Execute(ctx, services.ExportRequest{
		Project:         project,
		Format:          format,
		IncludePreamble: includePreamble,
		OutputDir:       exportDirOrDefault(exportOutput),
		FileName:        exportNameOrDefault(),
	})
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s %s exported (%d artworks)", ui.IconExport, resp.Project, resp.Artworks)))
	fmt.Println(ui.RenderKeyValue("File", resp.Path))
	fmt.Println(ui.RenderKeyValue("Size", formatBytes(resp.Bytes)))

	if appConfig.CopyOutputPath {
		copyToClipboard(resp.Path)
	}
	if exportOpen {
		if err := OpenFile(resp.Path); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
	}
	return nil
}

// ensureExportable fails on an empty project before anything is asked
func ensureExportable(ctx context.Context, project string) error {
	p, err := artworkService.List(ctx, project)
	if err != nil {
		return err
	}
	if len(p.Artworks) == 0 {
		return fmt.Errorf("%w: %q", domain.ErrEmptyProject, p.Name)
	}
	return nil
}

// decideIntro resolves --intro/--no-intro, asking when neither was given
func decideIntro(intro, noIntro bool) bool {
	switch {
	case intro:
		return true
	case noIntro:
		return false
	case appConfig.AskIntro:
		return askYesNo("Include introduction and signatures?", true)
	default:
		return true
	}
}

func exportFormatOrDefault() string {
	if exportFormat != "" {
		return strings.ToLower(exportFormat)
	}
	return appConfig.DefaultFormat
}

func exportNameOrDefault() string {
	if exportName != "" {
		return exportName
	}
	return appConfig.OutputName
}

func exportDirOrDefault(flag string) string {
	if flag != "" {
		return flag
	}
	if appConfig.OutputDir != "" {
		return appConfig.OutputDir
	}
	return "."
}

// OpenFile opens a file with the OS default application.
func OpenFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	// Start() detaches so obras can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}
	return nil
}
