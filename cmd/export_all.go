package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/internal/core/services"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var (
	exportAllFormat  string
	exportAllOutput  string
	exportAllIntro   bool
	exportAllNoIntro bool
)

var exportAllCmd = &cobra.Command{
	Use:   "export-all",
	Short: "Export every non-empty project to its own file",
	Long: `Export every project that has artworks. Each file is named after the
project (accents folded, lowercase, dashes). Empty projects are skipped and a
failing project does not stop the others.

Examples:
  obras export-all -o ~/Documentos/listados
  obras export-all --format pdf --intro`,
	Args: cobra.NoArgs,
	RunE: runExportAll,
}

func init() {
	exportAllCmd.Flags().StringVarP(&exportAllFormat, "format", "F", "", "Output format: docx or pdf (default from config)")
	exportAllCmd.Flags().StringVarP(&exportAllOutput, "output", "o", "", "Output directory")
	exportAllCmd.Flags().BoolVar(&exportAllIntro, "intro", false, "Include introduction, closing text and signatures")
	exportAllCmd.Flags().BoolVar(&exportAllNoIntro, "no-intro", false, "Only the artwork blocks")
	exportAllCmd.MarkFlagsMutuallyExclusive("intro", "no-intro")
}

func runExportAll(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	format := appConfig.DefaultFormat
	if exportAllFormat != "" {
		format = strings.ToLower(exportAllFormat)
	}

	resp, err := exportService.ExecuteAll(ctx, services.ExportAllRequest{
		Format:          format,
		IncludePreamble: decideIntro(exportAllIntro, exportAllNoIntro),
		OutputDir:       exportDirOrDefault(exportAllOutput),
	})
	if err != nil {
		return err
	}

	for _, r := range resp.Results {
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%-30s %s", r.Project, ui.FormatMuted(r.Path))))
	}
	for _, name := range resp.Skipped {
		fmt.Println(ui.FormatMuted(fmt.Sprintf("- %-30s skipped (empty)", name)))
	}

	failed := make([]string, 0, len(resp.Errors))
	for name := range resp.Errors {
		failed = append(failed, name)
	}
	sort.Strings(failed)
	for _, name := range failed {
		fmt.Println(ui.FormatError(fmt.Sprintf("%-30s %v", name, resp.Errors[name])))
	}

	fmt.Println()
	fmt.Println(ui.FormatInfo(fmt.Sprintf("%d exported, %d skipped, %d failed", resp.Succeeded, len(resp.Skipped), resp.Failed)))

	if resp.Failed > 0 {
		return fmt.Errorf("%d of %d projects failed to export", resp.Failed, resp.Total)
	}
	return nil
}
