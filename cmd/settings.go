package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/obras-cli/internal/core/domain"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var forceSettingsReset bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change the document texts",
	Long: `Settings hold the texts merged into exported documents: office,
location, date line, title, introduction, custodian, closing text,
signatory and page header captions.

Tokens replaced on export:
  {FECHA}            long date, e.g. 15 de octubre de 2026
  {OFICINA}          officeName
  {UBICACION}        location
  {CUSTODIO_NOMBRE}  custodianName

Examples:
  obras settings
  obras settings set officeName "Oficina de Enlace"
  echo "Texto largo" | obras settings set introText -
  obras settings edit`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Show all settings or one value",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting (value '-' reads stdin)",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSettingsSet,
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit all settings as YAML in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runSettingsEdit,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default texts",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsResetCmd.Flags().BoolVarP(&forceSettingsReset, "force", "f", false, "Skip confirmation")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEditCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := settingsService.Load(getContext())
	if err != nil {
		return err
	}

	if len(args) == 1 {
		value, err := settings.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	}

	fmt.Println(ui.FormatTitle("Document settings"))
	fmt.Println()
	for _, key := range domain.SettingKeys() {
		value, _ := settings.Get(key)
		if value == "" {
			value = ui.FormatMuted("(empty)")
		}
		fmt.Println(ui.RenderKeyValue(key, value))
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := strings.Join(args[1:], " ")

	if value == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		value = strings.TrimRight(string(data), "\r\n")
	}

	if _, err := settingsService.Set(getContext(), key, value); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Setting updated: " + key))
	return nil
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	current, err := settingsService.Load(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(current)
	if err != nil {
		return err
	}
	header := []byte("# Document settings. Use | blocks for multi-line texts.\n" +
		"# Tokens: {FECHA} {OFICINA} {UBICACION} {CUSTODIO_NOMBRE}\n")

	edited, err := editText(append(header, data...), "obras-settings-*.yaml")
	if err != nil {
		return err
	}

	// Start from the current values so deleted keys keep them
	next := current
	if err := yaml.Unmarshal(edited, &next); err != nil {
		return fmt.Errorf("%w: invalid YAML: %v", domain.ErrValidation, err)
	}
	if next == current {
		fmt.Println(ui.FormatInfo("No changes."))
		return nil
	}

	if _, err := settingsService.Replace(ctx, next); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Settings saved."))
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if !forceSettingsReset && !confirm("Restore every document text to its default?") {
		fmt.Println("Cancelled.")
		return nil
	}

	if _, err := settingsService.Reset(getContext()); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Settings restored to defaults."))
	return nil
}
