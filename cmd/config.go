package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/obras-cli/pkg/config"
	"github.com/kamal-hamza/obras-cli/pkg/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the obras configuration file",
	Long: `Show the effective configuration, read or change one key, or open
the file in your editor.

Examples:
  obras config
  obras config get letterhead
  obras config set default_format pdf
  obras config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := appConfig.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appConfig.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := appConfig.Save(appVault.ConfigPath); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Config updated: " + args[0]))
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appVault.ConfigPath

		// Ensure it exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
		}

		fmt.Println(ui.FormatInfo("Opening config: " + path))
		if err := runEditor(path); err != nil {
			return err
		}

		// Report a file that no longer parses
		if _, err := config.Load(path); err != nil {
			fmt.Println(ui.FormatWarning(err.Error()))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Println(ui.FormatTitle("Configuration"))
	fmt.Println(ui.FormatMuted(appVault.ConfigPath))
	fmt.Println()
	for _, key := range config.Keys() {
		value, _ := appConfig.Get(key)
		if value == "" {
			value = ui.FormatMuted("(default)")
		}
		fmt.Println(ui.RenderKeyValue(key, value))
	}
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("letterhead source", letterheadSource.Location()))
	return nil
}
