package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/editor"
	"github.com/thoreinstein/rulecfg/internal/errors"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rulecfg configuration",
	Long: `Manage rulecfg configuration stored in ~/.config/rulecfg/config.yaml.

Every key can also be set through the environment as RULECFG_<KEY>, with
dots replaced by underscores (RULECFG_BACKUP_ENABLED=false).

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  rulecfg config

  # Get a specific value
  rulecfg config get rules_path

  # Set a value
  rulecfg config set indent_width 4

See Also: rulecfg init, rulecfg doctor`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys such as backup.retention.`,
	Example: `  rulecfg config get default_level
  rulecfg config get backup.enabled

See Also: rulecfg config set, rulecfg config list`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write the config file.

Values are checked before anything is written: indent_width must be 0-16,
default_level one of off, info, warning, error, rules_path a valid dotted
path, and backup.retention at least 1.`,
	Example: `  rulecfg config set default_level error
  rulecfg config set rules_path analyzers.core.rules
  rulecfg config set backup.enabled false

See Also: rulecfg config get, rulecfg config list`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  rulecfg config list

See Also: rulecfg config get, rulecfg config set`,
	RunE: runConfigList,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open configuration in $EDITOR",
	Long: `Open the configuration file in your default editor.

Uses $EDITOR, then $VISUAL, then nano or vi.
If no configuration file exists, prints an error suggesting to run 'rulecfg init'.`,
	Example: `  rulecfg config edit
  EDITOR=nano rulecfg config edit

See Also: rulecfg config list, rulecfg init`,
	RunE: runConfigEdit,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if !config.ValidKey(key) {
		return errors.NewUserError(errors.Newf("unknown key %q", key), "Run: rulecfg config list")
	}
	fmt.Fprintln(cmd.OutOrStdout(), viper.GetString(key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := config.Set(key, value); err != nil {
		return errors.NewUserError(err, "Run: rulecfg config list")
	}
	if err := config.Save(config.File(), config.Current()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, viper.GetString(key))
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(config.Current())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath := config.File()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return errors.NewUserError(errors.Newf("config file not found at %s", configPath), "Run: rulecfg init")
	}
	return editor.Open(configPath)
}
