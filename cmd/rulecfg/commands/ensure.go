package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

var ensureEditFlags editFlags

func init() {
	ensureEditFlags.register(ensureCmd)
	rootCmd.AddCommand(ensureCmd)
}

var ensureCmd = &cobra.Command{
	Use:   "ensure <path> <json-value>",
	Short: "Insert a setting if it is missing",
	Long: `Insert a value at a dotted property path unless the path already exists.

The value is JSON. A bare word that is not valid JSON is taken as a string.
Existing values are never overwritten; their location is printed instead.
Dots inside a property name are escaped with a backslash.`,
	Example: `  # Ensure a boolean setting
  rulecfg ensure analyzers.core.verbose false

  # Ensure an object
  rulecfg ensure analyzers.core.rules.max-params '{"level": "info", "limit": 5}'

  # A property name containing a dot
  rulecfg ensure 'moduleAliases.br.public\.registry' '{}'

  See Also: rulecfg get, rulecfg rule configure`,
	Args: cobra.ExactArgs(2),
	RunE: runEnsure,
}

func runEnsure(cmd *cobra.Command, args []string) error {
	path, err := jsonedit.ParsePath(args[0])
	if err != nil {
		return errors.NewUserError(err, "Paths look like analyzers.core.rules.<rule>.level")
	}
	value := parseValue(args[1])

	file, exists, err := flags.TargetFile()
	if err != nil {
		return err
	}
	e, err := newEditor(config.Current(), ensureEditFlags)
	if err != nil {
		return err
	}
	if err := ensureFile(cmd, e, file, exists, ensureEditFlags); err != nil {
		return editError(cmd, err, file)
	}

	res, err := e.Ensure(cmd.Context(), file, path, value)
	if err != nil {
		return editError(cmd, err, file)
	}
	return reportEdit(cmd.OutOrStdout(), res, ensureEditFlags, "Ensure "+path.String())
}

// parseValue reads s as JSON, falling back to a plain string.
func parseValue(s string) any {
	if json.Valid([]byte(s)) {
		return json.RawMessage(s)
	}
	return s
}
