package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/validator"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

var (
	validateJSON    bool
	validateVerbose bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "output results as JSON")
	validateCmd.Flags().BoolVar(&validateVerbose, "all", false, "include informational findings")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the rule settings in the configuration file",
	Long: `Check that the configuration file parses and that every rule under
rules_path is an object with a known level.

Exits with status 1 when errors are found. Warnings alone do not fail.`,
	Example: `  rulecfg validate
  rulecfg validate --json

  See Also: rulecfg doctor, rulecfg rule list`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	file, exists, err := flags.TargetFile()
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s", file), "Run: rulecfg create")
	}
	rulesPath, err := jsonedit.ParsePath(config.Current().RulesPath)
	if err != nil {
		return errors.NewConfigError(err)
	}
	data, err := fileutil.ReadFileWithLimit(file)
	if err != nil {
		return err
	}

	result := validator.ValidateRules(file, string(data), rulesPath)

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(cmd.OutOrStdout(), format).Verbose(validateVerbose).Report(result); err != nil {
		return err
	}

	if result.HasErrors() {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}
