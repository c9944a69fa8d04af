// Package commands implements the CLI commands for rulecfg.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd"
	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/backup"
	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	internalbackup "github.com/thoreinstein/rulecfg/internal/backup"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// skipConfigCheck lists commands that must run even when the tool
// configuration is broken, so the user can repair it.
var skipConfigCheck = map[string]bool{
	"help":    true,
	"version": true,
	"doctor":  true,
	"config":  true,
	"init":    true,
	"gen-doc": true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(flags.FileFlagVar(), "file", "",
		"rule configuration file (default: nearest file_name up from the working directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("rulecfg version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	internalbackup.Version = cmd.Version
	rootCmd.AddCommand(backup.Cmd)
}

func initConfig() {
	config.Init()
	_, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "rulecfg",
	Short: "Manage analyzer rule settings in JSONC configuration files",
	Long: `rulecfg manages analyzer and linter rule settings stored in JSON files
with comments, such as rulecfg.json next to a project.

Edits are insert-only: a setting is added when it is missing and left alone
when it exists. Comments, formatting and unrelated content are never touched.
Existing files are backed up before their first modification.

The file is found by walking up from the working directory, or named with
--file.`,
	Example: `  # Turn a rule off, or show where it is already configured
  rulecfg rule configure no-unused-params --level off

  # Ensure an arbitrary setting exists
  rulecfg ensure analyzers.core.verbose true

  # Check the file
  rulecfg validate

  See Also: rulecfg create, rulecfg doctor, rulecfg config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("RULECFG_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "Use --log-format text or --log-format json")
	}

	cfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		cfg.File = f
	}

	color.NoColor = !logging.SupportsColor(cmd.OutOrStdout())

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a broken tool configuration before commands that
// depend on it run.
func checkConfig(cmd *cobra.Command) error {
	for c := cmd; c != nil; c = c.Parent() {
		if skipConfigCheck[c.Name()] {
			return nil
		}
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// Execute runs the root command and prints any error with its suggestion.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if err != nil {
		return errors.ExitUser
	}
	return errors.ExitSuccess
}

func printError(w io.Writer, err error) {
	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		// Silent exits carry only a status, like doctor's warnings.
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}
