package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/cli/prompt"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/logging"
	"github.com/thoreinstein/rulecfg/internal/paths"
	"github.com/thoreinstein/rulecfg/internal/template"
)

var (
	createForce  bool
	createBare   bool
	createDryRun bool
	createPick   bool
	createSet    []string
)

func init() {
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false,
		"replace an existing file (a backup is kept)")
	createCmd.Flags().BoolVar(&createBare, "bare", false,
		"create an empty file instead of the default template")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false,
		"print the document instead of writing it")
	createCmd.Flags().BoolVar(&createPick, "pick", false,
		"choose the directory interactively from the working directory and its parents")
	createCmd.Flags().StringArrayVar(&createSet, "set", nil,
		"override a template value, as path=json (repeatable)")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a rule configuration file from the default template",
	Long: `Create a rule configuration file from the default template.

The file is created in the working directory, at --file, or in a directory
chosen with --pick. Candidate directories are the working directory and
each parent you can read and write.

Values given with --set are applied to the template; doing so drops the
template's comments.`,
	Example: `  # Create rulecfg.json here
  rulecfg create

  # Choose among parent directories
  rulecfg create --pick

  # Start with a rule turned off
  rulecfg create --set analyzers.core.rules.no-unused-params.level=off

  See Also: rulecfg rule configure, rulecfg show`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	cfg := config.Current()

	overrides := make([]template.Override, 0, len(createSet))
	for _, s := range createSet {
		o, err := template.ParseOverride(s)
		if err != nil {
			return errors.NewUserError(err, "Use --set path=value, e.g. --set analyzers.core.enabled=false")
		}
		overrides = append(overrides, o)
	}

	file, err := createTarget(cfg)
	if err != nil {
		return err
	}

	e, err := newEditor(cfg, editFlags{dryRun: createDryRun, bare: createBare})
	if err != nil {
		return err
	}
	res, err := e.Create(cmd.Context(), file, createForce, overrides...)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	w := cmd.OutOrStdout()
	switch {
	case res.DryRun:
		fmt.Fprint(w, res.After)
	case !res.Changed:
		fmt.Fprintf(w, "%s is already up to date\n", file)
	case res.Created:
		fmt.Fprintf(w, "%s Created %s\n", color.GreenString("✓"), file)
	default:
		fmt.Fprintf(w, "%s Replaced %s\n", color.GreenString("✓"), file)
	}
	return nil
}

// createTarget picks where create writes: --file, an interactively chosen
// directory, or the working directory.
func createTarget(cfg *config.Config) (string, error) {
	if flags.GetFileFlag() != "" {
		file, _, err := flags.TargetFile()
		return file, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getting working directory")
	}
	if !createPick {
		return filepath.Join(wd, cfg.FileName), nil
	}

	dirs, err := paths.Ancestors(wd)
	if err != nil {
		return "", err
	}
	selector := prompt.NewSelector(logging.IsTTY(os.Stdout))
	dir, err := selector.SelectDirectory(cfg.FileName, dirs)
	if err != nil {
		if errors.Is(err, prompt.ErrNoCandidates) {
			return "", errors.NewUserError(err, "No writable directory found; pass --file")
		}
		return "", err
	}
	return filepath.Join(dir, cfg.FileName), nil
}
