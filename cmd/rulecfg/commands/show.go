package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/convert"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
)

var showOutput string

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", string(convert.FormatJSONC),
		"output format: jsonc, json, yaml, toml")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the rule configuration file",
	Long: `Print the rule configuration file, optionally converted.

jsonc prints the file unchanged. json, yaml and toml drop comments.`,
	Example: `  rulecfg show
  rulecfg show -o yaml

  See Also: rulecfg get, rulecfg query`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, _ []string) error {
	format, err := convert.ParseFormat(showOutput)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	file, exists, err := flags.TargetFile()
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s", file), "Run: rulecfg create")
	}

	data, err := fileutil.ReadFileWithLimit(file)
	if err != nil {
		return err
	}
	out, err := convert.Convert(data, format, config.Current().IndentWidth)
	if err != nil {
		return editError(cmd, errors.Mark(err, errors.ErrInvalidFile), file)
	}

	w := cmd.OutOrStdout()
	if _, err := w.Write(out); err != nil {
		return err
	}
	if !strings.HasSuffix(string(out), "\n") && len(out) > 0 {
		_, err = w.Write([]byte("\n"))
	}
	return err
}
