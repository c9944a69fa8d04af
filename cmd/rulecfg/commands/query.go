package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/query"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
)

var queryRaw bool

func init() {
	queryCmd.Flags().BoolVarP(&queryRaw, "raw-output", "r", false,
		"print strings without quotes")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <jq-expression>",
	Short: "Run a jq expression over the rule configuration file",
	Long: `Run a jq expression over the rule configuration file and print each
result as JSON. Comments and trailing commas are ignored.`,
	Example: `  # Rules that are turned off
  rulecfg query -r '.analyzers.core.rules | to_entries[] | select(.value.level == "off") | .key'

  # Count configured rules
  rulecfg query '.analyzers.core.rules | length'

  See Also: rulecfg get, rulecfg rule list`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	q, err := query.Compile(args[0])
	if err != nil {
		return errors.NewUserError(err, "See https://jqlang.org/manual/ for the expression syntax")
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

	results, err := q.Run(cmd.Context(), data)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	w := cmd.OutOrStdout()
	for _, r := range results {
		if s, ok := r.(string); ok && queryRaw {
			fmt.Fprintln(w, s)
			continue
		}
		if err := writeJSON(w, r); err != nil {
			return err
		}
	}
	return nil
}
