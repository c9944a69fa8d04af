package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/editor"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/query"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

var (
	ruleEditFlags editFlags
	ruleLevel     string
	ruleOpen      bool
	ruleListJSON  bool
)

func init() {
	ruleEditFlags.register(ruleConfigureCmd)
	ruleConfigureCmd.Flags().StringVarP(&ruleLevel, "level", "l", "",
		"level for a newly configured rule: off, info, warning, error (default: default_level setting)")
	ruleConfigureCmd.Flags().BoolVar(&ruleOpen, "open", false,
		"open the file in $EDITOR at the rule's level afterwards")
	ruleListCmd.Flags().BoolVar(&ruleListJSON, "json", false, "output as JSON")

	ruleCmd.AddCommand(ruleConfigureCmd)
	ruleCmd.AddCommand(ruleListCmd)
	rootCmd.AddCommand(ruleCmd)
}

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Configure analyzer rules",
	Long: `Configure analyzer rules in the rule configuration file.

Rules live under the rules_path setting (analyzers.core.rules by default),
one object per rule code with a "level" of off, info, warning or error.`,
	Example: `  # Configure a rule
  rulecfg rule configure no-unused-params --level off

  # List configured rules
  rulecfg rule list

  See Also: rulecfg validate, rulecfg ensure`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var ruleConfigureCmd = &cobra.Command{
	Use:   "configure <rule-code>",
	Short: "Add a rule's level, or show where it is already set",
	Long: `Make sure a rule has a level in the configuration file.

When the rule has no level yet, {"level": <level>} is inserted under
<rules_path>.<rule-code>. When the level already exists it is left unchanged
and its location is printed, or selected with --lsp or --open.

A missing file is created from the default template first.`,
	Example: `  # Turn a rule off
  rulecfg rule configure no-unused-params --level off

  # Preview the insertion
  rulecfg rule configure max-params --dry-run

  # Produce the editor request instead of writing
  rulecfg rule configure max-params --lsp

  See Also: rulecfg rule list, rulecfg backup list`,
	Args: cobra.ExactArgs(1),
	RunE: runRuleConfigure,
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured rules and their levels",
	Example: `  rulecfg rule list
  rulecfg rule list --json

  See Also: rulecfg rule configure, rulecfg query`,
	Args: cobra.NoArgs,
	RunE: runRuleList,
}

func runRuleConfigure(cmd *cobra.Command, args []string) error {
	file, exists, err := flags.TargetFile()
	if err != nil {
		return err
	}
	e, err := newEditor(config.Current(), ruleEditFlags)
	if err != nil {
		return err
	}
	if err := ensureFile(cmd, e, file, exists, ruleEditFlags); err != nil {
		return editError(cmd, err, file)
	}

	res, err := e.ConfigureRule(cmd.Context(), file, args[0], ruleLevel)
	if err != nil {
		return editError(cmd, err, file)
	}
	if err := reportEdit(cmd.OutOrStdout(), res, ruleEditFlags, "Configure rule "+args[0]); err != nil {
		return err
	}

	if ruleOpen && !res.DryRun {
		return editor.OpenAt(file, &res.Selection.Start)
	}
	return nil
}

// ruleEntry is one row of rule list.
type ruleEntry struct {
	Code  string `json:"code"`
	Level any    `json:"level"`
}

func runRuleList(cmd *cobra.Command, _ []string) error {
	file, exists, err := flags.TargetFile()
	if err != nil {
		return err
	}
	if !exists {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s", file), "Run: rulecfg create")
	}
	rules, err := listRules(cmd.Context(), file, config.Current().RulesPath)
	if err != nil {
		return editError(cmd, err, file)
	}

	w := cmd.OutOrStdout()
	if ruleListJSON {
		return writeJSON(w, rules)
	}
	printRules(w, file, rules)
	return nil
}

func listRules(ctx context.Context, file, rulesPath string) ([]ruleEntry, error) {
	path, err := jsonedit.ParsePath(rulesPath)
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	data, err := fileutil.ReadFileWithLimit(file)
	if err != nil {
		return nil, err
	}
	// A rules path running through a scalar is a conflict, not an empty list.
	if _, _, err := jsonedit.Locate(string(data), path); err != nil {
		return nil, err
	}
	if jsonedit.IsBlank(string(data)) {
		return nil, nil
	}

	q, err := query.Compile(query.Rules, "rules")
	if err != nil {
		return nil, err
	}
	keys := make([]any, len(path))
	for i, p := range path {
		keys[i] = p
	}
	results, err := q.Run(ctx, data, keys)
	if err != nil {
		return nil, err
	}

	rules := make([]ruleEntry, 0, len(results))
	for _, r := range results {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		code, _ := m["code"].(string)
		rules = append(rules, ruleEntry{Code: code, Level: m["level"]})
	}
	return rules, nil
}

func printRules(w io.Writer, file string, rules []ruleEntry) {
	if len(rules) == 0 {
		fmt.Fprintf(w, "No rules configured in %s\n", file)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tLEVEL")
	for _, r := range rules {
		fmt.Fprintf(tw, "%s\t%s\n", r.Code, levelString(r.Level))
	}
	tw.Flush()
}

func levelString(level any) string {
	switch level {
	case nil:
		return color.New(color.Faint).Sprint("(unset)")
	case "error":
		return color.RedString("error")
	case "warning":
		return color.YellowString("warning")
	case "off":
		return color.New(color.Faint).Sprint("off")
	}
	return fmt.Sprint(level)
}
