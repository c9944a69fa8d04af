package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/convert"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

var (
	getJSON bool
	getRaw  bool
)

func init() {
	getCmd.Flags().BoolVar(&getJSON, "json", false, "print the value with its location as JSON")
	getCmd.Flags().BoolVar(&getRaw, "raw", false, "print the value exactly as written, comments included")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the value at a property path",
	Long: `Print the value at a dotted property path.

Strings are printed without quotes; other values as compact JSON. With
--raw the value's source text is printed unchanged. A missing path exits
with status 1.`,
	Example: `  rulecfg get analyzers.core.rules.no-unused-params.level
  rulecfg get analyzers.core.rules --raw
  rulecfg get analyzers.core.enabled --json

  See Also: rulecfg ensure, rulecfg query`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

// getOutput is the --json form of get.
type getOutput struct {
	File  string         `json:"file"`
	Path  string         `json:"path"`
	Value any            `json:"value"`
	Range jsonedit.Range `json:"range"`
}

func runGet(cmd *cobra.Command, args []string) error {
	path, err := jsonedit.ParsePath(args[0])
	if err != nil {
		return errors.NewUserError(err, "Paths look like analyzers.core.rules.<rule>.level")
	}
	file, _, err := flags.TargetFile()
	if err != nil {
		return err
	}

	e, err := newEditor(config.Current(), editFlags{dryRun: true})
	if err != nil {
		return err
	}
	v, err := e.Get(cmd.Context(), file, path)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return errors.NewUserError(err, "")
		}
		return editError(cmd, err, file)
	}

	data, err := fileutil.ReadFileWithLimit(file)
	if err != nil {
		return err
	}
	std, err := convert.Standardize(data)
	if err != nil {
		return editError(cmd, err, file)
	}
	res := gjson.GetBytes(std, path.GJSON())

	w := cmd.OutOrStdout()
	switch {
	case getJSON:
		return writeJSON(w, getOutput{File: file, Path: path.String(), Value: res.Value(), Range: v.Range})
	case getRaw:
		fmt.Fprintln(w, v.Raw)
	case res.Type == gjson.String:
		fmt.Fprintln(w, res.String())
	default:
		fmt.Fprintln(w, string(pretty.Ugly([]byte(res.Raw))))
	}
	return nil
}
