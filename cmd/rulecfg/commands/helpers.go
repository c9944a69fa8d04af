package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/internal/backup"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/logging"
	"github.com/thoreinstein/rulecfg/internal/lsp"
	"github.com/thoreinstein/rulecfg/internal/paths"
	"github.com/thoreinstein/rulecfg/internal/ruleconfig"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// editFlags are shared by commands that may change the file.
type editFlags struct {
	dryRun bool
	lsp    bool
	bare   bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false,
		"show what would change without writing the file")
	cmd.Flags().BoolVar(&f.lsp, "lsp", false,
		"print the editor request (workspace/applyEdit or window/showDocument) as JSON instead of writing")
	cmd.Flags().BoolVar(&f.bare, "bare", false,
		"start a missing file from an empty document instead of the default template")
}

// newEditor builds an Editor from the tool configuration.
func newEditor(cfg *config.Config, f editFlags) (*ruleconfig.Editor, error) {
	rulesPath, err := jsonedit.ParsePath(cfg.RulesPath)
	if err != nil {
		return nil, errors.NewConfigError(errors.Wrap(err, config.KeyRulesPath))
	}
	e := &ruleconfig.Editor{
		IndentWidth:  cfg.IndentWidth,
		RulesPath:    rulesPath,
		DefaultLevel: cfg.DefaultLevel,
		DryRun:       f.dryRun || f.lsp,
		Bare:         f.bare,
	}
	if cfg.Backup.Enabled {
		e.Backup = backup.NewManager(
			backup.WithBackupDir(paths.BackupDir()),
			backup.WithRetentionCount(cfg.Backup.Retention),
		)
	}
	return e, nil
}

// ensureFile creates a missing file before an --lsp edit, so the editor has
// a document to apply the edit to.
func ensureFile(cmd *cobra.Command, e *ruleconfig.Editor, file string, exists bool, f editFlags) error {
	if exists || !f.lsp || f.dryRun {
		return nil
	}
	creator := *e
	creator.DryRun = false
	_, err := creator.Create(cmd.Context(), file, false)
	return err
}

// reportEdit prints the outcome of an edit in the mode the flags select.
func reportEdit(w io.Writer, res *ruleconfig.Result, f editFlags, label string) error {
	if f.lsp {
		return writeLSP(w, res, label)
	}

	sel := res.Selection.Start
	switch {
	case res.DryRun && res.Plan != nil:
		fmt.Fprintf(w, "Would insert at %s:%d:%d:\n", res.File, res.Plan.Position.Line+1, res.Plan.Position.Column+1)
		fmt.Fprintln(w, res.Plan.Text)
	case res.DryRun && res.Created:
		fmt.Fprintf(w, "Would create %s\n", res.File)
	case res.DryRun:
		fmt.Fprintf(w, "%s already set at %s:%d:%d\n", res.Path, res.File, sel.Line+1, sel.Column+1)
	case res.Changed:
		fmt.Fprintf(w, "%s Set %s in %s:%d:%d\n", color.GreenString("✓"), res.Path, res.File, sel.Line+1, sel.Column+1)
	default:
		if res.Created {
			fmt.Fprintf(w, "%s Created %s\n", color.GreenString("✓"), res.File)
		}
		fmt.Fprintf(w, "%s already set at %s:%d:%d\n", res.Path, res.File, sel.Line+1, sel.Column+1)
	}
	return nil
}

// writeLSP prints an applyEdit request for an insertion, or a showDocument
// request selecting the existing value.
func writeLSP(w io.Writer, res *ruleconfig.Result, label string) error {
	uri, err := lsp.FileURI(res.File)
	if err != nil {
		return errors.Wrap(err, "building document URI")
	}

	var req *lsp.Request
	if res.Plan != nil {
		req = lsp.ApplyEdit(label, lsp.EditFromPlan(uri, *res.Plan))
	} else {
		req = lsp.ShowSelection(uri, lsp.FromRange(res.Selection))
	}
	return writeJSON(w, req)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}

// editError classifies errors from the editor for the exit status.
func editError(cmd *cobra.Command, err error, file string) error {
	logging.FromContext(cmd.Context()).Debug("edit failed", "file", file, "error", err)
	return errors.FromEdit(err, file)
}
