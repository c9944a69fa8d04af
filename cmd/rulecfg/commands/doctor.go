package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/doctor"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable problems (file permissions)")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the rule configuration file and rulecfg's own
configuration.

Checks that the file parses (reporting the line and column of a syntax
error), that every rule has a known level, that the file and its directory
are writable, and that the tool configuration is valid.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  rulecfg doctor
  rulecfg doctor --fix
  rulecfg doctor --json

  See Also: rulecfg validate, rulecfg config edit`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorQuiet, doctorVerbose} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	file, _, err := flags.TargetFile()
	if err != nil {
		return err
	}

	runner := doctor.NewRunner(
		doctor.NewToolConfigCheck(),
		doctor.NewFileSyntaxCheck(file),
	)
	if rulesPath, err := jsonedit.ParsePath(config.Current().RulesPath); err == nil {
		runner.AddCheck(doctor.NewRuleSettingsCheck(file, rulesPath))
	}
	runner.AddCheck(doctor.NewPermissionCheck(file))

	report := runner.Run()

	w := cmd.OutOrStdout()
	if doctorFix {
		fixes := runner.Fix()
		if !doctorQuiet && !doctorJSON {
			outputFixes(w, fixes)
		}
		if len(fixes) > 0 {
			// Report the state after fixing.
			report = runner.Run()
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if code := report.ExitCode(); code != 0 {
		return errors.NewExitError(nil, code)
	}
	return nil
}

func outputDoctorReport(w io.Writer, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}
	if doctorJSON {
		return writeJSON(w, report)
	}
	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.Report) {
	// In normal mode, show only errors and warnings
	// In verbose mode, show all checks
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if line, ok := result.Details["line"]; ok {
			fmt.Fprintf(w, "  at line %v, column %v\n", line, result.Details["column"])
		}
		if issues, ok := result.Details["issues"].([]string); ok && showAll {
			for _, issue := range issues {
				fmt.Fprintf(w, "  - %s\n", issue)
			}
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func outputFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		icon := statusIcon(doctor.SeverityPass)
		if !f.Fixed {
			icon = statusIcon(doctor.SeverityError)
		}
		fmt.Fprintf(w, "%s fix %s: %s\n", icon, f.Path, f.Description)
	}
	if len(fixes) > 0 {
		fmt.Fprintln(w)
	}
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}
