package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// Reporter formats and writes validation results.
type Reporter struct {
	out     io.Writer
	format  Format
	verbose bool
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Verbose makes text reports include info issues.
func (r *Reporter) Verbose(v bool) *Reporter {
	r.verbose = v
	return r
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(result), "encoding JSON report")
	default:
		r.reportText(result)
		return nil
	}
}

func (r *Reporter) reportText(result *Result) {
	errs := result.Errors()
	warnings := result.Warnings()

	if len(errs) == 0 && len(warnings) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ %s", passLabel(result.File)))
	} else {
		var summary []string
		if len(errs) > 0 {
			summary = append(summary, color.RedString("%d error(s)", len(errs)))
		}
		if len(warnings) > 0 {
			summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
		}
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))
	}

	r.section("Errors:", result.File, errs, color.FgRed)
	r.section("Warnings:", result.File, warnings, color.FgYellow)
	if r.verbose {
		r.section("Info:", result.File, result.Infos(), color.FgCyan)
	}
}

func passLabel(file string) string {
	if file == "" {
		return "Validation passed"
	}
	return file + ": validation passed"
}

func (r *Reporter) section(title, file string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.out, title)
	for _, i := range issues {
		r.printIssue(file, i, c)
	}
	fmt.Fprintln(r.out)
}

// printIssue writes "  • file:line:col field: message [value]".
func (r *Reporter) printIssue(file string, i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	dim := color.New(color.FgHiBlack)

	var sb strings.Builder
	sb.WriteString("  • ")

	if i.Position != nil {
		loc := fmt.Sprintf("%d:%d", i.Position.Line+1, i.Position.Column+1)
		if file != "" {
			loc = file + ":" + loc
		}
		sb.WriteString(dim.Sprint(loc))
		sb.WriteString(" ")
	}

	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)

	if i.Value != nil {
		valStr := fmt.Sprintf("%v", i.Value)
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}
