package doctor

import (
	"fmt"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/validator"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// FileSyntaxCheck verifies that a rule configuration file parses as a JSONC
// object.
type FileSyntaxCheck struct {
	Path string
}

var _ Check = (*FileSyntaxCheck)(nil)

// NewFileSyntaxCheck creates a syntax check for path.
func NewFileSyntaxCheck(path string) *FileSyntaxCheck {
	return &FileSyntaxCheck{Path: path}
}

// Name returns the unique identifier for this check.
func (c *FileSyntaxCheck) Name() string {
	return "file-syntax"
}

// Category returns the grouping for this check.
func (c *FileSyntaxCheck) Category() string {
	return "rules"
}

// Run parses the file and reports the first syntax error with its location.
func (c *FileSyntaxCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": c.Path},
	}

	text, exists, err := fileutil.ReadText(c.Path)
	switch {
	case err != nil:
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read file: %v", err)
		return result
	case !exists:
		result.Status = SeverityInfo
		result.Message = "no configuration file yet"
		result.FixHint = "rulecfg create"
		return result
	case jsonedit.IsBlank(text):
		result.Status = SeverityInfo
		result.Message = "file is empty or contains only comments"
		return result
	}

	if _, err := jsonedit.Parse(text); err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "fix the file or delete it manually"
		var se *jsonedit.SyntaxError
		if errors.As(err, &se) && se.Line > 0 {
			result.Details["line"] = se.Line
			result.Details["column"] = se.Column
		}
		return result
	}

	result.Status = SeverityPass
	result.Message = "valid JSONC"
	return result
}

// RuleSettingsCheck validates the rule settings in a configuration file.
type RuleSettingsCheck struct {
	Path      string
	RulesPath jsonedit.Path
}

var _ Check = (*RuleSettingsCheck)(nil)

// NewRuleSettingsCheck creates a rule settings check for path.
func NewRuleSettingsCheck(path string, rulesPath jsonedit.Path) *RuleSettingsCheck {
	return &RuleSettingsCheck{Path: path, RulesPath: rulesPath}
}

// Name returns the unique identifier for this check.
func (c *RuleSettingsCheck) Name() string {
	return "rule-settings"
}

// Category returns the grouping for this check.
func (c *RuleSettingsCheck) Category() string {
	return "rules"
}

// Run validates every rule. Syntax errors are left to FileSyntaxCheck.
func (c *RuleSettingsCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
	}

	text, exists, err := fileutil.ReadText(c.Path)
	if err != nil || !exists {
		result.Status = SeverityInfo
		result.Message = "skipped: file not readable"
		return result
	}
	if _, err := jsonedit.Parse(text); err != nil {
		result.Status = SeverityInfo
		result.Message = "skipped: file does not parse"
		return result
	}

	v := validator.ValidateRules(c.Path, text, c.RulesPath)
	errs, warnings := v.Errors(), v.Warnings()
	issues := slices.Concat(errs, warnings)

	switch {
	case len(errs) > 0:
		result.Status = SeverityError
	case len(warnings) > 0:
		result.Status = SeverityWarning
	default:
		result.Status = SeverityPass
		result.Message = "all rules are valid"
		return result
	}

	details := make([]string, 0, len(issues))
	for _, i := range issues {
		details = append(details, i.Error())
	}
	result.Message = fmt.Sprintf("%d error(s), %d warning(s) in rule settings", len(errs), len(warnings))
	result.Details = map[string]any{"issues": details}
	result.FixHint = "rulecfg validate"
	return result
}

// ToolConfigCheck validates rulecfg's own configuration.
type ToolConfigCheck struct {
	load func() (*config.Config, error)
}

var _ Check = (*ToolConfigCheck)(nil)

// NewToolConfigCheck creates a check that loads the tool configuration.
func NewToolConfigCheck() *ToolConfigCheck {
	return &ToolConfigCheck{load: func() (*config.Config, error) { return config.Load("") }}
}

// Name returns the unique identifier for this check.
func (c *ToolConfigCheck) Name() string {
	return "tool-config"
}

// Category returns the grouping for this check.
func (c *ToolConfigCheck) Category() string {
	return "tool"
}

// Run loads and validates the configuration.
func (c *ToolConfigCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Details:  map[string]any{"path": config.File()},
	}
	cfg, err := c.load()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "rulecfg config edit"
		return result
	}
	result.Status = SeverityPass
	result.Message = fmt.Sprintf("rules at %s, default level %s", cfg.RulesPath, cfg.DefaultLevel)
	return result
}
