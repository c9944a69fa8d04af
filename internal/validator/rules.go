package validator

import (
	"regexp"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// Levels are the severities a rule may be configured with.
var Levels = []string{"off", "info", "warning", "error"}

// ValidLevel reports whether level is one of Levels.
func ValidLevel(level string) bool {
	return slices.Contains(Levels, level)
}

// rule codes are lowercase words joined by single dashes: no-unused-params.
var ruleCodePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidRuleCode reports whether code looks like an analyzer rule code.
func ValidRuleCode(code string) bool {
	return ruleCodePattern.MatchString(code)
}

// ValidateRules checks the rule settings object at rulesPath in a JSONC
// document. Each rule must be an object; its "level", when present, must be
// one of Levels.
func ValidateRules(file, text string, rulesPath jsonedit.Path) *Result {
	result := &Result{File: file}

	tree, err := jsonedit.Parse(text)
	if err != nil {
		var se *jsonedit.SyntaxError
		var pos *jsonedit.Position
		if errors.As(err, &se) && se.Line > 0 {
			pos = &jsonedit.Position{Line: se.Line - 1, Column: max(se.Column-1, 0)}
		}
		msg := err.Error()
		if se != nil {
			msg = se.Msg
		}
		result.Add(SeverityError, "", "invalid JSONC: "+msg, nil, pos)
		return result
	}
	if tree.Empty() {
		result.AddInfo("", "document is empty", nil)
		return result
	}

	rules, matched, err := tree.Resolve(rulesPath)
	if err != nil {
		var ce *jsonedit.ConflictError
		if errors.As(err, &ce) {
			id, _, _ := tree.Resolve(ce.Path)
			pos := tree.Start(id)
			result.Add(SeverityError, ce.Path.String(), "must be an object", ce.Kind.String(), &pos)
			return result
		}
		result.AddError("", err.Error(), nil)
		return result
	}
	if matched < len(rulesPath) {
		result.AddInfo(rulesPath.String(), "no rules configured", nil)
		return result
	}
	if tree.Kind(rules) != jsonedit.KindObject {
		pos := tree.Start(rules)
		result.Add(SeverityError, rulesPath.String(), "must be an object", tree.Kind(rules).String(), &pos)
		return result
	}

	seen := make(map[string]bool)
	for _, m := range tree.Members(rules) {
		field := rulesPath.Append(m.Name).String()
		pos := tree.Start(m.Value)

		if seen[m.Name] {
			result.Add(SeverityWarning, field, "duplicate rule; only the first entry is used", nil, &pos)
			continue
		}
		seen[m.Name] = true

		if !ValidRuleCode(m.Name) {
			result.Add(SeverityWarning, field, "rule code should be lowercase words separated by dashes", m.Name, &pos)
		}
		validateRule(result, tree, m.Value, field)
	}
	return result
}

func validateRule(result *Result, tree *jsonedit.Tree, rule jsonedit.NodeID, field string) {
	if tree.Kind(rule) != jsonedit.KindObject {
		pos := tree.Start(rule)
		result.Add(SeverityError, field, "rule settings must be an object", tree.Raw(rule), &pos)
		return
	}

	level, ok := tree.Child(rule, "level")
	if !ok {
		pos := tree.Start(rule)
		result.Add(SeverityInfo, field, "no level set; the analyzer default applies", nil, &pos)
		return
	}

	pos := tree.Start(level)
	levelField := field + ".level"
	if tree.Kind(level) != jsonedit.KindString {
		result.Add(SeverityError, levelField, "level must be a string", tree.Raw(level), &pos)
		return
	}
	raw := tree.Raw(level)
	name := strings.Trim(raw, `"`)
	if !ValidLevel(name) {
		result.Add(SeverityError, levelField, "level must be one of "+strings.Join(Levels, ", "), raw, &pos)
	}
}
