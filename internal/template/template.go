// Package template provides the document written when a rule configuration
// file is created from scratch.
package template

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/tailscale/hujson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

//go:embed default.jsonc
var defaultDocument string

// ErrInvalidOverride indicates an override that is not of the form path=value.
var ErrInvalidOverride = errors.New("invalid override")

// Default returns the default configuration document, comments included.
func Default() string {
	return defaultDocument
}

// Override sets Path to Value in a rendered document. Value is raw JSON.
type Override struct {
	Path  jsonedit.Path
	Value string
}

// ParseOverride parses "path=value". A value that is not valid JSON is
// taken as a string, so level=off and level="off" mean the same thing.
func ParseOverride(s string) (Override, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return Override{}, errors.Wrapf(ErrInvalidOverride, "%q: expected path=value", s)
	}
	path, err := jsonedit.ParsePath(key)
	if err != nil {
		return Override{}, errors.Wrapf(ErrInvalidOverride, "%q: %v", s, err)
	}
	if !json.Valid([]byte(value)) {
		quoted, _ := json.Marshal(value)
		value = string(quoted)
	}
	return Override{Path: path, Value: value}, nil
}

// Render returns the default document with overrides applied, indented by
// indent spaces. Without overrides the comments are kept and only the
// indentation changes. Applying overrides drops the comments.
func Render(indent int, overrides ...Override) (string, error) {
	if indent < 0 {
		return "", errors.Newf("indent must not be negative, got %d", indent)
	}
	if len(overrides) == 0 {
		return reindent(defaultDocument, indent), nil
	}

	doc, err := hujson.Standardize([]byte(defaultDocument))
	if err != nil {
		return "", errors.Wrap(err, "standardizing default document")
	}
	for _, o := range overrides {
		doc, err = sjson.SetRawBytes(doc, o.Path.GJSON(), []byte(o.Value))
		if err != nil {
			return "", errors.Wrapf(err, "setting %s", o.Path)
		}
	}

	out := pretty.PrettyOptions(doc, &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   strings.Repeat(" ", indent),
		SortKeys: false,
	})
	return string(out), nil
}

// reindent rewrites the two-space indentation of the embedded document to
// width spaces per level.
func reindent(doc string, width int) string {
	if width == jsonedit.DefaultIndent {
		return doc
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		trimmed := strings.TrimLeft(l, " ")
		depth := (len(l) - len(trimmed)) / jsonedit.DefaultIndent
		lines[i] = strings.Repeat(" ", depth*width) + trimmed
	}
	return strings.Join(lines, "\n")
}
