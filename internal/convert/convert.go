// Package convert renders a JSONC configuration document in other formats
// for the show command.
package convert

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// Format names an output format.
type Format string

// Supported formats.
const (
	FormatJSONC Format = "jsonc"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
)

// ErrUnknownFormat indicates an unsupported format name.
var ErrUnknownFormat = errors.New("unknown format")

// Formats lists the supported formats in the order shown in help text.
func Formats() []Format {
	return []Format{FormatJSONC, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat validates a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSONC, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q (want jsonc, json, yaml or toml)", s)
}

// Convert renders a JSONC document in format f. JSONC output is the input
// unchanged; the other formats drop comments.
func Convert(src []byte, f Format, indent int) ([]byte, error) {
	if f == FormatJSONC {
		return src, nil
	}

	std, err := Standardize(src)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON:
		return pretty.PrettyOptions(std, &pretty.Options{
			Width:  80,
			Indent: strings.Repeat(" ", indent),
		}), nil
	case FormatYAML:
		return toYAML(std, indent)
	case FormatTOML:
		return toTOML(std, indent)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", string(f))
}

// Standardize strips comments and trailing commas, leaving plain JSON.
// Only the first member of an object with a given name is kept, matching
// how the editing commands read duplicate keys.
func Standardize(src []byte) ([]byte, error) {
	v, err := hujson.Parse(jsonedit.Source(string(src)))
	if err != nil {
		return nil, errors.Wrap(err, "parsing JSONC")
	}
	firstWins(&v)
	v.Standardize()
	return v.Pack(), nil
}

// firstWins drops object members whose name repeats an earlier member.
func firstWins(v *hujson.Value) {
	switch val := v.Value.(type) {
	case *hujson.Object:
		seen := make(map[string]bool, len(val.Members))
		kept := val.Members[:0]
		for _, m := range val.Members {
			lit, _ := m.Name.Value.(hujson.Literal)
			name := lit.String()
			if seen[name] {
				continue
			}
			seen[name] = true
			firstWins(&m.Value)
			kept = append(kept, m)
		}
		val.Members = kept
	case *hujson.Array:
		for i := range val.Elements {
			firstWins(&val.Elements[i])
		}
	}
}

// toYAML keeps the document's key order by decoding into a yaml.Node.
// JSON is valid flow-style YAML, so only the styles need resetting.
func toYAML(std []byte, indent int) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(std, &doc); err != nil {
		return nil, errors.Wrap(err, "unmarshaling json")
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(max(indent, 2))
	if err := enc.Encode(&doc); err != nil {
		return nil, errors.Wrap(err, "marshaling yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "marshaling yaml")
	}
	return buf.Bytes(), nil
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func toTOML(std []byte, indent int) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(std, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshaling json")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentSymbol(strings.Repeat(" ", indent))
	if err := enc.Encode(integers(data)); err != nil {
		return nil, errors.Wrap(err, "marshaling toml")
	}
	return buf.Bytes(), nil
}

// integers turns whole float64 values back into int64 so TOML does not
// print 5 as 5.0.
func integers(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, e := range val {
			val[k] = integers(e)
		}
	case []any:
		for i, e := range val {
			val[i] = integers(e)
		}
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
	}
	return v
}
