package jsonedit

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/pretty"
)

// encodeValue marshals v as compact JSON without HTML escaping.
// json.RawMessage values are validated and passed through.
func encodeValue(v any) ([]byte, error) {
	if raw, ok := v.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, errors.Wrap(ErrInvalidArgument, "default value is not valid JSON")
		}
		return pretty.Ugly(raw), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrapf(ErrInvalidArgument, "encoding default value: %v", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// quote renders name as a JSON string literal.
func quote(name string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(name)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// wrap nests value under names, innermost last:
// wrap(["a","b"], 1) == {"a":{"b":1}}.
func wrap(names []string, value []byte) []byte {
	out := value
	for i := len(names) - 1; i >= 0; i-- {
		var b bytes.Buffer
		b.WriteByte('{')
		b.Write(quote(names[i]))
		b.WriteByte(':')
		b.Write(out)
		b.WriteByte('}')
		out = b.Bytes()
	}
	return out
}

// format pretty-prints compact JSON with width spaces per level, starting at
// depth 0. Scalars are returned unchanged.
func format(compact []byte, width int) string {
	if len(compact) == 0 || (compact[0] != '{' && compact[0] != '[') {
		return string(compact)
	}
	out := pretty.PrettyOptions(compact, &pretty.Options{
		Width:  80,
		Prefix: "",
		Indent: strings.Repeat(" ", width),
	})
	return strings.TrimRight(string(out), "\n")
}

// skeletonMember renders `"names[0]": <names[1:] wrapped around value>`.
func skeletonMember(names []string, value []byte, width int) string {
	return string(quote(names[0])) + ": " + format(wrap(names[1:], value), width)
}

// skeletonObject renders the complete top-level object for names.
func skeletonObject(names []string, value []byte, width int) string {
	return format(wrap(names, value), width)
}

// indentLines prefixes every line of s and joins the lines with nl.
func indentLines(s, prefix, nl string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, nl)
}
