package jsonedit

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Path is an ordered list of property names from the document root.
type Path []string

// ParsePath splits a dotted path such as "analyzers.core.rules".
// A backslash escapes the next character, so "a\.b" names the single
// property "a.b". Empty segments are rejected.
func ParsePath(dotted string) (Path, error) {
	if dotted == "" {
		return nil, errors.Wrap(ErrInvalidArgument, "empty path")
	}

	var (
		p   Path
		seg strings.Builder
	)
	for i := 0; i < len(dotted); i++ {
		switch c := dotted[i]; c {
		case '\\':
			if i+1 == len(dotted) {
				return nil, errors.Wrapf(ErrInvalidArgument, "path %q ends with a dangling escape", dotted)
			}
			i++
			seg.WriteByte(dotted[i])
		case '.':
			if seg.Len() == 0 {
				return nil, errors.Wrapf(ErrInvalidArgument, "path %q has an empty segment", dotted)
			}
			p = append(p, seg.String())
			seg.Reset()
		default:
			seg.WriteByte(c)
		}
	}
	if seg.Len() == 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "path %q has an empty segment", dotted)
	}
	return append(p, seg.String()), nil
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(dotted string) Path {
	p, err := ParsePath(dotted)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate fails with ErrInvalidArgument for an empty path.
func (p Path) Validate() error {
	if len(p) == 0 {
		return errors.Wrap(ErrInvalidArgument, "path must have at least one segment")
	}
	return nil
}

// Append returns a new path with names added to the end.
func (p Path) Append(names ...string) Path {
	out := make(Path, 0, len(p)+len(names))
	out = append(out, p...)
	return append(out, names...)
}

// String joins the path with dots, escaping dots and backslashes inside
// segments so that ParsePath(p.String()) round-trips.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = escapeSegment(seg)
	}
	return strings.Join(parts, ".")
}

func escapeSegment(seg string) string {
	if !strings.ContainsAny(seg, `.\`) {
		return seg
	}
	var sb strings.Builder
	for i := 0; i < len(seg); i++ {
		if seg[i] == '.' || seg[i] == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(seg[i])
	}
	return sb.String()
}

// gjsonSpecial lists the characters that carry meaning in a gjson path.
const gjsonSpecial = `\.:|@*?#,()=!<>~`

// GJSON renders the path in gjson/sjson syntax, escaping every character
// those libraries treat specially.
func (p Path) GJSON() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if !strings.ContainsAny(seg, gjsonSpecial) {
			parts[i] = seg
			continue
		}
		var sb strings.Builder
		for _, r := range seg {
			if strings.ContainsRune(gjsonSpecial, r) {
				sb.WriteByte('\\')
			}
			sb.WriteRune(r)
		}
		parts[i] = sb.String()
	}
	return strings.Join(parts, ".")
}
