package jsonedit

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// Plan is a single text insertion computed against one document snapshot.
type Plan struct {
	// Position is where Text is inserted.
	Position Position `json:"position"`
	// Text is inserted verbatim.
	Text string `json:"text"`
}

type options struct {
	indent int
}

// Option configures InsertIfNotExists.
type Option func(*options)

// WithIndent sets the number of spaces per nesting level. Negative widths
// are rejected with ErrInvalidArgument.
func WithIndent(n int) Option {
	return func(o *options) {
		o.indent = n
	}
}

// InsertIfNotExists plans the insertion of path with value into text.
//
// When the path already exists, ok is false and the plan is empty; an
// existing value is never replaced. When some prefix of the path exists, the
// missing suffix is inserted as the first member of the deepest existing
// object. Blank and comment-only documents receive a complete top-level
// object appended after their content.
//
// value is encoded with encoding/json; a json.RawMessage is inserted as is.
func InsertIfNotExists(text string, path Path, value any, opts ...Option) (plan Plan, ok bool, err error) {
	o := options{indent: DefaultIndent}
	for _, opt := range opts {
		opt(&o)
	}
	if o.indent < 0 {
		return Plan{}, false, errors.Wrapf(ErrInvalidArgument, "negative indent %d", o.indent)
	}
	if err := path.Validate(); err != nil {
		return Plan{}, false, err
	}
	encoded, err := encodeValue(value)
	if err != nil {
		return Plan{}, false, err
	}

	tree, err := Parse(text)
	if err != nil {
		return Plan{}, false, err
	}
	if tree.Empty() {
		return bootstrap(tree.Lines(), path, encoded, o.indent), true, nil
	}

	anchor, matched, err := tree.Resolve(path)
	if err != nil {
		return Plan{}, false, err
	}
	if matched == len(path) {
		return Plan{}, false, nil
	}
	return planAt(tree, anchor, path[matched:], encoded, o.indent), true, nil
}

// planAt inserts the member for missing right after anchor's opening brace.
// New lines use the line break of the brace's line.
func planAt(tree *Tree, anchor NodeID, missing Path, value []byte, width int) Plan {
	brace := tree.Start(anchor)
	member := skeletonMember(missing, value, width)
	pos := Position{Line: brace.Line, Column: brace.Column + 1}
	nl := tree.Lines().Break(brace.Line)

	if tree.Len(anchor) == 0 {
		// Anchor the block under the brace column so compact "{}" objects
		// still nest visibly.
		text := nl + indentLines(member, strings.Repeat(" ", brace.Column+width), nl)
		start, end := tree.Span(anchor)
		inner := tree.Text()[start+1 : end-1]
		if !strings.ContainsAny(inner, "\r\n") {
			// Blank padding such as "{ }" stays in front of the closing
			// brace, so the trailer is shortened by its width.
			pad := 0
			if strings.Trim(inner, " \t") == "" {
				pad = len(inner)
			}
			text += nl + strings.Repeat(" ", max(0, brace.Column-pad))
		}
		return Plan{Position: pos, Text: text}
	}

	// The new member goes first, so it needs its own trailing comma.
	indent := leadingWhitespace(tree.Text(), tree.Lines().LineStart(brace.Line)) + strings.Repeat(" ", width)
	return Plan{Position: pos, Text: nl + indentLines(member, indent, nl) + ","}
}

// leadingWhitespace returns the run of spaces and tabs starting at offset.
func leadingWhitespace(text string, offset int) string {
	end := offset
	for end < len(text) && (text[end] == ' ' || text[end] == '\t') {
		end++
	}
	return text[offset:end]
}
