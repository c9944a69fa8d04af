package jsonedit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/tailscale/hujson"
)

// Kind identifies the type of a parsed value.
type Kind uint8

// Value kinds.
const (
	KindInvalid Kind = iota
	KindObject
	KindArray
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	default:
		return "invalid"
	}
}

// NodeID indexes a node in a Tree.
type NodeID int32

// NoNode is returned where no node applies.
const NoNode NodeID = -1

// Member is one property of an object, in document order.
type Member struct {
	Name  string
	Value NodeID
}

type node struct {
	kind  Kind
	start int // offset of the first byte of the value
	end   int // offset just past the value

	// Objects only. index maps a name to its first occurrence in members.
	members []Member
	index   map[string]int
}

// Tree is the parsed structure of one document. Nodes live in a flat arena
// and refer to each other by NodeID.
type Tree struct {
	text  string
	lines *LineTable
	nodes []node
	root  NodeID
}

// Parse parses text as a JSON object that may contain comments and trailing
// commas. Blank text, including text made only of comments, yields a Tree
// whose Empty method reports true. Anything else that is not an object fails
// with a *SyntaxError.
func Parse(text string) (*Tree, error) {
	t := &Tree{text: text, lines: NewLineTable(text), root: NoNode}
	if IsBlank(text) {
		return t, nil
	}

	v, err := hujson.Parse(Source(text))
	if err != nil {
		return nil, syntaxErrorFrom(err)
	}
	if _, ok := v.Value.(*hujson.Object); !ok {
		pos := t.lines.Position(v.StartOffset)
		return nil, newSyntaxError(pos.Line+1, pos.Column+1,
			fmt.Sprintf("top-level value is %s, not an object", literalKind(v.Value)))
	}
	t.root = t.add(v)
	return t, nil
}

// add appends v and its descendants to the arena and returns v's id.
func (t *Tree) add(v hujson.Value) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{start: v.StartOffset, end: v.EndOffset})

	switch val := v.Value.(type) {
	case *hujson.Object:
		members := make([]Member, 0, len(val.Members))
		index := make(map[string]int, len(val.Members))
		for _, m := range val.Members {
			name := memberName(m.Name)
			child := t.add(m.Value)
			if _, dup := index[name]; !dup {
				index[name] = len(members)
			}
			members = append(members, Member{Name: name, Value: child})
		}
		t.nodes[id].kind = KindObject
		t.nodes[id].members = members
		t.nodes[id].index = index
	case *hujson.Array:
		for _, e := range val.Elements {
			t.add(e)
		}
		t.nodes[id].kind = KindArray
	default:
		t.nodes[id].kind = literalKind(v.Value)
	}
	return id
}

func memberName(v hujson.Value) string {
	lit, ok := v.Value.(hujson.Literal)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal([]byte(lit), &s); err != nil {
		return string(lit)
	}
	return s
}

func literalKind(v hujson.ValueTrimmed) Kind {
	switch val := v.(type) {
	case *hujson.Object:
		return KindObject
	case *hujson.Array:
		return KindArray
	case hujson.Literal:
		if len(val) == 0 {
			return KindInvalid
		}
		switch val[0] {
		case '"':
			return KindString
		case 't', 'f':
			return KindBool
		case 'n':
			return KindNull
		default:
			return KindNumber
		}
	}
	return KindInvalid
}

// syntaxErrorFrom converts a hujson error, which reports its location as
// "hujson: line N, column M: ...", into a *SyntaxError.
func syntaxErrorFrom(err error) error {
	msg := err.Error()
	var line, col int
	if _, scanErr := fmt.Sscanf(msg, "hujson: line %d, column %d:", &line, &col); scanErr == nil {
		if i := strings.Index(msg, ": "); i >= 0 {
			if j := strings.Index(msg[i+2:], ": "); j >= 0 {
				msg = msg[i+2+j+2:]
			}
		}
		return newSyntaxError(line, col, msg)
	}
	return newSyntaxError(0, 0, strings.TrimPrefix(msg, "hujson: "))
}

// Text returns the parsed text.
func (t *Tree) Text() string { return t.text }

// Lines returns the line table of the parsed text.
func (t *Tree) Lines() *LineTable { return t.lines }

// Empty reports whether the document holds no value.
func (t *Tree) Empty() bool { return t.root == NoNode }

// Root returns the top-level object, or NoNode for an empty document.
func (t *Tree) Root() NodeID { return t.root }

// Kind returns the kind of id.
func (t *Tree) Kind(id NodeID) Kind {
	if !t.valid(id) {
		return KindInvalid
	}
	return t.nodes[id].kind
}

// Len returns the number of members of an object, counting duplicates.
func (t *Tree) Len(id NodeID) int {
	if !t.valid(id) {
		return 0
	}
	return len(t.nodes[id].members)
}

// Members returns the members of an object in document order, including
// ignored duplicates.
func (t *Tree) Members(id NodeID) []Member {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id].members
}

// Child returns the value of the first member called name.
func (t *Tree) Child(id NodeID, name string) (NodeID, bool) {
	if !t.valid(id) || t.nodes[id].kind != KindObject {
		return NoNode, false
	}
	i, ok := t.nodes[id].index[name]
	if !ok {
		return NoNode, false
	}
	return t.nodes[id].members[i].Value, true
}

// Span returns the byte offsets [start, end) covered by id. For objects the
// span runs from the opening brace through the closing brace.
func (t *Tree) Span(id NodeID) (start, end int) {
	if !t.valid(id) {
		return 0, 0
	}
	return t.nodes[id].start, t.nodes[id].end
}

// Start returns the position of the first character of id, which is the
// opening brace for objects.
func (t *Tree) Start(id NodeID) Position {
	start, _ := t.Span(id)
	return t.lines.Position(start)
}

// Range returns the span of id as positions.
func (t *Tree) Range(id NodeID) Range {
	start, end := t.Span(id)
	return Range{Start: t.lines.Position(start), End: t.lines.Position(end)}
}

// Raw returns the source text of id.
func (t *Tree) Raw(id NodeID) string {
	start, end := t.Span(id)
	return t.text[start:end]
}

// Resolve walks path from the root and returns the deepest node reached and
// how many segments matched. matched == len(path) means the whole path
// exists. Descending through a non-object fails with a *ConflictError.
func (t *Tree) Resolve(path Path) (id NodeID, matched int, err error) {
	if err := path.Validate(); err != nil {
		return NoNode, 0, err
	}
	if t.Empty() {
		return NoNode, 0, nil
	}

	id = t.root
	for i, name := range path {
		child, ok := t.Child(id, name)
		if !ok {
			return id, i, nil
		}
		if i < len(path)-1 && t.Kind(child) != KindObject {
			return NoNode, i + 1, errors.WithStack(&ConflictError{Path: path[:i+1], Kind: t.Kind(child)})
		}
		id = child
	}
	return id, len(path), nil
}

func (t *Tree) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}
