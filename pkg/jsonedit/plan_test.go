package jsonedit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rulePath = Path{"analyzers", "core", "rules", "no-unused-params", "level"}

const ruleSkeleton = `{
  "analyzers": {
    "core": {
      "rules": {
        "no-unused-params": {
          "level": "warning"
        }
      }
    }
  }
}`

func TestInsertIfNotExists_EmptyDocument(t *testing.T) {
	plan, ok, err := InsertIfNotExists("", rulePath, "warning")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, Position{0, 0}, plan.Position)
	assert.Equal(t, ruleSkeleton+"\n", plan.Text)

	got, err := ApplyInsertion("", plan)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(got), &decoded))
	assert.JSONEq(t, `{"analyzers":{"core":{"rules":{"no-unused-params":{"level":"warning"}}}}}`, got)
}

func TestInsertIfNotExists_CommentOnlyDocument(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  Position
		want string
	}{
		{
			name: "no trailing newline",
			text: "// Well hello there\n\n// again",
			pos:  Position{2, 8},
			want: "// Well hello there\n\n// again\n" + ruleSkeleton + "\n",
		},
		{
			name: "trailing newline",
			text: "// Well hello there\n\n// again\n",
			pos:  Position{3, 0},
			want: "// Well hello there\n\n// again\n" + ruleSkeleton + "\n",
		},
		{
			name: "whitespace only",
			text: "\n\n",
			pos:  Position{2, 0},
			want: "\n\n" + ruleSkeleton + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok, err := InsertIfNotExists(tt.text, rulePath, "warning")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.pos, plan.Position)

			got, err := ApplyInsertion(tt.text, plan)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(got, tt.text), "existing comments must be kept verbatim")
		})
	}
}

func TestInsertIfNotExists_CompactEmptyObject(t *testing.T) {
	plan, ok, err := InsertIfNotExists("{}", rulePath, "warning")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Position{0, 1}, plan.Position)

	got, err := ApplyInsertion("{}", plan)
	require.NoError(t, err)
	assert.Equal(t, ruleSkeleton, got)
}

func TestInsertIfNotExists_PaddedEmptyObject(t *testing.T) {
	text := `{"a": { }}`
	plan, ok, err := InsertIfNotExists(text, Path{"a", "x"}, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Position{0, 7}, plan.Position)

	got, err := ApplyInsertion(text, plan)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\": {\n"+strings.Repeat(" ", 8)+"\"x\": 1\n"+strings.Repeat(" ", 6)+"}}", got)
}

func TestInsertIfNotExists_KeepsCRLF(t *testing.T) {
	tests := []struct {
		name string
		text string
		path Path
		want string
	}{
		{
			name: "object with children",
			text: "{\r\n  \"a\": {\r\n    \"y\": 1\r\n  }\r\n}",
			path: Path{"a", "x"},
			want: "{\r\n  \"a\": {\r\n    \"x\": 1,\r\n    \"y\": 1\r\n  }\r\n}",
		},
		{
			name: "compact empty object",
			text: "{\r\n  \"a\": {}\r\n}",
			path: Path{"a", "x"},
			want: "{\r\n  \"a\": {\r\n" + strings.Repeat(" ", 9) + "\"x\": 1\r\n" + strings.Repeat(" ", 7) + "}\r\n}",
		},
		{
			name: "comment-only document",
			text: "// c\r\n",
			path: Path{"x"},
			want: "// c\r\n{\r\n  \"x\": 1\r\n}\r\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Ensure(tt.text, tt.path, 1)
			require.NoError(t, err)
			require.True(t, changed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsertIfNotExists_ByteOrderMark(t *testing.T) {
	got, changed, err := Ensure("\ufeff{\n  \"a\": 1\n}\n", Path{"b"}, 2)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, "\ufeff{\n  \"b\": 2,\n  \"a\": 1\n}\n", got)

	got, changed, err = Ensure("\ufeff", Path{"b"}, 2)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, "\ufeff{\n  \"b\": 2\n}\n", got)
}

func TestInsertIfNotExists_AnchorShapes(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		path  Path
		value any
		want  string
	}{
		{
			name:  "nested compact empty object anchors on brace column",
			text:  "{\n  \"analyzers\": {}\n}",
			path:  Path{"analyzers", "core"},
			value: "x",
			want: "{\n  \"analyzers\": {\n" +
				strings.Repeat(" ", 17) + "\"core\": \"x\"\n" +
				strings.Repeat(" ", 15) + "}\n}",
		},
		{
			name:  "empty object spanning lines",
			text:  "{\n}",
			path:  Path{"a"},
			value: 1,
			want:  "{\n  \"a\": 1\n}",
		},
		{
			name: "object with children gets a new first member",
			text: `{
  // leading comment
  "analyzers": {
    "core": {
      "verbose": false
    }
  }
}`,
			path:  Path{"analyzers", "core", "rules", "x", "level"},
			value: "warning",
			want: `{
  // leading comment
  "analyzers": {
    "core": {
      "rules": {
        "x": {
          "level": "warning"
        }
      },
      "verbose": false
    }
  }
}`,
		},
		{
			name:  "compact object with children",
			text:  `{"a": 1}`,
			path:  Path{"b"},
			value: true,
			want:  "{\n  \"b\": true,\"a\": 1}",
		},
		{
			name:  "root with children and trailing comment",
			text:  "{ // keep me\n  \"a\": 1\n}",
			path:  Path{"b", "c"},
			value: nil,
			want:  "{\n  \"b\": {\n    \"c\": null\n  }, // keep me\n  \"a\": 1\n}",
		},
		{
			name:  "tab indented parent",
			text:  "{\n\t\"a\": {\n\t\t\"x\": 1\n\t}\n}",
			path:  Path{"a", "y"},
			value: 2,
			want:  "{\n\t\"a\": {\n\t  \"y\": 2,\n\t\t\"x\": 1\n\t}\n}",
		},
		{
			name:  "object value",
			text:  "{}",
			path:  Path{"rule"},
			value: map[string]any{"level": "off"},
			want:  "{\n  \"rule\": {\n    \"level\": \"off\"\n  }\n}",
		},
		{
			name:  "raw message value",
			text:  "{}",
			path:  Path{"rule"},
			value: json.RawMessage(`{ "level" : "info" }`),
			want:  "{\n  \"rule\": {\n    \"level\": \"info\"\n  }\n}",
		},
		{
			name:  "html characters are not escaped",
			text:  "{}",
			path:  Path{"<a&b>"},
			value: "<x>",
			want:  "{\n  \"<a&b>\": \"<x>\"\n}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed, err := Ensure(tt.text, tt.path, tt.value)
			require.NoError(t, err)
			require.True(t, changed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsertIfNotExists_Indent(t *testing.T) {
	got, _, err := Ensure("", Path{"a", "b"}, 1, WithIndent(4))
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": {\n        \"b\": 1\n    }\n}\n", got)

	got, _, err = Ensure("{\n    \"x\": 1\n}", Path{"a"}, 1, WithIndent(4))
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1,\n    \"x\": 1\n}", got)

	_, _, err = InsertIfNotExists("{}", Path{"a"}, 1, WithIndent(-1))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestInsertIfNotExists_AlreadyExists(t *testing.T) {
	text := `{
  "analyzers": {
    "core": {
      "rules": {
        "no-unused-params": {"level": "error"}
      }
    }
  }
}`
	for depth := 1; depth <= len(rulePath); depth++ {
		plan, ok, err := InsertIfNotExists(text, rulePath[:depth], "warning")
		require.NoError(t, err)
		assert.False(t, ok, "depth %d", depth)
		assert.Equal(t, Plan{}, plan)
	}
}

func TestInsertIfNotExists_NeverOverwrites(t *testing.T) {
	text := `{"a": {"b": [1, 2]}}`
	_, ok, err := InsertIfNotExists(text, Path{"a", "b"}, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsertIfNotExists_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		path    Path
		value   any
		wantErr error
	}{
		{"empty path on empty text", "", Path{}, 1, ErrInvalidArgument},
		{"empty path on object", "{}", Path{}, 1, ErrInvalidArgument},
		{"nil path", "{}", nil, 1, ErrInvalidArgument},
		{"empty path on invalid text", "[", Path{}, 1, ErrInvalidArgument},
		{"unencodable value", "{}", Path{"a"}, func() {}, ErrInvalidArgument},
		{"invalid raw value", "{}", Path{"a"}, json.RawMessage(`{`), ErrInvalidArgument},
		{"top-level array", "[]", rulePath, "warning", ErrParse},
		{"malformed object", `{"analyzers": `, rulePath, "warning", ErrParse},
		{"string blocks path", `{"analyzers": "x"}`, rulePath, "warning", ErrStructuralConflict},
		{"array blocks path", `{"analyzers": {"core": []}}`, rulePath, "warning", ErrStructuralConflict},
		{"first duplicate blocks path", `{"a": 1, "a": {}}`, Path{"a", "b"}, 1, ErrStructuralConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := InsertIfNotExists(tt.text, tt.path, tt.value)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, tt.wantErr), "error = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestInsertIfNotExists_DuplicateKeysUseFirst(t *testing.T) {
	text := `{"a": {}, "a": {"b": 1}}`
	got, changed, err := Ensure(text, Path{"a", "b"}, 2)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, "{\"a\": {\n        \"b\": 2\n      }, \"a\": {\"b\": 1}}", got)
}

func TestApplyInsertion_StalePlan(t *testing.T) {
	plan, ok, err := InsertIfNotExists("{\n  \"a\": {}\n}", Path{"a", "b"}, 1)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = ApplyInsertion("{}", plan)
	assert.True(t, errors.Is(err, ErrOutOfRange), "error = %v", err)
}

func TestApplyInsertion_Splice(t *testing.T) {
	got, err := ApplyInsertion("ab\ncd", Plan{Position: Position{1, 1}, Text: "X"})
	require.NoError(t, err)
	assert.Equal(t, "ab\ncXd", got)
}
