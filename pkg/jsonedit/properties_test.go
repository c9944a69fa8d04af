package jsonedit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

// documents exercise every anchor shape the planner knows about.
var documents = map[string]string{
	"empty":         "",
	"whitespace":    "  \n\t\n",
	"comments only": "// Well hello there\n\n// again",
	"block comment": "/* header */",
	"compact empty": "{}",
	"spaced empty":  "{ }",
	"multiline empty": `{
}`,
	"compact":         `{"analyzers":{"core":{"enabled":true}}}`,
	"trailing comma":  "{\n  \"a\": 1,\n}",
	"crlf":            "{\r\n  \"analyzers\": {\r\n    \"core\": {}\r\n  }\r\n}\r\n",
	"crlf compact":    "{\"analyzers\": {}}\r\n// end\r\n",
	"comment at eof":  "{\n  \"a\": 1\n}\n// end of settings",
	"same-line tail":  `{"analyzers": {}} // rule settings`,
	"byte order mark": "\ufeff{\n  \"a\": 1\n}\n",
	"bom only":        "\ufeff",
	"full config": `// rule settings
{
  /* analyzers */
  "analyzers": {
    "core": {
      "verbose": false, // trailing
      "rules": {
        "no-hardcoded-env-urls": {
          "level": "warning",
          "disallowedhosts": ["management.core.windows.net"]
        }
      }
    }
  },
  "cloud": {"currentProfile": "AzureCloud"}
}
`,
	"unicode": "{\n  \"名前\": {\"😀\": 1}\n}",
}

var paths = []Path{
	{"analyzers", "core", "rules", "no-unused-params", "level"},
	{"analyzers", "core", "enabled"},
	{"cloud", "profiles", "x"},
	{"with.dot", "and space"},
	{"名前", "新しい"},
}

var values = []any{
	"warning",
	42,
	false,
	nil,
	[]string{"a", "b"},
	map[string]any{"level": "off", "nested": map[string]any{"k": []int{1}}},
}

func TestProperties(t *testing.T) {
	for docName, doc := range documents {
		for _, path := range paths {
			for _, value := range values {
				name := docName + "/" + path.String()
				plan, ok, err := InsertIfNotExists(doc, path, value)
				if err != nil {
					t.Fatalf("%s: InsertIfNotExists error: %v", name, err)
				}
				if !ok {
					// Already present: the document must not change.
					continue
				}

				got, err := ApplyInsertion(doc, plan)
				if err != nil {
					t.Fatalf("%s: ApplyInsertion error: %v", name, err)
				}

				checkNonDestructive(t, name, doc, got, plan)
				checkLineBreaks(t, name, doc, got)
				checkIdempotent(t, name, got, path, value)
				checkRoundTrip(t, name, got, path, value)
			}
		}
	}
}

func checkNonDestructive(t *testing.T, name, before, after string, plan Plan) {
	t.Helper()
	off, err := NewLineTable(before).Offset(plan.Position)
	if err != nil {
		t.Fatalf("%s: plan position %v does not fit: %v", name, plan.Position, err)
	}
	if !strings.HasPrefix(after, before[:off]) {
		t.Errorf("%s: text before the insertion point changed", name)
	}
	if !strings.HasSuffix(after, before[off:]) {
		t.Errorf("%s: text after the insertion point changed", name)
	}
	if len(after) != len(before)+len(plan.Text) {
		t.Errorf("%s: length %d, want %d", name, len(after), len(before)+len(plan.Text))
	}
}

// checkLineBreaks requires CRLF documents to stay CRLF throughout.
func checkLineBreaks(t *testing.T, name, before, after string) {
	t.Helper()
	if !strings.Contains(before, "\r\n") {
		return
	}
	if strings.Count(after, "\n") != strings.Count(after, "\r\n") {
		t.Errorf("%s: mixed line breaks in result: %q", name, after)
	}
}

func checkIdempotent(t *testing.T, name, text string, path Path, value any) {
	t.Helper()
	_, ok, err := InsertIfNotExists(text, path, value)
	if err != nil {
		t.Fatalf("%s: second InsertIfNotExists error: %v\n%s", name, err, text)
	}
	if ok {
		t.Errorf("%s: second InsertIfNotExists planned another insertion\n%s", name, text)
	}
}

func checkRoundTrip(t *testing.T, name, text string, path Path, value any) {
	t.Helper()
	v, err := hujson.Parse(Source(text))
	if err != nil {
		t.Fatalf("%s: result is not valid JSONC: %v\n%s", name, err, text)
	}
	v.Standardize()
	std := v.Pack()
	if !json.Valid(std) {
		t.Fatalf("%s: standardized result is not JSON:\n%s", name, std)
	}

	res := gjson.GetBytes(std, path.GJSON())
	if !res.Exists() {
		t.Fatalf("%s: path %q missing from result:\n%s", name, path.String(), text)
	}
	want, _ := json.Marshal(value)
	if !jsonEqual(t, want, []byte(res.Raw)) {
		t.Errorf("%s: value = %s, want %s", name, res.Raw, want)
	}
}

func jsonEqual(t *testing.T, a, b []byte) bool {
	t.Helper()
	var va, vb any
	if err := json.Unmarshal(a, &va); err != nil {
		t.Fatalf("unmarshal %s: %v", a, err)
	}
	if err := json.Unmarshal(b, &vb); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	ja, _ := json.Marshal(va)
	jb, _ := json.Marshal(vb)
	return string(ja) == string(jb)
}

func TestProperties_EmptyPathAlwaysInvalid(t *testing.T) {
	for name, doc := range documents {
		if _, _, err := InsertIfNotExists(doc, Path{}, 1); err == nil {
			t.Errorf("%s: empty path accepted", name)
		}
	}
}
