package jsonedit

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Path
		wantErr bool
	}{
		{"single segment", "analyzers", Path{"analyzers"}, false},
		{"dotted", "analyzers.core.rules", Path{"analyzers", "core", "rules"}, false},
		{"rule name with dashes", "rules.no-unused-params.level", Path{"rules", "no-unused-params", "level"}, false},
		{"escaped dot", `a\.b.c`, Path{"a.b", "c"}, false},
		{"escaped backslash", `a\\.b`, Path{`a\`, "b"}, false},
		{"empty", "", nil, true},
		{"leading dot", ".a", nil, true},
		{"trailing dot", "a.", nil, true},
		{"double dot", "a..b", nil, true},
		{"dangling escape", `a\`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("ParsePath(%q) error = %v, want ErrInvalidArgument", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePath(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParsePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPath_StringRoundTrip(t *testing.T) {
	paths := []Path{
		{"a"},
		{"a.b", "c"},
		{`back\slash`, "x.y.z"},
		{"名前", "no-unused-params"},
	}
	for _, p := range paths {
		got, err := ParsePath(p.String())
		if err != nil {
			t.Fatalf("ParsePath(%q) error: %v", p.String(), err)
		}
		if !reflect.DeepEqual(got, p) {
			t.Errorf("round trip of %q = %q", p, got)
		}
	}
}

func TestPath_GJSON(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{Path{"analyzers", "core"}, "analyzers.core"},
		{Path{"a.b", "c"}, `a\.b.c`},
		{Path{"what?", "*", "#"}, `what\?.\*.\#`},
		{Path{"no-unused-params"}, "no-unused-params"},
	}
	for _, tt := range tests {
		if got := tt.path.GJSON(); got != tt.want {
			t.Errorf("GJSON(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPath_Append(t *testing.T) {
	base := Path{"analyzers", "core", "rules"}
	got := base.Append("x", "level")
	if !reflect.DeepEqual(got, Path{"analyzers", "core", "rules", "x", "level"}) {
		t.Errorf("Append = %q", got)
	}
	if len(base) != 3 {
		t.Errorf("Append modified the receiver: %q", base)
	}
}

func TestMustParsePath_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParsePath did not panic on an empty path")
		}
	}()
	MustParsePath("")
}
