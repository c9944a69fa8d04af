package template

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

func TestDefault(t *testing.T) {
	doc := Default()
	assert.Contains(t, doc, "// Rule settings")

	tree, err := jsonedit.Parse(doc)
	require.NoError(t, err)
	assert.False(t, tree.Empty())

	raw, ok, err := jsonedit.Lookup(doc, jsonedit.MustParsePath("analyzers.core.rules.no-unused-params.level"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `"warning"`, raw)
}

func TestParseOverride(t *testing.T) {
	tests := []struct {
		in      string
		want    Override
		wantErr bool
	}{
		{"analyzers.core.verbose=true", Override{jsonedit.Path{"analyzers", "core", "verbose"}, "true"}, false},
		{"a.level=off", Override{jsonedit.Path{"a", "level"}, `"off"`}, false},
		{`a.level="off"`, Override{jsonedit.Path{"a", "level"}, `"off"`}, false},
		{"a.hosts=[\"x\"]", Override{jsonedit.Path{"a", "hosts"}, `["x"]`}, false},
		{"a=", Override{jsonedit.Path{"a"}, `""`}, false},
		{"novalue", Override{}, true},
		{"=1", Override{}, true},
		{"a..b=1", Override{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOverride(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidOverride), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Unchanged(t *testing.T) {
	got, err := Render(2)
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestRender_IndentKeepsComments(t *testing.T) {
	got, err := Render(4)
	require.NoError(t, err)

	assert.Contains(t, got, "\n    // Rule settings")
	assert.Contains(t, got, "\n        \"core\": {")
	assert.Equal(t, strings.Count(Default(), "\n"), strings.Count(got, "\n"))

	std, err := hujson.Standardize([]byte(got))
	require.NoError(t, err)
	assert.Equal(t, "warning", gjson.GetBytes(std, "analyzers.core.rules.no-unused-params.level").String())

	got, err = Render(0)
	require.NoError(t, err)
	assert.Contains(t, got, "\n// Rule settings")
}

func TestRender_Overrides(t *testing.T) {
	level, err := ParseOverride("analyzers.core.rules.no-unused-params.level=off")
	require.NoError(t, err)
	added, err := ParseOverride("analyzers.core.rules.secure-secrets.level=error")
	require.NoError(t, err)

	got, err := Render(4, level, added)
	require.NoError(t, err)

	assert.NotContains(t, got, "//")
	assert.Contains(t, got, "\n    \"analyzers\"")
	_, err = hujson.Parse([]byte(got))
	require.NoError(t, err)

	assert.Equal(t, "off", gjson.Get(got, "analyzers.core.rules.no-unused-params.level").String())
	assert.Equal(t, "error", gjson.Get(got, "analyzers.core.rules.secure-secrets.level").String())
	assert.Equal(t, "warning", gjson.Get(got, "analyzers.core.rules.no-unused-vars.level").String())

	// Key order of the template is preserved.
	assert.Less(t, strings.Index(got, "verbose"), strings.Index(got, "rules"))
}

func TestRender_NegativeIndent(t *testing.T) {
	_, err := Render(-1)
	assert.Error(t, err)
}
