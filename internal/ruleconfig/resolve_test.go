package ruleconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	file, exists, err := Resolve(nested, "rulecfg.json")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(nested, "rulecfg.json"), file)

	want := filepath.Join(root, "a", "rulecfg.json")
	require.NoError(t, os.WriteFile(want, []byte("{}"), 0o644))

	file, exists, err = Resolve(nested, "rulecfg.json")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, want, file)

	_, _, err = Resolve(nested, "../rulecfg.json")
	assert.Error(t, err)
}
