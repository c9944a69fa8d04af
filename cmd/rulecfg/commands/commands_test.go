package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/thoreinstein/rulecfg/internal/errors"
)

// testEnv points the tool configuration and backups at temporary
// directories and returns the path of a rule configuration file that does
// not exist yet.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("RULECFG_CONFIG_DIR", t.TempDir())
	t.Setenv("RULECFG_BACKUP_DIR", t.TempDir())
	t.Setenv("RULECFG_DEBUG", "")
	return filepath.Join(t.TempDir(), "rulecfg.json")
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

// resetFlags restores every flag to its default, since flag variables
// outlive a single execution.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const commented = `// project rules
{
  "analyzers": {
    "core": {
      "rules": {
        // noisy
        "no-unused-params": {
          "level": "warning"
        }
      }
    }
  }
}
`

func TestRuleConfigure_InsertsIntoExistingFile(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	out, err := execute(t, "rule", "configure", "max-params", "--level", "off", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Set analyzers.core.rules.max-params.level")

	got := readFile(t, file)
	assert.Contains(t, got, "// project rules")
	assert.Contains(t, got, "// noisy")
	assert.Contains(t, got, `"max-params"`)

	out, err = execute(t, "get", "analyzers.core.rules.max-params.level", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "off\n", out)
}

func TestRuleConfigure_ExistingLevelUnchanged(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	out, err := execute(t, "rule", "configure", "no-unused-params", "--level", "error", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "already set at "+file+":8:20")
	assert.Equal(t, commented, readFile(t, file))
}

func TestRuleConfigure_CreatesMissingFile(t *testing.T) {
	file := testEnv(t)

	_, err := execute(t, "rule", "configure", "max-params", "--file", file)
	require.NoError(t, err)

	out, err := execute(t, "get", "analyzers.core.rules.max-params.level", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "warning\n", out, "default_level applies when --level is omitted")
}

func TestRuleConfigure_DryRun(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	out, err := execute(t, "rule", "configure", "max-params", "--dry-run", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Would insert at "+file)
	assert.Equal(t, commented, readFile(t, file))
}

func TestRuleConfigure_LSP(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	out, err := execute(t, "rule", "configure", "max-params", "--lsp", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "workspace/applyEdit", gjson.Get(out, "method").String())
	assert.Contains(t, gjson.Get(out, "params.edit.documentChanges.0.edits.0.newText").String(), `"max-params"`)
	assert.Equal(t, commented, readFile(t, file))

	out, err = execute(t, "rule", "configure", "no-unused-params", "--lsp", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "window/showDocument", gjson.Get(out, "method").String())
	assert.Equal(t, int64(7), gjson.Get(out, "params.selection.start.line").Int())
}

func TestRuleConfigure_InvalidInput(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	_, err := execute(t, "rule", "configure", "max-params", "--level", "loud", "--file", file)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))

	writeFile(t, file, "{ not json")
	_, err = execute(t, "rule", "configure", "max-params", "--file", file)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))
	assert.Equal(t, "{ not json", readFile(t, file))
}

func TestRuleConfigure_BacksUpBeforeWriting(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	_, err := execute(t, "rule", "configure", "max-params", "--file", file)
	require.NoError(t, err)

	out, err := execute(t, "backup", "list", "--json", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.Get(out, "backups.#").Int())
	assert.Equal(t, int64(len(commented)), gjson.Get(out, "backups.0.size").Int())
}

func TestRuleList(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	_, err := execute(t, "rule", "configure", "max-params", "--level", "off", "--file", file)
	require.NoError(t, err)

	out, err := execute(t, "rule", "list", "--json", "--file", file)
	require.NoError(t, err)

	var rules []ruleEntry
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	assert.Equal(t, []ruleEntry{
		{Code: "max-params", Level: "off"},
		{Code: "no-unused-params", Level: "warning"},
	}, rules)

	out, err = execute(t, "rule", "list", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "RULE")
	assert.Contains(t, out, "no-unused-params")
}

func TestRuleList_DuplicateRuleUsesFirst(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, `{"analyzers":{"core":{"rules":{"x":{"level":"off"},"x":{"level":"error"}}}}}`+"\n// end")

	out, err := execute(t, "rule", "list", "--json", "--file", file)
	require.NoError(t, err)

	var rules []ruleEntry
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	assert.Equal(t, []ruleEntry{{Code: "x", Level: "off"}}, rules)

	out, err = execute(t, "get", "analyzers.core.rules.x.level", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "off\n", out)
}

func TestRuleList_MissingFile(t *testing.T) {
	file := testEnv(t)

	_, err := execute(t, "rule", "list", "--file", file)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestEnsure(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, "{}")

	_, err := execute(t, "ensure", "analyzers.core.verbose", "true", "--file", file)
	require.NoError(t, err)
	_, err = execute(t, "ensure", `moduleAliases.br.public\.registry`, `{"registry": "example.io"}`, "--file", file)
	require.NoError(t, err)
	_, err = execute(t, "ensure", "cloud.currentProfile", "AzureCloud", "--file", file)
	require.NoError(t, err)

	out, err := execute(t, "get", "analyzers.core.verbose", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = execute(t, "get", `moduleAliases.br.public\.registry`, "--file", file)
	require.NoError(t, err)
	assert.Equal(t, `{"registry":"example.io"}`+"\n", out)

	out, err = execute(t, "get", "cloud.currentProfile", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "AzureCloud\n", out)

	// Existing values are never overwritten.
	out, err = execute(t, "ensure", "analyzers.core.verbose", "false", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "already set")
}

func TestEnsure_Conflict(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, `{"analyzers": 1}`)

	_, err := execute(t, "ensure", "analyzers.core", "{}", "--file", file)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))
}

func TestGet_Missing(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	_, err := execute(t, "get", "analyzers.core.rules.other", "--file", file)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))

	out, err := execute(t, "get", "analyzers.core.rules", "--json", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "warning", gjson.Get(out, "value.no-unused-params.level").String())
	assert.Equal(t, file, gjson.Get(out, "file").String())
}

func TestCreate(t *testing.T) {
	file := testEnv(t)

	out, err := execute(t, "create", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+file)
	assert.Contains(t, readFile(t, file), "no-hardcoded-env-urls")

	_, err = execute(t, "create", "--file", file)
	require.Error(t, err)

	_, err = execute(t, "create", "--force", "--bare", "--file", file)
	require.NoError(t, err)
	assert.Empty(t, readFile(t, file))
}

func TestCreate_Overrides(t *testing.T) {
	file := testEnv(t)

	out, err := execute(t, "create", "--dry-run", "--file", file,
		"--set", "analyzers.core.rules.no-unused-params.level=off",
		"--set", "analyzers.core.verbose=true")
	require.NoError(t, err)
	assert.Equal(t, "off", gjson.Get(out, "analyzers.core.rules.no-unused-params.level").String())
	assert.True(t, gjson.Get(out, "analyzers.core.verbose").Bool())
	assert.NoFileExists(t, file)

	_, err = execute(t, "create", "--set", "novalue", "--file", file)
	require.Error(t, err)
}

func TestShow(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	out, err := execute(t, "show", "-o", "yaml", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "no-unused-params:")
	assert.Contains(t, out, "level: warning")

	out, err = execute(t, "show", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, commented, out)

	_, err = execute(t, "show", "-o", "ini", "--file", file)
	require.Error(t, err)
}

func TestQuery(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	out, err := execute(t, "query", "-r", ".analyzers.core.rules | keys[]", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "no-unused-params\n", out)

	_, err = execute(t, "query", ".[", "--file", file)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	_, err := execute(t, "validate", "--file", file)
	require.NoError(t, err)

	writeFile(t, file, `{"analyzers": {"core": {"rules": {"x": {"level": "loud"}}}}}`)
	_, err = execute(t, "validate", "--file", file)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))
}

func TestDoctor(t *testing.T) {
	file := testEnv(t)
	writeFile(t, file, commented)

	out, err := execute(t, "doctor", "--json", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gjson.Get(out, "summary.errors").Int())

	writeFile(t, file, "[1]")
	_, err = execute(t, "doctor", "--quiet", "--file", file)
	require.Error(t, err)
	assert.Equal(t, errors.ExitSystem, ExitCode(err))

	_, err = execute(t, "doctor", "--json", "--quiet", "--file", file)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))
}

func TestConfigSetGet(t *testing.T) {
	testEnv(t)

	_, err := execute(t, "config", "set", "default_level", "error")
	require.NoError(t, err)

	out, err := execute(t, "config", "get", "default_level")
	require.NoError(t, err)
	assert.Equal(t, "error\n", out)

	_, err = execute(t, "config", "set", "default_level", "loud")
	require.Error(t, err)

	_, err = execute(t, "config", "get", "nope")
	require.Error(t, err)
}

func TestInit(t *testing.T) {
	testEnv(t)

	out, err := execute(t, "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	out, err = execute(t, "init", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Use --force to overwrite")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rulecfg version")

	out, err = execute(t, "version", "--json")
	require.NoError(t, err)
	assert.True(t, gjson.Get(out, "version").Exists())
	assert.True(t, gjson.Get(out, "commit").Exists())
}

func TestGenDoc(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()

	out, err := execute(t, "gen-doc", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Documentation generated in")

	page := readFile(t, filepath.Join(dir, "rulecfg_rule_configure.md"))
	assert.Contains(t, page, `title: "rulecfg rule configure"`)
	assert.Contains(t, page, "description: \""+ruleConfigureCmd.Short+"\"")

	_, err = execute(t, "gen-doc", "--dir", dir, "--format", "pdf")
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, ExitCode(err))

	_, err = execute(t, "gen-doc")
	require.Error(t, err)
}
