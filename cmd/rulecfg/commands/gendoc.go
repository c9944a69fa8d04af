package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/rulecfg/internal/errors"
)

var (
	genDocDir    string
	genDocFormat string
)

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "Output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "Documentation format: markdown or man")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runGenDoc,
}

func runGenDoc(cmd *cobra.Command, _ []string) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "Run: rulecfg gen-doc --dir docs/reference")
	}
	if err := os.MkdirAll(genDocDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	root := cmd.Root()
	root.DisableAutoGenTag = true

	var err error
	switch genDocFormat {
	case "markdown", "md":
		err = doc.GenMarkdownTreeCustom(root, genDocDir, frontMatter(root), referenceLink)
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{Title: "RULECFG", Section: "1"}, genDocDir)
	default:
		return errors.NewUserError(errors.Newf("unknown documentation format %q", genDocFormat), "Use --format markdown or --format man")
	}
	if err != nil {
		return errors.Wrapf(err, "generating %s documentation", genDocFormat)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
	return nil
}

// frontMatter returns a prepender that heads each page with the command's
// path and short description, e.g. rulecfg_rule_configure.md gets the
// title "rulecfg rule configure".
func frontMatter(root *cobra.Command) func(string) string {
	short := make(map[string]string)
	var walk func(*cobra.Command)
	walk = func(c *cobra.Command) {
		short[strings.ReplaceAll(c.CommandPath(), " ", "_")] = c.Short
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)

	return func(filename string) string {
		base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
		title := strings.ReplaceAll(base, "_", " ")
		desc := short[base]
		if desc == "" {
			desc = "Reference for " + title
		}
		return fmt.Sprintf("---\ntitle: %q\ndescription: %q\n---\n\n", title, desc)
	}
}

func referenceLink(name string) string {
	return "../" + strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) + "/"
}
