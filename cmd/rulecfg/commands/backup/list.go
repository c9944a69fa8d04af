package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/internal/backup"
	"github.com/thoreinstein/rulecfg/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List the backups of the rule configuration file, most recent first.

The file is the one given by --file, or the nearest rulecfg.json found by
walking up from the working directory.`,
	Example: `  # List backups
  rulecfg backup list

  # Output as JSON
  rulecfg backup list --json

  See Also:
    rulecfg backup restore - Restore from a backup
    rulecfg backup create  - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listOutput represents the JSON output for backup list.
type listOutput struct {
	File    string       `json:"file"`
	Backups []infoOutput `json:"backups"`
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256"`
	ToolVersion string    `json:"tool_version"`
}

func runList(cmd *cobra.Command, _ []string) error {
	file, err := targetFile()
	if err != nil {
		return err
	}

	manifests, err := newManager().List(file)
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrapf(err, "listing backups for %s", file)
	}

	if listJSON {
		return outputListJSON(cmd.OutOrStdout(), file, manifests)
	}
	outputListTabular(cmd.OutOrStdout(), file, manifests)
	return nil
}

func outputListJSON(w io.Writer, file string, manifests []backup.Manifest) error {
	out := listOutput{File: file, Backups: make([]infoOutput, len(manifests))}
	for i, m := range manifests {
		out.Backups[i] = infoOutput{
			ID:          m.ID,
			CreatedAt:   m.CreatedAt,
			Size:        m.Size,
			SHA256:      m.SHA256Hash,
			ToolVersion: m.ToolVersion,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding output")
}

func outputListTabular(w io.Writer, file string, manifests []backup.Manifest) {
	fmt.Fprintf(w, "%sFile: %s%s\n", colorCyan+colorBold, file, colorReset)

	if len(manifests) == 0 {
		fmt.Fprintf(w, "  %s(no backups available)%s\n", colorGray, colorReset)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before rulecfg rewrites a file.")
		fmt.Fprintln(w, "You can also create a backup manually with: rulecfg backup create")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %sID%s\t%sCREATED%s\t%sSIZE%s\t%sVERSION%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, m := range manifests {
		fmt.Fprintf(tw, "  %s%s%s\t%s\t%d\t%s\n",
			colorGreen, m.ID, colorReset,
			m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			m.Size,
			m.ToolVersion)
	}
	tw.Flush()
}
