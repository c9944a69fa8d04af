package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/internal/backup"
	"github.com/thoreinstein/rulecfg/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"Number of backups to retain")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove backups of the rule configuration file beyond the retention count.

By default, keeps the 5 most recent backups and removes older ones.
Use the --keep flag to specify a different retention count.`,
	Example: `  # Keep the default (5) backups
  rulecfg backup prune

  # Keep only the 3 most recent backups
  rulecfg backup prune --keep 3

  # Remove all backups
  rulecfg backup prune --keep 0

  See Also:
    rulecfg backup list   - List available backups
    rulecfg backup create - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	if pruneKeep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	file, err := targetFile()
	if err != nil {
		return err
	}

	removed, err := newManager().Prune(file, pruneKeep)
	if err != nil {
		return errors.Wrapf(err, "pruning backups for %s", file)
	}

	w := cmd.OutOrStdout()
	if removed == 0 {
		fmt.Fprintln(w, "No backups to prune")
		return nil
	}
	fmt.Fprintf(w, "%s✓ %s: removed %d old backup(s)%s\n",
		colorGreen, file, removed, colorReset)
	return nil
}
