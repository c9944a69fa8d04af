package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/internal/backup"
	"github.com/thoreinstein/rulecfg/internal/errors"
)

func init() {
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore from a backup",
	Long: `Restore the rule configuration file from a backup.

If no backup ID is provided, restores the most recent backup. The stored copy
is verified against its SHA256 hash before anything is written, and the
current contents are backed up first so a restore can itself be undone.`,
	Example: `  # Restore the most recent backup
  rulecfg backup restore

  # Restore a specific backup
  rulecfg backup restore 20261018T100712

  See Also:
    rulecfg backup list   - List available backups
    rulecfg backup create - Create a new backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRestore,
}

func runRestore(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	file, err := targetFile()
	if err != nil {
		return err
	}
	mgr := newManager()

	var backupID string
	if len(args) > 0 {
		backupID = args[0]
	} else {
		manifests, err := mgr.List(file)
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				return errors.NewUserError(errors.Newf("no backups found for %s", file), "Run: rulecfg backup list")
			}
			return errors.Wrap(err, "listing backups")
		}
		backupID = manifests[0].ID
		fmt.Fprintf(w, "Using most recent backup: %s\n", backupID)
	}

	safety, err := mgr.Restore(file, backupID)
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(errors.Newf("backup %s not found for %s", backupID, file), "Run: rulecfg backup list")
		}
		return errors.Wrap(err, "restoring backup")
	}

	if safety != nil {
		fmt.Fprintf(w, "Previous contents saved as backup %s\n", safety.ID)
	}
	fmt.Fprintf(w, "%s✓ Restored %s from backup %s%s\n",
		colorGreen, file, backupID, colorReset)
	return nil
}
