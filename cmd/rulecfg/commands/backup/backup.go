// Package backup provides CLI commands for managing rule configuration backups.
package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/cmd/rulecfg/commands/flags"
	"github.com/thoreinstein/rulecfg/internal/backup"
	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/paths"
)

// Color constants for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage rule configuration backups",
	Long: `Manage backups of the rule configuration file.

Before rulecfg rewrites an existing file it copies the current contents into
the backup directory, once per run. Backups are kept per file, so restoring
never touches another project's configuration.

Backups are stored in ~/.local/share/rulecfg/backups/ unless
RULECFG_BACKUP_DIR is set.`,
	Example: `  # List backups of the nearest rulecfg.json
  rulecfg backup list

  # Restore the most recent backup
  rulecfg backup restore

  # Restore a specific backup of another file
  rulecfg backup restore 20261018T100712 --file ../svc/rulecfg.json

  # Remove old backups, keeping the 3 most recent
  rulecfg backup prune --keep 3

  See Also:
    rulecfg backup list    - List available backups
    rulecfg backup restore - Restore from a backup
    rulecfg backup create  - Manually create a backup
    rulecfg backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// newManager returns a backup manager honoring the configured retention.
func newManager() *backup.Manager {
	return backup.NewManager(
		backup.WithBackupDir(paths.BackupDir()),
		backup.WithRetentionCount(config.Current().Backup.Retention),
	)
}

// targetFile resolves the file whose backups a command works on.
func targetFile() (string, error) {
	file, _, err := flags.TargetFile()
	if err != nil {
		return "", errors.Wrap(err, "resolving configuration file")
	}
	return file, nil
}
