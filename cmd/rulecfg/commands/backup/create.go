package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/internal/backup"
	"github.com/thoreinstein/rulecfg/internal/errors"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manual backup",
	Long: `Create a backup of the rule configuration file.

Backups are created automatically before rulecfg rewrites a file.
This command allows you to create additional backups manually, for example
before editing the file by hand.`,
	Example: `  rulecfg backup create
  rulecfg backup create --file ./svc/rulecfg.json

  See Also:
    rulecfg backup list    - List available backups
    rulecfg backup restore - Restore from a backup`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	file, err := targetFile()
	if err != nil {
		return err
	}

	m, err := newManager().Backup(file)
	if err != nil {
		if errors.Is(err, backup.ErrNothingToBackUp) {
			return errors.NewUserError(errors.Newf("%s does not exist", file), "Run: rulecfg create")
		}
		return errors.Wrap(err, "creating backup")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s✓ Created backup %s of %s%s\n",
		colorGreen, m.ID, file, colorReset)
	return nil
}
