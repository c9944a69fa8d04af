package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/rulecfg/internal/config"
)

var (
	initYes   bool
	initForce bool
)

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Non-interactive mode, accept all defaults")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize rulecfg configuration",
	Long: `Write ~/.config/rulecfg/config.yaml with the default settings.

The defaults look for rulecfg.json, keep rules under analyzers.core.rules,
configure new rules at level warning, and back files up before editing.`,
	Example: `  # Initialize with a confirmation prompt
  rulecfg init

  # Initialize non-interactively
  rulecfg init --yes

  # Overwrite existing configuration
  rulecfg init --force

  See Also: rulecfg config, rulecfg doctor`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()
	configPath := config.File()

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Fprintf(w, "Configuration already exists at %s\n", configPath)
		fmt.Fprintln(w, "Use --force to overwrite")
		return nil
	}

	if !initYes {
		fmt.Fprintln(w, "This will create:")
		fmt.Fprintf(w, "  %s\n", configPath)
		fmt.Fprintln(w)

		if !confirm(cmd.InOrStdin(), w, "Proceed?") {
			fmt.Fprintln(w, "Aborted")
			return nil
		}
	}

	if err := config.Save(configPath, config.Default()); err != nil {
		return err
	}

	fmt.Fprintf(w, "Created %s\n", configPath)
	return nil
}

// confirm prompts the user for a yes/no confirmation.
// Returns true only if the user enters "y" or "yes" (case-insensitive).
func confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N] ", prompt)

	response, err := bufio.NewReader(r).ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
