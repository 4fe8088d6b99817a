// remove.go implements the "venvctl remove" command.
//
// Remove deletes the entire environment directory tree. Removing an
// absent environment succeeds silently — deletion is idempotent.
//
// By default, the command prompts for confirmation before proceeding.
// The --force flag skips the confirmation prompt.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/venvctl/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	// force skips the interactive confirmation prompt when true.
	force bool
}

// NewRemoveCommand creates the "remove" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove the environment",
		Long: `Remove the environment directory tree at the root path.

Removing an environment that does not exist is a no-op. Unless --force
is specified, the command prompts for confirmation.

Examples:
  venvctl remove
  venvctl remove --force
  venvctl --root /tmp/scratch-env remove -f`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

// runRemove is the main logic function for the remove command.
func runRemove(flags *removeFlags) error {
	ctrl, _, err := newController(nil)
	if err != nil {
		return err
	}

	if !ctrl.Exists() {
		// Idempotent: nothing to delete is success, not failure.
		VerboseLog("Environment at %s does not exist, nothing to remove", ctrl.Env().Root)
		printRemoveResult(ctrl.Env().Root, false)
		return nil
	}

	if !flags.force {
		confirmed, err := promptConfirmation(ctrl.Env().Root)
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to read user input", err)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitGeneralError, "operation cancelled by user")
		}
	}

	VerboseLog("Removing environment at %s...", ctrl.Env().Root)
	if err := ctrl.Remove(); err != nil {
		// Deletion was blocked partway; the tree is indeterminate.
		return model.WrapCLIError(model.ExitRemovalFailed, "environment removal failed — re-run status to inspect what remains", err)
	}

	printRemoveResult(ctrl.Env().Root, true)
	return nil
}

// promptConfirmation asks the user to confirm the removal on stdin.
// Returns true only for an explicit "y"/"yes" answer.
func promptConfirmation(root string) (bool, error) {
	fmt.Printf("Remove environment %s and everything in it? [y/N]: ", root)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// printRemoveResult outputs the remove result in text or JSON format.
func printRemoveResult(root string, removed bool) {
	if IsJSONOutput() {
		fmt.Printf("{\n  \"root\": %q,\n  \"removed\": %t\n}\n", root, removed)
		return
	}
	if removed {
		fmt.Printf("Removed environment at %s\n", root)
	} else {
		fmt.Printf("No environment at %s\n", root)
	}
}
