// flush.go implements the "venvctl flush" command: the explicit
// clean-slate reset that removes the environment (if present) and
// builds a fresh one in its place.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/venvctl/internal/model"
	"github.com/shinji-kodama/venvctl/internal/pyfind"
)

// flushFlags holds the flag values for the flush command.
type flushFlags struct {
	python string // --python: host interpreter to rebuild with
}

// NewFlushCommand creates the "flush" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewFlushCommand() *cobra.Command {
	flags := &flushFlags{}

	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Remove and recreate the environment",
		Long: `Remove the environment (if it exists) and create a fresh one.

This is the clean-slate reset: unlike create, flush succeeds whether or
not an environment already exists at the root path.

Examples:
  venvctl flush
  venvctl --root /tmp/scratch-env flush`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runFlush(flags)
		},
	}

	cmd.Flags().StringVar(&flags.python, "python", "", "Host interpreter to build the environment with (default: discovered)")

	return cmd
}

// runFlush is the main logic function for the flush command.
func runFlush(flags *flushFlags) error {
	python := flags.python
	if python == "" {
		discovered, err := pyfind.Find()
		if err != nil {
			return model.WrapCLIError(model.ExitPythonNotFound, "no host Python interpreter available", err)
		}
		python = discovered
	}

	ctrl, _, err := newController([]string{python, "-m", "venv"})
	if err != nil {
		return err
	}

	VerboseLog("Flushing environment at %s...", ctrl.Env().Root)
	if err := ctrl.Remove(); err != nil {
		return model.WrapCLIError(model.ExitRemovalFailed, "could not remove the existing environment", err)
	}

	if _, err := ctrl.Create(); err != nil {
		return model.WrapCLIError(model.ExitCreationFailed, "environment recreation failed", err)
	}

	printCreateResult(ctrl.Env())
	return nil
}
