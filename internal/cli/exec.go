// exec.go implements the "venvctl exec" command.
//
// Exec runs one command inside the environment with the equivalent of
// shell activation: the environment's binary directory is consulted
// first when resolving the command name, and the child process gets
// VIRTUAL_ENV plus a bin-dir-first PATH.
//
// The child's captured stdout/stderr are relayed to the corresponding
// streams, and its exit code becomes the venvctl exit code, so exec
// composes transparently in scripts and CI pipelines.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/venvctl/internal/invoke"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// execFlags holds the flag values for the exec command.
type execFlags struct {
	cwd string // --cwd: working directory for the child process
}

// NewExecCommand creates the "exec" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewExecCommand() *cobra.Command {
	flags := &execFlags{}

	cmd := &cobra.Command{
		Use:   "exec <binary> [args...]",
		Short: "Run a command inside the environment",
		Long: `Run a command inside the environment without shell activation.

The binary name is resolved against the environment's binary directory
first, then the host PATH. Use "--" to stop venvctl's own flag parsing.

Examples:
  venvctl exec -- pip install requests
  venvctl exec -- python -c "print(1)"
  venvctl --root /tmp/scratch-env exec -- python --version`,

		Args: cobra.MinimumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(args[0], args[1:], flags)
		},
	}

	cmd.Flags().StringVar(&flags.cwd, "cwd", "", "Working directory for the command (default: current directory)")

	return cmd
}

// runExec is the main logic function for the exec command.
func runExec(binary string, args []string, flags *execFlags) error {
	ctrl, invoker, err := newController(nil)
	if err != nil {
		return err
	}

	// Exec never creates the environment implicitly — a typo in --root
	// silently building a venv would be a nasty surprise.
	if !ctrl.Exists() {
		return model.WrapCLIError(
			model.ExitEnvNotFound,
			fmt.Sprintf("no environment at %s (run \"venvctl create\" first)", ctrl.Env().Root),
			model.ErrEnvironmentAbsent,
		)
	}

	VerboseLog("Running %s inside %s", binary, ctrl.Env().Root)
	result, err := invoker.InvokeWith(binary, args, invoke.Options{Dir: flags.cwd})
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "command could not be started", err)
	}

	// Relay the captured streams so exec behaves like running the
	// command directly.
	fmt.Fprint(os.Stdout, result.Stdout)
	fmt.Fprint(os.Stderr, result.Stderr)

	if !result.Success() {
		// Propagate the child's exit code. The message stays on our
		// side of the contract: the command ran, it just failed.
		return model.NewCLIError(model.ExitCode(result.ExitCode), fmt.Sprintf("command exited with code %d", result.ExitCode))
	}
	return nil
}
