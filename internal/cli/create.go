// create.go implements the "venvctl create" command.
//
// Create builds a fresh environment at the --root path by invoking the
// external builder tool. Creating over an existing environment is an
// error — "venvctl flush" is the explicit recreate path.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/venvctl/internal/layout"
	"github.com/shinji-kodama/venvctl/internal/model"
	"github.com/shinji-kodama/venvctl/internal/pyfind"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	python string // --python: host interpreter to build with
}

// NewCreateCommand creates the "create" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the environment",
		Long: `Create the isolated Python environment at the root path.

The environment is built by running "<python> -m venv <root>" with a host
interpreter discovered on PATH (override with --python or the
VENVCTL_PYTHON environment variable).

Examples:
  venvctl create
  venvctl --root /tmp/scratch-env create
  venvctl create --python /usr/local/bin/python3.12`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(flags)
		},
	}

	cmd.Flags().StringVar(&flags.python, "python", "", "Host interpreter to build the environment with (default: discovered)")

	return cmd
}

// runCreate is the main logic function for the create command.
func runCreate(flags *createFlags) error {
	python := flags.python
	if python == "" {
		discovered, err := pyfind.Find()
		if err != nil {
			return model.WrapCLIError(model.ExitPythonNotFound, "no host Python interpreter available", err)
		}
		python = discovered
	}

	version, err := pyfind.Verify(python)
	if err != nil {
		return model.WrapCLIError(model.ExitPythonNotFound, "host Python interpreter is unusable", err)
	}
	VerboseLog("Building with %s (%s)", python, version)

	ctrl, _, err := newController([]string{python, "-m", "venv"})
	if err != nil {
		return err
	}

	VerboseLog("Creating environment at %s...", ctrl.Env().Root)
	result, err := ctrl.Create()
	if err != nil {
		if result != nil && result.Stderr != "" {
			VerboseLog("Builder stderr: %s", result.Stderr)
		}
		return model.WrapCLIError(model.ExitCreationFailed, "environment creation failed", err)
	}

	printCreateResult(ctrl.Env())
	return nil
}

// printCreateResult outputs the create result in text or JSON format.
func printCreateResult(env *layout.Env) {
	if IsJSONOutput() {
		result := map[string]string{
			"root":        env.Root,
			"interpreter": env.Interpreter,
			"binDir":      env.BinDir,
			"platform":    env.Platform.String(),
			"state":       model.StatePresent.String(),
		}
		data, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Created environment at %s\n", env.Root)
	fmt.Printf("  Interpreter: %s\n", env.Interpreter)
	fmt.Printf("  Binaries:    %s\n", env.BinDir)
}
