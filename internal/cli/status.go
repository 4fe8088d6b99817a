// status.go implements the "venvctl status" command.
//
// Status is a read-only report of the environment: lifecycle state,
// resolved paths, and — when the environment is present — the installed
// package set as reported by pip.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/venvctl/internal/consistency"
	"github.com/shinji-kodama/venvctl/internal/layout"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// NewStatusCommand creates the "status" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the environment's state and contents",
		Long: `Show the environment's lifecycle state, resolved paths, and installed
packages.

Examples:
  venvctl status
  venvctl --root /tmp/scratch-env status --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}

	return cmd
}

// runStatus is the main logic function for the status command.
func runStatus() error {
	ctrl, invoker, err := newController(nil)
	if err != nil {
		return err
	}

	state := ctrl.State()

	// The package listing is best-effort: status must work against a
	// broken environment, since inspecting one is its main use.
	var installed map[string]string
	if state == model.StatePresent {
		if result, invokeErr := invoker.Invoke("pip", "list", "--format=freeze"); invokeErr == nil && result.Success() {
			installed = consistency.ParseListOutput(result.Stdout)
		} else {
			VerboseLog("Could not list installed packages: %v", invokeErr)
		}
	}

	printStatus(ctrl.Env(), state, installed)
	return nil
}

// printStatus outputs the status in text or JSON format.
func printStatus(env *layout.Env, state model.EnvState, installed map[string]string) {
	if IsJSONOutput() {
		type statusJSON struct {
			Root        string            `json:"root"`
			State       string            `json:"state"`
			Platform    string            `json:"platform"`
			Interpreter string            `json:"interpreter"`
			BinDir      string            `json:"binDir"`
			Installed   map[string]string `json:"installed,omitempty"`
		}
		data, _ := json.MarshalIndent(statusJSON{
			Root:        env.Root,
			State:       state.String(),
			Platform:    env.Platform.String(),
			Interpreter: env.Interpreter,
			BinDir:      env.BinDir,
			Installed:   installed,
		}, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Environment: %s\n", env.Root)
	fmt.Printf("  State:       %s\n", state)
	fmt.Printf("  Platform:    %s\n", env.Platform)
	fmt.Printf("  Interpreter: %s\n", env.Interpreter)
	fmt.Printf("  Binaries:    %s\n", env.BinDir)

	if len(installed) > 0 {
		fmt.Println()
		fmt.Printf("  Packages (%d):\n", len(installed))
		report := &model.ConsistencyReport{Installed: installed}
		for _, name := range report.InstalledNames() {
			version := installed[name]
			if version == "" {
				fmt.Printf("    %s\n", name)
				continue
			}
			fmt.Printf("    %-24s %s\n", name, version)
		}
	}
}
