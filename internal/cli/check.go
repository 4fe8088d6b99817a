// check.go implements the "venvctl check" command.
//
// Check validates the environment against an expected configuration and
// reports every discrepancy. The check itself is read-only; drift is
// reported, never auto-corrected.
//
// Exit codes distinguish the three outcomes scripts care about:
// 0 the environment is consistent, 7 the check ran and found drift,
// 6 there was no environment to check at all.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/venvctl/internal/config"
	"github.com/shinji-kodama/venvctl/internal/consistency"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// checkFlags holds the flag values for the check command.
type checkFlags struct {
	configPath string // --config: expected-configuration file (JSONC or YAML)
	strict     bool   // --strict: report unexpected installed packages
}

// NewCheckCommand creates the "check" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the environment against an expected configuration",
		Long: `Check that the environment's on-disk state matches an expected
configuration: interpreter presence, required packages, and required
directories.

Without --config, the default expectation is used: the interpreter and
the pip package must be present. Configuration files may be JSONC
(.json) or YAML (.yaml/.yml):

  {
    // required package names, checked in order
    "packages": ["pip", "requests"],
    "directories": ["lib/python*/site-packages"],
    "strict": false
  }

Examples:
  venvctl check
  venvctl check --config expected.json
  venvctl check --config expected.yaml --strict`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Expected-configuration file (JSONC or YAML)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "Report installed packages outside the expected set")

	return cmd
}

// runCheck is the main logic function for the check command.
func runCheck(flags *checkFlags) error {
	expected, err := config.LoadOrDefault(flags.configPath)
	if err != nil {
		return err // config.Load already returns CLIError
	}
	if flags.strict {
		expected.Strict = true
	}

	ctrl, invoker, err := newController(nil)
	if err != nil {
		return err
	}

	checker := consistency.NewChecker(ctrl.Env(), invoker)

	VerboseLog("Checking environment at %s (%d expected packages, %d required directories)",
		ctrl.Env().Root, len(expected.Packages), len(expected.Directories))

	report, err := checker.Check(expected)
	if err != nil {
		if errors.Is(err, model.ErrEnvironmentAbsent) {
			return model.WrapCLIError(
				model.ExitEnvNotFound,
				fmt.Sprintf("no environment at %s", ctrl.Env().Root),
				err,
			)
		}
		return model.WrapCLIError(model.ExitGeneralError, "consistency check could not run", err)
	}

	printCheckResult(ctrl.Env().Root, report)

	if !report.Pass() {
		return model.NewCLIError(
			model.ExitDriftDetected,
			fmt.Sprintf("environment is inconsistent (%d discrepancies)", len(report.Discrepancies)),
		)
	}
	return nil
}

// printCheckResult outputs the check result in text or JSON format.
func printCheckResult(root string, report *model.ConsistencyReport) {
	if IsJSONOutput() {
		type resultJSON struct {
			Root          string              `json:"root"`
			Pass          bool                `json:"pass"`
			Discrepancies []model.Discrepancy `json:"discrepancies,omitempty"`
			Installed     map[string]string   `json:"installed,omitempty"`
		}
		data, _ := json.MarshalIndent(resultJSON{
			Root:          root,
			Pass:          report.Pass(),
			Discrepancies: report.Discrepancies,
			Installed:     report.Installed,
		}, "", "  ")
		fmt.Println(string(data))
		return
	}

	if report.Pass() {
		fmt.Printf("Environment %s is consistent (%d packages installed)\n", root, len(report.Installed))
		return
	}

	fmt.Printf("Environment %s has %d discrepancies:\n", root, len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		fmt.Printf("  - %s\n", d)
	}
}
