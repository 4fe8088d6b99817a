// Package cli implements the cobra-based CLI commands for venvctl.
//
// Each subcommand (create, remove, exec, check, flush, status) is
// defined in its own file within this package. This file defines the
// root command that serves as the parent for all subcommands and
// handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/venvctl/internal/invoke"
	"github.com/shinji-kodama/venvctl/internal/layout"
	"github.com/shinji-kodama/venvctl/internal/lifecycle"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// envRoot is the environment root directory every subcommand
	// operates on. Relative paths resolve against the working directory.
	envRoot string

	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information is printed to stderr.
	verbose bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action — it only
// provides help text and global flags. Actual functionality lives in
// the subcommands.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "venvctl",
		Short: "Isolated Python environment lifecycle manager",
		Long: `venvctl manages the lifecycle of an isolated Python environment:
creation, removal, running commands inside it, and validating that its
on-disk state matches a declared expected configuration.

The environment is a standard venv directory tree built by an external
tool (by default the host interpreter's venv module). venvctl never
requires shell activation — commands run inside the environment get the
equivalent PATH and VIRTUAL_ENV injection automatically.`,

		// We handle error output ourselves for cleaner UX, so cobra's
		// automatic usage/error printing is disabled.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	// PersistentFlags are inherited by all subcommands.
	rootCmd.PersistentFlags().StringVarP(&envRoot, "root", "r", ".venv", "Environment root directory")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Register subcommands. Each is defined in its own file and returns
	// a *cobra.Command.
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewExecCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewFlushCommand())
	rootCmd.AddCommand(NewStatusCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them
// into appropriate OS exit codes. CLIError types carry their own exit
// codes; known domain errors get their class-specific codes; anything
// else defaults to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(exitCodeFor(err)))
	}
}

// exitCodeFor maps domain errors that escaped without a CLIError
// wrapper to their class-specific exit codes.
func exitCodeFor(err error) model.ExitCode {
	var creationErr *model.CreationError
	var removalErr *model.RemovalError
	var consistencyErr *model.ConsistencyError

	switch {
	case errors.Is(err, model.ErrEnvironmentAbsent):
		return model.ExitEnvNotFound
	case errors.As(err, &creationErr):
		return model.ExitCreationFailed
	case errors.As(err, &removalErr):
		return model.ExitRemovalFailed
	case errors.As(err, &consistencyErr):
		return model.ExitGeneralError
	default:
		return model.ExitGeneralError
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode — stdout is reserved
		// for successful command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is
// enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}

// newController resolves the environment layout for the --root flag and
// wires up the invoker and lifecycle controller every subcommand needs.
func newController(builder []string) (*lifecycle.Controller, *invoke.Invoker, error) {
	env, err := layout.ResolveHost(envRoot)
	if err != nil {
		return nil, nil, model.WrapCLIError(model.ExitGeneralError, "invalid environment root", err)
	}

	invoker := invoke.New(env)

	var opts []lifecycle.Option
	if len(builder) > 0 {
		opts = append(opts, lifecycle.WithBuilder(builder...))
	}
	return lifecycle.NewController(env, invoker, opts...), invoker, nil
}
