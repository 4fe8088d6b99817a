// errors.go defines the error taxonomy shared across the library packages.
//
// The propagation policy: external tools telling us something is wrong
// (non-zero exit, failed check) produces a value (CommandResult,
// ConsistencyReport); only inability to perform the operation at all —
// unreachable binary, refused spawn, blocked deletion — is an error.
// Callers can rely on errors.Is/errors.As throughout because every typed
// error here implements Unwrap.
package model

import (
	"errors"
	"fmt"
)

// ErrEnvironmentAbsent is the sentinel for operations that require an
// existing environment. It is wrapped by ConsistencyError when a check
// is attempted against a missing environment.
var ErrEnvironmentAbsent = errors.New("environment does not exist")

// ErrEnvironmentPresent is the sentinel for create attempts against a
// root that already holds an environment. Use flush to recreate.
var ErrEnvironmentPresent = errors.New("environment already exists")

// PathResolutionError indicates the environment root path is empty or
// malformed. Resolution is purely lexical, so this error never means
// "the environment does not exist" — existence is checked elsewhere.
type PathResolutionError struct {
	// Root is the offending root path as given by the caller.
	Root string

	// Reason explains what made the path unusable.
	Reason string
}

// Error satisfies the error interface.
func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve environment paths for root %q: %s", e.Root, e.Reason)
}

// InvocationError indicates a binary could not be located or the OS
// refused to start the process. A started process that exits non-zero
// is NOT an InvocationError — that outcome lives in CommandResult.
type InvocationError struct {
	// Binary is the name the caller asked to run.
	Binary string

	// Err is the underlying lookup or spawn failure.
	Err error
}

// Error satisfies the error interface.
func (e *InvocationError) Error() string {
	return fmt.Sprintf("cannot invoke %q: %v", e.Binary, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *InvocationError) Unwrap() error {
	return e.Err
}

// CreationError indicates the external environment builder tool failed
// or could not be invoked. When the tool ran and exited non-zero,
// Result carries its captured output; when the tool could not be
// started, Result is nil and Err holds the InvocationError.
//
// No rollback is attempted on failure — the directory tree is left
// as-is and the caller must retry or remove.
type CreationError struct {
	// Root is the environment root the creation targeted.
	Root string

	// Result is the builder tool's captured outcome, nil if the tool
	// never started.
	Result *CommandResult

	// Err is the underlying cause.
	Err error
}

// Error satisfies the error interface.
func (e *CreationError) Error() string {
	if e.Result != nil {
		return fmt.Sprintf("failed to create environment at %s: builder %s", e.Root, e.Result)
	}
	return fmt.Sprintf("failed to create environment at %s: %v", e.Root, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *CreationError) Unwrap() error {
	return e.Err
}

// RemovalError indicates deletion of the environment tree was blocked,
// leaving the environment in an indeterminate state. Callers must
// re-query existence to learn what actually happened.
type RemovalError struct {
	// Root is the environment root the removal targeted.
	Root string

	// Err is the underlying filesystem error.
	Err error
}

// Error satisfies the error interface.
func (e *RemovalError) Error() string {
	return fmt.Sprintf("failed to remove environment at %s: %v", e.Root, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *RemovalError) Unwrap() error {
	return e.Err
}

// ConsistencyError indicates the consistency check itself could not run —
// the environment is absent or the package-listing command failed. This
// is distinct from a failing ConsistencyReport, which is a normal result.
type ConsistencyError struct {
	// Root is the environment root the check targeted.
	Root string

	// Result is the listing command's captured outcome when it ran and
	// failed, nil otherwise.
	Result *CommandResult

	// Err is the underlying cause (ErrEnvironmentAbsent, an
	// InvocationError, or a parse failure).
	Err error
}

// Error satisfies the error interface.
func (e *ConsistencyError) Error() string {
	if e.Result != nil {
		return fmt.Sprintf("consistency check failed for %s: listing %s: %v", e.Root, e.Result, e.Err)
	}
	return fmt.Sprintf("consistency check failed for %s: %v", e.Root, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// ExitCode defines the CLI exit codes. These codes allow scripts and CI
// systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the expected-configuration file was not
	// found or could not be parsed.
	ExitConfigError ExitCode = 2

	// ExitPythonNotFound indicates no usable host Python interpreter
	// could be discovered to build the environment with.
	ExitPythonNotFound ExitCode = 3

	// ExitCreationFailed indicates the environment builder tool failed.
	ExitCreationFailed ExitCode = 4

	// ExitRemovalFailed indicates the environment tree could not be deleted.
	ExitRemovalFailed ExitCode = 5

	// ExitEnvNotFound indicates the operation requires an existing
	// environment and none was found at the root path.
	ExitEnvNotFound ExitCode = 6

	// ExitDriftDetected indicates the consistency check ran and found
	// discrepancies (check command only).
	ExitDriftDetected ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
