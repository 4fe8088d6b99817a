// Package model defines the domain types for the venvctl CLI and library.
//
// All entities in this package are pure value types with no external
// dependencies. They are produced by the lifecycle, invocation, and
// consistency packages and consumed by callers; none of them hold
// references to live resources.
package model

import (
	"fmt"
	"sort"
	"strings"
)

// EnvState represents the lifecycle state of a managed environment.
// The state transitions are:
//
//	Absent → Creating → Present → Removing → Absent
//
// States are never persisted — Present/Absent are always re-derived from
// the filesystem, and Creating/Removing exist only for the duration of
// the corresponding controller call.
type EnvState string

const (
	// StateAbsent indicates no environment exists at the root path.
	StateAbsent EnvState = "absent"

	// StateCreating indicates the external builder tool is running.
	// This state is transient and only observable during Create.
	StateCreating EnvState = "creating"

	// StatePresent indicates the environment's interpreter exists on disk.
	StatePresent EnvState = "present"

	// StateRemoving indicates the root directory tree is being deleted.
	// This state is transient and only observable during Remove.
	StateRemoving EnvState = "removing"
)

// String returns the string representation of EnvState.
// This method satisfies the fmt.Stringer interface for
// human-readable output in CLI commands.
func (s EnvState) String() string {
	return string(s)
}

// IsValid checks whether the EnvState value is one of the
// predefined valid states.
func (s EnvState) IsValid() bool {
	switch s {
	case StateAbsent, StateCreating, StatePresent, StateRemoving:
		return true
	default:
		return false
	}
}

// ParseEnvState converts a string to an EnvState.
// Returns an error if the string does not match any valid state.
func ParseEnvState(s string) (EnvState, error) {
	state := EnvState(strings.ToLower(s))
	if !state.IsValid() {
		return "", fmt.Errorf("invalid environment state: %q (valid: absent, creating, present, removing)", s)
	}
	return state, nil
}

// CommandResult is the outcome of one subprocess invocation inside the
// environment. It is immutable once produced and owned solely by the
// caller that issued the command.
//
// A non-zero exit code is a normal result, not an error — see the
// invoke package for the distinction between a failing command and a
// command that could not be started at all.
type CommandResult struct {
	// Binary is the name the caller asked to run (before resolution
	// against the environment's binary directory).
	Binary string `json:"binary"`

	// Args are the arguments passed to the binary.
	Args []string `json:"args,omitempty"`

	// ExitCode is the process exit status. Zero means success.
	ExitCode int `json:"exitCode"`

	// Stdout is the captured standard output, decoded as text.
	Stdout string `json:"stdout,omitempty"`

	// Stderr is the captured standard error, decoded as text.
	Stderr string `json:"stderr,omitempty"`
}

// Success reports whether the command exited with code zero.
func (r *CommandResult) Success() bool {
	return r.ExitCode == 0
}

// String returns a short human-readable summary of the invocation,
// suitable for verbose logging and error messages.
func (r *CommandResult) String() string {
	cmd := r.Binary
	if len(r.Args) > 0 {
		cmd = cmd + " " + strings.Join(r.Args, " ")
	}
	return fmt.Sprintf("%s (exit %d)", cmd, r.ExitCode)
}

// DiscrepancyKind classifies one consistency-check finding.
type DiscrepancyKind string

const (
	// KindMissingInterpreter indicates the resolved interpreter path
	// does not exist inside the environment.
	KindMissingInterpreter DiscrepancyKind = "missing-interpreter"

	// KindMissingPackage indicates an expected package is not installed.
	KindMissingPackage DiscrepancyKind = "missing-package"

	// KindUnexpectedPackage indicates an installed package is not in the
	// expected set. Only reported in strict mode.
	KindUnexpectedPackage DiscrepancyKind = "unexpected-package"

	// KindMissingDirectory indicates a required directory is absent.
	KindMissingDirectory DiscrepancyKind = "missing-directory"
)

// Discrepancy describes one difference between the environment's actual
// on-disk state and its expected configuration.
type Discrepancy struct {
	// Kind classifies the finding.
	Kind DiscrepancyKind `json:"kind"`

	// Item names the checked thing: a package name, a directory path
	// relative to the environment root, or the interpreter path.
	Item string `json:"item"`

	// Expected describes the state the configuration requires.
	Expected string `json:"expected"`

	// Actual describes the state found on disk or in the package listing.
	Actual string `json:"actual"`
}

// String formats the discrepancy as a single human-readable line.
func (d Discrepancy) String() string {
	return fmt.Sprintf("%s: %s (expected %s, actual %s)", d.Kind, d.Item, d.Expected, d.Actual)
}

// ConsistencyReport is the outcome of one consistency check. It is
// produced fresh on each check call and never mutated afterwards.
type ConsistencyReport struct {
	// Discrepancies is the ordered sequence of findings. Ordering is
	// stable: expected-list order for missing packages, then
	// alphabetical for unexpected extras, then required directories
	// in declaration order.
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`

	// Installed records the package set found in the environment, for
	// diagnostics. Keys are lowercased package names, values are
	// versions (empty if the listing format omitted one).
	Installed map[string]string `json:"installed,omitempty"`
}

// Pass reports whether the check found no discrepancies.
func (r *ConsistencyReport) Pass() bool {
	return len(r.Discrepancies) == 0
}

// InstalledNames returns the sorted package names observed during the
// check. Useful for status output.
func (r *ConsistencyReport) InstalledNames() []string {
	names := make([]string, 0, len(r.Installed))
	for name := range r.Installed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpectedConfig is the declarative description of what a consistent
// environment must contain. It is a read-only input to the consistency
// checker; how it is loaded (JSONC file, YAML file, inline literal) is
// the config package's concern.
type ExpectedConfig struct {
	// Packages lists required package names, checked in this order.
	// Matching is case-insensitive, per Python packaging conventions.
	Packages []string `json:"packages,omitempty" yaml:"packages,omitempty"`

	// Directories lists required directories relative to the environment
	// root. Entries may contain glob metacharacters so that versioned
	// paths like "lib/python*/site-packages" can be required portably.
	Directories []string `json:"directories,omitempty" yaml:"directories,omitempty"`

	// Strict causes installed packages outside the expected set to be
	// reported as discrepancies.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// DefaultExpectedConfig returns the baseline expectation for a freshly
// built environment: pip must be installed. The interpreter itself is
// always checked as a precondition regardless of configuration.
func DefaultExpectedConfig() ExpectedConfig {
	return ExpectedConfig{
		Packages: []string{"pip"},
	}
}
