package consistency

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shinji-kodama/venvctl/internal/layout"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// listerArgs is the package-listing command run inside the environment.
// The freeze format prints one "name==version" line per package with no
// header, which is the easiest of pip's output formats to parse. The
// parser still accepts the legacy two-column form in case a wrapper
// script ignores the flag.
var listerArgs = []string{"list", "--format=freeze"}

// runner is the subset of the invoker the checker needs. Declared on
// the consumer side so tests can substitute canned listing output.
type runner interface {
	Invoke(binary string, args ...string) (*model.CommandResult, error)
}

// Checker compares an environment against an expected configuration.
type Checker struct {
	env *layout.Env
	run runner
}

// NewChecker creates a Checker for the given environment layout. The
// runner is normally an invoke.Invoker targeting the same layout.
func NewChecker(env *layout.Env, run runner) *Checker {
	return &Checker{env: env, run: run}
}

// Check validates the environment against expected and returns a fresh
// report. The report's Pass flag is true iff no discrepancies were found.
//
// Precondition: the environment root must exist. An absent root is a
// model.ConsistencyError wrapping ErrEnvironmentAbsent, not a
// discrepancy — "nothing to check" and "checked and clean" must never
// look alike to the caller. A root that exists but lost its interpreter
// is different: that tree can still be inspected, so the missing
// interpreter becomes a discrepancy and the package listing is skipped.
func (c *Checker) Check(expected model.ExpectedConfig) (*model.ConsistencyReport, error) {
	if _, err := os.Stat(c.env.Root); err != nil {
		return nil, &model.ConsistencyError{Root: c.env.Root, Err: model.ErrEnvironmentAbsent}
	}

	report := &model.ConsistencyReport{}

	interpreterPresent := true
	if info, err := os.Stat(c.env.Interpreter); err != nil || info.IsDir() {
		interpreterPresent = false
		report.Discrepancies = append(report.Discrepancies, model.Discrepancy{
			Kind:     model.KindMissingInterpreter,
			Item:     c.env.Interpreter,
			Expected: "interpreter present",
			Actual:   "not found",
		})
	}

	// Package listing requires a working interpreter; without one the
	// listing would fail for a reason the report already explains.
	if interpreterPresent {
		installed, err := c.listInstalled()
		if err != nil {
			return nil, err
		}
		report.Installed = installed
		report.Discrepancies = append(report.Discrepancies, diffPackages(expected, installed)...)
	}

	dirDiscrepancies, err := c.checkDirectories(expected.Directories)
	if err != nil {
		return nil, err
	}
	report.Discrepancies = append(report.Discrepancies, dirDiscrepancies...)

	return report, nil
}

// listInstalled runs the package-listing command inside the environment
// and parses its output into a name→version map.
func (c *Checker) listInstalled() (map[string]string, error) {
	result, err := c.run.Invoke("pip", listerArgs...)
	if err != nil {
		return nil, &model.ConsistencyError{Root: c.env.Root, Err: err}
	}
	if !result.Success() {
		return nil, &model.ConsistencyError{
			Root:   c.env.Root,
			Result: result,
			Err:    errors.New("package listing command exited non-zero"),
		}
	}
	return ParseListOutput(result.Stdout), nil
}

// ParseListOutput parses package-listing output into a map of
// lowercased package name → version.
//
// Two line formats are accepted, one token pair per line:
//
//	name==version    (pip list --format=freeze)
//	name version     (pip list column output)
//
// Column headers ("Package Version"), separator rows of dashes, blank
// lines, and editable-install markers are skipped.
func ParseListOutput(output string) map[string]string {
	installed := make(map[string]string)

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "#") {
			continue
		}

		var name, version string
		if before, after, found := strings.Cut(line, "=="); found {
			name, version = before, after
		} else {
			fields := strings.Fields(line)
			name = fields[0]
			if len(fields) > 1 {
				version = fields[1]
			}
		}

		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || name == "package" {
			// "Package Version" header from the column format.
			continue
		}
		installed[name] = strings.TrimSpace(version)
	}

	return installed
}

// diffPackages computes the package discrepancies in stable order:
// expected-but-absent first in expected-list order, then (in strict
// mode) present-but-unexpected in alphabetical order.
func diffPackages(expected model.ExpectedConfig, installed map[string]string) []model.Discrepancy {
	var out []model.Discrepancy

	wanted := make(map[string]bool, len(expected.Packages))
	for _, pkg := range expected.Packages {
		key := strings.ToLower(pkg)
		wanted[key] = true
		if _, ok := installed[key]; !ok {
			out = append(out, model.Discrepancy{
				Kind:     model.KindMissingPackage,
				Item:     pkg,
				Expected: "installed",
				Actual:   "not installed",
			})
		}
	}

	if expected.Strict {
		extras := make([]string, 0)
		for name := range installed {
			if !wanted[name] {
				extras = append(extras, name)
			}
		}
		sort.Strings(extras)
		for _, name := range extras {
			out = append(out, model.Discrepancy{
				Kind:     model.KindUnexpectedPackage,
				Item:     name,
				Expected: "not installed",
				Actual:   "installed " + installed[name],
			})
		}
	}

	return out
}

// checkDirectories verifies required directories exist under the root,
// in declaration order. Entries are glob patterns so that versioned
// paths like "lib/python*/site-packages" can be required portably; a
// literal path matches itself under filepath.Glob semantics.
func (c *Checker) checkDirectories(dirs []string) ([]model.Discrepancy, error) {
	var out []model.Discrepancy

	for _, dir := range dirs {
		pattern := filepath.Join(c.env.Root, dir)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			// Only ErrBadPattern reaches here — a malformed requirement,
			// not drift, so the check cannot meaningfully continue.
			return nil, &model.ConsistencyError{Root: c.env.Root, Err: err}
		}

		found := false
		for _, match := range matches {
			if info, statErr := os.Stat(match); statErr == nil && info.IsDir() {
				found = true
				break
			}
		}
		if !found {
			out = append(out, model.Discrepancy{
				Kind:     model.KindMissingDirectory,
				Item:     dir,
				Expected: "directory present",
				Actual:   "not found",
			})
		}
	}

	return out, nil
}
