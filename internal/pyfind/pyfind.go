// Package pyfind discovers a usable host Python interpreter to build
// environments with.
//
// The discovery strategy follows this priority order:
//  1. VENVCTL_PYTHON environment variable (if set, used as-is)
//  2. Well-known interpreter names probed on the host PATH:
//     python3, then python, plus the "py" launcher on Windows.
//
// Existence on PATH does not guarantee the interpreter actually runs
// (broken shims are common), so Verify spawns it once with --version.
package pyfind

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// EnvOverride is the environment variable that, when set, names the
// host interpreter to use without probing.
const EnvOverride = "VENVCTL_PYTHON"

// Find returns the path of a host Python interpreter.
//
// When VENVCTL_PYTHON is set it is returned unconditionally — an
// explicit user choice is respected even if it later fails to run,
// so the failure surfaces against the binary the user named.
func Find() (string, error) {
	if override := os.Getenv(EnvOverride); override != "" {
		return override, nil
	}

	candidates := []string{"python3", "python"}
	if runtime.GOOS == "windows" {
		// The py launcher ships with the official Windows installer and
		// is frequently present when no python.exe is on PATH.
		candidates = append(candidates, "py")
	}

	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf(
		"no Python interpreter found on PATH (tried %s) — install Python or set %s",
		strings.Join(candidates, ", "), EnvOverride,
	)
}

// Verify checks that the interpreter at path actually starts by running
// it with --version. It returns the reported version string on success.
func Verify(path string) (string, error) {
	// #nosec G204 — path comes from Find or an explicit user override.
	out, err := exec.Command(path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("interpreter %s is not runnable: %w", path, err)
	}
	return strings.TrimSpace(string(out)), nil
}
