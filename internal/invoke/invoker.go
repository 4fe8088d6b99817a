package invoke

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shinji-kodama/venvctl/internal/layout"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// Options adjusts a single invocation. The zero value runs the command
// in the invoking process's working directory with no extra variables.
type Options struct {
	// Dir is the child's working directory. Empty means inherit.
	Dir string

	// Env holds additional environment variables for the child. They
	// are applied after the environment injection, so a caller-supplied
	// PATH or VIRTUAL_ENV wins over the injected one.
	Env map[string]string
}

// Invoker launches subprocesses with the environment's binary directory
// on their search path. It is stateless apart from the resolved layout
// it targets, so one Invoker per environment handle is the expected
// usage.
type Invoker struct {
	env *layout.Env
}

// New creates an Invoker targeting the given environment layout.
func New(env *layout.Env) *Invoker {
	return &Invoker{env: env}
}

// Invoke runs a binary with the given arguments and default options.
// See InvokeWith.
func (iv *Invoker) Invoke(binary string, args ...string) (*model.CommandResult, error) {
	return iv.InvokeWith(binary, args, Options{})
}

// InvokeWith resolves binary against the environment's binary directory
// (falling back to the inherited search path), starts it, and blocks
// until it terminates.
//
// The child receives VIRTUAL_ENV and a PATH with the binary directory
// prepended, mirroring what shell activation would do. Stdout and
// stderr are captured separately into the returned CommandResult.
//
// A non-zero exit code is returned as a normal result with a nil error.
// The error is non-nil only when the binary cannot be located or the OS
// refuses to start the process.
func (iv *Invoker) InvokeWith(binary string, args []string, opts Options) (*model.CommandResult, error) {
	path, err := iv.resolveBinary(binary)
	if err != nil {
		return nil, err
	}

	// #nosec G204 — the binary path is resolved from the environment's
	// own binary directory or the host PATH, not interpolated into a shell.
	cmd := exec.Command(path, args...)
	cmd.Dir = opts.Dir
	cmd.Env = iv.childEnv(opts.Env)

	// Capture stdout and stderr separately so callers can report stderr
	// in diagnostics while parsing stdout.
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	result := &model.CommandResult{
		Binary: binary,
		Args:   args,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if runErr != nil {
		// A command that started and exited non-zero is a normal result.
		// Anything else (permission denied, missing loader) means the
		// process never ran, which is a fault.
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, &model.InvocationError{Binary: binary, Err: runErr}
	}

	return result, nil
}

// resolveBinary locates the executable to run. The environment's binary
// directory is consulted first; if the name is not there, the inherited
// search path decides. An absolute or relative path in binary bypasses
// resolution entirely and is used as-is.
func (iv *Invoker) resolveBinary(binary string) (string, error) {
	if strings.ContainsRune(binary, os.PathSeparator) || filepath.IsAbs(binary) {
		return binary, nil
	}

	candidate := filepath.Join(iv.env.BinDir, iv.env.ExecutableName(binary))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, nil
	}

	// Not in the environment — fall back to the host search path. This
	// makes tools like git usable through the same call site while the
	// environment's own binaries still shadow the host's.
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", &model.InvocationError{Binary: binary, Err: err}
	}
	return path, nil
}

// childEnv builds the child process environment: the parent environment
// with VIRTUAL_ENV set and the binary directory prepended to PATH, then
// any caller overrides applied on top.
func (iv *Invoker) childEnv(overrides map[string]string) []string {
	merged := map[string]string{}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		merged[key] = value
	}

	merged["VIRTUAL_ENV"] = iv.env.Root
	if existing, ok := merged["PATH"]; ok && existing != "" {
		merged["PATH"] = iv.env.BinDir + string(os.PathListSeparator) + existing
	} else {
		merged["PATH"] = iv.env.BinDir
	}

	for key, value := range overrides {
		merged[key] = value
	}

	env := make([]string, 0, len(merged))
	for key, value := range merged {
		env = append(env, key+"="+value)
	}
	return env
}
