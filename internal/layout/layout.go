package layout

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shinji-kodama/venvctl/internal/model"
)

// Platform identifies one of the two supported environment layout
// families. It is derived from the host OS by default but can be set
// explicitly, which keeps resolution a pure function and makes both
// layouts testable on any host.
type Platform string

const (
	// PlatformPosix covers Linux, macOS, and the BSDs: a "bin"
	// directory and an extensionless interpreter.
	PlatformPosix Platform = "posix"

	// PlatformWindows covers Windows: a "Scripts" directory and a
	// ".exe" interpreter.
	PlatformWindows Platform = "windows"
)

// String returns the string representation of Platform.
func (p Platform) String() string {
	return string(p)
}

// IsValid checks whether the Platform value is one of the two
// supported families.
func (p Platform) IsValid() bool {
	return p == PlatformPosix || p == PlatformWindows
}

// ParsePlatform converts a string to a Platform.
// Returns an error if the string does not match a supported family.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(s))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid platform: %q (valid: posix, windows)", s)
	}
	return p, nil
}

// CurrentPlatform returns the layout family of the running host.
func CurrentPlatform() Platform {
	if runtime.GOOS == "windows" {
		return PlatformWindows
	}
	return PlatformPosix
}

// Env is the handle for one environment: its root path plus the
// resolved platform-specific locations inside it.
//
// Resolved paths are a pure function of (root, platform). They must not
// be cached across a create/remove cycle — re-resolve after any
// lifecycle-mutating operation rather than holding a stale handle.
type Env struct {
	// Root is the absolute path to the environment directory.
	Root string

	// Platform is the layout family the paths were resolved for.
	Platform Platform

	// Interpreter is the path to the Python interpreter inside the
	// environment (e.g. <root>/bin/python).
	Interpreter string

	// BinDir is the directory holding executable entry points:
	// the interpreter and installed command-line tools.
	BinDir string

	// SitePackages locates the package installation directory. On
	// POSIX this is a glob pattern (the path embeds the interpreter
	// version); on Windows it is a literal path. Glob expansion is
	// the caller's job — filepath.Glob treats a literal path as a
	// pattern matching itself, so consumers can glob unconditionally.
	SitePackages string
}

// Resolve computes the environment layout for the given root path and
// platform. A relative root is resolved against the current working
// directory. Fails with model.PathResolutionError only if the root is
// empty or malformed — never because the environment does not exist.
func Resolve(root string, platform Platform) (*Env, error) {
	if strings.TrimSpace(root) == "" {
		return nil, &model.PathResolutionError{Root: root, Reason: "root path is empty"}
	}
	if strings.ContainsRune(root, 0) {
		return nil, &model.PathResolutionError{Root: root, Reason: "root path contains a NUL byte"}
	}
	if !platform.IsValid() {
		return nil, &model.PathResolutionError{Root: root, Reason: fmt.Sprintf("unsupported platform %q", platform)}
	}

	// Pin the handle to an absolute path so that later working-directory
	// changes cannot re-point it at a different tree.
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &model.PathResolutionError{Root: root, Reason: err.Error()}
	}

	env := &Env{Root: abs, Platform: platform}
	switch platform {
	case PlatformWindows:
		env.BinDir = filepath.Join(abs, "Scripts")
		env.Interpreter = filepath.Join(env.BinDir, "python.exe")
		env.SitePackages = filepath.Join(abs, "Lib", "site-packages")
	default:
		env.BinDir = filepath.Join(abs, "bin")
		env.Interpreter = filepath.Join(env.BinDir, "python")
		env.SitePackages = filepath.Join(abs, "lib", "python*", "site-packages")
	}
	return env, nil
}

// ResolveHost is shorthand for Resolve with the running host's platform.
func ResolveHost(root string) (*Env, error) {
	return Resolve(root, CurrentPlatform())
}

// ExecutableName returns the platform-correct filename for a binary
// inside the environment's binary directory: Windows executables carry
// an ".exe" suffix, POSIX ones do not. Names that already have an
// extension are returned unchanged.
func (e *Env) ExecutableName(name string) string {
	if e.Platform == PlatformWindows && filepath.Ext(name) == "" {
		return name + ".exe"
	}
	return name
}
