package session

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/venvctl/internal/invoke"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// fakeBuilder writes an executable script standing in for the external
// environment-creation tool. The fake environment it produces contains
// a fake python (prints "1", the canonical smoke test) and a fake pip
// whose list output claims pip 24.0 is installed.
func fakeBuilder(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("session tests use shell scripts as fixture tools")
	}

	script := `#!/bin/sh
mkdir -p "$1/bin"
printf '#!/bin/sh\necho 1\n' > "$1/bin/python"
printf '#!/bin/sh\necho "pip==24.0"\n' > "$1/bin/pip"
chmod 755 "$1/bin/python" "$1/bin/pip"
`
	path := filepath.Join(t.TempDir(), "fake-venv-builder")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

// newRoot returns a root path inside a temp dir that does not exist yet.
func newRoot(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "env")
}

// TestOpenCreatesAbsentEnvironment verifies the load-on-enter contract:
// opening a session against an absent root builds the environment.
func TestOpenCreatesAbsentEnvironment(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	s, err := Open(root, WithBuilder(builder))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.True(t, s.Exists())
	assert.Equal(t, model.StatePresent, s.State())
	assert.Nil(t, s.Drift(), "a freshly created environment has no drift to report")
}

// TestCloseDefaultKeepsEnvironment verifies the default teardown
// policy: the environment survives the session.
func TestCloseDefaultKeepsEnvironment(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	s, err := Open(root, WithBuilder(builder))
	require.NoError(t, err)

	require.NoError(t, s.Close())
	assert.True(t, s.Exists(), "non-ephemeral close should leave the environment intact")
}

// TestCloseEphemeralRemovesEnvironment verifies ephemeral mode: the
// environment is torn down when the session closes.
func TestCloseEphemeralRemovesEnvironment(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	s, err := Open(root, WithBuilder(builder), WithEphemeral())
	require.NoError(t, err)
	require.True(t, s.Exists())

	require.NoError(t, s.Close())
	assert.False(t, s.Exists())
}

// TestCloseRunsExactlyOnce verifies the scoped-resource guarantee: the
// teardown runs on the first Close only. A tree recreated between two
// Close calls must survive the second one.
func TestCloseRunsExactlyOnce(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	s, err := Open(root, WithBuilder(builder), WithEphemeral())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.False(t, s.Exists())

	// Recreate the tree by hand; a second Close must not touch it.
	marker := filepath.Join(root, "marker")
	require.NoError(t, os.MkdirAll(root, 0755))
	require.NoError(t, os.WriteFile(marker, []byte("still here"), 0644))

	require.NoError(t, s.Close())
	_, statErr := os.Stat(marker)
	assert.NoError(t, statErr, "second Close must not run the teardown again")
}

// TestCloseRunsOnPanicPath verifies teardown happens even when the code
// between Open and Close panics, as long as Close is deferred — the
// guaranteed-release-on-all-exit-paths property.
func TestCloseRunsOnPanicPath(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	s, err := Open(root, WithBuilder(builder), WithEphemeral())
	require.NoError(t, err)

	func() {
		defer func() { _ = recover() }()
		defer func() { _ = s.Close() }()
		panic("body failed")
	}()

	assert.False(t, s.Exists(), "deferred Close should tear down even on the panic path")
}

// TestRunInsideEnvironment verifies Run resolves the environment's own
// binaries: the fake python prints "1" with exit code 0.
func TestRunInsideEnvironment(t *testing.T) {
	builder := fakeBuilder(t)
	s, err := Open(newRoot(t), WithBuilder(builder))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	result, err := s.Run("python", "-c", "print(1)")
	require.NoError(t, err)

	assert.Equal(t, 0, result.ExitCode)
	assert.Contains(t, result.Stdout, "1")
}

// TestRunMissingBinary verifies that running a nonexistent binary
// surfaces as an InvocationError, not a result.
func TestRunMissingBinary(t *testing.T) {
	builder := fakeBuilder(t)
	s, err := Open(newRoot(t), WithBuilder(builder))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.Run("no-such-binary-anywhere-4b1d")
	require.Error(t, err)

	var invocationErr *model.InvocationError
	assert.ErrorAs(t, err, &invocationErr)
}

// TestOpenVerifyReportsDrift verifies the open-time check policy:
// drift in a pre-existing environment is surfaced as a warning-level
// report, never as an Open failure.
func TestOpenVerifyReportsDrift(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	// First session builds the environment.
	first, err := Open(root, WithBuilder(builder))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// Reopening with an expectation the fake environment cannot meet
	// still succeeds, with the drift recorded on the session.
	expected := model.ExpectedConfig{Packages: []string{"pip", "requests"}}
	second, err := Open(root, WithBuilder(builder), WithVerifyOnOpen(expected))
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	drift := second.Drift()
	require.NotNil(t, drift)
	require.Len(t, drift.Discrepancies, 1)
	assert.Equal(t, "requests", drift.Discrepancies[0].Item)
}

// TestOpenVerifyCleanEnvironment verifies that a satisfiable
// expectation leaves Drift nil.
func TestOpenVerifyCleanEnvironment(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	first, err := Open(root, WithBuilder(builder))
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(root, WithBuilder(builder), WithVerifyOnOpen(model.DefaultExpectedConfig()))
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	assert.Nil(t, second.Drift())
}

// TestFlush verifies the clean-slate reset: the environment is rebuilt
// and previous contents are gone.
func TestFlush(t *testing.T) {
	builder := fakeBuilder(t)
	root := newRoot(t)

	s, err := Open(root, WithBuilder(builder))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	// Dirty the environment with a stray file.
	stray := filepath.Join(root, "stray.txt")
	require.NoError(t, os.WriteFile(stray, []byte("leftover"), 0644))

	same, err := s.Flush()
	require.NoError(t, err)
	assert.Same(t, s, same, "Flush returns the session for chaining")

	assert.True(t, s.Exists(), "environment should exist again after flush")
	_, statErr := os.Stat(stray)
	assert.True(t, os.IsNotExist(statErr), "stray file should not survive a flush")
}

// TestCheckThroughSession verifies the facade's check delegation,
// including the non-zero drift path.
func TestCheckThroughSession(t *testing.T) {
	builder := fakeBuilder(t)
	s, err := Open(newRoot(t), WithBuilder(builder))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	report, err := s.Check(model.DefaultExpectedConfig())
	require.NoError(t, err)
	assert.True(t, report.Pass())

	report, err = s.Check(model.ExpectedConfig{Packages: []string{"numpy"}})
	require.NoError(t, err)
	require.False(t, report.Pass())
	assert.Equal(t, model.KindMissingPackage, report.Discrepancies[0].Kind)
}

// TestOpenMalformedRoot verifies path-resolution failures abort Open.
func TestOpenMalformedRoot(t *testing.T) {
	_, err := Open("   ")
	require.Error(t, err)

	var pathErr *model.PathResolutionError
	assert.ErrorAs(t, err, &pathErr)
}

// TestRunWithOptions verifies working-directory forwarding through the
// facade.
func TestRunWithOptions(t *testing.T) {
	builder := fakeBuilder(t)
	s, err := Open(newRoot(t), WithBuilder(builder))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	dir := t.TempDir()
	result, err := s.RunWith("sh", []string{"-c", "pwd"}, invoke.Options{Dir: dir})
	require.NoError(t, err)

	want, _ := filepath.EvalSymlinks(dir)
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(result.Stdout))
	assert.Equal(t, want, got)
}
