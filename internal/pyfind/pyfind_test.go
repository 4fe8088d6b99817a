package pyfind

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindHonorsOverride verifies the VENVCTL_PYTHON override is
// returned as-is, without probing or validation.
func TestFindHonorsOverride(t *testing.T) {
	t.Setenv(EnvOverride, "/custom/toolchain/python3.13")

	path, err := Find()
	require.NoError(t, err)
	assert.Equal(t, "/custom/toolchain/python3.13", path)
}

// TestVerifyRunnableInterpreter verifies Verify reports the version
// string of an interpreter that actually starts. A shell script
// standing in for python keeps the test hermetic.
func TestVerifyRunnableInterpreter(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture interpreter is a shell script")
	}

	fake := filepath.Join(t.TempDir(), "python3")
	script := "#!/bin/sh\necho \"Python 3.12.0\"\n"
	require.NoError(t, os.WriteFile(fake, []byte(script), 0755))

	version, err := Verify(fake)
	require.NoError(t, err)
	assert.Equal(t, "Python 3.12.0", version)
}

// TestVerifyMissingInterpreter verifies a nonexistent path fails
// verification rather than silently passing.
func TestVerifyMissingInterpreter(t *testing.T) {
	_, err := Verify(filepath.Join(t.TempDir(), "missing-python"))
	assert.Error(t, err)
}
