package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/venvctl/internal/model"
)

// writeConfig writes a config fixture file into a temp dir and returns
// its path.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadJSONC verifies JSONC parsing: comments and trailing commas
// are legal in hand-written config files.
func TestLoadJSONC(t *testing.T) {
	path := writeConfig(t, "expected.json", `{
		// packages the environment must carry
		"packages": ["pip", "requests"],
		/* versioned path, hence the glob */
		"directories": ["lib/python*/site-packages"],
		"strict": true,
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"pip", "requests"}, cfg.Packages)
	assert.Equal(t, []string{"lib/python*/site-packages"}, cfg.Directories)
	assert.True(t, cfg.Strict)
}

// TestLoadYAML verifies the YAML variant, selected by extension.
func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "expected.yaml", `packages:
  - pip
  - flask
directories:
  - bin
strict: false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"pip", "flask"}, cfg.Packages)
	assert.Equal(t, []string{"bin"}, cfg.Directories)
	assert.False(t, cfg.Strict)
}

// TestLoadUnknownFieldsIgnored verifies config files may carry
// annotations for other tools without breaking the parse.
func TestLoadUnknownFieldsIgnored(t *testing.T) {
	path := writeConfig(t, "expected.json", `{"packages": ["pip"], "x-owner": "platform-team"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"pip"}, cfg.Packages)
}

// TestLoadMissingFile verifies the not-found error carries the
// config-specific exit code for the CLI layer.
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.ErrorAs(t, err, &cliErr)
	assert.Equal(t, model.ExitConfigError, cliErr.Code)
}

// TestLoadInvalidContent verifies parse failures in both formats are
// reported as config errors.
func TestLoadInvalidContent(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeConfig(t, "broken.json", `{"packages": [`)
		_, err := Load(path)

		var cliErr *model.CLIError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, model.ExitConfigError, cliErr.Code)
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeConfig(t, "broken.yaml", "packages: [pip\n  - oops")
		_, err := Load(path)

		var cliErr *model.CLIError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, model.ExitConfigError, cliErr.Code)
	})
}

// TestLoadOrDefault verifies the fallback to the baseline expectation
// when no config path is given.
func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultExpectedConfig(), cfg)

	path := writeConfig(t, "expected.json", `{"packages": ["wheel"]}`)
	cfg, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"wheel"}, cfg.Packages)
}
