// Package config loads expected-configuration files for consistency
// checks.
//
// Two formats are supported, selected by file extension: YAML for
// ".yaml"/".yml", JSONC otherwise. Config files written by hand tend to
// accumulate comments, so the JSON path uses github.com/tidwall/jsonc
// to strip comments and trailing commas before parsing with the
// standard encoding/json library.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/venvctl/internal/model"
)

// Load reads an expected-configuration file and parses it according to
// its extension. Packages and directories from the file are used as-is;
// an empty file yields a zero ExpectedConfig (which passes against any
// present environment).
//
// Returns a CLIError with ExitConfigError if the file does not exist or
// cannot be parsed.
func Load(path string) (model.ExpectedConfig, error) {
	var cfg model.ExpectedConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("expected-configuration file not found: %s", path),
				err,
			)
		}
		return cfg, model.WrapCLIError(model.ExitConfigError, "failed to read expected configuration", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("failed to parse YAML configuration at %s", path),
				err,
			)
		}
	default:
		// Strip JSONC comments (// and /* */) and trailing commas before
		// parsing. encoding/json silently ignores unknown fields, which
		// lets config files carry annotations for other tools.
		cleanJSON := jsonc.ToJSON(data)
		if err := json.Unmarshal(cleanJSON, &cfg); err != nil {
			return cfg, model.WrapCLIError(
				model.ExitConfigError,
				fmt.Sprintf("failed to parse JSON configuration at %s", path),
				err,
			)
		}
	}

	return cfg, nil
}

// LoadOrDefault loads the configuration file at path, or returns the
// baseline default expectation when path is empty.
func LoadOrDefault(path string) (model.ExpectedConfig, error) {
	if path == "" {
		return model.DefaultExpectedConfig(), nil
	}
	return Load(path)
}
