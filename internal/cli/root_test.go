package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shinji-kodama/venvctl/internal/model"
)

// TestExitCodeFor verifies that domain errors escaping without a
// CLIError wrapper still map to their class-specific exit codes, so
// scripts can branch on failure class regardless of which layer the
// error surfaced from.
func TestExitCodeFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want model.ExitCode
	}{
		{
			name: "absent environment",
			err:  &model.ConsistencyError{Root: "/tmp/env", Err: model.ErrEnvironmentAbsent},
			want: model.ExitEnvNotFound,
		},
		{
			name: "creation failure",
			err:  &model.CreationError{Root: "/tmp/env", Err: errors.New("builder tool exited non-zero")},
			want: model.ExitCreationFailed,
		},
		{
			name: "removal failure",
			err:  &model.RemovalError{Root: "/tmp/env", Err: errors.New("directory busy")},
			want: model.ExitRemovalFailed,
		},
		{
			name: "listing failure",
			err:  &model.ConsistencyError{Root: "/tmp/env", Err: errors.New("pip unreachable")},
			want: model.ExitGeneralError,
		},
		{
			name: "plain error",
			err:  errors.New("something else"),
			want: model.ExitGeneralError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeFor(tc.err))
		})
	}
}

// TestNewRootCommandRegistersSubcommands verifies the full command
// surface is wired onto the root command.
func TestNewRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"create", "remove", "exec", "check", "flush", "status"}
	got := make(map[string]bool)
	for _, sub := range root.Commands() {
		got[sub.Name()] = true
	}

	for _, name := range want {
		assert.True(t, got[name], "subcommand %q should be registered", name)
	}
}

// TestRootCommandPersistentFlags verifies the global flags every
// subcommand inherits.
func TestRootCommandPersistentFlags(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"root", "json", "verbose"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "persistent flag %q should exist", name)
	}

	assert.Equal(t, ".venv", root.PersistentFlags().Lookup("root").DefValue)
}
