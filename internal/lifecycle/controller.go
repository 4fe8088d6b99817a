package lifecycle

import (
	"errors"
	"os"

	"github.com/shinji-kodama/venvctl/internal/invoke"
	"github.com/shinji-kodama/venvctl/internal/layout"
	"github.com/shinji-kodama/venvctl/internal/model"
	"github.com/shinji-kodama/venvctl/internal/pyfind"
)

// Controller creates, detects, and removes one environment directory
// tree. It assumes single-writer access: one Controller (or Session)
// per root path at a time, with no cross-process locking.
type Controller struct {
	env     *layout.Env
	invoker *invoke.Invoker

	// builder is the external environment-creation command. The root
	// path is appended as the single positional argument. Empty means
	// "discover a host interpreter and use its venv module".
	builder []string
}

// Option configures a Controller.
type Option func(*Controller)

// WithBuilder overrides the environment-creation command. The root path
// is appended to cmd as the final positional argument at create time.
func WithBuilder(cmd ...string) Option {
	return func(c *Controller) {
		c.builder = cmd
	}
}

// NewController creates a Controller for the given environment layout.
// The invoker is used to run the builder tool; since the environment's
// binary directory does not exist before creation, resolution falls
// through to the host search path, which is exactly what we want for a
// host-level tool.
func NewController(env *layout.Env, invoker *invoke.Invoker, opts ...Option) *Controller {
	c := &Controller{env: env, invoker: invoker}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Env returns the layout handle the controller operates on.
func (c *Controller) Env() *layout.Env {
	return c.env
}

// Exists reports whether the environment is present: the resolved
// interpreter path exists on disk. The filesystem is re-statted on
// every call — no cached flag, because another process may have
// created or deleted the environment since the last query.
func (c *Controller) Exists() bool {
	info, err := os.Stat(c.env.Interpreter)
	return err == nil && !info.IsDir()
}

// State returns the observable lifecycle state. The transient Creating
// and Removing states are never returned here — they exist only for
// the duration of the corresponding call.
func (c *Controller) State() model.EnvState {
	if c.Exists() {
		return model.StatePresent
	}
	return model.StateAbsent
}

// Create builds the environment by invoking the external builder tool
// with the root path as its single positional argument.
//
// Valid only from Absent: creating over an existing environment fails
// with a CreationError wrapping model.ErrEnvironmentPresent (use flush
// for an explicit recreate). On builder failure the directory tree is
// left as-is — no rollback — and the CreationError carries the
// builder's captured CommandResult.
func (c *Controller) Create() (*model.CommandResult, error) {
	if c.Exists() {
		return nil, &model.CreationError{Root: c.env.Root, Err: model.ErrEnvironmentPresent}
	}

	cmd, err := c.builderCommand()
	if err != nil {
		return nil, &model.CreationError{Root: c.env.Root, Err: err}
	}

	args := append(append([]string{}, cmd[1:]...), c.env.Root)
	result, err := c.invoker.Invoke(cmd[0], args...)
	if err != nil {
		return nil, &model.CreationError{Root: c.env.Root, Err: err}
	}
	if !result.Success() {
		return result, &model.CreationError{Root: c.env.Root, Result: result, Err: errors.New("builder tool exited non-zero")}
	}

	// The builder claimed success; trust but verify. A tool that exits
	// zero without producing an interpreter would otherwise leave every
	// later operation failing with confusing errors.
	if !c.Exists() {
		return result, &model.CreationError{Root: c.env.Root, Result: result, Err: errors.New("builder tool succeeded but no interpreter was produced")}
	}

	return result, nil
}

// Remove deletes the entire environment directory tree recursively.
//
// Removing an absent environment is a no-op, not an error. A blocked
// deletion (e.g. a locked file) fails with RemovalError and leaves the
// environment in an indeterminate state; callers must re-query Exists
// to learn what survived.
func (c *Controller) Remove() error {
	if _, err := os.Stat(c.env.Root); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &model.RemovalError{Root: c.env.Root, Err: err}
	}

	if err := os.RemoveAll(c.env.Root); err != nil {
		return &model.RemovalError{Root: c.env.Root, Err: err}
	}
	return nil
}

// builderCommand resolves the creation command, discovering a host
// interpreter when none was configured.
func (c *Controller) builderCommand() ([]string, error) {
	if len(c.builder) > 0 {
		return c.builder, nil
	}
	python, err := pyfind.Find()
	if err != nil {
		return nil, err
	}
	return []string{python, "-m", "venv"}, nil
}
