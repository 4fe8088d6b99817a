package session

import (
	"sync"

	"github.com/shinji-kodama/venvctl/internal/consistency"
	"github.com/shinji-kodama/venvctl/internal/invoke"
	"github.com/shinji-kodama/venvctl/internal/layout"
	"github.com/shinji-kodama/venvctl/internal/lifecycle"
	"github.com/shinji-kodama/venvctl/internal/model"
)

// settings holds the resolved Open options.
type settings struct {
	platform     layout.Platform
	builder      []string
	ephemeral    bool
	verifyOnOpen bool
	expected     model.ExpectedConfig
}

// Option configures a Session at Open time.
type Option func(*settings)

// WithPlatform overrides the layout platform. Intended for tests; the
// default is the running host's platform.
func WithPlatform(p layout.Platform) Option {
	return func(s *settings) {
		s.platform = p
	}
}

// WithBuilder overrides the environment-creation command.
func WithBuilder(cmd ...string) Option {
	return func(s *settings) {
		s.builder = cmd
	}
}

// WithEphemeral makes Close remove the environment. The default leaves
// the environment intact across sessions.
func WithEphemeral() Option {
	return func(s *settings) {
		s.ephemeral = true
	}
}

// WithVerifyOnOpen runs a consistency check against expected when Open
// finds a pre-existing environment. Drift is surfaced via Drift, never
// as an Open failure — the policy is report, don't auto-correct.
func WithVerifyOnOpen(expected model.ExpectedConfig) Option {
	return func(s *settings) {
		s.verifyOnOpen = true
		s.expected = expected
	}
}

// Session is the scoped handle for one environment. Obtain it with
// Open, release it with Close (typically via defer).
type Session struct {
	env     *layout.Env
	invoker *invoke.Invoker
	ctrl    *lifecycle.Controller
	checker *consistency.Checker

	ephemeral bool

	// drift holds the warning-level report from the Open-time check,
	// nil when no check ran or the environment was freshly created.
	drift *model.ConsistencyReport

	closeOnce sync.Once
	closeErr  error
}

// Open acquires a session for the environment at root.
//
// If the environment does not exist it is created; if it exists and
// verification was requested, a consistency check runs and its report
// is retained for Drift. A drifted or even uncheckable environment
// still opens — only path resolution and creation failures abort.
func Open(root string, opts ...Option) (*Session, error) {
	cfg := settings{platform: layout.CurrentPlatform()}
	for _, opt := range opts {
		opt(&cfg)
	}

	env, err := layout.Resolve(root, cfg.platform)
	if err != nil {
		return nil, err
	}

	invoker := invoke.New(env)

	var ctrlOpts []lifecycle.Option
	if len(cfg.builder) > 0 {
		ctrlOpts = append(ctrlOpts, lifecycle.WithBuilder(cfg.builder...))
	}
	ctrl := lifecycle.NewController(env, invoker, ctrlOpts...)

	s := &Session{
		env:       env,
		invoker:   invoker,
		ctrl:      ctrl,
		checker:   consistency.NewChecker(env, invoker),
		ephemeral: cfg.ephemeral,
	}

	if !ctrl.Exists() {
		if _, err := ctrl.Create(); err != nil {
			return nil, err
		}
	} else if cfg.verifyOnOpen {
		// Non-fatal by design: a session against a drifted environment
		// is still useful (often precisely to repair it). A check that
		// could not run at all is ignored here for the same reason.
		if report, checkErr := s.checker.Check(cfg.expected); checkErr == nil && !report.Pass() {
			s.drift = report
		}
	}

	return s, nil
}

// Env returns the resolved layout handle.
func (s *Session) Env() *layout.Env {
	return s.env
}

// Drift returns the warning-level consistency report recorded during
// Open, or nil if the environment was clean, freshly created, or
// verification was not requested.
func (s *Session) Drift() *model.ConsistencyReport {
	return s.drift
}

// Exists reports whether the environment is currently present on disk.
func (s *Session) Exists() bool {
	return s.ctrl.Exists()
}

// State returns the environment's observable lifecycle state.
func (s *Session) State() model.EnvState {
	return s.ctrl.State()
}

// Run executes a binary inside the environment and returns its result.
// Delegates to the invoker; see invoke.Invoker.InvokeWith for the
// resolution and error semantics.
func (s *Session) Run(binary string, args ...string) (*model.CommandResult, error) {
	return s.invoker.Invoke(binary, args...)
}

// RunWith is Run with explicit invocation options (working directory,
// extra environment variables).
func (s *Session) RunWith(binary string, args []string, opts invoke.Options) (*model.CommandResult, error) {
	return s.invoker.InvokeWith(binary, args, opts)
}

// Check runs a consistency check against expected. Read-only and
// repeatable; returns the fresh report or a ConsistencyError when the
// check could not run.
func (s *Session) Check(expected model.ExpectedConfig) (*model.ConsistencyReport, error) {
	return s.checker.Check(expected)
}

// Flush removes and recreates the environment for a clean-slate reset.
// Returns the session itself so calls can be chained.
func (s *Session) Flush() (*Session, error) {
	if err := s.ctrl.Remove(); err != nil {
		return s, err
	}
	if _, err := s.ctrl.Create(); err != nil {
		return s, err
	}
	// The reset invalidates whatever the Open-time check observed.
	s.drift = nil
	return s, nil
}

// Remove deletes the environment immediately, regardless of the
// teardown policy. Idempotent, like the underlying controller.
func (s *Session) Remove() error {
	return s.ctrl.Remove()
}

// Close releases the session, applying the teardown policy: ephemeral
// sessions remove the environment, default sessions leave it intact.
//
// Close is safe to call multiple times; the teardown runs exactly once
// and later calls return the first outcome. Pair it with defer right
// after Open so teardown happens on every exit path.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.ephemeral {
			s.closeErr = s.ctrl.Remove()
		}
	})
	return s.closeErr
}
