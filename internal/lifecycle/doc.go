// Package lifecycle implements the state machine governing creation and
// removal of an isolated Python environment:
//
//	Absent → Creating → Present → Removing → Absent
//
// Creation is delegated to an external builder tool (by default the
// host interpreter's venv module), whose exit code and output are
// treated as authoritative. Presence is always re-derived from the
// filesystem — the environment may be mutated or deleted by another
// process between calls, so no state is cached.
//
// Partial failure policy: a failed creation leaves the directory tree
// as-is for inspection, and a blocked removal leaves the environment in
// an indeterminate state. In both cases the caller must re-query
// Exists before deciding what to do next.
package lifecycle
