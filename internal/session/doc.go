// Package session provides the facade applications interact with: one
// object composing path resolution, invocation, lifecycle control, and
// consistency checking behind a scoped-resource contract.
//
// Open guarantees a usable environment (creating it when absent) and
// optionally surfaces a non-fatal drift report for a pre-existing one.
// Close runs the teardown policy — keep the environment (default) or
// remove it (ephemeral mode) — exactly once no matter how many times it
// is called, so it composes safely with defer on every exit path.
//
// A Session is not safe for concurrent use. Callers needing concurrent
// isolated environments must use distinct root paths, each with its own
// Session.
package session
