// Package invoke runs one-shot commands inside an isolated Python
// environment from the outside, without shell activation.
//
// Shell activation scripts work by prepending the environment's binary
// directory to PATH and exporting VIRTUAL_ENV. The Invoker reproduces
// exactly that for each child process, plus resolves the requested
// binary name against the binary directory first, so "run pip inside
// this environment" picks the environment's pip even when the host has
// its own.
//
// All invocations are synchronous and block until the child terminates.
// A non-zero exit from the child is a normal CommandResult; only a
// binary that cannot be located or a process the OS refuses to start is
// reported as a model.InvocationError.
package invoke
