// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions the gh CLI backend
// uses so that its interactions can be stubbed during testing.
package execshell
