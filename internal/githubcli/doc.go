// Package githubcli implements the repository hosting capability on top of the
// GitHub CLI.
//
// Every operation is a gh api invocation routed through execshell, so the
// client reuses whatever authentication gh already holds and can be exercised
// in tests with a stub executor.
package githubcli
