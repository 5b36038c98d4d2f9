// Package organize runs the interactive repository maintenance flow: resolve the
// owner, configure actions, filter and pick repositories, then apply the chain
// with bounded concurrency and summarize the outcome.
package organize
