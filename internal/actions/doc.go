// Package actions defines the repository maintenance actions and the
// configurator that turns operator choices into an ordered action chain.
//
// Configuration is repository-agnostic: every prompt happens while the chain
// is built, and the resulting Action values are applied unchanged to each
// selected repository. Per-repository decisions, such as skipping archived
// repositories, happen inside Apply.
package actions
