// Package ui renders the interactive side of an organize run.
//
// Forms built on huh collect owner, actions, filters and repositories, while the
// status board and console progress logger report per-repository progress as the
// executor works through the selection.
package ui
