// Package plan loads YAML run plans that answer every organize prompt ahead of
// time so the command can run without a terminal.
package plan
