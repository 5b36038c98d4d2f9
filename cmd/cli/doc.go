// Package cli constructs the organizer command-line interface. It wires the
// Cobra command hierarchy to the configuration loader and the zap logger, and
// registers the organize command.
package cli
