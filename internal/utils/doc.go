// Package utils holds the configuration loader, the zap logger factory and the
// ConsoleWriter shared by the organizer commands.
package utils
