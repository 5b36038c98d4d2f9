package actions

import (
	"errors"
	"fmt"
)

const (
	configurationErrorTemplateConstant = "configure %s: %v"
	actionErrorTemplateConstant        = "%s failed for %s: %v"
)

var (
	// ErrNoTransferDestinations indicates the authenticated user belongs to no organization.
	ErrNoTransferDestinations = errors.New("no organizations available as transfer destination")
	// ErrDeleteNotEnabled indicates delete was requested without the explicit opt-in.
	ErrDeleteNotEnabled = errors.New("delete action is not enabled")
	// ErrUnarchiveNotSupported indicates an update asked to set archived to false.
	ErrUnarchiveNotSupported = errors.New("archived can only be set to true")
	// ErrPrompterNotConfigured indicates the configurator has no parameter prompter.
	ErrPrompterNotConfigured = errors.New("parameter prompter not configured")
	// ErrClientNotConfigured indicates the configurator has no repository client.
	ErrClientNotConfigured = errors.New("repository client not configured")
)

// ConfigurationError reports an action that could not be configured. It aborts the run before any repository work.
type ConfigurationError struct {
	Kind  Kind
	Cause error
}

// Error describes the configuration failure.
func (configurationError ConfigurationError) Error() string {
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Kind, configurationError.Cause)
}

// Unwrap exposes the underlying cause.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Cause
}

// ActionError reports a remote failure while applying an action to one repository.
type ActionError struct {
	Kind       Kind
	Repository string
	Cause      error
}

// Error describes the failed action.
func (actionError ActionError) Error() string {
	return fmt.Sprintf(actionErrorTemplateConstant, actionError.Kind, actionError.Repository, actionError.Cause)
}

// Unwrap exposes the underlying cause.
func (actionError ActionError) Unwrap() error {
	return actionError.Cause
}
