package organize

import (
	"fmt"
	"strings"

	"github.com/temirov/organizer/internal/workflow"
)

// Backend selects how the GitHub API is reached.
type Backend string

// Supported backends.
const (
	BackendAPI Backend = Backend("api")
	BackendCLI Backend = Backend("cli")
)

const unknownBackendTemplateConstant = "unknown backend %q (expected api or cli)"

// ParseBackend normalizes a backend name. An empty name selects the API backend.
func ParseBackend(raw string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(raw))) {
	case "", BackendAPI:
		return BackendAPI, nil
	case BackendCLI:
		return BackendCLI, nil
	default:
		return "", fmt.Errorf(unknownBackendTemplateConstant, raw)
	}
}

// Configuration captures configuration values for the organize command.
type Configuration struct {
	Owner        string   `mapstructure:"owner"`
	Concurrency  int      `mapstructure:"concurrency"`
	EnableDelete bool     `mapstructure:"enable_delete"`
	Backend      string   `mapstructure:"backend"`
	BaseURL      string   `mapstructure:"base_url"`
	Plan         string   `mapstructure:"plan"`
	DryRun       bool     `mapstructure:"dry_run"`
	AssumeYes    bool     `mapstructure:"assume_yes"`
	Actions      []string `mapstructure:"actions"`
}

// DefaultConfiguration provides baseline configuration values.
func DefaultConfiguration() Configuration {
	return Configuration{
		Concurrency: workflow.DefaultConcurrency,
		Backend:     string(BackendAPI),
	}
}

// DefaultConfigurationValues exposes the defaults keyed for the configuration loader.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + ".owner":         defaults.Owner,
		prefix + ".concurrency":   defaults.Concurrency,
		prefix + ".enable_delete": defaults.EnableDelete,
		prefix + ".backend":       defaults.Backend,
		prefix + ".base_url":      defaults.BaseURL,
		prefix + ".plan":          defaults.Plan,
		prefix + ".dry_run":       defaults.DryRun,
		prefix + ".assume_yes":    defaults.AssumeYes,
		prefix + ".actions":       []string{},
	}
}

// Sanitize trims values and falls back to the default concurrency when the configured one is not positive.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Owner = strings.TrimSpace(configuration.Owner)
	sanitized.Backend = strings.TrimSpace(configuration.Backend)
	sanitized.BaseURL = strings.TrimSpace(configuration.BaseURL)
	sanitized.Plan = strings.TrimSpace(configuration.Plan)
	if sanitized.Concurrency <= 0 {
		sanitized.Concurrency = workflow.DefaultConcurrency
	}

	sanitized.Actions = make([]string, 0, len(configuration.Actions))
	for _, action := range configuration.Actions {
		trimmed := strings.TrimSpace(action)
		if len(trimmed) == 0 {
			continue
		}
		sanitized.Actions = append(sanitized.Actions, trimmed)
	}
	return sanitized
}
