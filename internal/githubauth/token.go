package githubauth

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers, in order of preference.
const (
	EnvGitHubPersonalAccessToken = "GH_PAT"
	EnvGitHubCLIToken            = "GH_TOKEN"
	EnvGitHubToken               = "GITHUB_TOKEN"
	EnvGitHubAPIToken            = "GITHUB_API_TOKEN"
)

// ErrTokenUnavailable indicates no token was found and none could be requested.
var ErrTokenUnavailable = errors.New("github token not provided")

var tokenPreference = []string{
	EnvGitHubPersonalAccessToken,
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// TokenPrompter asks the operator for a token when the environment carries none.
type TokenPrompter interface {
	PromptToken(executionContext context.Context) (string, error)
}

// ResolveToken returns the first non-empty GitHub authentication token observed
// in the provided environment map or the process environment.
func ResolveToken(environment map[string]string) (string, bool) {
	for _, key := range tokenPreference {
		if value, ok := lookup(environment, key); ok {
			return value, true
		}
	}
	for _, key := range tokenPreference {
		if value, ok := os.LookupEnv(key); ok {
			value = strings.TrimSpace(value)
			if len(value) > 0 {
				return value, true
			}
		}
	}
	return "", false
}

// ResolveOrPromptToken falls back to the prompter when the environment carries no token.
func ResolveOrPromptToken(executionContext context.Context, environment map[string]string, prompter TokenPrompter) (string, error) {
	if token, found := ResolveToken(environment); found {
		return token, nil
	}
	if prompter == nil {
		return "", ErrTokenUnavailable
	}
	token, promptError := prompter.PromptToken(executionContext)
	if promptError != nil {
		return "", promptError
	}
	token = strings.TrimSpace(token)
	if len(token) == 0 {
		return "", ErrTokenUnavailable
	}
	return token, nil
}

func lookup(environment map[string]string, key string) (string, bool) {
	if environment == nil {
		return "", false
	}
	value, exists := environment[key]
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}
