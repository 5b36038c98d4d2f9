package organize_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/organizer/internal/execshell"
	"github.com/temirov/organizer/internal/githubapi"
	"github.com/temirov/organizer/internal/githubauth"
	"github.com/temirov/organizer/internal/githubcli"
	"github.com/temirov/organizer/internal/organize"
	"github.com/temirov/organizer/internal/repos/shared"
)

type fakeCommandRunner struct {
	output   string
	commands []execshell.ShellCommand
}

func (runner *fakeCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.commands = append(runner.commands, command)
	return execshell.ExecutionResult{StandardOutput: runner.output}, nil
}

func clearTokenEnvironment(testInstance *testing.T) {
	for _, key := range []string{"GH_PAT", "GH_TOKEN", "GITHUB_TOKEN", "GITHUB_API_TOKEN"} {
		testInstance.Setenv(key, "")
	}
}

func TestNewRepositoryClientUsesGitHubCLI(testInstance *testing.T) {
	runner := &fakeCommandRunner{output: `{"login":"octocat"}`}
	client, clientError := organize.NewRepositoryClient(context.Background(), organize.ClientOptions{
		Backend:       organize.BackendCLI,
		CommandRunner: runner,
	})
	require.NoError(testInstance, clientError)
	require.IsType(testInstance, &githubcli.Client{}, client)

	login, loginError := client.AuthenticatedLogin(context.Background())
	require.NoError(testInstance, loginError)
	require.Equal(testInstance, "octocat", login)
	require.Len(testInstance, runner.commands, 1)
	require.Equal(testInstance, execshell.CommandGitHub, runner.commands[0].Name)
}

func TestNewRepositoryClientUsesAPIWithToken(testInstance *testing.T) {
	client, clientError := organize.NewRepositoryClient(context.Background(), organize.ClientOptions{
		Backend:     organize.BackendAPI,
		Environment: map[string]string{"GH_TOKEN": "secret"},
	})
	require.NoError(testInstance, clientError)
	require.IsType(testInstance, &githubapi.Client{}, client)
}

func TestNewRepositoryClientPromptsForMissingToken(testInstance *testing.T) {
	clearTokenEnvironment(testInstance)
	prompter := &stubPrompter{token: "prompted"}
	client, clientError := organize.NewRepositoryClient(context.Background(), organize.ClientOptions{
		Backend:       organize.BackendAPI,
		TokenPrompter: prompter,
	})
	require.NoError(testInstance, clientError)
	require.NotNil(testInstance, client)
	require.Equal(testInstance, []string{"token"}, prompter.calls)
}

func TestNewRepositoryClientFailsWithoutToken(testInstance *testing.T) {
	clearTokenEnvironment(testInstance)
	_, clientError := organize.NewRepositoryClient(context.Background(), organize.ClientOptions{Backend: organize.BackendAPI})
	require.ErrorIs(testInstance, clientError, githubauth.ErrTokenUnavailable)
}

func TestNewRepositoryClientWrapsDryRun(testInstance *testing.T) {
	client, clientError := organize.NewRepositoryClient(context.Background(), organize.ClientOptions{
		Backend:     organize.BackendAPI,
		DryRun:      true,
		Environment: map[string]string{"GH_PAT": "secret"},
	})
	require.NoError(testInstance, clientError)
	require.IsType(testInstance, &shared.DryRunClient{}, client)
}
