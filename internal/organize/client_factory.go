package organize

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/temirov/organizer/internal/execshell"
	"github.com/temirov/organizer/internal/githubapi"
	"github.com/temirov/organizer/internal/githubauth"
	"github.com/temirov/organizer/internal/githubcli"
	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	apiClientErrorTemplateConstant = "unable to construct GitHub API client: %w"
	cliClientErrorTemplateConstant = "unable to construct GitHub CLI client: %w"
)

// ClientOptions selects and configures the repository client backend.
type ClientOptions struct {
	Backend       Backend
	BaseURL       string
	DryRun        bool
	Environment   map[string]string
	TokenPrompter githubauth.TokenPrompter
	Logger        *zap.Logger
	HTTPClient    *http.Client
	CommandRunner execshell.CommandRunner
}

// ClientFactory constructs the repository client for a run.
type ClientFactory func(executionContext context.Context, options ClientOptions) (shared.RepositoryClient, error)

// NewRepositoryClient builds the client for the selected backend. Dry runs wrap it so that mutations are only logged.
func NewRepositoryClient(executionContext context.Context, options ClientOptions) (shared.RepositoryClient, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var client shared.RepositoryClient
	switch options.Backend {
	case BackendCLI:
		runner := options.CommandRunner
		if runner == nil {
			runner = execshell.NewOSCommandRunner()
		}
		shellExecutor, executorError := execshell.NewShellExecutor(logger, runner)
		if executorError != nil {
			return nil, fmt.Errorf(cliClientErrorTemplateConstant, executorError)
		}
		cliClient, clientError := githubcli.NewClient(shellExecutor)
		if clientError != nil {
			return nil, fmt.Errorf(cliClientErrorTemplateConstant, clientError)
		}
		client = cliClient
	default:
		token, tokenError := githubauth.ResolveOrPromptToken(executionContext, options.Environment, options.TokenPrompter)
		if tokenError != nil {
			return nil, tokenError
		}
		apiClient, clientError := githubapi.NewClient(githubapi.Configuration{
			Token:      token,
			BaseURL:    options.BaseURL,
			HTTPClient: options.HTTPClient,
			Logger:     logger,
		})
		if clientError != nil {
			return nil, fmt.Errorf(apiClientErrorTemplateConstant, clientError)
		}
		client = apiClient
	}

	if shared.MutationPolicyFromDryRun(options.DryRun).IsDryRun() {
		return shared.NewDryRunClient(client, logger), nil
	}
	return client, nil
}
