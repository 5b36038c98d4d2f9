package organize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/githubauth"
	"github.com/temirov/organizer/internal/repos/filter"
	"github.com/temirov/organizer/internal/repos/shared"
	"github.com/temirov/organizer/internal/ui"
	"github.com/temirov/organizer/internal/workflow"
)

const (
	resolveLoginErrorTemplateConstant     = "unable to resolve authenticated user: %w"
	listRepositoriesErrorTemplateConstant = "unable to list repositories of %s: %w"
	summaryErrorTemplateConstant          = "unable to render summary: %w"
	confirmationPromptTemplateConstant    = "Apply %s to %d repositories of %s?"
	kindsJoinSeparatorConstant            = ", "
	ownerResolvedMessageConstant          = "Resolved owner"
	noActionsMessageConstant              = "No actions selected"
	noCandidatesMessageConstant           = "No repositories match the filter"
	noRepositoriesMessageConstant         = "No repositories selected"
	runDeclinedMessageConstant            = "Run declined"
	runCancelledMessageConstant           = "Run cancelled"
	dryRunMessageConstant                 = "Dry run: mutations are logged and not sent"
	candidatesMessageConstant             = "Listed repositories"
	logFieldOwnerConstant                 = "owner"
	logFieldOwnerIsUserConstant           = "owner_is_user"
	logFieldRepositoryCountConstant       = "repository_count"
	logFieldCandidateCountConstant        = "candidate_count"
)

var (
	errClientNotConfigured   = errors.New("organize requires a repository client")
	errPrompterNotConfigured = errors.New("organize requires a prompter")
)

// Prompter collects every operator decision of a run.
type Prompter interface {
	actions.ParameterPrompter
	githubauth.TokenPrompter
	shared.ConfirmationPrompter
	SelectOwner(executionContext context.Context, defaultOwner string) (string, error)
	SelectActions(executionContext context.Context, offeredKinds []actions.Kind) ([]actions.Kind, error)
	SelectFilter(executionContext context.Context) (filter.Criteria, error)
	SelectRepositories(executionContext context.Context, candidates []shared.Repository) ([]shared.Repository, error)
}

// ObserverFactory builds the progress observer for the selected repositories.
type ObserverFactory func(repositories []shared.Repository) workflow.ProgressObserver

// Dependencies configures collaborators for the service.
type Dependencies struct {
	Logger          *zap.Logger
	ExecutionLogger *zap.Logger
	Client          shared.RepositoryClient
	Prompter        Prompter
	ObserverFactory ObserverFactory
	Output          io.Writer
}

// Options captures the run parameters resolved from flags and configuration.
type Options struct {
	Owner        string
	Concurrency  int
	EnableDelete bool
	Actions      []actions.Kind
	AssumeYes    bool
	DryRun       bool
}

// Service drives one organize run.
type Service struct {
	logger          *zap.Logger
	executionLogger *zap.Logger
	client          shared.RepositoryClient
	prompter        Prompter
	observerFactory ObserverFactory
	output          io.Writer
}

// NewService constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Client == nil {
		return nil, errClientNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, errPrompterNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	executionLogger := dependencies.ExecutionLogger
	if executionLogger == nil {
		executionLogger = logger
	}
	output := dependencies.Output
	if output == nil {
		output = io.Discard
	}
	return &Service{
		logger:          logger,
		executionLogger: executionLogger,
		client:          dependencies.Client,
		prompter:        dependencies.Prompter,
		observerFactory: dependencies.ObserverFactory,
		output:          output,
	}, nil
}

// Run executes the flow. Empty selections and a cancelled prompt end the run without error.
// Repository failures are summarized and returned as RunFailedError.
func (service *Service) Run(executionContext context.Context, options Options) error {
	runError := service.run(executionContext, options)
	if errors.Is(runError, ui.ErrPromptCancelled) {
		service.logger.Info(runCancelledMessageConstant)
		return nil
	}
	return runError
}

func (service *Service) run(executionContext context.Context, options Options) error {
	if shared.MutationPolicyFromDryRun(options.DryRun).IsDryRun() {
		service.logger.Info(dryRunMessageConstant)
	}

	login, loginError := service.client.AuthenticatedLogin(executionContext)
	if loginError != nil {
		return fmt.Errorf(resolveLoginErrorTemplateConstant, loginError)
	}

	owner, ownerIsUser, ownerError := service.resolveOwner(executionContext, options.Owner, login)
	if ownerError != nil {
		return ownerError
	}

	kinds := options.Actions
	if len(kinds) == 0 {
		selectedKinds, selectionError := service.prompter.SelectActions(executionContext, actions.OfferedKinds(options.EnableDelete))
		if selectionError != nil {
			return selectionError
		}
		kinds = selectedKinds
	}
	if len(kinds) == 0 {
		service.logger.Info(noActionsMessageConstant)
		return nil
	}

	configurator, configuratorError := actions.NewConfigurator(service.client, service.prompter, actions.ConfiguratorOptions{
		DeleteEnabled: options.EnableDelete,
		Logger:        service.logger,
	})
	if configuratorError != nil {
		return configuratorError
	}
	chain, chainError := configurator.BuildChain(executionContext, kinds)
	if chainError != nil {
		return chainError
	}

	selected, selectionError := service.selectRepositories(executionContext, owner, ownerIsUser)
	if selectionError != nil || len(selected) == 0 {
		return selectionError
	}

	if shared.ConfirmationPolicyFromBool(options.AssumeYes).ShouldPrompt() {
		prompt := fmt.Sprintf(confirmationPromptTemplateConstant, joinKinds(chain.Kinds()), len(selected), owner)
		confirmed, confirmError := service.prompter.Confirm(executionContext, prompt)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			service.logger.Info(runDeclinedMessageConstant)
			return nil
		}
	}

	var observer workflow.ProgressObserver
	if service.observerFactory != nil {
		observer = service.observerFactory(selected)
	}
	executor := workflow.NewExecutor(
		workflow.Dependencies{Logger: service.executionLogger, Observer: observer},
		workflow.Options{Concurrency: options.Concurrency},
	)
	results := executor.Run(executionContext, chain, selected)

	if summaryError := ui.RenderSummary(service.output, results); summaryError != nil {
		return fmt.Errorf(summaryErrorTemplateConstant, summaryError)
	}
	if failures := results.Failures(); len(failures) > 0 {
		return RunFailedError{Failed: len(failures), Total: len(results), Cause: results.Err()}
	}
	if completedError := ui.RenderCompleted(service.output); completedError != nil {
		return fmt.Errorf(summaryErrorTemplateConstant, completedError)
	}
	return nil
}

func (service *Service) resolveOwner(executionContext context.Context, configuredOwner string, login string) (string, bool, error) {
	owner := strings.TrimSpace(configuredOwner)
	if len(owner) == 0 {
		promptedOwner, promptError := service.prompter.SelectOwner(executionContext, login)
		if promptError != nil {
			return "", false, promptError
		}
		owner = promptedOwner
	}

	ownerSlug, slugError := shared.NewOwnerSlug(owner)
	if slugError != nil {
		return "", false, slugError
	}
	ownerIsUser := strings.EqualFold(ownerSlug.String(), login)

	service.logger.Info(ownerResolvedMessageConstant,
		zap.String(logFieldOwnerConstant, ownerSlug.String()),
		zap.Bool(logFieldOwnerIsUserConstant, ownerIsUser),
	)
	return ownerSlug.String(), ownerIsUser, nil
}

func (service *Service) selectRepositories(executionContext context.Context, owner string, ownerIsUser bool) ([]shared.Repository, error) {
	criteria, criteriaError := service.prompter.SelectFilter(executionContext)
	if criteriaError != nil {
		return nil, criteriaError
	}

	repositories, listError := service.client.ListRepositories(executionContext, ownerIsUser, owner)
	if listError != nil {
		return nil, fmt.Errorf(listRepositoriesErrorTemplateConstant, owner, listError)
	}
	candidates := filter.Apply(repositories, criteria.Predicates()...)
	service.logger.Info(candidatesMessageConstant,
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
		zap.Int(logFieldCandidateCountConstant, len(candidates)),
	)
	if len(candidates) == 0 {
		service.logger.Info(noCandidatesMessageConstant)
		return nil, nil
	}

	selected, selectionError := service.prompter.SelectRepositories(executionContext, candidates)
	if selectionError != nil {
		return nil, selectionError
	}
	if len(selected) == 0 {
		service.logger.Info(noRepositoriesMessageConstant)
	}
	return selected, nil
}

func joinKinds(kinds []actions.Kind) string {
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.String())
	}
	return strings.Join(names, kindsJoinSeparatorConstant)
}
