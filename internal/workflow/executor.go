package workflow

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/repos/shared"
)

// DefaultConcurrency is the number of repositories processed at once when no limit is configured.
const DefaultConcurrency = 5

const (
	runStartedMessageConstant          = "Organizing repositories"
	runCompletedMessageConstant        = "Organized repositories"
	repositoryStartedMessageConstant   = "Repository started"
	repositorySucceededMessageConstant = "Repository organized"
	repositoryFailedMessageConstant    = "Repository failed"
	duplicateRepositoryMessageConstant = "Skipping duplicate repository"
	logFieldRepositoryConstant         = "repository"
	logFieldRepositoryCountConstant    = "repository_count"
	logFieldActionsConstant            = "actions"
	logFieldConcurrencyConstant        = "concurrency"
	logFieldFailureCountConstant       = "failure_count"
	logFieldStepsConstant              = "steps"
	logFieldErrorConstant              = "error"
)

// ProgressObserver receives the live status of every repository task.
// Calls for different repositories may arrive concurrently.
type ProgressObserver interface {
	RepositoryStarted(repository shared.Repository)
	RepositoryProgress(repository shared.Repository, status string)
	RepositoryCompleted(repository shared.Repository, result RunResult)
}

// Dependencies configures collaborators for the executor.
type Dependencies struct {
	Logger   *zap.Logger
	Observer ProgressObserver
}

// Options captures execution modifiers.
type Options struct {
	Concurrency int
}

// Executor applies an action chain to repositories with bounded concurrency.
type Executor struct {
	logger      *zap.Logger
	observer    ProgressObserver
	concurrency int
}

// NewExecutor constructs an Executor. A non-positive concurrency falls back to DefaultConcurrency.
func NewExecutor(dependencies Dependencies, options Options) *Executor {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := dependencies.Observer
	if observer == nil {
		observer = noopObserver{}
	}
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Executor{logger: logger, observer: observer, concurrency: concurrency}
}

// Concurrency reports the effective limit.
func (executor *Executor) Concurrency() int {
	return executor.concurrency
}

// Run applies the chain to every repository and returns once all repository tasks finished.
// A failing action stops the rest of that repository's chain and never affects other repositories.
func (executor *Executor) Run(executionContext context.Context, chain actions.Chain, repositories []shared.Repository) Results {
	executor.logger.Info(runStartedMessageConstant,
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
		zap.Stringers(logFieldActionsConstant, chain.Kinds()),
		zap.Int(logFieldConcurrencyConstant, executor.concurrency),
	)

	collector := newResultCollector(len(repositories))
	scheduled := make(map[string]struct{}, len(repositories))

	var group errgroup.Group
	group.SetLimit(executor.concurrency)

	for _, repository := range repositories {
		if _, duplicate := scheduled[repository.FullName]; duplicate {
			executor.logger.Warn(duplicateRepositoryMessageConstant, zap.String(logFieldRepositoryConstant, repository.FullName))
			continue
		}
		scheduled[repository.FullName] = struct{}{}

		repository := repository
		group.Go(func() error {
			collector.record(executor.runRepository(executionContext, chain, repository))
			return nil
		})
	}
	_ = group.Wait()

	results := collector.results()
	executor.logger.Info(runCompletedMessageConstant,
		zap.Int(logFieldRepositoryCountConstant, len(results)),
		zap.Int(logFieldFailureCountConstant, len(results.Failures())),
	)
	return results
}

func (executor *Executor) runRepository(executionContext context.Context, chain actions.Chain, repository shared.Repository) RunResult {
	executor.logger.Debug(repositoryStartedMessageConstant, zap.String(logFieldRepositoryConstant, repository.FullName))
	executor.observer.RepositoryStarted(repository)

	progress := actions.ProgressSink(func(status string) {
		executor.observer.RepositoryProgress(repository, status)
	})

	steps := make([]StepResult, 0, len(chain))
	var failure error
	for _, action := range chain {
		if failure != nil {
			steps = append(steps, StepResult{Kind: action.Kind(), Status: StepNotRun})
			continue
		}

		outcome, applyError := action.Apply(executionContext, repository, progress)
		switch {
		case applyError != nil:
			failure = applyError
			steps = append(steps, StepResult{Kind: action.Kind(), Status: StepFailed})
		case outcome == actions.OutcomeSkipped:
			steps = append(steps, StepResult{Kind: action.Kind(), Status: StepSkipped})
		default:
			steps = append(steps, StepResult{Kind: action.Kind(), Status: StepApplied})
		}
	}

	result := RunResult{Repository: repository, Status: RunSucceeded, Steps: steps}
	if failure != nil {
		result.Status = RunFailed
		result.Error = failure
		executor.logger.Warn(repositoryFailedMessageConstant,
			zap.String(logFieldRepositoryConstant, repository.FullName),
			zap.String(logFieldErrorConstant, failure.Error()),
		)
	} else {
		executor.logger.Debug(repositorySucceededMessageConstant,
			zap.String(logFieldRepositoryConstant, repository.FullName),
			zap.Stringers(logFieldStepsConstant, steps),
		)
	}

	executor.observer.RepositoryCompleted(repository, result)
	return result
}

type resultCollector struct {
	mutex        sync.Mutex
	byRepository Results
}

func newResultCollector(capacity int) *resultCollector {
	return &resultCollector{byRepository: make(Results, capacity)}
}

func (collector *resultCollector) record(result RunResult) {
	collector.mutex.Lock()
	defer collector.mutex.Unlock()
	collector.byRepository[result.Repository.FullName] = result
}

func (collector *resultCollector) results() Results {
	collector.mutex.Lock()
	defer collector.mutex.Unlock()
	snapshot := make(Results, len(collector.byRepository))
	for fullName, result := range collector.byRepository {
		snapshot[fullName] = result
	}
	return snapshot
}

type noopObserver struct{}

func (noopObserver) RepositoryStarted(shared.Repository)              {}
func (noopObserver) RepositoryProgress(shared.Repository, string)     {}
func (noopObserver) RepositoryCompleted(shared.Repository, RunResult) {}
