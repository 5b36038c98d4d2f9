package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/repos/shared"
	"github.com/temirov/organizer/internal/repos/testsupport"
	"github.com/temirov/organizer/internal/workflow"
)

const (
	testRepositoryATemplateConstant = "acme/a"
	testRepositoryBTemplateConstant = "acme/b"
	testRepositoryCTemplateConstant = "acme/c"
	testStepDelayConstant           = 15 * time.Millisecond
)

type scriptedAction struct {
	kind     actions.Kind
	delay    time.Duration
	failures map[string]error
	outcome  actions.Outcome
	events   *eventLog
	inFlight *atomic.Int32
	maximum  *atomic.Int32
}

func (action scriptedAction) Kind() actions.Kind {
	return action.kind
}

func (action scriptedAction) Apply(_ context.Context, repository shared.Repository, progress actions.ProgressSink) (actions.Outcome, error) {
	if action.inFlight != nil {
		current := action.inFlight.Add(1)
		defer action.inFlight.Add(-1)
		for {
			observed := action.maximum.Load()
			if current <= observed || action.maximum.CompareAndSwap(observed, current) {
				break
			}
		}
	}
	if action.events != nil {
		action.events.append(fmt.Sprintf("start:%s:%s", action.kind, repository.FullName))
		defer action.events.append(fmt.Sprintf("end:%s:%s", action.kind, repository.FullName))
	}

	progress.Report(action.kind.String())
	time.Sleep(action.delay)
	if failure, failing := action.failures[repository.FullName]; failing {
		return actions.OutcomeApplied, failure
	}
	return action.outcome, nil
}

type eventLog struct {
	mutex  sync.Mutex
	events []string
}

func (log *eventLog) append(event string) {
	log.mutex.Lock()
	defer log.mutex.Unlock()
	log.events = append(log.events, event)
}

func (log *eventLog) indexOf(event string) int {
	log.mutex.Lock()
	defer log.mutex.Unlock()
	for eventIndex, recorded := range log.events {
		if recorded == event {
			return eventIndex
		}
	}
	return -1
}

type recordingObserver struct {
	mutex     sync.Mutex
	started   []string
	progress  map[string][]string
	completed map[string]workflow.RunResult
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{progress: map[string][]string{}, completed: map[string]workflow.RunResult{}}
}

func (observer *recordingObserver) RepositoryStarted(repository shared.Repository) {
	observer.mutex.Lock()
	defer observer.mutex.Unlock()
	observer.started = append(observer.started, repository.FullName)
}

func (observer *recordingObserver) RepositoryProgress(repository shared.Repository, status string) {
	observer.mutex.Lock()
	defer observer.mutex.Unlock()
	observer.progress[repository.FullName] = append(observer.progress[repository.FullName], status)
}

func (observer *recordingObserver) RepositoryCompleted(repository shared.Repository, result workflow.RunResult) {
	observer.mutex.Lock()
	defer observer.mutex.Unlock()
	observer.completed[repository.FullName] = result
}

func namedRepositories(count int) []shared.Repository {
	repositories := make([]shared.Repository, 0, count)
	for repositoryIndex := 0; repositoryIndex < count; repositoryIndex++ {
		repositories = append(repositories, shared.Repository{FullName: fmt.Sprintf("acme/repository-%02d", repositoryIndex)})
	}
	return repositories
}

func TestExecutorNeverExceedsConcurrencyLimit(testInstance *testing.T) {
	testCases := []struct {
		name            string
		concurrency     int
		repositoryCount int
		expectedLimit   int
	}{
		{name: "limit_three", concurrency: 3, repositoryCount: 10, expectedLimit: 3},
		{name: "limit_one", concurrency: 1, repositoryCount: 4, expectedLimit: 1},
		{name: "non_positive_falls_back", concurrency: 0, repositoryCount: 12, expectedLimit: workflow.DefaultConcurrency},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var inFlight atomic.Int32
			var maximum atomic.Int32
			chain := actions.Chain{
				scriptedAction{kind: actions.KindCloseIssues, delay: testStepDelayConstant, inFlight: &inFlight, maximum: &maximum},
				scriptedAction{kind: actions.KindUpdateSettings, delay: testStepDelayConstant, inFlight: &inFlight, maximum: &maximum},
			}

			executor := workflow.NewExecutor(workflow.Dependencies{}, workflow.Options{Concurrency: testCase.concurrency})
			require.Equal(testInstance, testCase.expectedLimit, executor.Concurrency())

			results := executor.Run(context.Background(), chain, namedRepositories(testCase.repositoryCount))
			require.Len(testInstance, results, testCase.repositoryCount)
			require.NoError(testInstance, results.Err())
			require.LessOrEqual(testInstance, int(maximum.Load()), testCase.expectedLimit)
			require.GreaterOrEqual(testInstance, int(maximum.Load()), 1)
		})
	}
}

func TestExecutorLimitsInFlightRemoteCalls(testInstance *testing.T) {
	repositories := namedRepositories(6)
	issues := map[string][]shared.Issue{}
	for _, repository := range repositories {
		issues[repository.FullName] = []shared.Issue{{Number: 1}, {Number: 2}}
	}
	client := &testsupport.RecordingRepositoryClient{Issues: issues, Delay: 5 * time.Millisecond}

	executor := workflow.NewExecutor(workflow.Dependencies{}, workflow.Options{Concurrency: 2})
	results := executor.Run(context.Background(), actions.Chain{actions.NewCloseIssuesAction(client)}, repositories)

	require.NoError(testInstance, results.Err())
	require.LessOrEqual(testInstance, client.MaxInFlight(), 2)
	require.Len(testInstance, client.Calls(), 18)
}

func TestExecutorFailureIsolatedToRepository(testInstance *testing.T) {
	injectedFailure := errors.New("permission denied")
	events := &eventLog{}
	chain := actions.Chain{
		scriptedAction{kind: actions.KindCloseIssues, failures: map[string]error{testRepositoryATemplateConstant: injectedFailure}, events: events},
		scriptedAction{kind: actions.KindTransfer, events: events},
	}

	observerCore, observedLogs := observer.New(zap.WarnLevel)
	executor := workflow.NewExecutor(workflow.Dependencies{Logger: zap.New(observerCore)}, workflow.Options{Concurrency: 2})
	results := executor.Run(context.Background(), chain, []shared.Repository{
		{FullName: testRepositoryATemplateConstant},
		{FullName: testRepositoryBTemplateConstant},
	})

	failedResult := results[testRepositoryATemplateConstant]
	require.Equal(testInstance, workflow.RunFailed, failedResult.Status)
	require.ErrorIs(testInstance, failedResult.Error, injectedFailure)
	require.Equal(testInstance, []workflow.StepResult{
		{Kind: actions.KindCloseIssues, Status: workflow.StepFailed},
		{Kind: actions.KindTransfer, Status: workflow.StepNotRun},
	}, failedResult.Steps)
	require.Equal(testInstance, -1, events.indexOf("start:transfer:acme/a"))

	succeededResult := results[testRepositoryBTemplateConstant]
	require.Equal(testInstance, workflow.RunSucceeded, succeededResult.Status)
	require.NoError(testInstance, succeededResult.Error)
	require.Equal(testInstance, []workflow.StepResult{
		{Kind: actions.KindCloseIssues, Status: workflow.StepApplied},
		{Kind: actions.KindTransfer, Status: workflow.StepApplied},
	}, succeededResult.Steps)

	require.Len(testInstance, results.Failures(), 1)
	require.ErrorIs(testInstance, results.Err(), injectedFailure)
	require.Equal(testInstance, 1, observedLogs.FilterMessage("Repository failed").Len())
}

func TestExecutorRunsChainSequentiallyPerRepository(testInstance *testing.T) {
	events := &eventLog{}
	chain := actions.Chain{
		scriptedAction{kind: actions.KindCloseIssues, delay: testStepDelayConstant, events: events},
		scriptedAction{kind: actions.KindClosePullRequests, delay: testStepDelayConstant, events: events},
	}
	repositories := namedRepositories(4)

	executor := workflow.NewExecutor(workflow.Dependencies{}, workflow.Options{Concurrency: 4})
	results := executor.Run(context.Background(), chain, repositories)
	require.NoError(testInstance, results.Err())

	for _, repository := range repositories {
		firstEnd := events.indexOf("end:close-issues:" + repository.FullName)
		secondStart := events.indexOf("start:close-pull-requests:" + repository.FullName)
		require.NotEqual(testInstance, -1, firstEnd)
		require.NotEqual(testInstance, -1, secondStart)
		require.Less(testInstance, firstEnd, secondStart)
	}
}

func TestExecutorReportsProgressToObserver(testInstance *testing.T) {
	progressObserver := newRecordingObserver()
	chain := actions.Chain{
		scriptedAction{kind: actions.KindCloseIssues},
		scriptedAction{kind: actions.KindUpdateSettings, outcome: actions.OutcomeSkipped},
	}

	executor := workflow.NewExecutor(workflow.Dependencies{Observer: progressObserver}, workflow.Options{})
	results := executor.Run(context.Background(), chain, []shared.Repository{{FullName: testRepositoryATemplateConstant}})

	require.Equal(testInstance, []string{testRepositoryATemplateConstant}, progressObserver.started)
	require.Equal(testInstance, []string{"close-issues", "update-settings"}, progressObserver.progress[testRepositoryATemplateConstant])
	require.Equal(testInstance, results[testRepositoryATemplateConstant], progressObserver.completed[testRepositoryATemplateConstant])
	require.False(testInstance, results[testRepositoryATemplateConstant].NoOp())
}

func TestExecutorSkipsDuplicateRepositories(testInstance *testing.T) {
	events := &eventLog{}
	chain := actions.Chain{scriptedAction{kind: actions.KindDelete, events: events}}

	observerCore, observedLogs := observer.New(zap.WarnLevel)
	progressObserver := newRecordingObserver()
	executor := workflow.NewExecutor(workflow.Dependencies{Logger: zap.New(observerCore), Observer: progressObserver}, workflow.Options{Concurrency: 1})
	results := executor.Run(context.Background(), chain, []shared.Repository{
		{FullName: testRepositoryATemplateConstant},
		{FullName: testRepositoryATemplateConstant},
	})

	require.Len(testInstance, results, 1)
	require.Len(testInstance, progressObserver.started, 1)
	require.Len(testInstance, events.events, 2)
	require.Equal(testInstance, 1, observedLogs.FilterMessage("Skipping duplicate repository").Len())
}

func TestExecutorEmptyInputs(testInstance *testing.T) {
	executor := workflow.NewExecutor(workflow.Dependencies{}, workflow.Options{})

	require.Empty(testInstance, executor.Run(context.Background(), actions.Chain{}, nil))

	results := executor.Run(context.Background(), actions.Chain{}, []shared.Repository{{FullName: testRepositoryATemplateConstant}})
	require.True(testInstance, results[testRepositoryATemplateConstant].Succeeded())
	require.True(testInstance, results[testRepositoryATemplateConstant].NoOp())
}

func TestExecutorEndToEndArchivedRegularAndFork(testInstance *testing.T) {
	repositoryA := shared.Repository{FullName: testRepositoryATemplateConstant, Visibility: shared.VisibilityPublic, Archived: true}
	repositoryB := shared.Repository{FullName: testRepositoryBTemplateConstant, Visibility: shared.VisibilityPublic}
	repositoryC := shared.Repository{FullName: testRepositoryCTemplateConstant, Visibility: shared.VisibilityPublic, Fork: true}

	client := &testsupport.RecordingRepositoryClient{
		Issues: map[string][]shared.Issue{
			testRepositoryATemplateConstant: {{Number: 1}},
			testRepositoryBTemplateConstant: {{Number: 2}, {Number: 3}},
			testRepositoryCTemplateConstant: {{Number: 4}},
		},
	}

	private := shared.VisibilityPrivate
	chain := actions.Chain{
		actions.NewCloseIssuesAction(client),
		actions.NewUpdateSettingsAction(client, shared.SettingsPatch{Visibility: &private}),
	}

	executor := workflow.NewExecutor(workflow.Dependencies{}, workflow.Options{Concurrency: 2})
	results := executor.Run(context.Background(), chain, []shared.Repository{repositoryA, repositoryB, repositoryC})

	require.Len(testInstance, results, 3)
	require.NoError(testInstance, results.Err())

	resultA := results[testRepositoryATemplateConstant]
	require.True(testInstance, resultA.NoOp())
	require.Equal(testInstance, []workflow.StepResult{
		{Kind: actions.KindCloseIssues, Status: workflow.StepSkipped},
		{Kind: actions.KindUpdateSettings, Status: workflow.StepSkipped},
	}, resultA.Steps)
	require.Empty(testInstance, client.CallsFor(testRepositoryATemplateConstant))

	resultB := results[testRepositoryBTemplateConstant]
	require.Equal(testInstance, []workflow.StepResult{
		{Kind: actions.KindCloseIssues, Status: workflow.StepApplied},
		{Kind: actions.KindUpdateSettings, Status: workflow.StepApplied},
	}, resultB.Steps)
	mutationsB := client.MutationsFor(testRepositoryBTemplateConstant)
	require.Len(testInstance, mutationsB, 3)
	require.Equal(testInstance, testsupport.MethodPatchSettings, mutationsB[2].Method)
	require.Equal(testInstance, []shared.SettingKey{shared.SettingVisibility}, mutationsB[2].Patch.Keys())

	resultC := results[testRepositoryCTemplateConstant]
	require.Equal(testInstance, []workflow.StepResult{
		{Kind: actions.KindCloseIssues, Status: workflow.StepApplied},
		{Kind: actions.KindUpdateSettings, Status: workflow.StepSkipped},
	}, resultC.Steps)
	mutationsC := client.MutationsFor(testRepositoryCTemplateConstant)
	require.Len(testInstance, mutationsC, 1)
	require.Equal(testInstance, testsupport.MethodCloseIssue, mutationsC[0].Method)
}
