package actions

import (
	"context"
	"fmt"

	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	closingIssuesStatusConstant               = "closing issues"
	closingPullRequestsStatusConstant         = "closing pull requests"
	closingProgressStatusTemplateConstant     = "%s (%d/%d)"
	closingIssuesCompletedTemplateConstant    = "closed %d issues"
	closingPullRequestsCompletedTemplateConst = "closed %d pull requests"
)

// CloseIssuesAction closes every open issue of a repository. Archived repositories are skipped.
type CloseIssuesAction struct {
	client shared.RepositoryClient
}

// NewCloseIssuesAction constructs a CloseIssuesAction.
func NewCloseIssuesAction(client shared.RepositoryClient) CloseIssuesAction {
	return CloseIssuesAction{client: client}
}

// Kind identifies the action.
func (action CloseIssuesAction) Kind() Kind {
	return KindCloseIssues
}

// Apply lists open issues and closes them one by one, stopping at the first failure.
func (action CloseIssuesAction) Apply(executionContext context.Context, repository shared.Repository, progress ProgressSink) (Outcome, error) {
	if repository.Archived {
		return OutcomeSkipped, nil
	}

	progress.Report(closingIssuesStatusConstant)
	issues, listError := action.client.ListOpenIssues(executionContext, repository)
	if listError != nil {
		return OutcomeApplied, ActionError{Kind: action.Kind(), Repository: repository.FullName, Cause: listError}
	}

	issueNumbers := make([]int, 0, len(issues))
	for _, issue := range issues {
		issueNumbers = append(issueNumbers, issue.Number)
	}

	closeError := closeEach(executionContext, repository, issueNumbers, closingIssuesStatusConstant, progress, action.client.CloseIssue)
	if closeError != nil {
		return OutcomeApplied, ActionError{Kind: action.Kind(), Repository: repository.FullName, Cause: closeError}
	}
	progress.Report(fmt.Sprintf(closingIssuesCompletedTemplateConstant, len(issueNumbers)))
	return OutcomeApplied, nil
}

// ClosePullRequestsAction closes every open pull request of a repository. Archived repositories are skipped.
type ClosePullRequestsAction struct {
	client shared.RepositoryClient
}

// NewClosePullRequestsAction constructs a ClosePullRequestsAction.
func NewClosePullRequestsAction(client shared.RepositoryClient) ClosePullRequestsAction {
	return ClosePullRequestsAction{client: client}
}

// Kind identifies the action.
func (action ClosePullRequestsAction) Kind() Kind {
	return KindClosePullRequests
}

// Apply lists open pull requests and closes them one by one, stopping at the first failure.
func (action ClosePullRequestsAction) Apply(executionContext context.Context, repository shared.Repository, progress ProgressSink) (Outcome, error) {
	if repository.Archived {
		return OutcomeSkipped, nil
	}

	progress.Report(closingPullRequestsStatusConstant)
	pullRequests, listError := action.client.ListOpenPullRequests(executionContext, repository)
	if listError != nil {
		return OutcomeApplied, ActionError{Kind: action.Kind(), Repository: repository.FullName, Cause: listError}
	}

	pullRequestNumbers := make([]int, 0, len(pullRequests))
	for _, pullRequest := range pullRequests {
		pullRequestNumbers = append(pullRequestNumbers, pullRequest.Number)
	}

	closeError := closeEach(executionContext, repository, pullRequestNumbers, closingPullRequestsStatusConstant, progress, action.client.ClosePullRequest)
	if closeError != nil {
		return OutcomeApplied, ActionError{Kind: action.Kind(), Repository: repository.FullName, Cause: closeError}
	}
	progress.Report(fmt.Sprintf(closingPullRequestsCompletedTemplateConst, len(pullRequestNumbers)))
	return OutcomeApplied, nil
}

func closeEach(
	executionContext context.Context,
	repository shared.Repository,
	numbers []int,
	status string,
	progress ProgressSink,
	closeFunc func(context.Context, shared.Repository, int) error,
) error {
	for numberIndex, number := range numbers {
		progress.Report(fmt.Sprintf(closingProgressStatusTemplateConstant, status, numberIndex+1, len(numbers)))
		if closeError := closeFunc(executionContext, repository, number); closeError != nil {
			return closeError
		}
	}
	return nil
}
