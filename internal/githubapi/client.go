package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-github/v68/github"
	"go.uber.org/zap"

	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	pageSizeConstant                        = 100
	defaultMaxRetriesConstant               = 3
	defaultInitialRetryIntervalConstant     = 500 * time.Millisecond
	ownerAffiliationConstant                = "owner"
	openStateConstant                       = "open"
	closedStateConstant                     = "closed"
	retryingMessageConstant                 = "Retrying GitHub request"
	logFieldOperationConstant               = "operation"
	logFieldRetryDelayConstant              = "retry_delay"
	logFieldErrorConstant                   = "error"
	enterpriseURLErrorTemplateConstant      = "invalid GitHub API base URL %q: %w"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	requiredValueMessageConstant            = "value required"
	repositoryFieldNameConstant             = "repository"
	ownerFieldNameConstant                  = "owner"
	destinationFieldNameConstant            = "destination_owner"
	settingsFieldNameConstant               = "settings"
	authenticatedLoginOperationNameConstant = OperationName("AuthenticatedLogin")
	listOrganizationsOperationNameConstant  = OperationName("ListOrganizations")
	listRepositoriesOperationNameConstant   = OperationName("ListRepositories")
	listOpenIssuesOperationNameConstant     = OperationName("ListOpenIssues")
	closeIssueOperationNameConstant         = OperationName("CloseIssue")
	listPullRequestsOperationNameConstant   = OperationName("ListOpenPullRequests")
	closePullRequestOperationNameConstant   = OperationName("ClosePullRequest")
	patchSettingsOperationNameConstant      = OperationName("PatchSettings")
	transferOperationNameConstant           = OperationName("Transfer")
	deleteOperationNameConstant             = OperationName("Delete")
)

// OperationName describes a named REST workflow supported by the client.
type OperationName string

// OperationError wraps failures returned by the GitHub REST API.
type OperationError struct {
	Operation  OperationName
	StatusCode int
	Cause      error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// Configuration describes how the REST client authenticates and retries.
type Configuration struct {
	Token                string
	BaseURL              string
	HTTPClient           *http.Client
	MaxRetries           uint64
	InitialRetryInterval time.Duration
	Logger               *zap.Logger
}

// Client implements shared.RepositoryClient through the GitHub REST API.
type Client struct {
	github               *github.Client
	logger               *zap.Logger
	maxRetries           uint64
	initialRetryInterval time.Duration
}

// NewClient constructs a REST client. An empty BaseURL targets api.github.com.
func NewClient(configuration Configuration) (*Client, error) {
	githubClient := github.NewClient(configuration.HTTPClient)
	if token := strings.TrimSpace(configuration.Token); len(token) > 0 {
		githubClient = githubClient.WithAuthToken(token)
	}

	if baseURL := strings.TrimSpace(configuration.BaseURL); len(baseURL) > 0 {
		enterpriseClient, urlError := githubClient.WithEnterpriseURLs(baseURL, baseURL)
		if urlError != nil {
			return nil, fmt.Errorf(enterpriseURLErrorTemplateConstant, baseURL, urlError)
		}
		githubClient = enterpriseClient
	}

	logger := configuration.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxRetries := configuration.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetriesConstant
	}
	initialRetryInterval := configuration.InitialRetryInterval
	if initialRetryInterval <= 0 {
		initialRetryInterval = defaultInitialRetryIntervalConstant
	}

	return &Client{
		github:               githubClient,
		logger:               logger,
		maxRetries:           maxRetries,
		initialRetryInterval: initialRetryInterval,
	}, nil
}

// AuthenticatedLogin resolves the login the token belongs to.
func (client *Client) AuthenticatedLogin(executionContext context.Context) (string, error) {
	var login string
	callError := client.call(executionContext, authenticatedLoginOperationNameConstant, func() (*github.Response, error) {
		user, response, requestError := client.github.Users.Get(executionContext, "")
		if requestError == nil {
			login = user.GetLogin()
		}
		return response, requestError
	})
	return login, callError
}

// ListOrganizations lists the organizations of the authenticated user.
func (client *Client) ListOrganizations(executionContext context.Context) ([]string, error) {
	logins := make([]string, 0)
	listOptions := &github.ListOptions{PerPage: pageSizeConstant}
	paginationError := client.paginate(executionContext, listOrganizationsOperationNameConstant, listOptions, func() (*github.Response, error) {
		organizations, response, requestError := client.github.Organizations.List(executionContext, "", listOptions)
		for _, organization := range organizations {
			logins = append(logins, organization.GetLogin())
		}
		return response, requestError
	})
	if paginationError != nil {
		return nil, paginationError
	}
	return logins, nil
}

// ListRepositories lists the repositories owned by the authenticated user or by an organization.
func (client *Client) ListRepositories(executionContext context.Context, ownerIsUser bool, owner string) ([]shared.Repository, error) {
	repositories := make([]shared.Repository, 0)
	collect := func(page []*github.Repository) {
		for _, repository := range page {
			repositories = append(repositories, toRepository(repository))
		}
	}

	if ownerIsUser {
		userOptions := &github.RepositoryListByAuthenticatedUserOptions{
			Affiliation: ownerAffiliationConstant,
			ListOptions: github.ListOptions{PerPage: pageSizeConstant},
		}
		paginationError := client.paginate(executionContext, listRepositoriesOperationNameConstant, &userOptions.ListOptions, func() (*github.Response, error) {
			page, response, requestError := client.github.Repositories.ListByAuthenticatedUser(executionContext, userOptions)
			collect(page)
			return response, requestError
		})
		if paginationError != nil {
			return nil, paginationError
		}
		return repositories, nil
	}

	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return nil, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}

	organizationOptions := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: pageSizeConstant}}
	paginationError := client.paginate(executionContext, listRepositoriesOperationNameConstant, &organizationOptions.ListOptions, func() (*github.Response, error) {
		page, response, requestError := client.github.Repositories.ListByOrg(executionContext, trimmedOwner, organizationOptions)
		collect(page)
		return response, requestError
	})
	if paginationError != nil {
		return nil, paginationError
	}
	return repositories, nil
}

// ListOpenIssues lists open issues, excluding pull requests.
func (client *Client) ListOpenIssues(executionContext context.Context, repository shared.Repository) ([]shared.Issue, error) {
	owner, name, validationError := splitRepository(repository)
	if validationError != nil {
		return nil, validationError
	}

	issues := make([]shared.Issue, 0)
	issueOptions := &github.IssueListByRepoOptions{State: openStateConstant, ListOptions: github.ListOptions{PerPage: pageSizeConstant}}
	paginationError := client.paginate(executionContext, listOpenIssuesOperationNameConstant, &issueOptions.ListOptions, func() (*github.Response, error) {
		page, response, requestError := client.github.Issues.ListByRepo(executionContext, owner, name, issueOptions)
		for _, issue := range page {
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, shared.Issue{Number: issue.GetNumber(), Title: issue.GetTitle()})
		}
		return response, requestError
	})
	if paginationError != nil {
		return nil, paginationError
	}
	return issues, nil
}

// CloseIssue closes one issue.
func (client *Client) CloseIssue(executionContext context.Context, repository shared.Repository, issueNumber int) error {
	owner, name, validationError := splitRepository(repository)
	if validationError != nil {
		return validationError
	}
	return client.call(executionContext, closeIssueOperationNameConstant, func() (*github.Response, error) {
		_, response, requestError := client.github.Issues.Edit(executionContext, owner, name, issueNumber, &github.IssueRequest{State: github.Ptr(closedStateConstant)})
		return response, requestError
	})
}

// ListOpenPullRequests lists open pull requests.
func (client *Client) ListOpenPullRequests(executionContext context.Context, repository shared.Repository) ([]shared.PullRequest, error) {
	owner, name, validationError := splitRepository(repository)
	if validationError != nil {
		return nil, validationError
	}

	pullRequests := make([]shared.PullRequest, 0)
	pullRequestOptions := &github.PullRequestListOptions{State: openStateConstant, ListOptions: github.ListOptions{PerPage: pageSizeConstant}}
	paginationError := client.paginate(executionContext, listPullRequestsOperationNameConstant, &pullRequestOptions.ListOptions, func() (*github.Response, error) {
		page, response, requestError := client.github.PullRequests.List(executionContext, owner, name, pullRequestOptions)
		for _, pullRequest := range page {
			pullRequests = append(pullRequests, shared.PullRequest{Number: pullRequest.GetNumber(), Title: pullRequest.GetTitle()})
		}
		return response, requestError
	})
	if paginationError != nil {
		return nil, paginationError
	}
	return pullRequests, nil
}

// ClosePullRequest closes one pull request without merging it.
func (client *Client) ClosePullRequest(executionContext context.Context, repository shared.Repository, pullRequestNumber int) error {
	owner, name, validationError := splitRepository(repository)
	if validationError != nil {
		return validationError
	}
	return client.call(executionContext, closePullRequestOperationNameConstant, func() (*github.Response, error) {
		_, response, requestError := client.github.PullRequests.Edit(executionContext, owner, name, pullRequestNumber, &github.PullRequest{State: github.Ptr(closedStateConstant)})
		return response, requestError
	})
}

// PatchSettings sends exactly the selected settings.
func (client *Client) PatchSettings(executionContext context.Context, repository shared.Repository, patch shared.SettingsPatch) error {
	owner, name, validationError := splitRepository(repository)
	if validationError != nil {
		return validationError
	}
	if patch.IsEmpty() {
		return InvalidInputError{FieldName: settingsFieldNameConstant, Message: requiredValueMessageConstant}
	}

	update := &github.Repository{
		HasProjects:         patch.HasProjects,
		HasWiki:             patch.HasWiki,
		DeleteBranchOnMerge: patch.DeleteBranchOnMerge,
		Archived:            patch.Archived,
	}
	if patch.Visibility != nil {
		update.Visibility = github.Ptr(patch.Visibility.String())
	}

	return client.call(executionContext, patchSettingsOperationNameConstant, func() (*github.Response, error) {
		_, response, requestError := client.github.Repositories.Edit(executionContext, owner, name, update)
		return response, requestError
	})
}

// Transfer requests an ownership transfer. GitHub accepts transfers asynchronously.
func (client *Client) Transfer(executionContext context.Context, repository shared.Repository, destinationOwner string) error {
	owner, name, validationError := splitRepository(repository)
	if validationError != nil {
		return validationError
	}
	trimmedDestination := strings.TrimSpace(destinationOwner)
	if len(trimmedDestination) == 0 {
		return InvalidInputError{FieldName: destinationFieldNameConstant, Message: requiredValueMessageConstant}
	}

	return client.call(executionContext, transferOperationNameConstant, func() (*github.Response, error) {
		_, response, requestError := client.github.Repositories.Transfer(executionContext, owner, name, github.TransferRequest{NewOwner: trimmedDestination})
		var acceptedError *github.AcceptedError
		if errors.As(requestError, &acceptedError) {
			return response, nil
		}
		return response, requestError
	})
}

// Delete permanently deletes the repository.
func (client *Client) Delete(executionContext context.Context, repository shared.Repository) error {
	owner, name, validationError := splitRepository(repository)
	if validationError != nil {
		return validationError
	}
	return client.call(executionContext, deleteOperationNameConstant, func() (*github.Response, error) {
		return client.github.Repositories.Delete(executionContext, owner, name)
	})
}

// paginate repeats request while the response advertises a next page, updating listOptions in place.
func (client *Client) paginate(executionContext context.Context, operation OperationName, listOptions *github.ListOptions, request func() (*github.Response, error)) error {
	for {
		var lastResponse *github.Response
		callError := client.call(executionContext, operation, func() (*github.Response, error) {
			response, requestError := request()
			lastResponse = response
			return response, requestError
		})
		if callError != nil {
			return callError
		}
		if lastResponse == nil || lastResponse.NextPage == 0 {
			return nil
		}
		listOptions.Page = lastResponse.NextPage
	}
}

// call runs one request, retrying transient failures.
func (client *Client) call(executionContext context.Context, operation OperationName, request func() (*github.Response, error)) error {
	var lastStatusCode int
	retryError := backoff.RetryNotify(
		func() error {
			response, requestError := request()
			lastStatusCode = 0
			if response != nil {
				lastStatusCode = response.StatusCode
			}
			if requestError == nil {
				return nil
			}
			if isTransient(executionContext, response) {
				return requestError
			}
			return backoff.Permanent(requestError)
		},
		backoff.WithContext(backoff.WithMaxRetries(client.newBackOff(), client.maxRetries), executionContext),
		func(retryCause error, delay time.Duration) {
			client.logger.Warn(retryingMessageConstant,
				zap.String(logFieldOperationConstant, string(operation)),
				zap.Duration(logFieldRetryDelayConstant, delay),
				zap.String(logFieldErrorConstant, retryCause.Error()),
			)
		},
	)
	if retryError != nil {
		return OperationError{Operation: operation, StatusCode: lastStatusCode, Cause: retryError}
	}
	return nil
}

func (client *Client) newBackOff() backoff.BackOff {
	exponentialBackOff := backoff.NewExponentialBackOff()
	exponentialBackOff.InitialInterval = client.initialRetryInterval
	return exponentialBackOff
}

func isTransient(executionContext context.Context, response *github.Response) bool {
	if executionContext.Err() != nil {
		return false
	}
	if response == nil {
		return true
	}
	return response.StatusCode >= http.StatusInternalServerError
}

func splitRepository(repository shared.Repository) (string, string, error) {
	owner := strings.TrimSpace(repository.Owner)
	name := strings.TrimSpace(repository.Name)
	if len(owner) > 0 && len(name) > 0 {
		return owner, name, nil
	}

	ownerRepository, parseError := shared.NewOwnerRepository(repository.FullName)
	if parseError != nil {
		return "", "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return ownerRepository.Owner().String(), ownerRepository.Repository().String(), nil
}

func toRepository(repository *github.Repository) shared.Repository {
	visibility, visibilityError := shared.ParseVisibility(repository.GetVisibility())
	if visibilityError != nil {
		visibility = shared.VisibilityFromPrivateFlag(repository.GetPrivate())
	}

	owner := repository.GetOwner().GetLogin()
	fullName := repository.GetFullName()
	if len(fullName) == 0 {
		fullName = shared.NewRepositoryFullName(owner, repository.GetName())
	}

	return shared.Repository{
		Owner:      owner,
		Name:       repository.GetName(),
		FullName:   fullName,
		Visibility: visibility,
		Archived:   repository.GetArchived(),
		Fork:       repository.GetFork(),
		OpenIssues: repository.GetOpenIssuesCount(),
		Stars:      repository.GetStargazersCount(),
		Forks:      repository.GetForksCount(),
	}
}

var _ shared.RepositoryClient = (*Client)(nil)
