package githubcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/organizer/internal/execshell"
	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	apiSubcommandConstant                   = "api"
	paginateFlagConstant                    = "--paginate"
	methodFlagConstant                      = "-X"
	fieldFlagConstant                       = "-f"
	inputFlagConstant                       = "--input"
	stdinReferenceConstant                  = "-"
	acceptHeaderFlagConstant                = "-H"
	acceptHeaderValueConstant               = "Accept: application/vnd.github+json"
	methodPatchConstant                     = "PATCH"
	methodPostConstant                      = "POST"
	methodDeleteConstant                    = "DELETE"
	closedStateFieldConstant                = "state=closed"
	newOwnerFieldTemplateConstant           = "new_owner=%s"
	authenticatedUserEndpointConstant       = "user"
	organizationsEndpointConstant           = "user/orgs?per_page=100"
	userRepositoriesEndpointConstant        = "user/repos?affiliation=owner&per_page=100"
	organizationRepositoriesTemplateConst   = "orgs/%s/repos?per_page=100"
	openIssuesEndpointTemplateConstant      = "repos/%s/issues?state=open&per_page=100"
	issueEndpointTemplateConstant           = "repos/%s/issues/%d"
	openPullRequestsEndpointTemplateConst   = "repos/%s/pulls?state=open&per_page=100"
	pullRequestEndpointTemplateConstant     = "repos/%s/pulls/%d"
	repositoryEndpointTemplateConstant      = "repos/%s"
	transferEndpointTemplateConstant        = "repos/%s/transfer"
	repositoryFieldNameConstant             = "repository"
	ownerFieldNameConstant                  = "owner"
	destinationFieldNameConstant            = "destination_owner"
	settingsFieldNameConstant               = "settings"
	numberFieldNameConstant                 = "number"
	requiredValueMessageConstant            = "value required"
	positiveValueMessageConstant            = "must be positive"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	payloadEncodingErrorTemplateConstant    = "%s payload encoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
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

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client implements shared.RepositoryClient through gh api invocations.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
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

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// PayloadEncodingError indicates JSON encoding issues.
type PayloadEncodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Operation, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

type accountResponse struct {
	Login string `json:"login"`
}

type repositoryResponse struct {
	Name            string          `json:"name"`
	FullName        string          `json:"full_name"`
	Owner           accountResponse `json:"owner"`
	Private         bool            `json:"private"`
	Visibility      string          `json:"visibility"`
	Archived        bool            `json:"archived"`
	Fork            bool            `json:"fork"`
	OpenIssuesCount int             `json:"open_issues_count"`
	StargazersCount int             `json:"stargazers_count"`
	ForksCount      int             `json:"forks_count"`
}

type issueResponse struct {
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	PullRequest *json.RawMessage `json:"pull_request"`
}

type pullRequestResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// AuthenticatedLogin resolves the login gh is authenticated as.
func (client *Client) AuthenticatedLogin(executionContext context.Context) (string, error) {
	output, executionError := client.run(executionContext, authenticatedLoginOperationNameConstant, nil, authenticatedUserEndpointConstant)
	if executionError != nil {
		return "", executionError
	}

	var response accountResponse
	if decodingError := json.Unmarshal([]byte(output), &response); decodingError != nil {
		return "", ResponseDecodingError{Operation: authenticatedLoginOperationNameConstant, Cause: decodingError}
	}
	return response.Login, nil
}

// ListOrganizations lists the organizations of the authenticated user.
func (client *Client) ListOrganizations(executionContext context.Context) ([]string, error) {
	organizations, listError := listPaginated[accountResponse](client, executionContext, listOrganizationsOperationNameConstant, organizationsEndpointConstant)
	if listError != nil {
		return nil, listError
	}

	logins := make([]string, 0, len(organizations))
	for _, organization := range organizations {
		logins = append(logins, organization.Login)
	}
	return logins, nil
}

// ListRepositories lists the repositories owned by the authenticated user or by an organization.
func (client *Client) ListRepositories(executionContext context.Context, ownerIsUser bool, owner string) ([]shared.Repository, error) {
	endpoint := userRepositoriesEndpointConstant
	if !ownerIsUser {
		trimmedOwner := strings.TrimSpace(owner)
		if len(trimmedOwner) == 0 {
			return nil, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
		}
		endpoint = fmt.Sprintf(organizationRepositoriesTemplateConst, trimmedOwner)
	}

	responses, listError := listPaginated[repositoryResponse](client, executionContext, listRepositoriesOperationNameConstant, endpoint)
	if listError != nil {
		return nil, listError
	}

	repositories := make([]shared.Repository, 0, len(responses))
	for _, response := range responses {
		repositories = append(repositories, response.toRepository())
	}
	return repositories, nil
}

// ListOpenIssues lists open issues, excluding pull requests.
func (client *Client) ListOpenIssues(executionContext context.Context, repository shared.Repository) ([]shared.Issue, error) {
	fullName, validationError := requireFullName(repository)
	if validationError != nil {
		return nil, validationError
	}

	responses, listError := listPaginated[issueResponse](client, executionContext, listOpenIssuesOperationNameConstant, fmt.Sprintf(openIssuesEndpointTemplateConstant, fullName))
	if listError != nil {
		return nil, listError
	}

	issues := make([]shared.Issue, 0, len(responses))
	for _, response := range responses {
		if response.PullRequest != nil {
			continue
		}
		issues = append(issues, shared.Issue{Number: response.Number, Title: response.Title})
	}
	return issues, nil
}

// CloseIssue closes one issue.
func (client *Client) CloseIssue(executionContext context.Context, repository shared.Repository, issueNumber int) error {
	fullName, validationError := requireFullName(repository)
	if validationError != nil {
		return validationError
	}
	if issueNumber <= 0 {
		return InvalidInputError{FieldName: numberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	_, executionError := client.run(executionContext, closeIssueOperationNameConstant, nil,
		fmt.Sprintf(issueEndpointTemplateConstant, fullName, issueNumber),
		methodFlagConstant, methodPatchConstant,
		fieldFlagConstant, closedStateFieldConstant,
	)
	return executionError
}

// ListOpenPullRequests lists open pull requests.
func (client *Client) ListOpenPullRequests(executionContext context.Context, repository shared.Repository) ([]shared.PullRequest, error) {
	fullName, validationError := requireFullName(repository)
	if validationError != nil {
		return nil, validationError
	}

	responses, listError := listPaginated[pullRequestResponse](client, executionContext, listPullRequestsOperationNameConstant, fmt.Sprintf(openPullRequestsEndpointTemplateConst, fullName))
	if listError != nil {
		return nil, listError
	}

	pullRequests := make([]shared.PullRequest, 0, len(responses))
	for _, response := range responses {
		pullRequests = append(pullRequests, shared.PullRequest{Number: response.Number, Title: response.Title})
	}
	return pullRequests, nil
}

// ClosePullRequest closes one pull request without merging it.
func (client *Client) ClosePullRequest(executionContext context.Context, repository shared.Repository, pullRequestNumber int) error {
	fullName, validationError := requireFullName(repository)
	if validationError != nil {
		return validationError
	}
	if pullRequestNumber <= 0 {
		return InvalidInputError{FieldName: numberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	_, executionError := client.run(executionContext, closePullRequestOperationNameConstant, nil,
		fmt.Sprintf(pullRequestEndpointTemplateConstant, fullName, pullRequestNumber),
		methodFlagConstant, methodPatchConstant,
		fieldFlagConstant, closedStateFieldConstant,
	)
	return executionError
}

// PatchSettings sends exactly the selected settings as a JSON body.
func (client *Client) PatchSettings(executionContext context.Context, repository shared.Repository, patch shared.SettingsPatch) error {
	fullName, validationError := requireFullName(repository)
	if validationError != nil {
		return validationError
	}
	if patch.IsEmpty() {
		return InvalidInputError{FieldName: settingsFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payload, encodingError := json.Marshal(patch.Payload())
	if encodingError != nil {
		return PayloadEncodingError{Operation: patchSettingsOperationNameConstant, Cause: encodingError}
	}

	_, executionError := client.run(executionContext, patchSettingsOperationNameConstant, payload,
		fmt.Sprintf(repositoryEndpointTemplateConstant, fullName),
		methodFlagConstant, methodPatchConstant,
		inputFlagConstant, stdinReferenceConstant,
	)
	return executionError
}

// Transfer requests an ownership transfer to the destination owner.
func (client *Client) Transfer(executionContext context.Context, repository shared.Repository, destinationOwner string) error {
	fullName, validationError := requireFullName(repository)
	if validationError != nil {
		return validationError
	}
	trimmedDestination := strings.TrimSpace(destinationOwner)
	if len(trimmedDestination) == 0 {
		return InvalidInputError{FieldName: destinationFieldNameConstant, Message: requiredValueMessageConstant}
	}

	_, executionError := client.run(executionContext, transferOperationNameConstant, nil,
		fmt.Sprintf(transferEndpointTemplateConstant, fullName),
		methodFlagConstant, methodPostConstant,
		fieldFlagConstant, fmt.Sprintf(newOwnerFieldTemplateConstant, trimmedDestination),
	)
	return executionError
}

// Delete permanently deletes the repository.
func (client *Client) Delete(executionContext context.Context, repository shared.Repository) error {
	fullName, validationError := requireFullName(repository)
	if validationError != nil {
		return validationError
	}

	_, executionError := client.run(executionContext, deleteOperationNameConstant, nil,
		fmt.Sprintf(repositoryEndpointTemplateConstant, fullName),
		methodFlagConstant, methodDeleteConstant,
	)
	return executionError
}

func (client *Client) run(executionContext context.Context, operation OperationName, standardInput []byte, endpoint string, additionalArguments ...string) (string, error) {
	arguments := []string{apiSubcommandConstant, endpoint, acceptHeaderFlagConstant, acceptHeaderValueConstant}
	arguments = append(arguments, additionalArguments...)

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{
		Arguments:     arguments,
		StandardInput: standardInput,
	})
	if executionError != nil {
		return "", OperationError{Operation: operation, Cause: executionError}
	}
	return executionResult.StandardOutput, nil
}

// listPaginated decodes the concatenated JSON arrays gh api --paginate prints, one per page.
func listPaginated[Element any](client *Client, executionContext context.Context, operation OperationName, endpoint string) ([]Element, error) {
	output, executionError := client.run(executionContext, operation, nil, endpoint, paginateFlagConstant)
	if executionError != nil {
		return nil, executionError
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(output)))
	elements := make([]Element, 0)
	for {
		var page []Element
		decodingError := decoder.Decode(&page)
		if errors.Is(decodingError, io.EOF) {
			return elements, nil
		}
		if decodingError != nil {
			return nil, ResponseDecodingError{Operation: operation, Cause: decodingError}
		}
		elements = append(elements, page...)
	}
}

func requireFullName(repository shared.Repository) (string, error) {
	fullName := strings.TrimSpace(repository.FullName)
	if len(fullName) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return fullName, nil
}

func (response repositoryResponse) toRepository() shared.Repository {
	visibility, visibilityError := shared.ParseVisibility(response.Visibility)
	if visibilityError != nil {
		visibility = shared.VisibilityFromPrivateFlag(response.Private)
	}

	fullName := response.FullName
	if len(strings.TrimSpace(fullName)) == 0 {
		fullName = shared.NewRepositoryFullName(response.Owner.Login, response.Name)
	}

	return shared.Repository{
		Owner:      response.Owner.Login,
		Name:       response.Name,
		FullName:   fullName,
		Visibility: visibility,
		Archived:   response.Archived,
		Fork:       response.Fork,
		OpenIssues: response.OpenIssuesCount,
		Stars:      response.StargazersCount,
		Forks:      response.ForksCount,
	}
}

var _ shared.RepositoryClient = (*Client)(nil)
