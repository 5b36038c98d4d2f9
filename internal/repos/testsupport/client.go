// Package testsupport provides an in-memory repository client for package tests.
package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/temirov/organizer/internal/repos/shared"
)

// Recorded method names.
const (
	MethodAuthenticatedLogin   = "AuthenticatedLogin"
	MethodListOrganizations    = "ListOrganizations"
	MethodListRepositories     = "ListRepositories"
	MethodListOpenIssues       = "ListOpenIssues"
	MethodCloseIssue           = "CloseIssue"
	MethodListOpenPullRequests = "ListOpenPullRequests"
	MethodClosePullRequest     = "ClosePullRequest"
	MethodPatchSettings        = "PatchSettings"
	MethodTransfer             = "Transfer"
	MethodDelete               = "Delete"
)

// Call captures one invocation of the recording client.
type Call struct {
	Method      string
	Repository  string
	Number      int
	Destination string
	Patch       shared.SettingsPatch
	Owner       string
	OwnerIsUser bool
}

// IsMutation reports whether the call changes remote state.
func (call Call) IsMutation() bool {
	switch call.Method {
	case MethodCloseIssue, MethodClosePullRequest, MethodPatchSettings, MethodTransfer, MethodDelete:
		return true
	default:
		return false
	}
}

// RecordingRepositoryClient is a concurrency-safe shared.RepositoryClient backed by fixtures.
type RecordingRepositoryClient struct {
	Login         string
	Organizations []string
	Repositories  []shared.Repository
	Issues        map[string][]shared.Issue
	PullRequests  map[string][]shared.PullRequest
	// Failures maps FailureKey(method, repository) to the error that call returns.
	Failures map[string]error
	// Delay is slept inside every call while it counts as in flight.
	Delay time.Duration
	// OnCall runs inside every call while it counts as in flight.
	OnCall func(call Call)

	mutex       sync.Mutex
	calls       []Call
	inFlight    int
	maxInFlight int
}

// FailureKey builds the Failures key for a method and repository full name.
func FailureKey(method string, repository string) string {
	return method + ":" + repository
}

// Calls returns a copy of every recorded call in invocation order.
func (client *RecordingRepositoryClient) Calls() []Call {
	client.mutex.Lock()
	defer client.mutex.Unlock()
	return append([]Call(nil), client.calls...)
}

// CallsFor returns the recorded calls that targeted one repository.
func (client *RecordingRepositoryClient) CallsFor(repository string) []Call {
	repositoryCalls := make([]Call, 0)
	for _, call := range client.Calls() {
		if call.Repository == repository {
			repositoryCalls = append(repositoryCalls, call)
		}
	}
	return repositoryCalls
}

// MutationsFor returns the recorded mutating calls that targeted one repository.
func (client *RecordingRepositoryClient) MutationsFor(repository string) []Call {
	mutations := make([]Call, 0)
	for _, call := range client.CallsFor(repository) {
		if call.IsMutation() {
			mutations = append(mutations, call)
		}
	}
	return mutations
}

// MaxInFlight reports the highest number of simultaneous calls observed.
func (client *RecordingRepositoryClient) MaxInFlight() int {
	client.mutex.Lock()
	defer client.mutex.Unlock()
	return client.maxInFlight
}

// AuthenticatedLogin returns the fixture login.
func (client *RecordingRepositoryClient) AuthenticatedLogin(executionContext context.Context) (string, error) {
	failure := client.record(Call{Method: MethodAuthenticatedLogin})
	return client.Login, failure
}

// ListOrganizations returns the fixture organizations.
func (client *RecordingRepositoryClient) ListOrganizations(executionContext context.Context) ([]string, error) {
	failure := client.record(Call{Method: MethodListOrganizations})
	if failure != nil {
		return nil, failure
	}
	return append([]string(nil), client.Organizations...), nil
}

// ListRepositories returns the fixture repositories.
func (client *RecordingRepositoryClient) ListRepositories(executionContext context.Context, ownerIsUser bool, owner string) ([]shared.Repository, error) {
	failure := client.record(Call{Method: MethodListRepositories, Owner: owner, OwnerIsUser: ownerIsUser})
	if failure != nil {
		return nil, failure
	}
	return append([]shared.Repository(nil), client.Repositories...), nil
}

// ListOpenIssues returns the fixture issues of the repository.
func (client *RecordingRepositoryClient) ListOpenIssues(executionContext context.Context, repository shared.Repository) ([]shared.Issue, error) {
	failure := client.record(Call{Method: MethodListOpenIssues, Repository: repository.FullName})
	if failure != nil {
		return nil, failure
	}
	return append([]shared.Issue(nil), client.Issues[repository.FullName]...), nil
}

// CloseIssue records the closure.
func (client *RecordingRepositoryClient) CloseIssue(executionContext context.Context, repository shared.Repository, issueNumber int) error {
	return client.record(Call{Method: MethodCloseIssue, Repository: repository.FullName, Number: issueNumber})
}

// ListOpenPullRequests returns the fixture pull requests of the repository.
func (client *RecordingRepositoryClient) ListOpenPullRequests(executionContext context.Context, repository shared.Repository) ([]shared.PullRequest, error) {
	failure := client.record(Call{Method: MethodListOpenPullRequests, Repository: repository.FullName})
	if failure != nil {
		return nil, failure
	}
	return append([]shared.PullRequest(nil), client.PullRequests[repository.FullName]...), nil
}

// ClosePullRequest records the closure.
func (client *RecordingRepositoryClient) ClosePullRequest(executionContext context.Context, repository shared.Repository, pullRequestNumber int) error {
	return client.record(Call{Method: MethodClosePullRequest, Repository: repository.FullName, Number: pullRequestNumber})
}

// PatchSettings records the patch.
func (client *RecordingRepositoryClient) PatchSettings(executionContext context.Context, repository shared.Repository, patch shared.SettingsPatch) error {
	return client.record(Call{Method: MethodPatchSettings, Repository: repository.FullName, Patch: patch})
}

// Transfer records the transfer.
func (client *RecordingRepositoryClient) Transfer(executionContext context.Context, repository shared.Repository, destinationOwner string) error {
	return client.record(Call{Method: MethodTransfer, Repository: repository.FullName, Destination: destinationOwner})
}

// Delete records the deletion.
func (client *RecordingRepositoryClient) Delete(executionContext context.Context, repository shared.Repository) error {
	return client.record(Call{Method: MethodDelete, Repository: repository.FullName})
}

func (client *RecordingRepositoryClient) record(call Call) error {
	client.mutex.Lock()
	client.calls = append(client.calls, call)
	client.inFlight++
	if client.inFlight > client.maxInFlight {
		client.maxInFlight = client.inFlight
	}
	failure := client.Failures[FailureKey(call.Method, call.Repository)]
	onCall := client.OnCall
	client.mutex.Unlock()

	if onCall != nil {
		onCall(call)
	}
	if client.Delay > 0 {
		time.Sleep(client.Delay)
	}

	client.mutex.Lock()
	client.inFlight--
	client.mutex.Unlock()
	return failure
}

var _ shared.RepositoryClient = (*RecordingRepositoryClient)(nil)
