package shared

import (
	"context"
	"fmt"
	"strings"
)

const (
	fullNameSeparatorConstant         = "/"
	unknownVisibilityTemplateConstant = "unknown visibility %q"
	forkMarkerConstant                = " [fork]"
)

// Visibility describes who can see a repository.
type Visibility string

// Supported repository visibilities.
const (
	VisibilityPublic   Visibility = Visibility("public")
	VisibilityPrivate  Visibility = Visibility("private")
	VisibilityInternal Visibility = Visibility("internal")
)

// ParseVisibility normalizes a textual visibility value.
func ParseVisibility(raw string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(raw))) {
	case VisibilityPublic:
		return VisibilityPublic, nil
	case VisibilityPrivate:
		return VisibilityPrivate, nil
	case VisibilityInternal:
		return VisibilityInternal, nil
	default:
		return "", fmt.Errorf(unknownVisibilityTemplateConstant, raw)
	}
}

// VisibilityFromPrivateFlag maps the legacy private flag onto a visibility.
func VisibilityFromPrivateFlag(private bool) Visibility {
	if private {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// IsPublic reports whether anyone can see the repository.
func (visibility Visibility) IsPublic() bool {
	return visibility == VisibilityPublic
}

// String returns the textual visibility.
func (visibility Visibility) String() string {
	return string(visibility)
}

// UnmarshalText decodes visibility values from configuration and plan files.
func (visibility *Visibility) UnmarshalText(text []byte) error {
	parsedVisibility, parseError := ParseVisibility(string(text))
	if parseError != nil {
		return parseError
	}
	*visibility = parsedVisibility
	return nil
}

// Repository is a snapshot of a hosted repository fetched once per run.
type Repository struct {
	Owner      string
	Name       string
	FullName   string
	Visibility Visibility
	Archived   bool
	Fork       bool
	OpenIssues int
	Stars      int
	Forks      int
}

// NewRepositoryFullName joins an owner and repository name.
func NewRepositoryFullName(owner string, name string) string {
	return strings.TrimSpace(owner) + fullNameSeparatorConstant + strings.TrimSpace(name)
}

// Label renders the repository name with a fork marker for selection lists.
func (repository Repository) Label() string {
	if repository.Fork {
		return repository.FullName + forkMarkerConstant
	}
	return repository.FullName
}

// Issue is an open issue awaiting closure.
type Issue struct {
	Number int
	Title  string
}

// PullRequest is an open pull request awaiting closure.
type PullRequest struct {
	Number int
	Title  string
}

// RepositoryReader exposes the read-only repository queries.
type RepositoryReader interface {
	AuthenticatedLogin(executionContext context.Context) (string, error)
	ListOrganizations(executionContext context.Context) ([]string, error)
	ListRepositories(executionContext context.Context, ownerIsUser bool, owner string) ([]Repository, error)
	ListOpenIssues(executionContext context.Context, repository Repository) ([]Issue, error)
	ListOpenPullRequests(executionContext context.Context, repository Repository) ([]PullRequest, error)
}

// RepositoryMutator exposes the operations that change remote state.
type RepositoryMutator interface {
	CloseIssue(executionContext context.Context, repository Repository, issueNumber int) error
	ClosePullRequest(executionContext context.Context, repository Repository, pullRequestNumber int) error
	PatchSettings(executionContext context.Context, repository Repository, patch SettingsPatch) error
	Transfer(executionContext context.Context, repository Repository, destinationOwner string) error
	Delete(executionContext context.Context, repository Repository) error
}

// RepositoryClient is the hosting API capability consumed by actions and the run flow.
// Implementations handle pagination internally and are safe for concurrent use.
type RepositoryClient interface {
	RepositoryReader
	RepositoryMutator
}

// ConfirmationPrompter collects operator confirmations prior to mutating actions.
type ConfirmationPrompter interface {
	Confirm(executionContext context.Context, prompt string) (bool, error)
}
