package actions

import (
	"context"

	"github.com/temirov/organizer/internal/repos/shared"
)

const deletingRepositoryStatusConstant = "deleting repository"

// DeleteAction permanently deletes repositories, archived or not.
type DeleteAction struct {
	client shared.RepositoryClient
}

// NewDeleteAction constructs a DeleteAction.
func NewDeleteAction(client shared.RepositoryClient) DeleteAction {
	return DeleteAction{client: client}
}

// Kind identifies the action.
func (action DeleteAction) Kind() Kind {
	return KindDelete
}

// Apply requests the deletion.
func (action DeleteAction) Apply(executionContext context.Context, repository shared.Repository, progress ProgressSink) (Outcome, error) {
	progress.Report(deletingRepositoryStatusConstant)
	if deleteError := action.client.Delete(executionContext, repository); deleteError != nil {
		return OutcomeApplied, ActionError{Kind: action.Kind(), Repository: repository.FullName, Cause: deleteError}
	}
	return OutcomeApplied, nil
}
