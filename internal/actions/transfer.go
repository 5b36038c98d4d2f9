package actions

import (
	"context"

	"github.com/temirov/organizer/internal/repos/shared"
)

const transferringRepositoryStatusConstant = "transferring repository to "

// TransferAction moves repositories to the destination chosen during configuration.
// It applies to archived repositories too.
type TransferAction struct {
	client           shared.RepositoryClient
	destinationOwner string
}

// NewTransferAction constructs a TransferAction.
func NewTransferAction(client shared.RepositoryClient, destinationOwner string) TransferAction {
	return TransferAction{client: client, destinationOwner: destinationOwner}
}

// Kind identifies the action.
func (action TransferAction) Kind() Kind {
	return KindTransfer
}

// DestinationOwner returns the configured destination.
func (action TransferAction) DestinationOwner() string {
	return action.destinationOwner
}

// Apply requests the transfer.
func (action TransferAction) Apply(executionContext context.Context, repository shared.Repository, progress ProgressSink) (Outcome, error) {
	progress.Report(transferringRepositoryStatusConstant + action.destinationOwner)
	if transferError := action.client.Transfer(executionContext, repository, action.destinationOwner); transferError != nil {
		return OutcomeApplied, ActionError{Kind: action.Kind(), Repository: repository.FullName, Cause: transferError}
	}
	return OutcomeApplied, nil
}
