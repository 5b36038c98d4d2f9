package shared

import (
	"context"

	"go.uber.org/zap"
)

const (
	dryRunCloseIssueMessageConstant       = "DRY-RUN: would close issue"
	dryRunClosePullRequestMessageConstant = "DRY-RUN: would close pull request"
	dryRunPatchSettingsMessageConstant    = "DRY-RUN: would update settings"
	dryRunTransferMessageConstant         = "DRY-RUN: would transfer repository"
	dryRunDeleteMessageConstant           = "DRY-RUN: would delete repository"
	logFieldRepositoryConstant            = "repository"
	logFieldIssueNumberConstant           = "issue_number"
	logFieldPullRequestNumberConstant     = "pull_request_number"
	logFieldSettingsConstant              = "settings"
	logFieldDestinationConstant           = "destination_owner"
)

// DryRunClient forwards reads to the wrapped client and logs mutations instead of sending them.
type DryRunClient struct {
	RepositoryReader
	logger *zap.Logger
}

// NewDryRunClient wraps a RepositoryClient so that no mutation reaches the hosting API.
func NewDryRunClient(delegate RepositoryClient, logger *zap.Logger) *DryRunClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunClient{RepositoryReader: delegate, logger: logger}
}

// CloseIssue logs the issue that would be closed.
func (client *DryRunClient) CloseIssue(_ context.Context, repository Repository, issueNumber int) error {
	client.logger.Info(dryRunCloseIssueMessageConstant,
		zap.String(logFieldRepositoryConstant, repository.FullName),
		zap.Int(logFieldIssueNumberConstant, issueNumber),
	)
	return nil
}

// ClosePullRequest logs the pull request that would be closed.
func (client *DryRunClient) ClosePullRequest(_ context.Context, repository Repository, pullRequestNumber int) error {
	client.logger.Info(dryRunClosePullRequestMessageConstant,
		zap.String(logFieldRepositoryConstant, repository.FullName),
		zap.Int(logFieldPullRequestNumberConstant, pullRequestNumber),
	)
	return nil
}

// PatchSettings logs the settings payload that would be sent.
func (client *DryRunClient) PatchSettings(_ context.Context, repository Repository, patch SettingsPatch) error {
	client.logger.Info(dryRunPatchSettingsMessageConstant,
		zap.String(logFieldRepositoryConstant, repository.FullName),
		zap.Any(logFieldSettingsConstant, patch.Payload()),
	)
	return nil
}

// Transfer logs the transfer that would be requested.
func (client *DryRunClient) Transfer(_ context.Context, repository Repository, destinationOwner string) error {
	client.logger.Info(dryRunTransferMessageConstant,
		zap.String(logFieldRepositoryConstant, repository.FullName),
		zap.String(logFieldDestinationConstant, destinationOwner),
	)
	return nil
}

// Delete logs the deletion that would be requested.
func (client *DryRunClient) Delete(_ context.Context, repository Repository) error {
	client.logger.Info(dryRunDeleteMessageConstant, zap.String(logFieldRepositoryConstant, repository.FullName))
	return nil
}
