package actions

import (
	"context"

	"github.com/temirov/organizer/internal/repos/shared"
)

const updatingRepositoryStatusConstant = "updating repository"

// UpdateSettingsAction patches the settings selected during configuration.
type UpdateSettingsAction struct {
	client shared.RepositoryClient
	patch  shared.SettingsPatch
}

// NewUpdateSettingsAction constructs an UpdateSettingsAction for the selected settings.
func NewUpdateSettingsAction(client shared.RepositoryClient, patch shared.SettingsPatch) UpdateSettingsAction {
	return UpdateSettingsAction{client: client, patch: patch}
}

// Kind identifies the action.
func (action UpdateSettingsAction) Kind() Kind {
	return KindUpdateSettings
}

// Patch returns the configured settings.
func (action UpdateSettingsAction) Patch() shared.SettingsPatch {
	return action.patch
}

// Apply sends the selected settings that still apply to the repository.
// Archived repositories are skipped. Visibility is dropped for forks and when it already matches exactly,
// so internal to private is still sent.
func (action UpdateSettingsAction) Apply(executionContext context.Context, repository shared.Repository, progress ProgressSink) (Outcome, error) {
	patch := action.EffectivePatch(repository)
	if patch.IsEmpty() {
		return OutcomeSkipped, nil
	}

	progress.Report(updatingRepositoryStatusConstant)
	if patchError := action.client.PatchSettings(executionContext, repository, patch); patchError != nil {
		return OutcomeApplied, ActionError{Kind: action.Kind(), Repository: repository.FullName, Cause: patchError}
	}
	return OutcomeApplied, nil
}

// EffectivePatch returns the subset of configured settings that would be sent for the repository.
func (action UpdateSettingsAction) EffectivePatch(repository shared.Repository) shared.SettingsPatch {
	if action.patch.IsEmpty() || repository.Archived {
		return shared.SettingsPatch{}
	}

	patch := action.patch
	if patch.Visibility != nil && (repository.Fork || *patch.Visibility == repository.Visibility) {
		patch = patch.WithoutVisibility()
	}
	return patch
}
