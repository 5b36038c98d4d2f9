package organize_test

import (
	"context"
	"sync"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/repos/filter"
	"github.com/temirov/organizer/internal/repos/shared"
)

type stubPrompter struct {
	mutex sync.Mutex

	token          string
	owner          string
	kinds          []actions.Kind
	criteria       filter.Criteria
	selectedNames  []string
	selectAll      bool
	settings       shared.SettingsPatch
	destination    string
	confirmed      bool
	failure        error
	failurePrompts map[string]bool

	offeredKinds      []actions.Kind
	ownerDefault      string
	candidateNames    []string
	confirmationTexts []string
	calls             []string
}

func (prompter *stubPrompter) record(call string) error {
	prompter.mutex.Lock()
	defer prompter.mutex.Unlock()
	prompter.calls = append(prompter.calls, call)
	if prompter.failurePrompts[call] {
		return prompter.failure
	}
	return nil
}

func (prompter *stubPrompter) PromptToken(context.Context) (string, error) {
	if failure := prompter.record("token"); failure != nil {
		return "", failure
	}
	return prompter.token, nil
}

func (prompter *stubPrompter) SelectOwner(_ context.Context, defaultOwner string) (string, error) {
	prompter.ownerDefault = defaultOwner
	if failure := prompter.record("owner"); failure != nil {
		return "", failure
	}
	if len(prompter.owner) == 0 {
		return defaultOwner, nil
	}
	return prompter.owner, nil
}

func (prompter *stubPrompter) SelectActions(_ context.Context, offeredKinds []actions.Kind) ([]actions.Kind, error) {
	prompter.offeredKinds = offeredKinds
	if failure := prompter.record("actions"); failure != nil {
		return nil, failure
	}
	return prompter.kinds, nil
}

func (prompter *stubPrompter) SelectFilter(context.Context) (filter.Criteria, error) {
	if failure := prompter.record("filter"); failure != nil {
		return filter.Criteria{}, failure
	}
	return prompter.criteria, nil
}

func (prompter *stubPrompter) SelectRepositories(_ context.Context, candidates []shared.Repository) ([]shared.Repository, error) {
	for _, candidate := range candidates {
		prompter.candidateNames = append(prompter.candidateNames, candidate.FullName)
	}
	if failure := prompter.record("repositories"); failure != nil {
		return nil, failure
	}
	if prompter.selectAll {
		return candidates, nil
	}
	wanted := map[string]bool{}
	for _, name := range prompter.selectedNames {
		wanted[name] = true
	}
	selected := make([]shared.Repository, 0)
	for _, candidate := range candidates {
		if wanted[candidate.FullName] {
			selected = append(selected, candidate)
		}
	}
	return selected, nil
}

func (prompter *stubPrompter) SelectSettings(context.Context) (shared.SettingsPatch, error) {
	if failure := prompter.record("settings"); failure != nil {
		return shared.SettingsPatch{}, failure
	}
	return prompter.settings, nil
}

func (prompter *stubPrompter) SelectTransferDestination(context.Context, []string) (string, error) {
	if failure := prompter.record("destination"); failure != nil {
		return "", failure
	}
	return prompter.destination, nil
}

func (prompter *stubPrompter) Confirm(_ context.Context, prompt string) (bool, error) {
	prompter.confirmationTexts = append(prompter.confirmationTexts, prompt)
	if failure := prompter.record("confirm"); failure != nil {
		return false, failure
	}
	return prompter.confirmed, nil
}
