package plan

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/repos/filter"
	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	notOfferedTemplateConstant          = "action %s is not available"
	missingActionTemplateConstant       = "run plan does not configure %s"
	unknownDestinationTemplateConstant  = "destination %q is not one of your organizations"
	unknownRepositoriesTemplateConstant = "run plan names repositories that are not candidates: %s"
	repositoryNamesSeparatorConstant    = ", "
)

// ErrTokenNotPlanned is returned when a token would have to be prompted during a planned run.
var ErrTokenNotPlanned = errors.New("no GitHub token in the environment and run plans cannot prompt for one")

// Prompter answers organize prompts from a Plan.
type Prompter struct {
	plan Plan
}

// NewPrompter constructs a Prompter over a validated plan.
func NewPrompter(plan Plan) *Prompter {
	return &Prompter{plan: plan}
}

// PromptToken never answers; tokens come from the environment.
func (prompter *Prompter) PromptToken(context.Context) (string, error) {
	return "", ErrTokenNotPlanned
}

// SelectOwner returns the planned owner or the default when the plan omits it.
func (prompter *Prompter) SelectOwner(_ context.Context, defaultOwner string) (string, error) {
	if len(prompter.plan.Owner) == 0 {
		return defaultOwner, nil
	}
	return prompter.plan.Owner, nil
}

// SelectActions returns the planned kinds. Every planned kind must be offered.
func (prompter *Prompter) SelectActions(_ context.Context, offeredKinds []actions.Kind) ([]actions.Kind, error) {
	plannedKinds := prompter.plan.Kinds()
	for _, kind := range plannedKinds {
		if !slices.Contains(offeredKinds, kind) {
			return nil, fmt.Errorf(notOfferedTemplateConstant, kind)
		}
	}
	return plannedKinds, nil
}

// SelectFilter returns the planned filter criteria.
func (prompter *Prompter) SelectFilter(context.Context) (filter.Criteria, error) {
	return prompter.plan.Filter, nil
}

// SelectRepositories picks the planned repositories from the candidates in candidate order.
// Names may be bare repository names or owner/name. An empty list selects every candidate.
func (prompter *Prompter) SelectRepositories(_ context.Context, candidates []shared.Repository) ([]shared.Repository, error) {
	if len(prompter.plan.Repositories) == 0 {
		return append([]shared.Repository(nil), candidates...), nil
	}

	requested := make(map[string]bool, len(prompter.plan.Repositories))
	for _, name := range prompter.plan.Repositories {
		requested[strings.ToLower(strings.TrimSpace(name))] = false
	}

	selected := make([]shared.Repository, 0, len(prompter.plan.Repositories))
	for _, candidate := range candidates {
		matched := false
		for _, key := range []string{strings.ToLower(candidate.FullName), strings.ToLower(candidate.Name)} {
			if _, wanted := requested[key]; wanted {
				requested[key] = true
				matched = true
			}
		}
		if matched {
			selected = append(selected, candidate)
		}
	}

	missing := make([]string, 0)
	for name, found := range requested {
		if !found {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, fmt.Errorf(unknownRepositoriesTemplateConstant, strings.Join(missing, repositoryNamesSeparatorConstant))
	}
	return selected, nil
}

// SelectSettings implements actions.ParameterPrompter.
func (prompter *Prompter) SelectSettings(context.Context) (shared.SettingsPatch, error) {
	actionPlan, planned := prompter.plan.action(actions.KindUpdateSettings)
	if !planned {
		return shared.SettingsPatch{}, fmt.Errorf(missingActionTemplateConstant, actions.KindUpdateSettings)
	}
	return actionPlan.Settings.Patch(), nil
}

// SelectTransferDestination implements actions.ParameterPrompter.
func (prompter *Prompter) SelectTransferDestination(_ context.Context, organizations []string) (string, error) {
	actionPlan, planned := prompter.plan.action(actions.KindTransfer)
	if !planned {
		return "", fmt.Errorf(missingActionTemplateConstant, actions.KindTransfer)
	}
	destination := strings.TrimSpace(actionPlan.Destination)
	for _, organization := range organizations {
		if strings.EqualFold(organization, destination) {
			return organization, nil
		}
	}
	return "", fmt.Errorf(unknownDestinationTemplateConstant, destination)
}

// Confirm returns the planned confirmation.
func (prompter *Prompter) Confirm(context.Context, string) (bool, error) {
	return prompter.plan.Confirm, nil
}
