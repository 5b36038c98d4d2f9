package ui

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/repos/filter"
	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	tokenPromptTitleConstant          = "GitHub Personal Access Token:"
	ownerPromptTitleConstant          = "Which organization do you want to organize?"
	actionsPromptTitleConstant        = "Choose actions."
	filterPromptTitleConstant         = "Filter repositories by properties?"
	repositoriesPromptTitleConstant   = "Choose repositories to organize."
	settingsPromptTitleConstant       = "Choose settings to update."
	destinationPromptTitleConstant    = "Choose the destination of transfer."
	visibilityFilterTitleConstant     = "Filter by visibility?"
	forkFilterTitleConstant           = "Filter by fork or not?"
	archivedFilterTitleConstant       = "Filter by archived or not?"
	openIssuesFilterTitleConstant     = "Filter by open issue count?"
	archiveValueTitleConstant         = "Archive the repositories?"
	filterNoChoiceLabelConstant       = "No"
	enableChoiceLabelConstant         = "Enable"
	disableChoiceLabelConstant        = "Disable"
	publicChoiceLabelConstant         = "Public"
	privateChoiceLabelConstant        = "Private"
	archiveAffirmativeLabelConstant   = "Archive"
	archiveNegativeLabelConstant      = "Keep active"
	confirmAffirmativeLabelConstant   = "Yes"
	confirmNegativeLabelConstant      = "No"
	repositoryListHeightConstant      = 30
	tokenRequiredMessageConstant      = "a token is required"
	publicOnlyFilterLabelConstant     = "Only show public repositories"
	privateOnlyFilterLabelConstant    = "Only show private repositories"
	forkOnlyFilterLabelConstant       = "Only show fork repositories"
	nonForkOnlyFilterLabelConstant    = "Only show non-fork repositories"
	archivedOnlyFilterLabelConstant   = "Only show archived repositories"
	activeOnlyFilterLabelConstant     = "Only show not archived repositories"
	noOpenIssuesFilterLabelConstant   = "Only show repositories which have no open issues"
	withOpenIssuesFilterLabelConstant = "Only show repositories which have open issues"
	visibilitySettingLabelConstant    = "Visibility"
	hasProjectsSettingLabelConstant   = "Projects"
	hasWikiSettingLabelConstant       = "Wiki"
	deleteBranchSettingLabelConstant  = "Delete branch on merge"
	archivedSettingLabelConstant      = "Archive"
)

// ErrPromptCancelled indicates the operator aborted a form.
var ErrPromptCancelled = errors.New("prompt cancelled")

// FormRunner runs a prepared form. Tests substitute it to avoid a terminal.
type FormRunner func(executionContext context.Context, form *huh.Form) error

// FormPrompterOptions configures the interactive prompter.
type FormPrompterOptions struct {
	Input      io.Reader
	Output     io.Writer
	Accessible bool
	Runner     FormRunner
}

// FormPrompter collects every operator decision of an organize run through huh forms.
type FormPrompter struct {
	input      io.Reader
	output     io.Writer
	accessible bool
	runner     FormRunner
}

// NewFormPrompter constructs a FormPrompter.
func NewFormPrompter(options FormPrompterOptions) *FormPrompter {
	runner := options.Runner
	if runner == nil {
		runner = func(executionContext context.Context, form *huh.Form) error {
			return form.RunWithContext(executionContext)
		}
	}
	return &FormPrompter{input: options.Input, output: options.Output, accessible: options.Accessible, runner: runner}
}

// PromptToken asks for a personal access token without echoing it.
func (prompter *FormPrompter) PromptToken(executionContext context.Context) (string, error) {
	var token string
	field := huh.NewInput().
		Title(tokenPromptTitleConstant).
		EchoMode(huh.EchoModePassword).
		Value(&token).
		Validate(func(value string) error {
			if len(strings.TrimSpace(value)) == 0 {
				return errors.New(tokenRequiredMessageConstant)
			}
			return nil
		})
	if runError := prompter.run(executionContext, huh.NewGroup(field)); runError != nil {
		return "", runError
	}
	return strings.TrimSpace(token), nil
}

// SelectOwner asks which user or organization to organize, defaulting to the authenticated login.
func (prompter *FormPrompter) SelectOwner(executionContext context.Context, defaultOwner string) (string, error) {
	owner := defaultOwner
	field := huh.NewInput().Title(ownerPromptTitleConstant).Placeholder(defaultOwner).Value(&owner)
	if runError := prompter.run(executionContext, huh.NewGroup(field)); runError != nil {
		return "", runError
	}
	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return defaultOwner, nil
	}
	return trimmedOwner, nil
}

// SelectActions asks which of the offered action kinds to run.
func (prompter *FormPrompter) SelectActions(executionContext context.Context, offeredKinds []actions.Kind) ([]actions.Kind, error) {
	options := make([]huh.Option[actions.Kind], 0, len(offeredKinds))
	for _, kind := range offeredKinds {
		options = append(options, huh.NewOption(kind.Description(), kind))
	}

	var selectedKinds []actions.Kind
	field := huh.NewMultiSelect[actions.Kind]().Title(actionsPromptTitleConstant).Options(options...).Value(&selectedKinds)
	if runError := prompter.run(executionContext, huh.NewGroup(field)); runError != nil {
		return nil, runError
	}
	return selectedKinds, nil
}

// SelectFilter asks whether to constrain the candidates and, when accepted, by which properties.
func (prompter *FormPrompter) SelectFilter(executionContext context.Context) (filter.Criteria, error) {
	useFilter := false
	confirmField := huh.NewConfirm().
		Title(filterPromptTitleConstant).
		Affirmative(confirmAffirmativeLabelConstant).
		Negative(confirmNegativeLabelConstant).
		Value(&useFilter)
	if runError := prompter.run(executionContext, huh.NewGroup(confirmField)); runError != nil {
		return filter.Criteria{}, runError
	}
	if !useFilter {
		return filter.Criteria{}, nil
	}

	var answers filterAnswers
	group := huh.NewGroup(
		huh.NewSelect[string]().Title(visibilityFilterTitleConstant).Options(
			huh.NewOption(filterNoChoiceLabelConstant, choiceAny),
			huh.NewOption(publicOnlyFilterLabelConstant, string(shared.VisibilityPublic)),
			huh.NewOption(privateOnlyFilterLabelConstant, string(shared.VisibilityPrivate)),
		).Value(&answers.visibility),
		huh.NewSelect[string]().Title(forkFilterTitleConstant).Options(triStateOptions(forkOnlyFilterLabelConstant, nonForkOnlyFilterLabelConstant)...).Value(&answers.fork),
		huh.NewSelect[string]().Title(archivedFilterTitleConstant).Options(triStateOptions(archivedOnlyFilterLabelConstant, activeOnlyFilterLabelConstant)...).Value(&answers.archived),
		huh.NewSelect[string]().Title(openIssuesFilterTitleConstant).Options(triStateOptions(noOpenIssuesFilterLabelConstant, withOpenIssuesFilterLabelConstant)...).Value(&answers.withoutOpenIssues),
	)
	if runError := prompter.run(executionContext, group); runError != nil {
		return filter.Criteria{}, runError
	}
	return answers.criteria(), nil
}

// SelectRepositories asks which candidates to organize. The selection keeps the candidate order.
func (prompter *FormPrompter) SelectRepositories(executionContext context.Context, candidates []shared.Repository) ([]shared.Repository, error) {
	labels := RepositoryChoiceLabels(candidates)
	options := make([]huh.Option[string], 0, len(candidates))
	for index, repository := range candidates {
		options = append(options, huh.NewOption(labels[index], repository.FullName))
	}

	var selectedNames []string
	field := huh.NewMultiSelect[string]().
		Title(repositoriesPromptTitleConstant).
		Options(options...).
		Height(repositoryListHeightConstant).
		Value(&selectedNames)
	if runError := prompter.run(executionContext, huh.NewGroup(field)); runError != nil {
		return nil, runError
	}
	return pickRepositories(candidates, selectedNames), nil
}

// SelectSettings implements actions.ParameterPrompter.
func (prompter *FormPrompter) SelectSettings(executionContext context.Context) (shared.SettingsPatch, error) {
	settingOptions := []huh.Option[shared.SettingKey]{
		huh.NewOption(visibilitySettingLabelConstant, shared.SettingVisibility),
		huh.NewOption(hasProjectsSettingLabelConstant, shared.SettingHasProjects),
		huh.NewOption(hasWikiSettingLabelConstant, shared.SettingHasWiki),
		huh.NewOption(deleteBranchSettingLabelConstant, shared.SettingDeleteBranchOnMerge),
		huh.NewOption(archivedSettingLabelConstant, shared.SettingArchived),
	}

	answers := settingsAnswers{visibility: shared.VisibilityPrivate}
	keysField := huh.NewMultiSelect[shared.SettingKey]().Title(settingsPromptTitleConstant).Options(settingOptions...).Value(&answers.keys)
	if runError := prompter.run(executionContext, huh.NewGroup(keysField)); runError != nil {
		return shared.SettingsPatch{}, runError
	}
	if len(answers.keys) == 0 {
		return shared.SettingsPatch{}, nil
	}

	valueFields := make([]huh.Field, 0, len(answers.keys))
	for _, settingKey := range answers.keys {
		switch settingKey {
		case shared.SettingVisibility:
			valueFields = append(valueFields, huh.NewSelect[shared.Visibility]().Title(visibilitySettingLabelConstant).Options(
				huh.NewOption(privateChoiceLabelConstant, shared.VisibilityPrivate),
				huh.NewOption(publicChoiceLabelConstant, shared.VisibilityPublic),
			).Value(&answers.visibility))
		case shared.SettingHasProjects:
			valueFields = append(valueFields, toggleField(hasProjectsSettingLabelConstant, &answers.hasProjects))
		case shared.SettingHasWiki:
			valueFields = append(valueFields, toggleField(hasWikiSettingLabelConstant, &answers.hasWiki))
		case shared.SettingDeleteBranchOnMerge:
			valueFields = append(valueFields, toggleField(deleteBranchSettingLabelConstant, &answers.deleteBranchOnMerge))
		case shared.SettingArchived:
			valueFields = append(valueFields, huh.NewConfirm().
				Title(archiveValueTitleConstant).
				Affirmative(archiveAffirmativeLabelConstant).
				Negative(archiveNegativeLabelConstant).
				Value(&answers.archive))
		}
	}
	if runError := prompter.run(executionContext, huh.NewGroup(valueFields...)); runError != nil {
		return shared.SettingsPatch{}, runError
	}
	return answers.patch(), nil
}

// SelectTransferDestination implements actions.ParameterPrompter.
func (prompter *FormPrompter) SelectTransferDestination(executionContext context.Context, organizations []string) (string, error) {
	options := huh.NewOptions(organizations...)
	var destination string
	if len(organizations) > 0 {
		destination = organizations[0]
	}
	field := huh.NewSelect[string]().Title(destinationPromptTitleConstant).Options(options...).Value(&destination)
	if runError := prompter.run(executionContext, huh.NewGroup(field)); runError != nil {
		return "", runError
	}
	return destination, nil
}

// Confirm implements shared.ConfirmationPrompter.
func (prompter *FormPrompter) Confirm(executionContext context.Context, prompt string) (bool, error) {
	confirmed := false
	field := huh.NewConfirm().
		Title(prompt).
		Affirmative(confirmAffirmativeLabelConstant).
		Negative(confirmNegativeLabelConstant).
		Value(&confirmed)
	if runError := prompter.run(executionContext, huh.NewGroup(field)); runError != nil {
		return false, runError
	}
	return confirmed, nil
}

func (prompter *FormPrompter) run(executionContext context.Context, group *huh.Group) error {
	form := huh.NewForm(group).WithTheme(huh.ThemeCharm()).WithAccessible(prompter.accessible)
	if prompter.input != nil {
		form = form.WithInput(prompter.input)
	}
	if prompter.output != nil {
		form = form.WithOutput(prompter.output)
	}
	runError := prompter.runner(executionContext, form)
	if errors.Is(runError, huh.ErrUserAborted) {
		return ErrPromptCancelled
	}
	return runError
}

func toggleField(title string, value *bool) huh.Field {
	*value = true
	return huh.NewSelect[bool]().Title(title).Options(
		huh.NewOption(enableChoiceLabelConstant, true),
		huh.NewOption(disableChoiceLabelConstant, false),
	).Value(value)
}

func pickRepositories(candidates []shared.Repository, selectedNames []string) []shared.Repository {
	selected := make(map[string]struct{}, len(selectedNames))
	for _, fullName := range selectedNames {
		selected[fullName] = struct{}{}
	}
	picked := make([]shared.Repository, 0, len(selectedNames))
	for _, repository := range candidates {
		if _, chosen := selected[repository.FullName]; chosen {
			picked = append(picked, repository)
		}
	}
	return picked
}
