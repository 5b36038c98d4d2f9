package ui

import (
	"github.com/charmbracelet/huh"

	"github.com/temirov/organizer/internal/repos/filter"
	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	choiceAny = ""
	choiceYes = "yes"
	choiceNo  = "no"
)

func triStateOptions(yesLabel string, noLabel string) []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption(filterNoChoiceLabelConstant, choiceAny),
		huh.NewOption(yesLabel, choiceYes),
		huh.NewOption(noLabel, choiceNo),
	}
}

type filterAnswers struct {
	visibility        string
	fork              string
	archived          string
	withoutOpenIssues string
}

func (answers filterAnswers) criteria() filter.Criteria {
	var criteria filter.Criteria
	if visibility, parseError := shared.ParseVisibility(answers.visibility); answers.visibility != choiceAny && parseError == nil {
		criteria.Visibility = &visibility
	}
	criteria.Fork = triStateValue(answers.fork)
	criteria.Archived = triStateValue(answers.archived)
	criteria.WithoutOpenIssues = triStateValue(answers.withoutOpenIssues)
	return criteria
}

func triStateValue(choice string) *bool {
	switch choice {
	case choiceYes:
		value := true
		return &value
	case choiceNo:
		value := false
		return &value
	default:
		return nil
	}
}

type settingsAnswers struct {
	keys                []shared.SettingKey
	visibility          shared.Visibility
	hasProjects         bool
	hasWiki             bool
	deleteBranchOnMerge bool
	archive             bool
}

// patch keeps only the selected settings. Declining to archive removes the archived setting.
func (answers settingsAnswers) patch() shared.SettingsPatch {
	var patch shared.SettingsPatch
	for _, settingKey := range answers.keys {
		switch settingKey {
		case shared.SettingVisibility:
			visibility := answers.visibility
			patch.Visibility = &visibility
		case shared.SettingHasProjects:
			hasProjects := answers.hasProjects
			patch.HasProjects = &hasProjects
		case shared.SettingHasWiki:
			hasWiki := answers.hasWiki
			patch.HasWiki = &hasWiki
		case shared.SettingDeleteBranchOnMerge:
			deleteBranchOnMerge := answers.deleteBranchOnMerge
			patch.DeleteBranchOnMerge = &deleteBranchOnMerge
		case shared.SettingArchived:
			if answers.archive {
				archived := true
				patch.Archived = &archived
			}
		}
	}
	return patch
}
