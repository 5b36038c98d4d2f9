package plan

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/repos/filter"
	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	planLoadErrorTemplateConstant       = "failed to load run plan: %w"
	planParseErrorTemplateConstant      = "failed to parse run plan: %w"
	planPathRequiredMessageConstant     = "run plan path must be provided"
	planEmptyActionsMessageConstant     = "run plan must define at least one action"
	planDuplicateActionTemplateConstant = "run plan defines action %s more than once"
	planSettingsMisplacedTemplate       = "run plan action %s does not accept settings"
	planDestinationMisplacedTemplate    = "run plan action %s does not accept a destination"
	ownerRepositorySeparatorConstant    = "/"
	planActionKindMissingMessage        = "run plan action missing kind"
	planActionKindInvalidTemplate       = "run plan action: %w"
	planWrapperKeyConstant              = "plan"
)

// Plan answers the prompts of one organize run.
type Plan struct {
	Owner        string          `yaml:"owner"`
	Actions      []ActionPlan    `yaml:"actions"`
	Filter       filter.Criteria `yaml:"filter"`
	Repositories []string        `yaml:"repositories"`
	Confirm      bool            `yaml:"confirm"`
}

// ActionPlan selects one action kind and its parameters.
type ActionPlan struct {
	Name        string        `yaml:"kind"`
	Kind        actions.Kind  `yaml:"-"`
	Settings    *SettingsPlan `yaml:"settings"`
	Destination string        `yaml:"destination"`
}

// SettingsPlan lists the settings an update-settings action changes. Omitted settings are never sent.
type SettingsPlan struct {
	Visibility          *shared.Visibility `yaml:"visibility"`
	HasProjects         *bool              `yaml:"has_projects"`
	HasWiki             *bool              `yaml:"has_wiki"`
	DeleteBranchOnMerge *bool              `yaml:"delete_branch_on_merge"`
	Archived            *bool              `yaml:"archived"`
}

// Patch converts the plan into a settings patch.
func (settings *SettingsPlan) Patch() shared.SettingsPatch {
	if settings == nil {
		return shared.SettingsPatch{}
	}
	return shared.SettingsPatch{
		Visibility:          settings.Visibility,
		HasProjects:         settings.HasProjects,
		HasWiki:             settings.HasWiki,
		DeleteBranchOnMerge: settings.DeleteBranchOnMerge,
		Archived:            settings.Archived,
	}
}

// Kinds lists the planned action kinds in order.
func (plan Plan) Kinds() []actions.Kind {
	kinds := make([]actions.Kind, 0, len(plan.Actions))
	for _, actionPlan := range plan.Actions {
		kinds = append(kinds, actionPlan.Kind)
	}
	return kinds
}

func (plan Plan) action(kind actions.Kind) (ActionPlan, bool) {
	for _, actionPlan := range plan.Actions {
		if actionPlan.Kind == kind {
			return actionPlan, true
		}
	}
	return ActionPlan{}, false
}

// Load reads and validates a run plan file.
func Load(filePath string) (Plan, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Plan{}, errors.New(planPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Plan{}, fmt.Errorf(planLoadErrorTemplateConstant, readError)
	}
	return Parse(contentBytes)
}

// Parse decodes a run plan. The document may be nested under a top-level plan key.
// Unknown fields are rejected in both forms.
func Parse(contentBytes []byte) (Plan, error) {
	var document yaml.Node
	if nodeError := yaml.Unmarshal(contentBytes, &document); nodeError != nil {
		return Plan{}, fmt.Errorf(planParseErrorTemplateConstant, nodeError)
	}

	if hasTopLevelKey(&document, planWrapperKeyConstant) {
		var wrapper struct {
			Plan *Plan `yaml:"plan"`
		}
		if decodeError := decodeStrict(contentBytes, &wrapper); decodeError != nil {
			return Plan{}, fmt.Errorf(planParseErrorTemplateConstant, decodeError)
		}
		if wrapper.Plan == nil {
			return Plan{}, errors.New(planEmptyActionsMessageConstant)
		}
		return validate(*wrapper.Plan)
	}

	var plan Plan
	if decodeError := decodeStrict(contentBytes, &plan); decodeError != nil {
		return Plan{}, fmt.Errorf(planParseErrorTemplateConstant, decodeError)
	}
	return validate(plan)
}

func decodeStrict(contentBytes []byte, target any) error {
	decoder := yaml.NewDecoder(bytes.NewReader(contentBytes))
	decoder.KnownFields(true)
	return decoder.Decode(target)
}

func hasTopLevelKey(document *yaml.Node, key string) bool {
	if document.Kind != yaml.DocumentNode || len(document.Content) == 0 {
		return false
	}
	mapping := document.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return false
	}
	for keyIndex := 0; keyIndex+1 < len(mapping.Content); keyIndex += 2 {
		if mapping.Content[keyIndex].Value == key {
			return true
		}
	}
	return false
}

func validate(plan Plan) (Plan, error) {
	if len(plan.Actions) == 0 {
		return Plan{}, errors.New(planEmptyActionsMessageConstant)
	}

	seenKinds := make(map[actions.Kind]struct{}, len(plan.Actions))
	for actionIndex := range plan.Actions {
		actionPlan := &plan.Actions[actionIndex]
		if len(strings.TrimSpace(actionPlan.Name)) == 0 {
			return Plan{}, errors.New(planActionKindMissingMessage)
		}
		kind, parseError := actions.ParseKind(actionPlan.Name)
		if parseError != nil {
			return Plan{}, fmt.Errorf(planActionKindInvalidTemplate, parseError)
		}
		actionPlan.Kind = kind

		if _, seen := seenKinds[actionPlan.Kind]; seen {
			return Plan{}, fmt.Errorf(planDuplicateActionTemplateConstant, actionPlan.Kind)
		}
		seenKinds[actionPlan.Kind] = struct{}{}

		if actionPlan.Settings != nil && actionPlan.Kind != actions.KindUpdateSettings {
			return Plan{}, fmt.Errorf(planSettingsMisplacedTemplate, actionPlan.Kind)
		}
		if len(strings.TrimSpace(actionPlan.Destination)) > 0 && actionPlan.Kind != actions.KindTransfer {
			return Plan{}, fmt.Errorf(planDestinationMisplacedTemplate, actionPlan.Kind)
		}
	}

	owner, ownerError := shared.ParseOwnerSlugOptional(plan.Owner)
	if ownerError != nil {
		return Plan{}, ownerError
	}
	plan.Owner = ""
	if owner != nil {
		plan.Owner = owner.String()
	}

	for _, repositoryName := range plan.Repositories {
		if strings.Contains(repositoryName, ownerRepositorySeparatorConstant) {
			if _, parseError := shared.ParseOwnerRepositoryOptional(repositoryName); parseError != nil {
				return Plan{}, parseError
			}
			continue
		}
		if _, nameError := shared.NewRepositoryName(repositoryName); nameError != nil {
			return Plan{}, nameError
		}
	}
	return plan, nil
}
