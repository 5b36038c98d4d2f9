package shared

import "strings"

// SettingKey names a repository setting that can be patched.
type SettingKey string

// Patchable repository settings in presentation order.
const (
	SettingVisibility          SettingKey = SettingKey("visibility")
	SettingHasProjects         SettingKey = SettingKey("has_projects")
	SettingHasWiki             SettingKey = SettingKey("has_wiki")
	SettingDeleteBranchOnMerge SettingKey = SettingKey("delete_branch_on_merge")
	SettingArchived            SettingKey = SettingKey("archived")
)

// AllSettingKeys lists every patchable setting in presentation order.
func AllSettingKeys() []SettingKey {
	return []SettingKey{
		SettingVisibility,
		SettingHasProjects,
		SettingHasWiki,
		SettingDeleteBranchOnMerge,
		SettingArchived,
	}
}

// ParseSettingKey accepts snake_case and kebab-case setting names.
func ParseSettingKey(raw string) (SettingKey, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	for _, settingKey := range AllSettingKeys() {
		if string(settingKey) == normalized {
			return settingKey, true
		}
	}
	return "", false
}

// SettingsPatch carries the selected settings of an update. A nil field is never sent.
type SettingsPatch struct {
	Visibility          *Visibility
	HasProjects         *bool
	HasWiki             *bool
	DeleteBranchOnMerge *bool
	Archived            *bool
}

// Keys lists the selected settings in presentation order.
func (patch SettingsPatch) Keys() []SettingKey {
	selectedKeys := make([]SettingKey, 0, len(AllSettingKeys()))
	if patch.Visibility != nil {
		selectedKeys = append(selectedKeys, SettingVisibility)
	}
	if patch.HasProjects != nil {
		selectedKeys = append(selectedKeys, SettingHasProjects)
	}
	if patch.HasWiki != nil {
		selectedKeys = append(selectedKeys, SettingHasWiki)
	}
	if patch.DeleteBranchOnMerge != nil {
		selectedKeys = append(selectedKeys, SettingDeleteBranchOnMerge)
	}
	if patch.Archived != nil {
		selectedKeys = append(selectedKeys, SettingArchived)
	}
	return selectedKeys
}

// IsEmpty reports whether no setting is selected.
func (patch SettingsPatch) IsEmpty() bool {
	return len(patch.Keys()) == 0
}

// WithoutVisibility returns a copy of the patch with the visibility setting removed.
func (patch SettingsPatch) WithoutVisibility() SettingsPatch {
	patch.Visibility = nil
	return patch
}

// Payload renders the selected settings keyed by their API field names.
func (patch SettingsPatch) Payload() map[string]any {
	payload := make(map[string]any, len(AllSettingKeys()))
	if patch.Visibility != nil {
		payload[string(SettingVisibility)] = patch.Visibility.String()
	}
	if patch.HasProjects != nil {
		payload[string(SettingHasProjects)] = *patch.HasProjects
	}
	if patch.HasWiki != nil {
		payload[string(SettingHasWiki)] = *patch.HasWiki
	}
	if patch.DeleteBranchOnMerge != nil {
		payload[string(SettingDeleteBranchOnMerge)] = *patch.DeleteBranchOnMerge
	}
	if patch.Archived != nil {
		payload[string(SettingArchived)] = *patch.Archived
	}
	return payload
}
