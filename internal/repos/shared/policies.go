package shared

import "strings"

// ConfirmationPolicy specifies whether the run asks before mutating repositories.
type ConfirmationPolicy int

const (
	// ConfirmationPrompt indicates the run should prompt the operator.
	ConfirmationPrompt ConfirmationPolicy = iota
	// ConfirmationAssumeYes indicates the run should continue without prompting.
	ConfirmationAssumeYes
)

// ConfirmationPolicyFromBool converts the --yes flag into a policy.
func ConfirmationPolicyFromBool(assumeYes bool) ConfirmationPolicy {
	if assumeYes {
		return ConfirmationAssumeYes
	}
	return ConfirmationPrompt
}

// ShouldPrompt reports whether the run must prompt the operator.
func (policy ConfirmationPolicy) ShouldPrompt() bool {
	return policy != ConfirmationAssumeYes
}

// MutationPolicy specifies whether mutating calls reach the hosting API.
type MutationPolicy int

const (
	// MutationsApplied sends every mutation.
	MutationsApplied MutationPolicy = iota
	// MutationsLogged records mutations without sending them.
	MutationsLogged
)

// MutationPolicyFromDryRun converts the --dry-run flag into a policy.
func MutationPolicyFromDryRun(dryRun bool) MutationPolicy {
	if dryRun {
		return MutationsLogged
	}
	return MutationsApplied
}

// IsDryRun reports whether mutations are only logged.
func (policy MutationPolicy) IsDryRun() bool {
	return policy == MutationsLogged
}

// ParseOwnerSlugOptional normalizes owner slugs, returning nil when empty.
func ParseOwnerSlugOptional(raw string) (*OwnerSlug, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	slug, slugError := NewOwnerSlug(trimmed)
	if slugError != nil {
		return nil, slugError
	}
	return &slug, nil
}

// ParseOwnerRepositoryOptional normalizes owner/repo tuples, returning nil when empty.
func ParseOwnerRepositoryOptional(raw string) (*OwnerRepository, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	ownerRepository, ownerRepositoryError := NewOwnerRepository(trimmed)
	if ownerRepositoryError != nil {
		return nil, ownerRepositoryError
	}
	return &ownerRepository, nil
}
