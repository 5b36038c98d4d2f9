package filter

import "github.com/temirov/organizer/internal/repos/shared"

// Predicate reports whether a repository remains a candidate.
type Predicate func(repository shared.Repository) bool

// Apply returns the order-preserving subsequence of repositories that satisfy every predicate.
// The input slice is never modified; without predicates it is returned unchanged.
func Apply(repositories []shared.Repository, predicates ...Predicate) []shared.Repository {
	activePredicates := make([]Predicate, 0, len(predicates))
	for _, predicate := range predicates {
		if predicate != nil {
			activePredicates = append(activePredicates, predicate)
		}
	}
	if len(activePredicates) == 0 {
		return repositories
	}

	candidates := make([]shared.Repository, 0, len(repositories))
	for _, repository := range repositories {
		if matchesAll(repository, activePredicates) {
			candidates = append(candidates, repository)
		}
	}
	return candidates
}

func matchesAll(repository shared.Repository, predicates []Predicate) bool {
	for _, predicate := range predicates {
		if !predicate(repository) {
			return false
		}
	}
	return true
}

// VisibilityIs keeps repositories whose public/non-public status matches the requested visibility.
// Internal repositories count as non-public.
func VisibilityIs(visibility shared.Visibility) Predicate {
	return func(repository shared.Repository) bool {
		if visibility.IsPublic() {
			return repository.Visibility.IsPublic()
		}
		return !repository.Visibility.IsPublic()
	}
}

// ForkIs keeps repositories whose fork flag equals the expected value.
func ForkIs(expected bool) Predicate {
	return func(repository shared.Repository) bool {
		return repository.Fork == expected
	}
}

// ArchivedIs keeps repositories whose archived flag equals the expected value.
func ArchivedIs(expected bool) Predicate {
	return func(repository shared.Repository) bool {
		return repository.Archived == expected
	}
}

// WithoutOpenIssues keeps repositories with zero open issues when expected is true,
// and repositories with at least one open issue otherwise.
func WithoutOpenIssues(expected bool) Predicate {
	return func(repository shared.Repository) bool {
		return (repository.OpenIssues == 0) == expected
	}
}
