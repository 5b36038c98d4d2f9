package filter

import "github.com/temirov/organizer/internal/repos/shared"

// Criteria holds the optional repository properties an operator constrains. Nil means no constraint.
type Criteria struct {
	Visibility        *shared.Visibility `yaml:"visibility"`
	Fork              *bool              `yaml:"fork"`
	Archived          *bool              `yaml:"archived"`
	WithoutOpenIssues *bool              `yaml:"without_open_issues"`
}

// IsEmpty reports whether no property is constrained.
func (criteria Criteria) IsEmpty() bool {
	return len(criteria.Predicates()) == 0
}

// Predicates compiles the constrained properties into predicates.
func (criteria Criteria) Predicates() []Predicate {
	predicates := make([]Predicate, 0, 4)
	if criteria.Visibility != nil {
		predicates = append(predicates, VisibilityIs(*criteria.Visibility))
	}
	if criteria.Fork != nil {
		predicates = append(predicates, ForkIs(*criteria.Fork))
	}
	if criteria.Archived != nil {
		predicates = append(predicates, ArchivedIs(*criteria.Archived))
	}
	if criteria.WithoutOpenIssues != nil {
		predicates = append(predicates, WithoutOpenIssues(*criteria.WithoutOpenIssues))
	}
	return predicates
}
