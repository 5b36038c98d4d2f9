package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/organizer/internal/repos/shared"
)

const unknownKindTemplateConstant = "unknown action %q"

// Kind enumerates the supported maintenance actions.
type Kind int

// Supported action kinds.
const (
	KindCloseIssues Kind = iota
	KindClosePullRequests
	KindUpdateSettings
	KindTransfer
	KindDelete
)

// AllKinds lists every action kind in presentation order.
func AllKinds() []Kind {
	return []Kind{KindCloseIssues, KindClosePullRequests, KindUpdateSettings, KindTransfer, KindDelete}
}

// OfferedKinds lists the kinds an operator may choose from. Delete leads the list when enabled.
func OfferedKinds(deleteEnabled bool) []Kind {
	if deleteEnabled {
		return []Kind{KindDelete, KindCloseIssues, KindClosePullRequests, KindUpdateSettings, KindTransfer}
	}
	return []Kind{KindCloseIssues, KindClosePullRequests, KindUpdateSettings, KindTransfer}
}

// String returns the canonical kebab-case name.
func (kind Kind) String() string {
	switch kind {
	case KindCloseIssues:
		return "close-issues"
	case KindClosePullRequests:
		return "close-pull-requests"
	case KindUpdateSettings:
		return "update-settings"
	case KindTransfer:
		return "transfer"
	case KindDelete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}

// Description returns the label shown when offering the kind.
func (kind Kind) Description() string {
	switch kind {
	case KindCloseIssues:
		return "Close all issues"
	case KindClosePullRequests:
		return "Close all pull requests"
	case KindUpdateSettings:
		return "Update repository (visibility, archive, etc.)"
	case KindTransfer:
		return "Transfer repository"
	case KindDelete:
		return "Delete repository"
	default:
		return kind.String()
	}
}

// ParseKind accepts canonical names and their camelCase aliases.
func ParseKind(raw string) (Kind, error) {
	switch strings.TrimSpace(raw) {
	case "close-issues", "closeIssues":
		return KindCloseIssues, nil
	case "close-pull-requests", "closePullRequests":
		return KindClosePullRequests, nil
	case "update-settings", "update", "updateSettings":
		return KindUpdateSettings, nil
	case "transfer":
		return KindTransfer, nil
	case "delete":
		return KindDelete, nil
	default:
		return 0, fmt.Errorf(unknownKindTemplateConstant, raw)
	}
}

// ParseKinds parses each name in order.
func ParseKinds(rawKinds []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(rawKinds))
	for _, rawKind := range rawKinds {
		if len(strings.TrimSpace(rawKind)) == 0 {
			continue
		}
		kind, parseError := ParseKind(rawKind)
		if parseError != nil {
			return nil, parseError
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// MarshalText encodes the canonical name.
func (kind Kind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

// UnmarshalText decodes canonical names and aliases from configuration and plan files.
func (kind *Kind) UnmarshalText(text []byte) error {
	parsedKind, parseError := ParseKind(string(text))
	if parseError != nil {
		return parseError
	}
	*kind = parsedKind
	return nil
}

// Outcome reports what an action did to one repository.
type Outcome int

// Action outcomes.
const (
	OutcomeApplied Outcome = iota
	OutcomeSkipped
)

// String returns the outcome name.
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("outcome(%d)", int(outcome))
	}
}

// ProgressSink receives human-readable status text for one repository.
type ProgressSink func(status string)

// Report forwards status when the sink is set.
func (sink ProgressSink) Report(status string) {
	if sink != nil {
		sink(status)
	}
}

// Action is a configured maintenance step applied to one repository at a time.
// Implementations hold no per-repository state.
type Action interface {
	Kind() Kind
	Apply(executionContext context.Context, repository shared.Repository, progress ProgressSink) (Outcome, error)
}

// Chain is an ordered list of actions; insertion order is execution order.
type Chain []Action

// Kinds lists the kinds of the chained actions in order.
func (chain Chain) Kinds() []Kind {
	kinds := make([]Kind, 0, len(chain))
	for _, action := range chain {
		kinds = append(kinds, action.Kind())
	}
	return kinds
}

// SelectKinds applies the selection policy: delete excludes every other kind, and repeated kinds keep their first position.
func SelectKinds(requestedKinds []Kind) []Kind {
	for _, kind := range requestedKinds {
		if kind == KindDelete {
			return []Kind{KindDelete}
		}
	}

	seenKinds := make(map[Kind]struct{}, len(requestedKinds))
	selectedKinds := make([]Kind, 0, len(requestedKinds))
	for _, kind := range requestedKinds {
		if _, seen := seenKinds[kind]; seen {
			continue
		}
		seenKinds[kind] = struct{}{}
		selectedKinds = append(selectedKinds, kind)
	}
	return selectedKinds
}
