package filter_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/organizer/internal/repos/filter"
	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	testPublicSourceNameConstant   = "acme/public-source"
	testPrivateForkNameConstant    = "acme/private-fork"
	testArchivedNameConstant       = "acme/archived"
	testInternalNameConstant       = "acme/internal-tools"
	testNoPredicatesCaseConstant   = "no_predicates_identity"
	testVisibilityPublicCaseConst  = "visibility_public"
	testVisibilityPrivateCaseConst = "visibility_private_includes_internal"
	testForkCaseConstant           = "fork_only"
	testArchivedFalseCaseConstant  = "not_archived"
	testWithoutIssuesCaseConstant  = "without_open_issues"
	testWithIssuesCaseConstant     = "with_open_issues"
	testConjunctionCaseConstant    = "conjunction"
	testNoMatchCaseConstant        = "no_match"
)

func candidateRepositories() []shared.Repository {
	return []shared.Repository{
		{FullName: testPublicSourceNameConstant, Visibility: shared.VisibilityPublic, OpenIssues: 3},
		{FullName: testPrivateForkNameConstant, Visibility: shared.VisibilityPrivate, Fork: true},
		{FullName: testArchivedNameConstant, Visibility: shared.VisibilityPublic, Archived: true},
		{FullName: testInternalNameConstant, Visibility: shared.VisibilityInternal, OpenIssues: 1},
	}
}

func booleanPointer(value bool) *bool {
	return &value
}

func visibilityPointer(value shared.Visibility) *shared.Visibility {
	return &value
}

func TestApply(testInstance *testing.T) {
	testCases := []struct {
		name          string
		criteria      filter.Criteria
		expectedNames []string
	}{
		{
			name:          testNoPredicatesCaseConstant,
			criteria:      filter.Criteria{},
			expectedNames: []string{testPublicSourceNameConstant, testPrivateForkNameConstant, testArchivedNameConstant, testInternalNameConstant},
		},
		{
			name:          testVisibilityPublicCaseConst,
			criteria:      filter.Criteria{Visibility: visibilityPointer(shared.VisibilityPublic)},
			expectedNames: []string{testPublicSourceNameConstant, testArchivedNameConstant},
		},
		{
			name:          testVisibilityPrivateCaseConst,
			criteria:      filter.Criteria{Visibility: visibilityPointer(shared.VisibilityPrivate)},
			expectedNames: []string{testPrivateForkNameConstant, testInternalNameConstant},
		},
		{
			name:          testForkCaseConstant,
			criteria:      filter.Criteria{Fork: booleanPointer(true)},
			expectedNames: []string{testPrivateForkNameConstant},
		},
		{
			name:          testArchivedFalseCaseConstant,
			criteria:      filter.Criteria{Archived: booleanPointer(false)},
			expectedNames: []string{testPublicSourceNameConstant, testPrivateForkNameConstant, testInternalNameConstant},
		},
		{
			name:          testWithoutIssuesCaseConstant,
			criteria:      filter.Criteria{WithoutOpenIssues: booleanPointer(true)},
			expectedNames: []string{testPrivateForkNameConstant, testArchivedNameConstant},
		},
		{
			name:          testWithIssuesCaseConstant,
			criteria:      filter.Criteria{WithoutOpenIssues: booleanPointer(false)},
			expectedNames: []string{testPublicSourceNameConstant, testInternalNameConstant},
		},
		{
			name: testConjunctionCaseConstant,
			criteria: filter.Criteria{
				Visibility: visibilityPointer(shared.VisibilityPublic),
				Archived:   booleanPointer(false),
			},
			expectedNames: []string{testPublicSourceNameConstant},
		},
		{
			name: testNoMatchCaseConstant,
			criteria: filter.Criteria{
				Fork:     booleanPointer(true),
				Archived: booleanPointer(true),
			},
			expectedNames: []string{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositories := candidateRepositories()
			snapshot := candidateRepositories()

			filtered := filter.Apply(repositories, testCase.criteria.Predicates()...)

			filteredNames := make([]string, 0, len(filtered))
			for _, repository := range filtered {
				filteredNames = append(filteredNames, repository.FullName)
			}
			require.Equal(testInstance, testCase.expectedNames, filteredNames)
			require.Equal(testInstance, snapshot, repositories)
		})
	}
}

func TestApplyWithoutPredicatesReturnsInput(testInstance *testing.T) {
	repositories := candidateRepositories()
	require.Equal(testInstance, repositories, filter.Apply(repositories))
	require.Equal(testInstance, repositories, filter.Apply(repositories, nil))
	require.True(testInstance, filter.Criteria{}.IsEmpty())
}

func TestApplyIsIdempotent(testInstance *testing.T) {
	predicates := filter.Criteria{Archived: booleanPointer(false), Fork: booleanPointer(false)}.Predicates()
	once := filter.Apply(candidateRepositories(), predicates...)
	twice := filter.Apply(once, predicates...)
	require.Equal(testInstance, once, twice)
}
