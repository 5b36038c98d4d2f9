package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/organizer/internal/repos/shared"
)

func TestParseVisibility(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		input       string
		expect      shared.Visibility
		expectError bool
	}{
		{name: "public", input: "public", expect: shared.VisibilityPublic},
		{name: "private_mixed_case", input: " Private ", expect: shared.VisibilityPrivate},
		{name: "internal", input: "internal", expect: shared.VisibilityInternal},
		{name: "unknown", input: "secret", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result, err := shared.ParseVisibility(testCase.input)
			if testCase.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expect, result)
		})
	}

	require.True(t, shared.VisibilityPublic.IsPublic())
	require.False(t, shared.VisibilityInternal.IsPublic())
	require.Equal(t, shared.VisibilityPrivate, shared.VisibilityFromPrivateFlag(true))
}

func TestRepositoryLabel(t *testing.T) {
	t.Parallel()

	repository := shared.Repository{FullName: shared.NewRepositoryFullName("acme", "widgets")}
	require.Equal(t, "acme/widgets", repository.Label())

	repository.Fork = true
	require.Equal(t, "acme/widgets [fork]", repository.Label())
}

func TestSettingsPatchKeysAndPayload(t *testing.T) {
	t.Parallel()

	private := shared.VisibilityPrivate
	hasWiki := false
	archived := true

	patch := shared.SettingsPatch{Visibility: &private, HasWiki: &hasWiki, Archived: &archived}

	require.Equal(t, []shared.SettingKey{shared.SettingVisibility, shared.SettingHasWiki, shared.SettingArchived}, patch.Keys())
	require.Equal(t, map[string]any{"visibility": "private", "has_wiki": false, "archived": true}, patch.Payload())
	require.False(t, patch.IsEmpty())

	withoutVisibility := patch.WithoutVisibility()
	require.Equal(t, []shared.SettingKey{shared.SettingHasWiki, shared.SettingArchived}, withoutVisibility.Keys())
	require.NotNil(t, patch.Visibility)

	require.True(t, shared.SettingsPatch{}.IsEmpty())
	require.Empty(t, shared.SettingsPatch{}.Payload())
}

func TestParseSettingKey(t *testing.T) {
	t.Parallel()

	settingKey, found := shared.ParseSettingKey("delete-branch-on-merge")
	require.True(t, found)
	require.Equal(t, shared.SettingDeleteBranchOnMerge, settingKey)

	_, found = shared.ParseSettingKey("topics")
	require.False(t, found)
}

func TestNewOwnerSlug(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		input       string
		expect      string
		expectError bool
	}{
		{name: "valid_owner", input: "Temirov", expect: "Temirov"},
		{name: "trims_owner", input: "  org-name ", expect: "org-name"},
		{name: "rejects_empty", input: "  ", expectError: true},
		{name: "rejects_slash", input: "owner/name", expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			result, err := shared.NewOwnerSlug(testCase.input)
			if testCase.expectError {
				require.Error(t, err)
				require.ErrorIs(t, err, shared.ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expect, result.String())
		})
	}
}

func TestNewOwnerRepository(t *testing.T) {
	t.Parallel()

	ownerRepo, err := shared.NewOwnerRepository("owner/repo")
	require.NoError(t, err)
	require.Equal(t, "owner", ownerRepo.Owner().String())
	require.Equal(t, "repo", ownerRepo.Repository().String())
	require.Equal(t, "owner/repo", ownerRepo.String())

	_, err = shared.NewOwnerRepository("invalid")
	require.Error(t, err)

	_, err = shared.NewOwnerRepository("owner/")
	require.Error(t, err)

	empty, err := shared.ParseOwnerRepositoryOptional("  ")
	require.NoError(t, err)
	require.Nil(t, empty)
}

func TestPolicies(t *testing.T) {
	t.Parallel()

	require.True(t, shared.ConfirmationPolicyFromBool(false).ShouldPrompt())
	require.False(t, shared.ConfirmationPolicyFromBool(true).ShouldPrompt())
	require.True(t, shared.MutationPolicyFromDryRun(true).IsDryRun())
	require.False(t, shared.MutationPolicyFromDryRun(false).IsDryRun())
}
