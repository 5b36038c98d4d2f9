package organize_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/organizer/internal/organize"
)

func TestParseBackend(testInstance *testing.T) {
	testCases := []struct {
		input           string
		expectedBackend organize.Backend
		expectError     bool
	}{
		{input: "", expectedBackend: organize.BackendAPI},
		{input: "api", expectedBackend: organize.BackendAPI},
		{input: " CLI ", expectedBackend: organize.BackendCLI},
		{input: "graphql", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.input, func(testInstance *testing.T) {
			backend, parseError := organize.ParseBackend(testCase.input)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedBackend, backend)
		})
	}
}

func TestConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    organize.Configuration
		expected organize.Configuration
	}{
		{
			name:     "zero_concurrency_falls_back",
			input:    organize.Configuration{Concurrency: 0},
			expected: organize.Configuration{Concurrency: 5, Actions: []string{}},
		},
		{
			name:     "negative_concurrency_falls_back",
			input:    organize.Configuration{Concurrency: -3},
			expected: organize.Configuration{Concurrency: 5, Actions: []string{}},
		},
		{
			name: "values_are_trimmed",
			input: organize.Configuration{
				Owner:       "  acme ",
				Backend:     " cli",
				Plan:        " plan.yaml ",
				Concurrency: 2,
				Actions:     []string{" close-issues ", "", "  "},
			},
			expected: organize.Configuration{
				Owner:       "acme",
				Backend:     "cli",
				Plan:        "plan.yaml",
				Concurrency: 2,
				Actions:     []string{"close-issues"},
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.input.Sanitize())
		})
	}
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	values := organize.DefaultConfigurationValues("organize")
	require.Equal(testInstance, 5, values["organize.concurrency"])
	require.Equal(testInstance, "api", values["organize.backend"])
	require.Equal(testInstance, false, values["organize.enable_delete"])
	require.Contains(testInstance, values, "organize.assume_yes")
}
