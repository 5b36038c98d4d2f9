package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/organizer/internal/utils"
)

const (
	testEnvironmentPrefixConstant                  = "TESTORGANIZER"
	testCommonSectionKeyConstant                   = "common"
	testLogLevelKeyConstant                        = testCommonSectionKeyConstant + ".log_level"
	testDefaultLogLevelConstant                    = "info"
	testConfiguredLogLevelConstant                 = "debug"
	testOverriddenLogLevelConstant                 = "error"
	testFileLogLevelConstant                       = "warn"
	testConfigFileNameConstant                     = "config.yaml"
	testConfigContentTemplateConstant              = "common:\n  log_level: %s\n"
	testCaseEmbeddedMessageConstant                = "embedded configuration merges"
	testCaseDefaultsMessageConstant                = "defaults are applied"
	testCaseFileMessageConstant                    = "config file overrides defaults"
	testCaseEnvironmentMessageConstant             = "environment overrides file"
	testConfigurationNameConstant                  = "config"
	testConfigurationTypeConstant                  = "yaml"
	configurationLoaderSubtestNameTemplateConstant = "%d_%s"
	testEmbeddedLogLevelConstant                   = "debug"
	testOrganizeSectionKeyConstant                 = "organize"
	testConcurrencyKeyConstant                     = testOrganizeSectionKeyConstant + ".concurrency"
	testActionsKeyConstant                         = testOrganizeSectionKeyConstant + ".actions"
	testConcurrencyAliasConstant                   = "TESTORGANIZER_ALIAS_CONCURRENCY"
	testPrefixedConcurrencyVariableConstant        = "TESTORGANIZER_ORGANIZE_CONCURRENCY"
	testPrefixedActionsVariableConstant            = "TESTORGANIZER_ORGANIZE_ACTIONS"
	testDefaultConcurrencyConstant                 = 5
	testCaseAliasAppliedMessageConstant            = "alias overrides default"
	testCasePrefixedWinsMessageConstant            = "prefixed variable wins over alias"
	testCaseNoEnvironmentMessageConstant           = "default without environment"
)

type configurationFixture struct {
	Common configurationCommonFixture `mapstructure:"common"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type organizeConfigurationFixture struct {
	Organize organizeSectionFixture `mapstructure:"organize"`
}

type organizeSectionFixture struct {
	Concurrency int      `mapstructure:"concurrency"`
	Actions     []string `mapstructure:"actions"`
}

func TestConfigurationLoaderLoadConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedLogLevel    string
		fileLogLevel        string
		environmentLogLevel string
		expectedLogLevel    string
	}{
		{
			name:                testCaseEmbeddedMessageConstant,
			embeddedLogLevel:    testEmbeddedLogLevelConstant,
			fileLogLevel:        "",
			environmentLogLevel: "",
			expectedLogLevel:    testEmbeddedLogLevelConstant,
		},
		{
			name:                testCaseDefaultsMessageConstant,
			embeddedLogLevel:    testDefaultLogLevelConstant,
			fileLogLevel:        "",
			environmentLogLevel: "",
			expectedLogLevel:    testDefaultLogLevelConstant,
		},
		{
			name:                testCaseFileMessageConstant,
			embeddedLogLevel:    testDefaultLogLevelConstant,
			fileLogLevel:        testConfiguredLogLevelConstant,
			environmentLogLevel: "",
			expectedLogLevel:    testConfiguredLogLevelConstant,
		},
		{
			name:                testCaseEnvironmentMessageConstant,
			embeddedLogLevel:    testDefaultLogLevelConstant,
			fileLogLevel:        testFileLogLevelConstant,
			environmentLogLevel: testOverriddenLogLevelConstant,
			expectedLogLevel:    testOverriddenLogLevelConstant,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			tempDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileLogLevel) > 0 {
				configurationFilePath = filepath.Join(tempDirectory, testConfigFileNameConstant)
				configurationContent := fmt.Sprintf(testConfigContentTemplateConstant, testCase.fileLogLevel)
				writeError := os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600)
				require.NoError(testInstance, writeError)
			}

			if len(testCase.environmentLogLevel) > 0 {
				environmentVariableName := fmt.Sprintf("%s_%s", testEnvironmentPrefixConstant, strings.ToUpper(strings.ReplaceAll(testLogLevelKeyConstant, ".", "_")))
				setError := os.Setenv(environmentVariableName, testCase.environmentLogLevel)
				require.NoError(testInstance, setError)
				testInstance.Cleanup(func() {
					unsetError := os.Unsetenv(environmentVariableName)
					require.NoError(testInstance, unsetError)
				})
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{tempDirectory})

			configurationLoader.SetEmbeddedConfiguration([]byte(fmt.Sprintf(testConfigContentTemplateConstant, testCase.embeddedLogLevel)), testConfigurationTypeConstant)

			defaultValues := map[string]any{
				testLogLevelKeyConstant: testDefaultLogLevelConstant,
			}

			loadedConfiguration := configurationFixture{}
			metadata, loadError := configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedLogLevel, loadedConfiguration.Common.LogLevel)

			if len(configurationFilePath) > 0 {
				require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
			} else {
				require.Empty(testInstance, metadata.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderEnvironmentAliases(testInstance *testing.T) {
	testCases := []struct {
		name                string
		aliasValue          string
		prefixedValue       string
		expectedConcurrency int
	}{
		{
			name:                testCaseNoEnvironmentMessageConstant,
			expectedConcurrency: testDefaultConcurrencyConstant,
		},
		{
			name:                testCaseAliasAppliedMessageConstant,
			aliasValue:          "12",
			expectedConcurrency: 12,
		},
		{
			name:                testCasePrefixedWinsMessageConstant,
			aliasValue:          "12",
			prefixedValue:       "3",
			expectedConcurrency: 3,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(configurationLoaderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			if len(testCase.aliasValue) > 0 {
				testInstance.Setenv(testConcurrencyAliasConstant, testCase.aliasValue)
			}
			if len(testCase.prefixedValue) > 0 {
				testInstance.Setenv(testPrefixedConcurrencyVariableConstant, testCase.prefixedValue)
			}

			configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})
			configurationLoader.SetEnvironmentAliases(testConcurrencyKeyConstant, testConcurrencyAliasConstant)

			defaultValues := map[string]any{
				testConcurrencyKeyConstant: testDefaultConcurrencyConstant,
			}

			loadedConfiguration := organizeConfigurationFixture{}
			_, loadError := configurationLoader.LoadConfiguration("", defaultValues, &loadedConfiguration)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedConcurrency, loadedConfiguration.Organize.Concurrency)
		})
	}
}

func TestConfigurationLoaderDecodesCommaSeparatedSlices(testInstance *testing.T) {
	testInstance.Setenv(testPrefixedActionsVariableConstant, "close-issues,transfer")

	configurationLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{testInstance.TempDir()})

	defaultValues := map[string]any{
		testActionsKeyConstant: []string{},
	}

	loadedConfiguration := organizeConfigurationFixture{}
	_, loadError := configurationLoader.LoadConfiguration("", defaultValues, &loadedConfiguration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"close-issues", "transfer"}, loadedConfiguration.Organize.Actions)
}
