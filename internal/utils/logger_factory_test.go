package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/organizer/internal/utils"
)

const (
	testLoggerFactoryCaseSupportedFormatConstant   = "supported_log_level_%s_format_%s"
	testLoggerFactoryCaseUnsupportedLevelConstant  = "unsupported_log_level"
	testLoggerFactoryCaseUnsupportedFormatConstant = "unsupported_log_format"
	testLoggerFactorySubtestTemplateConstant       = "%d_%s"
	testInvalidLogLevelConstant                    = "invalid"
	testInvalidLogFormatConstant                   = "invalid"
	testLogMessageConstant                         = "logger_factory_test_message"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name                string
		requestedLogLevel   utils.LogLevel
		requestedLogFormat  utils.LogFormat
		expectError         bool
		expectStructuredLog bool
	}{
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelDebug, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelDebug,
			requestedLogFormat:  utils.LogFormatStructured,
			expectError:         false,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatStructured),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatStructured,
			expectError:         false,
			expectStructuredLog: true,
		},
		{
			name:                fmt.Sprintf(testLoggerFactoryCaseSupportedFormatConstant, utils.LogLevelInfo, utils.LogFormatConsole),
			requestedLogLevel:   utils.LogLevelInfo,
			requestedLogFormat:  utils.LogFormatConsole,
			expectError:         false,
			expectStructuredLog: false,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedLevelConstant,
			requestedLogLevel:  utils.LogLevel(testInvalidLogLevelConstant),
			requestedLogFormat: utils.LogFormatStructured,
			expectError:        true,
		},
		{
			name:               testLoggerFactoryCaseUnsupportedFormatConstant,
			requestedLogLevel:  utils.LogLevelInfo,
			requestedLogFormat: utils.LogFormat(testInvalidLogFormatConstant),
			expectError:        true,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testLoggerFactorySubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			loggerFactory := utils.NewLoggerFactory()

			pipeReader, pipeWriter, pipeError := os.Pipe()
			require.NoError(testInstance, pipeError)

			originalStderr := os.Stderr
			os.Stderr = pipeWriter

			logger, creationError := loggerFactory.CreateLogger(testCase.requestedLogLevel, testCase.requestedLogFormat)

			os.Stderr = originalStderr

			if testCase.expectError {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)

				require.NoError(testInstance, pipeWriter.Close())
				require.NoError(testInstance, pipeReader.Close())
				return
			}

			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)

			logger.Info(testLogMessageConstant)
			syncError := logger.Sync()
			if syncError != nil {
				require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
			}

			require.NoError(testInstance, pipeWriter.Close())

			capturedOutput, readError := io.ReadAll(pipeReader)
			require.NoError(testInstance, readError)
			require.NoError(testInstance, pipeReader.Close())

			trimmedOutput := bytes.TrimSpace(capturedOutput)
			require.NotEmpty(testInstance, trimmedOutput)
			require.Contains(testInstance, string(trimmedOutput), testLogMessageConstant)

			isJSONLog := json.Valid(trimmedOutput)
			if testCase.expectStructuredLog {
				require.True(testInstance, isJSONLog)
			} else {
				require.False(testInstance, isJSONLog)
			}
		})
	}
}

func TestParseLoggingOptions(testInstance *testing.T) {
	testCases := []struct {
		name           string
		rawLevel       string
		rawFormat      string
		expectedLevel  utils.LogLevel
		expectedFormat utils.LogFormat
	}{
		{name: "canonical", rawLevel: "debug", rawFormat: "console", expectedLevel: utils.LogLevelDebug, expectedFormat: utils.LogFormatConsole},
		{name: "mixed_case", rawLevel: " INFO ", rawFormat: "Structured", expectedLevel: utils.LogLevelInfo, expectedFormat: utils.LogFormatStructured},
		{name: "aliases", rawLevel: "warning", rawFormat: "json", expectedLevel: utils.LogLevelWarn, expectedFormat: utils.LogFormatStructured},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			level, levelError := utils.ParseLogLevel(testCase.rawLevel)
			require.NoError(testInstance, levelError)
			require.Equal(testInstance, testCase.expectedLevel, level)

			format, formatError := utils.ParseLogFormat(testCase.rawFormat)
			require.NoError(testInstance, formatError)
			require.Equal(testInstance, testCase.expectedFormat, format)
		})
	}

	_, levelError := utils.ParseLogLevel(testInvalidLogLevelConstant)
	require.ErrorContains(testInstance, levelError, "unsupported log level")
	_, formatError := utils.ParseLogFormat(testInvalidLogFormatConstant)
	require.ErrorContains(testInstance, formatError, "unsupported log format")
}

func TestSuppressBelowDropsLowerEntries(testInstance *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	logger := utils.SuppressBelow(zap.New(core), utils.LogLevelError)

	logger.Info(testLogMessageConstant)
	logger.Warn(testLogMessageConstant)
	logger.Error(testLogMessageConstant)

	require.Equal(testInstance, 1, recorded.Len())
	require.Equal(testInstance, zapcore.ErrorLevel, recorded.All()[0].Level)
	require.NotNil(testInstance, utils.SuppressBelow(nil, utils.LogLevelError))
}
