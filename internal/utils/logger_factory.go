package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	emptyEncoderKeyConstant              = ""
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

var logLevelAliases = map[string]LogLevel{
	"warning": LogLevelWarn,
}

var logFormatAliases = map[string]LogFormat{
	jsonZapEncodingStringConstant: LogFormatStructured,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// ParseLogLevel normalizes a configured level. Case and surrounding spaces are ignored and "warning" means warn.
func ParseLogLevel(raw string) (LogLevel, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if alias, isAlias := logLevelAliases[normalized]; isAlias {
		return alias, nil
	}
	level := LogLevel(normalized)
	if _, supported := logLevelMapping[level]; !supported {
		return "", fmt.Errorf(unsupportedLogLevelTemplateConstant, raw)
	}
	return level, nil
}

// ParseLogFormat normalizes a configured format. "json" is accepted for structured output.
func ParseLogFormat(raw string) (LogFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if alias, isAlias := logFormatAliases[normalized]; isAlias {
		return alias, nil
	}
	format := LogFormat(normalized)
	if _, supported := logFormatEncodingMapping[format]; !supported {
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, raw)
	}
	return format, nil
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
// Console output drops timestamps and callers so it reads like the rest of the terminal output.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	logLevel, levelError := ParseLogLevel(string(requestedLogLevel))
	if levelError != nil {
		return nil, levelError
	}
	logFormat, formatError := ParseLogFormat(string(requestedLogFormat))
	if formatError != nil {
		return nil, formatError
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(logLevelMapping[logLevel])
	configuration.Encoding = logFormatEncodingMapping[logFormat]

	if logFormat == LogFormatConsole {
		configuration.EncoderConfig.TimeKey = emptyEncoderKeyConstant
		configuration.EncoderConfig.CallerKey = emptyEncoderKeyConstant
		configuration.EncoderConfig.StacktraceKey = emptyEncoderKeyConstant
		configuration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		configuration.DisableStacktrace = true
	}

	return configuration.Build()
}

// SuppressBelow returns a logger that drops entries under minimum. It keeps a live status display
// readable while it owns the terminal.
func SuppressBelow(logger *zap.Logger, minimum LogLevel) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	zapLevel, supported := logLevelMapping[minimum]
	if !supported || !logger.Core().Enabled(zapLevel-1) {
		return logger
	}
	return logger.WithOptions(zap.IncreaseLevel(zapLevel))
}
