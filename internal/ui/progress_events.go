package ui

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/organizer/internal/repos/shared"
	"github.com/temirov/organizer/internal/workflow"
)

const (
	repositoryStartedMessageTemplateConstant   = "Organizing %s"
	repositoryProgressMessageTemplateConstant  = "%s: %s"
	repositoryCompletedMessageTemplateConstant = "Organized %s (%s)"
	repositoryUnchangedMessageTemplateConstant = "Nothing to change in %s"
	repositoryFailedMessageTemplateConstant    = "%s failed: %s"
	stepsJoinSeparatorConstant                 = ", "
	unknownFailureMessageConstant              = "unknown error"
)

// ProgressEventFormatter builds human-readable messages for repository task events.
type ProgressEventFormatter struct{}

// BuildStartedMessage formats the message describing a repository task about to run.
func (formatter ProgressEventFormatter) BuildStartedMessage(repository shared.Repository) string {
	return fmt.Sprintf(repositoryStartedMessageTemplateConstant, repository.FullName)
}

// BuildProgressMessage formats an intermediate status of a repository task.
func (formatter ProgressEventFormatter) BuildProgressMessage(repository shared.Repository, status string) string {
	return fmt.Sprintf(repositoryProgressMessageTemplateConstant, repository.FullName, strings.TrimSpace(status))
}

// BuildCompletedMessage formats the final state of a repository task.
func (formatter ProgressEventFormatter) BuildCompletedMessage(result workflow.RunResult) string {
	switch {
	case !result.Succeeded():
		failureMessage := unknownFailureMessageConstant
		if result.Error != nil {
			failureMessage = result.Error.Error()
		}
		return fmt.Sprintf(repositoryFailedMessageTemplateConstant, result.Repository.FullName, failureMessage)
	case result.NoOp():
		return fmt.Sprintf(repositoryUnchangedMessageTemplateConstant, result.Repository.FullName)
	default:
		return fmt.Sprintf(repositoryCompletedMessageTemplateConstant, result.Repository.FullName, formatSteps(result.Steps))
	}
}

func formatSteps(steps []workflow.StepResult) string {
	renderedSteps := make([]string, 0, len(steps))
	for _, step := range steps {
		renderedSteps = append(renderedSteps, step.String())
	}
	return strings.Join(renderedSteps, stepsJoinSeparatorConstant)
}

// ConsoleProgressLogger renders repository task events using a zap logger configured for human-readable output.
type ConsoleProgressLogger struct {
	logger    *zap.Logger
	formatter ProgressEventFormatter
}

// NewConsoleProgressLogger constructs a console progress logger backed by the provided zap logger.
func NewConsoleProgressLogger(logger *zap.Logger) *ConsoleProgressLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleProgressLogger{logger: logger, formatter: ProgressEventFormatter{}}
}

// RepositoryStarted implements workflow.ProgressObserver.
func (progressLogger *ConsoleProgressLogger) RepositoryStarted(repository shared.Repository) {
	if progressLogger == nil {
		return
	}
	progressLogger.logger.Info(progressLogger.formatter.BuildStartedMessage(repository))
}

// RepositoryProgress implements workflow.ProgressObserver.
func (progressLogger *ConsoleProgressLogger) RepositoryProgress(repository shared.Repository, status string) {
	if progressLogger == nil {
		return
	}
	progressLogger.logger.Info(progressLogger.formatter.BuildProgressMessage(repository, status))
}

// RepositoryCompleted implements workflow.ProgressObserver. Failures are logged as warnings.
func (progressLogger *ConsoleProgressLogger) RepositoryCompleted(repository shared.Repository, result workflow.RunResult) {
	if progressLogger == nil {
		return
	}
	if result.Succeeded() {
		progressLogger.logger.Info(progressLogger.formatter.BuildCompletedMessage(result))
		return
	}
	progressLogger.logger.Warn(progressLogger.formatter.BuildCompletedMessage(result))
}

var _ workflow.ProgressObserver = (*ConsoleProgressLogger)(nil)
