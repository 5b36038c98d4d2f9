package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	describedFailureTemplateConstant        = "%s failed with exit code %d%s"
	describedExecutionFailureTemplateConst  = "%s failed: %s"
	describedSuccessTemplateConstant        = "%s succeeded"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	endpointQuerySeparatorConstant          = "?"
	endpointPathSeparatorConstant           = "/"
)

const (
	githubAPICommandNameConstant   = "api"
	githubMethodFlagConstant       = "-X"
	githubMethodGetConstant        = "GET"
	githubMethodPatchConstant      = "PATCH"
	githubMethodPostConstant       = "POST"
	githubMethodDeleteConstant     = "DELETE"
	githubEndpointUserConstant     = "user"
	githubEndpointReposConstant    = "repos"
	githubEndpointOrgsConstant     = "orgs"
	githubEndpointIssuesConstant   = "issues"
	githubEndpointPullsConstant    = "pulls"
	githubEndpointTransferConstant = "transfer"
)

const (
	describeAuthenticatedUserConstant     = "Resolving authenticated user"
	describeOrganizationsConstant         = "Listing organizations of authenticated user"
	describeUserRepositoriesConstant      = "Listing repositories owned by authenticated user"
	describeOrganizationRepositoriesConst = "Listing repositories of %s"
	describeOpenIssuesTemplateConstant    = "Listing open issues of %s"
	describeCloseIssueTemplateConstant    = "Closing issue #%s in %s"
	describeOpenPullsTemplateConstant     = "Listing open pull requests of %s"
	describeClosePullTemplateConstant     = "Closing pull request #%s in %s"
	describePatchTemplateConstant         = "Updating settings of %s"
	describeTransferTemplateConstant      = "Transferring %s"
	describeDeleteTemplateConstant        = "Deleting %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandGitHub {
		if description := formatter.describeGitHubAPICommand(command.Details.Arguments); len(description) > 0 {
			return formatter.buildDescribedMessage(description, result, failure, stage)
		}
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

// describeGitHubAPICommand maps gh api invocations onto the repository operations they perform.
func (formatter CommandMessageFormatter) describeGitHubAPICommand(arguments []string) string {
	if len(arguments) < 2 || strings.TrimSpace(arguments[0]) != githubAPICommandNameConstant {
		return emptyStringConstant
	}

	endpoint := formatter.extractEndpoint(arguments[1:])
	method := strings.ToUpper(strings.TrimSpace(findFlagValue(arguments, githubMethodFlagConstant)))
	if len(method) == 0 {
		method = githubMethodGetConstant
	}

	segments := strings.Split(strings.Trim(endpoint, endpointPathSeparatorConstant), endpointPathSeparatorConstant)

	switch {
	case len(segments) == 1 && segments[0] == githubEndpointUserConstant:
		return describeAuthenticatedUserConstant
	case len(segments) == 2 && segments[0] == githubEndpointUserConstant && segments[1] == githubEndpointOrgsConstant:
		return describeOrganizationsConstant
	case len(segments) == 2 && segments[0] == githubEndpointUserConstant && segments[1] == githubEndpointReposConstant:
		return describeUserRepositoriesConstant
	case len(segments) == 3 && segments[0] == githubEndpointOrgsConstant && segments[2] == githubEndpointReposConstant:
		return fmt.Sprintf(describeOrganizationRepositoriesConst, segments[1])
	case len(segments) < 3 || segments[0] != githubEndpointReposConstant:
		return emptyStringConstant
	}

	repository := segments[1] + endpointPathSeparatorConstant + segments[2]
	remainder := segments[3:]

	switch {
	case len(remainder) == 0 && method == githubMethodPatchConstant:
		return fmt.Sprintf(describePatchTemplateConstant, repository)
	case len(remainder) == 0 && method == githubMethodDeleteConstant:
		return fmt.Sprintf(describeDeleteTemplateConstant, repository)
	case len(remainder) == 1 && remainder[0] == githubEndpointTransferConstant && method == githubMethodPostConstant:
		return fmt.Sprintf(describeTransferTemplateConstant, repository)
	case len(remainder) == 1 && remainder[0] == githubEndpointIssuesConstant:
		return fmt.Sprintf(describeOpenIssuesTemplateConstant, repository)
	case len(remainder) == 1 && remainder[0] == githubEndpointPullsConstant:
		return fmt.Sprintf(describeOpenPullsTemplateConstant, repository)
	case len(remainder) == 2 && remainder[0] == githubEndpointIssuesConstant && method == githubMethodPatchConstant:
		return fmt.Sprintf(describeCloseIssueTemplateConstant, remainder[1], repository)
	case len(remainder) == 2 && remainder[0] == githubEndpointPullsConstant && method == githubMethodPatchConstant:
		return fmt.Sprintf(describeClosePullTemplateConstant, remainder[1], repository)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) extractEndpoint(arguments []string) string {
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := strings.TrimSpace(arguments[argumentIndex])
		if strings.HasPrefix(argument, "-") {
			continue
		}
		if argumentIndex > 0 && strings.HasPrefix(strings.TrimSpace(arguments[argumentIndex-1]), "-") && !formatter.isStandaloneFlag(arguments[argumentIndex-1]) {
			continue
		}
		endpoint, _, _ := strings.Cut(argument, endpointQuerySeparatorConstant)
		return endpoint
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) isStandaloneFlag(flag string) bool {
	switch strings.TrimSpace(flag) {
	case "--paginate", "--slurp", "--silent", "--include":
		return true
	default:
		return false
	}
}

func (formatter CommandMessageFormatter) buildDescribedMessage(description string, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return description
	case messageStageSuccess:
		return fmt.Sprintf(describedSuccessTemplateConstant, description)
	case messageStageFailure:
		return fmt.Sprintf(describedFailureTemplateConstant, description, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(describedExecutionFailureTemplateConst, description, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func findFlagValue(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag {
			return strings.TrimSpace(arguments[argumentIndex+1])
		}
	}
	return emptyStringConstant
}
