package organize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/plan"
	"github.com/temirov/organizer/internal/repos/shared"
	"github.com/temirov/organizer/internal/ui"
	"github.com/temirov/organizer/internal/utils"
	"github.com/temirov/organizer/internal/workflow"
)

const (
	commandUseConstant                    = "organize"
	commandShortDescriptionConstant       = "Apply maintenance actions to many GitHub repositories at once"
	commandLongDescriptionConstant        = "organize closes issues and pull requests, updates settings, transfers or deletes a selection of repositories owned by a user or organization."
	commandExecutionErrorTemplateConstant = "organize failed: %w"
	loadPlanErrorTemplateConstant         = "unable to load run plan: %w"
	parseActionsErrorTemplateConstant     = "invalid actions: %w"
	unexpectedArgumentsMessageConstant    = "organize does not accept positional arguments"
	flagOwnerNameConstant                 = "owner"
	flagOwnerDescriptionConstant          = "User or organization whose repositories are organized"
	flagConcurrencyNameConstant           = "concurrency"
	flagConcurrencyDescriptionConstant    = "Number of repositories processed at once"
	flagBackendNameConstant               = "backend"
	flagBackendDescriptionConstant        = "GitHub access backend: api (token) or cli (gh)"
	flagBaseURLNameConstant               = "base-url"
	flagBaseURLDescriptionConstant        = "GitHub Enterprise API base URL"
	flagPlanNameConstant                  = "plan"
	flagPlanDescriptionConstant           = "YAML run plan answering every prompt"
	flagActionsNameConstant               = "actions"
	flagActionsDescriptionConstant        = "Actions to run (close-issues, close-pull-requests, update-settings, transfer, delete)"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Log mutations without sending them"
	flagAssumeYesNameConstant             = "yes"
	flagAssumeYesShorthandConstant        = "y"
	flagAssumeYesDescriptionConstant      = "Skip the final confirmation"
	flagEnableDeleteNameConstant          = "enable-delete"
	flagEnableDeleteDescriptionConstant   = "Offer the delete action"
	environmentPairSeparatorConstant      = "="
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// PrompterFactory builds the interactive prompter for a command invocation.
type PrompterFactory func(command *cobra.Command) Prompter

// CommandBuilder assembles the organize command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() Configuration
	PrompterFactory              PrompterFactory
	ClientFactory                ClientFactory
	EnvironmentProvider          func() map[string]string
}

// Build constructs the organize command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagOwnerNameConstant, "", flagOwnerDescriptionConstant)
	command.Flags().Int(flagConcurrencyNameConstant, workflow.DefaultConcurrency, flagConcurrencyDescriptionConstant)
	command.Flags().String(flagBackendNameConstant, string(BackendAPI), flagBackendDescriptionConstant)
	command.Flags().String(flagBaseURLNameConstant, "", flagBaseURLDescriptionConstant)
	command.Flags().String(flagPlanNameConstant, "", flagPlanDescriptionConstant)
	command.Flags().StringSlice(flagActionsNameConstant, nil, flagActionsDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescriptionConstant)
	command.Flags().BoolP(flagAssumeYesNameConstant, flagAssumeYesShorthandConstant, false, flagAssumeYesDescriptionConstant)
	command.Flags().Bool(flagEnableDeleteNameConstant, false, flagEnableDeleteDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.applyFlags(command, builder.resolveConfiguration())
	kinds, kindsError := actions.ParseKinds(configuration.Actions)
	if kindsError != nil {
		return fmt.Errorf(parseActionsErrorTemplateConstant, kindsError)
	}
	backend, backendError := ParseBackend(configuration.Backend)
	if backendError != nil {
		return backendError
	}

	logger := builder.resolveLogger()
	prompter, prompterError := builder.resolvePrompter(command, configuration)
	if prompterError != nil {
		return prompterError
	}

	clientFactory := builder.ClientFactory
	if clientFactory == nil {
		clientFactory = NewRepositoryClient
	}
	client, clientError := clientFactory(command.Context(), ClientOptions{
		Backend:       backend,
		BaseURL:       configuration.BaseURL,
		DryRun:        configuration.DryRun,
		Environment:   builder.resolveEnvironment(),
		TokenPrompter: prompter,
		Logger:        logger,
	})
	if clientError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, clientError)
	}

	output := utils.NewConsoleWriter(command.OutOrStdout())
	liveDisplay := builder.liveDisplayEnabled(output, configuration)
	executionLogger := logger
	if liveDisplay {
		executionLogger = utils.SuppressBelow(logger, utils.LogLevelError)
	}
	service, serviceError := NewService(Dependencies{
		Logger:          logger,
		ExecutionLogger: executionLogger,
		Client:          client,
		Prompter:        prompter,
		ObserverFactory: builder.observerFactory(output, liveDisplay, logger),
		Output:          output,
	})
	if serviceError != nil {
		return serviceError
	}

	runError := service.Run(command.Context(), Options{
		Owner:        configuration.Owner,
		Concurrency:  configuration.Concurrency,
		EnableDelete: configuration.EnableDelete,
		Actions:      kinds,
		AssumeYes:    configuration.AssumeYes,
		DryRun:       configuration.DryRun,
	})
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}
	return nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration().Sanitize()
	}
	return builder.ConfigurationProvider().Sanitize()
}

// applyFlags overrides configuration values with explicitly set flags.
func (builder *CommandBuilder) applyFlags(command *cobra.Command, configuration Configuration) Configuration {
	flags := command.Flags()
	if flags.Changed(flagOwnerNameConstant) {
		configuration.Owner, _ = flags.GetString(flagOwnerNameConstant)
	}
	if flags.Changed(flagConcurrencyNameConstant) {
		configuration.Concurrency, _ = flags.GetInt(flagConcurrencyNameConstant)
	}
	if flags.Changed(flagBackendNameConstant) {
		configuration.Backend, _ = flags.GetString(flagBackendNameConstant)
	}
	if flags.Changed(flagBaseURLNameConstant) {
		configuration.BaseURL, _ = flags.GetString(flagBaseURLNameConstant)
	}
	if flags.Changed(flagPlanNameConstant) {
		configuration.Plan, _ = flags.GetString(flagPlanNameConstant)
	}
	if flags.Changed(flagActionsNameConstant) {
		configuration.Actions, _ = flags.GetStringSlice(flagActionsNameConstant)
	}
	if flags.Changed(flagDryRunNameConstant) {
		configuration.DryRun, _ = flags.GetBool(flagDryRunNameConstant)
	}
	if flags.Changed(flagAssumeYesNameConstant) {
		configuration.AssumeYes, _ = flags.GetBool(flagAssumeYesNameConstant)
	}
	if flags.Changed(flagEnableDeleteNameConstant) {
		configuration.EnableDelete, _ = flags.GetBool(flagEnableDeleteNameConstant)
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command, configuration Configuration) (Prompter, error) {
	if len(configuration.Plan) > 0 {
		runPlan, loadError := plan.Load(configuration.Plan)
		if loadError != nil {
			return nil, fmt.Errorf(loadPlanErrorTemplateConstant, loadError)
		}
		return plan.NewPrompter(runPlan), nil
	}

	if builder.PrompterFactory != nil {
		if prompter := builder.PrompterFactory(command); prompter != nil {
			return prompter, nil
		}
	}

	return ui.NewFormPrompter(ui.FormPrompterOptions{
		Input:      command.InOrStdin(),
		Output:     command.ErrOrStderr(),
		Accessible: !ui.IsTerminal(command.InOrStdin()),
	}), nil
}

// liveDisplayEnabled reports whether the status board may own the terminal. Console logging and
// dry runs write log lines during execution, which would break the in-place redraw.
func (builder *CommandBuilder) liveDisplayEnabled(output *utils.ConsoleWriter, configuration Configuration) bool {
	if configuration.DryRun {
		return false
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		return false
	}
	return ui.IsTerminal(output)
}

func (builder *CommandBuilder) observerFactory(output *utils.ConsoleWriter, liveDisplay bool, logger *zap.Logger) ObserverFactory {
	return func(repositories []shared.Repository) workflow.ProgressObserver {
		if liveDisplay {
			return ui.NewStatusBoard(output, repositories, true)
		}
		return ui.NewConsoleProgressLogger(logger)
	}
}

func (builder *CommandBuilder) resolveEnvironment() map[string]string {
	if builder.EnvironmentProvider != nil {
		return builder.EnvironmentProvider()
	}

	environment := map[string]string{}
	for _, pair := range os.Environ() {
		key, value, found := strings.Cut(pair, environmentPairSeparatorConstant)
		if found {
			environment[key] = value
		}
	}
	return environment
}

var (
	_ Prompter = (*ui.FormPrompter)(nil)
	_ Prompter = (*plan.Prompter)(nil)
)
