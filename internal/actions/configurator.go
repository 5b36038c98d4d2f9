package actions

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/organizer/internal/repos/shared"
)

const (
	configuredActionMessageConstant = "Configured action"
	logFieldActionConstant          = "action"
	logFieldSettingsConstant        = "settings"
	logFieldDestinationConstant     = "destination_owner"
)

// ParameterPrompter resolves the operator-supplied parameters of configurable actions.
type ParameterPrompter interface {
	SelectSettings(executionContext context.Context) (shared.SettingsPatch, error)
	SelectTransferDestination(executionContext context.Context, organizations []string) (string, error)
}

// ConfiguratorOptions tunes which actions may be configured.
type ConfiguratorOptions struct {
	DeleteEnabled bool
	Logger        *zap.Logger
}

// Configurator turns action kinds into configured actions.
type Configurator struct {
	client        shared.RepositoryClient
	prompter      ParameterPrompter
	deleteEnabled bool
	logger        *zap.Logger
}

// NewConfigurator constructs a Configurator.
func NewConfigurator(client shared.RepositoryClient, prompter ParameterPrompter, options ConfiguratorOptions) (*Configurator, error) {
	if client == nil {
		return nil, ErrClientNotConfigured
	}
	if prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Configurator{client: client, prompter: prompter, deleteEnabled: options.DeleteEnabled, logger: logger}, nil
}

// BuildChain applies the selection policy to the requested kinds and configures each remaining kind in order.
// The first configuration failure aborts the whole chain.
func (configurator *Configurator) BuildChain(executionContext context.Context, requestedKinds []Kind) (Chain, error) {
	selectedKinds := SelectKinds(requestedKinds)
	chain := make(Chain, 0, len(selectedKinds))
	for _, kind := range selectedKinds {
		action, configurationError := configurator.Configure(executionContext, kind)
		if configurationError != nil {
			return nil, configurationError
		}
		chain = append(chain, action)
	}
	return chain, nil
}

// Configure resolves every parameter for one kind. It never inspects a specific repository.
func (configurator *Configurator) Configure(executionContext context.Context, kind Kind) (Action, error) {
	switch kind {
	case KindCloseIssues:
		configurator.logger.Debug(configuredActionMessageConstant, zap.Stringer(logFieldActionConstant, kind))
		return NewCloseIssuesAction(configurator.client), nil
	case KindClosePullRequests:
		configurator.logger.Debug(configuredActionMessageConstant, zap.Stringer(logFieldActionConstant, kind))
		return NewClosePullRequestsAction(configurator.client), nil
	case KindUpdateSettings:
		return configurator.configureUpdateSettings(executionContext)
	case KindTransfer:
		return configurator.configureTransfer(executionContext)
	case KindDelete:
		if !configurator.deleteEnabled {
			return nil, ConfigurationError{Kind: kind, Cause: ErrDeleteNotEnabled}
		}
		configurator.logger.Debug(configuredActionMessageConstant, zap.Stringer(logFieldActionConstant, kind))
		return NewDeleteAction(configurator.client), nil
	default:
		return nil, ConfigurationError{Kind: kind, Cause: fmt.Errorf(unknownKindTemplateConstant, kind.String())}
	}
}

func (configurator *Configurator) configureUpdateSettings(executionContext context.Context) (Action, error) {
	patch, promptError := configurator.prompter.SelectSettings(executionContext)
	if promptError != nil {
		return nil, ConfigurationError{Kind: KindUpdateSettings, Cause: promptError}
	}
	if patch.Archived != nil && !*patch.Archived {
		return nil, ConfigurationError{Kind: KindUpdateSettings, Cause: ErrUnarchiveNotSupported}
	}

	configurator.logger.Debug(configuredActionMessageConstant,
		zap.Stringer(logFieldActionConstant, KindUpdateSettings),
		zap.Any(logFieldSettingsConstant, patch.Payload()),
	)
	return NewUpdateSettingsAction(configurator.client, patch), nil
}

func (configurator *Configurator) configureTransfer(executionContext context.Context) (Action, error) {
	organizations, listError := configurator.client.ListOrganizations(executionContext)
	if listError != nil {
		return nil, ConfigurationError{Kind: KindTransfer, Cause: listError}
	}
	if len(organizations) == 0 {
		return nil, ConfigurationError{Kind: KindTransfer, Cause: ErrNoTransferDestinations}
	}

	destinationOwner, promptError := configurator.prompter.SelectTransferDestination(executionContext, organizations)
	if promptError != nil {
		return nil, ConfigurationError{Kind: KindTransfer, Cause: promptError}
	}
	destinationOwner = strings.TrimSpace(destinationOwner)
	if len(destinationOwner) == 0 {
		return nil, ConfigurationError{Kind: KindTransfer, Cause: ErrNoTransferDestinations}
	}

	configurator.logger.Debug(configuredActionMessageConstant,
		zap.Stringer(logFieldActionConstant, KindTransfer),
		zap.String(logFieldDestinationConstant, destinationOwner),
	)
	return NewTransferAction(configurator.client, destinationOwner), nil
}
