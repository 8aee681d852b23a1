package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
	infraRepos "github.com/qtech/forgeupdates/internal/infrastructure/repositories"
)

// Check is the interface for the check command.
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CheckOptions) ([]CheckResult, error)
}

// CheckOptions holds runtime options for a single check.
type CheckOptions struct {
	ComponentID string // If set, only check this component
}

// CheckResult pairs a component with the outcome of its check.
type CheckResult struct {
	Component      entities.Component
	CurrentVersion entities.Version
	Info           entities.UpdateInfo
}

// CheckCommand runs one update check for the configured components.
type CheckCommand struct {
	runtimes *infraRepos.RuntimeFactory
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(runtimes *infraRepos.RuntimeFactory) *CheckCommand {
	return &CheckCommand{runtimes: runtimes}
}

// Execute checks every component, or only opts.ComponentID when set.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
) ([]CheckResult, error) {
	runtime, err := it.runtimes.Build(settings)
	if err != nil {
		return nil, err
	}

	targets, err := selectUpdaters(runtime.Updaters, opts.ComponentID)
	if err != nil {
		return nil, err
	}

	results := make([]CheckResult, 0, len(targets))
	for _, updater := range targets {
		logger.Debugf("[%s] Checking %s", updater.ID(), updater.Component().ManifestURL)
		results = append(results, CheckResult{
			Component:      updater.Component(),
			CurrentVersion: updater.CurrentVersion(),
			Info:           updater.CheckForUpdates(ctx),
		})
	}
	return results, nil
}

// selectUpdaters returns the updater registered under id, or all of them when id is empty.
func selectUpdaters(registry *infraRepos.UpdaterRegistry, id string) ([]repositories.UpdaterRepository, error) {
	if id == "" {
		return registry.All(), nil
	}
	updater, ok := registry.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", entities.ErrNotFound, id, registry.Names())
	}
	return []repositories.UpdaterRepository{updater}, nil
}
