package commands

import (
	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
	infraRepos "github.com/qtech/forgeupdates/internal/infrastructure/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(settings *entities.Settings) ([]repositories.UpdaterRepository, error)
}

// ListCommand returns the updaters built from the configured components
// without touching the network.
type ListCommand struct {
	runtimes *infraRepos.RuntimeFactory
}

// NewListCommand creates a new ListCommand.
func NewListCommand(runtimes *infraRepos.RuntimeFactory) *ListCommand {
	return &ListCommand{runtimes: runtimes}
}

func (it *ListCommand) Execute(settings *entities.Settings) ([]repositories.UpdaterRepository, error) {
	runtime, err := it.runtimes.Build(settings)
	if err != nil {
		return nil, err
	}
	return runtime.Updaters.All(), nil
}
