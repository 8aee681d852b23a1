//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
	"github.com/qtech/forgeupdates/internal/domain/repositories"
)

// StubListCommand is a stub implementation of commands.List.
type StubListCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Updaters         []repositories.UpdaterRepository
	LastSettings     *entities.Settings
}

var _ commands.List = (*StubListCommand)(nil)

func (s *StubListCommand) Execute(settings *entities.Settings) ([]repositories.UpdaterRepository, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	return s.Updaters, s.ExecuteErr
}
