//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// StubCheckCommand is a stub implementation of commands.Check.
type StubCheckCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Results          []commands.CheckResult
	LastSettings     *entities.Settings
	LastOpts         commands.CheckOptions
}

var _ commands.Check = (*StubCheckCommand)(nil)

func (s *StubCheckCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.CheckOptions,
) ([]commands.CheckResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	return s.Results, s.ExecuteErr
}
