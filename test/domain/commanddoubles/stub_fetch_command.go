//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// StubFetchCommand is a stub implementation of commands.Fetch. Task is
// returned as is, so tests start it themselves with a DownloadCommand.
type StubFetchCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Task             *commands.DownloadTask
	LastSettings     *entities.Settings
	LastOpts         commands.FetchOptions
}

var _ commands.Fetch = (*StubFetchCommand)(nil)

func (s *StubFetchCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.FetchOptions,
) (*commands.DownloadTask, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	return s.Task, nil
}
