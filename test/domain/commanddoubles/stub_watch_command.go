//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/qtech/forgeupdates/internal/domain/commands"
	"github.com/qtech/forgeupdates/internal/domain/entities"
)

// StubWatchCommand is a stub implementation of commands.Watch. It hands every
// configured notice to the caller's hook and returns.
type StubWatchCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Notices          []entities.UpdateNotice
	LastSettings     *entities.Settings
}

var _ commands.Watch = (*StubWatchCommand)(nil)

func (s *StubWatchCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.WatchOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	if opts.OnNotice != nil {
		for _, notice := range s.Notices {
			opts.OnNotice(notice)
		}
	}
	return s.ExecuteErr
}
