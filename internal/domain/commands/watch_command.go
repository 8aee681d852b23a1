package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/qtech/forgeupdates/internal/domain/entities"
	infraRepos "github.com/qtech/forgeupdates/internal/infrastructure/repositories"
)

// Watch is the interface for the watch command.
type Watch interface {
	Execute(ctx context.Context, settings *entities.Settings, opts WatchOptions) error
}

// WatchOptions holds runtime options for the watch loop.
type WatchOptions struct {
	OnNotice func(entities.UpdateNotice)
}

// WatchCommand runs the poller at the configured tick rate until ctx is cancelled.
type WatchCommand struct {
	runtimes *infraRepos.RuntimeFactory
}

// NewWatchCommand creates a new WatchCommand.
func NewWatchCommand(runtimes *infraRepos.RuntimeFactory) *WatchCommand {
	return &WatchCommand{runtimes: runtimes}
}

func (it *WatchCommand) Execute(ctx context.Context, settings *entities.Settings, opts WatchOptions) error {
	runtime, err := it.runtimes.Build(settings)
	if err != nil {
		return err
	}

	poller := NewPollCommand(runtime.Updaters, PollOptions{
		IntervalTicks: settings.Poll.IntervalTicks,
		Concurrency:   settings.Poll.Concurrency,
		DevMode:       settings.DevMode,
		OnNotice:      opts.OnNotice,
	})

	logger.Infof(
		"Watching %d component(s) every %d ticks of %s",
		len(runtime.Updaters.Names()), settings.Poll.IntervalTicks, settings.TickDuration(),
	)
	return poller.Run(ctx, settings.TickDuration())
}
